package printer

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/joshuapare/blockarena/arena"
)

// jsonBlock represents one block in JSON format.
type jsonBlock struct {
	Offset  int    `json:"offset"`
	Tag     int32  `json:"tag"`
	Size    int    `json:"size"`
	Free    bool   `json:"free"`
	Payload [2]int `json:"payload"`
	Data    string `json:"data,omitempty"`
}

// jsonMetrics represents arena.Metrics in JSON format.
type jsonMetrics struct {
	Capacity      int     `json:"capacity"`
	UsedBytes     int     `json:"used_bytes"`
	FreeBytes     int     `json:"free_bytes"`
	OverheadBytes int     `json:"overhead_bytes"`
	Blocks        int     `json:"blocks"`
	UsedBlocks    int     `json:"used_blocks"`
	FreeBlocks    int     `json:"free_blocks"`
	LargestFree   int     `json:"largest_free"`
	Utilization   float64 `json:"utilization"`
	Fragmentation float64 `json:"fragmentation"`
}

type jsonArena struct {
	Blocks  []jsonBlock  `json:"blocks"`
	Metrics *jsonMetrics `json:"metrics,omitempty"`
}

func (p *Printer) toJSONBlocks(blocks []arena.Block, data []byte) []jsonBlock {
	out := make([]jsonBlock, 0, len(blocks))
	for _, b := range blocks {
		jb := jsonBlock{
			Offset:  b.Offset,
			Tag:     int32(b.Tag()),
			Size:    b.Size,
			Free:    b.Free,
			Payload: [2]int{b.Payload(), b.Footer()},
		}
		if pv := p.preview(b, data); pv != nil {
			jb.Data = hex.EncodeToString(pv)
		}
		out = append(out, jb)
	}
	return out
}

func toJSONMetrics(m arena.Metrics) jsonMetrics {
	return jsonMetrics{
		Capacity:      m.Capacity,
		UsedBytes:     m.UsedBytes,
		FreeBytes:     m.FreeBytes,
		OverheadBytes: m.OverheadBytes,
		Blocks:        m.Blocks,
		UsedBlocks:    m.UsedBlocks,
		FreeBlocks:    m.FreeBlocks,
		LargestFree:   m.LargestFree,
		Utilization:   m.Utilization,
		Fragmentation: m.Fragmentation,
	}
}

// printBlocksJSON prints the block list as a JSON array.
func (p *Printer) printBlocksJSON(blocks []arena.Block) error {
	return p.writeJSON(p.toJSONBlocks(blocks, nil))
}

// printArenaJSON prints blocks and optional metrics as one JSON object.
func (p *Printer) printArenaJSON(blocks []arena.Block, data []byte, m *arena.Metrics) error {
	out := jsonArena{Blocks: p.toJSONBlocks(blocks, data)}
	if m != nil {
		jm := toJSONMetrics(*m)
		out.Metrics = &jm
	}
	return p.writeJSON(out)
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
