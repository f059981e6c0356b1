package printer

import (
	"encoding/hex"
	"fmt"

	"github.com/joshuapare/blockarena/arena"
)

// printBlocksText prints one line per block:
//
//	  OFFSET  STATE       TAG  PAYLOAD
//	       0  used         -4  [4,8)
func (p *Printer) printBlocksText(blocks []arena.Block, data []byte) error {
	if _, err := fmt.Fprintf(p.writer, "%8s  %-5s %8s  %s\n", "OFFSET", "STATE", "TAG", "PAYLOAD"); err != nil {
		return err
	}
	for _, b := range blocks {
		state := "used"
		if b.Free {
			state = "free"
		}
		line := fmt.Sprintf("%8d  %-5s %8d  [%d,%d)", b.Offset, state, b.Tag(), b.Payload(), b.Footer())
		if pv := p.preview(b, data); pv != nil {
			line += "  " + hex.EncodeToString(pv)
			if len(pv) < b.Size {
				line += "..."
			}
		}
		if _, err := fmt.Fprintln(p.writer, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printMetricsText(m arena.Metrics) error {
	_, err := fmt.Fprintf(p.writer,
		"capacity=%d used=%d free=%d overhead=%d blocks=%d (%d used, %d free) largest_free=%d utilization=%.2f fragmentation=%.2f\n",
		m.Capacity, m.UsedBytes, m.FreeBytes, m.OverheadBytes,
		m.Blocks, m.UsedBlocks, m.FreeBlocks, m.LargestFree,
		m.Utilization, m.Fragmentation)
	return err
}
