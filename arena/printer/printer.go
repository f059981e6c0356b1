// Package printer renders the block layout of an arena as text or JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/blockarena/arena"
)

const (
	DefaultMaxPayloadBytes = 16
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs one aligned line per block.
	FormatText Format = "text"

	// FormatJSON outputs JSON.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowPayload includes a hex preview of each allocated payload.
	// Only PrintArena has the bytes to show.
	// Default: false
	ShowPayload bool

	// MaxPayloadBytes limits the payload preview. Set to 0 for no limit.
	// Default: 16
	MaxPayloadBytes int

	// ShowMetrics appends the usage summary after the block list.
	// Default: true
	ShowMetrics bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:          FormatText,
		ShowPayload:     false,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
		ShowMetrics:     true,
	}
}

// Printer writes block layouts to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintArena(a)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// Print renders an already decoded block list.
func (p *Printer) Print(blocks []arena.Block) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printBlocksJSON(blocks)
	default:
		return p.printBlocksText(blocks, nil)
	}
}

// PrintArena decodes the arena's chain and renders it, followed by its
// metrics when ShowMetrics is set.
func (p *Printer) PrintArena(a *arena.Arena) error {
	blocks, err := a.Blocks()
	if err != nil {
		return fmt.Errorf("decode blocks: %w", err)
	}

	var m *arena.Metrics
	if p.opts.ShowMetrics {
		snap, err := a.Metrics()
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		m = &snap
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printArenaJSON(blocks, a.Bytes(), m)
	default:
		if err := p.printBlocksText(blocks, a.Bytes()); err != nil {
			return err
		}
		if m != nil {
			return p.PrintMetrics(*m)
		}
		return nil
	}
}

// PrintMetrics renders a metrics snapshot on its own.
func (p *Printer) PrintMetrics(m arena.Metrics) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.writeJSON(toJSONMetrics(m))
	default:
		return p.printMetricsText(m)
	}
}

// preview returns the payload bytes of b to show, or nil.
func (p *Printer) preview(b arena.Block, data []byte) []byte {
	if !p.opts.ShowPayload || data == nil || b.Free {
		return nil
	}
	start, end := b.Payload(), b.Footer()
	if end > len(data) {
		return nil
	}
	if limit := p.opts.MaxPayloadBytes; limit > 0 && end-start > limit {
		end = start + limit
	}
	return data[start:end]
}
