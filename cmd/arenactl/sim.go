package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockarena/arena"
	"github.com/joshuapare/blockarena/arena/printer"
	"github.com/joshuapare/blockarena/arena/verify"
)

var (
	simCapacity int
	simElemSize int
	simFile     string
	simTrace    bool
	simPayload  bool
	simBacking  string
	simStrict   bool
)

func init() {
	cmd := newSimCmd()
	cmd.Flags().IntVar(&simCapacity, "capacity", 100, "Arena capacity in bytes")
	cmd.Flags().IntVar(&simElemSize, "elem-size", 1, "Element size in bytes")
	cmd.Flags().StringVarP(&simFile, "file", "f", "", "Read ops from a script file (run before ops given as arguments)")
	cmd.Flags().BoolVar(&simTrace, "trace", false, "Print the layout after every op")
	cmd.Flags().BoolVar(&simPayload, "payload", false, "Show a hex preview of allocated payloads")
	cmd.Flags().StringVar(&simBacking, "backing", "heap", "Buffer backing (heap, mmap)")
	cmd.Flags().BoolVar(&simStrict, "strict-refs", true, "Confirm freed refs against the block chain")
	rootCmd.AddCommand(cmd)
}

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim [ops...]",
		Short: "Replay allocate/free ops against a fresh arena",
		Long: `The sim command creates an arena, replays ops against it and prints
the resulting block layout and metrics.

Ops:
  a <count>   allocate count elements; the k-th allocation is handle #k
  f <#k>      free handle #k
  v           validate the block chain
  r           reset the arena (all handles become unknown)
  p           print the current layout

Long forms alloc, free, validate, reset and print are accepted. In script
files, a '#' that does not start a handle begins a comment.

Example:
  arenactl sim a 1 --capacity 100 --elem-size 4
  arenactl sim a 10 a 10 a 10 f #2 f #1 --trace
  arenactl sim --file churn.txt --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(args)
		},
	}
	return cmd
}

// stepResult records the outcome of one op.
type stepResult struct {
	Line   int    `json:"line,omitempty"`
	Op     string `json:"op"`
	Handle int    `json:"handle,omitempty"`
	Ref    uint32 `json:"ref,omitempty"`
	Result string `json:"result"`
}

func (r stepResult) String() string {
	switch {
	case r.Ref != 0:
		return fmt.Sprintf("%-8s -> #%d @%d", r.Op, r.Handle, r.Ref)
	case r.Handle != 0 && r.Result == "miss":
		return fmt.Sprintf("%-8s -> #%d miss", r.Op, r.Handle)
	default:
		return fmt.Sprintf("%-8s -> %s", r.Op, r.Result)
	}
}

// simulator replays ops and tracks the handle -> ref mapping.
type simulator struct {
	a       *arena.Arena
	handles map[int]arena.Ref
	allocs  int
	show    func() error
}

func newSimulator(a *arena.Arena, show func() error) *simulator {
	return &simulator{a: a, handles: make(map[int]arena.Ref), show: show}
}

func (s *simulator) step(o op) (stepResult, error) {
	res := stepResult{Line: o.Line, Op: o.String(), Result: "ok"}

	switch o.Kind {
	case opAlloc:
		s.allocs++
		res.Handle = s.allocs
		ref, err := s.a.Allocate(o.Count)
		if err != nil {
			res.Result = "error"
			return res, fmt.Errorf("%s: %w", o, err)
		}
		// A miss still takes a handle; freeing it is a no-op.
		s.handles[s.allocs] = ref
		if ref == arena.Nil {
			res.Result = "miss"
			return res, nil
		}
		res.Ref = uint32(ref)

	case opFree:
		ref, ok := s.handles[o.Handle]
		if !ok {
			res.Result = "error"
			return res, fmt.Errorf("%s: unknown handle", o)
		}
		if err := s.a.Deallocate(ref); err != nil {
			res.Result = "error"
			return res, fmt.Errorf("%s: %w", o, err)
		}

	case opValidate:
		if err := s.a.Validate(); err != nil {
			res.Result = "invalid"
			return res, fmt.Errorf("%s: %w", o, err)
		}
		// Also catch adjacent free blocks, which Validate does not look for.
		if err := verify.AllInvariants(s.a.Bytes()); err != nil {
			res.Result = "invalid"
			return res, fmt.Errorf("%s: %w", o, err)
		}

	case opReset:
		if err := s.a.Reset(); err != nil {
			res.Result = "error"
			return res, fmt.Errorf("%s: %w", o, err)
		}
		clear(s.handles)

	case opPrint:
		if s.show != nil {
			if err := s.show(); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// simReport is the JSON output of the sim command.
type simReport struct {
	Capacity int             `json:"capacity"`
	ElemSize int             `json:"elem_size"`
	Steps    []stepResult    `json:"steps"`
	Stats    arena.Stats     `json:"stats"`
	Layout   json.RawMessage `json:"layout,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func loadOps(args []string) ([]op, error) {
	var ops []op
	if simFile != "" {
		f, err := os.Open(simFile)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		fileOps, err := parseScript(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", simFile, err)
		}
		ops = append(ops, fileOps...)
	}
	argOps, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	return append(ops, argOps...), nil
}

func simOptions() (arena.Options, error) {
	opts := arena.DefaultOptions()
	opts.ElemSize = simElemSize
	opts.MinPayload = simElemSize
	opts.CheckInvariants = true
	opts.StrictRefs = simStrict
	switch simBacking {
	case "heap":
		opts.Backing = arena.BackingHeap
	case "mmap":
		opts.Backing = arena.BackingMmap
	default:
		return opts, fmt.Errorf("unknown backing: %s (must be heap or mmap)", simBacking)
	}
	return opts, nil
}

func runSim(args []string) error {
	ops, err := loadOps(args)
	if err != nil {
		return err
	}
	opts, err := simOptions()
	if err != nil {
		return err
	}

	printVerbose("Creating %d-byte arena (elem %d, %s)\n", simCapacity, simElemSize, opts.Backing)

	a, err := arena.NewWithOptions(simCapacity, opts)
	if err != nil {
		return fmt.Errorf("create arena: %w", err)
	}
	defer a.Close()

	popts := printer.DefaultOptions()
	popts.ShowPayload = simPayload
	layout := func(metrics bool) error {
		if quiet || jsonOut {
			return nil
		}
		o := popts
		o.ShowMetrics = metrics
		return printer.New(os.Stdout, o).PrintArena(a)
	}

	s := newSimulator(a, func() error { return layout(false) })
	report := simReport{Capacity: simCapacity, ElemSize: simElemSize}

	var runErr error
	for _, o := range ops {
		res, err := s.step(o)
		report.Steps = append(report.Steps, res)
		if !jsonOut {
			printInfo("%s\n", res)
		}
		if err != nil {
			runErr = err
			break
		}
		if simTrace {
			if err := layout(false); err != nil {
				return err
			}
		}
	}
	report.Stats = a.Stats()

	if jsonOut {
		if runErr != nil {
			report.Error = runErr.Error()
		}
		var buf bytes.Buffer
		jopts := popts
		jopts.Format = printer.FormatJSON
		if err := printer.New(&buf, jopts).PrintArena(a); err == nil {
			report.Layout = json.RawMessage(bytes.TrimSpace(buf.Bytes()))
		}
		if err := printJSON(report); err != nil {
			return err
		}
		return runErr
	}

	if runErr != nil {
		return runErr
	}
	printInfo("\n")
	return layout(true)
}
