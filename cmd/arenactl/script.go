package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type opKind int

const (
	opAlloc opKind = iota
	opFree
	opValidate
	opReset
	opPrint
)

// op is one parsed script instruction.
type op struct {
	Kind   opKind
	Count  int // element count for opAlloc
	Handle int // target handle for opFree
	Line   int // source line, 0 for command-line ops
}

func (o op) String() string {
	switch o.Kind {
	case opAlloc:
		return fmt.Sprintf("a %d", o.Count)
	case opFree:
		return fmt.Sprintf("f #%d", o.Handle)
	case opValidate:
		return "v"
	case opReset:
		return "r"
	case opPrint:
		return "p"
	default:
		return "?"
	}
}

type token struct {
	text string
	line int
}

// parseScript reads a script: whitespace-separated ops, any number per line.
// A token starting with '#' that is not a handle (#<digits>) comments out
// the rest of its line.
func parseScript(r io.Reader) ([]op, error) {
	var toks []token
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		for _, f := range strings.Fields(sc.Text()) {
			if strings.HasPrefix(f, "#") && !isHandle(f) {
				break
			}
			toks = append(toks, token{text: f, line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return parseTokens(toks)
}

// parseArgs turns command-line arguments into ops. Arguments may hold one
// token each ("a", "3") or a whole op ("a 3").
func parseArgs(args []string) ([]op, error) {
	var toks []token
	for _, arg := range args {
		for _, f := range strings.Fields(arg) {
			toks = append(toks, token{text: f})
		}
	}
	return parseTokens(toks)
}

func parseTokens(toks []token) ([]op, error) {
	var ops []op
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch strings.ToLower(t.text) {
		case "a", "alloc":
			if i+1 >= len(toks) {
				return nil, t.errorf("%s needs an element count", t.text)
			}
			i++
			n, err := strconv.Atoi(toks[i].text)
			if err != nil {
				return nil, toks[i].errorf("bad count %q", toks[i].text)
			}
			ops = append(ops, op{Kind: opAlloc, Count: n, Line: t.line})

		case "f", "free":
			if i+1 >= len(toks) {
				return nil, t.errorf("%s needs a handle", t.text)
			}
			i++
			h, err := parseHandle(toks[i].text)
			if err != nil {
				return nil, toks[i].errorf("%v", err)
			}
			ops = append(ops, op{Kind: opFree, Handle: h, Line: t.line})

		case "v", "validate":
			ops = append(ops, op{Kind: opValidate, Line: t.line})

		case "r", "reset":
			ops = append(ops, op{Kind: opReset, Line: t.line})

		case "p", "print":
			ops = append(ops, op{Kind: opPrint, Line: t.line})

		default:
			return nil, t.errorf("unknown op %q", t.text)
		}
	}
	return ops, nil
}

func (t token) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if t.line > 0 {
		return fmt.Errorf("line %d: %s", t.line, msg)
	}
	return fmt.Errorf("%s", msg)
}

func isHandle(s string) bool {
	_, err := parseHandle(s)
	return err == nil && strings.HasPrefix(s, "#")
}

// parseHandle accepts "#3" or "3". Handles start at 1.
func parseHandle(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad handle %q (want #1, #2, ...)", s)
	}
	return n, nil
}
