// Package parser converts key scripts into commands for the headless
// runner. Intentionally dumb: no grammar, just tokens.
//
// A script line holds whitespace-separated tokens:
//
//	up right*3 space      key presses, optional *N repeat
//	wait 30               run 30 frames with no input
//	sleep 600ms           advance the clock without running frames
//	# comment             ignored to end of line
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nathoo/antidote/engine/input"
)

// Op is a command kind.
type Op int

const (
	OpPress Op = iota
	OpWait
	OpSleep
)

func (o Op) String() string {
	switch o {
	case OpWait:
		return "wait"
	case OpSleep:
		return "sleep"
	}
	return "press"
}

// Command is one parsed script instruction.
type Command struct {
	Op       Op
	Key      input.Key
	Count    int // presses or frames
	Duration time.Duration
	Line     int
}

// maxRepeat bounds *N repeats and waits.
const maxRepeat = 10000

var keyAliases = map[string]input.Key{
	"n":         input.KeyUp,
	"s":         input.KeyDown,
	"w":         input.KeyLeft,
	"e":         input.KeyRight,
	"north":     input.KeyUp,
	"south":     input.KeyDown,
	"west":      input.KeyLeft,
	"east":      input.KeyRight,
	"interact":  input.KeySpace,
	"confirm":   input.KeySpace,
	"talk":      input.KeySpace,
	"attack":    input.Key1,
	"defend":    input.Key2,
	"flee":      input.Key3,
	"run":       input.Key3,
	"inventory": input.KeyI,
	"inv":       input.KeyI,
	"map":       input.KeyM,
	"restart":   input.KeyR,
	"reset":     input.KeyEscape,
	"cancel":    input.KeyEscape,
	"debug":     input.KeyF1,
	"save":      input.KeyF10,
	"load":      input.KeyF11,
}

// ParseLine parses one script line.
func ParseLine(line string, lineNo int) ([]Command, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	words := strings.Fields(strings.ToLower(line))

	var cmds []Command
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch w {
		case "wait":
			n := 1
			if i+1 < len(words) {
				if v, err := strconv.Atoi(words[i+1]); err == nil {
					n = v
					i++
				}
			}
			if n < 0 || n > maxRepeat {
				return nil, fmt.Errorf("line %d: wait %d out of range", lineNo, n)
			}
			cmds = append(cmds, Command{Op: OpWait, Count: n, Line: lineNo})

		case "sleep":
			if i+1 >= len(words) {
				return nil, fmt.Errorf("line %d: sleep needs a duration", lineNo)
			}
			d, err := time.ParseDuration(words[i+1])
			if err != nil || d < 0 {
				return nil, fmt.Errorf("line %d: bad duration %q", lineNo, words[i+1])
			}
			i++
			cmds = append(cmds, Command{Op: OpSleep, Duration: d, Line: lineNo})

		default:
			cmd, err := parsePress(w)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cmd.Line = lineNo
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		c, err := ParseLine(sc.Text(), lineNo)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return cmds, nil
}

func parsePress(tok string) (Command, error) {
	name, count := tok, 1
	if i := strings.LastIndexByte(tok, '*'); i > 0 {
		n, err := strconv.Atoi(tok[i+1:])
		if err != nil || n < 1 || n > maxRepeat {
			return Command{}, fmt.Errorf("bad repeat in %q", tok)
		}
		name, count = tok[:i], n
	}

	if k, ok := keyAliases[name]; ok {
		return Command{Op: OpPress, Key: k, Count: count}, nil
	}
	k, err := input.ParseKey(name)
	if err != nil {
		return Command{}, err
	}
	return Command{Op: OpPress, Key: k, Count: count}, nil
}
