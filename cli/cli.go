// Package cli replays key scripts against the game without a window: each
// line is parsed into key presses and waits, run frame by frame on a
// manual clock, and the banner messages are printed as they appear.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nathoo/antidote/clock"
	"github.com/nathoo/antidote/engine"
	"github.com/nathoo/antidote/engine/events"
	"github.com/nathoo/antidote/engine/input"
	"github.com/nathoo/antidote/engine/parser"
)

// frameTime is how far the manual clock moves per frame.
const frameTime = time.Second / engine.TPS

// settleLimit bounds the frames spent finishing one move.
const settleLimit = 120

// CLI drives one game from a script.
type CLI struct {
	Game      *engine.Game
	Clock     *clock.Manual
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each script line before running it

	lastSeq uint64
}

// New creates a runner. The game must have been built on clk so the
// interaction cooldown and encounter timer follow the script's frames.
func New(g *engine.Game, clk *clock.Manual) *CLI {
	c := &CLI{
		Game:  g,
		Clock: clk,
		In:    os.Stdin,
		Out:   os.Stdout,
	}
	g.Subscribe(func(e events.Event) {
		if c.Trace {
			c.printSystem("trace " + e.String())
		}
	})
	return c
}

// Run reads the script to EOF or /quit, then prints the final state.
func (c *CLI) Run() error {
	sc := bufio.NewScanner(c.In)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine("> " + line)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(line, "/") {
			if c.handleMeta(line) {
				break
			}
			continue
		}

		cmds, err := parser.ParseLine(line, lineNo)
		if err != nil {
			return err
		}
		for _, cmd := range cmds {
			if err := c.Exec(cmd); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	c.cmdState()
	return nil
}

// Exec runs one parsed command.
func (c *CLI) Exec(cmd parser.Command) error {
	switch cmd.Op {
	case parser.OpWait:
		for i := 0; i < cmd.Count; i++ {
			if err := c.frame(nil); err != nil {
				return err
			}
		}
	case parser.OpSleep:
		c.Clock.Advance(cmd.Duration)
	default:
		for i := 0; i < cmd.Count; i++ {
			if err := c.press(cmd.Key); err != nil {
				return fmt.Errorf("line %d: %w", cmd.Line, err)
			}
		}
	}
	return nil
}

// press sends one key and, for a move, runs frames until it lands.
func (c *CLI) press(k input.Key) error {
	if err := c.frame([]input.Event{input.Press(k)}); err != nil {
		return err
	}
	for i := 0; i < settleLimit && c.Game.Player.Moving(); i++ {
		if err := c.frame(nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) frame(evs []input.Event) error {
	c.Clock.Advance(frameTime)
	if err := c.Game.SafeFrame(evs); err != nil {
		return err
	}
	c.printMessages()
	return nil
}

// printMessages prints the banner lines pushed since the last frame.
func (c *CLI) printMessages() {
	for _, m := range c.Game.Progress.Messages() {
		if m.Seq <= c.lastSeq {
			continue
		}
		c.lastSeq = m.Seq
		c.printLine(m.Text)
	}
}

// handleMeta dispatches meta-commands. Returns true if the script should stop.
func (c *CLI) handleMeta(line string) bool {
	parts := strings.Fields(line)
	switch parts[0] {
	case "/quit", "/exit":
		return true

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	case "/help":
		c.cmdHelp()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", parts[0]))
	}
	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"Meta:",
		"  /state   dump the current state",
		"  /trace   toggle transition events",
		"  /quit    stop the script",
		"",
		"Keys (optional *N repeat):",
		"  up down left right (n s e w)   move one tile",
		"  space (interact, confirm)      interact / confirm",
		"  1-9 (attack defend flee)       choose / use item / combat",
		"  i m esc r                      inventory, map, reset, restart",
		"  f1-f11 (debug save load)       developer keys",
		"",
		"Timing:",
		"  wait N      run N frames with no input",
		"  sleep 600ms advance the clock without frames",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Game
	s := g.Progress.Stats
	p := g.Player
	c.printSystem(fmt.Sprintf("Frame: %d", g.FrameCount()))
	c.printSystem(fmt.Sprintf("Mode: %s (overlay %s)", g.Mode(), g.Overlay()))
	c.printSystem(fmt.Sprintf("Character: %s", p.Profile.ID))
	c.printSystem(fmt.Sprintf("Position: floor %d (%d,%d) facing %s", p.Floor, p.Pos.X, p.Pos.Y, p.Facing))
	c.printSystem(fmt.Sprintf("Stats: HP %d/%d Lv %d EXP %d ATK %d DEF %d", s.HP, s.MaxHP, s.Level, s.EXP, s.Attack, s.Defense))

	var flags []string
	for f, on := range g.Progress.Flags() {
		if on {
			flags = append(flags, string(f))
		}
	}
	sort.Strings(flags)
	if len(flags) > 0 {
		c.printSystem("Flags: " + strings.Join(flags, ", "))
	}

	var items []string
	for _, it := range g.Inventory.Items() {
		items = append(items, it.Name)
	}
	if len(items) > 0 {
		c.printSystem("Inventory: " + strings.Join(items, ", "))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
