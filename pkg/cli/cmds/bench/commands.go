package bench

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/Jean-StephaneCote/UART/pkg/cli/sh"
	"github.com/Jean-StephaneCote/UART/pkg/mon"
	"github.com/Jean-StephaneCote/UART/pkg/sim"
)

func parseWord(arg string) (uint16, error) {
	val, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid WORD: %v", err)
	}
	return uint16(val), nil
}

func parseTick(name, arg string) (uint64, error) {
	val, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return val, nil
}

var (
	// SendCmd transmits words through the bench.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"tx"},
		Help:    "WORD...",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("WORD required"))
				return
			}
			s := sh.ShellFrom(c)
			for _, arg := range c.Args {
				word, err := parseWord(arg)
				if err != nil {
					c.Err(err)
					return
				}
				ev, err := s.Bench.Send(word)
				if err != nil {
					c.Err(err)
					return
				}
				if s.PrintJSON(c, &ev) {
					continue
				}
				c.Println(sh.FormatEvent(ev))
			}
		},
	}

	// TickCmd advances the simulation.
	TickCmd = ishell.Cmd{
		Name:    "tick",
		Aliases: []string{"t"},
		Help:    "[N]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			n := uint64(1)
			if len(c.Args) > 0 {
				val, err := parseTick("N", c.Args[0])
				if err != nil {
					c.Err(err)
					return
				}
				n = val
			}
			s.Bench.Step(n)
			c.Printf("tick=%d\n", s.Bench.Ticks())
		},
	}

	// WireCmd installs a line transform.
	WireCmd = ishell.Cmd{
		Name: "wire",
		Help: "direct | low FROM TO | high FROM TO | invert FROM TO",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("transform required"))
				return
			}
			if c.Args[0] == "direct" {
				s.Bench.SetWiring(sim.Direct())
				return
			}
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("FROM and TO required"))
				return
			}
			from, err := parseTick("FROM", c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			to, err := parseTick("TO", c.Args[2])
			if err != nil {
				c.Err(err)
				return
			}
			var w sim.Wiring
			switch c.Args[0] {
			case "low":
				w = sim.ForceLow(sim.Direct(), from, to)
			case "high":
				w = sim.StuckHigh(sim.Direct(), from, to)
			case "invert":
				w = sim.Invert(sim.Direct(), from, to)
			default:
				c.Err(fmt.Errorf("unknown transform %q", c.Args[0]))
				return
			}
			s.Bench.SetWiring(w)
		},
	}

	// GlitchCmd forces the line low WIDTH ticks starting AT ticks from
	// now. The default width of 2 stays under any usual sync guard, so
	// a healthy receiver ignores it.
	GlitchCmd = ishell.Cmd{
		Name: "glitch",
		Help: "AT [WIDTH]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("AT required"))
				return
			}
			s := sh.ShellFrom(c)
			at, err := parseTick("AT", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			width := uint64(2)
			if len(c.Args) > 1 {
				if width, err = parseTick("WIDTH", c.Args[1]); err != nil {
					c.Err(err)
					return
				}
			}
			from := s.Bench.Ticks() + at
			s.Bench.SetWiring(sim.ForceLow(sim.Direct(), from, from+width))
			c.Printf("line forced low [%d,%d)\n", from, from+width)
		},
	}

	// FramesCmd lists observed frames.
	FramesCmd = ishell.Cmd{
		Name:    "frames",
		Aliases: []string{"f"},
		Help:    "[clear]",
		Func: func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if len(c.Args) > 0 && c.Args[0] == "clear" {
				s.Bench.Events = nil
				return
			}
			events := s.Bench.Events
			if events == nil {
				// in case events is nil, make it empty slice.
				events = []mon.Event{}
			}
			if s.PrintJSON(c, events) {
				return
			}
			if len(events) == 0 {
				c.Println("no frames")
				return
			}
			for _, ev := range events {
				c.Println(sh.FormatEvent(ev))
			}
		},
	}

	// TraceCmd sends a word and prints the line transitions.
	TraceCmd = ishell.Cmd{
		Name: "trace",
		Help: "WORD",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("WORD required"))
				return
			}
			s := sh.ShellFrom(c)
			word, err := parseWord(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			transitions, ev, err := s.Bench.Trace(word)
			if err != nil {
				c.Err(err)
				return
			}
			for _, tr := range transitions {
				level := "low"
				if tr.Level {
					level = "high"
				}
				c.Printf("%8d %s\n", tr.Tick, level)
			}
			c.Println(sh.FormatEvent(ev))
		},
	}
)

func init() {
	sh.AddCmds(
		&SendCmd,
		&TickCmd,
		&WireCmd,
		&GlitchCmd,
		&FramesCmd,
		&TraceCmd,
	)
}
