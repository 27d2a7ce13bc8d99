package sh

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/Jean-StephaneCote/UART/pkg/mon"
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

// Shell provides an ishell backed interactive wire lab.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell *ishell.Shell
	Bench *Bench
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool
	discipline = "8N1@100"
	duplex     bool

	// commands

	commands = []*ishell.Cmd{
		&ConfigCmd,
		&ModeCmd,
		&StatusCmd,
		&ResetCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&discipline, "line", discipline, "Initial line discipline, like 8N1@100.")
	flag.BoolVar(&duplex, "link", duplex, "Start with two linked engines instead of a loopback.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell with a bench built from command line flags.
func New() (*Shell, error) {
	cfg, err := uart.ParseConfig(discipline)
	if err != nil {
		return nil, err
	}
	bench, err := NewBench(cfg, duplex)
	if err != nil {
		return nil, err
	}
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	s.SetBench(bench)
	return s, nil
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// SetBench replaces the bench and updates the prompt.
func (s *Shell) SetBench(b *Bench) {
	s.Bench = b
	s.Shell.SetPrompt(fmt.Sprintf("%s %s > ", b.Cfg, b.Mode()))
}

// PrintJSON marshals v when JSON output is enabled and reports whether
// it handled the output.
func (s *Shell) PrintJSON(c *ishell.Context, v interface{}) bool {
	if !s.OutputJSON {
		return false
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return true
	}
	c.Println(string(out))
	return true
}

// FormatEvent prints an event into a friendly string for display.
func FormatEvent(ev mon.Event) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "[%s] tick=%d data=%#04x", ev.Source, ev.Tick, ev.Data)
	if ev.Err {
		fmt.Fprint(&w, " ERR")
	}
	return w.String()
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConfigCmd shows or replaces the line discipline. Replacing it
	// rebuilds the bench from tick zero.
	ConfigCmd = ishell.Cmd{
		Name:    "config",
		Aliases: []string{"cfg"},
		Help:    "[DISCIPLINE like 8N1@100 [SYNC_GUARD]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				if s.PrintJSON(c, s.Bench.Status()) {
					return
				}
				c.Println(s.Bench.Cfg.String())
				return
			}
			cfg, err := uart.ParseConfig(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 {
				guard, err := strconv.ParseUint(c.Args[1], 10, 32)
				if err != nil {
					c.Err(fmt.Errorf("invalid SYNC_GUARD: %v", err))
					return
				}
				cfg.SyncGuard = uint32(guard)
			}
			bench, err := NewBench(cfg, s.Bench.Duplex)
			if err != nil {
				c.Err(err)
				return
			}
			s.SetBench(bench)
		},
	}

	// ModeCmd switches between a loopback and two linked engines.
	ModeCmd = ishell.Cmd{
		Name: "mode",
		Help: "loop|link",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) == 0 {
				c.Println(s.Bench.Mode())
				return
			}
			var dup bool
			switch c.Args[0] {
			case "loop":
			case "link":
				dup = true
			default:
				c.Err(fmt.Errorf("unknown mode %q", c.Args[0]))
				return
			}
			if dup == s.Bench.Duplex {
				return
			}
			bench, err := NewBench(s.Bench.Cfg, dup)
			if err != nil {
				c.Err(err)
				return
			}
			s.SetBench(bench)
		},
	}

	// StatusCmd prints the bench state.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st := s.Bench.Status()
			if s.PrintJSON(c, st) {
				return
			}
			c.Printf("%s %s tick=%d tx=%s line=%v rx=%s events=%d\n",
				st.Config, st.Mode, st.Ticks, st.TxPhase, st.TxLine, st.RxPhase, st.Events)
		},
	}

	// ResetCmd resets the engines. The event log is kept.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Bench.Reset()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New()
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}
