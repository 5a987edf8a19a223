// Package cli turns command-line arguments into a solve or comparison run
// of a puzzle file.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/piwi3910/PolyPack/internal/model"
)

const (
	ExitSuccess           = 0
	ExitSearchAborted     = 1 // At least one region has no definite verdict
	ExitInvalidInvocation = 2
	ExitInputError        = 3
	ExitInternalError     = 4
)

// Command selects what the run does with the puzzle.
type Command string

const (
	CommandSolve   Command = "solve"
	CommandCompare Command = "compare"
)

// Outputs lists the optional report files of a solve run. Empty paths are
// skipped.
type Outputs struct {
	PDF    string
	Labels string
	Excel  string
	JSON   string
	DXFDir string // One layout drawing per packable region
}

// Invocation is the parsed form of a command line.
type Invocation struct {
	Command    Command
	PuzzlePath string // "-" reads standard input
	ConfigPath string // Optional app config supplying default settings
	Settings   model.SolveSettings
	Verbose    bool
	Print      bool // Print the summary and every layout found
	Outputs    Outputs

	// set records which settings flags were given explicitly, so they win
	// over config defaults.
	set map[string]bool
}

// InvocationError is a usage problem with the exit code it maps to.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// Usage is printed for invalid invocations.
const Usage = `usage: polypack [solve|compare] [flags] PUZZLE

PUZZLE is a puzzle text file, a saved .polypack project, or - for stdin.
The packable region count is printed on the last line of output.

flags:
  -strategy cells|items   search order (default cells)
  -budget N               node budget per region, 0 = unlimited
  -timeout D              deadline per region, e.g. 5s, 0 = none
  -workers N              regions searched in parallel, 0 = all CPUs
  -config PATH            app config file supplying default settings
  -v                      log every region verdict to stderr
  -print                  print the summary and every layout found
  -pdf PATH               write a PDF report (solve only)
  -labels PATH            write a PDF sheet of region labels (solve only)
  -xlsx PATH              write an Excel workbook (solve only)
  -json PATH              write the result as JSON (solve only)
  -dxf DIR                write one DXF layout per packable region (solve only)
`

// ParseInvocation parses os.Args[1:]. An optional leading subcommand
// selects the command; solve is the default.
func ParseInvocation(args []string) (Invocation, error) {
	inv := Invocation{Command: CommandSolve, Settings: model.DefaultSettings(), set: map[string]bool{}}

	if len(args) > 0 {
		switch Command(args[0]) {
		case CommandSolve, CommandCompare:
			inv.Command = Command(args[0])
			args = args[1:]
		}
	}

	fs := flag.NewFlagSet("polypack", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var strategy string
	fs.StringVar(&strategy, "strategy", string(model.StrategyCells), "")
	fs.Int64Var(&inv.Settings.NodeBudget, "budget", 0, "")
	fs.DurationVar(&inv.Settings.Timeout, "timeout", 0, "")
	fs.IntVar(&inv.Settings.Workers, "workers", 0, "")
	fs.StringVar(&inv.ConfigPath, "config", "", "")
	fs.BoolVar(&inv.Verbose, "v", false, "")
	fs.BoolVar(&inv.Print, "print", false, "")
	fs.StringVar(&inv.Outputs.PDF, "pdf", "", "")
	fs.StringVar(&inv.Outputs.Labels, "labels", "", "")
	fs.StringVar(&inv.Outputs.Excel, "xlsx", "", "")
	fs.StringVar(&inv.Outputs.JSON, "json", "", "")
	fs.StringVar(&inv.Outputs.DXFDir, "dxf", "", "")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	fs.Visit(func(f *flag.Flag) { inv.set[f.Name] = true })

	switch fs.NArg() {
	case 1:
		inv.PuzzlePath = fs.Arg(0)
	case 0:
		return Invocation{}, invalidInvocationf("missing puzzle file")
	default:
		return Invocation{}, invalidInvocationf("unexpected arguments: %q", strings.Join(fs.Args()[1:], " "))
	}

	s, err := model.ParseStrategy(strategy)
	if err != nil {
		return Invocation{}, invalidInvocationf("%v", err)
	}
	inv.Settings.Strategy = s

	if inv.Settings.NodeBudget < 0 {
		return Invocation{}, invalidInvocationf("-budget must not be negative")
	}
	if inv.Settings.Timeout < 0 {
		return Invocation{}, invalidInvocationf("-timeout must not be negative")
	}
	if inv.Settings.Workers < 0 {
		return Invocation{}, invalidInvocationf("-workers must not be negative")
	}
	if inv.Command == CommandCompare && inv.Outputs != (Outputs{}) {
		return Invocation{}, invalidInvocationf("report flags are only valid with solve")
	}
	return inv, nil
}

// applyDefaults fills settings not given on the command line from cfg.
func (inv *Invocation) applyDefaults(cfg model.AppConfig) {
	var defaults model.SolveSettings
	cfg.ApplyToSettings(&defaults)
	if !inv.set["strategy"] && defaults.Strategy != "" {
		inv.Settings.Strategy = defaults.Strategy
	}
	if !inv.set["budget"] {
		inv.Settings.NodeBudget = defaults.NodeBudget
	}
	if !inv.set["timeout"] {
		inv.Settings.Timeout = defaults.Timeout
	}
	if !inv.set["workers"] {
		inv.Settings.Workers = defaults.Workers
	}
}

// timeoutLabel renders a per-region deadline for log output.
func timeoutLabel(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
