package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	forthic "github.com/forthic-lang/forthic"
	"github.com/forthic-lang/forthic/internal/flushio"
	"github.com/forthic-lang/forthic/internal/logio"
	"github.com/forthic-lang/forthic/internal/panicerr"
	"github.com/forthic-lang/forthic/internal/runeio"
	"github.com/forthic-lang/forthic/stdlib"
)

func main() {
	lg := &logio.Logger{}
	lg.SetOutput(os.Stderr)
	os.Exit(dispatch(os.Args[1:], lg))
}

func dispatch(args []string, lg *logio.Logger) int {
	if len(args) == 0 {
		usage()
		return 2
	}
	switch args[0] {
	case "repl":
		return cmdRepl(args[1:], lg)
	case "run":
		return cmdRun(args[1:], lg)
	case "eval":
		return cmdEval(args[1:], lg)
	default:
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: forthic <repl|run|eval> [flags] [args]")
}

func defaultConfig() *config {
	return &config{Modules: map[string]bool{"core": true}}
}

type runFlags struct {
	cfgPath    *string
	trace      *bool
	stackLimit *int
}

func addRunFlags(fs *flag.FlagSet) runFlags {
	return runFlags{
		cfgPath:    fs.String("config", "", "path to a YAML host config"),
		trace:      fs.Bool("trace", false, "enable trace logging"),
		stackLimit: fs.Int("stack-limit", 0, "cap the data stack at N entries"),
	}
}

func resolveConfig(rf runFlags, lg *logio.Logger) (*config, bool) {
	if *rf.cfgPath == "" {
		return defaultConfig(), true
	}
	cfg, err := loadConfig(*rf.cfgPath)
	if err != nil {
		lg.Errorf("%v", err)
		return nil, false
	}
	return cfg, true
}

func buildInterpreter(cfg *config, rf runFlags, lg *logio.Logger) *forthic.Interpreter {
	var opts []forthic.Option
	if *rf.trace || cfg.Trace {
		opts = append(opts, forthic.WithTrace(lg.Leveledf("TRACE")))
	}
	limit := cfg.StackLimit
	if *rf.stackLimit != 0 {
		limit = *rf.stackLimit
	}
	if limit != 0 {
		opts = append(opts, forthic.WithStackLimit(limit))
	}
	ip := forthic.Create(opts...)
	if cfg.Modules["core"] {
		stdlib.Install(ip)
	}
	return ip
}

func cmdEval(args []string, lg *logio.Logger) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	rf := addRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		lg.Errorf("eval: expected exactly one source argument")
		return lg.ExitCode()
	}
	cfg, ok := resolveConfig(rf, lg)
	if !ok {
		return lg.ExitCode()
	}
	ip := buildInterpreter(cfg, rf, lg)
	if err := ip.Run(fs.Arg(0)); err != nil {
		reportRunError(lg, err)
		return lg.ExitCode()
	}
	out := flushio.NewWriteFlusher(os.Stdout)
	if v, err := ip.Peek(); err == nil {
		fmt.Fprintln(out, sanitizeEcho(v.String()))
	}
	out.Flush()
	return lg.ExitCode()
}

// cmdRun runs one or more source files in order against a single
// Interpreter, so definitions, variables, and modules from an earlier file
// are visible to a later one. Each file keeps its own name in reported
// positions (RunNamed), so an error in the third file of a five-file run
// names that file rather than an offset into a flattened buffer.
func cmdRun(args []string, lg *logio.Logger) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	rf := addRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		lg.Errorf("run: at least one source file is required")
		return lg.ExitCode()
	}

	cfg, ok := resolveConfig(rf, lg)
	if !ok {
		return lg.ExitCode()
	}
	ip := buildInterpreter(cfg, rf, lg)
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			lg.Errorf("open %q: %v", name, err)
			return lg.ExitCode()
		}
		if err := ip.RunNamed(name, string(src)); err != nil {
			reportRunError(lg, err)
			return lg.ExitCode()
		}
	}
	return lg.ExitCode()
}

func cmdRepl(args []string, lg *logio.Logger) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	rf := addRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, ok := resolveConfig(rf, lg)
	if !ok {
		return lg.ExitCode()
	}
	ip := buildInterpreter(cfg, rf, lg)

	out := flushio.NewWriteFlusher(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "forthic> ")
		out.Flush()
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ".dump" {
			dumpOut := &logio.Writer{Logf: lg.Leveledf("DUMP")}
			ip.Dump(dumpOut)
			dumpOut.Sync()
			continue
		}
		// Recover runs ip.Run on its own goroutine so a stray
		// runtime.Goexit during the line (which ip.Run's own recover
		// cannot catch) is reported as an error for that line instead of
		// ending the process. The echo below runs outside this guard.
		if err := panicerr.Recover("repl", func() error { return ip.Run(line) }); err != nil {
			switch {
			case panicerr.IsPanic(err):
				lg.Errorf("%v\n%s", err, panicerr.PanicStack(err))
			case panicerr.IsExit(err):
				lg.Errorf("%v", err)
			default:
				reportRunError(lg, err)
			}
			continue
		}
		if v, err := ip.Peek(); err == nil {
			fmt.Fprintln(out, sanitizeEcho(v.String()))
			out.Flush()
		}
	}
	return lg.ExitCode()
}

func reportRunError(lg *logio.Logger, err error) {
	var stop forthic.IntentionalStopError
	if errors.As(err, &stop) {
		lg.Stopf("%v", err)
		return
	}
	lg.Errorf("%v", err)
}

// sanitizeEcho renders control characters in s using the same caret
// notation a terminal would otherwise mangle, so a string value containing
// e.g. a literal ESC doesn't corrupt the REPL's own display.
func sanitizeEcho(s string) string {
	var out strings.Builder
	for _, r := range s {
		if caret := runeio.CaretForm(r); caret != "" {
			out.WriteString(caret)
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
