// Command jmap edits each element of a JSON array, reading and writing one
// element at a time.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/arnodel/arraystream"
	"github.com/arnodel/arraystream/encoding/json"
	"github.com/arnodel/arraystream/internal/config"
	"github.com/arnodel/arraystream/internal/logging"
	"github.com/arnodel/arraystream/transform"
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see run).
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
			os.Exit(2)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = config.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = newCommand(cfg).ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

type options struct {
	config.Config
	set    []string
	delete []string
	rename []string
}

func newCommand(cfg config.Config) *cobra.Command {
	opts := &options{Config: cfg}

	c := &cobra.Command{
		Use:   "jmap [flags] [INPUT [OUTPUT]]",
		Short: "Edit each element of a JSON array",
		Long: `jmap reads a JSON document whose top level value is an array, applies
rules to each element and writes the resulting array.  Only one element is
held in memory at a time.

INPUT and OUTPUT default to stdin and stdout ("-" also means those).  If an
error occurs, the output is left without its closing ']'.

Rules are applied in this order: renames, then assignments, then deletions.
Flag defaults can be set with JMAP_* environment variables, e.g. JMAP_INDENT=2.`,
		Example: `  jmap --set '_source.lexiconName="Core"' --set _source.lexiconOrder=1 in.json out.json
  jmap --rules rules.yaml --indent 2 < in.json
  jmap --rename name=meta.title --delete draft in.json | head`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	f := c.Flags()
	f.StringArrayVar(&opts.set, "set", nil, "set `path=json` in each element (repeatable)")
	f.StringArrayVar(&opts.delete, "delete", nil, "delete `path` from each element (repeatable)")
	f.StringArrayVar(&opts.rename, "rename", nil, "rename `from=to` in each element (repeatable)")
	f.StringVar(&opts.Rules, "rules", opts.Rules, "read rules from a YAML `file`")
	f.IntVar(&opts.Indent, "indent", opts.Indent, "indent output by `n` spaces per level, negative for a single line")
	f.Var(&opts.Color, "color", "colorize output: auto, always or never")
	f.BoolVar(&opts.Flush, "flush", opts.Flush, "flush the output after each element")
	f.BoolVar(&opts.Trace, "trace", opts.Trace, "log each element at debug level")
	f.Var(config.LevelValue(&opts.Log.Level), "log-level", "log level: debug, info, warn or error")
	f.StringVar(&opts.Log.File, "log-file", opts.Log.File, "also write JSON logs to `file`")
	f.DurationVar(&opts.Log.MaxAge, "log-max-age", opts.Log.MaxAge, "remove rotated log files older than this")

	return c
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	var logFile io.WriteCloser
	if opts.Log.File != "" {
		var err error
		logFile, err = logging.OpenFile(opts.Log.File, opts.Log.MaxAge)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "cannot open log file: %s\n", err)
			return err
		}
		defer func() { _ = logFile.Close() }()
	}
	logger := logging.New(cmd.ErrOrStderr(), lo.Ternary[io.Writer](logFile != nil, logFile, nil), opts.Log.Level)

	err := process(cmd, opts, args, logger)
	if err != nil {
		logger.Error("jmap failed", "err", err)
	}
	return err
}

func process(cmd *cobra.Command, opts *options, args []string, logger *slog.Logger) error {
	rules, err := buildRules(opts)
	if err != nil {
		return err
	}
	f := arraystream.LogTransform(logger, rules.Transform())
	if opts.Trace {
		f = arraystream.Chain(transform.Trace(logger), f)
	}

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	stdout, closeOut, err := openOutput(cmd, args)
	if err != nil {
		return err
	}

	// If we are writing to a terminal, flush after each element so the user
	// gets feedback early.
	terminal := isTerminal(stdout)
	useColor := opts.Color == config.ColorAlways || opts.Color == config.ColorAuto && terminal
	var out io.Writer = stdout
	if file, ok := stdout.(*os.File); ok && useColor {
		out = colorable.NewColorable(file)
	}
	buf := bufio.NewWriter(out)

	writerOpts := []json.WriterOption{
		json.WithIndent(opts.Indent),
		json.WithColorizer(lo.Ternary(useColor, json.DefaultColorizer, nil)),
	}
	if opts.Flush || terminal {
		writerOpts = append(writerOpts, json.WithFlushEachElement())
	}

	logger.Debug("starting", "rules", rules.Len(), "input", inputName(args), "output", outputName(args))
	start := time.Now()
	n, err := arraystream.Transform(cmd.Context(), in, buf, f, writerOpts...)
	elapsed := time.Since(start)

	// What was written before an error is kept.
	err = errors.Join(err, buf.Flush())
	if terminal && err == nil {
		_, err = io.WriteString(out, "\n")
	}
	err = errors.Join(err, closeOut())

	switch {
	case errors.Is(err, syscall.EPIPE):
		// The output is a pipe and something closed it (e.g. 'head' or 'less').
		// In this case we don't want to complain.
		logger.Info("output closed", "count", n, "elapsed", elapsed)
		return nil
	case err != nil:
		logger.Info("stopped", "count", n, "elapsed", elapsed)
		return err
	default:
		logger.Info("done", "count", n, "elapsed", elapsed)
		return nil
	}
}

func buildRules(opts *options) (*transform.Rules, error) {
	rules := &transform.Rules{}
	if opts.Rules != "" {
		fileRules, err := transform.LoadRules(opts.Rules)
		if err != nil {
			return nil, err
		}
		rules.Merge(fileRules)
	}
	for _, s := range opts.rename {
		r, err := transform.ParseRename(s)
		if err != nil {
			return nil, err
		}
		rules.Rename = append(rules.Rename, r)
	}
	for _, s := range opts.set {
		a, err := transform.ParseAssignment(s)
		if err != nil {
			return nil, err
		}
		rules.Set = append(rules.Set, a)
	}
	for _, s := range opts.delete {
		p, err := transform.ParsePath(s)
		if err != nil {
			return nil, err
		}
		rules.Delete = append(rules.Delete, p)
	}
	return rules, nil
}

func inputName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "-"
}

func outputName(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return "-"
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	name := inputName(args)
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(cmd *cobra.Command, args []string) (io.Writer, func() error, error) {
	name := outputName(args)
	if name == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
