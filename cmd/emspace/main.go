package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"pkt.systems/emspace"
	"pkt.systems/emspace/internal/config"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("pkt.systems/emspace")
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// exitError carries a process exit code. A nil err exits quietly.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// app is the state shared by all subcommands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	logger *slog.Logger
	cfg    emspace.Config
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "emspace",
		Short:         "Normalize whitespace around Markdown emphasis markers",
		Long:          "emspace trims blanks inside *, ** and *** spans and spaces them away from adjacent CJK text.",
		Version:       version.Current(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(version.Module() + " {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default ./"+config.FileName+" or the user config dir)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug information to stderr")
	config.BindFlags(flags)

	root.AddCommand(
		a.fixCommand("fix", "Fix all emphasis spacing"),
		a.fixCommand("bold", "Fix bold spacing (runs the full pipeline)"),
		a.checkCommand(),
		a.hintsCommand(),
		a.configCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	loaded, err := config.Load(config.Options{Path: a.configPath, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	a.cfg = loaded.Config
	if loaded.File != "" {
		a.logger.Debug("loaded config", "file", loaded.File)
	}
	return nil
}

type fixFlags struct {
	write    bool
	output   string
	diff     bool
	silent   bool
	excludes []string
}

func addExcludeFlag(flags *pflag.FlagSet, dst *[]string) {
	flags.StringSliceVarP(dst, "exclude", "x", nil, "Skip paths matching a doublestar pattern (repeatable)")
}

func (a *app) fixCommand(name, short string) *cobra.Command {
	var opts fixFlags
	cmd := &cobra.Command{
		Use:   name + " [inputs...]",
		Short: short,
		Long:  short + ".\n\nInputs may be files, directories, file:// or http(s):// URLs, or - for stdin.\nWith no inputs, Markdown is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFix(cmd.Context(), args, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "Rewrite files in place")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file instead of stdout")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "Print a unified diff instead of the formatted document")
	flags.BoolVarP(&opts.silent, "silent", "s", false, "Do not report whether anything changed")
	addExcludeFlag(flags, &opts.excludes)
	return cmd
}

func (a *app) runFix(ctx context.Context, args []string, opts fixFlags) (err error) {
	if opts.write && opts.output != "" {
		return usageErrorf("--write and --output are mutually exclusive")
	}
	sources, err := collectInputs(args, opts.excludes, a.logger)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	if opts.write {
		for _, src := range sources {
			if !src.writable() {
				return usageErrorf("--write needs local files; %s is not one", src.name)
			}
		}
	}
	writer, closer, err := resolveOutput(opts.output, a.stdout)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if closer != nil {
		defer closeOutput(closer, &err)
	}

	changed := 0
	for _, src := range sources {
		res, err := formatSource(ctx, src, a.stdin, a.cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
		a.logger.Debug("formatted", "path", src.name, "changed", res.Changed)
		if res.Changed {
			changed++
		}
		switch {
		case opts.diff:
			if err := a.printDiff(writer, src.name, res); err != nil {
				return err
			}
		case opts.write:
			if !res.Changed {
				continue
			}
			if err := writeInPlace(src, res.Formatted); err != nil {
				return fmt.Errorf("write %s: %w", src.name, err)
			}
		default:
			if _, err := io.WriteString(writer, res.Formatted); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	if !opts.silent {
		if changed == 0 {
			fmt.Fprintln(a.stderr, "no changes needed")
		} else {
			fmt.Fprintf(a.stderr, "fixed spacing in %d file(s)\n", changed)
		}
	}
	return nil
}

// closeOutput closes c and reports a failure through errp unless an earlier
// error is already set.
func closeOutput(c io.Closer, errp *error) {
	if err := c.Close(); err != nil && *errp == nil {
		*errp = fmt.Errorf("close output: %w", err)
	}
}

func (a *app) printDiff(w io.Writer, name string, res emspace.Result) error {
	text := unifiedDiff(name, res.Original, res.Formatted)
	if text == "" {
		return nil
	}
	if isTerminal(w) {
		text = colorizeDiff(text)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

func (a *app) checkCommand() *cobra.Command {
	var (
		showDiff bool
		excludes []string
	)
	cmd := &cobra.Command{
		Use:   "check [inputs...]",
		Short: "Report inputs whose emphasis spacing would change; exit 1 if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := collectInputs(args, excludes, a.logger)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			dirty := 0
			for _, src := range sources {
				res, err := formatSource(cmd.Context(), src, a.stdin, a.cfg)
				if err != nil {
					return fmt.Errorf("%s: %w", src.name, err)
				}
				if !res.Changed {
					continue
				}
				dirty++
				if showDiff {
					if err := a.printDiff(a.stdout, src.name, res); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(a.stdout, src.name)
			}
			if dirty > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "Print a unified diff for each input that would change")
	addExcludeFlag(cmd.Flags(), &excludes)
	return cmd
}

type hintsFlags struct {
	cursor    int
	selection string
	theme     string
	width     int
	osc8      string
	excludes  []string
}

func (a *app) hintsCommand() *cobra.Command {
	opts := hintsFlags{cursor: -1}
	cmd := &cobra.Command{
		Use:   "hints [inputs...]",
		Short: "Show emphasis markers next to characters that break CommonMark flanking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHints(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.cursor, "cursor", opts.cursor, "Byte offset of the cursor; hints on spans touching it are hidden")
	flags.StringVar(&opts.selection, "selection", "", "Byte range start:end; hints on spans overlapping it are hidden")
	flags.StringVar(&opts.theme, "theme", "default", "Hint theme ("+strings.Join(emspace.AvailableThemes(), ", ")+")")
	flags.IntVar(&opts.width, "width", 0, "Output width (default: terminal width, $COLUMNS or 80)")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks on locations: auto|on|off")
	addExcludeFlag(flags, &opts.excludes)
	return cmd
}

func (a *app) runHints(cmd *cobra.Command, args []string, opts hintsFlags) error {
	th, ok := emspace.ThemeByName(opts.theme)
	if !ok {
		return usageErrorf("unknown theme %q (available: %s)", opts.theme, strings.Join(emspace.AvailableThemes(), ", "))
	}
	if !cmd.Flags().Changed("theme") && !isTerminal(a.stdout) {
		th = emspace.BoringTheme()
	}
	links, err := resolveOSC8(opts.osc8)
	if err != nil {
		return usageErrorf("invalid --osc8 %q: %v", opts.osc8, err)
	}
	if opts.osc8 == "auto" && !isTerminal(a.stdout) {
		links = false
	}
	var hintOpts []emspace.HintOption
	if opts.cursor >= 0 {
		hintOpts = append(hintOpts, emspace.WithCursor(opts.cursor))
	}
	if opts.selection != "" {
		start, end, err := parseSelection(opts.selection)
		if err != nil {
			return usageErrorf("--selection: %v", err)
		}
		hintOpts = append(hintOpts, emspace.WithSelection(start, end))
	}
	sources, err := collectInputs(args, opts.excludes, a.logger)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	width := resolveWidth(opts.width, a.stdout)
	for _, src := range sources {
		res, err := formatSource(cmd.Context(), src, a.stdin, a.cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
		hints := emspace.Hints(res.Original, a.cfg, hintOpts...)
		a.logger.Debug("hints", "path", src.name, "count", len(hints))
		err = emspace.RenderHints(emspace.HintRenderRequest{
			Writer:     a.stdout,
			Path:       src.name,
			Source:     res.Original,
			Hints:      hints,
			Width:      width,
			Theme:      th,
			Hyperlinks: links,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return emspace.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func parseSelection(value string) (int, int, error) {
	left, right, ok := strings.Cut(value, ":")
	if !ok {
		return 0, 0, fmt.Errorf("want start:end, got %q", value)
	}
	start, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil || start < 0 {
		return 0, 0, fmt.Errorf("bad start offset %q", left)
	}
	end, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil || end < 0 {
		return 0, 0, fmt.Errorf("bad end offset %q", right)
	}
	return start, end, nil
}

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration (default ./" + config.FileName + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = normalizePath(args[0])
			}
			if err := config.WriteFile(path, emspace.DefaultConfig(), force); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := config.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
