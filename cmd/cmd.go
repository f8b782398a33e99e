package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rubiojr/c2js/cache"
	"github.com/rubiojr/c2js/compiler"
	"github.com/rubiojr/c2js/headers"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Execute runs the c2js CLI with the given version string.
func Execute(version string) {
	os.Exit(run(context.Background(), version, os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the app and reports any failure on stderr. It returns the
// process exit status.
func run(ctx context.Context, version string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(version)
	app.Reader = stdin
	app.Writer = stdout
	app.ErrWriter = stderr
	if err := app.Run(ctx, args); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func newApp(version string) *cli.Command {
	return &cli.Command{
		Name:                   "c2js",
		Usage:                  "Translate a subset of C into JavaScript",
		Version:                version,
		UseShortOptionHandling: true,
		Flags:                  translateFlags(true),
		// Allow `c2js prog.c` as shorthand for `c2js translate prog.c`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 && strings.HasSuffix(cmd.Args().First(), ".c") {
				return translateAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "translate",
				Usage:     "Translate a C file (or stdin) to JavaScript",
				ArgsUsage: "<file.c | ->",
				Flags:     translateFlags(false),
				Action:    translateAction,
			},
			{
				Name:      "check",
				Usage:     "Report identifiers the translated program never declares",
				ArgsUsage: "<file.c | directory>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "entry",
						Usage: "Name of the entry function",
						Value: "main",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Files checked in parallel",
						Value:   1,
					},
					&cli.BoolFlag{
						Name:    "no-color",
						Aliases: []string{"C"},
						Usage:   "Disable ANSI color output",
					},
				},
				Action: checkAction,
			},
			{
				Name:   "headers",
				Usage:  "List the supported headers and the functions they license",
				Action: headersAction,
			},
		},
	}
}

// translateFlags are the flags of translate. The root command carries them
// too, marked local so other subcommands do not inherit them.
func translateFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: js, json or yaml",
			Local:   local,
			Value:   "js",
		},
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "jq expression evaluated over the JSON bundle",
			Local:   local,
		},
		&cli.StringFlag{
			Name:  "entry",
			Usage: "Name of the entry function",
			Local: local,
			Value: "main",
		},
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "Reuse and store results in the result cache",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail when the output uses undeclared identifiers",
			Local: local,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Trace pipeline stages on stderr",
			Local: local,
		},
	}
}

func translateAction(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Root()
	name, src, err := readSource(cmd.Args().First(), root.Reader)
	if err != nil {
		return err
	}

	opts := []compiler.Option{
		compiler.WithSourceName(name),
		compiler.WithEntry(cmd.String("entry")),
	}
	if cmd.Bool("verbose") {
		opts = append(opts, compiler.WithTrace(root.ErrWriter))
	}
	tr := compiler.New(opts...)

	var res *compiler.Result
	if cmd.Bool("cache") {
		res, err = translateCached(ctx, tr, src)
	} else {
		res, err = tr.TranslateContext(ctx, src)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("strict") && len(res.Undeclared) > 0 {
		return fmt.Errorf("%s: undeclared identifiers: %s", name, strings.Join(res.Undeclared, ", "))
	}
	return writeResult(ctx, root.Writer, res, cmd.String("format"), cmd.String("query"))
}

// translateCached serves a result from the cache when the same source was
// translated with the same configuration before. Failures are not cached.
func translateCached(ctx context.Context, tr *compiler.Translator, src string) (*compiler.Result, error) {
	c, err := cache.Open()
	if err != nil {
		return nil, err
	}
	key := cache.Key(tr.Fingerprint(), src)
	if res, ok := c.Get(key); ok {
		return res, nil
	}
	res, err := tr.TranslateContext(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := c.Put(key, res); err != nil {
		return nil, fmt.Errorf("caching result: %w", err)
	}
	return res, nil
}

// readSource returns the source name and text for a file argument. An empty
// argument or "-" reads stdin, unless stdin is an interactive terminal.
func readSource(arg string, stdin io.Reader) (string, string, error) {
	if arg != "" && arg != "-" {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", arg, err)
		}
		return arg, string(data), nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", "", fmt.Errorf("usage: c2js translate <file.c | ->, or pipe C source on stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return "<stdin>", string(data), nil
}

func headersAction(ctx context.Context, cmd *cli.Command) error {
	tbl := headers.Default()
	w := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
	for _, h := range tbl.Headers() {
		fmt.Fprintf(w, "<%s>\n", h.Name)
		for _, f := range h.Funcs {
			fmt.Fprintf(w, "  %s\t%s\n", f.Name, f.Doc)
		}
	}
	fmt.Fprintf(w, "\nformat specifiers: %s\n", tbl.Verbs())
	return w.Flush()
}

// useColor reports whether w is a terminal that accepts ANSI colours.
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func colors(enabled bool) (ok, fail, reset string) {
	if !enabled {
		return "", "", ""
	}
	return "\033[32m", "\033[31m", "\033[0m"
}

func printError(w io.Writer, err error) {
	_, fail, reset := colors(useColor(w))
	fmt.Fprintf(w, "%serror:%s %s\n", fail, reset, describe(err))
}

// describe prefixes translation failures with their kind.
func describe(err error) string {
	var ce *compiler.Error
	if errors.As(err, &ce) {
		return fmt.Sprintf("%s: %v", ce.Kind, err)
	}
	return err.Error()
}
