// Command schwac is the Schwa compiler driver: a staged lex/parse/
// validate/analyze/codegen pipeline behind three urfave/cli/v2
// subcommands (build/check/fmt), following the CLI shape and per-stage
// pipeline structure of vyPal-CaffeineC's src/main.go and
// MJDaws0n-Novus's cmd/novus/main.go respectively — CaffeineC for the
// cli.App/cli.Command layout and colorized error reporting, Novus for
// the "run each stage, print its errors, bail before the next stage"
// pipeline flow.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/codegen"
	"github.com/schwa-lang/schwa/internal/config"
	"github.com/schwa-lang/schwa/internal/diag"
	"github.com/schwa-lang/schwa/internal/format"
	"github.com/schwa-lang/schwa/internal/lexer"
	"github.com/schwa-lang/schwa/internal/parser"
	"github.com/schwa-lang/schwa/internal/semantic"
	"github.com/schwa-lang/schwa/internal/validator"
)

var logger *zap.Logger

func main() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := &cli.App{
		Name:  "schwac",
		Usage: "compile Schwa source to a Wasm binary module",
		Commands: []*cli.Command{
			buildCommand,
			checkCommand,
			fmtCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %s", err))
		os.Exit(1)
	}
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "path to write the compiled .wasm module to",
}

var buildCommand = &cli.Command{
	Name:      "build",
	Usage:     "compile a .sch file to a .wasm module",
	ArgsUsage: "<file>",
	Flags:     []cli.Flag{outputFlag},
	Action:    runBuild,
}

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "run the pipeline through semantic analysis without emitting Wasm",
	ArgsUsage: "<file>",
	Action:    runCheck,
}

var fmtCommand = &cli.Command{
	Name:      "fmt",
	Usage:     "print a file's canonical formatting to stdout",
	ArgsUsage: "<file>",
	Action:    runFmt,
}

func runBuild(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit(color.RedString("no input file given"), 1)
	}

	pipeline, err := run(path)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}
	printDiagnostics(pipeline.log)
	if pipeline.log.HasErrors() {
		return cli.Exit(color.RedString("build failed: analysis reported errors"), 1)
	}

	cfg, err := config.Load(filepath.Dir(path))
	if err != nil {
		return errors.Wrap(err, "loading schwa.yaml")
	}
	if cfg.Compiler.WarningsAsErrors && hasWarnings(pipeline.log) {
		printDiagnostics(pipeline.log)
		return cli.Exit(color.RedString("build failed: warnings treated as errors"), 1)
	}

	logger.Info("generating Wasm module", zap.String("file", path), zap.Int("memoryPages", cfg.Compiler.MemoryPages))
	module, err := codegen.Module(pipeline.root, pipeline.log, uint32(cfg.Compiler.MemoryPages))
	if err != nil {
		return cli.Exit(color.RedString("codegen: %s", err), 1)
	}

	out := c.String("output")
	if out == "" {
		out = withExtension(path, ".wasm")
	}
	if err := os.WriteFile(out, module, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", out)
	}
	fmt.Println(color.GreenString("wrote %s (%d bytes)", out, len(module)))
	return nil
}

func runCheck(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit(color.RedString("no input file given"), 1)
	}
	pipeline, err := run(path)
	if err != nil {
		return cli.Exit(color.RedString("%s", err), 1)
	}
	printDiagnostics(pipeline.log)
	if pipeline.log.HasErrors() {
		return cli.Exit(color.RedString("check failed"), 1)
	}
	fmt.Println(color.GreenString("no errors"))
	return nil
}

func runFmt(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit(color.RedString("no input file given"), 1)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	toks, lexErrs := lexer.Lex(string(src))
	if len(lexErrs) > 0 {
		for _, e := range lexErrs {
			fmt.Fprintln(os.Stderr, color.RedString(e.Error()))
		}
		return cli.Exit(color.RedString("fmt failed: lexing errors"), 1)
	}
	root, parseErrs := parser.Parse(toks)
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			fmt.Fprintln(os.Stderr, color.RedString(e.Error()))
		}
		return cli.Exit(color.RedString("fmt failed: parse errors"), 1)
	}
	fmt.Print(format.Node(root))
	return nil
}

// pipelineResult carries what runBuild/runCheck both need past the
// analysis stage.
type pipelineResult struct {
	root *ast.Node
	log  *diag.Logger
}

// run executes lex -> parse -> validate -> analyze, printing lexer/
// parser errors and stopping the pipeline the moment a stage reports
// one — the same "check this stage's errors before starting the next"
// shape Novus's run() uses, adapted from Novus's plain fmt.Println
// error dumps to this driver's colorized ones.
func run(path string) (*pipelineResult, error) {
	logger.Info("reading source", zap.String("file", path))
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	logger.Info("lexing")
	toks, lexErrs := lexer.Lex(string(src))
	if len(lexErrs) > 0 {
		for _, e := range lexErrs {
			fmt.Fprintln(os.Stderr, color.RedString(e.Error()))
		}
		return nil, errors.New("lexing failed")
	}

	logger.Info("parsing")
	root, parseErrs := parser.Parse(toks)
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			fmt.Fprintln(os.Stderr, color.RedString(e.Error()))
		}
		return nil, errors.New("parsing failed")
	}

	logger.Info("validating structure")
	vlog := validator.Validate(root)
	if vlog.HasErrors() {
		printDiagnostics(vlog)
		return nil, errors.New("validation failed")
	}

	logger.Info("running semantic analysis")
	alog := semantic.Analyze(root)

	return &pipelineResult{root: root, log: alog}, nil
}

func printDiagnostics(log *diag.Logger) {
	for _, d := range log.Entries() {
		line := fmt.Sprintf("%d:%d: %s: %s", d.Span.Line, d.Span.Column, d.Producer, d.Message)
		if d.Severity == diag.Error {
			fmt.Fprintln(os.Stderr, color.RedString(line))
		} else {
			fmt.Fprintln(os.Stderr, color.YellowString(line))
		}
	}
}

func withExtension(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}

func hasWarnings(log *diag.Logger) bool {
	for _, d := range log.Entries() {
		if d.Severity == diag.Warning {
			return true
		}
	}
	return false
}
