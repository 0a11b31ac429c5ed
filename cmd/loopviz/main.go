package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/loopviz/config"
	"github.com/wippyai/loopviz/engine"
	"github.com/wippyai/loopviz/errors"
)

// sampleProgram is shown when no file is given.
const sampleProgram = `// Write your JavaScript code here
console.log('Hello');
setTimeout(() => {
  console.log('Timeout');
}, 2000);
Promise.resolve().then(() => {
  console.log('Promise');
});
console.log('End');`

func main() {
	var (
		srcFile     = flag.String("file", "", "Path to program source (default: built-in sample)")
		configFile  = flag.String("config", "", "Path to YAML config")
		dump        = flag.Bool("dump", false, "Print every step and exit")
		format      = flag.String("format", "text", "Dump format: text or yaml")
		lint        = flag.Bool("lint", false, "Print diagnostics and exit non-zero if any")
		interactive = flag.Bool("i", false, "Interactive mode with TUI (default on a terminal)")
	)
	flag.Parse()

	if err := run(*srcFile, *configFile, *format, *dump, *lint, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(srcFile, configFile, format string, dump, lint, interactive bool) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	engine.SetLogger(logger)

	src, name, err := readSource(srcFile)
	if err != nil {
		return err
	}
	logger.Info("source loaded", zap.String("name", name), zap.Int("bytes", len(src)))

	opts := engineOptions(cfg)

	switch {
	case lint:
		return runLint(os.Stdout, engine.New(src, opts...))
	case dump:
		return runDump(os.Stdout, engine.New(src, opts...), format)
	case interactive || term.IsTerminal(int(os.Stdout.Fd())):
		return runInteractive(cfg, name, src)
	default:
		return runDump(os.Stdout, engine.New(src, opts...), format)
	}
}

func readSource(path string) (src, name string, err error) {
	if path == "" {
		return sampleProgram, "sample.js", nil
	}
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "stdin", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read "+path)
	}
	return string(b), path, nil
}

func engineOptions(cfg config.Config) []engine.Option {
	return []engine.Option{
		engine.WithMaxDepth(cfg.MaxCallDepth),
		engine.WithMaxSteps(cfg.MaxSteps),
	}
}

// newLogger writes to the configured file only; the TUI owns the terminal.
func newLogger(cfg config.Log) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	lvl, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{cfg.File}
	zcfg.ErrorOutputPaths = []string{cfg.File}
	return zcfg.Build()
}
