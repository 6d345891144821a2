// Command editorconfig evaluates a widget editor config script from the
// command line and prints the result as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/logging"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/widget"
)

const (
	modeEvaluate = "evaluate"
	modeKeys     = "keys"
	modeValidate = "validate"
)

// options are the parsed command line flags
type options struct {
	mode       string
	configPath string
	valuesPath string
	widgetPath string
	timeout    time.Duration
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("editorconfig", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.mode, "mode", modeEvaluate, "evaluate, keys or validate")
	fs.StringVar(&opts.configPath, "config", "", "Path to the editor config script (required)")
	fs.StringVar(&opts.valuesPath, "values", "", "Path to a JSON, YAML or TOML values file")
	fs.StringVar(&opts.widgetPath, "widget", "", "Path to a JSON, YAML or TOML widget definition")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Evaluation timeout (0 disables)")
	fs.BoolVar(&opts.verbose, "v", false, "Log script console output and failures to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.configPath == "" {
		return nil, fmt.Errorf("-config is required")
	}
	if opts.timeout < 0 {
		return nil, fmt.Errorf("-timeout must not be negative")
	}
	switch opts.mode {
	case modeEvaluate, modeKeys, modeValidate:
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.mode)
	}
	return opts, nil
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "editorconfig:", err)
		return 2
	}

	cfg := editorconfig.DefaultConfig()
	cfg.Timeout = opts.timeout

	logger := logging.NewNop()
	if opts.verbose {
		logger = logging.NewOrNop(logging.Options{Development: true, Output: stderr})
	}
	defer func() { _ = logger.Sync() }()

	output, err := execute(ctx, opts, editorconfig.NewEvaluator(cfg).WithLogger(logger.Logger))
	if err != nil {
		kind, stage := editorconfig.Describe(err)
		logger.Debug("Command failed", zap.String("kind", kind), zap.String("stage", stage))
		fmt.Fprintln(stderr, "editorconfig:", err)
		return 1
	}

	data, err := sonic.ConfigStd.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintln(stderr, "editorconfig:", err)
		return 1
	}
	fmt.Fprintln(stdout, string(data))
	return 0
}

// execute loads the inputs and runs the selected mode
func execute(ctx context.Context, opts *options, evaluator *editorconfig.Evaluator) (interface{}, error) {
	content, err := widget.LoadScript(opts.configPath)
	if err != nil {
		return nil, err
	}

	values := editorconfig.Values{}
	if opts.valuesPath != "" {
		if values, err = widget.LoadValues(opts.valuesPath); err != nil {
			return nil, err
		}
	}

	def := editorconfig.WidgetDefinition{}
	if opts.widgetPath != "" {
		if def, err = widget.LoadDefinition(opts.widgetPath); err != nil {
			return nil, err
		}
	}

	switch opts.mode {
	case modeKeys:
		keys, ok, err := evaluator.VisiblePropertyKeys(ctx, content, values, def)
		if err != nil {
			return nil, err
		}
		if !ok {
			keys = nil
		}
		return map[string]interface{}{"hasGetProperties": ok, "keys": keys}, nil
	case modeValidate:
		errs, err := evaluator.Validate(ctx, content, values)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"errors": errs}, nil
	default:
		return evaluator.Evaluate(ctx, content, values, def)
	}
}
