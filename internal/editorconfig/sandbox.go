package editorconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Script names reported in stack traces. The author's source runs as its own
// program so reported positions match the lines they wrote.
const (
	scriptName   = "editorConfig.js"
	preludeName  = "editorConfig.prelude.js"
	epilogueName = "editorConfig.exports.js"
)

const wrapperPrologue = "var exports = {}; var module = { exports: exports };\n"

// sandbox owns one fresh interpreter for exactly one evaluation
type sandbox struct {
	vm     *goja.Runtime
	guard  *worker
	logger *zap.Logger
}

// sandboxOptions configures a sandbox
type sandboxOptions struct {
	maxCallStackSize int
	enableConsole    bool
	logger           *zap.Logger
	guard            *worker
}

// scriptSource is one program of an editor config load
type scriptSource struct {
	name string
	code string
}

// buildScripts returns the programs evaluated for an editor config, in run
// order: the module shims with any missing helpers, the transformed source,
// and an epilogue copying contract functions into exports. Top-level
// declarations are shared through the global scope.
func buildScripts(content string) []scriptSource {
	transformed := Transform(content)

	var epilogue strings.Builder
	for _, name := range ContractFunctions {
		fmt.Fprintf(&epilogue, "if (typeof %s === 'function') exports.%s = %s;\n", name, name, name)
	}

	return []scriptSource{
		{preludeName, wrapperPrologue + BuildInjection(transformed)},
		{scriptName, transformed},
		{epilogueName, epilogue.String()},
	}
}

// newSandbox compiles the config programs and runs them in a fresh runtime
func newSandbox(content string, opts sandboxOptions) (*sandbox, error) {
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	if opts.guard == nil {
		opts.guard = &worker{}
	}

	sources := buildScripts(content)
	programs := make([]*goja.Program, 0, len(sources))
	for _, src := range sources {
		program, err := goja.Compile(src.name, src.code, false)
		if err != nil {
			return nil, newError(KindScriptEvaluation, StageLoad, "", err)
		}
		programs = append(programs, program)
	}

	vm := goja.New()
	if opts.maxCallStackSize > 0 {
		vm.SetMaxCallStackSize(opts.maxCallStackSize)
	}

	s := &sandbox{
		vm:     vm,
		guard:  opts.guard,
		logger: opts.logger,
	}
	if err := s.setupGlobals(opts.enableConsole); err != nil {
		return nil, newError(KindScriptEvaluation, StageLoad, "", err)
	}

	if err := s.guard.attach(vm); err != nil {
		return nil, newError(KindTimeout, StageLoad, "", err)
	}
	for _, program := range programs {
		if _, err := vm.RunProgram(program); err != nil {
			return nil, s.classify(StageLoad, "", err)
		}
	}

	return s, nil
}

// setupGlobals installs console and hides host module loaders
func (s *sandbox) setupGlobals(enableConsole bool) error {
	if err := s.vm.Set("require", goja.Undefined()); err != nil {
		return err
	}
	if err := s.vm.Set("process", goja.Undefined()); err != nil {
		return err
	}

	console := s.vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(level, s.makeConsoleFunc(level, enableConsole)); err != nil {
			return err
		}
	}
	return s.vm.Set("console", console)
}

// makeConsoleFunc creates a console function. Disabled consoles still exist
// so scripts that log do not fail.
func (s *sandbox) makeConsoleFunc(level string, enabled bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if !enabled {
			return goja.Undefined()
		}
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		s.logger.Debug("editor config console",
			zap.String("level", level),
			zap.String("message", strings.Join(parts, " ")),
		)
		return goja.Undefined()
	}
}

// classify turns an error returned by goja into a RuntimeError
func (s *sandbox) classify(stage Stage, function string, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) || s.guard.stopped() {
		return newError(KindTimeout, stage, function, err)
	}
	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		err = fmt.Errorf("RangeError: Maximum call stack size exceeded%w", overflow)
	}
	return newError(KindScriptEvaluation, stage, function, err)
}
