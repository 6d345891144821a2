package editorconfig

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/monitoring"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/shared/id"
)

// Operation names used in logs and metrics
const (
	OpEvaluate    = "evaluate"
	OpVisibleKeys = "visible_keys"
	OpValidate    = "validate"
)

// Evaluator runs editor config scripts. It holds no per-script state: every
// call gets a fresh interpreter on its own worker, so one Evaluator may be
// shared by any number of concurrent callers.
type Evaluator struct {
	config  Config
	iso     *isolator
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewEvaluator creates an evaluator with the given configuration
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{
		config: cfg,
		iso:    newIsolator(cfg),
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used for load failures and script console output
func (e *Evaluator) WithLogger(logger *zap.Logger) *Evaluator {
	if logger != nil {
		e.logger = logger.Named("editorconfig")
	}
	return e
}

// WithMetrics adds metrics tracking to the evaluator
func (e *Evaluator) WithMetrics(metrics *monitoring.Metrics) *Evaluator {
	e.metrics = metrics
	return e
}

// Config returns the evaluator configuration
func (e *Evaluator) Config() Config {
	return e.config
}

// Evaluate runs the full pipeline: filter the widget's property groups with
// getProperties when present, collect the visible keys, and run check when present.
func (e *Evaluator) Evaluate(ctx context.Context, content string, values Values, def WidgetDefinition) (*EvaluationResult, error) {
	return execute(ctx, e, OpEvaluate, content, func(s *sandbox) (*EvaluationResult, error) {
		groups := def.Clone()
		if e.lookup(s, FuncGetProperties) {
			filtered, err := s.GetProperties(values, groups)
			if err != nil {
				return nil, err
			}
			groups = filtered
		}
		if groups == nil {
			groups = []PropertyGroup{}
		}

		validation := []ValidationError{}
		if e.lookup(s, FuncCheck) {
			errs, err := s.Check(values)
			if err != nil {
				return nil, err
			}
			validation = errs
		}

		return &EvaluationResult{
			FilteredGroups:   groups,
			VisibleKeys:      VisibleKeys(groups),
			ValidationErrors: validation,
		}, nil
	})
}

type visibleKeysOutcome struct {
	keys []string
	ok   bool
}

// VisiblePropertyKeys returns the keys left visible by getProperties. ok is
// false when the config defines no getProperties; a function that hides
// everything yields ok with an empty slice.
func (e *Evaluator) VisiblePropertyKeys(ctx context.Context, content string, values Values, def WidgetDefinition) ([]string, bool, error) {
	out, err := execute(ctx, e, OpVisibleKeys, content, func(s *sandbox) (visibleKeysOutcome, error) {
		if !e.lookup(s, FuncGetProperties) {
			return visibleKeysOutcome{}, nil
		}
		groups, err := s.GetProperties(values, def.Clone())
		if err != nil {
			return visibleKeysOutcome{}, err
		}
		return visibleKeysOutcome{keys: VisibleKeys(groups), ok: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return out.keys, out.ok, nil
}

// Validate runs check(values). A config without check yields no errors.
func (e *Evaluator) Validate(ctx context.Context, content string, values Values) ([]ValidationError, error) {
	return execute(ctx, e, OpValidate, content, func(s *sandbox) ([]ValidationError, error) {
		if !e.lookup(s, FuncCheck) {
			return []ValidationError{}, nil
		}
		return s.Check(values)
	})
}

func (e *Evaluator) lookup(s *sandbox, name string) bool {
	present := s.Has(name)
	if e.metrics != nil {
		e.metrics.RecordLookup(name, present)
	}
	return present
}

// execute loads content into a fresh sandbox inside one isolated run and
// hands it to fn
func execute[T any](ctx context.Context, e *Evaluator, op, content string, fn func(s *sandbox) (T, error)) (T, error) {
	evalID := id.NewEvaluationID()
	logger := e.logger.With(
		zap.String("eval_id", evalID.String()),
		zap.String("operation", op),
	)

	start := time.Now()
	if e.metrics != nil {
		e.metrics.EvaluationStarted()
		defer e.metrics.EvaluationFinished()
	}

	value, err := runIsolated(ctx, e.iso, func(w *worker) (T, error) {
		var zero T
		s, err := newSandbox(content, sandboxOptions{
			maxCallStackSize: e.config.MaxCallStackSize,
			enableConsole:    e.config.EnableConsole,
			logger:           logger,
			guard:            w,
		})
		if err != nil {
			return zero, err
		}
		return fn(s)
	})

	duration := time.Since(start)
	if err != nil {
		kind, stage := Describe(err)
		logger.Warn("Editor config evaluation failed",
			zap.String("kind", kind),
			zap.String("stage", stage),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		if e.metrics != nil {
			e.metrics.RecordEvaluation(op, "error", duration)
			e.metrics.RecordEvaluationError(op, kind, stage)
		}
		return value, err
	}

	logger.Debug("Editor config evaluated", zap.Duration("duration", duration))
	if e.metrics != nil {
		e.metrics.RecordEvaluation(op, "success", duration)
	}
	return value, nil
}

var (
	defaultEvaluator *Evaluator
	defaultOnce      sync.Once
)

// Default returns the shared evaluator used by the package-level helpers
func Default() *Evaluator {
	defaultOnce.Do(func() {
		defaultEvaluator = NewEvaluator(DefaultConfig())
	})
	return defaultEvaluator
}

// EvaluateEditorConfig evaluates content with the default evaluator
func EvaluateEditorConfig(content string, values Values, def WidgetDefinition) (*EvaluationResult, error) {
	return Default().Evaluate(context.Background(), content, values, def)
}

// GetVisiblePropertyKeys returns the visible keys using the default evaluator
func GetVisiblePropertyKeys(content string, values Values, def WidgetDefinition) ([]string, bool, error) {
	return Default().VisiblePropertyKeys(context.Background(), content, values, def)
}

// ValidateEditorConfigValues runs check with the default evaluator
func ValidateEditorConfigValues(content string, values Values) ([]ValidationError, error) {
	return Default().Validate(context.Background(), content, values)
}
