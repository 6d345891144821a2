package editorconfig

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/monitoring"
)

const hideAdvancedConfig = `import { hidePropertyIn } from "@mendix/pluggable-widgets-tools";

export function getProperties(values, defaultProperties) {
  if (values.hideAdvanced) {
    return hidePropertyIn(defaultProperties, "advancedOption");
  }
  return defaultProperties;
}
`

const requiredNameConfig = `export function check(values) {
  const errors = [];
  if (!values.name) {
    errors.push({ property: "name", message: "Name is required" });
  }
  return errors;
}
`

func flatDefinition() WidgetDefinition {
	return WidgetDefinition{PropertyGroups: []PropertyGroup{group("General", "name", "advancedOption")}}
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(DefaultConfig())
}

func TestEvaluateHidesProperty(t *testing.T) {
	result, err := newTestEvaluator().Evaluate(context.Background(), hideAdvancedConfig,
		Values{"hideAdvanced": true}, flatDefinition())
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, result.VisibleKeys)
	assert.Equal(t, []ValidationError{}, result.ValidationErrors)
	require.Len(t, result.FilteredGroups, 1)
	assert.Len(t, result.FilteredGroups[0].Properties, 1)
}

func TestEvaluateCheck(t *testing.T) {
	result, err := newTestEvaluator().Evaluate(context.Background(), requiredNameConfig, Values{}, flatDefinition())
	require.NoError(t, err)

	require.Len(t, result.ValidationErrors, 1)
	require.NotNil(t, result.ValidationErrors[0].Property)
	assert.Equal(t, "name", *result.ValidationErrors[0].Property)
	assert.Equal(t, "Name is required", result.ValidationErrors[0].Message)
	assert.Equal(t, []string{"advancedOption", "name"}, result.VisibleKeys)
}

func TestEvaluateWithoutFunctions(t *testing.T) {
	def := sampleDefinition()
	result, err := newTestEvaluator().Evaluate(context.Background(), "var unrelated = 1;", Values{"x": 1}, def)
	require.NoError(t, err)

	assert.Equal(t, def.PropertyGroups, result.FilteredGroups)
	assert.Equal(t, []string{"advancedOption", "inner", "name"}, result.VisibleKeys)
	assert.Equal(t, []ValidationError{}, result.ValidationErrors)
}

func TestEvaluateEmptyDefinition(t *testing.T) {
	result, err := newTestEvaluator().Evaluate(context.Background(), "", nil, WidgetDefinition{})
	require.NoError(t, err)

	assert.Equal(t, []PropertyGroup{}, result.FilteredGroups)
	assert.Equal(t, []string{}, result.VisibleKeys)
}

func TestEvaluateDoesNotMutateDefinition(t *testing.T) {
	def := flatDefinition()
	_, err := newTestEvaluator().Evaluate(context.Background(), `
export function getProperties(values, defaults) {
  defaults[0].properties.pop();
  defaults[0].caption = "changed";
  return defaults;
}`, nil, def)
	require.NoError(t, err)

	assert.Equal(t, "General", *def.PropertyGroups[0].Caption)
	assert.Len(t, def.PropertyGroups[0].Properties, 2)
}

func TestEvaluateKeepsEmptyProperties(t *testing.T) {
	def := WidgetDefinition{PropertyGroups: []PropertyGroup{{Key: strPtr("g"), Properties: []PropertyDescriptor{}}}}

	result, err := newTestEvaluator().Evaluate(context.Background(), `
export function getProperties(values, d) {
  d[0].properties.push({ key: "added" });
  return d;
}`, nil, def)
	require.NoError(t, err)

	assert.Equal(t, []string{"added"}, result.VisibleKeys)
	require.Len(t, result.FilteredGroups, 1)
	assert.Nil(t, result.FilteredGroups[0].PropertyGroups)

	result, err = newTestEvaluator().Evaluate(context.Background(),
		"function getProperties(values, d) { return d; }", nil, def)
	require.NoError(t, err)
	require.Len(t, result.FilteredGroups, 1)
	assert.NotNil(t, result.FilteredGroups[0].Properties)
	assert.Empty(t, result.FilteredGroups[0].Properties)
}

func TestVisiblePropertyKeys(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		values   Values
		wantKeys []string
		wantOK   bool
	}{
		{"no getProperties", requiredNameConfig, nil, nil, false},
		{"hides one", hideAdvancedConfig, Values{"hideAdvanced": true}, []string{"name"}, true},
		{"hides nothing", hideAdvancedConfig, Values{}, []string{"advancedOption", "name"}, true},
		{"hides everything", "function getProperties() { return []; }", nil, []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, ok, err := newTestEvaluator().VisiblePropertyKeys(context.Background(), tt.content, tt.values, flatDefinition())
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKeys, keys)
		})
	}
}

func TestValidate(t *testing.T) {
	eval := newTestEvaluator()

	errs, err := eval.Validate(context.Background(), requiredNameConfig, Values{})
	require.NoError(t, err)
	assert.Len(t, errs, 1)

	errs, err = eval.Validate(context.Background(), requiredNameConfig, Values{"name": "Widget"})
	require.NoError(t, err)
	assert.Equal(t, []ValidationError{}, errs)

	errs, err = eval.Validate(context.Background(), hideAdvancedConfig, Values{})
	require.NoError(t, err)
	assert.Equal(t, []ValidationError{}, errs)
}

func TestEvaluatorErrors(t *testing.T) {
	eval := newTestEvaluator()
	ctx := context.Background()

	_, err := eval.Evaluate(ctx, "function getProperties( {", nil, flatDefinition())
	requireKind(t, err, KindScriptEvaluation, StageLoad)

	_, err = eval.Validate(ctx, "function check() { throw new Error('bad check'); }", nil)
	requireKind(t, err, KindScriptEvaluation, StageCall)
	assert.Contains(t, err.Error(), "bad check")

	_, _, err = eval.VisiblePropertyKeys(ctx, "function getProperties() { return null; }", nil, flatDefinition())
	requireKind(t, err, KindSerialization, StageDecodeOutput)

	_, err = eval.Evaluate(ctx, "function check() { return 'oops'; }", nil, flatDefinition())
	requireKind(t, err, KindSerialization, StageDecodeOutput)
}

func TestDeepRecursionIsScriptError(t *testing.T) {
	_, err := newTestEvaluator().Validate(context.Background(), `
function recurse(n) { return recurse(n + 1) + 1; }
function check(values) { recurse(0); return []; }`, nil)
	requireKind(t, err, KindScriptEvaluation, StageCall)
	assert.Contains(t, err.Error(), "Maximum call stack size exceeded")
}

func TestEvaluatorTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewEvaluator(cfg).Evaluate(context.Background(),
		"function getProperties(values, d) { for (;;) {} }", nil, flatDefinition())
	assert.ErrorIs(t, err, ErrTimeout)

	// The evaluator stays usable after an interrupted call.
	errs, err := NewEvaluator(cfg).Validate(context.Background(), requiredNameConfig, Values{"name": "x"})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestEvaluationsAreIsolated(t *testing.T) {
	eval := newTestEvaluator()

	_, err := eval.Validate(context.Background(), "globalThis.leaked = 1; var check = function () { return []; };", nil)
	require.NoError(t, err)

	errs, err := eval.Validate(context.Background(),
		"function check() { return typeof leaked === 'undefined' ? [] : [{ message: 'leaked' }]; }", nil)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestConcurrentEvaluations(t *testing.T) {
	eval := newTestEvaluator()
	const workers = 16

	var wg sync.WaitGroup
	results := make([][]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf(`
var counter = %d;
function getProperties(values, defaults) { return hidePropertyIn(defaults, values.hide); }`, i)
			hide := "name"
			if i%2 == 0 {
				hide = "advancedOption"
			}
			results[i], _, errs[i] = eval.VisiblePropertyKeys(context.Background(), content, Values{"hide": hide}, flatDefinition())
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if i%2 == 0 {
			assert.Equal(t, []string{"name"}, results[i])
		} else {
			assert.Equal(t, []string{"advancedOption"}, results[i])
		}
	}
}

func TestEvaluatorMetricsAndLogging(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	core, logs := observer.New(zap.DebugLevel)

	eval := newTestEvaluator().WithLogger(zap.New(core)).WithMetrics(metrics)

	_, err := eval.Evaluate(context.Background(), hideAdvancedConfig, Values{"hideAdvanced": true}, flatDefinition())
	require.NoError(t, err)
	_, err = eval.Validate(context.Background(), "function check( {", nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EvaluationsTotal.WithLabelValues(OpEvaluate, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EvaluationsTotal.WithLabelValues(OpValidate, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EvaluationErrors.WithLabelValues(OpValidate, "script_evaluation", "load")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Lookups.WithLabelValues(FuncGetProperties, "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Lookups.WithLabelValues(FuncCheck, "false")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.EvaluationsInFlight))

	failures := logs.FilterMessage("Editor config evaluation failed").All()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	assert.Equal(t, "script_evaluation", fields["kind"])
	assert.Equal(t, "load", fields["stage"])
	assert.Contains(t, fields["eval_id"], "eval_")
}

func TestPackageLevelHelpers(t *testing.T) {
	result, err := EvaluateEditorConfig(hideAdvancedConfig, Values{"hideAdvanced": true}, flatDefinition())
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, result.VisibleKeys)

	keys, ok, err := GetVisiblePropertyKeys(requiredNameConfig, nil, flatDefinition())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, keys)

	errs, err := ValidateEditorConfigValues(requiredNameConfig, Values{})
	require.NoError(t, err)
	assert.Len(t, errs, 1)

	assert.Same(t, Default(), Default())
}
