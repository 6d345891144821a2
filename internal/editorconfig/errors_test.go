package editorconfig

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeErrorIs(t *testing.T) {
	err := newError(KindSerialization, StageDecodeOutput, FuncGetProperties, errors.New("bad json"))
	wrapped := fmt.Errorf("request failed: %w", err)

	assert.ErrorIs(t, wrapped, ErrSerialization)
	assert.NotErrorIs(t, wrapped, ErrScriptEvaluation)
	assert.Contains(t, err.Error(), "getProperties")
	assert.Contains(t, err.Error(), "decode_output")
	assert.Contains(t, err.Error(), "bad json")

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindSerialization, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	kind, stage := Describe(newError(KindTimeout, StageJoin, "", nil))
	assert.Equal(t, "timeout", kind)
	assert.Equal(t, "join", stage)

	kind, stage = Describe(errors.New("plain"))
	assert.Equal(t, "unknown", kind)
	assert.Empty(t, stage)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "thread_spawn", KindThreadSpawn.String())
	assert.Equal(t, "script_evaluation", KindScriptEvaluation.String())
	assert.Equal(t, "serialization", KindSerialization.String())
	assert.Equal(t, "thread_panic", KindThreadPanic.String())
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
