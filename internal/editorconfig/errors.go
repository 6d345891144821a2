package editorconfig

import (
	"errors"
	"fmt"
)

var (
	ErrThreadSpawn      = errors.New("failed to start isolated worker")
	ErrScriptEvaluation = errors.New("script evaluation failed")
	ErrSerialization    = errors.New("host/script serialization failed")
	ErrThreadPanic      = errors.New("isolated worker panicked")
	ErrTimeout          = errors.New("script execution interrupted")
)

// Kind classifies a RuntimeError
type Kind int

const (
	KindThreadSpawn Kind = iota
	KindScriptEvaluation
	KindSerialization
	KindThreadPanic
	KindTimeout
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindThreadSpawn:
		return "thread_spawn"
	case KindScriptEvaluation:
		return "script_evaluation"
	case KindSerialization:
		return "serialization"
	case KindThreadPanic:
		return "thread_panic"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindThreadSpawn:
		return ErrThreadSpawn
	case KindScriptEvaluation:
		return ErrScriptEvaluation
	case KindSerialization:
		return ErrSerialization
	case KindThreadPanic:
		return ErrThreadPanic
	case KindTimeout:
		return ErrTimeout
	default:
		return nil
	}
}

// Stage names the point of the pipeline where an error happened
type Stage string

const (
	StageSpawn        Stage = "spawn"
	StageLoad         Stage = "load"
	StageEncodeInput  Stage = "encode_input"
	StageCall         Stage = "call"
	StageDecodeOutput Stage = "decode_output"
	StageJoin         Stage = "join"
)

// RuntimeError is the single error type surfaced by every public operation
type RuntimeError struct {
	Kind     Kind
	Stage    Stage
	Function string // contract function involved, empty for load/spawn/join
	Err      error
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Function != "" {
		msg = fmt.Sprintf("%s (%s, stage %s)", msg, e.Function, e.Stage)
	} else {
		msg = fmt.Sprintf("%s (stage %s)", msg, e.Stage)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *RuntimeError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, stage Stage, function string, err error) *RuntimeError {
	return &RuntimeError{Kind: kind, Stage: stage, Function: function, Err: err}
}

// KindOf reports the kind of err when it is a RuntimeError
func KindOf(err error) (Kind, bool) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return 0, false
}

// Describe returns the kind and stage labels of err for logs and API
// responses. Errors that are not RuntimeErrors report kind "unknown".
func Describe(err error) (kind, stage string) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr.Kind.String(), string(rerr.Stage)
	}
	return "unknown", ""
}
