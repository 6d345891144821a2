// Package id provides ID generation for evaluations and requests.
//
// IDs are prefixed ULIDs (eval_*, req_*): lexicographically sortable by
// creation time and readable in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// EvaluationID identifies one editor config evaluation
type EvaluationID string

// RequestID identifies an API request
type RequestID string

const (
	EvaluationPrefix = "eval"
	RequestPrefix    = "req"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a ULID generator whose IDs are strictly increasing
// within the same millisecond
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewEvaluationID generates a new evaluation ID
func NewEvaluationID() EvaluationID {
	return EvaluationID(Default().GenerateWithPrefix(EvaluationPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id EvaluationID) String() string { return string(id) }
func (id RequestID) String() string    { return string(id) }
