// Package id generates the identifiers used by the service.
//
// Conversation ids are UUID v4 strings; request ids are ULIDs so they sort by
// arrival time in logs.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator produces string identifiers.
type Generator interface {
	Generate() string
}

// UUIDGenerator generates UUID v4 identifiers.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUID v4 generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new random UUID string.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// IsValidUUID reports whether s parses as a UUID.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ULIDGenerator generates monotonic ULIDs. Safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// ULIDOption is a functional option for ULIDGenerator.
type ULIDOption func(*ULIDGenerator)

// WithEntropy sets the randomness source.
func WithEntropy(r io.Reader) ULIDOption {
	return func(g *ULIDGenerator) {
		g.entropy = r
	}
}

// NewULIDGenerator creates a new ULID generator.
func NewULIDGenerator(opts ...ULIDOption) *ULIDGenerator {
	g := &ULIDGenerator{}
	for _, opt := range opts {
		opt(g)
	}
	if g.entropy == nil {
		g.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	return g
}

// Generate returns a new ULID string.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

var (
	defaultUUID = NewUUIDGenerator()
	defaultULID = NewULIDGenerator()
)

// NewUUID returns a UUID v4 string from the default generator.
func NewUUID() string {
	return defaultUUID.Generate()
}

// NewULID returns a ULID string from the default generator.
func NewULID() string {
	return defaultULID.Generate()
}
