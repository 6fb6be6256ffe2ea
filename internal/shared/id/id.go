// Package id generates sortable identifiers for audits.
//
// Audit IDs are prefixed ULIDs ("aud_01J..."), so they sort by creation time
// and read clearly in logs.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// AuditID identifies one audit run.
type AuditID string

// AuditPrefix tags audit identifiers.
const AuditPrefix = "aud"

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
	now       func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator using monotonic crypto entropy.
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy, now: time.Now}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewAuditID generates a new audit ID from the default generator.
func NewAuditID() AuditID {
	return AuditID(Default().GenerateWithPrefix(AuditPrefix))
}

func (id AuditID) String() string { return string(id) }

// Time returns the creation time encoded in the ID.
func (id AuditID) Time() (time.Time, error) {
	raw, ok := strings.CutPrefix(string(id), AuditPrefix+"_")
	if !ok {
		return time.Time{}, fmt.Errorf("id %q: missing %s prefix", id, AuditPrefix)
	}
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("id %q: %w", id, err)
	}
	return ulid.Time(parsed.Time()), nil
}

// IsValid reports whether s is a bare ULID.
func IsValid(s string) bool {
	_, err := ulid.Parse(s)
	return err == nil
}
