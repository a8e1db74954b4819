package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/ksuid"
)

// idEncodedLength is the length of a base62-encoded KSUID.
const idEncodedLength = 27

// maxEncodedID is the largest value representable in 160 bits. Base62 digits
// are ASCII-ordered, so fixed-length strings compare like their values.
const maxEncodedID = "aWgEPTl1tmebfsQzFP4bxwgy80V"

// Identifier decoding failures, carried as the Cause of InvalidIdentifierError.
var (
	ErrIDLength   = errors.New("identifier must be 27 characters")
	ErrIDAlphabet = errors.New("identifier contains characters outside [0-9A-Za-z]")
	ErrIDOverflow = errors.New("identifier exceeds 160 bits")
)

// ID is a time-ordered, globally unique identifier (KSUID). The zero value is
// NilID and never identifies an entity.
type ID struct {
	k ksuid.KSUID
}

// NilID is the zero identifier.
var NilID = ID{}

// ParseID decodes the canonical text form of an identifier. It never panics,
// whatever the input.
func ParseID(s string) (ID, error) {
	if len(s) != idEncodedLength {
		return NilID, &InvalidIdentifierError{Raw: s, Cause: ErrIDLength}
	}

	for i := 0; i < len(s); i++ {
		if !isBase62(s[i]) {
			return NilID, &InvalidIdentifierError{Raw: s, Cause: ErrIDAlphabet}
		}
	}

	if s > maxEncodedID {
		return NilID, &InvalidIdentifierError{Raw: s, Cause: ErrIDOverflow}
	}

	k, err := ksuid.Parse(s)
	if err != nil {
		return NilID, &InvalidIdentifierError{Raw: s, Cause: err}
	}

	return ID{k: k}, nil
}

// MustParseID is ParseID for compile-time constants such as fixtures.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}

	return id
}

// ParseIDs parses every string in order and fails on the first invalid one.
func ParseIDs(raw []string) ([]ID, error) {
	ids := make([]ID, 0, len(raw))

	for _, s := range raw {
		id, err := ParseID(s)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func isBase62(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// String renders the canonical 27-character form.
func (id ID) String() string {
	return id.k.String()
}

// IsNil reports whether id is the zero identifier.
func (id ID) IsNil() bool {
	return id.k.IsNil()
}

// Compare orders identifiers by creation time, then payload.
func (id ID) Compare(other ID) int {
	return ksuid.Compare(id.k, other.k)
}

// KSUID exposes the underlying value for tooling that reports its parts.
func (id ID) KSUID() ksuid.KSUID {
	return id.k
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// IDGenerator produces fresh identifiers for new entities.
type IDGenerator interface {
	NewID() ID
}

// KSUIDGenerator draws identifiers from the process clock and crypto/rand.
// IDs issued by one generator are strictly increasing: when a fresh KSUID
// would not sort after the previous one (same second, smaller payload), the
// successor of the previous one is issued instead.
type KSUIDGenerator struct {
	mu   sync.Mutex
	last ksuid.KSUID
}

// NewKSUIDGenerator creates a generator backed by the system clock.
func NewKSUIDGenerator() *KSUIDGenerator {
	return &KSUIDGenerator{}
}

// NewID implements IDGenerator. Safe for concurrent use.
func (g *KSUIDGenerator) NewID() ID {
	next := ksuid.New()

	g.mu.Lock()
	defer g.mu.Unlock()

	if ksuid.Compare(next, g.last) <= 0 {
		next = g.last.Next()
	}

	g.last = next

	return ID{k: next}
}

// Name implements ports.HealthChecker.
func (g *KSUIDGenerator) Name() string {
	return "id-generator"
}

// Check implements ports.HealthChecker by drawing from the entropy source.
func (g *KSUIDGenerator) Check(_ context.Context) error {
	if _, err := ksuid.NewRandom(); err != nil {
		return fmt.Errorf("entropy source: %w", err)
	}

	return nil
}

// SequenceGenerator issues seed, seed+1, seed+2, ... so tests and tooling get
// reproducible identifiers without touching the clock.
type SequenceGenerator struct {
	mu   sync.Mutex
	next ksuid.KSUID
}

// NewSequenceGenerator starts a sequence at seed.
func NewSequenceGenerator(seed ID) *SequenceGenerator {
	return &SequenceGenerator{next: seed.k}
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ID{k: g.next}
	g.next = g.next.Next()

	return id
}
