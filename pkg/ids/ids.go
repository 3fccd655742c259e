// Package ids generates node identifiers for page documents.
//
// Two policies are provided, both producing identifiers of the synthesized
// form {prefix}_{timestamp}_{suffix}:
//
//   - [Random]: uuid-backed suffixes, unique per call, not reproducible. Used
//     by the expander.
//   - [Seeded]: suffixes drawn from a PRNG seeded by the caller. Two runs with
//     the same timestamp and seed yield the same sequence, which is what the
//     XML parser relies on for snapshot tests.
//
// [IsSynthesized] recognizes the pattern so serializers can tell generated
// identifiers apart from ones a user supplied.
package ids

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator hands out node identifiers. Implementations are not safe for
// concurrent use; each conversion call owns its generator.
type Generator interface {
	// Next returns a fresh identifier for a node whose kind is prefix.
	Next(prefix string) string
}

const suffixLen = 6

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var synthesizedRe = regexp.MustCompile(`^[a-z][a-z0-9]*_[0-9]+_[a-z0-9]+$`)

// IsSynthesized reports whether id has the generated {prefix}_{ts}_{suffix}
// shape.
func IsSynthesized(id string) bool { return synthesizedRe.MatchString(id) }

// Format assembles an identifier from its parts. The prefix is lowercased.
func Format(prefix string, timestamp int64, suffix string) string {
	return fmt.Sprintf("%s_%d_%s", strings.ToLower(prefix), timestamp, suffix)
}

// Random generates identifiers with uuid-derived suffixes.
type Random struct {
	timestamp int64
	issued    map[string]struct{}
}

// NewRandom returns a random generator stamped with the current time.
func NewRandom() *Random {
	return &Random{
		timestamp: time.Now().UnixMilli(),
		issued:    make(map[string]struct{}),
	}
}

// Next returns an identifier not yet issued by this generator.
func (g *Random) Next(prefix string) string {
	for {
		raw := strings.ReplaceAll(uuid.NewString(), "-", "")
		id := Format(prefix, g.timestamp, raw[:suffixLen])
		if _, dup := g.issued[id]; !dup {
			g.issued[id] = struct{}{}
			return id
		}
	}
}

// Seeded generates reproducible identifiers from a timestamp and seed.
type Seeded struct {
	timestamp int64
	rng       *rand.Rand
	issued    map[string]struct{}
}

// NewSeeded returns a deterministic generator. The same timestamp and seed
// always produce the same identifier sequence.
func NewSeeded(timestamp int64, seed uint64) *Seeded {
	return &Seeded{
		timestamp: timestamp,
		rng:       rand.New(rand.NewPCG(seed, uint64(timestamp))),
		issued:    make(map[string]struct{}),
	}
}

// Next returns the next identifier in the sequence.
func (g *Seeded) Next(prefix string) string {
	for {
		var b [suffixLen]byte
		for i := range b {
			b[i] = alphabet[g.rng.IntN(len(alphabet))]
		}
		id := Format(prefix, g.timestamp, string(b[:]))
		if _, dup := g.issued[id]; !dup {
			g.issued[id] = struct{}{}
			return id
		}
	}
}

var (
	_ Generator = (*Random)(nil)
	_ Generator = (*Seeded)(nil)
)
