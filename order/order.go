// Package order computes the deterministic seeded display ordering of
// spec §4.6: a bare-word prefix tier, then a session-salted hash within
// each tier.
package order

import (
	"hash/fnv"
	"sort"
	"strings"

	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/catalog"
)

// FNV1a returns the 32-bit FNV-1a hash of s, used as the per-query seed.
func FNV1a(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// mix combines a session salt, a query seed, and a row index into a
// deterministic, well-distributed 32-bit rank (spec §4.6). It is a
// Murmur-style avalanche over the three inputs: uniform across row
// indices and sensitive to either salt or seed changing.
func mix(sessionSalt, querySeed uint32, rowIndex int) uint32 {
	h := sessionSalt ^ (querySeed * 0x9E3779B1)
	h ^= uint32(rowIndex) + 0x165667B1 + (h << 6) + (h >> 2)
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}

// bareWords extracts the normalized text of every BARE node in the AST,
// used to compute the prefix tier (spec §4.6).
func bareWords(node ast.Node) []string {
	var out []string
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.And:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Or:
			for _, c := range v.Children {
				walk(c)
			}
		case *ast.Not:
			walk(v.Child)
		case *ast.Bare:
			out = append(out, normalize(v.Value))
		}
	}
	walk(node)
	return out
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + 32)
		}
	}
	return b.String()
}

func prefixTier(normalizedName string, words []string) int {
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.HasPrefix(normalizedName, w) {
			return 0
		}
	}
	return 1
}

// Row is one ranked result row: a canonical face index with its computed
// tier and hash, ready for stable comparison.
type Row struct {
	CanonicalFace int32
	Tier          int
	Hash          uint32
}

// Faces computes the display order of a set of canonical face indices for
// a given query and session salt.
func Faces(idx *catalog.CardIndex, node ast.Node, query string, sessionSalt uint32, canonicalFaces []int32) []Row {
	words := bareWords(node)
	seed := FNV1a(query)
	rows := make([]Row, len(canonicalFaces))
	for i, f := range canonicalFaces {
		rows[i] = Row{
			CanonicalFace: f,
			Tier:          prefixTier(idx.NormalizedCombined[f], words),
			Hash:          mix(sessionSalt, seed, int(f)),
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Tier != rows[j].Tier {
			return rows[i].Tier < rows[j].Tier
		}
		return rows[i].Hash < rows[j].Hash
	})
	return rows
}

// Printings lifts the face-level ranking to printing rows (spec §4.6): a
// printing's rank is (tier, hash) of its canonical face, so that multiple
// printings of the same card stay contiguous and in stored order.
func Printings(idx *catalog.CardIndex, pidx *catalog.PrintingIndex, node ast.Node, query string, sessionSalt uint32, printings []int32) []int32 {
	words := bareWords(node)
	seed := FNV1a(query)
	type ranked struct {
		printing int32
		tier     int
		hash     uint32
		order    int
	}
	rows := make([]ranked, len(printings))
	for i, p := range printings {
		canon := pidx.CanonicalFaceRef[p]
		rows[i] = ranked{
			printing: p,
			tier:     prefixTier(idx.NormalizedCombined[canon], words),
			hash:     mix(sessionSalt, seed, int(canon)),
			order:    i,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].tier != rows[j].tier {
			return rows[i].tier < rows[j].tier
		}
		if rows[i].hash != rows[j].hash {
			return rows[i].hash < rows[j].hash
		}
		return rows[i].order < rows[j].order
	})
	out := make([]int32, len(rows))
	for i, r := range rows {
		out[i] = r.printing
	}
	return out
}
