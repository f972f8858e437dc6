package order_test

import (
	"testing"

	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/order"
	"github.com/jimbojw/franticsearch/parser"
)

func fixtureIdx() *catalog.CardIndex {
	cat := &catalog.Catalog{
		NumFaces:      3,
		Name:          []string{"Goblin Guide", "Abrupt Decay", "Goblin Rabblemaster"},
		TypeLine:      []string{"Creature", "Instant", "Creature"},
		OracleText:    []string{"", "", ""},
		CombinedName:  []string{"Goblin Guide", "Abrupt Decay", "Goblin Rabblemaster"},
		ManaCost:      []string{"", "", ""},
		CanonicalFace: []int32{0, 1, 2},
	}
	return catalog.NewCardIndex(cat)
}

func TestPrefixTierBoostsMatchingNames(t *testing.T) {
	idx := fixtureIdx()
	node := parser.Parse("goblin")
	rows := order.Faces(idx, node, "goblin", 42, []int32{0, 1, 2})
	tierOf := make(map[int32]int, len(rows))
	for _, r := range rows {
		tierOf[r.CanonicalFace] = r.Tier
	}
	if tierOf[0] != 0 || tierOf[2] != 0 {
		t.Fatalf("goblin cards should be in prefix tier 0: %v", tierOf)
	}
	if tierOf[1] != 1 {
		t.Fatalf("non-matching card should be in tier 1: %v", tierOf)
	}
}

func TestOrderingDeterministicAcrossRuns(t *testing.T) {
	idx := fixtureIdx()
	node := parser.Parse("goblin")
	a := order.Faces(idx, node, "goblin", 42, []int32{0, 1, 2})
	b := order.Faces(idx, node, "goblin", 42, []int32{0, 1, 2})
	for i := range a {
		if a[i].CanonicalFace != b[i].CanonicalFace || a[i].Hash != b[i].Hash {
			t.Fatalf("ordering not deterministic: %v vs %v", a, b)
		}
	}
}

func TestOrderingChangesWithSalt(t *testing.T) {
	idx := fixtureIdx()
	node := parser.Parse("goblin")
	a := order.Faces(idx, node, "goblin", 1, []int32{0, 1, 2})
	b := order.Faces(idx, node, "goblin", 2, []int32{0, 1, 2})
	same := true
	for i := range a {
		if a[i].Hash != b[i].Hash {
			same = false
		}
	}
	if same {
		t.Fatalf("expected different salts to produce different hashes")
	}
}
