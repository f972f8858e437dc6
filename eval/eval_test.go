package eval_test

import (
	"testing"

	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/eval"
	"github.com/jimbojw/franticsearch/parser"
)

// buildFixture constructs a small hand-built catalog covering: basic
// conjunction, card-level NOT lifting across a DFC, color-identity exact
// equality, and mana-cost multiset comparison (spec §8 scenarios 1, 3, 4, 5).
func buildFixture() *catalog.CardIndex {
	names := []string{
		"Storm Crow", "Huntmaster of the Fells", "Ravager of the Fells",
		"Lightning Bolt", "Crackling Drake", "Regal Caracal",
		"Testcard1", "Testcard2", "Testcard3",
	}
	types := []string{
		"Creature — Bird", "Creature — Human Werewolf", "Creature — Werewolf",
		"Instant", "Creature — Drake", "Creature — Cat",
		"Sorcery", "Sorcery", "Sorcery",
	}
	oracle := []string{
		"Flying", "At the beginning of each upkeep... Flying.", "Whenever this creature transforms...",
		"Lightning Bolt deals 3 damage to any target.", "Flying", "",
		"", "", "",
	}
	combined := []string{
		"Storm Crow", "Huntmaster of the Fells // Ravager of the Fells", "Huntmaster of the Fells // Ravager of the Fells",
		"Lightning Bolt", "Crackling Drake", "Regal Caracal",
		"Testcard1", "Testcard2", "Testcard3",
	}
	manaCost := []string{
		"{1}{U}", "{2}{R}{G}", "",
		"{R}", "{2}{U}{R}", "{2}{W}{W}",
		"{3}{R}", "{R}{3}", "{R}{R}{R}",
	}
	color := []uint8{
		catalog.ColorU, catalog.ColorR | catalog.ColorG, catalog.ColorR | catalog.ColorG,
		catalog.ColorR, catalog.ColorU | catalog.ColorR, catalog.ColorW,
		catalog.ColorR, catalog.ColorR, catalog.ColorR,
	}
	identity := []uint8{
		catalog.ColorU, catalog.ColorR | catalog.ColorG, catalog.ColorR | catalog.ColorG,
		catalog.ColorR, catalog.ColorU | catalog.ColorR, catalog.ColorW | catalog.ColorU | catalog.ColorR,
		catalog.ColorR, catalog.ColorR, catalog.ColorR,
	}
	canonical := []int32{0, 1, 1, 3, 4, 5, 6, 7, 8}

	n := len(names)
	cat := &catalog.Catalog{
		NumFaces:        n,
		Name:            names,
		ManaCost:        manaCost,
		TypeLine:        types,
		OracleText:      oracle,
		CombinedName:    combined,
		Power:           make([]uint16, n),
		Toughness:       make([]uint16, n),
		Loyalty:         make([]uint16, n),
		Defense:         make([]uint16, n),
		ManaValue:       make([]uint16, n),
		Color:           color,
		ColorIdentity:   identity,
		Layout:          make([]catalog.Layout, n),
		LegalitiesLeg:   make([]uint32, n),
		LegalitiesBan:   make([]uint32, n),
		LegalitiesRes:   make([]uint32, n),
		ScryfallID:      make([]string, n),
		ArtCropThumb:    make([][]byte, n),
		CardThumb:       make([][]byte, n),
		CanonicalFace:   canonical,
		PowerLookup:     catalog.StatTable{""},
		ToughnessLookup: catalog.StatTable{""},
		LoyaltyLookup:   catalog.StatTable{""},
		DefenseLookup:   catalog.StatTable{""},
	}
	return catalog.NewCardIndex(cat)
}

func evalQuery(t *testing.T, idx *catalog.CardIndex, query string) *eval.NodeResult {
	t.Helper()
	node := parser.Parse(query)
	cache := eval.NewCache(false)
	return eval.Evaluate(node, idx, nil, cache)
}

// buildPrintingFixture builds a 2-card, 3-printing index (Sol Ring with
// two printings in different sets, plus one unrelated card) so the
// printing domain and the unique:prints marker (spec §4.4 scenario 6) can
// be exercised end to end.
func buildPrintingFixture() (*catalog.CardIndex, *catalog.PrintingIndex) {
	names := []string{"Sol Ring", "Counterspell"}
	n := len(names)
	cat := &catalog.Catalog{
		NumFaces:        n,
		Name:            names,
		ManaCost:        []string{"{1}", "{U}{U}"},
		TypeLine:        []string{"Artifact", "Instant"},
		OracleText:      []string{"", "Counter target spell."},
		CombinedName:    names,
		Power:           make([]uint16, n),
		Toughness:       make([]uint16, n),
		Loyalty:         make([]uint16, n),
		Defense:         make([]uint16, n),
		ManaValue:       []uint16{1, 2},
		Color:           []uint8{0, catalog.ColorU},
		ColorIdentity:   []uint8{0, catalog.ColorU},
		Layout:          make([]catalog.Layout, n),
		LegalitiesLeg:   make([]uint32, n),
		LegalitiesBan:   make([]uint32, n),
		LegalitiesRes:   make([]uint32, n),
		ScryfallID:      make([]string, n),
		ArtCropThumb:    make([][]byte, n),
		CardThumb:       make([][]byte, n),
		CanonicalFace:   []int32{0, 1},
		PowerLookup:     catalog.StatTable{""},
		ToughnessLookup: catalog.StatTable{""},
		LoyaltyLookup:   catalog.StatTable{""},
		DefenseLookup:   catalog.StatTable{""},
	}
	idx := catalog.NewCardIndex(cat)

	setLookup := []catalog.SetInfo{{Code: "clb", Name: "Commander Legends: Battle for Baldur's Gate"}, {Code: "c21", Name: "Commander 2021"}}
	pidx := catalog.NewPrintingIndex(
		[]string{"sol-clb", "sol-c21", "cspell-ice"},
		[]string{"263", "102", "55"},
		[]uint16{0, 1, 1},
		[]catalog.Rarity{catalog.RarityUncommon, catalog.RarityUncommon, catalog.RarityCommon},
		[]catalog.Finish{catalog.FinishNonfoil, catalog.FinishNonfoil, catalog.FinishNonfoil},
		[]uint32{100, 150, 200},
		[]int32{0, 0, 1},
		setLookup,
	)
	return idx, pidx
}

func evalPrintingQuery(t *testing.T, idx *catalog.CardIndex, pidx *catalog.PrintingIndex, query string) *eval.NodeResult {
	t.Helper()
	node := parser.Parse(query)
	cache := eval.NewCache(true)
	return eval.Evaluate(node, idx, pidx, cache)
}

func TestBasicConjunction(t *testing.T) {
	idx := buildFixture()
	res := evalQuery(t, idx, "t:creature c:green")
	got := res.Faces.ToSlice()
	want := map[int32]bool{1: true, 2: true}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for _, f := range got {
		if !want[f] {
			t.Fatalf("unexpected face %d in result %v", f, got)
		}
	}
}

func TestExactName(t *testing.T) {
	idx := buildFixture()
	res := evalQuery(t, idx, `!"Lightning Bolt"`)
	got := res.Faces.ToSlice()
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestFaceLevelNotLiftsToCard(t *testing.T) {
	idx := buildFixture()
	res := evalQuery(t, idx, "-o:flying")
	for _, excluded := range []int32{0, 1, 2, 4} {
		if res.Faces.Test(int(excluded)) {
			t.Fatalf("face %d should be excluded by card-level NOT lifting, result=%v", excluded, res.Faces.ToSlice())
		}
	}
	for _, included := range []int32{3, 5, 6, 7, 8} {
		if !res.Faces.Test(int(included)) {
			t.Fatalf("face %d should be included, result=%v", included, res.Faces.ToSlice())
		}
	}
}

func TestColorIdentityExactEquality(t *testing.T) {
	idx := buildFixture()
	res := evalQuery(t, idx, "ci=ur")
	got := res.Faces.ToSlice()
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("got %v, expected only face 4 (exact U|R identity)", got)
	}
}

func TestManaCostMultisetEquality(t *testing.T) {
	idx := buildFixture()
	res := evalQuery(t, idx, "m=3R")
	got := map[int32]bool{}
	for _, f := range res.Faces.ToSlice() {
		got[f] = true
	}
	if !got[6] || !got[7] {
		t.Fatalf("expected faces 6 and 7 to match {3,R} multiset, got %v", res.Faces.ToSlice())
	}
	if got[8] {
		t.Fatalf("face 8 ({R}{R}{R}) should not match m=3R")
	}
}

func TestBareUniquePrintsPopulatesPrintingDomain(t *testing.T) {
	idx, pidx := buildPrintingFixture()
	res := evalPrintingQuery(t, idx, pidx, "unique:prints")
	if res.Printings == nil {
		t.Fatalf("expected a bare unique:prints query to populate Printings")
	}
	if res.Printings.Count() != pidx.NumPrintings {
		t.Fatalf("expected all %d printings to match, got %d", pidx.NumPrintings, res.Printings.Count())
	}
	if eval.ResolveUniqueMode(parser.Parse("unique:prints")) != eval.UniquePrints {
		t.Fatalf("expected UniquePrints mode")
	}
}

func TestSetConditionWithUniquePrints(t *testing.T) {
	idx, pidx := buildPrintingFixture()
	res := evalPrintingQuery(t, idx, pidx, `!"Sol Ring" s:clb unique:prints`)
	if res.Printings == nil {
		t.Fatalf("expected Printings to be populated")
	}
	got := res.Printings.ToSlice()
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected only the clb Sol Ring printing (index 0), got %v", got)
	}
	if !eval.HasPrintingCondition(parser.Parse(`!"Sol Ring" s:clb unique:prints`)) {
		t.Fatalf("expected s:clb to register as a printing condition")
	}
}

func TestNodeCacheSharesResults(t *testing.T) {
	idx := buildFixture()
	cache := eval.NewCache(false)
	node := parser.Parse("t:creature")
	a := eval.Evaluate(node, idx, nil, cache)
	b := eval.Evaluate(node, idx, nil, cache)
	if a != b {
		t.Fatalf("expected cache hit to return the same NodeResult pointer")
	}
}
