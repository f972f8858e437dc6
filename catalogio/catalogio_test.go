package catalogio_test

import (
	"strings"
	"testing"

	"github.com/jimbojw/franticsearch/catalogio"
	"github.com/jimbojw/franticsearch/config"
)

const sampleCatalog = `{
	"schema_version": "v1",
	"power_lookup": ["*", "1+*"],
	"toughness_lookup": ["*"],
	"loyalty_lookup": [],
	"defense_lookup": [],
	"name": ["Tarmogoyf", "Lightning Bolt"],
	"mana_cost": ["{1}{G}", "{R}"],
	"type_line": ["Creature — Lhurgoyf", "Instant"],
	"oracle_text": ["Tarmogoyf gets +1/+1 for each card type among cards in all graveyards.", "Lightning Bolt deals 3 damage to any target."],
	"combined_name": ["Tarmogoyf", "Lightning Bolt"],
	"power": ["*", ""],
	"toughness": ["*", ""],
	"loyalty": ["", ""],
	"defense": ["", ""],
	"mana_value": [2, 1],
	"color": [16, 8],
	"color_identity": [16, 8],
	"layout": ["normal", "normal"],
	"legalities_legal": [["modern", "legacy", "vintage"], ["modern", "legacy", "vintage"]],
	"legalities_banned": [[], []],
	"legalities_restricted": [[], []],
	"scryfall_id": ["abc-123", "def-456"],
	"art_crop_thumb_hash": ["", ""],
	"card_thumb_hash": ["", ""],
	"canonical_face": [0, 1]
}`

func TestLoadDecodesFaces(t *testing.T) {
	cat, err := catalogio.Load(strings.NewReader(sampleCatalog), config.LoadOptions{SchemaVersion: "v1"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.NumFaces != 2 {
		t.Fatalf("got %d faces", cat.NumFaces)
	}
	if cat.Name[0] != "Tarmogoyf" {
		t.Fatalf("got name %q", cat.Name[0])
	}
	if p, ok := cat.PowerLookup.Lookup(cat.Power[0]); !ok || p != "*" {
		t.Fatalf("got power %q ok=%v", p, ok)
	}
}

func TestLoadRejectsStaleSchema(t *testing.T) {
	_, err := catalogio.Load(strings.NewReader(sampleCatalog), config.LoadOptions{SchemaVersion: "v2"})
	if err == nil {
		t.Fatalf("expected stale schema error")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := catalogio.Load(strings.NewReader("{not json"), config.LoadOptions{SchemaVersion: "v1"})
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

const sampleCatalogUnequalColumns = `{
	"schema_version": "v1",
	"power_lookup": [],
	"toughness_lookup": [],
	"loyalty_lookup": [],
	"defense_lookup": [],
	"name": ["Tarmogoyf", "Lightning Bolt"],
	"mana_cost": ["{1}{G}"],
	"type_line": ["Creature — Lhurgoyf", "Instant"],
	"oracle_text": ["", ""],
	"combined_name": ["Tarmogoyf", "Lightning Bolt"],
	"power": ["", ""],
	"toughness": ["", ""],
	"loyalty": ["", ""],
	"defense": ["", ""],
	"mana_value": [2, 1],
	"color": [16, 8],
	"color_identity": [16, 8],
	"layout": ["normal", "normal"],
	"legalities_legal": [[], []],
	"legalities_banned": [[], []],
	"legalities_restricted": [[], []],
	"scryfall_id": ["abc-123", "def-456"],
	"art_crop_thumb_hash": ["", ""],
	"card_thumb_hash": ["", ""],
	"canonical_face": [0, 1]
}`

func TestLoadRejectsUnequalColumnLengths(t *testing.T) {
	_, err := catalogio.Load(strings.NewReader(sampleCatalogUnequalColumns), config.LoadOptions{SchemaVersion: "v1"})
	if err == nil {
		t.Fatalf("expected column-length mismatch error")
	}
}

const samplePrintings = `{
	"schema_version": "v1",
	"set_lookup": [{"code": "mh2", "name": "Modern Horizons 2"}],
	"scryfall_id": ["abc-123"],
	"collector_number": ["187"],
	"set_indices": [0],
	"rarity": ["mythic"],
	"finish": ["nonfoil"],
	"price_usd": [4500],
	"canonical_face_ref": [0]
}`

func TestLoadPrintings(t *testing.T) {
	pidx, err := catalogio.LoadPrintings(strings.NewReader(samplePrintings), config.LoadOptions{SchemaVersion: "v1"})
	if err != nil {
		t.Fatalf("LoadPrintings: %v", err)
	}
	if pidx.NumPrintings != 1 {
		t.Fatalf("got %d printings", pidx.NumPrintings)
	}
	if got := pidx.PrintingsInSet("MH2"); len(got) != 1 {
		t.Fatalf("PrintingsInSet case-insensitive lookup failed: %v", got)
	}
}

const samplePrintingsUnequalColumns = `{
	"schema_version": "v1",
	"set_lookup": [{"code": "mh2", "name": "Modern Horizons 2"}],
	"scryfall_id": ["abc-123", "ghi-789"],
	"collector_number": ["187"],
	"set_indices": [0, 0],
	"rarity": ["mythic", "rare"],
	"finish": ["nonfoil", "foil"],
	"price_usd": [4500, 1200],
	"canonical_face_ref": [0, 0]
}`

func TestLoadPrintingsRejectsUnequalColumnLengths(t *testing.T) {
	_, err := catalogio.LoadPrintings(strings.NewReader(samplePrintingsUnequalColumns), config.LoadOptions{SchemaVersion: "v1"})
	if err == nil {
		t.Fatalf("expected column-length mismatch error")
	}
}
