// Package catalogio decodes the JSON catalog payloads produced by the
// catalog build pipeline into catalog.Catalog / catalog.PrintingIndex
// values (spec §3, §7). It is the only package that knows the wire shape
// of those payloads; the rest of the module works only with the decoded
// struct-of-arrays form.
package catalogio

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/config"
	"github.com/jimbojw/franticsearch/ferrors"
)

// setInfoPayload is one entry of the printing-level set lookup table.
type setInfoPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// catalogPayload is the face-level columnar document catalogio.Load
// decodes: one top-level array per column, all of equal length (spec §3,
// §6 — "All columns have equal length equal to the number of face rows").
type catalogPayload struct {
	SchemaVersion string `json:"schema_version"`

	Name                 []string   `json:"name"`
	ManaCost             []string   `json:"mana_cost"`
	TypeLine             []string   `json:"type_line"`
	OracleText           []string   `json:"oracle_text"`
	CombinedName         []string   `json:"combined_name"`
	Power                []string   `json:"power"`
	Toughness            []string   `json:"toughness"`
	Loyalty              []string   `json:"loyalty"`
	Defense              []string   `json:"defense"`
	ManaValue            []uint16   `json:"mana_value"`
	Color                []uint8    `json:"color"`
	ColorIdentity        []uint8    `json:"color_identity"`
	Layout               []string   `json:"layout"`
	LegalitiesLegal      [][]string `json:"legalities_legal"`
	LegalitiesBanned     [][]string `json:"legalities_banned"`
	LegalitiesRestricted [][]string `json:"legalities_restricted"`
	ScryfallID           []string   `json:"scryfall_id"`
	ArtCropThumbHash     []string   `json:"art_crop_thumb_hash"` // base64
	CardThumbHash        []string   `json:"card_thumb_hash"`     // base64
	CanonicalFace        []int32    `json:"canonical_face"`

	PowerLookup     []string `json:"power_lookup"`
	ToughnessLookup []string `json:"toughness_lookup"`
	LoyaltyLookup   []string `json:"loyalty_lookup"`
	DefenseLookup   []string `json:"defense_lookup"`
}

// printingsPayload is the printing-level columnar document LoadPrintings
// decodes, with the same equal-length-columns requirement as
// catalogPayload.
type printingsPayload struct {
	SchemaVersion string `json:"schema_version"`

	ScryfallID       []string         `json:"scryfall_id"`
	CollectorNumber  []string         `json:"collector_number"`
	SetIndices       []uint16         `json:"set_indices"`
	Rarity           []string         `json:"rarity"`
	Finish           []string         `json:"finish"`
	PriceUSD         []uint32         `json:"price_usd"`
	CanonicalFaceRef []int32          `json:"canonical_face_ref"`
	SetLookup        []setInfoPayload `json:"set_lookup"`
}

var layoutByName = map[string]catalog.Layout{
	"normal":    catalog.LayoutNormal,
	"dfc":       catalog.LayoutDFC,
	"transform": catalog.LayoutDFC,
	"split":     catalog.LayoutSplit,
	"adventure": catalog.LayoutAdventure,
	"flip":      catalog.LayoutFlip,
}

// faceColumnLengths validates the column-length invariant of §3/§6: every
// column in a face-level payload must have the same length as `name`.
func faceColumnLengths(p *catalogPayload) error {
	n := len(p.Name)
	columns := map[string]int{
		"mana_cost":             len(p.ManaCost),
		"type_line":             len(p.TypeLine),
		"oracle_text":           len(p.OracleText),
		"combined_name":         len(p.CombinedName),
		"power":                 len(p.Power),
		"toughness":             len(p.Toughness),
		"loyalty":               len(p.Loyalty),
		"defense":               len(p.Defense),
		"mana_value":            len(p.ManaValue),
		"color":                 len(p.Color),
		"color_identity":        len(p.ColorIdentity),
		"layout":                len(p.Layout),
		"legalities_legal":      len(p.LegalitiesLegal),
		"legalities_banned":     len(p.LegalitiesBanned),
		"legalities_restricted": len(p.LegalitiesRestricted),
		"scryfall_id":           len(p.ScryfallID),
		"art_crop_thumb_hash":   len(p.ArtCropThumbHash),
		"card_thumb_hash":       len(p.CardThumbHash),
		"canonical_face":        len(p.CanonicalFace),
	}
	for name, got := range columns {
		if got != n {
			return ferrors.New(ferrors.KindUnrecoverable, fmt.Sprintf(
				"column %q has length %d, want %d (length of \"name\")", name, got, n))
		}
	}
	return nil
}

// printingColumnLengths validates the same invariant for the
// printing-level payload, anchored on `scryfall_id`.
func printingColumnLengths(p *printingsPayload) error {
	n := len(p.ScryfallID)
	columns := map[string]int{
		"collector_number":   len(p.CollectorNumber),
		"set_indices":        len(p.SetIndices),
		"rarity":             len(p.Rarity),
		"finish":             len(p.Finish),
		"price_usd":          len(p.PriceUSD),
		"canonical_face_ref": len(p.CanonicalFaceRef),
	}
	for name, got := range columns {
		if got != n {
			return ferrors.New(ferrors.KindUnrecoverable, fmt.Sprintf(
				"column %q has length %d, want %d (length of \"scryfall_id\")", name, got, n))
		}
	}
	return nil
}

// Load decodes a face-level catalog payload from r. It rejects a payload
// whose schema_version doesn't match opts.SchemaVersion as stale rather
// than attempting to interpret a shape it wasn't built for, and rejects
// any payload whose columns have unequal lengths (spec §3, §6, §8).
func Load(r io.Reader, opts config.LoadOptions) (*catalog.Catalog, error) {
	log := opts.Log()
	log.Info("catalogio: decoding catalog payload")

	var payload catalogPayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		log.WithError(err).Error("catalogio: malformed catalog payload")
		return nil, ferrors.New(ferrors.KindUnrecoverable, "malformed catalog payload: "+err.Error())
	}
	if payload.SchemaVersion != opts.SchemaVersion {
		log.WithField("got", payload.SchemaVersion).WithField("want", opts.SchemaVersion).
			Warn("catalogio: stale schema version")
		return nil, ferrors.New(ferrors.KindStaleSchema, fmt.Sprintf(
			"catalog schema %q does not match expected %q", payload.SchemaVersion, opts.SchemaVersion))
	}
	if err := faceColumnLengths(&payload); err != nil {
		log.WithError(err).Error("catalogio: unequal column lengths")
		return nil, err
	}

	n := len(payload.Name)
	cat := &catalog.Catalog{
		NumFaces:        n,
		Name:            payload.Name,
		ManaCost:        payload.ManaCost,
		TypeLine:        payload.TypeLine,
		OracleText:      payload.OracleText,
		CombinedName:    payload.CombinedName,
		Power:           make([]uint16, n),
		Toughness:       make([]uint16, n),
		Loyalty:         make([]uint16, n),
		Defense:         make([]uint16, n),
		ManaValue:       payload.ManaValue,
		Color:           payload.Color,
		ColorIdentity:   payload.ColorIdentity,
		Layout:          make([]catalog.Layout, n),
		LegalitiesLeg:   make([]uint32, n),
		LegalitiesBan:   make([]uint32, n),
		LegalitiesRes:   make([]uint32, n),
		ScryfallID:      payload.ScryfallID,
		ArtCropThumb:    make([][]byte, n),
		CardThumb:       make([][]byte, n),
		CanonicalFace:   payload.CanonicalFace,
		PowerLookup:     catalog.StatTable(append([]string{""}, payload.PowerLookup...)),
		ToughnessLookup: catalog.StatTable(append([]string{""}, payload.ToughnessLookup...)),
		LoyaltyLookup:   catalog.StatTable(append([]string{""}, payload.LoyaltyLookup...)),
		DefenseLookup:   catalog.StatTable(append([]string{""}, payload.DefenseLookup...)),
	}

	statIndex := func(lookup []string, value string) uint16 {
		if value == "" {
			return 0
		}
		for i, v := range lookup {
			if v == value {
				return uint16(i + 1)
			}
		}
		return 0
	}

	legalityBits := func(names []string) uint32 {
		var bits uint32
		for _, name := range names {
			if f, ok := catalog.FormatByName(name); ok {
				bits |= 1 << uint(f)
			}
		}
		return bits
	}

	for i := 0; i < n; i++ {
		cat.Power[i] = statIndex(payload.PowerLookup, payload.Power[i])
		cat.Toughness[i] = statIndex(payload.ToughnessLookup, payload.Toughness[i])
		cat.Loyalty[i] = statIndex(payload.LoyaltyLookup, payload.Loyalty[i])
		cat.Defense[i] = statIndex(payload.DefenseLookup, payload.Defense[i])
		if layout, ok := layoutByName[payload.Layout[i]]; ok {
			cat.Layout[i] = layout
		}
		cat.LegalitiesLeg[i] = legalityBits(payload.LegalitiesLegal[i])
		cat.LegalitiesBan[i] = legalityBits(payload.LegalitiesBanned[i])
		cat.LegalitiesRes[i] = legalityBits(payload.LegalitiesRestricted[i])

		if payload.ArtCropThumbHash[i] != "" {
			b, err := base64.StdEncoding.DecodeString(payload.ArtCropThumbHash[i])
			if err != nil {
				log.WithError(err).WithField("face", i).Warn("catalogio: bad art_crop_thumb_hash encoding")
			} else {
				cat.ArtCropThumb[i] = b
			}
		}
		if payload.CardThumbHash[i] != "" {
			b, err := base64.StdEncoding.DecodeString(payload.CardThumbHash[i])
			if err != nil {
				log.WithError(err).WithField("face", i).Warn("catalogio: bad card_thumb_hash encoding")
			} else {
				cat.CardThumb[i] = b
			}
		}
	}

	log.WithField("faces", n).Info("catalogio: catalog ready")
	return cat, nil
}

// LoadPrintings decodes a printing-level payload into a catalog.PrintingIndex.
// It is loaded separately from (and typically after) Load, since printing
// data is larger and can be deferred (spec §5).
func LoadPrintings(r io.Reader, opts config.LoadOptions) (*catalog.PrintingIndex, error) {
	log := opts.Log()
	log.Info("catalogio: decoding printings payload")

	var payload printingsPayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		log.WithError(err).Error("catalogio: malformed printings payload")
		return nil, ferrors.New(ferrors.KindUnrecoverable, "malformed printings payload: "+err.Error())
	}
	if payload.SchemaVersion != opts.SchemaVersion {
		log.WithField("got", payload.SchemaVersion).WithField("want", opts.SchemaVersion).
			Warn("catalogio: stale printings schema version")
		return nil, ferrors.New(ferrors.KindStaleSchema, fmt.Sprintf(
			"printings schema %q does not match expected %q", payload.SchemaVersion, opts.SchemaVersion))
	}
	if err := printingColumnLengths(&payload); err != nil {
		log.WithError(err).Error("catalogio: unequal column lengths")
		return nil, err
	}

	setLookup := make([]catalog.SetInfo, len(payload.SetLookup))
	for i, s := range payload.SetLookup {
		setLookup[i] = catalog.SetInfo{Code: s.Code, Name: s.Name}
	}

	n := len(payload.ScryfallID)
	rarity := make([]catalog.Rarity, n)
	finish := make([]catalog.Finish, n)

	for i := 0; i < n; i++ {
		if r, ok := catalog.RarityByName(payload.Rarity[i]); ok {
			rarity[i] = r
		}
		if f, ok := catalog.FinishByName(payload.Finish[i]); ok {
			finish[i] = f
		}
	}

	log.WithField("printings", n).Info("catalogio: printings ready")
	return catalog.NewPrintingIndex(
		payload.ScryfallID, payload.CollectorNumber, payload.SetIndices,
		rarity, finish, payload.PriceUSD, payload.CanonicalFaceRef, setLookup), nil
}
