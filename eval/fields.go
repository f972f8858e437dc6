package eval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/bitset"
	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/ferrors"
)

// fieldKind is the canonical concept a field alias resolves to (spec §4.4
// field-alias table).
type fieldKind uint8

const (
	fieldUnknown fieldKind = iota
	fieldName
	fieldOracle
	fieldType
	fieldColor
	fieldIdentity
	fieldPower
	fieldToughness
	fieldLoyalty
	fieldDefense
	fieldManaValue
	fieldMana
	fieldLegal
	fieldSet
	fieldRarity
	fieldFinish
	fieldUSD
	fieldIs
	fieldUnique
)

var fieldAliases = map[string]fieldKind{
	"name": fieldName, "n": fieldName,
	"oracle": fieldOracle, "o": fieldOracle,
	"type": fieldType, "t": fieldType,
	"color": fieldColor, "c": fieldColor,
	"identity": fieldIdentity, "id": fieldIdentity, "ci": fieldIdentity, "commander": fieldIdentity, "cmd": fieldIdentity,
	"power": fieldPower, "pow": fieldPower,
	"toughness": fieldToughness, "tou": fieldToughness,
	"loyalty": fieldLoyalty, "loy": fieldLoyalty,
	"defense": fieldDefense, "def": fieldDefense,
	"mv": fieldManaValue, "cmc": fieldManaValue,
	"mana": fieldMana, "m": fieldMana,
	"legal": fieldLegal, "f": fieldLegal, "format": fieldLegal,
	"set": fieldSet, "s": fieldSet, "e": fieldSet,
	"rarity": fieldRarity, "r": fieldRarity,
	"finish": fieldFinish,
	"usd":    fieldUSD, "price": fieldUSD,
	"is":     fieldIs,
	"unique": fieldUnique,
}

func (e *env) evalField(n *ast.Field, label string) *NodeResult {
	kind, ok := fieldAliases[n.FieldName]
	if !ok {
		return e.fieldFault(label, ferrors.KindUnknownField, "unknown field: "+n.FieldName, false)
	}
	switch kind {
	case fieldName:
		return e.evalSubstringField(label, n.Op, n.Value, e.idx.LowerCombined, e.idx.LowerName)
	case fieldOracle:
		return e.evalSubstringField(label, n.Op, n.Value, e.idx.LowerOracle)
	case fieldType:
		return e.evalSubstringField(label, n.Op, n.Value, e.idx.LowerType)
	case fieldColor:
		return e.evalColorField(label, n.Op, n.Value, e.idx.Cat.Color)
	case fieldIdentity:
		return e.evalColorField(label, n.Op, n.Value, e.idx.Cat.ColorIdentity)
	case fieldPower:
		return e.evalStatField(label, n.Op, n.Value, e.idx.Cat.Power, e.idx.Cat.PowerLookup)
	case fieldToughness:
		return e.evalStatField(label, n.Op, n.Value, e.idx.Cat.Toughness, e.idx.Cat.ToughnessLookup)
	case fieldLoyalty:
		return e.evalStatField(label, n.Op, n.Value, e.idx.Cat.Loyalty, e.idx.Cat.LoyaltyLookup)
	case fieldDefense:
		return e.evalStatField(label, n.Op, n.Value, e.idx.Cat.Defense, e.idx.Cat.DefenseLookup)
	case fieldManaValue:
		return e.evalManaValueField(label, n.Op, n.Value)
	case fieldMana:
		return e.evalManaField(label, n.Op, n.Value)
	case fieldLegal:
		return e.evalLegalField(label, n.Value)
	case fieldSet:
		return e.evalSetField(label, n.Value)
	case fieldRarity:
		return e.evalRarityField(label, n.Op, n.Value)
	case fieldFinish:
		return e.evalFinishField(label, n.Value)
	case fieldUSD:
		return e.evalUSDField(label, n.Op, n.Value)
	case fieldIs:
		return e.evalIsField(label, n.Value)
	case fieldUnique:
		return e.evalUniqueField(label, n.Value)
	default:
		return e.fieldFault(label, ferrors.KindUnknownField, "unknown field: "+n.FieldName, false)
	}
}

// fieldFault builds an empty-set NodeResult annotated with a fault, so
// surrounding boolean logic keeps working (spec §7). The empty argument
// does not change the result: every fault yields an empty face set.
func (e *env) fieldFault(label string, kind ferrors.Kind, msg string, empty bool) *NodeResult {
	faces := bitset.New(e.idx.Cat.NumFaces)
	return &NodeResult{Label: label, Faces: faces, MatchCount: 0, Err: ferrors.New(kind, msg)}
}

func (e *env) evalRegexField(n *ast.RegexField, label string) *NodeResult {
	re, err := regexp.Compile("(?i)" + n.Pattern)
	if err != nil {
		return e.fieldFault(label, ferrors.KindInvalidRegex, "invalid regex: "+err.Error(), true)
	}
	faces := bitset.New(e.idx.Cat.NumFaces)
	switch n.FieldName {
	case "":
		for f := 0; f < e.idx.Cat.NumFaces; f++ {
			if re.MatchString(e.idx.Cat.CombinedName[f]) || re.MatchString(e.idx.Cat.OracleText[f]) || re.MatchString(e.idx.Cat.TypeLine[f]) {
				faces.Set(f)
			}
		}
	case "o", "oracle":
		for f := 0; f < e.idx.Cat.NumFaces; f++ {
			if re.MatchString(e.idx.Cat.OracleText[f]) {
				faces.Set(f)
			}
		}
	case "t", "type":
		for f := 0; f < e.idx.Cat.NumFaces; f++ {
			if re.MatchString(e.idx.Cat.TypeLine[f]) {
				faces.Set(f)
			}
		}
	case "n", "name":
		for f := 0; f < e.idx.Cat.NumFaces; f++ {
			if re.MatchString(e.idx.Cat.CombinedName[f]) {
				faces.Set(f)
			}
		}
	default:
		return e.fieldFault(label, ferrors.KindUnknownField, "unknown regex field: "+n.FieldName, true)
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}

func (e *env) evalSubstringField(label string, op ast.Operator, value string, columns ...[]string) *NodeResult {
	needle := lowerNoFold(value)
	faces := bitset.New(e.idx.Cat.NumFaces)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		matched := false
		for _, col := range columns {
			if op == ast.OpEq {
				if col[f] == needle {
					matched = true
					break
				}
				continue
			}
			if containsFold(col[f], needle) {
				matched = true
				break
			}
		}
		if matched {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}

// --- color / identity ---

// parseColorValue parses a WUBRG letter run, or the "m"/"multicolor" and
// "c"/"colorless" keywords (spec §4.4).
func parseColorValue(value string) (mask uint8, multicolor bool, ok bool) {
	lower := strings.ToLower(value)
	switch lower {
	case "c", "colorless":
		return 0, false, true
	case "m", "multicolor":
		return 0, true, true
	case "white":
		return catalog.ColorW, false, true
	case "blue":
		return catalog.ColorU, false, true
	case "black":
		return catalog.ColorB, false, true
	case "red":
		return catalog.ColorR, false, true
	case "green":
		return catalog.ColorG, false, true
	}
	var m uint8
	for _, r := range lower {
		switch r {
		case 'w':
			m |= catalog.ColorW
		case 'u':
			m |= catalog.ColorU
		case 'b':
			m |= catalog.ColorB
		case 'r':
			m |= catalog.ColorR
		case 'g':
			m |= catalog.ColorG
		default:
			return 0, false, false
		}
	}
	return m, false, true
}

func popcount8(b uint8) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

func (e *env) evalColorField(label string, op ast.Operator, value string, column []uint8) *NodeResult {
	queryMask, multicolor, ok := parseColorValue(value)
	if !ok {
		return e.fieldFault(label, ferrors.KindInvalidColorValue, "invalid color value: "+value, true)
	}
	faces := bitset.New(e.idx.Cat.NumFaces)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		cardMask := column[f]
		var match bool
		if multicolor {
			match = popcount8(cardMask) >= 2
		} else {
			switch op {
			case ast.OpColon, ast.OpGte:
				match = cardMask&queryMask == queryMask
			case ast.OpEq:
				match = cardMask == queryMask
			case ast.OpNeq:
				match = cardMask != queryMask
			case ast.OpLte:
				match = queryMask&cardMask == cardMask
			default:
				match = cardMask&queryMask == queryMask
			}
		}
		if match {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}

// --- numeric stats ---

func parseNumericValue(value string) (float64, bool) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func compareNumeric(op ast.Operator, have, want float64) bool {
	switch op {
	case ast.OpColon, ast.OpEq:
		return have == want
	case ast.OpNeq:
		return have != want
	case ast.OpLt:
		return have < want
	case ast.OpLte:
		return have <= want
	case ast.OpGt:
		return have > want
	case ast.OpGte:
		return have >= want
	default:
		return false
	}
}

// evalStatField implements power/toughness/loyalty/defense. Absent stats
// (index 0) never satisfy any comparison; non-numeric stats ("*", "1+*")
// never satisfy a numeric comparison (spec §4.4).
func (e *env) evalStatField(label string, op ast.Operator, value string, column []uint16, lookup catalog.StatTable) *NodeResult {
	want, wantOK := parseNumericValue(value)
	faces := bitset.New(e.idx.Cat.NumFaces)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		str, present := lookup.Lookup(column[f])
		if !present {
			continue
		}
		have, haveOK := parseNumericValue(str)
		if !haveOK || !wantOK {
			continue
		}
		if compareNumeric(op, have, want) {
			faces.Set(f)
		}
	}
	var fault *ferrors.Fault
	if !wantOK {
		fault = ferrors.New(ferrors.KindNonNumericComparison, "non-numeric comparison value: "+value)
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count(), Err: fault}
}

func (e *env) evalManaValueField(label string, op ast.Operator, value string) *NodeResult {
	want, wantOK := parseNumericValue(value)
	faces := bitset.New(e.idx.Cat.NumFaces)
	if wantOK {
		for f := 0; f < e.idx.Cat.NumFaces; f++ {
			if compareNumeric(op, float64(e.idx.Cat.ManaValue[f]), want) {
				faces.Set(f)
			}
		}
	}
	var fault *ferrors.Fault
	if !wantOK {
		fault = ferrors.New(ferrors.KindNonNumericComparison, "non-numeric mana value: "+value)
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count(), Err: fault}
}

// --- legality ---

func (e *env) evalLegalField(label, value string) *NodeResult {
	format, ok := catalog.FormatByName(value)
	if !ok {
		return e.fieldFault(label, ferrors.KindUnknownFormat, "unknown format: "+value, true)
	}
	bit := uint32(1) << uint(format)
	faces := bitset.New(e.idx.Cat.NumFaces)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		if e.idx.Cat.LegalitiesLeg[f]&bit != 0 {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}

// --- printing-domain fields ---

func (e *env) evalSetField(label, value string) *NodeResult {
	if e.pidx == nil {
		return e.printingsNotLoaded(label)
	}
	printings := bitset.New(e.pidx.NumPrintings)
	for _, p := range e.pidx.PrintingsInSet(value) {
		printings.Set(int(p))
	}
	faces := liftPrintingsToFaces(printings, e.idx, e.pidx)
	return &NodeResult{Label: label, Faces: faces, Printings: printings, MatchCount: printings.Count()}
}

func (e *env) evalRarityField(label string, op ast.Operator, value string) *NodeResult {
	if e.pidx == nil {
		return e.printingsNotLoaded(label)
	}
	want, ok := catalog.RarityByName(value)
	if !ok {
		return e.fieldFault(label, ferrors.KindUnknownRarity, "unknown rarity: "+value, true)
	}
	printings := bitset.New(e.pidx.NumPrintings)
	for p := 0; p < e.pidx.NumPrintings; p++ {
		if compareNumeric(op, float64(e.pidx.Rarity[p]), float64(want)) {
			printings.Set(p)
		}
	}
	faces := liftPrintingsToFaces(printings, e.idx, e.pidx)
	return &NodeResult{Label: label, Faces: faces, Printings: printings, MatchCount: printings.Count()}
}

func (e *env) evalFinishField(label, value string) *NodeResult {
	if e.pidx == nil {
		return e.printingsNotLoaded(label)
	}
	want, ok := catalog.FinishByName(value)
	if !ok {
		return e.fieldFault(label, ferrors.KindUnknownFinish, "unknown finish: "+value, true)
	}
	printings := bitset.New(e.pidx.NumPrintings)
	for p := 0; p < e.pidx.NumPrintings; p++ {
		if e.pidx.Finish[p] == want {
			printings.Set(p)
		}
	}
	faces := liftPrintingsToFaces(printings, e.idx, e.pidx)
	return &NodeResult{Label: label, Faces: faces, Printings: printings, MatchCount: printings.Count()}
}

func (e *env) evalUSDField(label string, op ast.Operator, value string) *NodeResult {
	if e.pidx == nil {
		return e.printingsNotLoaded(label)
	}
	dollars, ok := parseNumericValue(value)
	if !ok {
		return e.fieldFault(label, ferrors.KindInvalidPrice, "invalid price: "+value, true)
	}
	wantCents := dollars * 100
	printings := bitset.New(e.pidx.NumPrintings)
	for p := 0; p < e.pidx.NumPrintings; p++ {
		cents := e.pidx.PriceUSDCents[p]
		if cents == 0 {
			continue // unknown price never satisfies a comparison
		}
		if compareNumeric(op, float64(cents), wantCents) {
			printings.Set(p)
		}
	}
	faces := liftPrintingsToFaces(printings, e.idx, e.pidx)
	return &NodeResult{Label: label, Faces: faces, Printings: printings, MatchCount: printings.Count()}
}

// evalUniqueField handles the unique:cards / unique:prints marker: it
// never filters, so Faces is always the full face set. unique:prints
// additionally forces Printings to the full printing set so that any
// surrounding AND/OR elevates into printing domain and the worker sees a
// populated root.Printings even for a bare "unique:prints" query with no
// other printing-domain predicate (spec §4.4, §4.4 scenario 6).
func (e *env) evalUniqueField(label, value string) *NodeResult {
	faces := bitset.Full(e.idx.Cat.NumFaces)
	res := &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
	if strings.EqualFold(value, "prints") && e.pidx != nil {
		res.Printings = bitset.Full(e.pidx.NumPrintings)
	}
	return res
}

func (e *env) printingsNotLoaded(label string) *NodeResult {
	faces := bitset.New(e.idx.Cat.NumFaces)
	return &NodeResult{
		Label: label, Faces: faces, MatchCount: 0,
		Err: ferrors.New(ferrors.KindPrintingsNotLoaded, "printing-domain predicate requires printings to be loaded"),
	}
}

// --- is: keyword ---

func (e *env) evalIsField(label, value string) *NodeResult {
	faces := bitset.New(e.idx.Cat.NumFaces)
	lower := strings.ToLower(value)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		var match bool
		switch lower {
		case "dfc", "transform":
			match = e.idx.Cat.Layout[f] == catalog.LayoutDFC
		case "split":
			match = e.idx.Cat.Layout[f] == catalog.LayoutSplit
		case "adventure":
			match = e.idx.Cat.Layout[f] == catalog.LayoutAdventure
		case "flip":
			match = e.idx.Cat.Layout[f] == catalog.LayoutFlip
		case "dual":
			match = popcount8(e.idx.Cat.ColorIdentity[f]) == 2
		default:
			continue
		}
		if match {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}
