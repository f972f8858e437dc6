package catalog

// PrintingIndex wraps the printing-level columns with derived lookups
// (spec §4.3): a face-to-printings adjacency, a set-code inverted index,
// and the set lookup table. It is immutable after construction and is
// optional — a Catalog can be searched in face-only mode before (or
// without) a PrintingIndex being loaded (spec §5).
type PrintingIndex struct {
	NumPrintings int

	ScryfallID       []string
	CollectorNumber  []string
	SetIndex         []uint16
	Rarity           []Rarity
	Finish           []Finish
	PriceUSDCents    []uint32
	CanonicalFaceRef []int32

	SetLookup []SetInfo

	// faceToPrintings maps a canonical face index to the ordered printing
	// indices of that card, in payload order.
	faceToPrintings map[int32][]int32
	// setCodeIndex maps a lowercased set code to its printing indices.
	setCodeIndex map[string][]int32
}

// NewPrintingIndex builds the derived tables over the given printing
// columns. setLookup is indexed by SetIndex.
func NewPrintingIndex(scryfallID, collectorNumber []string, setIndex []uint16, rarity []Rarity, finish []Finish, priceCents []uint32, canonicalFaceRef []int32, setLookup []SetInfo) *PrintingIndex {
	n := len(scryfallID)
	idx := &PrintingIndex{
		NumPrintings:     n,
		ScryfallID:       scryfallID,
		CollectorNumber:  collectorNumber,
		SetIndex:         setIndex,
		Rarity:           rarity,
		Finish:           finish,
		PriceUSDCents:    priceCents,
		CanonicalFaceRef: canonicalFaceRef,
		SetLookup:        setLookup,
		faceToPrintings:  make(map[int32][]int32),
		setCodeIndex:     make(map[string][]int32),
	}
	for p := 0; p < n; p++ {
		canon := canonicalFaceRef[p]
		idx.faceToPrintings[canon] = append(idx.faceToPrintings[canon], int32(p))
		code := lowerASCII(setLookup[setIndex[p]].Code)
		idx.setCodeIndex[code] = append(idx.setCodeIndex[code], int32(p))
	}
	return idx
}

// PrintingsOf returns the printing indices of the card whose canonical
// face is canon, in payload order.
func (idx *PrintingIndex) PrintingsOf(canon int32) []int32 {
	return idx.faceToPrintings[canon]
}

// PrintingsInSet returns the printing indices belonging to a set code
// (case-insensitive).
func (idx *PrintingIndex) PrintingsInSet(code string) []int32 {
	return idx.setCodeIndex[lowerASCII(code)]
}
