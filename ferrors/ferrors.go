// Package ferrors defines Frantic Search's closed error-kind vocabulary
// (spec §7). Errors never propagate as exceptions: a Fault is an optional
// annotation carried alongside a best-effort result, in the teacher's
// AnalysisFinding/ParseError shape — a plain struct with a kind
// discriminator and a human message, never a panic.
package ferrors

// Kind is a closed tag naming a recoverable problem.
type Kind string

const (
	// Load-lifecycle kinds (spec §7 table).
	KindNetwork       Kind = "network"
	KindStaleSchema   Kind = "stale"
	KindUnrecoverable Kind = "unknown"

	// Per-node evaluator kinds (spec §4.4 "error" tag, §7 "field-level fault").
	KindUnknownField           Kind = "unknown-field"
	KindInvalidRegex           Kind = "invalid-regex"
	KindNonNumericComparison   Kind = "non-numeric-comparison"
	KindPrintingsNotLoaded     Kind = "printings-not-loaded"
	KindUnknownFormat          Kind = "unknown-format"
	KindUnknownRarity          Kind = "unknown-rarity"
	KindUnknownFinish          Kind = "unknown-finish"
	KindMalformedFragment      Kind = "malformed-fragment"
	KindInvalidColorValue      Kind = "invalid-color-value"
	KindInvalidPrice           Kind = "invalid-price"
)

// Fault is a recoverable problem attached to a NodeResult or returned from
// a load function. It never replaces a usable (if best-effort) result.
type Fault struct {
	Kind    Kind
	Message string
}

// New builds a Fault with the given kind and message.
func New(kind Kind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

func (f *Fault) Error() string {
	if f == nil {
		return ""
	}
	return string(f.Kind) + ": " + f.Message
}
