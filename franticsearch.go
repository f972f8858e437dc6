// Package franticsearch re-exports the public surface of the query core
// so callers can depend on a single import path. Adapted from
// oarkflow-sqlparser's root-level sqlparser.go, which re-exports its own
// ast/lexer/parser types the same way.
package franticsearch

import (
	"io"

	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/catalogio"
	"github.com/jimbojw/franticsearch/config"
	"github.com/jimbojw/franticsearch/editor"
	"github.com/jimbojw/franticsearch/eval"
	"github.com/jimbojw/franticsearch/parser"
	"github.com/jimbojw/franticsearch/worker"
)

// Re-export the types a caller needs to hold a query, a loaded catalog,
// and a running worker without reaching into subpackages directly.
type (
	Node          = ast.Node
	Catalog       = catalog.Catalog
	CardIndex     = catalog.CardIndex
	PrintingIndex = catalog.PrintingIndex
	NodeResult    = eval.NodeResult
	Cache         = eval.Cache
	Worker        = worker.Worker
	Request       = worker.Request
	Message       = worker.Message
	LoadOptions   = config.LoadOptions
	WorkerOptions = config.WorkerOptions
)

// Parse parses a query string into its AST, per spec §4.1's grammar.
func Parse(query string) Node {
	return parser.Parse(query)
}

// NewWorker constructs a worker bound to an already-loaded card index.
func NewWorker(idx *CardIndex, opts WorkerOptions) *Worker {
	return worker.New(idx, opts)
}

// LoadCatalog decodes a face-level catalog payload and builds its
// derived CardIndex in one step.
func LoadCatalog(r io.Reader, opts LoadOptions) (*CardIndex, error) {
	cat, err := catalogio.Load(r, opts)
	if err != nil {
		return nil, err
	}
	return catalog.NewCardIndex(cat), nil
}

// Seal re-exports editor.Seal, the idempotent source-repair step run
// after every keystroke in the free-text query box (spec §4.7).
func Seal(query string) string {
	return editor.Seal(query)
}
