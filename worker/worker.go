// Package worker runs the single-threaded cooperative query loop of spec
// §5: it owns the card index, the optional printing index, and the node
// cache, accepts requests over a channel, and answers over another —
// never exposing any of that state to a caller directly. The
// seed-at-process-start / rand.Seed idiom is grounded on
// vippsas-sqlcode/cli/main.go's own startup seeding.
package worker

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/catalogio"
	"github.com/jimbojw/franticsearch/config"
	"github.com/jimbojw/franticsearch/eval"
	"github.com/jimbojw/franticsearch/ferrors"
	"github.com/jimbojw/franticsearch/histogram"
	"github.com/jimbojw/franticsearch/logging"
	"github.com/jimbojw/franticsearch/order"
	"github.com/jimbojw/franticsearch/parser"
	"github.com/jimbojw/franticsearch/wire"
)

// Request is one incoming search posted by the UI thread (spec §5).
type Request struct {
	QueryID uint64
	Query   string
}

// Message is the tagged union of outgoing worker messages: exactly one of
// Status or Result is set.
type Message struct {
	Status *wire.StatusMessage
	Result *wire.ResultMessage
}

// Worker owns the card index, the (possibly absent) printing index, and
// the node cache, for the life of a process. It is never shared across
// goroutines except through its channels.
type Worker struct {
	idx  *catalog.CardIndex
	pidx *catalog.PrintingIndex

	cache *eval.Cache
	salt  uint32
	log   logging.Logger

	requests chan Request
	results  chan Message
}

// New constructs a Worker over an already-loaded card index. The worker
// starts without a printing index; AttachPrintings (or LoadPrintingsAsync)
// installs one later.
func New(idx *catalog.CardIndex, opts config.WorkerOptions) *Worker {
	salt := opts.SessionSalt
	var s uint32
	if salt != nil {
		s = *salt
	} else {
		s = uint32(rand.New(rand.NewSource(time.Now().UnixNano())).Uint32())
	}
	return &Worker{
		idx:      idx,
		cache:    eval.NewCache(false),
		salt:     s,
		log:      opts.Log(),
		requests: make(chan Request, 16),
		results:  make(chan Message, 16),
	}
}

// Requests returns the channel callers post Request values on.
func (w *Worker) Requests() chan<- Request { return w.requests }

// Results returns the channel callers read Message values from.
func (w *Worker) Results() <-chan Message { return w.results }

// AttachPrintings installs a newly loaded printing index, invalidating the
// node cache (entries computed without printings may have answered
// printing-domain predicates with a "not loaded" fault) and emitting a
// printings-ready status (spec §5, §7).
func (w *Worker) AttachPrintings(pidx *catalog.PrintingIndex) {
	w.pidx = pidx
	w.cache = eval.NewCache(true)
	w.log.Info("worker: printings ready")
	w.results <- Message{Status: &wire.StatusMessage{Type: "status", Status: wire.StatusPrintingsReady}}
}

// LoadPrintingsAsync decodes a printings payload and attaches it, meant to
// run on its own goroutine so the worker keeps answering face-only
// queries while it streams (spec §5's second suspension point). Errors are
// reported as a status message rather than returned, since the caller has
// typically already moved on to other work.
func (w *Worker) LoadPrintingsAsync(r io.Reader, opts config.LoadOptions) {
	pidx, err := catalogio.LoadPrintings(r, opts)
	if err != nil {
		w.log.WithError(err).Warn("worker: failed to load printings")
		w.results <- Message{Status: &wire.StatusMessage{Type: "status", Status: wire.StatusError, Cause: causeFor(err)}}
		return
	}
	w.AttachPrintings(pidx)
}

func causeFor(err error) wire.Cause {
	if f, ok := err.(*ferrors.Fault); ok {
		switch f.Kind {
		case ferrors.KindStaleSchema:
			return wire.CauseStale
		case ferrors.KindNetwork:
			return wire.CauseNetwork
		}
	}
	return wire.CauseUnknown
}

// Run processes requests to completion, one at a time, until ctx is
// canceled. Evaluation never suspends mid-request (spec §5): the worker
// accepts the next request only after fully answering the current one.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			w.results <- w.answer(req)
		}
	}
}

func (w *Worker) answer(req Request) Message {
	node := parser.Parse(req.Query)
	root := eval.Evaluate(node, w.idx, w.pidx, w.cache)

	uniquePrints := eval.ResolveUniqueMode(node) == eval.UniquePrints && w.pidx != nil
	hasPrintingConditions := eval.HasPrintingCondition(node)

	canonicalFaces := histogram.Deduplicate(w.idx, root.Faces)
	rows := order.Faces(w.idx, node, req.Query, w.salt, canonicalFaces)

	indices := make([]uint32, len(rows))
	for i, r := range rows {
		indices[i] = uint32(r.CanonicalFace)
	}

	var printingIndices []uint32
	if uniquePrints && root.Printings != nil {
		printingIDs := root.Printings.ToSlice()
		ordered := order.Printings(w.idx, w.pidx, node, req.Query, w.salt, printingIDs)
		printingIndices = make([]uint32, len(ordered))
		for i, p := range ordered {
			printingIndices[i] = uint32(p)
		}
	}

	msg := &wire.ResultMessage{
		Type:                  "result",
		QueryID:               req.QueryID,
		Indices:               indices,
		PrintingIndices:       printingIndices,
		Breakdown:             toTreeNode(root),
		Histograms:            w.histograms(canonicalFaces),
		HasPrintingConditions: hasPrintingConditions,
		UniquePrints:          uniquePrints,
	}
	return Message{Result: msg}
}

func (w *Worker) histograms(canonicalFaces []int32) wire.Histograms {
	return wire.Histograms{
		ColorIdentity: histogram.ColorIdentity(w.idx, canonicalFaces),
		ManaValue:     histogram.ManaValue(w.idx, canonicalFaces),
		CardType:      histogram.CardType(w.idx, canonicalFaces),
	}
}

func toTreeNode(r *eval.NodeResult) wire.TreeNode {
	node := wire.TreeNode{Label: r.Label, MatchCount: r.MatchCount}
	if r.Err != nil {
		node.Error = r.Err.Error()
	}
	if len(r.Children) > 0 {
		node.Children = make([]wire.TreeNode, len(r.Children))
		for i, c := range r.Children {
			node.Children[i] = toTreeNode(c)
		}
	}
	return node
}
