// Package eval recursively evaluates a parsed query AST against a
// catalog.CardIndex (and, when loaded, a catalog.PrintingIndex) producing a
// face bitset, an optional printing bitset, and a per-subexpression
// match-count tree (spec §4.4). The recursion shape — a switch over the
// closed ast.Node sum type, combining child results at each level — is
// grounded on oarkflow-sqlparser/dialect.go's renderExpr/renderStatement
// walk over its own AST.
package eval

import (
	"github.com/jimbojw/franticsearch/ast"
	"github.com/jimbojw/franticsearch/bitset"
	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/ferrors"
)

// NodeResult is the evaluator's output for one AST node (spec §4.4). It
// doubles as the per-subexpression breakdown tree: Children mirrors the
// node's own children in order.
type NodeResult struct {
	Label      string
	Faces      *bitset.Set
	Printings  *bitset.Set // nil unless this node (or a descendant) is printing-domain
	MatchCount int
	Children   []*NodeResult
	Err        *ferrors.Fault
}

// env bundles the read-only inputs threaded through every recursive call.
type env struct {
	idx  *catalog.CardIndex
	pidx *catalog.PrintingIndex
}

// Evaluate walks node against idx (and pidx, if loaded), consulting cache
// for memoized subresults. pidx may be nil when the printings payload
// hasn't finished loading yet; printing-domain predicates then report a
// KindPrintingsNotLoaded fault but the query still evaluates in face
// domain (spec §7).
func Evaluate(node ast.Node, idx *catalog.CardIndex, pidx *catalog.PrintingIndex, cache *Cache) *NodeResult {
	if cached, ok := cache.get(node); ok {
		return cached
	}
	e := &env{idx: idx, pidx: pidx}
	res := e.eval(node, cache)
	cache.put(node, res)
	return res
}

func (e *env) eval(node ast.Node, cache *Cache) *NodeResult {
	label := ast.Label(node)
	switch n := node.(type) {
	case *ast.And:
		return e.evalBool(n.Children, label, cache, true)
	case *ast.Or:
		return e.evalBool(n.Children, label, cache, false)
	case *ast.Not:
		return e.evalNot(n, label, cache)
	case *ast.Field:
		return e.evalField(n, label)
	case *ast.RegexField:
		return e.evalRegexField(n, label)
	case *ast.Bare:
		return e.evalBare(n, label)
	case *ast.Exact:
		return e.evalExact(n, label)
	case *ast.Nop:
		return e.evalNop(label)
	default:
		return e.evalNop(label)
	}
}

func (e *env) evalChild(n ast.Node, cache *Cache) *NodeResult {
	if cached, ok := cache.get(n); ok {
		return cached
	}
	res := e.eval(n, cache)
	cache.put(n, res)
	return res
}

// evalBool combines child results for AND (isAnd=true) or OR (isAnd=false).
// Booleans are computed in printing domain whenever any child is; the face
// bitset is then re-derived from the printing result (spec §4.4).
func (e *env) evalBool(children []ast.Node, label string, cache *Cache, isAnd bool) *NodeResult {
	kids := make([]*NodeResult, len(children))
	needPrinting := false
	for i, c := range children {
		kids[i] = e.evalChild(c, cache)
		if kids[i].Printings != nil {
			needPrinting = true
		}
	}

	numFaces := e.idx.Cat.NumFaces
	res := &NodeResult{Label: label, Children: kids}

	if !needPrinting {
		res.Faces = combineFaces(numFaces, kids, isAnd)
		res.MatchCount = res.Faces.Count()
		return res
	}

	numPrintings := 0
	if e.pidx != nil {
		numPrintings = e.pidx.NumPrintings
	}
	printSets := make([]*bitset.Set, len(kids))
	for i, k := range kids {
		if k.Printings != nil {
			printSets[i] = k.Printings
		} else {
			printSets[i] = liftFacesToPrintings(k.Faces, numPrintings, e.pidx)
		}
	}
	res.Printings = combineSets(numPrintings, printSets, isAnd)
	res.Faces = liftPrintingsToFaces(res.Printings, e.idx, e.pidx)
	res.MatchCount = res.Printings.Count()
	return res
}

func combineFaces(n int, kids []*NodeResult, isAnd bool) *bitset.Set {
	if len(kids) == 0 {
		return bitset.New(n)
	}
	out := kids[0].Faces.Clone()
	for _, k := range kids[1:] {
		if isAnd {
			out.And(k.Faces)
		} else {
			out.Or(k.Faces)
		}
	}
	return out
}

func combineSets(n int, sets []*bitset.Set, isAnd bool) *bitset.Set {
	if len(sets) == 0 {
		return bitset.New(n)
	}
	out := sets[0].Clone()
	for _, s := range sets[1:] {
		if isAnd {
			out.And(s)
		} else {
			out.Or(s)
		}
	}
	return out
}

// liftFacesToPrintings projects a face-domain bitset into printing domain:
// a printing matches iff its canonical face is in faces.
func liftFacesToPrintings(faces *bitset.Set, numPrintings int, pidx *catalog.PrintingIndex) *bitset.Set {
	out := bitset.New(numPrintings)
	if pidx == nil {
		return out
	}
	for p := 0; p < numPrintings; p++ {
		if faces.Test(int(pidx.CanonicalFaceRef[p])) {
			out.Set(p)
		}
	}
	return out
}

// liftPrintingsToFaces projects a printing-domain result back to the face
// universe: every face of every card with at least one matching printing.
func liftPrintingsToFaces(printings *bitset.Set, idx *catalog.CardIndex, pidx *catalog.PrintingIndex) *bitset.Set {
	out := bitset.New(idx.Cat.NumFaces)
	if pidx == nil {
		return out
	}
	canon := bitset.New(idx.Cat.NumFaces)
	printings.ForEach(func(p int32) {
		canon.Set(int(pidx.CanonicalFaceRef[p]))
	})
	for f := 0; f < idx.Cat.NumFaces; f++ {
		if canon.Test(int(idx.Cat.CanonicalFace[f])) {
			out.Set(f)
		}
	}
	return out
}

// evalNot implements spec §4.4's card-level NOT lifting for face-domain
// children, and a plain printing-level complement for printing-domain
// children (printing predicates are already per-printing truths, so there
// is no "other faces of the card" ambiguity to resolve).
func (e *env) evalNot(n *ast.Not, label string, cache *Cache) *NodeResult {
	child := e.evalChild(n.Child, cache)
	res := &NodeResult{Label: label, Children: []*NodeResult{child}, Err: child.Err}

	if child.Printings != nil {
		numPrintings := 0
		if e.pidx != nil {
			numPrintings = e.pidx.NumPrintings
		}
		complement := bitset.New(numPrintings)
		for p := 0; p < numPrintings; p++ {
			if !child.Printings.Test(p) {
				complement.Set(p)
			}
		}
		res.Printings = complement
		res.Faces = liftPrintingsToFaces(complement, e.idx, e.pidx)
		res.MatchCount = complement.Count()
		return res
	}

	res.Faces = liftNotToCardLevel(child.Faces, e.idx)
	res.MatchCount = res.Faces.Count()
	return res
}

// liftNotToCardLevel computes "faces of cards where no face satisfies the
// child predicate" (spec §4.4 scenario 3, §8 card-level consistency
// property): first collapse matching faces to their canonical card ids,
// then every face whose card is NOT in that set survives.
func liftNotToCardLevel(matching *bitset.Set, idx *catalog.CardIndex) *bitset.Set {
	numFaces := idx.Cat.NumFaces
	matchingCanon := bitset.New(numFaces)
	matching.ForEach(func(f int32) {
		matchingCanon.Set(int(idx.Cat.CanonicalFace[f]))
	})
	out := bitset.New(numFaces)
	for f := 0; f < numFaces; f++ {
		if !matchingCanon.Test(int(idx.Cat.CanonicalFace[f])) {
			out.Set(f)
		}
	}
	return out
}

func (e *env) evalBare(n *ast.Bare, label string) *NodeResult {
	faces := bitset.New(e.idx.Cat.NumFaces)
	needle := lowerNoFold(n.Value)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		if containsFold(e.idx.LowerCombined[f], needle) || containsFold(e.idx.LowerOracle[f], needle) || containsFold(e.idx.LowerType[f], needle) {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}

func (e *env) evalExact(n *ast.Exact, label string) *NodeResult {
	faces := bitset.New(e.idx.Cat.NumFaces)
	needle := lowerNoFold(n.Value)
	for f := 0; f < e.idx.Cat.NumFaces; f++ {
		if e.idx.LowerName[f] == needle || e.idx.LowerCombined[f] == needle {
			faces.Set(f)
		}
	}
	return &NodeResult{Label: label, Faces: faces, MatchCount: faces.Count()}
}

func (e *env) evalNop(label string) *NodeResult {
	faces := bitset.New(e.idx.Cat.NumFaces)
	return &NodeResult{
		Label:      label,
		Faces:      faces,
		MatchCount: 0,
		Err:        ferrors.New(ferrors.KindMalformedFragment, "malformed query fragment"),
	}
}
