package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/jimbojw/franticsearch/catalog"
	"github.com/jimbojw/franticsearch/config"
	"github.com/jimbojw/franticsearch/worker"
)

func fixtureIdx() *catalog.CardIndex {
	cat := &catalog.Catalog{
		NumFaces:      2,
		Name:          []string{"Tarmogoyf", "Lightning Bolt"},
		TypeLine:      []string{"Creature — Lhurgoyf", "Instant"},
		OracleText:    []string{"", "deals 3 damage"},
		CombinedName:  []string{"Tarmogoyf", "Lightning Bolt"},
		ManaCost:      []string{"{1}{G}", "{R}"},
		ManaValue:     []uint16{2, 1},
		Color:         []uint8{catalog.ColorG, catalog.ColorR},
		ColorIdentity: []uint8{catalog.ColorG, catalog.ColorR},
		CanonicalFace: []int32{0, 1},
	}
	return catalog.NewCardIndex(cat)
}

func TestWorkerAnswersInPostingOrder(t *testing.T) {
	salt := uint32(7)
	w := worker.New(fixtureIdx(), config.WorkerOptions{SessionSalt: &salt})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Requests() <- worker.Request{QueryID: 1, Query: "c:green"}
	w.Requests() <- worker.Request{QueryID: 2, Query: "c:red"}

	first := <-w.Results()
	second := <-w.Results()

	if first.Result == nil || first.Result.QueryID != 1 {
		t.Fatalf("got %+v", first)
	}
	if second.Result == nil || second.Result.QueryID != 2 {
		t.Fatalf("got %+v", second)
	}
	if len(first.Result.Indices) != 1 || first.Result.Indices[0] != 0 {
		t.Fatalf("expected query 1 to match Tarmogoyf only, got %v", first.Result.Indices)
	}
}

func fixturePrintings() *catalog.PrintingIndex {
	setLookup := []catalog.SetInfo{{Code: "clb", Name: "Commander Legends: Battle for Baldur's Gate"}}
	return catalog.NewPrintingIndex(
		[]string{"tarmo-mh2", "bolt-lea"},
		[]string{"187", "161"},
		[]uint16{0, 0},
		[]catalog.Rarity{catalog.RarityMythic, catalog.RarityRare},
		[]catalog.Finish{catalog.FinishNonfoil, catalog.FinishNonfoil},
		[]uint32{4500, 1200},
		[]int32{0, 1},
		setLookup,
	)
}

func TestWorkerPopulatesPrintingIndicesForBareUniquePrints(t *testing.T) {
	w := worker.New(fixtureIdx(), config.WorkerOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.AttachPrintings(fixturePrintings())
	if status := <-w.Results(); status.Status == nil {
		t.Fatalf("expected a printings-ready status message, got %+v", status)
	}

	w.Requests() <- worker.Request{QueryID: 1, Query: "unique:prints"}
	msg := <-w.Results()
	if msg.Result == nil {
		t.Fatalf("expected a result message, got %+v", msg)
	}
	if !msg.Result.UniquePrints {
		t.Fatalf("expected UniquePrints to be true")
	}
	if len(msg.Result.PrintingIndices) != 2 {
		t.Fatalf("expected both printings to be listed for a bare unique:prints query, got %v", msg.Result.PrintingIndices)
	}
}

func TestWorkerRespondsWithinTimeout(t *testing.T) {
	w := worker.New(fixtureIdx(), config.WorkerOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	w.Requests() <- worker.Request{QueryID: 1, Query: "t:instant"}
	select {
	case msg := <-w.Results():
		if msg.Result == nil {
			t.Fatalf("expected a result message, got %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not respond in time")
	}
}
