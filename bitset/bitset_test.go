package bitset_test

import (
	"testing"

	"github.com/jimbojw/franticsearch/bitset"
)

func TestSetClearTest(t *testing.T) {
	s := bitset.New(10)
	s.Set(3)
	s.Set(7)
	if !s.Test(3) || !s.Test(7) || s.Test(4) {
		t.Fatalf("unexpected membership")
	}
	if s.Count() != 2 {
		t.Fatalf("got count %d", s.Count())
	}
	s.Clear(3)
	if s.Test(3) || s.Count() != 1 {
		t.Fatalf("clear failed")
	}
}

func TestNotClampsPartialWord(t *testing.T) {
	s := bitset.New(5)
	s.Not()
	if s.Count() != 5 {
		t.Fatalf("expected 5 bits set after NOT of empty 5-bit set, got %d", s.Count())
	}
	for i := 0; i < 5; i++ {
		if !s.Test(i) {
			t.Fatalf("expected bit %d set", i)
		}
	}
}

func TestAndOr(t *testing.T) {
	a := bitset.FromSlice(10, []int32{1, 2, 3})
	b := bitset.FromSlice(10, []int32{2, 3, 4})
	and := bitset.And2(a, b)
	if and.ToSlice()[0] != 2 || and.Count() != 2 {
		t.Fatalf("got %v", and.ToSlice())
	}
	or := bitset.Or2(a, b)
	if or.Count() != 4 {
		t.Fatalf("got count %d", or.Count())
	}
}

func TestComplementIsDisjointAndCovers(t *testing.T) {
	universe := 100
	a := bitset.FromSlice(universe, []int32{0, 5, 99})
	notA := a.Clone().Not()
	for i := 0; i < universe; i++ {
		if a.Test(i) == notA.Test(i) {
			t.Fatalf("bit %d: membership and complement agree", i)
		}
	}
}
