package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapOrdersByActivity(t *testing.T) {
	h := NewHeap()
	for v := Var(0); v < 4; v++ {
		h.Reserve(v)
	}
	h.activity[0] = 1.0
	h.activity[1] = 5.0
	h.activity[2] = 3.0
	h.activity[3] = 5.0

	for v := Var(0); v < 4; v++ {
		h.PushBack(v)
	}

	//descending activity, ties broken by variable id
	assert.Equal(t, Var(1), h.RemoveMin())
	assert.Equal(t, Var(3), h.RemoveMin())
	assert.Equal(t, Var(2), h.RemoveMin())
	assert.Equal(t, Var(0), h.RemoveMin())
	assert.True(t, h.Empty())
}

func TestHeapDecreaseAfterBump(t *testing.T) {
	h := NewHeap()
	for v := Var(0); v < 3; v++ {
		h.Reserve(v)
		h.PushBack(v)
	}
	h.activity[2] = 10.0
	h.Decrease(2)
	assert.Equal(t, Var(2), h.RemoveMin())
}

func TestHeapBuild(t *testing.T) {
	h := NewHeap()
	for v := Var(0); v < 5; v++ {
		h.Reserve(v)
		h.PushBack(v)
	}
	h.activity[4] = 2.0

	h.Build([]Var{1, 3, 4})
	assert.Equal(t, 3, h.Size())
	assert.False(t, h.InHeap(0))
	assert.False(t, h.InHeap(2))
	assert.Equal(t, Var(4), h.RemoveMin())
	assert.Equal(t, Var(1), h.RemoveMin())
	assert.Equal(t, Var(3), h.RemoveMin())
}

func TestWatchesSmudgeAndClean(t *testing.T) {
	w := NewWatches()
	w.Init(1)
	p := NewLit(0, false)
	w.Append(p, NewWatcher(0, NewLit(1, false)))
	w.Append(p, NewWatcher(7, NewLit(1, true)))
	w.Append(p, NewWatcher(12, NewLit(1, false)))

	w.Smudge(p)
	w.Smudge(p)
	w.CleanAll(func(cr ClauseReference) bool { return cr == 7 })

	ws := *w.Lookup(p)
	assert.Len(t, ws, 2)
	assert.Equal(t, ClauseReference(0), ws[0].claRef)
	assert.Equal(t, ClauseReference(12), ws[1].claRef)
}

func TestLuby(t *testing.T) {
	s := NewSolver(DefaultOptions())
	expected := []float64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, want := range expected {
		assert.Equal(t, want, s.luby(2.0, i), "luby(2, %d)", i)
	}
}
