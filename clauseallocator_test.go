package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAndFree(t *testing.T) {
	ca := NewClauseAllocator()
	lits := []Lit{NewLit(0, false), NewLit(1, true), NewLit(2, false)}
	cr := ca.NewAllocate(lits, false, false, false, nil)

	c := ca.GetClause(cr)
	assert.Equal(t, 3, c.Size())
	assert.False(t, c.Learnt())
	assert.Equal(t, ExistMark, c.Mark())
	assert.Equal(t, clauseWords(3), ca.Size())
	assert.Equal(t, 0, ca.Wasted())

	ca.FreeClause(cr)
	assert.True(t, ca.IsRemoved(cr))
	assert.Equal(t, clauseWords(3), ca.Wasted())
}

func TestRelocForwarding(t *testing.T) {
	ca := NewClauseAllocator()
	lits := []Lit{NewLit(0, false), NewLit(1, false)}
	cr := ca.NewAllocate(lits, true, false, true, NewSymSet())

	to := NewClauseAllocator()
	alias1 := cr
	alias2 := cr
	ca.Reloc(&alias1, to)
	ca.Reloc(&alias2, to)

	//both aliases follow the forwarding mark to the same slot
	assert.Equal(t, alias1, alias2)
	assert.Equal(t, RelocatedMark, ca.GetClause(cr).Mark())

	moved := to.GetClause(alias1)
	assert.Equal(t, ExistMark, moved.Mark())
	assert.Equal(t, 2, moved.Size())
	assert.True(t, moved.Symmetry())
	require.NotNil(t, moved.Compat)
}

func TestSolverGarbageCollect(t *testing.T) {
	s := NewSolver(DefaultOptions())
	for i := 0; i < 6; i++ {
		s.NewVar()
	}
	require.True(t, s.AddClause([]Lit{NewLit(0, false), NewLit(1, false), NewLit(2, false)}))
	require.True(t, s.AddClause([]Lit{NewLit(1, true), NewLit(3, false)}))
	require.True(t, s.AddClause([]Lit{NewLit(2, true), NewLit(4, false), NewLit(5, false)}))

	s.removeClause(s.Clauses[1])
	s.Clauses = append(s.Clauses[:1], s.Clauses[2:]...)
	assert.Greater(t, s.ClaAllocator.Wasted(), 0)

	s.garbageCollect()
	assert.Equal(t, 0, s.ClaAllocator.Wasted())

	//every surviving reference resolves to a live clause
	for _, cr := range s.Clauses {
		assert.Equal(t, ExistMark, s.ClaAllocator.GetClause(cr).Mark())
	}
	for v := Var(0); v < s.NextVar; v++ {
		for sign := 0; sign < 2; sign++ {
			for _, w := range *s.Watches.Lookup(NewLit(v, sign == 1)) {
				assert.Equal(t, ExistMark, s.ClaAllocator.GetClause(w.claRef).Mark())
			}
		}
	}
}

func BenchmarkNewAllocate(b *testing.B) {
	ca := NewClauseAllocator()
	rnd := rand.New(rand.NewSource(114514))
	for i := 0; i < b.N; i++ {
		size := 100
		clause := make([]Lit, size)
		for j := 0; j < size; j++ {
			clause[j] = NewLit(Var(j+1), rnd.Int()%2 == 0)
		}
		ca.NewAllocate(clause, rnd.Int()%2 == 0, false, false, nil)
	}
}
