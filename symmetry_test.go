package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//dl builds a literal from its DIMACS integer form
func dl(v int) Lit {
	if v > 0 {
		return NewLit(Var(v-1), false)
	}
	return NewLit(Var(-v-1), true)
}

func dls(vs ...int) []Lit {
	lits := make([]Lit, len(vs))
	for i, v := range vs {
		lits[i] = dl(v)
	}
	return lits
}

func newVars(s *Solver, n int) {
	for i := 0; i < n; i++ {
		s.NewVar()
	}
}

func TestSymmetryImageInverseRoundTrip(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 4)
	sym, err := NewSymmetry(s, dls(1, 2), dls(2, 1), 0)
	require.NoError(t, err)

	for _, l := range []Lit{dl(1), dl(-1), dl(2), dl(-2), dl(3), dl(-4)} {
		assert.Equal(t, l, sym.Inverse(sym.Image(l)), "inverse(image(%d))", l.ToDimacs())
		assert.Equal(t, l, sym.Image(sym.Inverse(l)), "image(inverse(%d))", l.ToDimacs())
	}
	//closed under negation
	assert.Equal(t, dl(-2), sym.Image(dl(-1)))
	assert.Equal(t, dl(2), sym.Image(dl(1)))
	//fixed literals map to themselves
	assert.Equal(t, dl(3), sym.Image(dl(3)))
}

func TestSymmetryRejectsIdentityPair(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 2)
	err := s.AddSymmetry(dls(1), dls(1))
	assert.Error(t, err)
	assert.Empty(t, s.Symmetries)
}

func TestSymmetryRejectsLengthMismatch(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 3)
	err := s.AddSymmetry(dls(1, 2), dls(2))
	assert.Error(t, err)
}

func TestSymmetryInvertingDetection(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 2)
	require.NoError(t, s.AddSymmetry(dls(1, -1), dls(-1, 1)))
	assert.True(t, s.Symmetries[0].Inverting)
	assert.Equal(t, uint64(1), s.Statistics.InvertingSyms)
}

func TestSymmetryStabilize(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 4)
	sym, err := NewSymmetry(s, dls(1, 2), dls(2, 1), 0)
	require.NoError(t, err)

	assert.True(t, sym.Stabilize(dls(1, 2, 3)))
	assert.True(t, sym.Stabilize(dls(-1, -2)))
	assert.True(t, sym.Stabilize(dls(3, 4)))
	assert.False(t, sym.Stabilize(dls(1, 3)))
	assert.False(t, sym.Stabilize(dls(-1, 4)))
}

func TestSymmetryActivityNotifyBacktrackRoundTrip(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 3)
	require.NoError(t, s.AddSymmetry(dls(1, 2), dls(2, 1)))
	sym := s.Symmetries[0]

	//decide 1: the symmetry sees a decision whose image is not yet true
	s.newDecisionLevel()
	s.DecisionVars[dl(1).Var()] = true
	s.UncheckedEnqueue(dl(1), ClaRefUndef)
	activeBefore := sym.IsActive()
	assert.False(t, activeBefore)

	//decide 2 on top: image of every decision is true again
	s.newDecisionLevel()
	s.DecisionVars[dl(2).Var()] = true
	s.UncheckedEnqueue(dl(2), ClaRefUndef)
	assert.True(t, sym.IsActive())
	assert.True(t, sym.IsStab())

	//backtracking the same literal restores the previous answer
	s.CancelUntil(1)
	assert.Equal(t, activeBefore, sym.IsActive())

	s.CancelUntil(0)
	assert.True(t, sym.IsActive())
	assert.Empty(t, sym.notified)
}

func TestSymmetryPermanentlyInactiveAtLevelZero(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 2)
	require.True(t, s.AddClause(dls(1)))
	require.True(t, s.AddClause(dls(-2)))
	require.NoError(t, s.AddSymmetry(dls(1, 2), dls(2, 1)))
	sym := s.Symmetries[0]

	//replay the level-0 trail the way Solve does
	s.notifyCNFUnits()
	assert.True(t, sym.IsPermanentlyInactive())
	assert.False(t, sym.IsActive())
}

func TestSymmetryGetNextToPropagateOncePerAssignment(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 2)
	require.True(t, s.AddClause(dls(1)))
	require.NoError(t, s.AddSymmetry(dls(1, 2), dls(2, 1)))
	sym := s.Symmetries[0]
	s.notifyCNFUnits()

	next := sym.GetNextToPropagate()
	require.False(t, next.Undef())
	assert.Equal(t, dl(1), next)
	//handed out only once per assignment
	assert.True(t, sym.GetNextToPropagate().Undef())
}

func TestSymSetIntersect(t *testing.T) {
	a := NewSymSet()
	a.Insert(1)
	a.Insert(2)
	a.Insert(3)
	b := NewSymSet()
	b.Insert(2)
	b.Insert(3)
	b.Insert(4)

	c := a.Copy()
	c.IntersectWith(b)
	assert.False(t, c.Has(1))
	assert.True(t, c.Has(2))
	assert.True(t, c.Has(3))
	assert.False(t, c.Has(4))
	//the source set is untouched
	assert.True(t, a.Has(1))
}

func TestCheckSymmetryAgainstClauseSet(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 3)
	require.True(t, s.AddClause(dls(1, 3)))
	require.True(t, s.AddClause(dls(2, 3)))
	require.NoError(t, s.AddSymmetry(dls(1, 2), dls(2, 1)))
	assert.True(t, s.checkSymmetry(s.Symmetries[0]))

	//a permutation moving 3 onto 1 does not map the clause set to itself
	bad, err := NewSymmetry(s, dls(1, 3), dls(3, 1), 7)
	require.NoError(t, err)
	assert.False(t, s.checkSymmetry(bad))
}
