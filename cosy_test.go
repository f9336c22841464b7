package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//fakeOrder is a scripted SymmetryOrder used to exercise the injection hook
type fakeOrder struct {
	enabled  bool
	notified []Lit
	canceled []Lit
	units    [][]Lit
	esbp     map[int][][]Lit //keyed by the propagated literal
}

func (f *fakeOrder) EnableCosy(order OrderMode, value ValueMode) { f.enabled = true }
func (f *fakeOrder) UpdateNotify(p Lit)                          { f.notified = append(f.notified, p) }
func (f *fakeOrder) UpdateCancel(p Lit)                          { f.canceled = append(f.canceled, p) }

func (f *fakeOrder) HasClauseToInject(t InjectType, p Lit) bool {
	switch t {
	case InjectUnits:
		return len(f.units) > 0
	case InjectESBP:
		return len(f.esbp[p.X]) > 0
	}
	return false
}

func (f *fakeOrder) ClauseToInject(t InjectType, p Lit) []Lit {
	switch t {
	case InjectUnits:
		clause := f.units[0]
		f.units = f.units[1:]
		return clause
	case InjectESBP:
		clause := f.esbp[p.X][0]
		f.esbp[p.X] = f.esbp[p.X][1:]
		return clause
	}
	return nil
}

func TestInjectedUnitsBecomeSymmetryUnits(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 3)
	require.True(t, s.AddClause(dls(1, 2, 3)))

	hook := &fakeOrder{units: [][]Lit{dls(3)}}
	s.SetSymmetryOrder(hook)

	status := s.Solve()
	assert.Equal(t, LitBoolTrue, status)
	assert.True(t, hook.enabled)
	assert.True(t, s.isSymmetryUnit(dl(3).Var()))
	assert.Equal(t, LitBoolTrue, s.Model[2])
}

func TestEsbpInjectionAttachesSymmetryClause(t *testing.T) {
	s := NewSolver(DefaultOptions())
	newVars(s, 2)
	require.True(t, s.AddClause(dls(2)))

	hook := &fakeOrder{esbp: map[int][][]Lit{
		dl(1).X: {dls(-1, -2)},
	}}
	s.SetSymmetryOrder(hook)

	//assigning 1 makes the scripted ESBP clause fully false
	require.True(t, s.AddClause(dls(1)))

	require.Len(t, s.LearntClauses, 1)
	c := s.ClaAllocator.GetClause(s.LearntClauses[0])
	assert.True(t, c.Learnt())
	assert.True(t, c.Symmetry())
	assert.True(t, c.FirstSymmetry())
	require.NotNil(t, c.Compat)
	assert.Contains(t, hook.notified, dl(1))
}
