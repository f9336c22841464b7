package main

import (
	"fmt"
)

//InjectType distinguishes the clause flavors an external symmetry order can
//hand to the solver
type InjectType int

const (
	InjectUnits InjectType = iota
	InjectESBP
	InjectESBPForcing
)

type OrderMode int

const (
	OrderModeAuto OrderMode = iota
	OrderModeOccurrence
	OrderModeCustom
)

type ValueMode int

const (
	ValueModeTrueLessFalse ValueMode = iota
	ValueModeFalseLessTrue
)

//SymmetryOrder is the optional hook to an external symmetry-order engine
//(cosy style). It mirrors trail events and may offer unit or ESBP clauses for
//injection. All methods are called from the solver's single thread.
type SymmetryOrder interface {
	EnableCosy(order OrderMode, value ValueMode)
	UpdateNotify(p Lit)
	UpdateCancel(p Lit)
	//HasClauseToInject and ClauseToInject take the just-propagated literal;
	//pass the undefined literal for the unit flavor queried outside
	//propagation.
	HasClauseToInject(t InjectType, p Lit) bool
	ClauseToInject(t InjectType, p Lit) []Lit
}

//SetSymmetryOrder installs the external order hook. Must be called before
//Solve.
func (s *Solver) SetSymmetryOrder(so SymmetryOrder) {
	s.SymOrder = so
}

//learntSymmetryClause asks the external order for a clause to inject after p
//was propagated. The injected clause is a fully false symmetry clause; it is
//attached as a learnt with a compatibility set built from the stabilize scan.
func (s *Solver) learntSymmetryClause(t InjectType, p Lit) ClauseReference {
	if s.SymOrder == nil || !s.SymOrder.HasClauseToInject(t, p) {
		return ClaRefUndef
	}
	sbp := s.SymOrder.ClauseToInject(t, p)
	for _, l := range sbp {
		if s.ValueLit(l) != LitBoolFalse {
			panic(fmt.Errorf("The injected literal is not false: %d", l.ToDimacs()))
		}
	}

	compat := NewSymSet()
	for i := len(s.Symmetries) - 1; i >= 0; i-- {
		sym := s.Symmetries[i]
		if sym.Stabilize(sbp) {
			compat.Insert(sym.ID)
		}
	}

	cr := s.ClaAllocator.NewAllocate(sbp, true, true, true, compat)
	s.LearntClauses = append(s.LearntClauses, cr)
	s.attachClause(cr)
	return cr
}

//injectUnits drains the external order's unit clauses onto the level-0 trail.
//Every injected unit is a symmetry opportunity, not a problem fact, so its
//variable is tracked in the symmetry-unit set.
func (s *Solver) injectUnits() {
	if s.SymOrder == nil {
		return
	}
	undef := Lit{X: LitUndef}
	for s.SymOrder.HasClauseToInject(InjectUnits, undef) {
		literals := s.SymOrder.ClauseToInject(InjectUnits, undef)
		if len(literals) != 1 {
			panic(fmt.Errorf("The injected unit clause has size %d", len(literals)))
		}
		l := literals[0]
		if s.ValueLit(l) != LitBoolUndef {
			continue
		}
		s.markSymmetryUnit(l.Var())
		s.UncheckedEnqueue(l, ClaRefUndef)
	}
}
