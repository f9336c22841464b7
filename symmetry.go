package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

//SymSet is a set of symmetry ids. Learnt symmetry clauses carry one as their
//compatibility set; it holds ids, never pointers, so clause lifetime stays
//independent of symmetry lifetime.
type SymSet map[int]struct{}

func NewSymSet() SymSet {
	return make(SymSet)
}

func (ss SymSet) Insert(id int) {
	ss[id] = struct{}{}
}

func (ss SymSet) Has(id int) bool {
	_, ok := ss[id]
	return ok
}

func (ss SymSet) Empty() bool {
	return len(ss) == 0
}

func (ss SymSet) Copy() SymSet {
	result := make(SymSet, len(ss))
	for id := range ss {
		result[id] = struct{}{}
	}
	return result
}

//IntersectWith removes every id not present in other
func (ss SymSet) IntersectWith(other SymSet) {
	for id := range ss {
		if !other.Has(id) {
			delete(ss, id)
		}
	}
}

func (ss SymSet) Clear() {
	for id := range ss {
		delete(ss, id)
	}
}

//Symmetry is the per-generator state of symmetry propagation. It tracks which
//of its support literals are on the trail, whether the permutation is still
//consistent with the current assignment, and which trail literals are still
//candidates for a symmetrical inference.
type Symmetry struct {
	ID        int
	Inverting bool //some literal maps to its own negation

	solver  *Solver
	image   map[int]Lit //lit index -> image, closed under negation
	inverse map[int]Lit //lit index -> preimage
	support []Lit       //literals moved by the permutation

	notified            []Lit            //support literals currently true, in assignment order
	propagated          map[int]bool     //support literals already handed out by GetNextToPropagate
	breakReasons        map[int]struct{} //trail literals whose reason is a symmetry clause not known compatible
	permanentlyInactive bool             //broken at level 0, cannot recover in this search
}

//NewSymmetry builds a symmetry from parallel from/to arrays. The permutation
//is closed under negation so that every support literal notifies the object
//when it is assigned.
func NewSymmetry(s *Solver, from, to []Lit, id int) (*Symmetry, error) {
	if len(from) != len(to) {
		return nil, fmt.Errorf("The size of from and to is different: %d %d", len(from), len(to))
	}
	sym := &Symmetry{
		ID:           id,
		solver:       s,
		image:        make(map[int]Lit, 2*len(from)),
		inverse:      make(map[int]Lit, 2*len(from)),
		propagated:   make(map[int]bool),
		breakReasons: make(map[int]struct{}),
	}
	addPair := func(f, t Lit) error {
		if f.Equal(t) {
			return fmt.Errorf("Identity pair in symmetry: %d", f.ToDimacs())
		}
		if old, ok := sym.image[f.X]; ok {
			if old.NotEqual(t) {
				return fmt.Errorf("Literal %d has two images: %d %d", f.ToDimacs(), old.ToDimacs(), t.ToDimacs())
			}
			return nil
		}
		sym.image[f.X] = t
		sym.inverse[t.X] = f
		return nil
	}
	for i := 0; i < len(from); i++ {
		if err := addPair(from[i], to[i]); err != nil {
			return nil, err
		}
		if err := addPair(from[i].Flip(), to[i].Flip()); err != nil {
			return nil, err
		}
		if from[i].Equal(to[i].Flip()) {
			sym.Inverting = true
		}
	}
	for x := range sym.image {
		sym.support = append(sym.support, Lit{X: x})
	}
	return sym, nil
}

//Image applies the permutation to a literal. Fixed literals map to themselves.
func (sym *Symmetry) Image(l Lit) Lit {
	if img, ok := sym.image[l.X]; ok {
		return img
	}
	return l
}

//Inverse applies the inverse permutation to a literal
func (sym *Symmetry) Inverse(l Lit) Lit {
	if pre, ok := sym.inverse[l.X]; ok {
		return pre
	}
	return l
}

//Support returns the literals moved by the permutation
func (sym *Symmetry) Support() []Lit {
	return sym.support
}

//NotifyEnqueued records that support literal p was assigned true. A break
//between two level-0 assignments deactivates the symmetry for good.
func (sym *Symmetry) NotifyEnqueued(p Lit) {
	s := sym.solver
	sym.notified = append(sym.notified, p)
	if s.decisionLevel() == 0 {
		img := sym.Image(p)
		if s.ValueLit(img) == LitBoolFalse && s.Level(img.Var()) == 0 {
			sym.permanentlyInactive = true
		}
		//p being true falsifies p.Flip(); the literal mapping onto p.Flip()
		//is broken as well if it sits true at level 0
		pre := sym.Inverse(p.Flip())
		if s.ValueLit(pre) == LitBoolTrue && s.Level(pre.Var()) == 0 {
			sym.permanentlyInactive = true
		}
	}
}

//NotifyBacktrack undoes NotifyEnqueued when p leaves the trail
func (sym *Symmetry) NotifyBacktrack(p Lit) {
	for i := len(sym.notified) - 1; i >= 0; i-- {
		if sym.notified[i].Equal(p) {
			sym.notified = append(sym.notified[:i], sym.notified[i+1:]...)
			break
		}
	}
	delete(sym.propagated, p.X)
}

//NotifyReasonOfBreaked records that p entered the trail with a symmetry
//clause reason that is not known compatible with this symmetry. While any
//such literal is on the trail the symmetry must not act as a stabilizer.
func (sym *Symmetry) NotifyReasonOfBreaked(p Lit) {
	sym.breakReasons[p.X] = struct{}{}
}

//CancelReasonOfBreaked undoes NotifyReasonOfBreaked when p leaves the trail
func (sym *Symmetry) CancelReasonOfBreaked(p Lit) {
	delete(sym.breakReasons, p.X)
}

//ResetBreakUnits clears the break bookkeeping (used when the level-0 trail
//is rebuilt from scratch)
func (sym *Symmetry) ResetBreakUnits() {
	sym.breakReasons = make(map[int]struct{})
	sym.propagated = make(map[int]bool)
}

//IsActive reports whether the symmetry is weakly active: no decision literal
//in its support refutes it, and it is not permanently broken
func (sym *Symmetry) IsActive() bool {
	if sym.permanentlyInactive {
		return false
	}
	s := sym.solver
	return lo.EveryBy(sym.notified, func(l Lit) bool {
		return !s.isDecision(l) || s.ValueLit(sym.Image(l)) == LitBoolTrue
	})
}

func (sym *Symmetry) IsPermanentlyInactive() bool {
	return sym.permanentlyInactive
}

//IsStab reports whether the permutation acts as the identity on the current
//assignment and no trail literal taints it with an incompatible reason
func (sym *Symmetry) IsStab() bool {
	if len(sym.breakReasons) > 0 {
		return false
	}
	s := sym.solver
	return lo.EveryBy(sym.notified, func(l Lit) bool {
		return s.ValueLit(sym.Image(l)) == LitBoolTrue
	})
}

//IsStabLevelZero is IsStab restricted to the level-0 part of the trail
func (sym *Symmetry) IsStabLevelZero() bool {
	s := sym.solver
	return lo.EveryBy(sym.notified, func(l Lit) bool {
		return s.Level(l.Var()) != 0 || s.ValueLit(sym.Image(l)) == LitBoolTrue
	})
}

//Stabilize reports whether applying the permutation to lits yields the same
//clause up to ordering
func (sym *Symmetry) Stabilize(lits []Lit) bool {
	set := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		set[l.X] = struct{}{}
	}
	return lo.EveryBy(lits, func(l Lit) bool {
		_, ok := set[sym.Image(l).X]
		return ok
	})
}

//GetNextToPropagate returns a trail literal whose symmetrical image can be
//derived right now: the image is not yet true and the symmetrical reason is
//well-formed. Each literal is handed out at most once per assignment. Returns
//the undefined literal when no candidate qualifies.
func (sym *Symmetry) GetNextToPropagate() Lit {
	s := sym.solver
	for _, l := range sym.notified {
		if sym.propagated[l.X] {
			continue
		}
		if s.ValueLit(sym.Image(l)) == LitBoolTrue {
			continue
		}
		if s.Level(l.Var()) == 0 {
			//symmetry-derived units are opportunities, not problem facts;
			//mapping them again is not sound
			if s.isSymmetryUnit(l.Var()) {
				continue
			}
			sym.propagated[l.X] = true
			return l
		}
		cr := s.Reason(l.Var())
		if cr == ClaRefUndef {
			continue
		}
		c := s.ClaAllocator.GetClause(cr)
		wellFormed := true
		for i := 1; i < c.Size(); i++ {
			if s.ValueLit(sym.Image(c.At(i))) != LitBoolFalse {
				wellFormed = false
				break
			}
		}
		if !wellFormed {
			continue
		}
		sym.propagated[l.X] = true
		return l
	}
	return Lit{X: LitUndef}
}

//GetSortedSymmetricalClause applies the permutation to a reason clause and
//orders the result so the asserting literal sits at index 0 and a literal of
//maximum level among the rest at index 1
func (sym *Symmetry) GetSortedSymmetricalClause(c *Clause) []Lit {
	implic := make([]Lit, c.Size())
	for i := 0; i < c.Size(); i++ {
		implic[i] = sym.Image(c.At(i))
	}
	sym.solver.sortSymmetricalClause(implic)
	return implic
}

func (sym *Symmetry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sym %d:", sym.ID)
	for _, l := range sym.support {
		fmt.Fprintf(&b, " %d->%d", l.ToDimacs(), sym.Image(l).ToDimacs())
	}
	return b.String()
}
