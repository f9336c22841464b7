package main

import (
	"fmt"
)

const (
	ExistMark     uint = iota //clause is alive
	DeletedMark               //clause was freed, space reclaimed on the next garbage collection
	RelocatedMark             //clause moved to another allocator, RelocTo holds the forwarding reference
)

//Header carries the packed per-clause metadata
type Header struct {
	Mark          uint
	Learnt        bool
	Symmetry      bool //derived via a symmetry, directly or by resolution over symmetry clauses
	FirstSymmetry bool //derived originally from a symmetry; implies Symmetry
	Lbd           int
	Size          int
}

type Clause struct {
	header  Header
	Data    []Lit
	Act     float32
	Compat  SymSet          //compatibility set; non-nil iff Symmetry
	RelocTo ClauseReference //forwarding reference, valid iff Mark is RelocatedMark
}

func NewClause(ps []Lit, learnt, firstSymmetry, symmetry bool, compat SymSet) *Clause {
	var c Clause
	c.header.Mark = ExistMark
	c.header.Learnt = learnt
	c.header.FirstSymmetry = firstSymmetry
	c.header.Symmetry = symmetry
	c.header.Size = len(ps)

	c.Data = make([]Lit, len(ps))
	copy(c.Data, ps)

	c.Act = 0
	c.Compat = compat
	c.RelocTo = ClaRefUndef

	return &c
}

func (c *Clause) Size() int {
	return c.header.Size
}

func (c *Clause) Learnt() bool {
	return c.header.Learnt
}

//Symmetry reports whether the clause was derived via a symmetry
func (c *Clause) Symmetry() bool {
	return c.header.Symmetry
}

//FirstSymmetry reports whether the clause is an original symmetrical inference
func (c *Clause) FirstSymmetry() bool {
	return c.header.FirstSymmetry
}

func (c *Clause) SetMark(mark uint) {
	c.header.Mark = mark
}

func (c *Clause) Mark() uint {
	return c.header.Mark
}

func (c *Clause) At(i int) Lit {
	return c.Data[i]
}

func (c *Clause) Lits() []Lit {
	return c.Data[:c.header.Size]
}

func (c *Clause) Pop() {
	if c.Size() == 0 {
		panic(fmt.Errorf("Pop empty clause"))
	}
	c.header.Size--
}

func (c *Clause) Last() Lit {
	return c.Data[c.Size()-1]
}

func (c *Clause) Activity() float32 {
	return c.Act
}

func (s *Solver) attachClause(claRef ClauseReference) {
	clause := s.ClaAllocator.GetClause(claRef)
	if clause.Size() < 2 {
		panic(fmt.Errorf("The size of clause is less than 2: %v", clause))
	}

	firstLit := clause.At(0)
	secondLit := clause.At(1)
	s.Watches.Append(firstLit.Flip(), NewWatcher(claRef, secondLit))
	s.Watches.Append(secondLit.Flip(), NewWatcher(claRef, firstLit))

	if clause.Learnt() {
		s.Statistics.NumLearnts++
		s.Statistics.LearntsLiterals += uint64(clause.Size())
	} else {
		s.Statistics.NumClauses++
		s.Statistics.ClausesLiterals += uint64(clause.Size())
	}
}

//detachClause removes the two watchers of a clause. Strict removal rewrites the
//watch lists immediately; lazy removal only smudges them for a later sweep.
func (s *Solver) detachClause(cr ClauseReference, strict bool) {
	c := s.ClaAllocator.GetClause(cr)
	if c.Size() <= 1 {
		panic(fmt.Errorf("The size of clause is less than 2: %d", c.Size()))
	}
	firstLit := c.At(0)
	secondLit := c.At(1)
	if strict {
		RemoveWatcher(s.Watches, firstLit.Flip(), NewWatcher(cr, secondLit))
		RemoveWatcher(s.Watches, secondLit.Flip(), NewWatcher(cr, firstLit))
	} else {
		s.Watches.Smudge(firstLit.Flip())
		s.Watches.Smudge(secondLit.Flip())
	}

	if c.Learnt() {
		s.Statistics.NumLearnts--
		s.Statistics.LearntsLiterals -= uint64(c.Size())
	} else {
		s.Statistics.NumClauses--
		s.Statistics.ClausesLiterals -= uint64(c.Size())
	}
}

func (s *Solver) locked(c *Clause) bool {
	firstLit := c.At(0)
	return s.ValueLit(firstLit) == LitBoolTrue && s.Reason(firstLit.Var()) != ClaRefUndef
}

func (s *Solver) satisfied(c *Clause) bool {
	for i := 0; i < c.Size(); i++ {
		if s.ValueLit(c.At(i)) == LitBoolTrue {
			return true
		}
	}
	return false
}

func (s *Solver) removeClause(cr ClauseReference) {
	c := s.ClaAllocator.GetClause(cr)
	s.detachClause(cr, false)
	//Don't leave a reason reference to freed memory
	if s.locked(c) {
		s.VarData[c.At(0).Var()].Reason = ClaRefUndef
	}
	s.ClaAllocator.FreeClause(cr)
}

//removeSatisfied drops satisfied clauses from data and trims false literals
//from the rest. Only valid at decision level 0.
func (s *Solver) removeSatisfied(data *[]ClauseReference) {
	copiedIdx := 0
	for lastIdx := 0; lastIdx < len(*data); lastIdx++ {
		c := s.ClaAllocator.GetClause((*data)[lastIdx])
		if s.satisfied(c) {
			s.removeClause((*data)[lastIdx])
		} else {
			//Trim clause
			if !(s.ValueLit(c.At(0)) == LitBoolUndef && s.ValueLit(c.At(1)) == LitBoolUndef) {
				panic(fmt.Errorf("The 0th and 1th of clause value is not LitBoolUndef: v1: %v = %d v2: %v = %d", c.At(0), s.ValueLit(c.At(0)), c.At(1), s.ValueLit(c.At(1))))
			}
			for k := 2; k < c.Size(); k++ {
				if s.ValueLit(c.At(k)) == LitBoolFalse {
					if c.Learnt() {
						s.Statistics.LearntsLiterals--
					} else {
						s.Statistics.ClausesLiterals--
					}
					c.Data[k] = c.Last()
					c.Pop()
					k--
				}
			}
			(*data)[copiedIdx] = (*data)[lastIdx]
			copiedIdx++
		}
	}
	*data = (*data)[:copiedIdx]
}
