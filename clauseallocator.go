package main

import (
	"fmt"
	"math"
)

type ClauseReference uint32

const ClaRefUndef ClauseReference = math.MaxUint32

//clauseWords is the arena footprint of a clause: a header word, the literal
//array and the activity word.
func clauseWords(size int) int {
	return size + 2
}

//ClauseAllocator hands out offset-valued references into a logical arena.
//Clause payloads live behind a map so relocation keeps a forwarding mark in
//the old slot until the whole region is dropped.
type ClauseAllocator struct {
	Qhead   ClauseReference             //next free offset of the arena
	Clauses map[ClauseReference]*Clause //offset -> clause, deleted entries stay until garbage collection
	wasted  int                         //words covered by freed clauses
}

func NewClauseAllocator() *ClauseAllocator {
	return &ClauseAllocator{Qhead: 0, Clauses: make(map[ClauseReference]*Clause)}
}

func (c *ClauseAllocator) NewAllocate(lits []Lit, learnt, firstSymmetry, symmetry bool, compat SymSet) ClauseReference {
	cref := c.Qhead
	c.Clauses[cref] = NewClause(lits, learnt, firstSymmetry, symmetry, compat)
	c.Qhead += ClauseReference(clauseWords(len(lits)))
	return cref
}

func (c *ClauseAllocator) GetClause(claRef ClauseReference) *Clause {
	if clause, ok := c.Clauses[claRef]; ok {
		return clause
	}
	panic(fmt.Errorf("The clause is not allocated: %d", claRef))
}

//FreeClause marks the clause deleted. The slot stays readable (reasons may
//still point at it) until the next garbage collection reclaims the space.
func (c *ClauseAllocator) FreeClause(claRef ClauseReference) {
	clause := c.GetClause(claRef)
	if clause.Mark() == DeletedMark {
		panic(fmt.Errorf("The clause is already freed: %d", claRef))
	}
	clause.SetMark(DeletedMark)
	c.wasted += clauseWords(clause.Size())
}

//IsRemoved reports whether a reference points at a freed clause
func (c *ClauseAllocator) IsRemoved(claRef ClauseReference) bool {
	return c.GetClause(claRef).Mark() == DeletedMark
}

//Size returns the number of words handed out so far
func (c *ClauseAllocator) Size() int {
	return int(c.Qhead)
}

//Wasted returns the number of words covered by freed clauses
func (c *ClauseAllocator) Wasted() int {
	return c.wasted
}

//Reloc moves the referenced clause into allocator to and rewrites claRef.
//A forwarding mark is written into the old slot so every alias of the
//reference lands on the same relocated clause.
func (c *ClauseAllocator) Reloc(claRef *ClauseReference, to *ClauseAllocator) {
	clause := c.GetClause(*claRef)
	if clause.Mark() == RelocatedMark {
		*claRef = clause.RelocTo
		return
	}
	if clause.Mark() == DeletedMark {
		panic(fmt.Errorf("Relocating a freed clause: %d", *claRef))
	}

	moved := *clause
	moved.RelocTo = ClaRefUndef
	newRef := to.Qhead
	to.Clauses[newRef] = &moved
	to.Qhead += ClauseReference(clauseWords(moved.Size()))

	clause.SetMark(RelocatedMark)
	clause.RelocTo = newRef
	*claRef = newRef
}
