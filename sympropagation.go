package main

import (
	"fmt"
	"sort"
	"strings"
)

//AddSymmetry registers a generator given as parallel from/to literal arrays.
//Identity pairs are rejected. The permutation is closed under negation before
//its support literals are wired into the notification index.
func (s *Solver) AddSymmetry(from, to []Lit) error {
	if s.decisionLevel() != 0 {
		panic(fmt.Errorf("The decision level is not zero: %d", s.decisionLevel()))
	}
	sym, err := NewSymmetry(s, from, to, len(s.Symmetries))
	if err != nil {
		return err
	}
	for _, l := range sym.Support() {
		if int(l.Var()) >= s.NumVars() {
			return fmt.Errorf("Unknown variable in symmetry: %d", int(l.Var())+1)
		}
	}

	s.Symmetries = append(s.Symmetries, sym)
	for _, l := range sym.Support() {
		s.WatcherSymmetries[l.X] = append(s.WatcherSymmetries[l.X], sym)
	}

	if sym.Inverting {
		s.Statistics.InvertingSyms++
		if s.Opts.InvertingOpt {
			//deprioritize variables flipped by the symmetry
			bumped := map[Var]bool{}
			for _, l := range sym.Support() {
				if sym.Image(l).Equal(l.Flip()) && !bumped[l.Var()] {
					bumped[l.Var()] = true
					s.varBumpActivityByInc(l.Var(), -s.VarInc)
				}
			}
		}
	}

	if s.Verbosity >= 2 {
		fmt.Println("c " + sym.String())
	}
	if DebugMode && !s.checkSymmetry(sym) {
		panic(fmt.Errorf("The symmetry does not map the clause set to itself: %s", sym))
	}
	return nil
}

func (s *Solver) watcherSymsFor(l Lit) []*Symmetry {
	if l.X < 0 || l.X >= len(s.WatcherSymmetries) {
		return nil
	}
	return s.WatcherSymmetries[l.X]
}

//notifySymmetries threads an enqueue into the symmetry layer. When the reason
//of p is a symmetry clause, stabilizers not covered by its compatibility set
//are told their stabilizer status is tainted while p stays on the trail.
func (s *Solver) notifySymmetries(p Lit) {
	cr := s.Reason(p.Var())
	if cr != ClaRefUndef {
		c := s.ClaAllocator.GetClause(cr)
		if c.Symmetry() {
			for i := 0; i < c.Size(); i++ {
				for _, sym := range s.watcherSymsFor(c.At(i)) {
					if sym.IsStab() && !c.Compat.Has(sym.ID) {
						sym.NotifyReasonOfBreaked(p)
					}
				}
			}
		}
	}

	for _, sym := range s.watcherSymsFor(p) {
		sym.NotifyEnqueued(p)
	}
}

//notifySymmetriesBacktrack is the inverse of notifySymmetries, fired while p
//is still assigned
func (s *Solver) notifySymmetriesBacktrack(p Lit) {
	cr := s.Reason(p.Var())
	if cr != ClaRefUndef {
		c := s.ClaAllocator.GetClause(cr)
		if c.Symmetry() {
			for i := 0; i < c.Size(); i++ {
				for _, sym := range s.watcherSymsFor(c.At(i)) {
					sym.CancelReasonOfBreaked(p)
				}
			}
		}
	}

	for _, sym := range s.watcherSymsFor(p) {
		sym.NotifyBacktrack(p)
	}
}

//notifyCNFUnits replays the pre-existing level-0 trail into the symmetry
//layer and the external order hook at the start of a solve
func (s *Solver) notifyCNFUnits() {
	if s.decisionLevel() != 0 {
		panic(fmt.Errorf("The decision level is not zero: %d", s.decisionLevel()))
	}
	for i := 0; i < len(s.Trail); i++ {
		s.notifySymmetries(s.Trail[i])
		if s.SymOrder != nil {
			s.SymOrder.UpdateNotify(s.Trail[i])
		}
	}
}

func (s *Solver) isSymmetryUnit(x Var) bool {
	_, ok := s.SymmetryUnits[x]
	return ok
}

func (s *Solver) markSymmetryUnit(x Var) {
	s.SymmetryUnits[x] = struct{}{}
}

//sortSymmetricalClause orders lits so index 0 holds the asserting literal (an
//unassigned one if any, else one of maximum level) and index 1 a literal of
//maximum level among the rest
func (s *Solver) sortSymmetricalClause(lits []Lit) {
	first := 0
	for i := 1; i < len(lits); i++ {
		if s.ValueLit(lits[first]) != LitBoolUndef &&
			(s.ValueLit(lits[i]) == LitBoolUndef || s.Level(lits[first].Var()) < s.Level(lits[i].Var())) {
			first = i
		}
	}
	lits[0], lits[first] = lits[first], lits[0]

	if len(lits) <= 2 {
		return
	}
	second := 1
	for i := 2; i < len(lits); i++ {
		if s.Level(lits[second].Var()) < s.Level(lits[i].Var()) {
			second = i
		}
	}
	lits[1], lits[second] = lits[second], lits[1]
}

//propagateSymmetrical derives the symmetrical image of trail literal l under
//sym. The synthesized clause asserts sym.Image(l); depending on the current
//value of that literal this is a propagation or a conflict.
func (s *Solver) propagateSymmetrical(sym *Symmetry, l Lit) ClauseReference {
	if s.ValueLit(sym.Image(l)) == LitBoolTrue {
		panic(fmt.Errorf("The symmetrical literal is already true: %d", sym.Image(l).ToDimacs()))
	}
	s.Statistics.SymPropagationCount++

	isSymmetry := false
	var reasonCompat SymSet
	var implic []Lit
	if s.Level(l.Var()) == 0 {
		if s.isSymmetryUnit(l.Var()) {
			panic(fmt.Errorf("Symmetrical propagation from a symmetry unit: %d", l.ToDimacs()))
		}
		implic = []Lit{sym.Image(l), l.Flip()}
	} else {
		cr := s.Reason(l.Var())
		if cr == ClaRefUndef {
			panic(fmt.Errorf("The symmetrical source has no reason: %d", l.ToDimacs()))
		}
		reasonClause := s.ClaAllocator.GetClause(cr)
		isSymmetry = reasonClause.Symmetry()
		if isSymmetry {
			reasonCompat = reasonClause.Compat
		}
		implic = sym.GetSortedSymmetricalClause(reasonClause)
	}

	if s.decisionLevel() > s.Level(implic[1].Var()) {
		//backtrack so the watches attach at the level where the clause became unit
		s.CancelUntil(s.Level(implic[1].Var()))
	}
	if s.ValueLit(implic[0]) == LitBoolTrue {
		panic(fmt.Errorf("The asserting literal of a symmetry clause is true: %d", implic[0].ToDimacs()))
	}
	if s.ValueLit(implic[1]) != LitBoolFalse {
		panic(fmt.Errorf("The second literal of a symmetry clause is not false: %d", implic[1].ToDimacs()))
	}

	compat := NewSymSet()
	if reasonCompat != nil {
		compat = reasonCompat.Copy()
	}
	cr := s.ClaAllocator.NewAllocate(implic, true, !isSymmetry, true, compat)
	if s.Verbosity >= 2 {
		fmt.Printf("c Symmetry clause added: %s\n", dimacsString(implic))
	}

	if s.ValueLit(implic[0]) == LitBoolUndef {
		if s.Opts.AddPropagationClauses {
			s.LearntClauses = append(s.LearntClauses, cr)
			s.attachClause(cr)
			s.clauseBumpActivity(s.ClaAllocator.GetClause(cr))
		}
		if s.decisionLevel() == 0 {
			s.markSymmetryUnit(implic[0].Var())
		}
		s.UncheckedEnqueue(implic[0], cr)
		return ClaRefUndef
	}

	if s.Opts.AddConflictClauses {
		s.LearntClauses = append(s.LearntClauses, cr)
		s.attachClause(cr)
		s.clauseBumpActivity(s.ClaAllocator.GetClause(cr))
	}
	s.Statistics.SymConflictCount++
	return cr
}

//checkSymmetry verifies that the permutation maps every original clause to an
//original clause or a tautology
func (s *Solver) checkSymmetry(sym *Symmetry) bool {
	keys := make(map[string]bool, len(s.Clauses))
	for _, cr := range s.Clauses {
		keys[clauseKey(s.ClaAllocator.GetClause(cr).Lits())] = true
	}
	for _, cr := range s.Clauses {
		c := s.ClaAllocator.GetClause(cr)
		img := make([]Lit, c.Size())
		for i := range img {
			img[i] = sym.Image(c.At(i))
		}
		if !keys[clauseKey(img)] && !tautology(img) {
			return false
		}
	}
	return true
}

func clauseKey(lits []Lit) string {
	xs := make([]int, len(lits))
	for i, l := range lits {
		xs[i] = l.X
	}
	sort.Ints(xs)
	var b strings.Builder
	for _, x := range xs {
		fmt.Fprintf(&b, "%d,", x)
	}
	return b.String()
}

func tautology(lits []Lit) bool {
	set := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		if _, ok := set[l.Flip().X]; ok {
			return true
		}
		set[l.X] = struct{}{}
	}
	return false
}

func dimacsString(lits []Lit) string {
	var b strings.Builder
	for _, l := range lits {
		fmt.Fprintf(&b, "%d ", l.ToDimacs())
	}
	b.WriteString("0")
	return b.String()
}
