package main

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/k0kubun/pp"
)

const (
	seenUndef uint8 = iota
	seenSource
	seenRemovable
	seenFailed
)

const (
	learntsizeAdjustStartConfl = 100
	learntsizeAdjustInc        = 1.5
)

type shrinkStackElem struct {
	i int
	l Lit
}

type Solver struct {
	Verbosity int
	Opts      SolverOptions

	ClaAllocator  *ClauseAllocator  //The allocator for clause
	Clauses       []ClauseReference //List of problem clauses.
	LearntClauses []ClauseReference //List of learnt clauses.
	Watches       *Watches          //'watches[lit]' is a list of constraints watching 'lit' (will go there if literal becomes true).

	Assigns      []LitBool //The current assignments.
	VarData      []VarData //Stores reason and level for each variable.
	Polarity     []bool    //The preferred polarity of each variable (phase saving).
	UserPol      []LitBool //The users preferred polarity of each variable.
	Decision     []bool    //Declares if a variable is eligible for selection in the decision heuristic.
	DecisionVars []bool    //Whether the variable is a decision on the current trail.
	Seen         []uint8   //The seen state for clause learning
	Trail        []Lit     //Assignment stack; stores all assigments made in the order the were made.
	TrailLim     []int     //Separator indices for different decision levels in 'trail'.
	Qhead        int       //Head of queue (as index into the trail -- no more explicit propagation queue in MiniSat).
	NextVar      Var       //Next variable to be created.
	FreeVars     []Var     //Released variables ready for reuse.
	ReleasedVars []Var     //Variables released by the user, swept at the next simplify.
	VarOrder     *Heap     //A priority queue of variables ordered with respect to the variable activity.
	OK           bool      //If FALSE, the constraints are already unsatisfiable. No part of the solver state may be used!

	VarInc                float64 //Amount to bump next variable with.
	ClaInc                float32 //Amount to bump next clause with.
	MaxNumLearnt          float64
	learntsizeAdjustConfl float64
	learntsizeAdjustCnt   int
	simpDBAssigns         int   //Number of top-level assignments since last execution of simplify.
	simpDBProps           int64 //Remaining number of propagations that must be made before next execution of simplify.
	RemoveSatisfiedFlag   bool  //Indicates whether possibly inefficient linear scan for satisfied clauses should be performed in simplify.
	progress              float64
	randSeed              float64

	Symmetries        []*Symmetry      //The registered generators, in registration order.
	WatcherSymmetries [][]*Symmetry    //'watcherSymmetries[lit]' lists the symmetries with lit in their support.
	SymmetryUnits     map[Var]struct{} //Variables whose level-0 assignment traces back to a symmetry.
	SymOrder          SymmetryOrder    //Optional external symmetry-order hook.

	Assumptions []Lit
	Conflict    []Lit     //If problem is unsatisfiable under assumptions, this vector represent the final conflict clause expressed in the assumptions.
	Model       []LitBool //If problem is satisfiable, this vector contains the model (if any).

	ConflictBudget    int64 //-1 means no budget.
	PropagationBudget int64 //-1 means no budget.
	asynchInterrupt   atomic.Bool

	analyzeToClear []Lit
	analyzeStack   []shrinkStackElem

	Statistics *Statistics
}

func NewSolver(opts SolverOptions) *Solver {
	return &Solver{
		Opts:                opts,
		ClaAllocator:        NewClauseAllocator(),
		Watches:             NewWatches(),
		VarOrder:            NewHeap(),
		OK:                  true,
		VarInc:              1.0,
		ClaInc:              1,
		randSeed:            opts.RandomSeed,
		simpDBAssigns:       -1,
		RemoveSatisfiedFlag: true,
		ConflictBudget:      -1,
		PropagationBudget:   -1,
		SymmetryUnits:       make(map[Var]struct{}),
		Statistics:          NewStatistics(),
	}
}

func drand(seed *float64) float64 {
	*seed *= 1389796
	q := int64(*seed / 2147483647)
	*seed -= float64(q) * 2147483647
	return *seed / 2147483647
}

func (s *Solver) drand() float64 {
	return drand(&s.randSeed)
}

func (s *Solver) irand(size int) int {
	return int(s.drand() * float64(size))
}

//NewVar creates a new SAT variable, recycling a released one when possible
func (s *Solver) NewVar() Var {
	var v Var
	if len(s.FreeVars) > 0 {
		v = s.FreeVars[len(s.FreeVars)-1]
		s.FreeVars = s.FreeVars[:len(s.FreeVars)-1]
		s.Assigns[v] = LitBoolUndef
		s.VarData[v] = NewVarData(ClaRefUndef, 0)
		s.Seen[v] = seenUndef
		s.Polarity[v] = true
		s.UserPol[v] = LitBoolUndef
		s.DecisionVars[v] = false
	} else {
		v = s.NextVar
		s.NextVar++
		s.Watches.Init(v)
		s.Assigns = append(s.Assigns, LitBoolUndef)
		s.VarData = append(s.VarData, NewVarData(ClaRefUndef, 0))
		s.Seen = append(s.Seen, seenUndef)
		s.Polarity = append(s.Polarity, true)
		s.UserPol = append(s.UserPol, LitBoolUndef)
		s.Decision = append(s.Decision, false)
		s.DecisionVars = append(s.DecisionVars, false)
		s.WatcherSymmetries = append(s.WatcherSymmetries, nil, nil)
	}
	s.VarOrder.Reserve(v)
	if s.Opts.RandomInitAct {
		s.VarOrder.activity[v] = s.drand() * 0.00001
	} else {
		s.VarOrder.activity[v] = 0
	}
	s.SetDecisionVar(v, true)
	return v
}

//ReleaseVar makes a variable eligible for reuse. Only unassigned variables
//are released; the literal is fixed true so the variable stays determined.
func (s *Solver) ReleaseVar(l Lit) {
	if s.ValueLit(l) == LitBoolUndef {
		s.AddClause([]Lit{l})
		s.ReleasedVars = append(s.ReleasedVars, l.Var())
	}
}

func (s *Solver) SetDecisionVar(x Var, eligible bool) {
	if eligible && !s.Decision[x] {
		s.Statistics.DecisionVarCount++
	} else if !eligible && s.Decision[x] {
		s.Statistics.DecisionVarCount--
	}
	s.Decision[x] = eligible
	s.InsertVarOrder(x)
}

//SetUserPolarity fixes the branching sign for a variable. LitBoolUndef
//restores the default phase-saving behavior.
func (s *Solver) SetUserPolarity(x Var, pol LitBool) {
	s.UserPol[x] = pol
}

func (s *Solver) isDecision(p Lit) bool {
	return s.DecisionVars[p.Var()]
}

func (s *Solver) varDecayActivity() {
	s.VarInc *= 1 / s.Opts.VarDecay
}

func (s *Solver) varBumpActivity(v Var) {
	s.varBumpActivityByInc(v, s.VarInc)
}

func (s *Solver) varBumpActivityByInc(v Var, inc float64) {
	s.VarOrder.activity[v] += inc
	if s.VarOrder.Activity(v) > 1e100 {
		//Rescale:
		for i := 0; i < s.NumVars(); i++ {
			s.VarOrder.activity[i] *= 1e-100
		}
		s.VarInc *= 1e-100
	}
	// Update order_heap with respect to new activity:
	if s.VarOrder.InHeap(v) {
		s.VarOrder.Decrease(v)
	}
}

func (s *Solver) clauseDecayActivity() {
	s.ClaInc *= 1 / float32(s.Opts.ClauseDecay)
}

func (s *Solver) clauseBumpActivity(c *Clause) {
	c.Act += s.ClaInc
	if c.Activity() > 1e20 {
		//Rescale:
		for _, claRef := range s.LearntClauses {
			s.ClaAllocator.GetClause(claRef).Act *= 1e-20
		}
		s.ClaInc *= 1e-20
	}
}

func (s *Solver) NumVars() int {
	return int(s.NextVar)
}

func (s *Solver) NumClauses() uint64 {
	return s.Statistics.NumClauses
}

func (s *Solver) NumLearnts() uint64 {
	return s.Statistics.NumLearnts
}

func (s *Solver) NumAssigns() int {
	return len(s.Trail)
}

func (s *Solver) UncheckedEnqueue(p Lit, from ClauseReference) {
	if s.ValueLit(p) != LitBoolUndef {
		panic(fmt.Sprintf("The assign is not LitBoolUndef: ValueLit(%d) = %v", p.X, s.ValueLit(p)))
	}
	if !p.Sign() {
		s.Assigns[p.Var()] = LitBoolTrue
	} else {
		s.Assigns[p.Var()] = LitBoolFalse
	}
	s.VarData[p.Var()] = NewVarData(from, s.decisionLevel())
	s.Trail = append(s.Trail, p)

	s.notifySymmetries(p)
}

//Propagate runs unit propagation to fixpoint. Once the queue drains,
//weakly-active symmetries get a chance to fire, then weakly-inactive ones
//when that optimization is enabled. Returns the conflicting clause reference
//or ClaRefUndef.
func (s *Solver) Propagate() ClauseReference {
	confl := ClaRefUndef
	numProps := 0

	for s.Qhead < len(s.Trail) {
		p := s.Trail[s.Qhead]
		s.Qhead++
		numProps++

		if s.Verbosity >= 2 {
			fmt.Printf("c Prop %d: %d\n", s.decisionLevel(), p.ToDimacs())
		}

		isSymmetryLevelZero := s.decisionLevel() == 0 && s.isSymmetryUnit(p.Var())

		ws := s.Watches.LookupClean(p, s.ClaAllocator.IsRemoved)
		lastIdx := 0
		copiedIdx := 0
		for lastIdx < len(*ws) {
			watcher := (*ws)[lastIdx]
			blocker := watcher.blocker

			// Try to avoid inspecting the clause.
			if s.ValueLit(blocker) == LitBoolTrue {
				(*ws)[copiedIdx] = (*ws)[lastIdx]
				lastIdx++
				copiedIdx++
				continue
			}

			// Make sure the false literal is data[1]
			cr := watcher.claRef
			clause := s.ClaAllocator.GetClause(cr)
			falseLit := p.Flip()
			if clause.At(0).Equal(falseLit) {
				clause.Data[0], clause.Data[1] = clause.Data[1], falseLit
			}
			if clause.At(1).NotEqual(falseLit) {
				panic(fmt.Errorf("The 1th literal is not falseLit: %v %v", clause.At(1), falseLit))
			}
			lastIdx++

			// If 0th watch is true, then clause is already satisfied
			firstLit := clause.At(0)
			w := NewWatcher(cr, firstLit)
			if firstLit.NotEqual(blocker) && s.ValueLit(firstLit) == LitBoolTrue {
				(*ws)[copiedIdx] = w
				copiedIdx++
				continue
			}

			// Look for new watch:
			for k := 2; k < clause.Size(); k++ {
				if s.ValueLit(clause.At(k)) != LitBoolFalse {
					clause.Data[1], clause.Data[k] = clause.Data[k], falseLit
					s.Watches.Append(clause.At(1).Flip(), w)
					goto NextClause
				}
			}

			// Did not find watch -- clause is unit under assignment:
			(*ws)[copiedIdx] = w
			copiedIdx++
			if s.ValueLit(firstLit) == LitBoolFalse {
				confl = cr
				s.Qhead = len(s.Trail)
				//Copy the remaining watches:
				for lastIdx < len(*ws) {
					(*ws)[copiedIdx] = (*ws)[lastIdx]
					lastIdx++
					copiedIdx++
				}
			} else {
				if isSymmetryLevelZero {
					//the derived unit inherits the symmetry taint
					s.markSymmetryUnit(firstLit.Var())
				}
				s.UncheckedEnqueue(firstLit, cr)
			}
		NextClause:
		}
		*ws = (*ws)[:copiedIdx]

		if s.Opts.EsbpEnd && s.SymOrder != nil {
			s.SymOrder.UpdateNotify(p)
			s.learntSymmetryClause(InjectESBP, p)
		}

		// weakly active symmetry propagation: the condition qhead==len(trail)
		// makes sure symmetry propagation is executed after unit propagation
		for i := len(s.Symmetries) - 1; s.Qhead == len(s.Trail) && confl == ClaRefUndef && i >= 0; i-- {
			sym := s.Symmetries[i]
			if sym.IsActive() {
				if orig := sym.GetNextToPropagate(); !orig.Undef() {
					confl = s.propagateSymmetrical(sym, orig)
				}
			}
		}

		// weakly inactive symmetry propagation
		for i := len(s.Symmetries) - 1; s.Opts.InactiveOpt && s.Qhead == len(s.Trail) && confl == ClaRefUndef && i >= 0; i-- {
			sym := s.Symmetries[i]
			if !sym.IsActive() && sym.IsStab() && sym.IsStabLevelZero() {
				if orig := sym.GetNextToPropagate(); !orig.Undef() {
					confl = s.propagateSymmetrical(sym, orig)
				}
			}
		}

		if confl != ClaRefUndef {
			s.Qhead = len(s.Trail)
		}
	}

	s.Statistics.PropagationCount += uint64(numProps)
	s.simpDBProps -= int64(numProps)

	return confl
}

//CancelUntil reverts to the state at the given level, keeping all assignments
//at 'level' but not beyond
func (s *Solver) CancelUntil(level int) {
	if s.decisionLevel() > level {
		if s.Verbosity >= 2 {
			fmt.Printf("c Backtrack occurs on level %d to level %d\n", s.decisionLevel(), level)
		}
		for c := len(s.Trail) - 1; c >= s.TrailLim[level]; c-- {
			p := s.Trail[c]
			x := p.Var()

			s.notifySymmetriesBacktrack(p)
			s.DecisionVars[x] = false
			s.Assigns[x] = LitBoolUndef
			if s.SymOrder != nil {
				s.SymOrder.UpdateCancel(p)
			}
			if s.Opts.PhaseSaving > 1 || (s.Opts.PhaseSaving == 1 && c > s.TrailLim[len(s.TrailLim)-1]) {
				s.Polarity[x] = p.Sign()
			}
			s.InsertVarOrder(x)
		}
		s.Qhead = s.TrailLim[level]
		s.Trail = s.Trail[:s.TrailLim[level]]
		s.TrailLim = s.TrailLim[:level]
	}
}

func (s *Solver) pickBranchLit() Lit {
	next := VarUndef

	// Random decision:
	if s.drand() < s.Opts.RandomVarFreq && !s.VarOrder.Empty() {
		next = s.VarOrder.At(s.irand(s.VarOrder.Size()))
		if s.ValueVar(next) == LitBoolUndef && s.Decision[next] {
			s.Statistics.RandomDecisionCount++
		}
	}

	// Activity based decision:
	for next == VarUndef || s.ValueVar(next) != LitBoolUndef || !s.Decision[next] {
		if s.VarOrder.Empty() {
			next = VarUndef
			break
		}
		next = s.VarOrder.RemoveMin()
	}

	// Choose polarity based on different polarity modes (global or per-variable):
	if next == VarUndef {
		return Lit{X: LitUndef}
	}
	if s.UserPol[next] != LitBoolUndef {
		return NewLit(next, s.UserPol[next] == LitBoolTrue)
	} else if s.Opts.RandomPol {
		return NewLit(next, s.drand() < 0.5)
	}
	return NewLit(next, s.Polarity[next])
}

func (s *Solver) newDecisionLevel() {
	s.TrailLim = append(s.TrailLim, len(s.Trail))
}

func (s *Solver) decisionLevel() int {
	return len(s.TrailLim)
}

//AddClause adds a clause at level 0. Returns false iff the problem is now
//known to be unsatisfiable.
func (s *Solver) AddClause(lits []Lit) bool {
	if s.decisionLevel() != 0 {
		panic(fmt.Errorf("The decision level is not zero: %d", s.decisionLevel()))
	}
	if !s.OK {
		return false
	}

	// Check if clause is satisfied and remove false/duplicate literals:
	ps := make([]Lit, len(lits))
	copy(ps, lits)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })

	p := Lit{X: LitUndef}
	copiedIdx := 0
	for i := 0; i < len(ps); i++ {
		if s.ValueLit(ps[i]) == LitBoolTrue || (p.X != LitUndef && ps[i].Equal(p.Flip())) {
			return true
		} else if s.ValueLit(ps[i]) != LitBoolFalse && ps[i].NotEqual(p) {
			ps[copiedIdx] = ps[i]
			p = ps[i]
			copiedIdx++
		}
	}
	ps = ps[:copiedIdx]

	// What clause is empty means that the problem is unsatisfiable
	if len(ps) == 0 {
		s.OK = false
		return false
	} else if len(ps) == 1 {
		s.UncheckedEnqueue(ps[0], ClaRefUndef)
		s.OK = s.Propagate() == ClaRefUndef
		return s.OK
	}
	claRef := s.ClaAllocator.NewAllocate(ps, false, false, false, nil)
	s.Clauses = append(s.Clauses, claRef)
	s.attachClause(claRef)
	return true
}

//Analyze runs 1-UIP conflict analysis. Besides the learnt clause and the
//backtrack level it reports whether a symmetry clause or symmetry unit took
//part in the resolution, and the compatibility set of the learnt clause.
func (s *Solver) Analyze(confl ClauseReference) (learntClause []Lit, backTrackLevel int, outSymmetry bool, comp SymSet) {
	p := Lit{X: LitUndef}
	pathConflict := 0
	idx := len(s.Trail) - 1
	comp = NewSymSet()

	fsym := s.ClaAllocator.GetClause(confl).FirstSymmetry()
	var confClauses []ClauseReference

	learntClause = append(learntClause, p) // (leave room for the asserting literal)
	for {
		if confl == ClaRefUndef {
			pp.Println(s.VarData[p.Var()], p.Var(), s.decisionLevel(), s.ValueLit(p), pathConflict)
			panic("The conflict doesn't point any reasons")
		}
		conflCla := s.ClaAllocator.GetClause(confl)

		if conflCla.Symmetry() {
			outSymmetry = true
			confClauses = append(confClauses, confl)
		}
		if conflCla.Learnt() {
			s.clauseBumpActivity(conflCla)
		}

		startIndex := 0
		if p.X != LitUndef {
			startIndex = 1
		}
		for i := startIndex; i < conflCla.Size(); i++ {
			q := conflCla.At(i)

			if s.Level(q.Var()) == 0 && s.isSymmetryUnit(q.Var()) {
				outSymmetry = true
			}

			if s.Seen[q.Var()] == seenUndef && s.Level(q.Var()) > 0 {
				s.varBumpActivity(q.Var())
				s.Seen[q.Var()] = seenSource
				if s.Level(q.Var()) >= s.decisionLevel() {
					pathConflict++
				} else {
					learntClause = append(learntClause, q)
				}
			}
		}

		// Select next clause to look at:
		for s.Seen[s.Trail[idx].Var()] == seenUndef {
			idx--
		}
		p = s.Trail[idx]
		idx--
		confl = s.Reason(p.Var())
		s.Seen[p.Var()] = seenUndef
		pathConflict--
		if pathConflict <= 0 {
			break
		}
	}
	learntClause[0] = p.Flip()

	s.analyzeToClear = append(s.analyzeToClear[:0], learntClause...)
	s.Statistics.MaxLiterals += uint64(len(learntClause))

	// Simplify conflict clause:
	if s.Opts.CcminMode == 2 {
		copiedIdx := 1
		for i := 1; i < len(learntClause); i++ {
			if s.Reason(learntClause[i].Var()) == ClaRefUndef || !s.litRedundant(learntClause[i]) {
				learntClause[copiedIdx] = learntClause[i]
				copiedIdx++
			}
		}
		learntClause = learntClause[:copiedIdx]
	} else if s.Opts.CcminMode == 1 {
		copiedIdx := 1
		for i := 1; i < len(learntClause); i++ {
			x := learntClause[i].Var()
			if s.Reason(x) == ClaRefUndef {
				learntClause[copiedIdx] = learntClause[i]
				copiedIdx++
			} else {
				c := s.ClaAllocator.GetClause(s.Reason(x))
				for k := 1; k < c.Size(); k++ {
					if s.Seen[c.At(k).Var()] == seenUndef && s.Level(c.At(k).Var()) > 0 {
						learntClause[copiedIdx] = learntClause[i]
						copiedIdx++
						break
					}
				}
			}
		}
		learntClause = learntClause[:copiedIdx]
	}
	s.Statistics.TotLiterals += uint64(len(learntClause))

	// Find correct backtrack level:
	if len(learntClause) == 1 {
		backTrackLevel = 0
	} else {
		maxIdx := 1
		// Find the first literal assigned at the next-highest level:
		for i := 2; i < len(learntClause); i++ {
			if s.Level(learntClause[i].Var()) > s.Level(learntClause[maxIdx].Var()) {
				maxIdx = i
			}
		}
		backTrackLevel = s.Level(learntClause[maxIdx].Var())
		// Swap-in this literal at index 1:
		learntClause[maxIdx], learntClause[1] = learntClause[1], learntClause[maxIdx]
	}

	for _, lit := range s.analyzeToClear {
		s.Seen[lit.Var()] = seenUndef // ('seen[]' is now cleared)
	}

	if !outSymmetry {
		return learntClause, backTrackLevel, outSymmetry, comp
	}

	// The compatibility set of the learnt clause: intersection of the compat
	// sets of every symmetry-tagged parent, enlarged by the symmetries that
	// stabilize the final clause.
	if !fsym {
		filled := false
		for _, cr := range confClauses {
			check := s.ClaAllocator.GetClause(cr).Compat
			if check.Empty() {
				comp.Clear()
				break
			}
			if !filled {
				comp = check.Copy()
				filled = true
				continue
			}
			comp.IntersectWith(check)
			if comp.Empty() {
				break
			}
		}
	}
	for i := len(s.Symmetries) - 1; i >= 0; i-- {
		sym := s.Symmetries[i]
		if comp.Has(sym.ID) {
			continue
		}
		if sym.Stabilize(learntClause) {
			comp.Insert(sym.ID)
		}
	}

	return learntClause, backTrackLevel, outSymmetry, comp
}

//litRedundant checks whether p can be removed from a conflict clause: every
//antecedent chain below it ends in seen or level-0 literals
func (s *Solver) litRedundant(p Lit) bool {
	if s.Seen[p.Var()] != seenUndef && s.Seen[p.Var()] != seenSource {
		panic(fmt.Errorf("Unexpected seen state: %d", s.Seen[p.Var()]))
	}
	c := s.ClaAllocator.GetClause(s.Reason(p.Var()))
	s.analyzeStack = s.analyzeStack[:0]

	for i := 1; ; i++ {
		if i < c.Size() {
			// Checking 'p'-parents 'l':
			l := c.At(i)

			// Variable at level 0 or previously removable:
			if s.Level(l.Var()) == 0 || s.Seen[l.Var()] == seenSource || s.Seen[l.Var()] == seenRemovable {
				continue
			}

			// Check variable can not be removed for some local reason:
			if s.Reason(l.Var()) == ClaRefUndef || s.Seen[l.Var()] == seenFailed {
				s.analyzeStack = append(s.analyzeStack, shrinkStackElem{0, p})
				for _, elem := range s.analyzeStack {
					if s.Seen[elem.l.Var()] == seenUndef {
						s.Seen[elem.l.Var()] = seenFailed
						s.analyzeToClear = append(s.analyzeToClear, elem.l)
					}
				}
				return false
			}

			// Recursively check 'l':
			s.analyzeStack = append(s.analyzeStack, shrinkStackElem{i, p})
			i = 0
			p = l
			c = s.ClaAllocator.GetClause(s.Reason(p.Var()))
		} else {
			// Finished with current element 'p' and reason 'c':
			if s.Seen[p.Var()] == seenUndef {
				s.Seen[p.Var()] = seenRemovable
				s.analyzeToClear = append(s.analyzeToClear, p)
			}

			// Terminate with success if stack is empty:
			if len(s.analyzeStack) == 0 {
				break
			}

			// Continue with top element on stack:
			last := s.analyzeStack[len(s.analyzeStack)-1]
			i = last.i
			p = last.l
			c = s.ClaAllocator.GetClause(s.Reason(p.Var()))
			s.analyzeStack = s.analyzeStack[:len(s.analyzeStack)-1]
		}
	}

	return true
}

//analyzeFinal expresses the final conflict in terms of assumptions: the
//subset of assumptions implying p, stored in outConflict
func (s *Solver) analyzeFinal(p Lit, outConflict *[]Lit) {
	*outConflict = (*outConflict)[:0]
	*outConflict = append(*outConflict, p)

	if s.decisionLevel() == 0 {
		return
	}

	s.Seen[p.Var()] = seenSource

	for i := len(s.Trail) - 1; i >= s.TrailLim[0]; i-- {
		x := s.Trail[i].Var()
		if s.Seen[x] != seenUndef {
			if s.Reason(x) == ClaRefUndef {
				if s.Level(x) <= 0 {
					panic(fmt.Errorf("Reasonless non-decision on the trail: %d", x))
				}
				*outConflict = append(*outConflict, s.Trail[i].Flip())
			} else {
				c := s.ClaAllocator.GetClause(s.Reason(x))
				for j := 1; j < c.Size(); j++ {
					if s.Level(c.At(j).Var()) > 0 {
						s.Seen[c.At(j).Var()] = seenSource
					}
				}
			}
			s.Seen[x] = seenUndef
		}
	}

	s.Seen[p.Var()] = seenUndef
}

func (s *Solver) reduceDB() {
	sort.Slice(s.LearntClauses, func(i, j int) bool {
		x := s.ClaAllocator.GetClause(s.LearntClauses[i])
		y := s.ClaAllocator.GetClause(s.LearntClauses[j])
		return x.Size() > 2 && (y.Size() == 2 || x.Activity() < y.Activity())
	})
	// Don't delete binary or locked clauses. From the rest, delete clauses
	// from the first half and clauses with activity smaller than extraLim:
	extraLim := s.ClaInc / float32(len(s.LearntClauses))
	copiedIdx := 0
	for i := 0; i < len(s.LearntClauses); i++ {
		claRef := s.LearntClauses[i]
		clause := s.ClaAllocator.GetClause(claRef)
		if clause.Size() > 2 && !s.locked(clause) && (i < len(s.LearntClauses)/2 || clause.Activity() < extraLim) {
			s.Statistics.RemovedClauseCount++
			s.removeClause(claRef)
		} else {
			s.LearntClauses[copiedIdx] = claRef
			copiedIdx++
		}
	}
	s.LearntClauses = s.LearntClauses[:copiedIdx]
	s.checkGarbage()
}

func (s *Solver) rebuildOrderHeap() {
	var vs []Var
	for v := Var(0); v < s.NextVar; v++ {
		if s.Decision[v] && s.ValueVar(v) == LitBoolUndef {
			vs = append(vs, v)
		}
	}
	s.VarOrder.Build(vs)
}

//Simplify the clause database according to the current top-level assignment:
//remove satisfied clauses and free released variables
func (s *Solver) Simplify() bool {
	if s.decisionLevel() != 0 {
		panic(fmt.Errorf("The decision level is not zero: %d", s.decisionLevel()))
	}
	if !s.OK || s.Propagate() != ClaRefUndef {
		s.OK = false
		return false
	}
	if s.NumAssigns() == s.simpDBAssigns || s.simpDBProps > 0 {
		return true
	}

	// Remove satisfied clauses:
	s.removeSatisfied(&s.LearntClauses)
	if s.RemoveSatisfiedFlag { // Can be turned off.
		s.removeSatisfied(&s.Clauses)

		// Remove all released variables from the trail:
		for _, v := range s.ReleasedVars {
			if s.Seen[v] != seenUndef {
				panic(fmt.Errorf("Released var is still seen: %d", v))
			}
			s.Seen[v] = seenSource
		}
		copiedIdx := 0
		for i := 0; i < len(s.Trail); i++ {
			if s.Seen[s.Trail[i].Var()] == seenUndef {
				s.Trail[copiedIdx] = s.Trail[i]
				copiedIdx++
			}
		}
		s.Trail = s.Trail[:copiedIdx]
		s.Qhead = len(s.Trail)
		for _, v := range s.ReleasedVars {
			s.Seen[v] = seenUndef
		}

		// Released variables are now ready to be reused:
		s.FreeVars = append(s.FreeVars, s.ReleasedVars...)
		s.ReleasedVars = s.ReleasedVars[:0]
	}
	s.checkGarbage()
	s.rebuildOrderHeap()

	s.simpDBAssigns = s.NumAssigns()
	s.simpDBProps = int64(s.Statistics.ClausesLiterals + s.Statistics.LearntsLiterals)

	return true
}

//Search for a model for the given number of conflicts. Returns LitBoolTrue
//when a model was found, LitBoolFalse on unsatisfiability and LitBoolUndef
//when the conflict bound or the budget was reached.
func (s *Solver) Search(nofConflicts int) LitBool {
	if !s.OK {
		panic("s.OK is false")
	}
	conflictC := 0

	for {
		confl := s.Propagate()
		if confl != ClaRefUndef {
			// CONFLICT
			s.Statistics.ConflictCount++
			conflictC++

			//If the decision level is 0, the problem is unsatisfiable.
			if s.decisionLevel() == 0 {
				return LitBoolFalse
			}

			firstSymmetry := s.ClaAllocator.GetClause(confl).FirstSymmetry()
			learntClause, backTrackLevel, tagSymmetry, comp := s.Analyze(confl)
			if firstSymmetry && !tagSymmetry {
				panic("A first-symmetry conflict must tag the learnt clause")
			}
			s.CancelUntil(backTrackLevel)

			if len(learntClause) == 1 {
				if tagSymmetry {
					s.markSymmetryUnit(learntClause[0].Var())
				}
				s.UncheckedEnqueue(learntClause[0], ClaRefUndef)
			} else {
				var compat SymSet
				if tagSymmetry {
					compat = comp
				}
				claRef := s.ClaAllocator.NewAllocate(learntClause, true, firstSymmetry, tagSymmetry, compat)
				clause := s.ClaAllocator.GetClause(claRef)
				clause.SetLBD(s.ComputeLBD(learntClause))
				s.Statistics.SumLearntLBD += uint64(clause.LBD())
				s.LearntClauses = append(s.LearntClauses, claRef)
				s.attachClause(claRef)
				s.clauseBumpActivity(clause)
				s.UncheckedEnqueue(learntClause[0], claRef)
				if s.Verbosity >= 2 {
					fmt.Printf("c Conflict clause added: %s\n", dimacsString(learntClause))
				}
			}

			s.varDecayActivity()
			s.clauseDecayActivity()

			s.learntsizeAdjustCnt--
			if s.learntsizeAdjustCnt == 0 {
				s.learntsizeAdjustConfl *= learntsizeAdjustInc
				s.learntsizeAdjustCnt = int(s.learntsizeAdjustConfl)
				s.MaxNumLearnt *= s.Opts.LearntsizeInc

				if s.Verbosity >= 1 {
					fmt.Printf("c | %9d | %7d %8d %8d | %8d %8d %6.0f | %6.3f %% |\n",
						s.Statistics.ConflictCount,
						int(s.Statistics.DecisionVarCount)-s.numRootAssigns(), s.NumClauses(), s.Statistics.ClausesLiterals,
						int(s.MaxNumLearnt), s.NumLearnts(), avgLearntLits(s.Statistics), s.progressEstimate()*100)
				}
			}
		} else {
			// NO CONFLICT
			if (nofConflicts >= 0 && conflictC >= nofConflicts) || !s.withinBudget() {
				// Reached bound on number of conflicts:
				s.progress = s.progressEstimate()
				s.CancelUntil(0)
				return LitBoolUndef
			}

			// Simplify the set of problem clauses:
			if s.decisionLevel() == 0 && !s.Simplify() {
				return LitBoolFalse
			}

			if float64(len(s.LearntClauses)-s.NumAssigns()) >= s.MaxNumLearnt {
				// Reduce the set of learnt clauses:
				s.Statistics.ReduceDBCount++
				s.reduceDB()
			}

			next := Lit{X: LitUndef}
			for s.decisionLevel() < len(s.Assumptions) {
				// Perform user provided assumption:
				p := s.Assumptions[s.decisionLevel()]
				if s.ValueLit(p) == LitBoolTrue {
					// Dummy decision level:
					s.newDecisionLevel()
				} else if s.ValueLit(p) == LitBoolFalse {
					s.analyzeFinal(p.Flip(), &s.Conflict)
					return LitBoolFalse
				} else {
					next = p
					break
				}
			}

			if next.X == LitUndef {
				// New variable decision:
				s.Statistics.DecisionCount++
				next = s.pickBranchLit()
				if next.X == LitUndef {
					// Model found:
					return LitBoolTrue
				}
			}

			// Increase decision level and enqueue 'next'
			s.newDecisionLevel()
			s.DecisionVars[next.Var()] = true
			s.UncheckedEnqueue(next, ClaRefUndef)

			if uint64(s.decisionLevel()) > s.Statistics.MaxDecisionLevel {
				s.Statistics.MaxDecisionLevel = uint64(s.decisionLevel())
			}
		}
	}
}

func (s *Solver) numRootAssigns() int {
	if len(s.TrailLim) == 0 {
		return len(s.Trail)
	}
	return s.TrailLim[0]
}

func avgLearntLits(st *Statistics) float64 {
	if st.NumLearnts == 0 {
		return 0
	}
	return float64(st.LearntsLiterals) / float64(st.NumLearnts)
}

func (s *Solver) progressEstimate() float64 {
	progress := 0.0
	f := 1.0 / float64(s.NumVars())

	for i := 0; i <= s.decisionLevel(); i++ {
		beg := 0
		if i > 0 {
			beg = s.TrailLim[i-1]
		}
		end := len(s.Trail)
		if i < s.decisionLevel() {
			end = s.TrailLim[i]
		}
		progress += math.Pow(f, float64(i)) * float64(end-beg)
	}

	return progress / float64(s.NumVars())
}

/*
  Finite subsequences of the Luby-sequence:

  0: 1
  1: 1 1 2
  2: 1 1 2 1 1 2 4
  3: 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8
  ...
*/
func (s *Solver) luby(y float64, x int) float64 {
	var seq, size int

	for size, seq = 1, 0; size < x+1; seq, size = seq+1, 2*size+1 {
	}

	for size-1 != x {
		size = (size - 1) >> 1
		seq--
		x = x % size
	}
	return math.Pow(y, float64(seq))
}

//Solve decides satisfiability under the given assumptions. On LitBoolTrue the
//model is in Model; on LitBoolFalse under assumptions the failed subset is in
//Conflict. LitBoolUndef means the budget ran out or an interrupt arrived.
func (s *Solver) Solve(assumptions ...Lit) LitBool {
	s.Model = s.Model[:0]
	s.Conflict = s.Conflict[:0]
	if !s.OK {
		return LitBoolFalse
	}
	s.Assumptions = append(s.Assumptions[:0], assumptions...)
	s.Statistics.SolveCount++

	// Set symmetry order
	if s.SymOrder != nil {
		s.SymOrder.EnableCosy(OrderModeAuto, ValueModeTrueLessFalse)
	}
	s.notifyCNFUnits()
	s.injectUnits()

	s.MaxNumLearnt = float64(s.NumClauses()) * s.Opts.LearntsizeFactor
	s.learntsizeAdjustConfl = learntsizeAdjustStartConfl
	s.learntsizeAdjustCnt = int(s.learntsizeAdjustConfl)
	status := LitBoolUndef

	if s.Verbosity >= 1 {
		fmt.Println("c ============================[ Search Statistics ]==============================")
		fmt.Println("c | Conflicts |          ORIGINAL         |          LEARNT          | Progress |")
		fmt.Println("c |           |    Vars  Clauses Literals |    Limit  Clauses Lit/Cl |          |")
		fmt.Println("c ===============================================================================")
	}

	// Search:
	currRestarts := 0
	for status == LitBoolUndef {
		var restBase float64
		if s.Opts.LubyRestart {
			restBase = s.luby(s.Opts.RestartInc, currRestarts)
		} else {
			restBase = math.Pow(s.Opts.RestartInc, float64(currRestarts))
		}
		status = s.Search(int(restBase) * s.Opts.RestartFirst)
		if !s.withinBudget() {
			break
		}
		currRestarts++
		s.Statistics.RestartCount++
	}

	if s.Verbosity >= 1 {
		fmt.Println("c ===============================================================================")
	}

	if status == LitBoolTrue {
		// Extend & copy model:
		for i := 0; i < s.NumVars(); i++ {
			s.Model = append(s.Model, s.ValueVar(Var(i)))
		}
	} else if status == LitBoolFalse && len(s.Conflict) == 0 {
		s.OK = false
	}
	s.CancelUntil(0)
	return status
}

//Implies probes unit propagation under assumps: out receives the literals
//forced by them. Returns false when the assumptions already conflict.
func (s *Solver) Implies(assumps []Lit, out *[]Lit) bool {
	s.TrailLim = append(s.TrailLim, len(s.Trail))
	for _, a := range assumps {
		if s.ValueLit(a) == LitBoolFalse {
			s.CancelUntil(0)
			return false
		} else if s.ValueLit(a) == LitBoolUndef {
			s.UncheckedEnqueue(a, ClaRefUndef)
		}
	}

	trailBefore := len(s.Trail)
	ret := true
	if s.Propagate() == ClaRefUndef {
		*out = (*out)[:0]
		for j := trailBefore; j < len(s.Trail); j++ {
			*out = append(*out, s.Trail[j])
		}
	} else {
		ret = false
	}

	s.CancelUntil(0)
	return ret
}

//Budget controls: a budgeted solve returns LitBoolUndef between restarts once
//the bound is hit; an interrupt is polled at the same points.

func (s *Solver) SetConfBudget(x int64) {
	s.ConflictBudget = int64(s.Statistics.ConflictCount) + x
}

func (s *Solver) SetPropBudget(x int64) {
	s.PropagationBudget = int64(s.Statistics.PropagationCount) + x
}

func (s *Solver) BudgetOff() {
	s.ConflictBudget = -1
	s.PropagationBudget = -1
}

func (s *Solver) Interrupt() {
	s.asynchInterrupt.Store(true)
}

func (s *Solver) ClearInterrupt() {
	s.asynchInterrupt.Store(false)
}

func (s *Solver) withinBudget() bool {
	return !s.asynchInterrupt.Load() &&
		(s.ConflictBudget < 0 || s.Statistics.ConflictCount < uint64(s.ConflictBudget)) &&
		(s.PropagationBudget < 0 || s.Statistics.PropagationCount < uint64(s.PropagationBudget))
}

//=================================================================================================
// Garbage Collection methods:

func (s *Solver) relocAll(to *ClauseAllocator) {
	// All watchers:
	s.Watches.CleanAll(s.ClaAllocator.IsRemoved)
	for v := Var(0); v < s.NextVar; v++ {
		for sign := 0; sign < 2; sign++ {
			p := NewLit(v, sign == 1)
			ws := s.Watches.Lookup(p)
			for j := 0; j < len(*ws); j++ {
				s.ClaAllocator.Reloc(&(*ws)[j].claRef, to)
			}
		}
	}

	// All reasons:
	for i := 0; i < len(s.Trail); i++ {
		v := s.Trail[i].Var()

		// Note: it is not safe to call 'locked()' on a relocated clause. This
		// is why we keep 'dangling' reasons here. It is safe and does not hurt.
		if s.Reason(v) != ClaRefUndef {
			c := s.ClaAllocator.GetClause(s.Reason(v))
			if c.Mark() == RelocatedMark || s.locked(c) {
				if c.Mark() == DeletedMark {
					panic(fmt.Errorf("Relocating a reason that was removed: %d", s.Reason(v)))
				}
				s.ClaAllocator.Reloc(&s.VarData[v].Reason, to)
			}
		}
	}

	// All learnt:
	copiedIdx := 0
	for i := 0; i < len(s.LearntClauses); i++ {
		if !s.ClaAllocator.IsRemoved(s.LearntClauses[i]) {
			s.ClaAllocator.Reloc(&s.LearntClauses[i], to)
			s.LearntClauses[copiedIdx] = s.LearntClauses[i]
			copiedIdx++
		}
	}
	s.LearntClauses = s.LearntClauses[:copiedIdx]

	// All original:
	copiedIdx = 0
	for i := 0; i < len(s.Clauses); i++ {
		if !s.ClaAllocator.IsRemoved(s.Clauses[i]) {
			s.ClaAllocator.Reloc(&s.Clauses[i], to)
			s.Clauses[copiedIdx] = s.Clauses[i]
			copiedIdx++
		}
	}
	s.Clauses = s.Clauses[:copiedIdx]
}

func (s *Solver) checkGarbage() {
	if float64(s.ClaAllocator.Wasted()) > float64(s.ClaAllocator.Size())*s.Opts.GarbageFrac {
		s.garbageCollect()
	}
}

func (s *Solver) garbageCollect() {
	to := NewClauseAllocator()
	s.relocAll(to)
	s.Statistics.GarbageCollectCount++
	if s.Verbosity >= 2 {
		fmt.Printf("c |  Garbage collection:   %12d words => %12d words             |\n",
			s.ClaAllocator.Size(), to.Size())
	}
	s.ClaAllocator = to
}
