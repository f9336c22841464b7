package main

type Statistics struct {
	SolveCount           uint64
	RestartCount         uint64
	DecisionCount        uint64
	RandomDecisionCount  uint64
	PropagationCount     uint64
	ConflictCount        uint64
	SymPropagationCount  uint64
	SymConflictCount     uint64
	InvertingSyms        uint64
	NumLearnts           uint64
	NumClauses           uint64
	ClausesLiterals      uint64
	LearntsLiterals      uint64
	MaxLiterals          uint64
	TotLiterals          uint64
	SumLearntLBD         uint64
	ReduceDBCount        uint64
	RemovedClauseCount   uint64
	GarbageCollectCount  uint64
	MaxDecisionLevel     uint64
	DecisionVarCount     uint64
}

func NewStatistics() *Statistics {
	return &Statistics{}
}
