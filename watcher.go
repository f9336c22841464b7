package main

//Watcher pairs a clause reference with a blocker literal. The blocker is a
//cheap satisfiability test that avoids loading the clause.
type Watcher struct {
	claRef  ClauseReference
	blocker Lit
}

//NewWatcher returns a Watcher
func NewWatcher(cla ClauseReference, p Lit) Watcher {
	return Watcher{
		claRef:  cla,
		blocker: p,
	}
}

//Equal returns a boolean indicating a clause reference is equal
func (w Watcher) Equal(wr Watcher) bool {
	return w.claRef == wr.claRef
}

//Watches holds the per-literal watcher lists. Lists touched by a lazy clause
//deletion are smudged and swept by CleanAll before anyone walks them again.
type Watches struct {
	watches [][]Watcher
	dirty   []bool
	dirties []Lit
}

//NewWatches returns a pointer of Watches
func NewWatches() *Watches {
	return &Watches{}
}

//Init grows the storage so literals of variable v have a list
func (w *Watches) Init(v Var) {
	size := 2*int(v) + 1
	for len(w.watches) <= size {
		w.watches = append(w.watches, []Watcher{})
		w.dirty = append(w.dirty, false)
	}
}

//Lookup returns a pointer of literal's watches
func (w *Watches) Lookup(x Lit) *[]Watcher {
	idx := LitToInt(x)
	return &(w.watches[idx])
}

//Append appends a new watcher to watches
func (w *Watches) Append(x Lit, watcher Watcher) {
	idx := LitToInt(x)
	w.watches[idx] = append(w.watches[idx], watcher)
}

//LookupClean returns the watcher list of x, sweeping it first when a lazy
//deletion left dead watchers behind
func (w *Watches) LookupClean(x Lit, deleted func(ClauseReference) bool) *[]Watcher {
	idx := LitToInt(x)
	if w.dirty[idx] {
		w.Clean(x, deleted)
	}
	return &(w.watches[idx])
}

//Smudge marks the list of x dirty so CleanAll sweeps its dead watchers
func (w *Watches) Smudge(x Lit) {
	idx := LitToInt(x)
	if !w.dirty[idx] {
		w.dirty[idx] = true
		w.dirties = append(w.dirties, x)
	}
}

//Clean removes watchers whose clause reference satisfies deleted
func (w *Watches) Clean(x Lit, deleted func(ClauseReference) bool) {
	idx := LitToInt(x)
	ws := w.watches[idx]
	copiedIdx := 0
	for i := 0; i < len(ws); i++ {
		if !deleted(ws[i].claRef) {
			ws[copiedIdx] = ws[i]
			copiedIdx++
		}
	}
	w.watches[idx] = ws[:copiedIdx]
	w.dirty[idx] = false
}

//CleanAll sweeps every smudged list
func (w *Watches) CleanAll(deleted func(ClauseReference) bool) {
	for _, x := range w.dirties {
		//Dirties may contain duplicates so check here if a lit is already cleaned
		if w.dirty[LitToInt(x)] {
			w.Clean(x, deleted)
		}
	}
	w.dirties = w.dirties[:0]
}

//RemoveWatcher removes a watcher which has literal x from watches
func RemoveWatcher(watches *Watches, x Lit, watcher Watcher) {
	startCopyIdx := -1
	//Find the index of watcher
	ws := watches.Lookup(x)
	for i := 0; i < len(*ws); i++ {
		if (*ws)[i].Equal(watcher) {
			startCopyIdx = i
			break
		}
	}
	if startCopyIdx == -1 {
		panic("Watcher is not found")
	}

	//Copy the rest of watcher exclude the value of startCopyIdx
	for copiedIdx := startCopyIdx; copiedIdx < len(*ws)-1; copiedIdx++ {
		(*ws)[copiedIdx] = (*ws)[copiedIdx+1]
	}
	//pop
	*ws = (*ws)[:len(*ws)-1]
}
