package sat

// watcher is a (clause, blocker) pair attached to the watch list of a
// literal (spec §3 "Watcher"). The blocker is a cached literal that, if
// true, lets propagation skip loading the clause entirely.
type watcher struct {
	ref     ClauseRef
	blocker Lit
}

// binWatcher is the lightweight watcher used for binary clauses: the other
// literal is enough to propagate without dereferencing the clause; ref is
// kept only so conflict analysis can explain the derivation.
type binWatcher struct {
	ref   ClauseRef
	other Lit
}

// Propagator implements the two-watched-literal unit-propagation engine
// (spec §4.5). Grounded on the teacher's Clause.Propagate/Solver.Propagate,
// generalized with the dedicated binary-clause fast path the teacher does
// not implement (supplemented from spec §4.5 step 1 and the Candy
// original's BinaryClauses.h).
type Propagator struct {
	watches    [][]watcher
	binWatches [][]binWatcher

	alloc *ClauseAllocator
	trail *Trail

	tmp []watcher // reused scratch buffer for the copy-compact scan
}

// NewPropagator returns a propagator backed by the given allocator and
// trail. Both must already have the same number of variables as will be
// passed to Grow.
func NewPropagator(alloc *ClauseAllocator, trail *Trail) *Propagator {
	return &Propagator{alloc: alloc, trail: trail}
}

// Grow adds the two watch-list slots (positive and negative literal) for one
// more variable.
func (p *Propagator) Grow() {
	p.watches = append(p.watches, nil, nil)
	p.binWatches = append(p.binWatches, nil, nil)
}

// WatchBinary attaches a binary clause ref with literals (l0, l1) to both
// binary watch lists.
func (p *Propagator) WatchBinary(ref ClauseRef, l0, l1 Lit) {
	p.binWatches[l0.Negate()] = append(p.binWatches[l0.Negate()], binWatcher{ref: ref, other: l1})
	p.binWatches[l1.Negate()] = append(p.binWatches[l1.Negate()], binWatcher{ref: ref, other: l0})
}

// UnwatchBinary detaches a binary clause from both of its watch lists.
func (p *Propagator) UnwatchBinary(ref ClauseRef, l0, l1 Lit) {
	removeBinWatcher(p.binWatches, l0.Negate(), ref)
	removeBinWatcher(p.binWatches, l1.Negate(), ref)
}

func removeBinWatcher(lists [][]binWatcher, at Lit, ref ClauseRef) {
	ws := lists[at]
	for i, w := range ws {
		if w.ref == ref {
			ws[i] = ws[len(ws)-1]
			lists[at] = ws[:len(ws)-1]
			return
		}
	}
}

// AttachClause registers a non-binary clause's two watched positions
// (lits[0], lits[1], as already arranged by the caller).
func (p *Propagator) AttachClause(ref ClauseRef) {
	c := p.alloc.Clause(ref)
	l0, l1 := c.Lit(0), c.Lit(1)
	p.watches[l0.Negate()] = append(p.watches[l0.Negate()], watcher{ref: ref, blocker: l1})
	p.watches[l1.Negate()] = append(p.watches[l1.Negate()], watcher{ref: ref, blocker: l0})
}

// DetachClause removes a non-binary clause from both of its watch lists.
func (p *Propagator) DetachClause(ref ClauseRef) {
	c := p.alloc.Clause(ref)
	l0, l1 := c.Lit(0), c.Lit(1)
	removeWatcher(p.watches, l0.Negate(), ref)
	removeWatcher(p.watches, l1.Negate(), ref)
}

func removeWatcher(lists [][]watcher, at Lit, ref ClauseRef) {
	ws := lists[at]
	for i, w := range ws {
		if w.ref == ref {
			ws[i] = ws[len(ws)-1]
			lists[at] = ws[:len(ws)-1]
			return
		}
	}
}

// Propagate drains the trail from its current qhead, returning NoRef once a
// fixed point is reached or the ClauseRef of the first conflicting clause
// encountered. On conflict, qhead is left positioned at the conflicting
// literal and any remaining trail literals are left unpropagated, per spec
// §4.5.
func (p *Propagator) Propagate() ClauseRef {
	t := p.trail
	for t.QHead() < t.NumAssigned() {
		lit := t.Literal(t.QHead())
		t.SetQHead(t.QHead() + 1)

		if ref := p.propagateBinary(lit); ref != NoRef {
			return ref
		}
		if ref := p.propagateGeneral(lit); ref != NoRef {
			return ref
		}
	}
	return NoRef
}

func (p *Propagator) propagateBinary(lit Lit) ClauseRef {
	t := p.trail
	for _, w := range p.binWatches[lit] {
		switch t.Value(w.other) {
		case False:
			return w.ref
		case Undef:
			t.Enqueue(w.other, w.ref)
		}
	}
	return NoRef
}

func (p *Propagator) propagateGeneral(lit Lit) ClauseRef {
	t := p.trail
	ws := p.watches[lit]
	p.tmp = append(p.tmp[:0], ws...)
	keep := ws[:0]

	for i := 0; i < len(p.tmp); i++ {
		w := p.tmp[i]

		if t.Value(w.blocker) == True {
			keep = append(keep, w)
			continue
		}

		c := p.alloc.Clause(w.ref)
		if c.Lit(0) == lit.Negate() {
			c.swap(0, 1)
		}
		// c.Lit(1) is now the literal that was just falsified.

		first := c.Lit(0)
		if t.Value(first) == True {
			keep = append(keep, watcher{ref: w.ref, blocker: first})
			continue
		}

		if replaced := p.findReplacement(c); replaced {
			q := c.Lit(1)
			p.watches[q.Negate()] = append(p.watches[q.Negate()], watcher{ref: w.ref, blocker: first})
			continue // dropped from lit's list
		}

		// No replacement: the clause is unit or conflicting on `first`.
		if t.Value(first) == False {
			keep = append(keep, p.tmp[i+1:]...)
			p.watches[lit] = keep
			return w.ref
		}
		t.Enqueue(first, w.ref)
		keep = append(keep, watcher{ref: w.ref, blocker: first})
	}

	p.watches[lit] = keep
	return NoRef
}

// findReplacement scans c.lits[2:] for a literal that is not False, starting
// from the position the previous scan left off (spec §3's scanFrom-style
// resume optimization), and moves it into the watched position 1 if found.
func (p *Propagator) findReplacement(c *Clause) bool {
	t := p.trail
	n := c.Len()
	if n <= 2 {
		return false
	}
	start := c.scanFrom
	if start < 2 || start >= n {
		start = 2
	}
	for i := start; i < n; i++ {
		if t.Value(c.Lit(i)) != False {
			c.swap(1, i)
			c.scanFrom = i + 1
			return true
		}
	}
	for i := 2; i < start; i++ {
		if t.Value(c.Lit(i)) != False {
			c.swap(1, i)
			c.scanFrom = i + 1
			return true
		}
	}
	return false
}
