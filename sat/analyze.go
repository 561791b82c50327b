package sat

// conflictAnalyzer derives a 1-UIP learnt clause from a conflicting clause,
// minimizes it, computes its LBD, and picks the backjump level (spec §4.6).
// Grounded on the teacher's Solver.analyze, extended with the two
// minimization passes the teacher's distilled code does not perform
// (supplemented from the Candy original's conflict analysis).
type conflictAnalyzer struct {
	trail *Trail
	alloc *ClauseAllocator
	prop  *Propagator
	order *varOrder
	db    *database

	minimizeBySize bool // spec §9 MinimizeBySize: self-subsumption pass
	minimizeByLBD  bool // spec §9 MinimizeByLBD: binary-resolution pass

	seen         *resetSet
	litMark      []int8 // +1/-1/0: sign of var v's literal currently in the learnt clause
	levelOnTrail []int  // scratch stamps keyed by decision level, for LBD
	lbdStamp     int

	learnt []Lit
}

func newConflictAnalyzer(trail *Trail, alloc *ClauseAllocator, prop *Propagator, order *varOrder, db *database, opts Options) *conflictAnalyzer {
	return &conflictAnalyzer{
		trail:          trail,
		alloc:          alloc,
		prop:           prop,
		order:          order,
		db:             db,
		minimizeBySize: opts.MinimizeBySize,
		minimizeByLBD:  opts.MinimizeByLBD,
		seen:           &resetSet{},
	}
}

func (ca *conflictAnalyzer) grow() {
	ca.seen.Grow()
	ca.litMark = append(ca.litMark, 0)
}

// Analyze implements spec §4.6's 1-UIP derivation. It returns the minimized
// learnt clause (with the asserting literal in position 0), its LBD, and
// the backjump level.
func (ca *conflictAnalyzer) Analyze(conflict ClauseRef) ([]Lit, int, int) {
	t := ca.trail
	ca.seen.Clear()

	ca.learnt = append(ca.learnt[:0], 0) // placeholder for the asserting literal
	pathCount := 0
	curLevel := t.DecisionLevel()

	curRef := conflict
	idx := t.NumAssigned() - 1
	var pivot Lit = -1

	for {
		c := ca.alloc.Clause(curRef)
		if c.IsLearnt() {
			ca.db.bumpActivity(c)
		}
		for _, l := range c.Lits() {
			v := l.Var()
			if ca.seen.Contains(v) {
				continue
			}
			lvl := t.Level(v)
			if lvl == 0 {
				continue // level-0 literals are permanently true/false, drop them
			}
			ca.seen.Add(v)
			ca.order.Bump(v)
			if lvl == curLevel {
				pathCount++
			} else {
				ca.learnt = append(ca.learnt, l)
			}
		}

		// Find the next literal on the trail whose variable was seen; that
		// is the next pivot to resolve on.
		for {
			pivot = t.Literal(idx)
			idx--
			if ca.seen.Contains(pivot.Var()) {
				break
			}
		}
		curRef = t.Reason(pivot.Var())
		pathCount--
		if pathCount == 0 {
			break
		}
	}

	ca.learnt[0] = pivot.Negate()

	if ca.minimizeBySize {
		ca.minimizeSelfSubsuming()
	}
	if ca.minimizeByLBD {
		ca.minimizeBinaryResolution()
	}

	lbd := ca.computeLBD(ca.learnt)

	backjumpLevel := 0
	for _, l := range ca.learnt[1:] {
		if lvl := t.Level(l.Var()); lvl > backjumpLevel {
			backjumpLevel = lvl
		}
	}

	out := append([]Lit(nil), ca.learnt...)
	return out, lbd, backjumpLevel
}

// minimizeSelfSubsuming drops any literal in learnt[1:] whose reason clause
// is entirely "covered" by literals already in the learnt clause (directly,
// or transitively through further reasons), per spec §4.6. Implemented as
// an explicit-stack DFS to avoid unbounded recursion depth.
func (ca *conflictAnalyzer) minimizeSelfSubsuming() {
	if len(ca.learnt) <= 1 {
		return
	}

	var levelAbstraction uint64
	for _, l := range ca.learnt[1:] {
		levelAbstraction |= 1 << (uint(ca.trail.Level(l.Var())) % 64)
	}

	kept := ca.learnt[:1]
	for _, l := range ca.learnt[1:] {
		if ca.isRedundant(l, levelAbstraction) {
			continue
		}
		kept = append(kept, l)
	}
	ca.learnt = kept
}

// isRedundant reports whether l can be removed from the learnt clause
// because every other literal of its reason clause is already implied.
func (ca *conflictAnalyzer) isRedundant(l Lit, levelAbstraction uint64) bool {
	reason := ca.trail.Reason(l.Var())
	if reason == NoRef {
		return false // decisions are never redundant
	}

	// Variables marked by a search that fails are unmarked again, so that
	// seen only ever holds variables of the learnt clause and variables
	// proven implied by it.
	var marked []Var
	fail := func() bool {
		for _, u := range marked {
			ca.seen.addedAt[u] = 0
		}
		return false
	}

	stack := []Lit{l}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		curReason := ca.trail.Reason(cur.Var())
		c := ca.alloc.Clause(curReason)
		for _, m := range c.Lits() {
			v := m.Var()
			if v == cur.Var() {
				continue // the clause's own asserted literal
			}
			if ca.seen.Contains(v) {
				continue // already accounted for
			}
			lvl := ca.trail.Level(v)
			if lvl == 0 {
				continue // level-0 facts are always implied
			}
			if ca.trail.Reason(v) == NoRef {
				return fail() // a decision blocks minimization
			}
			if levelAbstraction&(1<<(uint(lvl)%64)) == 0 {
				return fail() // reaches a level not covered by the learnt clause
			}
			ca.seen.Add(v)
			marked = append(marked, v)
			stack = append(stack, m)
		}
	}
	return true
}

// minimizeBinaryResolution drops any l in learnt[1:] for which a binary
// clause (learnt[0] ∨ ¬l) is attached, per spec §4.6's second pass.
func (ca *conflictAnalyzer) minimizeBinaryResolution() {
	if len(ca.learnt) <= 1 {
		return
	}

	for i := 1; i < len(ca.learnt); i++ {
		v := ca.learnt[i].Var()
		ca.litMark[v] = signOf(ca.learnt[i])
	}

	kept := ca.learnt[:1]
	removed := false
	for _, w := range ca.prop.binWatches[ca.learnt[0].Negate()] {
		candidate := w.other.Negate()
		if ca.litMark[candidate.Var()] == signOf(candidate) {
			ca.litMark[candidate.Var()] = 0 // mark removed so we drop it below
			removed = true
		}
	}
	if !removed {
		for i := 1; i < len(ca.learnt); i++ {
			ca.litMark[ca.learnt[i].Var()] = 0
		}
		return
	}
	for _, l := range ca.learnt[1:] {
		if ca.litMark[l.Var()] == signOf(l) {
			kept = append(kept, l)
		}
		ca.litMark[l.Var()] = 0
	}
	ca.learnt = kept
}

func signOf(l Lit) int8 {
	if l.IsPositive() {
		return 1
	}
	return -1
}

// computeLBD returns the number of distinct decision levels among the
// clause's literals (spec §3). Decision levels never exceed NumVars, so a
// small local bitset keyed by level is enough; this is independent of the
// seen set used for the derivation itself.
func (ca *conflictAnalyzer) computeLBD(lits []Lit) int {
	if len(ca.levelOnTrail) < ca.trail.NumVars()+1 {
		ca.levelOnTrail = make([]int, ca.trail.NumVars()+1)
	}
	stamp := ca.lbdStamp + 1
	ca.lbdStamp = stamp
	n := 0
	for _, l := range lits {
		lvl := ca.trail.Level(l.Var())
		if ca.levelOnTrail[lvl] != stamp {
			ca.levelOnTrail[lvl] = stamp
			n++
		}
	}
	return n
}
