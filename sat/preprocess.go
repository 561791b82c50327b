package sat

// preprocessor implements spec §4.10's inprocessing pass: backward
// subsumption/self-subsumption over occurrence lists, and bounded variable
// elimination (VE) with a model-extension stack so eliminated variables can
// be reconstructed once the core reports a satisfying trail.
//
// Grounded on the Candy original's candy/simp/Subsumption.cc and
// candy/simp/VariableElimination.cc (there is no Go example of either
// technique in the corpus); wired onto this package's database/trail/
// propagator instead of Candy's ClauseDatabase/Propagator pair.
type preprocessor struct {
	db    *database
	alloc *ClauseAllocator
	trail *Trail
	prop  *Propagator

	occurs [][]ClauseRef // per-variable occurrence list
	frozen []bool        // variables set_frozen'd by the caller: never eliminated

	touched     []bool
	touchedList []Var

	subQueue        []ClauseRef
	subQueued       map[ClauseRef]bool
	bwdsubAssignPos int

	eliminated []bool
	elimOrder  []Var
	elimRecord map[Var][][]Lit // per eliminated var, defining clauses in forcing order

	opts Options
}

func newPreprocessor(db *database, alloc *ClauseAllocator, trail *Trail, prop *Propagator, opts Options) *preprocessor {
	return &preprocessor{
		db:         db,
		alloc:      alloc,
		trail:      trail,
		prop:       prop,
		subQueued:  make(map[ClauseRef]bool),
		elimRecord: make(map[Var][][]Lit),
		opts:       opts,
	}
}

func (pp *preprocessor) Grow() Var {
	v := Var(len(pp.occurs))
	pp.occurs = append(pp.occurs, nil)
	pp.frozen = append(pp.frozen, false)
	pp.touched = append(pp.touched, false)
	pp.eliminated = append(pp.eliminated, false)
	return v
}

func (pp *preprocessor) SetFrozen(v Var, frozen bool) {
	pp.frozen[v] = frozen
}

func (pp *preprocessor) IsEliminated(v Var) bool {
	return int(v) < len(pp.eliminated) && pp.eliminated[v]
}

// touch marks v's occurrence list as worth rescanning on the next
// subsumption sweep (spec §4.10's touched-clause queue).
func (pp *preprocessor) touch(v Var) {
	if !pp.touched[v] {
		pp.touched[v] = true
		pp.touchedList = append(pp.touchedList, v)
	}
}

func (pp *preprocessor) attachOccur(ref ClauseRef) {
	c := pp.alloc.Clause(ref)
	for _, l := range c.Lits() {
		v := l.Var()
		pp.occurs[v] = append(pp.occurs[v], ref)
	}
	pp.queueSubsumption(ref)
}

func (pp *preprocessor) detachOccur(ref ClauseRef) {
	c := pp.alloc.Clause(ref)
	for _, l := range c.Lits() {
		v := l.Var()
		pp.removeOccur(v, ref)
		pp.touch(v)
	}
}

func (pp *preprocessor) removeOccur(v Var, ref ClauseRef) {
	list := pp.occurs[v]
	for i, r := range list {
		if r == ref {
			list[i] = list[len(list)-1]
			pp.occurs[v] = list[:len(list)-1]
			return
		}
	}
}

func (pp *preprocessor) queueSubsumption(ref ClauseRef) {
	if pp.subQueued[ref] {
		return
	}
	pp.subQueued[ref] = true
	pp.subQueue = append(pp.subQueue, ref)
}

func (pp *preprocessor) popSubsumption() ClauseRef {
	ref := pp.subQueue[0]
	pp.subQueue = pp.subQueue[1:]
	pp.subQueued[ref] = false
	return ref
}

// Run performs one inprocessing pass at decision level 0: gather clauses
// touched since the last pass, run backward subsumption to fixpoint, then
// attempt variable elimination over every non-frozen, non-eliminated,
// unassigned variable that occurs in at least one clause. It reports false if the sweep
// derives an empty clause (the problem is unsatisfiable).
func (pp *preprocessor) Run() bool {
	pp.gatherTouched()
	if !pp.backwardSubsumptionCheck() {
		return false
	}

	if !pp.opts.VEEnabled {
		return true
	}

	for v := Var(0); int(v) < len(pp.occurs); v++ {
		if pp.eliminated[v] || pp.frozen[v] || len(pp.occurs[v]) == 0 {
			continue
		}
		if pp.trail.VarValue(v) != Undef {
			continue
		}
		if !pp.eliminateVar(v) {
			continue
		}
		if !pp.backwardSubsumptionCheck() {
			return false
		}
	}
	return true
}

func (pp *preprocessor) gatherTouched() {
	for _, v := range pp.touchedList {
		if !pp.touched[v] {
			continue
		}
		for _, ref := range pp.occurs[v] {
			c := pp.alloc.Clause(ref)
			if !c.IsDeleted() {
				pp.queueSubsumption(ref)
			}
		}
	}
	for _, v := range pp.touchedList {
		pp.touched[v] = false
	}
	pp.touchedList = pp.touchedList[:0]
}

// backwardSubsumptionCheck drains the subsumption queue, and additionally
// treats every literal fixed at level 0 since the last pass as a unit
// clause to subsume/strengthen against, per spec §4.10.
func (pp *preprocessor) backwardSubsumptionCheck() bool {
	for len(pp.subQueue) > 0 || pp.bwdsubAssignPos < pp.trail.NumAssigned() {
		var clause *Clause
		var clauseRef ClauseRef = NoRef

		if len(pp.subQueue) == 0 {
			l := pp.trail.Literal(pp.bwdsubAssignPos)
			pp.bwdsubAssignPos++
			clause = tempClause([]Lit{l})
		} else {
			clauseRef = pp.popSubsumption()
			c := pp.alloc.Clause(clauseRef)
			if c.IsDeleted() {
				continue
			}
			clause = c
		}

		best := Var(-1)
		bestLen := -1
		for _, l := range clause.Lits() {
			n := len(pp.occurs[l.Var()])
			if bestLen == -1 || n < bestLen {
				best, bestLen = l.Var(), n
			}
		}
		if best == -1 {
			continue
		}

		candidates := append([]ClauseRef(nil), pp.occurs[best]...)
		for i := 0; i < len(candidates); i++ {
			csi := candidates[i]
			if csi == clauseRef {
				continue
			}
			c := pp.alloc.Clause(csi)
			if c.IsDeleted() {
				continue
			}
			if pp.opts.SubsumptionLimit > 0 && c.Len() >= pp.opts.SubsumptionLimit {
				continue
			}

			res, lit := clause.subsumes(c)
			switch res {
			case subsumeYes:
				pp.removeClauseEntirely(csi)
			case subsumeStrengthen:
				if !pp.strengthenClause(csi, lit.Negate()) {
					return false
				}
				if lit.Negate().Var() == best {
					i--
					candidates = pp.occurs[best]
				}
			}
		}
	}
	return true
}

// tempClause wraps a bare literal slice (a level-0 fact treated as a unit
// clause) in the minimal Clause shape subsumes() needs, bypassing the
// pooled allocator since it is never attached or freed.
func tempClause(lits []Lit) *Clause {
	c := &Clause{lits: lits}
	c.refreshAbstraction()
	return c
}

func (pp *preprocessor) removeClauseEntirely(ref ClauseRef) {
	c := pp.alloc.Clause(ref)
	pp.db.sink.Removed(c.Lits())
	pp.detachOccur(ref)
	pp.db.detach(ref)
	removeRef(&pp.db.original, ref)
	removeRef(&pp.db.learnt, ref)
	removeRef(&pp.db.binaryLearnt, ref)
	pp.alloc.Deallocate(ref)
}

func removeRef(refs *[]ClauseRef, ref ClauseRef) {
	for i, r := range *refs {
		if r == ref {
			(*refs)[i] = (*refs)[len(*refs)-1]
			*refs = (*refs)[:len(*refs)-1]
			return
		}
	}
}

// strengthenClause drops l from the clause ref, per spec §4.10's
// self-subsumption. A clause reduced to one literal becomes a
// fact on the trail; unit propagation must still succeed afterwards.
func (pp *preprocessor) strengthenClause(ref ClauseRef, l Lit) bool {
	c := pp.alloc.Clause(ref)
	pp.queueSubsumption(ref)

	original := append([]Lit(nil), c.Lits()...)
	pp.db.sink.Added(withoutLit(original, l))
	pp.db.sink.Removed(original)

	pp.detachOccur(ref)
	pp.db.detach(ref)
	c.strengthen(l)
	pp.touch(l.Var())

	if c.Len() == 1 {
		pp.db.trail.Enqueue(c.Lit(0), NoRef)
		return pp.prop.Propagate() == NoRef
	}
	pp.db.attach(ref)
	pp.attachOccur(ref)
	return true
}

func withoutLit(lits []Lit, l Lit) []Lit {
	out := make([]Lit, 0, len(lits)-1)
	for _, x := range lits {
		if x != l {
			out = append(out, x)
		}
	}
	return out
}

// eliminateVar attempts to remove v by resolving every clause containing v
// against every clause containing ¬v, per spec §4.10. It reports whether v
// was eliminated; on failure (the resolvent bound would be exceeded) the
// database is left untouched.
func (pp *preprocessor) eliminateVar(v Var) bool {
	posLit := PositiveLit(v)
	var pos, neg []ClauseRef
	for _, ref := range pp.occurs[v] {
		c := pp.alloc.Clause(ref)
		if c.IsDeleted() {
			continue
		}
		if containsLit(c, posLit) {
			pos = append(pos, ref)
		} else {
			neg = append(neg, ref)
		}
	}

	total := len(pos) + len(neg)
	limit := total + pp.opts.VEGrow

	type pair struct {
		lits []Lit
		ok   bool
	}
	resolvents := make([]pair, 0, len(pos)*len(neg))
	count := 0
	for _, pr := range pos {
		for _, nr := range neg {
			merged, ok := mergeClauses(pp.alloc.Clause(pr), pp.alloc.Clause(nr), v)
			if !ok {
				continue // resolvent is tautological, contributes nothing
			}
			count++
			if count > limit {
				return false
			}
			if pp.opts.VEClauseLim > 0 && len(merged) > pp.opts.VEClauseLim {
				return false
			}
			resolvents = append(resolvents, pair{merged, true})
		}
	}

	pp.eliminated[v] = true
	pp.elimOrder = append(pp.elimOrder, v)

	var defining [][]Lit
	if len(pos) > len(neg) {
		for _, ref := range neg {
			defining = append(defining, reorderWithVarFirst(pp.alloc.Clause(ref).Lits(), v))
		}
		defining = append(defining, []Lit{posLit})
	} else {
		for _, ref := range pos {
			defining = append(defining, reorderWithVarFirst(pp.alloc.Clause(ref).Lits(), v))
		}
		defining = append(defining, []Lit{posLit.Negate()})
	}
	pp.elimRecord[v] = defining

	for _, ref := range append(append([]ClauseRef(nil), pos...), neg...) {
		pp.removeClauseEntirely(ref)
	}

	for _, r := range resolvents {
		switch len(r.lits) {
		case 0:
			pp.eliminated[v] = false // should not happen; defensive against an empty resolvent
			return false
		case 1:
			pp.db.trail.Enqueue(r.lits[0], NoRef)
		default:
			ref := pp.db.addInputClause(r.lits)
			pp.attachOccur(ref)
		}
	}
	return true
}

func containsLit(c *Clause, l Lit) bool {
	for _, x := range c.Lits() {
		if x == l {
			return true
		}
	}
	return false
}

func reorderWithVarFirst(lits []Lit, v Var) []Lit {
	out := append([]Lit(nil), lits...)
	for i, l := range out {
		if l.Var() == v {
			out[0], out[i] = out[i], out[0]
			break
		}
	}
	return out
}

// mergeClauses resolves ps and qs on v (both must contain a literal of v),
// dropping v's literal from the result. It reports false if the resolvent
// is a tautology (always satisfied), in which case it contributes nothing.
func mergeClauses(ps, qs *Clause, v Var) ([]Lit, bool) {
	small, big := ps, qs
	if small.Len() > big.Len() {
		small, big = big, small
	}

	out := make([]Lit, 0, small.Len()+big.Len()-2)
	for _, l := range big.Lits() {
		if l.Var() == v {
			continue
		}
		found := false
		for _, m := range small.Lits() {
			if m.Var() == l.Var() {
				if m == l.Negate() {
					return nil, false
				}
				found = true
				break
			}
		}
		if !found {
			out = append(out, l)
		}
	}
	for _, l := range small.Lits() {
		if l.Var() != v {
			out = append(out, l)
		}
	}
	return out, true
}

// ExtendModel reconstructs a value for every eliminated variable so the
// full assignment satisfies the original (pre-elimination) clause set,
// per spec §4.10. Processes eliminations in reverse order, since an earlier
// elimination's recorded clauses may reference a variable eliminated later.
func (pp *preprocessor) ExtendModel(assign []LBool) {
	for i := len(pp.elimOrder) - 1; i >= 0; i-- {
		v := pp.elimOrder[i]
		for _, c := range pp.elimRecord[v] {
			satisfied := false
			for _, l := range c[1:] {
				if valueIn(assign, l) == True {
					satisfied = true
					break
				}
			}
			if !satisfied {
				assign[c[0].Var()] = LiftBool(c[0].IsPositive())
				break
			}
		}
	}
}

func valueIn(assign []LBool, l Lit) LBool {
	v := assign[l.Var()]
	if v == Undef {
		return Undef
	}
	if l.IsPositive() {
		return v
	}
	return v.Opposite()
}
