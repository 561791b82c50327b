package sat

import "sort"

// database owns the three clause lists of spec §3/§4.3: the input clauses
// (never touched by reduceDB), general learnt clauses (reduceDB's target),
// and learnt binary clauses (kept forever, since a 2-literal clause is
// already as compact as a reduceDB pass could make it and binary
// propagation never dereferences it anyway).
//
// Grounded on the teacher's Solver.constraints/learnts fields and
// ReduceDB/BumpClaActivity/DecayClaActivity, generalized to split out the
// binary-learnt list spec §3 calls for.
type database struct {
	alloc *ClauseAllocator
	prop  *Propagator
	trail *Trail
	sink  ProofSink

	original     []ClauseRef
	learnt       []ClauseRef
	binaryLearnt []ClauseRef

	clauseInc   float64
	clauseDecay float64

	persistentLBDThreshold int // spec §4.3 default 3

	onLearnt func(lits []Lit) // learnt-clause callback, spec §6 set_learnt_callback
	onLearntMaxLen int
}

func newDatabase(alloc *ClauseAllocator, prop *Propagator, trail *Trail, clauseDecay float64) *database {
	return &database{
		alloc:                   alloc,
		prop:                    prop,
		trail:                   trail,
		sink:                    noopProofSink{},
		clauseInc:               1,
		clauseDecay:             clauseDecay,
		persistentLBDThreshold:  3,
	}
}

// addInputClause allocates and attaches a clause with 2+ literals, appending it
// to the original list.
func (db *database) addInputClause(lits []Lit) ClauseRef {
	ref := db.alloc.Allocate(lits, false)
	db.attach(ref)
	db.original = append(db.original, ref)
	return ref
}

func (db *database) attach(ref ClauseRef) {
	c := db.alloc.Clause(ref)
	if c.Len() == 2 {
		db.prop.WatchBinary(ref, c.Lit(0), c.Lit(1))
	} else {
		db.prop.AttachClause(ref)
	}
}

func (db *database) detach(ref ClauseRef) {
	c := db.alloc.Clause(ref)
	if c.Len() == 2 {
		db.prop.UnwatchBinary(ref, c.Lit(0), c.Lit(1))
	} else {
		db.prop.DetachClause(ref)
	}
}

// Learn allocates a learnt clause (spec §4.3): unit clauses are enqueued
// directly and never attached, binary clauses go to binaryLearnt, larger
// ones go to learnt. Literal 0 must already be the asserting literal and
// literal 1 (if any) must already be the literal from the second-highest
// decision level, as set up by the conflict analyzer.
func (db *database) Learn(lits []Lit, lbd int) ClauseRef {
	db.sink.Added(lits)

	if db.onLearnt != nil && (db.onLearntMaxLen <= 0 || len(lits) <= db.onLearntMaxLen) {
		db.onLearnt(lits)
	}

	if len(lits) == 1 {
		db.trail.Enqueue(lits[0], NoRef)
		return NoRef
	}

	ref := db.alloc.Allocate(lits, true)
	c := db.alloc.Clause(ref)
	c.setLBD(lbd)
	db.bumpActivity(c)

	db.attach(ref)
	db.trail.Enqueue(lits[0], ref)

	if len(lits) == 2 {
		db.binaryLearnt = append(db.binaryLearnt, ref)
	} else {
		db.learnt = append(db.learnt, ref)
	}
	return ref
}

// ReduceDB implements spec §4.3's cleanup policy: sort learnts by
// (lbd desc, activity asc), walk the worse half, and delete anything that
// is neither locked, persistent-tier, nor frozen (learnt since the last
// pass with an LBD below LBDFrozen). If the post-sort median clause is already persistent-tier,
// the whole pass is skipped (the "mostly-good" heuristic).
func (db *database) ReduceDB() {
	if len(db.learnt) == 0 {
		return
	}

	sort.Slice(db.learnt, func(i, j int) bool {
		ci, cj := db.alloc.Clause(db.learnt[i]), db.alloc.Clause(db.learnt[j])
		if ci.LBD() != cj.LBD() {
			return ci.LBD() > cj.LBD()
		}
		return ci.Activity() < cj.Activity()
	})

	median := db.alloc.Clause(db.learnt[len(db.learnt)/2])
	if median.LBD() <= db.persistentLBDThreshold {
		return
	}

	half := len(db.learnt) / 2
	kept := db.learnt[:0]
	for i, ref := range db.learnt {
		c := db.alloc.Clause(ref)
		v := ref0Var(c)
		locked := db.trail.Locked(v, ref)

		shouldDelete := i < half && !locked && !c.protected && c.LBD() > db.persistentLBDThreshold
		if shouldDelete {
			db.deleteLearnt(ref)
			continue
		}
		c.protected = false // unfreeze: frozen status only survives one pass
		kept = append(kept, ref)
	}
	db.learnt = kept
}

func ref0Var(c *Clause) Var {
	return c.Lit(0).Var()
}

func (db *database) deleteLearnt(ref ClauseRef) {
	c := db.alloc.Clause(ref)
	db.sink.Removed(c.Lits())
	db.detach(ref)
	db.alloc.Deallocate(ref)
}

// Freeze marks a learnt clause as protected for the next reduceDB pass. The
// solver calls it for each newly learnt clause whose LBD is below
// Options.LBDFrozen. A clause's LBD is not recomputed after it is learnt, so
// no clause is frozen later because its LBD improved.
func (db *database) Freeze(ref ClauseRef) {
	if ref == NoRef {
		return
	}
	db.alloc.Clause(ref).protected = true
}

func (db *database) DecayActivity() {
	db.clauseInc /= db.clauseDecay
}

func (db *database) bumpActivity(c *Clause) {
	c.activity += float32(db.clauseInc)
	if c.activity > 1e20 {
		db.rescaleActivities()
	}
}

func (db *database) rescaleActivities() {
	for _, ref := range db.learnt {
		c := db.alloc.Clause(ref)
		c.activity *= 1e-20
	}
	db.clauseInc *= 1e-20
}

// Simplify sweeps every clause list for clauses satisfied at the root level
// (spec's lifecycle point (i)). Must only be called at decision level 0
// with an empty propagation queue.
func (db *database) Simplify() {
	db.simplifyList(&db.learnt)
	db.simplifyList(&db.binaryLearnt)
	db.simplifyList(&db.original)
}

func (db *database) simplifyList(refs *[]ClauseRef) {
	kept := (*refs)[:0]
	for _, ref := range *refs {
		c := db.alloc.Clause(ref)
		satisfied := false
		for _, l := range c.Lits() {
			if db.trail.Value(l) == True {
				satisfied = true
				break
			}
		}
		if satisfied {
			db.sink.Removed(c.Lits())
			db.detach(ref)
			db.alloc.Deallocate(ref)
			continue
		}
		kept = append(kept, ref)
	}
	*refs = kept
}

// NumOriginal, NumLearnt and NumBinaryLearnt report the size of each list;
// used by statistics and by the search driver's reduceDB scheduling.
func (db *database) NumOriginal() int     { return len(db.original) }
func (db *database) NumLearnt() int       { return len(db.learnt) }
func (db *database) NumBinaryLearnt() int { return len(db.binaryLearnt) }
