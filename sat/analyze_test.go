package sat

import "testing"

// analyzeHarness wires the same components NewSolver does, without the
// surrounding Solver type, so conflict analysis can be driven directly
// against a hand-built trail.
type analyzeHarness struct {
	trail *Trail
	alloc *ClauseAllocator
	prop  *Propagator
	order *varOrder
	db    *database
	ca    *conflictAnalyzer
}

func newAnalyzeHarness(n int) *analyzeHarness {
	trail := NewTrail()
	alloc := NewClauseAllocator()
	prop := NewPropagator(alloc, trail)
	order := newVarOrder(0.8, 0.95, true)
	db := newDatabase(alloc, prop, trail, 0.999)
	ca := newConflictAnalyzer(trail, alloc, prop, order, db, DefaultOptions)

	h := &analyzeHarness{trail: trail, alloc: alloc, prop: prop, order: order, db: db, ca: ca}
	for i := 0; i < n; i++ {
		h.trail.Grow()
		h.prop.Grow()
		h.order.Grow(true, true)
		h.ca.grow()
	}
	return h
}

// TestAnalyzeDerivesAssertingLearntClause builds a small conflict by hand:
//
//	level 1: decide x1;       unit-propagates x2 via (¬x1∨x2)
//	level 2: decide x4;       unit-propagates x3 via (¬x4∨x3), and then
//	                          (¬x2∨¬x3∨¬x4) is false -> conflict
//
// and checks that Analyze returns a non-empty learnt clause whose asserting
// literal (position 0) is only on the conflict's own decision level and
// whose backjump level is lower than the conflict level.
func TestAnalyzeDerivesAssertingLearntClause(t *testing.T) {
	h := newAnalyzeHarness(4)
	x1, x2, x3, x4 := lits(1)[0], lits(2)[0], lits(3)[0], lits(4)[0]

	h.db.addInputClause(lits(-1, 2))      // ¬x1 ∨ x2
	h.db.addInputClause(lits(-4, 3))      // ¬x4 ∨ x3
	h.db.addInputClause(lits(-2, -3, -4)) // ¬x2 ∨ ¬x3 ∨ ¬x4

	h.trail.NewDecisionLevel()
	h.trail.Enqueue(x1, NoRef)
	if confl := h.prop.Propagate(); confl != NoRef {
		t.Fatalf("unexpected conflict while propagating level 1: %v", confl)
	}
	if h.trail.Value(x2) != True || h.trail.Value(x3) != Undef {
		t.Fatalf("expected x2 forced true and x3 unassigned, got x2=%v x3=%v", h.trail.Value(x2), h.trail.Value(x3))
	}

	h.trail.NewDecisionLevel()
	h.trail.Enqueue(x4, NoRef)
	confl := h.prop.Propagate()
	if confl == NoRef {
		t.Fatalf("expected a conflict at level 2, got none")
	}

	learnt, lbd, backjump := h.ca.Analyze(confl)

	if len(learnt) == 0 {
		t.Fatalf("Analyze returned an empty learnt clause")
	}
	if lbd < 1 {
		t.Errorf("lbd = %d, want >= 1", lbd)
	}
	if backjump >= h.trail.DecisionLevel() {
		t.Errorf("backjump level %d should be below the conflict's level %d", backjump, h.trail.DecisionLevel())
	}

	assertingVar := learnt[0].Var()
	seenAtConflictLevel := 0
	for _, l := range learnt {
		if h.trail.Level(l.Var()) == h.trail.DecisionLevel() {
			seenAtConflictLevel++
		}
	}
	if seenAtConflictLevel != 1 {
		t.Errorf("learnt clause has %d literals at the conflict level, want exactly 1 (the UIP)", seenAtConflictLevel)
	}
	if h.trail.Level(assertingVar) != h.trail.DecisionLevel() {
		t.Errorf("asserting literal's variable is not at the conflict's decision level")
	}
}

// TestAnalyzeSingleDecisionConflictLearnsUnit covers the common
// UNSAT-producing shape: a conflict that traces back to a single decision
// should learn a unit clause (the negation of that decision) and ask for a
// backjump to level 0.
func TestAnalyzeSingleDecisionConflictLearnsUnit(t *testing.T) {
	h := newAnalyzeHarness(2)
	x1 := lits(1)[0]

	h.db.addInputClause(lits(-1, 2))  // ¬x1 ∨ x2
	h.db.addInputClause(lits(-1, -2)) // ¬x1 ∨ ¬x2

	h.trail.NewDecisionLevel()
	h.trail.Enqueue(x1, NoRef)
	confl := h.prop.Propagate()
	if confl == NoRef {
		t.Fatalf("expected a conflict once x2 is forced both true and false")
	}

	learnt, _, backjump := h.ca.Analyze(confl)

	if len(learnt) != 1 {
		t.Fatalf("learnt clause = %v, want a single unit literal", learnt)
	}
	if learnt[0] != x1.Negate() {
		t.Errorf("learnt unit = %v, want ¬x1 (%v)", learnt[0], x1.Negate())
	}
	if backjump != 0 {
		t.Errorf("backjump level = %d, want 0", backjump)
	}
}
