package sat

import "testing"

func newTestTrail(n int) *Trail {
	tr := NewTrail()
	for i := 0; i < n; i++ {
		tr.Grow()
	}
	return tr
}

func TestTrailEnqueueAndValue(t *testing.T) {
	tr := newTestTrail(2)
	l := lits(1)[0] // positive literal for var 0

	if tr.Value(l) != Undef {
		t.Fatalf("Value before Enqueue = %v, want Undef", tr.Value(l))
	}

	tr.Enqueue(l, NoRef)
	if tr.Value(l) != True {
		t.Errorf("Value(l) = %v, want True", tr.Value(l))
	}
	if tr.Value(l.Negate()) != False {
		t.Errorf("Value(¬l) = %v, want False", tr.Value(l.Negate()))
	}
	if tr.Level(l.Var()) != 0 {
		t.Errorf("Level = %d, want 0", tr.Level(l.Var()))
	}
}

func TestTrailDecisionLevelsAndBacktrack(t *testing.T) {
	tr := newTestTrail(3)
	a, b, c := lits(1)[0], lits(2)[0], lits(3)[0]

	tr.NewDecisionLevel()
	tr.Enqueue(a, NoRef)
	tr.NewDecisionLevel()
	tr.Enqueue(b, NoRef)
	tr.NewDecisionLevel()
	tr.Enqueue(c, NoRef)

	if tr.DecisionLevel() != 3 {
		t.Fatalf("DecisionLevel() = %d, want 3", tr.DecisionLevel())
	}
	if tr.NumAssigned() != 3 {
		t.Fatalf("NumAssigned() = %d, want 3", tr.NumAssigned())
	}

	var undone []Var
	tr.BacktrackTo(1, func(v Var, last LBool) { undone = append(undone, v) })

	if tr.DecisionLevel() != 1 {
		t.Errorf("DecisionLevel() after backtrack = %d, want 1", tr.DecisionLevel())
	}
	if tr.Value(a) != True {
		t.Errorf("a should remain assigned after backtracking to level 1")
	}
	if tr.Value(b) != Undef || tr.Value(c) != Undef {
		t.Errorf("b and c should be unassigned after backtracking to level 1")
	}
	if len(undone) != 2 || undone[0] != c.Var() || undone[1] != b.Var() {
		t.Errorf("undone = %v, want [c, b] in that order (most recent first)", undone)
	}
}

func TestTrailPhaseSavingOnBacktrack(t *testing.T) {
	tr := newTestTrail(1)
	neg := lits(-1)[0]

	tr.NewDecisionLevel()
	tr.Enqueue(neg, NoRef)
	tr.BacktrackTo(0, nil)

	if tr.SavedPhase(neg.Var()) != False {
		t.Errorf("SavedPhase = %v, want False after backtracking a negative assignment", tr.SavedPhase(neg.Var()))
	}
}

func TestTrailLocked(t *testing.T) {
	tr := newTestTrail(1)
	l := lits(1)[0]
	ref := ClauseRef(7)

	tr.Enqueue(l, ref)
	if !tr.Locked(l.Var(), ref) {
		t.Errorf("Locked(v, ref) = false, want true for the reason clause of the current assignment")
	}
	if tr.Locked(l.Var(), ClauseRef(8)) {
		t.Errorf("Locked(v, otherRef) = true, want false")
	}
}

func TestTrailPendingLitsAndQHead(t *testing.T) {
	tr := newTestTrail(2)
	a, b := lits(1)[0], lits(2)[0]

	tr.Enqueue(a, NoRef)
	tr.Enqueue(b, NoRef)

	if len(tr.PendingLits()) != 2 {
		t.Fatalf("PendingLits() = %v, want 2 pending literals", tr.PendingLits())
	}
	tr.AdvanceQHead()
	if len(tr.PendingLits()) != 0 {
		t.Errorf("PendingLits() after AdvanceQHead = %v, want none", tr.PendingLits())
	}
	if tr.QHead() != 2 {
		t.Errorf("QHead() = %d, want 2", tr.QHead())
	}
}
