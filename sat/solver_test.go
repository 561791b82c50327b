package sat

import (
	"testing"
)

// newTestSolver returns a solver with n fresh variables and default
// options, tuned down so small instances still exercise restarts/reduceDB.
func newTestSolver(n int) *Solver {
	opts := DefaultOptions
	opts.FirstReduceDB = 4
	opts.IncReduceDB = 2
	s := NewSolver(opts)
	for i := 0; i < n; i++ {
		s.NewVar(true, true)
	}
	return s
}

func mustAdd(t *testing.T, s *Solver, cl []Lit) {
	t.Helper()
	if !s.AddClause(cl) {
		t.Fatalf("AddClause(%v) reported immediate UNSAT", cl)
	}
}

func checkModelSatisfies(t *testing.T, model []LBool, clauses [][]Lit) {
	t.Helper()
	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			v := model[l.Var()]
			if (l.IsPositive() && v == True) || (!l.IsPositive() && v == False) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("model %v does not satisfy clause %v", model, c)
		}
	}
}

// S1: trivial SAT.
func TestSolve_S1_TrivialSat(t *testing.T) {
	s := newTestSolver(1)
	mustAdd(t, s, lits(1))

	res := s.SolveUnder(nil)
	if res.Status != StatusSat {
		t.Fatalf("Status = %v, want Sat", res.Status)
	}
	if res.Model[0] != True {
		t.Errorf("x1 = %v, want True", res.Model[0])
	}
}

// S2: trivial UNSAT.
func TestSolve_S2_TrivialUnsat(t *testing.T) {
	s := newTestSolver(1)
	mustAdd(t, s, lits(1))
	if s.AddClause(lits(-1)) {
		t.Fatalf("AddClause(-1) after AddClause(1) should report immediate UNSAT")
	}

	res := s.SolveUnder(nil)
	if res.Status != StatusUnsat {
		t.Fatalf("Status = %v, want Unsat", res.Status)
	}
}

// S3: one-decision chain, any satisfying model accepted.
func TestSolve_S3_OneDecisionChain(t *testing.T) {
	s := newTestSolver(3)
	clauses := [][]Lit{lits(1, 2), lits(-1, 3), lits(-2, -3)}
	for _, c := range clauses {
		mustAdd(t, s, c)
	}

	res := s.SolveUnder(nil)
	if res.Status != StatusSat {
		t.Fatalf("Status = %v, want Sat", res.Status)
	}
	checkModelSatisfies(t, res.Model, clauses)
}

// S4: forces unit propagation to a conflict.
func TestSolve_S4_ForcesUnitPropagationConflict(t *testing.T) {
	s := newTestSolver(3)
	mustAdd(t, s, lits(1))
	mustAdd(t, s, lits(-1, 2))
	mustAdd(t, s, lits(-2, 3))
	if s.AddClause(lits(-3)) {
		// Not reached: AddClause propagates the unit at level 0 and reports
		// the conflict. Either way SolveUnder must report Unsat.
	}

	res := s.SolveUnder(nil)
	if res.Status != StatusUnsat {
		t.Fatalf("Status = %v, want Unsat", res.Status)
	}
}

// S5: pigeonhole-3-in-2 is unsatisfiable. Variable x_{p,h} (1-indexed
// p in 1..3, h in 1..2) is encoded as var (p-1)*2+(h-1).
func TestSolve_S5_Pigeonhole3In2(t *testing.T) {
	const pigeons, holes = 3, 2
	varOf := func(p, h int) int { return (p-1)*holes + h } // 1-indexed var number

	s := newTestSolver(pigeons * holes)

	// Every pigeon sits in at least one hole.
	for p := 1; p <= pigeons; p++ {
		cl := make([]Lit, holes)
		for h := 1; h <= holes; h++ {
			cl[h-1] = lits(varOf(p, h))[0]
		}
		mustAdd(t, s, cl)
	}
	// No two pigeons share a hole.
	for h := 1; h <= holes; h++ {
		for p1 := 1; p1 <= pigeons; p1++ {
			for p2 := p1 + 1; p2 <= pigeons; p2++ {
				mustAdd(t, s, lits(-varOf(p1, h), -varOf(p2, h)))
			}
		}
	}

	res := s.SolveUnder(nil)
	if res.Status != StatusUnsat {
		t.Fatalf("Status = %v, want Unsat", res.Status)
	}
}

// S6: assumption core. F = {(x1∨x2),(¬x1∨x3)}, assumptions {¬x2,¬x3}: the
// core must be a non-empty subset of the negated assumptions {x2, x3}.
func TestSolve_S6_AssumptionCore(t *testing.T) {
	s := newTestSolver(3)
	mustAdd(t, s, lits(1, 2))
	mustAdd(t, s, lits(-1, 3))

	assumptions := lits(-2, -3)
	res := s.SolveUnder(assumptions)
	if res.Status != StatusUnsat {
		t.Fatalf("Status = %v, want Unsat", res.Status)
	}
	if len(res.FinalCore) == 0 {
		t.Fatalf("FinalCore is empty, want a non-empty subset of {x2, x3}")
	}
	allowed := map[Lit]bool{}
	for _, a := range assumptions {
		allowed[a.Negate()] = true
	}
	for _, l := range res.FinalCore {
		if !allowed[l] {
			t.Errorf("FinalCore contains %v, which is not a negated assumption", l)
		}
	}
}

// ReduceDB must not change the verdict: solve the same instance with a very
// aggressive reduceDB schedule and confirm it is still satisfiable with a
// valid model.
func TestSolve_ReduceDBPreservesSatEquivalence(t *testing.T) {
	opts := DefaultOptions
	opts.FirstReduceDB = 1
	opts.IncReduceDB = 1
	s := NewSolver(opts)
	for i := 0; i < 6; i++ {
		s.NewVar(true, true)
	}

	// A small randomly-structured but satisfiable 3-SAT-ish instance.
	clauses := [][]Lit{
		lits(1, 2, 3), lits(-1, 2, 4), lits(-2, 3, -4), lits(1, -3, 5),
		lits(-1, -2, 6), lits(4, -5, 6), lits(-4, 5, -6), lits(2, -5, -6),
		lits(1, 4, -6), lits(-3, -4, 5),
	}
	for _, c := range clauses {
		mustAdd(t, s, c)
	}

	res := s.SolveUnder(nil)
	if res.Status != StatusSat {
		t.Fatalf("Status = %v, want Sat", res.Status)
	}
	checkModelSatisfies(t, res.Model, clauses)
}

// VE + model extension: eliminating a non-frozen variable via inprocessing
// must still yield a model that satisfies the original formula once
// extended.
func TestSolve_VariableEliminationModelExtension(t *testing.T) {
	opts := DefaultOptions
	opts.InprocessingPeriod = 1
	// Force a restart after the first conflict so inprocessing actually runs.
	opts.LBDQueueSize = 1
	opts.TrailQueueSize = 1
	opts.RestartK = 100

	s := NewSolver(opts)
	for i := 0; i < 4; i++ {
		s.NewVar(true, true)
	}

	clauses := [][]Lit{
		lits(1, 2), lits(-1, 3), lits(-2, -3), lits(3, 4), lits(-4, 1),
	}
	for _, c := range clauses {
		mustAdd(t, s, c)
	}

	res := s.SolveUnder(nil)
	if res.Status != StatusSat {
		t.Fatalf("Status = %v, want Sat", res.Status)
	}
	checkModelSatisfies(t, res.Model, clauses)
}

// Idempotence: solving the same instance twice yields the same verdict.
func TestSolve_Idempotent(t *testing.T) {
	s := newTestSolver(3)
	clauses := [][]Lit{lits(1, 2), lits(-1, 3), lits(-2, -3)}
	for _, c := range clauses {
		mustAdd(t, s, c)
	}

	first := s.SolveUnder(nil)
	second := s.SolveUnder(nil)
	if first.Status != second.Status {
		t.Fatalf("solving twice gave different verdicts: %v then %v", first.Status, second.Status)
	}
}
