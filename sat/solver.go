package sat

import "time"

// Status is the outcome of a solve call.
type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "SATISFIABLE"
	case StatusUnsat:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Result is what SolveUnder returns (spec §6).
type Result struct {
	Status Status

	// Model is set iff Status == StatusSat: one LBool per variable, never
	// Undef.
	Model []LBool

	// FinalCore is set iff Status == StatusUnsat and assumptions were given:
	// a subset of the negations of the given assumptions sufficient to
	// derive UNSAT.
	FinalCore []Lit
}

// Solver composes the core components (spec §4.9's SearchDriver) into the
// incremental CDCL API of spec §6. Grounded on the teacher's Solver struct
// (internal/sat/solver.go) and its Solve/Search/analyze/cancelUntil
// methods, rebuilt over this package's narrower, independently-testable
// components instead of one monolithic struct.
type Solver struct {
	trail    *Trail
	alloc    *ClauseAllocator
	prop     *Propagator
	order    *varOrder
	analyzer *conflictAnalyzer
	db       *database
	restarts *restartController
	pre      *preprocessor

	opts Options

	unsat bool // sticky global UNSAT flag (spec §4.4)

	conflicts          int64
	nextReduceDB       int64
	restartsSinceInpro int

	assumpIdx      int
	assumpLevelIdx []int

	conflictBudget    int64 // -1 = unlimited
	propagationBudget int64
	propagationsSeen  int64
	interrupt         bool
	termCallback      func() bool

	stats     Stats
	startTime time.Time
}

// NewSolver returns an empty solver configured by opts.
func NewSolver(opts Options) *Solver {
	trail := NewTrail()
	alloc := NewClauseAllocator()
	prop := NewPropagator(alloc, trail)
	order := newVarOrder(opts.VarDecay, opts.MaxVarDecay, opts.PhaseSaving)
	db := newDatabase(alloc, prop, trail, opts.ClauseDecay)
	db.persistentLBDThreshold = opts.PersistentLBD
	analyzer := newConflictAnalyzer(trail, alloc, prop, order, db, opts)
	restarts := newRestartController(opts.LBDQueueSize, opts.TrailQueueSize, opts.RestartK, opts.RestartR)
	pre := newPreprocessor(db, alloc, trail, prop, opts)

	return &Solver{
		trail:             trail,
		alloc:             alloc,
		prop:              prop,
		order:             order,
		analyzer:          analyzer,
		db:                db,
		restarts:          restarts,
		pre:               pre,
		opts:              opts,
		nextReduceDB:      int64(opts.FirstReduceDB),
		conflictBudget:    -1,
		propagationBudget: -1,
	}
}

// NumVars reports how many variables have been registered.
func (s *Solver) NumVars() int { return s.trail.NumVars() }

// NewVar registers a fresh variable, per spec §6's new_var(initial_phase,
// decidable).
func (s *Solver) NewVar(initialPhase, decidable bool) Var {
	v := s.trail.Grow()
	s.prop.Grow()
	s.order.Grow(initialPhase, decidable)
	s.pre.Grow()
	s.analyzer.grow()
	s.stats.Variables++
	return v
}

// SetDecision toggles whether v may be picked as a decision literal.
func (s *Solver) SetDecision(v Var, decidable bool) {
	s.order.SetDecision(v, decidable)
}

// SetFrozen marks v as exempt from variable elimination (spec §4.10):
// callers that hold references to v's literal across solve calls (e.g.
// assumption variables) must freeze it.
func (s *Solver) SetFrozen(v Var, frozen bool) {
	s.pre.SetFrozen(v, frozen)
}

// SetConflictBudget bounds the total number of conflicts, counted across all
// SolveUnder calls on this solver, after which SolveUnder returns Unknown;
// -1 means unlimited.
func (s *Solver) SetConflictBudget(n int64) { s.conflictBudget = n }

// SetPropagationBudget bounds the total number of propagated literals,
// counted across all SolveUnder calls on this solver; -1 means unlimited.
func (s *Solver) SetPropagationBudget(n int64) { s.propagationBudget = n }

// SetInterrupt requests the current or next SolveUnder call abort with
// Unknown at its next check point.
func (s *Solver) SetInterrupt(b bool) { s.interrupt = b }

// SetTermCallback installs a callback polled at the same check points as
// the interrupt flag; returning true aborts the solve with Unknown.
func (s *Solver) SetTermCallback(cb func() bool) { s.termCallback = cb }

// SetLearntCallback installs a callback invoked for every learnt clause of
// at most maxLen literals (0 means unbounded).
func (s *Solver) SetLearntCallback(maxLen int, cb func([]Lit)) {
	s.db.onLearnt = cb
	s.db.onLearntMaxLen = maxLen
}

// SetProofSink installs the sink that receives every clause addition and
// deletion event (spec §4.11); the default is a no-op sink.
func (s *Solver) SetProofSink(sink ProofSink) {
	if sink == nil {
		sink = noopProofSink{}
	}
	s.db.sink = sink
}

// ModelValue reports the current value of a literal under the trail (valid
// during search and, with the returned Model, after a Sat result).
func (s *Solver) ModelValue(l Lit) LBool { return s.trail.Value(l) }

// AddClause normalizes and adds a clause at the root level, per spec §6's
// add_clause. It reports false if the addition makes the problem
// immediately unsatisfiable (the sticky UNSAT flag is then set and every
// subsequent operation is a no-op).
func (s *Solver) AddClause(lits []Lit) bool {
	if s.unsat {
		return false
	}
	for _, l := range lits {
		for int(l.Var()) >= s.trail.NumVars() {
			s.NewVar(true, true)
		}
	}

	norm, ok := normalizeClauseLits(lits)
	if !ok {
		return true // tautology: trivially satisfied, nothing to store
	}

	out := norm[:0]
	satisfied := false
	for _, l := range norm {
		switch s.trail.Value(l) {
		case True:
			satisfied = true
		case False:
			continue
		default:
			out = append(out, l)
		}
	}
	if satisfied {
		return true
	}

	switch len(out) {
	case 0:
		s.unsat = true
		return false
	case 1:
		s.trail.Enqueue(out[0], NoRef)
		if s.prop.Propagate() != NoRef {
			s.unsat = true
			return false
		}
		return true
	default:
		ref := s.db.addInputClause(out)
		s.pre.attachOccur(ref)
		return true
	}
}

// AddClauseChecked wraps AddClause with the typed error ladder (spec §7)
// for callers (the DIMACS loader, the CLI) that want an error return
// instead of a bare bool.
func (s *Solver) AddClauseChecked(lits []Lit) error {
	if s.trail.DecisionLevel() != 0 {
		return ErrUnsupportedDuringSolve
	}
	if !s.AddClause(lits) {
		return ErrImmediateUnsat
	}
	return nil
}

func (s *Solver) onUndo(v Var, lastValue LBool) {
	s.order.Reinsert(v, lastValue)
}

// backjumpTo undoes the trail to level and keeps the assumption replay
// cursor (assumpIdx) consistent with whatever assumption decisions survive.
func (s *Solver) backjumpTo(level int) {
	s.trail.BacktrackTo(level, s.onUndo)
	if level < len(s.assumpLevelIdx) {
		if level == 0 {
			s.assumpIdx = 0
		} else {
			s.assumpIdx = s.assumpLevelIdx[level-1]
		}
		s.assumpLevelIdx = s.assumpLevelIdx[:level]
	}
}

// nextDecision returns the next literal to decide: an unsatisfied
// assumption first (spec §4.7's "assumption handling"), then the VSIDS
// pick. conflicting reports that the returned assumption literal is
// already false, meaning the search is UNSAT under the given assumptions.
func (s *Solver) nextDecision(assumptions []Lit) (lit Lit, conflicting, isAssumption, ok bool) {
	for s.assumpIdx < len(assumptions) {
		a := assumptions[s.assumpIdx]
		s.assumpIdx++
		switch s.trail.Value(a) {
		case True:
			continue // already implied, no new decision needed
		case False:
			return a, true, true, true
		default:
			return a, false, true, true
		}
	}
	lit, ok = s.order.Pick(s.trail)
	return lit, false, false, ok
}

// analyzeFinal derives the final core for an UNSAT-under-assumptions
// result: p is the negation of the assumption literal found false, i.e. a
// literal that is true on the trail. Grounded
// on the standard analyzeFinal routine (MiniSat-family solvers; not
// present in the teacher, which has no incremental/assumption support).
func (s *Solver) analyzeFinal(p Lit) []Lit {
	core := []Lit{p}
	if s.trail.DecisionLevel() == 0 {
		return core
	}

	seen := make(map[Var]bool)
	seen[p.Var()] = true

	start := s.trail.LevelLimit(0)
	for i := s.trail.NumAssigned() - 1; i >= start; i-- {
		l := s.trail.Literal(i)
		v := l.Var()
		if !seen[v] {
			continue
		}
		if s.trail.Reason(v) == NoRef {
			if s.trail.Level(v) > 0 {
				core = append(core, l.Negate())
			}
		} else {
			c := s.alloc.Clause(s.trail.Reason(v))
			for _, m := range c.Lits() {
				if m.Var() != v && s.trail.Level(m.Var()) > 0 {
					seen[m.Var()] = true
				}
			}
		}
		seen[v] = false
	}
	return core
}

func (s *Solver) withinBudget() bool {
	if s.interrupt {
		return false
	}
	if s.termCallback != nil && s.termCallback() {
		return false
	}
	if s.conflictBudget >= 0 && s.conflicts >= s.conflictBudget {
		return false
	}
	if s.propagationBudget >= 0 && s.propagationsSeen >= s.propagationBudget {
		return false
	}
	if s.opts.MaxConflicts >= 0 && s.conflicts >= s.opts.MaxConflicts {
		return false
	}
	return true
}

// SolveUnder runs the CDCL search loop of spec §4.9 under the given
// assumptions (may be empty for a plain solve).
func (s *Solver) SolveUnder(assumptions []Lit) Result {
	if s.startTime.IsZero() {
		s.startTime = time.Now()
	}
	if s.unsat {
		return Result{Status: StatusUnsat}
	}

	s.backjumpTo(0)
	s.assumpIdx = 0
	s.assumpLevelIdx = s.assumpLevelIdx[:0]

	if s.prop.Propagate() != NoRef {
		s.unsat = true
		return Result{Status: StatusUnsat}
	}
	s.db.Simplify()

	if s.opts.Verbose {
		s.printSeparator()
		s.printSearchHeader()
		s.printSeparator()
	}

	for {
		qhead := s.trail.QHead()
		confl := s.prop.Propagate()
		s.propagationsSeen += int64(s.trail.QHead() - qhead)
		if confl != NoRef {
			s.conflicts++

			if s.trail.DecisionLevel() == 0 {
				s.unsat = true
				return Result{Status: StatusUnsat}
			}

			trailSize := s.trail.NumAssigned()
			learnt, lbd, bl := s.analyzer.Analyze(confl)
			s.backjumpTo(bl)

			ref := s.db.Learn(learnt, lbd)
			if ref != NoRef && lbd < s.opts.LBDFrozen {
				s.db.Freeze(ref)
			}

			s.order.Decay(s.conflicts)
			s.db.DecayActivity()
			s.restarts.OnConflict(lbd, trailSize)

			if s.opts.Verbose && s.conflicts%10000 == 0 {
				s.printSearchStats()
			}

			if !s.withinBudget() {
				return Result{Status: StatusUnknown}
			}
			continue
		}

		if s.restarts.ShouldBlockRestart(s.trail.NumAssigned()) {
			s.restarts.OnBlock()
		} else if s.restarts.ShouldForceRestart() {
			s.stats.Restarts++
			s.backjumpTo(0)

			s.restartsSinceInpro++
			if s.opts.InprocessingPeriod >= 1 && s.restartsSinceInpro >= s.opts.InprocessingPeriod {
				s.restartsSinceInpro = 0
				s.db.Simplify()
				if !s.pre.Run() {
					s.unsat = true
					return Result{Status: StatusUnsat}
				}
			}
			if !s.withinBudget() {
				return Result{Status: StatusUnknown}
			}
			continue
		}

		if s.conflicts >= s.nextReduceDB {
			s.db.ReduceDB()
			s.nextReduceDB += int64(s.opts.IncReduceDB)
		}

		lit, conflicting, isAssumption, ok := s.nextDecision(assumptions)
		if !ok {
			model := s.snapshotModel()
			s.pre.ExtendModel(model)
			return Result{Status: StatusSat, Model: model}
		}
		if conflicting {
			return Result{Status: StatusUnsat, FinalCore: s.analyzeFinal(lit.Negate())}
		}

		s.trail.NewDecisionLevel()
		s.trail.Enqueue(lit, NoRef)
		if isAssumption {
			s.assumpLevelIdx = append(s.assumpLevelIdx, s.assumpIdx)
		}

		if !s.withinBudget() {
			return Result{Status: StatusUnknown}
		}
	}
}

func (s *Solver) snapshotModel() []LBool {
	model := make([]LBool, s.trail.NumVars())
	for v := 0; v < s.trail.NumVars(); v++ {
		model[v] = s.trail.VarValue(Var(v))
	}
	return model
}

// Stats reports a snapshot of the search counters accumulated so far.
func (s *Solver) Stats() Stats {
	return Stats{
		Variables:       s.trail.NumVars(),
		OriginalClauses: s.db.NumOriginal(),
		LearntClauses:   s.db.NumLearnt() + s.db.NumBinaryLearnt(),
		Conflicts:       s.conflicts,
		Restarts:        s.stats.Restarts,
	}
}
