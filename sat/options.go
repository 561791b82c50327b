package sat

import "time"

// Options gathers every tunable named in spec §9's "global option
// variables" table into a single configuration record, replacing the
// Candy original's global option variables. Grounded on the teacher's
// sat.Options/DefaultOptions, expanded with the restart/reduceDB/
// preprocessing knobs the teacher's distilled Options does not carry.
type Options struct {
	// Variable activity (VSIDS).
	VarDecay    float64 // initial var_decay
	MaxVarDecay float64 // ceiling var_decay ramps toward
	PhaseSaving bool

	// Clause activity.
	ClauseDecay float64

	// Restart controller (spec §4.8).
	RestartK       float64 // force-restart factor, default ~0.8
	RestartR       float64 // block-restart factor, default ~1.4
	LBDQueueSize   int     // default 50
	TrailQueueSize int     // default 5000

	// reduceDB (spec §4.3).
	FirstReduceDB  int // conflicts before the first reduceDB
	IncReduceDB    int // growth of the reduceDB threshold after each pass
	PersistentLBD  int // LBD at/below which a learnt clause is never reduced
	LBDFrozen      int // a new learnt clause with LBD below this is kept by the next pass

	// Minimization (spec §4.6).
	MinimizeBySize bool // self-subsumption pass
	MinimizeByLBD  bool // binary-resolution shortening pass

	// Preprocessing / inprocessing (spec §4.10/§4.9).
	VEEnabled          bool
	VEGrow             int // max growth in resolvent count, default 0
	VEClauseLim        int // max resolvent size, default 20
	SubsumptionLimit   int // clauses this long or longer are not checked for subsumption; 0 disables
	InprocessingPeriod int // re-run the preprocessor every N restarts; 0 disables

	// Budgets.
	MaxConflicts int64
	Timeout      time.Duration

	// Verbose enables periodic search-progress lines on stdout (spec §9's
	// ambient logging, grounded on the teacher's printSearchStats).
	Verbose bool
}

// DefaultOptions mirrors the Glucose-style defaults named throughout
// spec §4.
var DefaultOptions = Options{
	VarDecay:    0.8,
	MaxVarDecay: 0.95,
	PhaseSaving: true,

	ClauseDecay: 0.999,

	RestartK:       0.8,
	RestartR:       1.4,
	LBDQueueSize:   50,
	TrailQueueSize: 5000,

	FirstReduceDB: 2000,
	IncReduceDB:   300,
	PersistentLBD: 3,
	LBDFrozen:     30,

	MinimizeBySize: true,
	MinimizeByLBD:  true,

	VEEnabled:          true,
	VEGrow:             0,
	VEClauseLim:        20,
	SubsumptionLimit:   1000,
	InprocessingPeriod: 0,

	MaxConflicts: -1,
	Timeout:      -1,
}
