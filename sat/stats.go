package sat

import (
	"fmt"
	"time"
)

// Stats is a snapshot of search progress counters, grounded on the
// teacher's Solver.TotalConflicts/TotalRestarts/TotalIterations fields.
type Stats struct {
	Variables       int
	OriginalClauses int
	LearntClauses   int
	Conflicts       int64
	Restarts        int64
}

func (s *Solver) printSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Println("c            time      conflicts       restarts        learnts    avg lbd")
}

func (s *Solver) printSearchStats() {
	fmt.Printf(
		"c %14.3fs %14d %14d %14d %10.2f\n",
		time.Since(s.startTime).Seconds(),
		s.conflicts,
		s.stats.Restarts,
		s.db.NumLearnt()+s.db.NumBinaryLearnt(),
		s.restarts.recentLBD.Val())
}
