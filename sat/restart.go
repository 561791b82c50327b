package sat

// restartController implements the Glucose-style dynamic restart and block
// predicates of spec §4.8: a short ring buffer of recent LBDs compared
// against the lifetime LBD average decides when to force a restart, and a
// longer ring buffer of trail sizes decides when to suppress ("block") the
// next one because the search is still making good progress.
//
// Grounded on the teacher's sat/avg.go (EMA) for a smoothed display metric
// and internal/sat/queue.go (ring buffer) for the two fixed-size windows.
type restartController struct {
	lbdQueue *ring[int]
	lbdSum   int64

	trailQueue *ring[int]
	trailSum   int64

	sumLBD        int64 // running sum of LBD over every conflict ever seen
	conflictCount int64

	k float64 // force-restart factor, spec default ~0.8
	r float64 // block-restart factor, spec default ~1.4

	// recentLBD is an exponential moving average of conflict LBDs, used only
	// for progress reporting (stats.go), not for the restart decision.
	recentLBD EMA
}

func newRestartController(lbdQueueSize, trailQueueSize int, k, r float64) *restartController {
	return &restartController{
		lbdQueue:   newRing[int](lbdQueueSize),
		trailQueue: newRing[int](trailQueueSize),
		k:          k,
		r:          r,
		recentLBD:  NewEMA(0.95),
	}
}

// OnConflict records one conflict's LBD and the trail size at the time of
// the conflict.
func (rc *restartController) OnConflict(lbd int, trailSize int) {
	rc.conflictCount++
	rc.sumLBD += int64(lbd)

	if evicted, ok := rc.lbdQueue.Push(lbd); ok {
		rc.lbdSum -= int64(evicted)
	}
	rc.lbdSum += int64(lbd)

	if evicted, ok := rc.trailQueue.Push(trailSize); ok {
		rc.trailSum -= int64(evicted)
	}
	rc.trailSum += int64(trailSize)

	rc.recentLBD.Add(float64(lbd))
}

// ShouldForceRestart implements spec §4.8's force predicate:
// lbd_queue.full() ∧ K · avg(lbd_queue) > sum_lbd / conflict_count.
func (rc *restartController) ShouldForceRestart() bool {
	if !rc.lbdQueue.Full() || rc.conflictCount == 0 {
		return false
	}
	avgRecent := float64(rc.lbdSum) / float64(rc.lbdQueue.Len())
	avgLifetime := float64(rc.sumLBD) / float64(rc.conflictCount)
	return rc.k*avgRecent > avgLifetime
}

// ShouldBlockRestart implements spec §4.8's block predicate:
// conflict_count > 10_000 ∧ lbd_queue.valid ∧ trail.len() > R · avg(trail_queue).
func (rc *restartController) ShouldBlockRestart(currentTrailLen int) bool {
	if rc.conflictCount <= 10_000 {
		return false
	}
	if !rc.lbdQueue.Full() {
		return false
	}
	if !rc.trailQueue.Full() {
		return false
	}
	avgTrail := float64(rc.trailSum) / float64(rc.trailQueue.Len())
	return float64(currentTrailLen) > rc.r*avgTrail
}

// OnBlock clears the LBD queue to delay the next force-restart check.
func (rc *restartController) OnBlock() {
	rc.lbdQueue.Clear()
	rc.lbdSum = 0
}
