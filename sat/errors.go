package sat

import "errors"

// Error kinds produced by the core (spec §7). The propagator and analyzer
// never surface anything but the distinguished ClauseRef conflict value;
// most of these sentinels are for the boundary operations named in spec §6.
// ErrResourceExhaustion is the exception: it is panicked from deep inside
// the core allocator, since spec §7 classifies it as fatal and expects it
// to bubble straight out of Solve rather than be threaded through every
// call in between.
var (
	// ErrImmediateUnsat is returned by AddClauseChecked when the clause
	// conflicts at level 0 (AddClause itself reports false). The solver enters a sticky unsatisfiable state: every
	// subsequent Solve call returns Unsat without doing any work.
	ErrImmediateUnsat = errors.New("sat: clause addition makes the problem immediately unsatisfiable")

	// ErrUnsupportedDuringSolve is returned by AddClauseChecked when called
	// while the solver is not at the root decision level (the core only
	// supports adding clauses at quiescence).
	ErrUnsupportedDuringSolve = errors.New("sat: cannot add clauses or variables during an active solve")

	// ErrResourceExhaustion is the value ClauseAllocator.Allocate panics with
	// once it runs out of ClauseRef slots to hand back (spec §7's
	// ResourceExhaustion: fatal, bubbles straight out of Solve rather than
	// being recovered from).
	ErrResourceExhaustion = errors.New("sat: clause allocator exhausted its addressable slot range")
)

// ParseError reports a malformed DIMACS input (the boundary, not the core):
// line, column, and reason, per spec §7.
type ParseError struct {
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return "dimacs: parse error at line " + itoa(e.Line) + ", column " + itoa(e.Column) + ": " + e.Reason
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
