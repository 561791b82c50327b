package sat

import "sort"

// CNFProblem is the ingestion boundary named in spec §4.12: it normalizes
// raw DIMACS-style clauses (arbitrary literal order, possible duplicates,
// possible tautologies) before they ever reach the database/propagator.
// Grounded on the teacher's parsers.SATSolver ingestion path, generalized
// to a standalone value the parser and the solver both depend on instead
// of on each other.
type CNFProblem struct {
	maxVar  Var
	clauses [][]Lit
}

// NewCNFProblem returns an empty problem.
func NewCNFProblem() *CNFProblem {
	return &CNFProblem{}
}

// MaxVar reports one more than the highest variable index referenced so far,
// i.e. the number of variables the clauses need (0 if none).
func (p *CNFProblem) MaxVar() Var { return p.maxVar }

// Clauses returns the normalized clauses added so far. The slice and its
// elements must not be mutated by the caller.
func (p *CNFProblem) Clauses() [][]Lit { return p.clauses }

// AddClause normalizes and appends lits (spec §4.12): literals are sorted,
// duplicate literals are dropped, and a tautological clause (containing
// both l and ¬l) is discarded entirely rather than added. It reports
// whether the clause was kept.
func (p *CNFProblem) AddClause(lits []Lit) bool {
	for _, l := range lits {
		if v := l.Var() + 1; v > p.maxVar {
			p.maxVar = v
		}
	}

	norm, ok := normalizeClauseLits(lits)
	if !ok {
		return false // tautology: l and ¬l both present
	}
	p.clauses = append(p.clauses, norm)
	return true
}

// normalizeClauseLits sorts lits, drops duplicate literals, and reports
// false if the clause is a tautology (contains both l and ¬l) — shared by
// CNFProblem ingestion and Solver.AddClause's incremental path.
func normalizeClauseLits(lits []Lit) ([]Lit, bool) {
	norm := append([]Lit(nil), lits...)
	sort.Slice(norm, func(i, j int) bool { return norm[i] < norm[j] })

	out := norm[:0]
	for i, l := range norm {
		if i > 0 && l == norm[i-1] {
			continue // duplicate literal
		}
		if i > 0 && l == norm[i-1].Negate() {
			return nil, false
		}
		out = append(out, l)
	}
	return out, true
}

// NumClauses reports how many clauses survived normalization.
func (p *CNFProblem) NumClauses() int { return len(p.clauses) }
