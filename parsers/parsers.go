// Package parsers bridges DIMACS-format files to the sat package: it
// builds a sat.CNFProblem from a CNF file and loads it straight into a
// live solver.
package parsers

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"
	"github.com/rhartert/gosat/sat"
)

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses a DIMACS CNF file into a CNFProblem (spec §4.12's
// ingestion boundary). The header's declared variable and clause counts are
// not used: the actual variable count is driven by the literals the clauses
// reference, so header/clause mismatches are not errors.
func LoadDIMACS(filename string, gzipped bool) (*sat.CNFProblem, error) {
	r, err := reader(filename, gzipped)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer r.Close()

	problem := sat.NewCNFProblem()
	b := &builder{problem: problem}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, &sat.ParseError{Reason: err.Error()}
	}
	return problem, nil
}

// LoadInto parses filename and loads every normalized clause into solver,
// registering variables as needed. It reports false if an added clause
// makes the problem immediately unsatisfiable.
func LoadInto(filename string, gzipped bool, solver *sat.Solver) (bool, error) {
	problem, err := LoadDIMACS(filename, gzipped)
	if err != nil {
		return false, err
	}
	for int(problem.MaxVar()) > solver.NumVars() {
		solver.NewVar(true, true)
	}
	for _, c := range problem.Clauses() {
		if !solver.AddClause(c) {
			return false, nil
		}
	}
	return true, nil
}

// builder implements dimacs.Builder by normalizing every clause straight
// into a CNFProblem.
type builder struct {
	problem *sat.CNFProblem
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Lit, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLit(sat.Var(-l - 1))
		} else {
			clause[i] = sat.PositiveLit(sat.Var(l - 1))
		}
	}
	b.problem.AddClause(clause)
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}
