package sat

import (
	"bufio"
	"fmt"
	"io"
)

// ProofSink receives every clause addition and deletion event so an external
// refutation checker can replay the derivation (spec §4.11). The core never
// validates a proof itself — DRAT checking is explicitly out of scope
// (spec §1) — it only ever produces the trace.
type ProofSink interface {
	Added(lits []Lit)
	Removed(lits []Lit)
	Finalize()
}

// noopProofSink is the default sink: it discards every event. Grounded on
// the Candy original's DRATChecker.h shape, reduced to its no-op mode since
// checking is out of scope here.
type noopProofSink struct{}

func (noopProofSink) Added([]Lit)   {}
func (noopProofSink) Removed([]Lit) {}
func (noopProofSink) Finalize()     {}

// DRATWriter writes a DRAT-like line-based proof trace (spec §6's "Proof
// output"): "<lits> 0" for additions, "d <lits> 0" for deletions, blank line
// on Finalize. Literal signs follow DIMACS convention (1-indexed, negative
// for the negative literal).
type DRATWriter struct {
	w   *bufio.Writer
	err error
}

// NewDRATWriter wraps w in a buffered DRAT writer.
func NewDRATWriter(w io.Writer) *DRATWriter {
	return &DRATWriter{w: bufio.NewWriter(w)}
}

func (d *DRATWriter) writeLine(prefix string, lits []Lit) {
	if d.err != nil {
		return
	}
	if prefix != "" {
		if _, err := d.w.WriteString(prefix); err != nil {
			d.err = err
			return
		}
	}
	for _, l := range lits {
		n := int(l.Var()) + 1
		if !l.IsPositive() {
			n = -n
		}
		if _, err := fmt.Fprintf(d.w, "%d ", n); err != nil {
			d.err = err
			return
		}
	}
	if _, err := d.w.WriteString("0\n"); err != nil {
		d.err = err
	}
}

func (d *DRATWriter) Added(lits []Lit) { d.writeLine("", lits) }

func (d *DRATWriter) Removed(lits []Lit) { d.writeLine("d ", lits) }

// Finalize flushes the buffered writer and terminates the proof with a
// blank line, as spec §6 requires.
func (d *DRATWriter) Finalize() {
	if d.err == nil {
		d.w.WriteString("\n")
	}
	d.w.Flush()
}

// Err returns the first write error encountered, if any.
func (d *DRATWriter) Err() error { return d.err }
