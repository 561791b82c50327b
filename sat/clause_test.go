package sat

import "testing"

func lits(vs ...int) []Lit {
	out := make([]Lit, len(vs))
	for i, v := range vs {
		if v < 0 {
			out[i] = NegativeLit(Var(-v - 1))
		} else {
			out[i] = PositiveLit(Var(v - 1))
		}
	}
	return out
}

func TestClauseSubsumes(t *testing.T) {
	tests := []struct {
		name       string
		c, other   []Lit
		wantResult subsumeResult
		wantLit    Lit
	}{
		{
			name:       "subset subsumes",
			c:          lits(1, 2),
			other:      lits(1, 2, 3),
			wantResult: subsumeYes,
		},
		{
			name:       "disjoint does not subsume",
			c:          lits(1, 2),
			other:      lits(3, 4),
			wantResult: subsumeNo,
		},
		{
			name:       "one flipped literal strengthens",
			c:          lits(1, 2),
			other:      lits(1, -2, 3),
			wantResult: subsumeStrengthen,
			wantLit:    lits(1, 2)[1],
		},
		{
			name:       "two flipped literals do not subsume",
			c:          lits(1, 2),
			other:      lits(-1, -2, 3),
			wantResult: subsumeNo,
		},
		{
			name:       "larger clause cannot subsume smaller",
			c:          lits(1, 2, 3),
			other:      lits(1, 2),
			wantResult: subsumeNo,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClauseRecord(tc.c, false)
			other := newClauseRecord(tc.other, false)

			gotResult, gotLit := c.subsumes(other)
			if gotResult != tc.wantResult {
				t.Errorf("subsumes() result = %v, want %v", gotResult, tc.wantResult)
			}
			if tc.wantResult == subsumeStrengthen && gotLit != tc.wantLit {
				t.Errorf("subsumes() lit = %v, want %v", gotLit, tc.wantLit)
			}
		})
	}
}

func TestClauseStrengthen(t *testing.T) {
	c := newClauseRecord(lits(1, 2, 3), false)
	c.strengthen(lits(1, 2, 3)[1]) // remove literal for var 2

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	for _, l := range c.Lits() {
		if l.Var() == Var(1) {
			t.Errorf("strengthen did not remove literal for var 2: %v", c.Lits())
		}
	}
}

func TestClauseIsLearntAndPersistent(t *testing.T) {
	orig := newClauseRecord(lits(1, 2), false)
	if orig.IsLearnt() {
		t.Errorf("input clause should not report IsLearnt")
	}
	if !orig.IsPersistent() {
		t.Errorf("input clause should report IsPersistent (lbd == 0)")
	}

	learnt := newClauseRecord(lits(1, 2), true)
	learnt.setLBD(4)
	if !learnt.IsLearnt() {
		t.Errorf("learnt clause with lbd=4 should report IsLearnt")
	}
	if learnt.IsPersistent() {
		t.Errorf("learnt clause with lbd=4 should not report IsPersistent")
	}

	learnt.markDeleted()
	if !learnt.IsDeleted() {
		t.Errorf("markDeleted should set IsDeleted")
	}
}

func TestResetSet(t *testing.T) {
	rs := &resetSet{}
	for i := 0; i < 4; i++ {
		rs.Grow()
	}

	rs.Clear()
	rs.Add(2)
	if !rs.Contains(2) {
		t.Errorf("Contains(2) = false, want true after Add(2)")
	}
	if rs.Contains(1) {
		t.Errorf("Contains(1) = true, want false")
	}

	rs.Clear()
	if rs.Contains(2) {
		t.Errorf("Contains(2) = true after Clear(), want false")
	}
}
