package sat

import (
	"math/bits"
	"sync"
)

// Number of literal-slice pools. Pool i holds slices with capacity in
// [2^(i+1), 2^(i+2)-1]; the last pool holds anything larger. Grounded on the
// teacher's internal/sat/clauses_alloc.go sizing scheme.
const litPoolCount = 6

const litPoolLastCapacity = 1 << litPoolCount

var litPools [litPoolCount]sync.Pool

func init() {
	for i := 0; i < litPoolCount; i++ {
		capa := 1 << (i + 1)
		litPools[i].New = func() any {
			s := make([]Lit, 0, capa)
			return &s
		}
	}
}

func litPoolID(capa int) int {
	if capa >= litPoolLastCapacity {
		return litPoolCount - 1
	}
	id := bits.Len(uint(capa)) - 2
	if id < 0 {
		id = 0
	}
	return id
}

// allocLitSlice returns a zero-length slice with at least the requested
// capacity, drawn from the appropriately sized pool.
func allocLitSlice(capa int) []Lit {
	ref := litPools[litPoolID(capa)].Get().(*[]Lit)
	s := (*ref)[:0]
	if cap(s) < capa {
		s = make([]Lit, 0, capa)
	}
	*ref = s
	return s
}

// freeLitSlice returns a literal slice to the pool for reuse by a future
// clause allocation.
func freeLitSlice(s []Lit) {
	if s == nil {
		return
	}
	s = s[:0]
	litPools[litPoolID(cap(s))].Put(&s)
}
