package sat

import "math"

// ClauseRef is an opaque, stable reference to a clause vended by a
// ClauseAllocator. It remains valid until an explicit Compact call (spec
// §4.1). Internally it is a slot index rather than a raw pointer: Go's GC
// already gives clause memory cache-unfriendly-but-safe lifetime management,
// so the allocator's job is reduced to (a) pooling the literal backing
// storage (alloc_pool.go) and (b) giving external holders (watch lists,
// trail reasons, database lists) a small stable handle they can store by
// value instead of a *Clause, so that Compact can renumber live clauses and
// shrink the slot table without invalidating Go pointers anywhere.
type ClauseRef int32

// NoRef is the ClauseRef value (-1) used to mean "no reason clause".
const NoRef ClauseRef = -1

// PtrPatcher is implemented by any holder of ClauseRef values that must be
// notified when Compact renumbers live clauses.
type PtrPatcher interface {
	PatchRef(old, new ClauseRef)
}

// ClauseAllocator is a bump arena for clauses: it owns every *Clause it
// vends and is the only component allowed to free clause memory. Grounded
// on the teacher's pool-based clause allocation (internal/sat/clause_alloc.go,
// internal/sat/clause_allocpool.go) generalized into the stable-reference
// contract of spec §4.1.
type ClauseAllocator struct {
	slots []*Clause
	free  []ClauseRef
}

// NewClauseAllocator returns an empty allocator.
func NewClauseAllocator() *ClauseAllocator {
	return &ClauseAllocator{}
}

// Allocate reserves space for a clause with the given literals and returns a
// stable reference to it.
func (a *ClauseAllocator) Allocate(lits []Lit, learnt bool) ClauseRef {
	c := newClauseRecord(lits, learnt)
	if n := len(a.free); n > 0 {
		ref := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[ref] = c
		return ref
	}
	if len(a.slots) >= math.MaxInt32 {
		// ClauseRef is an int32 slot index (see the type doc above): once the
		// slot table fills the addressable range there is no reference left
		// to hand back. Spec §7 classifies this as ResourceExhaustion, fatal
		// and expected to bubble straight out of Solve rather than be
		// recovered from.
		panic(ErrResourceExhaustion)
	}
	a.slots = append(a.slots, c)
	return ClauseRef(len(a.slots) - 1)
}

// Deallocate marks the slot as reclaimable. Clause memory is not actually
// recycled until the next Compact; the slot itself is reused immediately by
// a subsequent Allocate.
func (a *ClauseAllocator) Deallocate(ref ClauseRef) {
	c := a.slots[ref]
	if c == nil {
		return // already freed
	}
	c.markDeleted()
	a.slots[ref] = nil
	a.free = append(a.free, ref)
}

// Clause dereferences a ClauseRef. The returned pointer is only valid until
// the next Compact.
func (a *ClauseAllocator) Clause(ref ClauseRef) *Clause {
	return a.slots[ref]
}

// Len returns the number of live slots (tombstoned slots included until the
// next Compact).
func (a *ClauseAllocator) Len() int {
	return len(a.slots)
}

// Compact repacks live clauses to the front of the slot table, invoking
// every patcher for each renumbered reference so external holders (watch
// lists, trail reasons, database lists) can rewrite their stored references.
func (a *ClauseAllocator) Compact(patchers []PtrPatcher) {
	newSlots := make([]*Clause, 0, len(a.slots))
	for i, c := range a.slots {
		if c == nil {
			continue
		}
		oldRef := ClauseRef(i)
		newRef := ClauseRef(len(newSlots))
		newSlots = append(newSlots, c)
		if oldRef != newRef {
			for _, p := range patchers {
				p.PatchRef(oldRef, newRef)
			}
		}
	}
	a.slots = newSlots
	a.free = a.free[:0]
}
