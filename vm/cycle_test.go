package vm

import "testing"

// TestGCCollectsPairCycle builds a genuine cycle (a.tail = b, b.tail = a)
// by reaching past the public API into the unexported head/tail fields —
// Pair only ever links a freshly popped pair of values, so there is no way
// to point an already-allocated pair backward at another one without
// package-internal access. It exists to verify the one invariant the
// design notes call out as requiring tracing rather than refcounting GC:
// a cycle with no external root is still collected, even though each of
// its pairs still references the other. Both roots are popped before the
// collection, so mark() never visits the cycle here; sweep reclaims it.
func TestGCCollectsPairCycle(t *testing.T) {
	v, err := New()
	if err != nil {
		t.Fatal(err)
	}

	a := v.newObject(KindPair)
	b := v.newObject(KindPair)
	a.head, a.tail = nil, b
	b.head, b.tail = nil, a

	if err := v.push(a); err != nil {
		t.Fatal(err)
	}
	if err := v.push(b); err != nil {
		t.Fatal(err)
	}
	if _, err := v.pop(); err != nil {
		t.Fatal(err)
	}
	if _, err := v.pop(); err != nil {
		t.Fatal(err)
	}

	v.GC()
	if got := v.NumObjects(); got != 0 {
		t.Fatalf("NumObjects() = %d, want 0 (cycle should be collected)", got)
	}
	v.Close()
}
