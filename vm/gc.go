package vm

// initialGCThreshold is the object count at which the first collection is
// triggered.
const initialGCThreshold = 100

// newObject runs a collection first if the heap has reached its current
// threshold, then allocates, prepends to the all-objects list and bumps
// NumObjects. This is the only allocation path in the VM: PushInt and Pair
// both route through it.
func (v *VM) newObject(kind Kind) *Object {
	if v.numObjects == v.maxObjects {
		v.GC()
	}
	obj := &Object{kind: kind, next: v.first}
	v.first = obj
	v.numObjects++
	return obj
}

// mark uses an explicit work-list instead of recursive marking so
// that long pair chains can't blow the Go call stack — Go gives no
// tail-call guarantee, unlike the recursive mark() of the reference
// implementation.
func (v *VM) mark(roots []*Object) {
	work := append([]*Object(nil), roots...)
	for len(work) > 0 {
		obj := work[len(work)-1]
		work = work[:len(work)-1]
		if obj == nil || obj.marked {
			continue
		}
		obj.marked = true
		if obj.kind == KindPair {
			work = append(work, obj.head, obj.tail)
		}
	}
}

// sweep walks the all-objects list with a pointer-to-pointer cursor,
// unlinking and discarding anything left unmarked, clearing the mark bit
// on everything that survives.
func (v *VM) sweep() {
	objp := &v.first
	for *objp != nil {
		obj := *objp
		if !obj.marked {
			*objp = obj.next
			v.numObjects--
		} else {
			obj.marked = false
			objp = &obj.next
		}
	}
}

// GC runs one full mark-and-sweep cycle: every object reachable from the
// operand stack survives, everything else is freed. The threshold for the
// next automatic collection is set to twice the number of surviving
// objects, giving amortized linear allocation cost.
func (v *VM) GC() {
	v.mark(v.stack[:v.sp])
	v.sweep()
	v.maxObjects = v.numObjects * 2
}

// NumObjects returns the number of live heap objects, i.e. the current
// length of the all-objects list.
func (v *VM) NumObjects() int {
	return v.numObjects
}
