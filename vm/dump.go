package vm

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

// heapSnapshot is a shallow, cycle-safe projection of one heap object used
// only for DumpHeap — spew.Dump already follows pointer cycles safely
// (it tracks visited addresses), but walking Object directly would also
// dump every unexported field; this keeps the dump readable.
type heapSnapshot struct {
	Kind  string
	Value int32          `json:",omitempty"`
	Head  *heapSnapshot  `json:",omitempty"`
	Tail  *heapSnapshot  `json:",omitempty"`
}

func snapshot(obj *Object, seen map[*Object]*heapSnapshot) *heapSnapshot {
	if obj == nil {
		return nil
	}
	if s, ok := seen[obj]; ok {
		return s
	}
	s := &heapSnapshot{Kind: obj.kind.String()}
	seen[obj] = s
	if obj.kind == KindInteger {
		s.Value = obj.value
		return s
	}
	s.Head = snapshot(obj.head, seen)
	s.Tail = snapshot(obj.tail, seen)
	return s
}

// DumpHeap renders the VM's live stack and all-objects list to w for
// debugging — the cmd/vm -debug flag exists entirely to call this before
// bailing out on a fatal error.
func (v *VM) DumpHeap(w io.Writer) {
	seen := make(map[*Object]*heapSnapshot)
	stack := make([]*heapSnapshot, v.sp)
	for i := 0; i < v.sp; i++ {
		stack[i] = snapshot(v.stack[i], seen)
	}
	all := make([]*heapSnapshot, 0, v.numObjects)
	for obj := v.first; obj != nil; obj = obj.next {
		all = append(all, snapshot(obj, seen))
	}
	cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	io.WriteString(w, "stack:\n")
	cs.Fdump(w, stack)
	io.WriteString(w, "heap:\n")
	cs.Fdump(w, all)
}
