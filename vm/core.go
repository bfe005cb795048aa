package vm

import "github.com/pkg/errors"

// Depth returns the number of values currently on the operand stack.
func (v *VM) Depth() int { return v.sp }

// push places obj on top of the operand stack. It is the sole GC root set,
// so nothing pushed here can be collected until it's popped or overwritten.
func (v *VM) push(obj *Object) error {
	if v.sp >= StackMax {
		return errors.Errorf("stack overflow: exceeded %d slots", StackMax)
	}
	v.stack[v.sp] = obj
	v.sp++
	return nil
}

// pop removes and returns the top of the operand stack.
func (v *VM) pop() (*Object, error) {
	if v.sp == 0 {
		return nil, errors.New("stack underflow")
	}
	v.sp--
	obj := v.stack[v.sp]
	v.stack[v.sp] = nil
	return obj, nil
}

// peek returns the top of the operand stack without removing it.
func (v *VM) peek() (*Object, error) {
	if v.sp == 0 {
		return nil, errors.New("stack underflow")
	}
	return v.stack[v.sp-1], nil
}

// PushInt allocates an integer object and pushes it.
func (v *VM) PushInt(n int32) error {
	obj := v.newObject(KindInteger)
	obj.value = n
	return v.push(obj)
}

// Pair pops b then a (b was on top), allocates Pair{head: a, tail: b} and
// pushes it.
func (v *VM) Pair() error {
	b, err := v.pop()
	if err != nil {
		return errors.Wrap(err, "pair")
	}
	a, err := v.pop()
	if err != nil {
		return errors.Wrap(err, "pair")
	}
	obj := v.newObject(KindPair)
	obj.head, obj.tail = a, b
	return v.push(obj)
}

// Swap exchanges the top two values of the operand stack.
func (v *VM) Swap() error {
	if v.sp < 2 {
		return errors.New("stack underflow: swap needs two values")
	}
	v.stack[v.sp-1], v.stack[v.sp-2] = v.stack[v.sp-2], v.stack[v.sp-1]
	return nil
}

// Pop discards the top of the operand stack.
func (v *VM) Pop() error {
	_, err := v.pop()
	return err
}
