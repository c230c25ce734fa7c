package mcm

import "testing"

func expectPanic(t *testing.T) {
	t.Helper()
	if recover() == nil {
		t.Fatal("expected panic")
	}
}

func TestCyclicBufferWraparound(t *testing.T) {
	const capacity = 8
	var b CyclicBuffer[int]
	b.Resize(capacity, 4)
	for i := 0; i < 2*capacity+5; i++ {
		b.Push(i)
	}
	if got := b.Pos(); got != 2*capacity+5 {
		t.Fatalf("Pos() = %d, want %d", got, 2*capacity+5)
	}
	// Positions [capacity, capacity+5) alias the most recent writes at the
	// same masked slots.
	for i := uint(capacity); i < capacity+5; i++ {
		if got, want := b.Get(i), int(i)+capacity; got != want {
			t.Errorf("Get(%d) = %d, want %d", i, got, want)
		}
	}
	// The last capacity writes survive intact.
	for pos := 2*capacity + 5 - capacity; pos < 2*capacity+5; pos++ {
		if got := b.Get(uint(pos)); got != pos {
			t.Errorf("Get(%d) = %d, want %d", pos, got, pos)
		}
	}
}

func TestCyclicBufferPushNSplit(t *testing.T) {
	const capacity = 8
	var bulk, single CyclicBuffer[byte]
	bulk.Resize(capacity, 0)
	single.Resize(capacity, 0)
	// Advance both cursors so the bulk write wraps past the end.
	for i := 0; i < 5; i++ {
		bulk.Push(byte(100 + i))
		single.Push(byte(100 + i))
	}
	elems := []byte{1, 2, 3, 4, 5, 6}
	bulk.PushN(elems)
	for _, v := range elems {
		single.Push(v)
	}
	if bulk.Pos() != single.Pos() {
		t.Fatalf("Pos() = %d, want %d", bulk.Pos(), single.Pos())
	}
	for i := uint(0); i < capacity; i++ {
		if bulk.Get(i) != single.Get(i) {
			t.Errorf("Get(%d) = %d, want %d", i, bulk.Get(i), single.Get(i))
		}
	}
}

func TestCyclicBufferBoundaryCopies(t *testing.T) {
	const capacity, padding = 8, 4
	var b CyclicBuffer[int]
	b.Resize(capacity, padding)
	for i := 0; i < capacity; i++ {
		b.Push(10 + i)
	}
	b.CopyStartToEndOfBuffer(3)
	for i := 0; i < 3; i++ {
		if got, want := b.Raw(capacity+i), b.Raw(i); got != want {
			t.Errorf("Raw(%d) = %d, want %d", capacity+i, got, want)
		}
	}
	b.CopyEndToStartOfBuffer(padding)
	for i := 0; i < padding; i++ {
		if got, want := b.Raw(i-padding), b.Raw(i-padding+capacity); got != want {
			t.Errorf("Raw(%d) = %d, want %d", i-padding, got, want)
		}
		if got := b.Raw(i - padding); got != 14+i {
			t.Errorf("Raw(%d) = %d, want %d", i-padding, got, 14+i)
		}
	}
}

func TestCyclicBufferFillAndRelease(t *testing.T) {
	var b CyclicBuffer[uint16]
	b.Resize(16, 2)
	b.Fill(0xABCD)
	for i := -2; i < 16+2; i++ {
		if got := b.Raw(i); got != 0xABCD {
			t.Fatalf("Raw(%d) = %#x after Fill, want 0xabcd", i, got)
		}
	}
	b.Release()
	if b.Size() != 0 {
		t.Errorf("Size() = %d after Release, want 0", b.Size())
	}
	if b.Mask() != ^uint(0) {
		t.Errorf("Mask() = %#x after Release, want all ones", b.Mask())
	}
	b.Release() // must be idempotent
	if b.Pos() != 0 {
		t.Errorf("Pos() = %d after second Release, want 0", b.Pos())
	}
}

func TestCyclicBufferPrevNext(t *testing.T) {
	var b CyclicBuffer[int]
	b.Resize(8, 0)
	if got := b.Prev(0, 1); got != 7 {
		t.Errorf("Prev(0, 1) = %d, want 7", got)
	}
	if got := b.Next(7, 1); got != 0 {
		t.Errorf("Next(7, 1) = %d, want 0", got)
	}
	if got := b.Prev(5, 13); got != 0 {
		t.Errorf("Prev(5, 13) = %d, want 0", got)
	}
	if got := b.Next(5, 13); got != 2 {
		t.Errorf("Next(5, 13) = %d, want 2", got)
	}
}

func TestCyclicBufferResizePanics(t *testing.T) {
	defer expectPanic(t)
	var b CyclicBuffer[int]
	b.Resize(12, 0)
}

func TestCyclicDequeInvariants(t *testing.T) {
	const capacity = 8
	var d CyclicDeque[int]
	d.Resize(capacity, 0)
	if !d.Empty() || d.Full() {
		t.Fatal("fresh deque must be empty and not full")
	}
	pushed, popped := 0, 0
	for _, op := range []struct{ push, pop int }{
		{3, 1}, {5, 4}, {4, 2}, {3, 8},
	} {
		for i := 0; i < op.push; i++ {
			d.PushBack(pushed)
			pushed++
		}
		d.PopFront(uint(op.pop))
		popped += op.pop
		if got, want := d.Len(), uint(pushed-popped); got != want {
			t.Fatalf("Len() = %d, want %d", got, want)
		}
		if d.Empty() != (d.Len() == 0) {
			t.Fatalf("Empty() = %v with Len() = %d", d.Empty(), d.Len())
		}
		if d.Full() != (d.Len() == capacity) {
			t.Fatalf("Full() = %v with Len() = %d", d.Full(), d.Len())
		}
		if d.Len() > 0 && d.Front() != popped {
			t.Fatalf("Front() = %d, want %d", d.Front(), popped)
		}
		for i := uint(0); i < d.Len(); i++ {
			if got, want := d.Get(i), popped+int(i); got != want {
				t.Fatalf("Get(%d) = %d, want %d", i, got, want)
			}
		}
	}
}

func TestCyclicDequePushN(t *testing.T) {
	var d CyclicDeque[byte]
	d.Resize(8, 0)
	d.PushN([]byte{1, 2, 3})
	d.PopFront(2)
	d.PushN([]byte{4, 5, 6, 7, 8, 9, 10})
	if !d.Full() {
		t.Fatal("deque should be full")
	}
	if d.Front() != 3 {
		t.Fatalf("Front() = %d, want 3", d.Front())
	}
	want := []byte{3, 4, 5, 6, 7, 8, 9, 10}
	for i := range want {
		if got := d.Get(uint(i)); got != want[i] {
			t.Errorf("Get(%d) = %d, want %d", i, got, want[i])
		}
	}
}

func TestCyclicDequeResizeResetsState(t *testing.T) {
	var d CyclicDeque[int]
	d.Resize(4, 0)
	d.PushBack(1)
	d.PushBack(2)
	d.PopFront(1)
	d.Resize(8, 0)
	if !d.Empty() || d.Len() != 0 {
		t.Fatalf("Len() = %d after Resize, want 0", d.Len())
	}
	if d.Pos() != 0 {
		t.Fatalf("Pos() = %d after Resize, want 0", d.Pos())
	}
	d.PushBack(7)
	if d.Front() != 7 {
		t.Fatalf("Front() = %d, want 7", d.Front())
	}
	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
}

func TestCyclicDequePushNOverflowPanics(t *testing.T) {
	defer expectPanic(t)
	var d CyclicDeque[byte]
	d.Resize(4, 0)
	d.PushN([]byte{1, 2, 3})
	d.PushN([]byte{4, 5})
}

func TestCyclicDequePushFullPanics(t *testing.T) {
	defer expectPanic(t)
	var d CyclicDeque[int]
	d.Resize(2, 0)
	d.PushBack(1)
	d.PushBack(2)
	d.PushBack(3)
}

func TestCyclicDequePopEmptyPanics(t *testing.T) {
	defer expectPanic(t)
	var d CyclicDeque[int]
	d.Resize(2, 0)
	d.PopFront(1)
}
