package mcm

// CyclicBuffer is fixed-capacity ring storage with a power-of-two size,
// masked wraparound addressing and a monotonically increasing write cursor.
// The storage carries padding elements on both sides of the addressable
// window so that windowed algorithms can read or write a short run past
// either logical boundary without bounds checks; the boundary copy helpers
// keep the padding regions coherent across the wrap point.
//
// A CyclicBuffer is single-owner; concurrent use requires external locking.
type CyclicBuffer[T any] struct {
	storage []T
	data    []T
	padding uint
	pos     uint
	mask    uint
}

// Resize reallocates the buffer for size elements plus padding on both
// sides and resets the write cursor. It panics unless size is a power of
// two.
func (b *CyclicBuffer[T]) Resize(size, padding uint) {
	if size == 0 || size&(size-1) != 0 {
		panic("mcm: cyclic buffer size must be a power of two")
	}
	b.mask = size - 1
	b.padding = padding
	b.storage = make([]T, size+2*padding)
	b.data = b.storage[padding:]
	b.Restart()
}

// Restart resets the write cursor without touching the stored elements.
func (b *CyclicBuffer[T]) Restart() {
	b.pos = 0
}

// Push stores v at the write cursor and advances it.
func (b *CyclicBuffer[T]) Push(v T) {
	b.data[b.pos&b.mask] = v
	b.pos++
}

// PushN bulk-stores elems starting at the write cursor, splitting the copy
// in two when the write wraps past the end of the buffer, and advances the
// cursor by len(elems).
func (b *CyclicBuffer[T]) PushN(elems []T) {
	maskedPos := b.pos & b.mask
	n := uint(len(elems))
	cur := min(1+b.mask-maskedPos, n)
	copy(b.data[maskedPos:], elems[:cur])
	b.pos += n
	if n > cur {
		copy(b.data, elems[cur:])
	}
}

// Get returns the element at the masked offset.
func (b *CyclicBuffer[T]) Get(offset uint) T {
	return b.data[offset&b.mask]
}

// Set stores v at the masked offset.
func (b *CyclicBuffer[T]) Set(offset uint, v T) {
	b.data[offset&b.mask] = v
}

// Raw returns the element at offset without masking. The offset may range
// over [-padding, size+padding); only offsets already known to be in range
// belong here, such as right after a boundary copy.
func (b *CyclicBuffer[T]) Raw(offset int) T {
	return b.storage[int(b.padding)+offset]
}

// Pos returns the write cursor.
func (b *CyclicBuffer[T]) Pos() uint {
	return b.pos
}

// Mask returns the wraparound mask.
func (b *CyclicBuffer[T]) Mask() uint {
	return b.mask
}

// Size returns the addressable window size.
func (b *CyclicBuffer[T]) Size() uint {
	return b.mask + 1
}

// Prev steps a cursor back by count positions. Relies on unsigned underflow;
// works since the size is a power of two.
func (b *CyclicBuffer[T]) Prev(pos, count uint) uint {
	return (pos - count) & b.mask
}

// Next steps a cursor forward by count positions.
func (b *CyclicBuffer[T]) Next(pos, count uint) uint {
	return (pos + count) & b.mask
}

// Fill overwrites the entire physical storage, padding included, with v.
// Used to reset state deterministically.
func (b *CyclicBuffer[T]) Fill(v T) {
	for i := range b.storage {
		b.storage[i] = v
	}
}

// CopyStartToEndOfBuffer duplicates the first count elements of the window
// into the padding past its end, so an unmasked read spanning the wrap
// point sees contiguous data. Can be used for LZ77.
func (b *CyclicBuffer[T]) CopyStartToEndOfBuffer(count uint) {
	size := b.Size()
	for i := uint(0); i < count; i++ {
		b.data[size+i] = b.data[i]
	}
}

// CopyEndToStartOfBuffer duplicates the trailing elements of the storage
// into the padding before the window start. Can be used for LZ77.
func (b *CyclicBuffer[T]) CopyEndToStartOfBuffer(count uint) {
	size := b.Size()
	for i := uint(0); i < count; i++ {
		b.storage[i] = b.storage[i+size]
	}
}

// Release drops the storage and resets the buffer to a well-defined empty
// state. The mask is set to all ones and must never be used to address
// elements. Release is idempotent.
func (b *CyclicBuffer[T]) Release() {
	b.pos = 0
	b.padding = 0
	b.mask = ^uint(0)
	b.storage = nil
	b.data = nil
}

// CyclicDeque is a CyclicBuffer with an explicit front cursor and logical
// size, so elements can be popped from the front independently of the write
// cursor. Indexed access is relative to the front cursor.
type CyclicDeque[T any] struct {
	CyclicBuffer[T]
	size     uint
	frontPos uint
}

// Resize reallocates the deque and resets the logical size and front
// cursor along with the write cursor.
func (d *CyclicDeque[T]) Resize(size, padding uint) {
	d.CyclicBuffer.Resize(size, padding)
	d.size = 0
	d.frontPos = 0
}

// Capacity returns the maximum number of elements.
func (d *CyclicDeque[T]) Capacity() uint {
	return d.mask + 1
}

// Len returns the logical element count.
func (d *CyclicDeque[T]) Len() uint {
	return d.size
}

// PushBack appends v. It panics if the deque is full.
func (d *CyclicDeque[T]) PushBack(v T) {
	if d.size >= d.Capacity() {
		panic("mcm: push on full cyclic deque")
	}
	d.size++
	d.Push(v)
}

// PushN bulk-appends elems. It panics if the elements do not fit.
func (d *CyclicDeque[T]) PushN(elems []T) {
	if d.size+uint(len(elems)) > d.Capacity() {
		panic("mcm: push count exceeds cyclic deque capacity")
	}
	d.CyclicBuffer.PushN(elems)
	d.size += uint(len(elems))
}

// PopFront drops count elements from the front. It panics if count exceeds
// the logical size.
func (d *CyclicDeque[T]) PopFront(count uint) {
	if count > d.size {
		panic("mcm: pop count exceeds cyclic deque size")
	}
	d.frontPos += count
	d.size -= count
}

// Front returns the element at the front cursor. Undefined if empty.
func (d *CyclicDeque[T]) Front() T {
	return d.data[d.frontPos&d.mask]
}

// Get returns the element at offset relative to the front cursor.
func (d *CyclicDeque[T]) Get(offset uint) T {
	return d.data[(d.frontPos+offset)&d.mask]
}

// Full reports whether the logical size reached capacity.
func (d *CyclicDeque[T]) Full() bool {
	return d.size == d.Capacity()
}

// Empty reports whether the deque holds no elements.
func (d *CyclicDeque[T]) Empty() bool {
	return d.size == 0
}
