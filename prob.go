package mcm

// probShift defines the number of bits of a probability value.
const probShift = 12

// probMoveBits defines the adaption rate of probability updates.
const probMoveBits = 9

// probInit defines 0.5 as initial value for bit models.
const probInit = 1 << (probShift - 1)

// bitModel is a stationary, adaptive estimate of P(bit=1) in fixed point.
// The estimate can decay to a literal zero, so callers must clamp the
// returned probability to at least 1 before handing it to the range coder.
type bitModel struct {
	p int32
}

func (m *bitModel) init() {
	m.p = probInit
}

func (m *bitModel) prob() uint32 {
	return uint32(m.p)
}

// update moves the estimate toward the observed bit.
func (m *bitModel) update(bit uint32) {
	m.p += (int32(bit<<probShift) - m.p) >> probMoveBits
}
