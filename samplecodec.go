package mcm

// ctxBits is the number of channel-agnostic context bits of the sample
// model. The model arena holds 2 << (nonNoiseBits + ctxBits) nodes.
const ctxBits = 2

// encodeSample codes a 16-bit residual as nonNoiseBits model-driven bits
// followed by noiseBits raw bits. The modeled bits walk an implicit binary
// tree of bit models stored in a flat arena, selected by channel and the
// accumulated bit prefix. The decoder must walk the identical node sequence,
// so any change here has a mirror in decodeSample.
func (z *Wav16) encodeSample(e *rangeEncoder, context, channel uint32, residual uint16) error {
	code := uint32(residual) << 16
	node := uint32(1)
	base := (context*2 + channel) << z.nonNoiseBits
	if base >= uint32(len(z.models)) {
		panic("mcm: context index out of range")
	}
	for i := uint(0); i < z.nonNoiseBits; i++ {
		m := &z.models[base+node]
		p := m.prob()
		if p == 0 {
			p = 1
		}
		bit := code >> 31
		code <<= 1
		if err := e.EncodeBit(bit, p, probShift); err != nil {
			return err
		}
		m.update(bit)
		node = node*2 + bit
	}
	for i := uint(0); i < z.noiseBits; i++ {
		if err := e.DirectEncodeBit(code >> 31); err != nil {
			return err
		}
		code <<= 1
	}
	return nil
}

// decodeSample recovers a residual coded by encodeSample. The accumulated
// node value carries an implicit leading tree bit which is masked out of the
// result.
func (z *Wav16) decodeSample(d *rangeDecoder, context, channel uint32) (uint16, error) {
	node := uint32(1)
	base := (context*2 + channel) << z.nonNoiseBits
	if base >= uint32(len(z.models)) {
		panic("mcm: context index out of range")
	}
	for i := uint(0); i < z.nonNoiseBits; i++ {
		m := &z.models[base+node]
		p := m.prob()
		if p == 0 {
			p = 1
		}
		bit, err := d.DecodeBit(p, probShift)
		if err != nil {
			return 0, err
		}
		m.update(bit)
		node = node*2 + bit
	}
	for i := uint(0); i < z.noiseBits; i++ {
		bit, err := d.DirectDecodeBit()
		if err != nil {
			return 0, err
		}
		node = node*2 + bit
	}
	return uint16(node ^ 1<<16), nil
}
