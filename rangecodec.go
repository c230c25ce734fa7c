package mcm

import "io"

// rangeEncoder is a binary range coder with carry handling through a byte
// cache. Probabilities are fixed-point estimates of the bit being set, with
// the number of fractional bits passed per call.
type rangeEncoder struct {
	bw       io.ByteWriter
	nrange   uint32
	low      uint64
	cacheLen int64
	cache    byte
}

func newRangeEncoder(bw io.ByteWriter) *rangeEncoder {
	return &rangeEncoder{
		bw:       bw,
		nrange:   0xffffffff,
		cacheLen: 1,
	}
}

// EncodeBit encodes a bit with probability p of the bit being set. p must be
// at least 1, otherwise the coded interval for a set bit collapses to zero
// width and the stream desynchronizes.
func (e *rangeEncoder) EncodeBit(bit, p, shift uint32) error {
	bound := (e.nrange >> shift) * p
	if bit != 0 {
		e.nrange = bound
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
	}
	return e.normalize()
}

// DirectEncodeBit encodes a bit without a model, as an equiprobable symbol.
func (e *rangeEncoder) DirectEncodeBit(bit uint32) error {
	e.nrange >>= 1
	if bit != 0 {
		e.low += uint64(e.nrange)
	}
	return e.normalize()
}

func (e *rangeEncoder) normalize() error {
	const top = 1 << 24
	for e.nrange < top {
		e.nrange <<= 8
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the pending low bits. The output ends with enough bytes for
// a decoder to renormalize past the last coded bit.
func (e *rangeEncoder) Close() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

func (e *rangeEncoder) shiftLow() error {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		tmp := e.cache
		for {
			err := e.bw.WriteByte(tmp + byte(e.low>>32))
			if err != nil {
				return err
			}
			tmp = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				if e.cacheLen < 0 {
					panic("negative cacheLen")
				}
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheLen++
	e.low = uint64(uint32(e.low) << 8)
	return nil
}

// rangeDecoder mirrors rangeEncoder. Both sides must observe the identical
// sequence of probabilities or the stream is lost for good.
type rangeDecoder struct {
	br     io.ByteReader
	nrange uint32
	code   uint32
}

// newRangeDecoder initializes the decode state from the stream. The first
// byte read is the encoder's initial cache byte and carries no payload.
func newRangeDecoder(br io.ByteReader) (*rangeDecoder, error) {
	d := &rangeDecoder{br: br, nrange: 0xffffffff}
	for i := 0; i < 5; i++ {
		c, err := d.br.ReadByte()
		if err != nil {
			return nil, err
		}
		d.code = d.code<<8 | uint32(c)
	}
	return d, nil
}

// DecodeBit decodes a bit with probability p of the bit being set, then
// renormalizes. p follows the same contract as EncodeBit.
func (d *rangeDecoder) DecodeBit(p, shift uint32) (uint32, error) {
	bound := (d.nrange >> shift) * p
	var bit uint32
	if d.code < bound {
		d.nrange = bound
		bit = 1
	} else {
		d.code -= bound
		d.nrange -= bound
	}
	return bit, d.normalize()
}

// DirectDecodeBit decodes an equiprobable bit.
func (d *rangeDecoder) DirectDecodeBit() (uint32, error) {
	d.nrange >>= 1
	var bit uint32
	if d.code >= d.nrange {
		d.code -= d.nrange
		bit = 1
	}
	return bit, d.normalize()
}

func (d *rangeDecoder) normalize() error {
	const top = 1 << 24
	for d.nrange < top {
		c, err := d.br.ReadByte()
		if err != nil {
			return err
		}
		d.code = d.code<<8 | uint32(c)
		d.nrange <<= 8
	}
	return nil
}
