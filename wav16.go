// Package mcm implements an adaptive, context-modeled compression codec for
// 16-bit two-channel sample streams, together with the cyclic window buffer
// underlying the windowed models of the same compression family.
//
// Each sample is predicted by a second-order linear extrapolation from the
// channel's history; the prediction residual is entropy coded through a
// binary range coder driven by a context tree of stationary bit models, with
// the low-order noise bits coded directly.
package mcm

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const defaultBufSize = 4096

// Config parameterizes a Wav16 codec. The zero value selects the defaults.
type Config struct {
	// NoiseBits is the number of low-order residual bits coded as raw
	// equiprobable symbols instead of through the context tree.
	// Defaults to 3.
	NoiseBits int
	// MixerLearnRate is the downshift applied to mixer weight updates.
	// Defaults to 13.
	MixerLearnRate int
}

func (c *Config) applyDefaults() {
	if c.NoiseBits == 0 {
		c.NoiseBits = 3
	}
	if c.MixerLearnRate == 0 {
		c.MixerLearnRate = 13
	}
}

// Verify checks the configuration after defaults have been applied.
func (c *Config) Verify() error {
	if c.NoiseBits < 1 || c.NoiseBits > 15 {
		return errors.Errorf("mcm: NoiseBits %d out of range [1,15]", c.NoiseBits)
	}
	if c.MixerLearnRate < 1 || c.MixerLearnRate > 30 {
		return errors.Errorf("mcm: MixerLearnRate %d out of range [1,30]",
			c.MixerLearnRate)
	}
	return nil
}

// Wav16 compresses and decompresses interleaved 16-bit little-endian stereo
// samples. A Wav16 is single-owner: each Compress or Decompress call resets
// and then exclusively owns the model state for the whole session.
type Wav16 struct {
	models       []bitModel
	noiseBits    uint
	nonNoiseBits uint
	learnRate    uint
	mix          [2]linearMixer
	totalError   uint64
}

// NewWav16 creates a codec with the default configuration.
func NewWav16() *Wav16 {
	z, err := Config{}.NewWav16()
	if err != nil {
		panic(err)
	}
	return z
}

// NewWav16 creates a codec for the given configuration.
func (c Config) NewWav16() (*Wav16, error) {
	c.applyDefaults()
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return &Wav16{
		noiseBits:    uint(c.NoiseBits),
		nonNoiseBits: uint(16 - c.NoiseBits),
		learnRate:    uint(c.MixerLearnRate),
	}, nil
}

// init allocates and resets the per-session model state.
func (z *Wav16) init() {
	z.models = make([]bitModel, 2<<(z.nonNoiseBits+ctxBits))
	for i := range z.models {
		z.models[i].init()
	}
	z.mix[0] = newLinearMixer()
	z.mix[1] = newLinearMixer()
	z.totalError = 0
}

// TotalError reports the accumulated absolute prediction error of the last
// Compress session.
func (z *Wav16) TotalError() uint64 {
	return z.totalError
}

// MixerWeights reports the mixer weights of the given channel after a
// Compress session.
func (z *Wav16) MixerWeights(channel int) [mixWeights]int32 {
	return z.mix[channel].weights()
}

// readFrame reads len(p) bytes one at a time. It returns the count read and
// the first error encountered.
func readFrame(br io.ByteReader, p []byte) (int, error) {
	for i := range p {
		c, err := br.ReadByte()
		if err != nil {
			return i, err
		}
		p[i] = c
	}
	return len(p), nil
}

// Compress reads up to maxCount bytes of interleaved stereo samples from in
// and writes the compressed stream to out. Input ending mid-frame stops the
// loop; the partial trailing frame is dropped, not coded.
func (z *Wav16) Compress(in io.Reader, out io.Writer, maxCount int64) error {
	br, ok := in.(io.ByteReader)
	if !ok {
		br = bufio.NewReaderSize(in, defaultBufSize)
	}
	bw, ok := out.(io.ByteWriter)
	var buf *bufio.Writer
	if !ok {
		buf = bufio.NewWriterSize(out, defaultBufSize)
		bw = buf
	}

	z.init()
	e := newRangeEncoder(bw)
	var lastA, lastA2, lastA3 uint16
	var lastB, lastB2 uint16
	var frame [4]byte
	for i := int64(0); i < maxCount; i += 4 {
		n, err := readFrame(br, frame[:])
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "mcm: read input")
		}
		if n < len(frame) {
			break
		}
		a := uint16(frame[0]) | uint16(frame[1])<<8
		b := uint16(frame[2]) | uint16(frame[3])<<8
		predA := 2*lastA - lastA2
		predB := 2*lastB - lastB2
		s0 := [mixWeights]int32{
			2*int32(lastA) - int32(lastA2), int32(lastA), int32(lastA3), int32(lastB),
		}
		s1 := [mixWeights]int32{
			2*int32(lastB) - int32(lastB2), int32(lastB), int32(a), int32(lastA),
		}
		errorA := int32(a) - int32(predA)
		errorB := int32(b) - int32(predB)
		z.totalError += uint64(abs32(errorA)) + uint64(abs32(errorB))
		if err := z.encodeSample(e, 0, 0, uint16(errorA)); err != nil {
			return errors.Wrap(err, "mcm: write output")
		}
		if err := z.encodeSample(e, 0, 1, uint16(errorB)); err != nil {
			return errors.Wrap(err, "mcm: write output")
		}
		z.mix[0].update(&s0, errorA, z.learnRate)
		z.mix[1].update(&s1, errorB, z.learnRate)
		lastA3 = lastA2
		lastA2, lastB2 = lastA, lastB
		lastA, lastB = a, b
	}
	if err := e.Close(); err != nil {
		return errors.Wrap(err, "mcm: write output")
	}
	if buf != nil {
		if err := buf.Flush(); err != nil {
			return errors.Wrap(err, "mcm: write output")
		}
	}
	return nil
}

// Decompress reads a compressed stream from in and writes maxCount bytes of
// reconstructed samples to out. Buffering may read past the logical end of
// the compressed stream; if in is an io.Seeker, its position is rewound by
// the unconsumed remainder so a subsequent reader sees the correct offset.
func (z *Wav16) Decompress(in io.Reader, out io.Writer, maxCount int64) error {
	br := bufio.NewReaderSize(in, defaultBufSize)
	bw, ok := out.(io.ByteWriter)
	var buf *bufio.Writer
	if !ok {
		buf = bufio.NewWriterSize(out, defaultBufSize)
		bw = buf
	}

	z.init()
	d, err := newRangeDecoder(br)
	if err != nil {
		return errors.Wrap(err, "mcm: init decoder")
	}
	var lastA, lastA2 uint16
	var lastB, lastB2 uint16
	remaining := maxCount
	for remaining > 0 {
		predA := 2*lastA - lastA2
		predB := 2*lastB - lastB2
		resA, err := z.decodeSample(d, 0, 0)
		if err != nil {
			return errors.Wrap(err, "mcm: read input")
		}
		resB, err := z.decodeSample(d, 0, 1)
		if err != nil {
			return errors.Wrap(err, "mcm: read input")
		}
		a := predA + resA
		b := predB + resB
		for _, c := range [4]byte{byte(a), byte(a >> 8), byte(b), byte(b >> 8)} {
			if remaining <= 0 {
				break
			}
			remaining--
			if err := bw.WriteByte(c); err != nil {
				return errors.Wrap(err, "mcm: write output")
			}
		}
		lastA2, lastB2 = lastA, lastB
		lastA, lastB = a, b
	}
	if buf != nil {
		if err := buf.Flush(); err != nil {
			return errors.Wrap(err, "mcm: write output")
		}
	}
	// Give back the bytes buffering read past the end of the compressed
	// stream.
	if remain := br.Buffered(); remain > 0 {
		if s, ok := in.(io.Seeker); ok {
			if _, err := s.Seek(-int64(remain), io.SeekCurrent); err != nil {
				return errors.Wrap(err, "mcm: rewind input")
			}
		}
	}
	return nil
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
