package mcm

const (
	mixShift   = 16
	mixWeights = 4

	// Clamp limits for a proportional weight step that is currently
	// disabled; the active update below is sign-only and unclamped.
	mixWeightMax = 1000000
	mixWeightMin = -1000000
)

// linearMixer blends four predictor signals with adaptive fixed-point
// weights. Its output is not wired into the active prediction path; the
// codec predicts with the plain second-order extrapolation and only trains
// the weights.
type linearMixer struct {
	w [mixWeights]int32
}

func newLinearMixer() linearMixer {
	var m linearMixer
	for i := range m.w {
		m.w[i] = (1 << mixShift) / mixWeights
	}
	return m
}

func (m *linearMixer) mix(s *[mixWeights]int32) int32 {
	var sum int64
	for i := range m.w {
		sum += int64(s[i]) * int64(m.w[i])
	}
	return int32(sum >> mixShift)
}

// update nudges each weight by its signal scaled down by learnRate, in the
// direction of the observed prediction error. The step depends only on the
// sign of the error, not its magnitude.
func (m *linearMixer) update(s *[mixWeights]int32, err int32, learnRate uint) {
	for i := range m.w {
		delta := s[i] >> learnRate
		if err > 0 {
			m.w[i] += delta
		} else if err < 0 {
			m.w[i] -= delta
		}
	}
}

func (m *linearMixer) weights() [mixWeights]int32 {
	return m.w
}
