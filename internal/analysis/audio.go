package analysis

import (
	"math"

	"github.com/ayusman/abhinaya/internal/capture"
)

// Audio analysis constants.
const (
	// AudioNeutralScore is returned for every term when the buffer is
	// empty or unusable; a bad microphone read is not the speaker's fault.
	AudioNeutralScore = 5.0

	// MidBandLowHz and MidBandHighHz bound the speech band used for the
	// clarity measure.
	MidBandLowHz  = 300.0
	MidBandHighHz = 3400.0

	// VolumeScale converts normalized RMS into a 0-10 volume level.
	VolumeScale = 40.0

	// ClarityScale converts the mid-band energy fraction into 0-10.
	ClarityScale = 12.5

	// ConsistencySegments is how many sub-segments the buffer is split into
	// for the floor-threshold consistency check.
	ConsistencySegments = 8

	// VolumeFloor is the minimum normalized segment RMS for the segment to
	// count as spoken.
	VolumeFloor = 0.01

	// fftMaxSamples caps the spectral analysis length per buffer.
	fftMaxSamples = 4096
)

// AudioMetrics describes the delivery quality of one audio buffer.
type AudioMetrics struct {
	VolumeLevel float64 `json:"volume_level"`
	Clarity     float64 `json:"clarity"`
	Consistency float64 `json:"consistency"`
	Score       float64 `json:"score"`
}

// AnalyzeAudio scores one audio buffer. Volume comes from signal energy,
// clarity from the fraction of spectral energy in the speech band, and
// consistency from how many sub-segments rise above a volume floor.
// An empty or corrupt buffer yields neutral defaults rather than an error.
func AnalyzeAudio(chunk capture.Chunk) AudioMetrics {
	if len(chunk.Samples) == 0 || chunk.SampleRate <= 0 {
		return AudioMetrics{
			VolumeLevel: AudioNeutralScore,
			Clarity:     AudioNeutralScore,
			Consistency: AudioNeutralScore,
			Score:       AudioNeutralScore,
		}
	}

	volume := clamp(rms(chunk.Samples)*VolumeScale, 0, 10)
	clarity := clarityScore(chunk)
	consistency := consistencyScore(chunk.Samples)

	return AudioMetrics{
		VolumeLevel: volume,
		Clarity:     clarity,
		Consistency: consistency,
		Score:       (volume + clarity + consistency) / 3,
	}
}

// rms returns the root mean square of the samples, normalized to [0,1].
func rms(samples []int16) float64 {
	sum := 0.0
	for _, s := range samples {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// clarityScore measures the fraction of spectral energy falling in the
// speech band. A near-silent buffer has no meaningful spectrum and scores
// neutral.
func clarityScore(chunk capture.Chunk) float64 {
	n := len(chunk.Samples)
	if n > fftMaxSamples {
		n = fftMaxSamples
	}

	size := nextPowerOfTwo(n)
	x := make([]complex128, size)
	for i := 0; i < n; i++ {
		x[i] = complex(float64(chunk.Samples[i])/32768.0, 0)
	}
	fft(x)

	binWidth := float64(chunk.SampleRate) / float64(size)
	total := 0.0
	midBand := 0.0
	// Skip DC, use the first half of the spectrum
	for i := 1; i < size/2; i++ {
		mag := real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
		total += mag
		freq := float64(i) * binWidth
		if freq >= MidBandLowHz && freq <= MidBandHighHz {
			midBand += mag
		}
	}

	if total < 1e-9 {
		return AudioNeutralScore
	}

	return clamp(midBand/total*ClarityScale, 0, 10)
}

// consistencyScore splits the buffer into segments and scores the fraction
// whose volume clears the floor threshold.
func consistencyScore(samples []int16) float64 {
	segLen := len(samples) / ConsistencySegments
	if segLen == 0 {
		return AudioNeutralScore
	}

	active := 0
	for i := 0; i < ConsistencySegments; i++ {
		seg := samples[i*segLen : (i+1)*segLen]
		if rms(seg) > VolumeFloor {
			active++
		}
	}

	return clamp(float64(active)/ConsistencySegments*10, 0, 10)
}
