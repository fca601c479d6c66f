package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/physics"
)

// Trajectory returns the position of one body on one axis for steps 0..n-1.
func Trajectory(s dynamo.System, body, axis, n int) ([]float64, error) {
	if body < 0 || body >= len(s) {
		return nil, fmt.Errorf("analysis: body %d out of range [0,%d)", body, len(s))
	}
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("analysis: axis %d out of range", axis)
	}

	x := s.Clone()
	m := physics.NewMoons()
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i] = float64(x[body].Pos.Axis(axis))
		m.Step(x)
	}
	return data, nil
}

// MagnitudeSpectrum returns the magnitude of the first half of the DFT of data,
// with the mean removed so bin 0 does not dominate.
func MagnitudeSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	mag := make([]float64, len(coeffs)/2)
	for i := range mag {
		mag[i] = cmplx.Abs(coeffs[i])
	}
	return mag
}

// DominantPeriod estimates the strongest oscillation period, in steps, of a
// spectrum computed from n samples.
func DominantPeriod(ps []float64, n int) float64 {
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}
	return float64(n) / float64(maxIdx)
}
