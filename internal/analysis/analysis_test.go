package analysis

import "math"

// Simple pseudo-random normal distribution (Box-Muller transform)
var randState = 12345.0

func randNorm() float64 {
	// Update state with linear congruential generator
	randState = math.Mod(randState*1103515245+12345, 2147483648)
	u1 := randState / 2147483648.0

	randState = math.Mod(randState*1103515245+12345, 2147483648)
	u2 := randState / 2147483648.0

	// Box-Muller transform
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func normalSample(n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + randNorm()*sd
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
