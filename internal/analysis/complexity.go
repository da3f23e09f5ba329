package analysis

import (
	"math"
	"sort"

	"owlbench/domain/verdict"

	"gonum.org/v1/gonum/stat"
)

// FitComplexity fits the empirical power law value ~ a * scale^b by
// ordinary least squares on log-transformed axes and scans for scaling
// breakpoints. Non-positive scales or values cannot be log-transformed and
// are excluded up front. Fewer than 2 distinct usable scale points is not
// an error: the profile falls back to the documented defaults with
// Fitted = false.
func FitComplexity(points []verdict.ScalePoint) verdict.ComplexityProfile {
	usable := make([]verdict.ScalePoint, 0, len(points))
	for _, p := range points {
		if p.Scale > 0 && p.Value > 0 {
			usable = append(usable, p)
		}
	}
	sort.Slice(usable, func(i, j int) bool { return usable[i].Scale < usable[j].Scale })

	profile := verdict.ComplexityProfile{
		Exponent:    1.0,
		RSquared:    0.0,
		ScalePoints: usable,
	}

	if distinctScales(usable) < 2 {
		return profile
	}

	logX := make([]float64, len(usable))
	logY := make([]float64, len(usable))
	for i, p := range usable {
		logX[i] = math.Log(p.Scale)
		logY[i] = math.Log(p.Value)
	}

	intercept, slope := stat.LinearRegression(logX, logY, nil, false)
	r2 := stat.RSquared(logX, logY, nil, intercept, slope)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0.0
	}

	profile.Exponent = slope
	profile.RSquared = r2
	profile.Fitted = true
	profile.Breakpoints = detectBreakpoints(usable)
	return profile
}

func distinctScales(points []verdict.ScalePoint) int {
	seen := make(map[float64]struct{}, len(points))
	for _, p := range points {
		seen[p.Scale] = struct{}{}
	}
	return len(seen)
}

// detectBreakpoints walks consecutive scale points and flags every step
// where the metric grows more than twice as fast as the input, in
// percentage terms. A ratio above 3x is graded high, otherwise moderate.
func detectBreakpoints(points []verdict.ScalePoint) []verdict.Breakpoint {
	if len(points) < 3 {
		return nil
	}

	var breakpoints []verdict.Breakpoint
	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		cur := points[i]

		scaleIncrease := (cur.Scale - prev.Scale) / prev.Scale * 100
		valueIncrease := (cur.Value - prev.Value) / prev.Value * 100
		if scaleIncrease <= 0 {
			continue
		}

		if valueIncrease > scaleIncrease*2 {
			severity := verdict.SeverityModerate
			if valueIncrease > scaleIncrease*3 {
				severity = verdict.SeverityHigh
			}
			breakpoints = append(breakpoints, verdict.Breakpoint{
				Scale:             cur.Scale,
				DegradationFactor: valueIncrease / scaleIncrease,
				Severity:          severity,
			})
		}
	}
	return breakpoints
}
