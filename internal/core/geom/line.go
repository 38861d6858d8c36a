package geom

import "math"

// SlopeEpsilon keeps the two-point fit finite when both samples share an x.
const SlopeEpsilon = 0.0001

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// FitLine passes a line through two samples.
func FitLine(a, b Vec2) Line {
	slope := (b.Y - a.Y) / ((b.X - a.X) + SlopeEpsilon)
	return Line{Slope: slope, Intercept: a.Y - slope*a.X}
}

// YAt evaluates the line at x.
func (l Line) YAt(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Finite reports whether the fit produced usable numbers.
func (l Line) Finite() bool {
	return !math.IsNaN(l.Slope) && !math.IsInf(l.Slope, 0) &&
		!math.IsNaN(l.Intercept) && !math.IsInf(l.Intercept, 0)
}
