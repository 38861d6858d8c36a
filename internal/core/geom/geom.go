// Package geom holds the plane geometry used by the strategies: bearings,
// angle wrapping, distances, line extrapolation and arc fitting.
//
// Coordinates are camera pixels, y grows downward and angles are measured in
// the same frame as the orientations reported by perception.
package geom

import "math"

// Vec2 is a point or displacement on the pitch.
type Vec2 struct{ X, Y float64 }

func V(x, y int) Vec2 { return Vec2{X: float64(x), Y: float64(y)} }

func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Add(o Vec2) Vec2         { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Scale(k float64) Vec2    { return Vec2{X: v.X * k, Y: v.Y * k} }
func (v Vec2) Len() float64            { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dot(o Vec2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Distance(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Bearing is the direction from one point to another in degrees, in (-180, 180].
func Bearing(from, to Vec2) float64 {
	return NormalizeDegrees(math.Atan2(to.Y-from.Y, to.X-from.X) * 180 / math.Pi)
}

// NormalizeDegrees wraps a into (-180, 180].
func NormalizeDegrees(a float64) float64 {
	a, _ = wrapDegrees(a)
	return a
}

// wrapDegrees also reports how many ±360 adjustments were needed after the
// input was reduced into (-360, 360).
func wrapDegrees(a float64) (float64, int) {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0, 0
	}
	// Subtracting 360 from a large float can leave it unchanged.
	a = math.Mod(a, 360)
	n := 0
	for a > 180 {
		a -= 360
		n++
	}
	for a <= -180 {
		a += 360
		n++
	}
	return a, n
}

// AngularError is the shortest signed rotation taking current onto target.
func AngularError(current, target float64) float64 {
	return NormalizeDegrees(NormalizeDegrees(target) - NormalizeDegrees(current))
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// SegmentDistance is the distance from p to the segment ab.
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = Clamp(t, 0, 1)
	return p.Distance(a.Add(ab.Scale(t)))
}

// Arc describes a circular path joining the robot to a target.
type Arc struct {
	Radius float64 // signed, positive turns toward increasing heading
	Length float64
}

// ArcTo fits the circular arc that leaves the robot along its current heading
// and ends at a target at the given distance and heading error (degrees).
// A zero error yields a straight line with an infinite radius.
func ArcTo(distance, errorDeg float64) Arc {
	theta := Radians(errorDeg)
	if math.Abs(math.Sin(theta)) < 1e-9 {
		return Arc{Radius: math.Inf(1), Length: distance}
	}
	r := distance / (2 * math.Sin(theta))
	return Arc{Radius: r, Length: math.Abs(r * 2 * theta)}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
