package shadows

import "math"

// IsFacingPoint checks if a segment is facing towards a given point
// Uses cross product to determine if the point is on the "front" side of the segment
func IsFacingPoint(seg Segment, point Point) bool {
	return cross(seg.A, seg.B, point) > 0
}

// IsLeft reports whether c lies strictly on the left of the line from a to b.
// Points on the line are not left.
func IsLeft(a, b, c Point) bool {
	return cross(a, b, c) > 0
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// PointInPolygon tests if a point is inside a polygon using ray casting algorithm
func PointInPolygon(point Point, polygon []Point) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Point) float64 {
	return math.Sqrt(a.DistSq(b))
}

// LineDistSq returns the squared distance from p to the infinite line
// through a and b. A degenerate line falls back to the distance to a.
func LineDistSq(a, b, p Point) float64 {
	d := b.Sub(a)
	l := d.Dot(d)
	if l == 0 {
		return a.DistSq(p)
	}
	c := cross(a, b, p)
	return c * c / l
}

// ClipSegment clips the segment a->b against r (Liang-Barsky) and returns
// the parameter range [t0, t1] of the part inside r. ok is false when the
// segment misses r entirely.
func (r Rect) ClipSegment(a, b Point) (t0, t1 float64, ok bool) {
	t0, t1 = 0, 1
	d := b.Sub(a)

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if clip(-d.X, a.X-r.Min.X) &&
		clip(d.X, r.Max.X-a.X) &&
		clip(-d.Y, a.Y-r.Min.Y) &&
		clip(d.Y, r.Max.Y-a.Y) {
		return t0, t1, true
	}
	return 0, 0, false
}

// ClipToRect clips the polygon against r (Sutherland-Hodgman). Convex input
// stays convex and keeps its winding. The result may be empty.
func (poly Polygon) ClipToRect(r Rect) Polygon {
	out := append(Polygon(nil), poly...)
	edges := []struct {
		inside    func(Point) bool
		intersect func(a, b Point) Point
	}{
		{func(p Point) bool { return p.X >= r.Min.X }, func(a, b Point) Point { return lerpX(a, b, r.Min.X) }},
		{func(p Point) bool { return p.X <= r.Max.X }, func(a, b Point) Point { return lerpX(a, b, r.Max.X) }},
		{func(p Point) bool { return p.Y >= r.Min.Y }, func(a, b Point) Point { return lerpY(a, b, r.Min.Y) }},
		{func(p Point) bool { return p.Y <= r.Max.Y }, func(a, b Point) Point { return lerpY(a, b, r.Max.Y) }},
	}

	for _, e := range edges {
		if len(out) == 0 {
			break
		}
		in := out
		out = make(Polygon, 0, len(in)+2)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case e.inside(cur) && e.inside(prev):
				out = append(out, cur)
			case e.inside(cur):
				out = append(out, e.intersect(prev, cur), cur)
			case e.inside(prev):
				out = append(out, e.intersect(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

func lerpX(a, b Point, x float64) Point {
	t := (x - a.X) / (b.X - a.X)
	return Point{x, a.Y + t*(b.Y-a.Y)}
}

func lerpY(a, b Point, y float64) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{a.X + t*(b.X-a.X), y}
}
