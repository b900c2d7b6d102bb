package shadows

import "math"

// Point represents a 2D point (or vector) in screen space
type Point struct {
	X, Y float64
}

// Add returns p + q
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by s
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Dot returns the dot product of p and q
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Len returns the length of p as a vector
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector in the direction of p.
// The zero vector normalizes to the zero vector.
func (p Point) Normalize() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// DistSq returns the squared distance between p and q
func (p Point) DistSq(q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return dx*dx + dy*dy
}

// Segment represents one edge of an occluder
type Segment struct {
	A, B Point
}

// Rect is an axis-aligned bounding box
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent of r
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r
func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Polygon is a closed sequence of vertices. Occluders are polygons that are
// treated as convex when casting shadows.
type Polygon []Point

// Bounds returns the axis-aligned bounding box of the polygon.
// An empty polygon has a zero Rect.
func (poly Polygon) Bounds() Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	r := Rect{Min: poly[0], Max: poly[0]}
	for _, p := range poly[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Edges returns the polygon's edges, including the closing edge from the
// last vertex back to the first.
func (poly Polygon) Edges() []Segment {
	if len(poly) < 2 {
		return nil
	}
	edges := make([]Segment, len(poly))
	for i := range poly {
		edges[i] = Segment{A: poly[i], B: poly[(i+1)%len(poly)]}
	}
	return edges
}

// SignedArea returns the shoelace area of the polygon. It is positive when
// the vertices wind counter-clockwise in a y-up system (clockwise on screen).
func (poly Polygon) SignedArea() float64 {
	var sum float64
	j := len(poly) - 1
	for i := range poly {
		sum += poly[j].X*poly[i].Y - poly[i].X*poly[j].Y
		j = i
	}
	return sum / 2
}

// IsDegenerate reports whether the polygon has fewer than three vertices or
// encloses no area.
func (poly Polygon) IsDegenerate() bool {
	return len(poly) < 3 || math.Abs(poly.SignedArea()) < 1e-9
}

// Contains reports whether p lies strictly inside the polygon
func (poly Polygon) Contains(p Point) bool {
	return PointInPolygon(p, poly)
}

// Quad is the extruded shadow region behind an occluder for one light
// sample. Its outline runs A, B, FarB, FarA.
type Quad struct {
	A, B       Point
	FarB, FarA Point

	// Center and Radius describe the occluder's bounding circle used for the
	// reach test.
	Center Point
	Radius float64
}

// Points returns the quad outline in drawing order
func (q Quad) Points() []Point {
	return []Point{q.A, q.B, q.FarB, q.FarA}
}

// IsDegenerate reports whether the quad collapsed to the occluder center
func (q Quad) IsDegenerate() bool {
	return q.A == q.Center && q.B == q.Center
}

// Reverse flips the vertex order in place
func (poly Polygon) Reverse() {
	for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
		poly[i], poly[j] = poly[j], poly[i]
	}
}
