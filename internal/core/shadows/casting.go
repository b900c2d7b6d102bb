package shadows

import (
	"fmt"
	"math"
	"strings"
)

// DefaultSamples is the minimum number of interior points tested along each
// light-to-vertex segment by SilhouetteSampled.
const DefaultSamples = 8

// maxSamples bounds the per-pixel sample count on very large occluders.
const maxSamples = 1024

// SilhouetteMode selects how the two silhouette vertices of an occluder are
// found.
type SilhouetteMode int

const (
	// SilhouetteSampled treats a vertex as visible when none of the sampled
	// interior points of the light->vertex segment fall inside the occluder.
	// Only the part of the segment inside the occluder's bounding box is
	// sampled, so distant lights do not skip over small occluders.
	SilhouetteSampled SilhouetteMode = iota

	// SilhouetteExact treats a vertex as visible when the light lies on the
	// outer side of at least one of the vertex's two incident edges. Exact
	// for convex occluders.
	SilhouetteExact

	// SilhouetteTangent picks, on each side of the light->center line, the
	// vertex farthest from that line. No visibility test is made.
	SilhouetteTangent
)

var silhouetteModeNames = []string{"sampled", "exact", "tangent"}

func (m SilhouetteMode) String() string {
	if int(m) >= 0 && int(m) < len(silhouetteModeNames) {
		return silhouetteModeNames[m]
	}
	return fmt.Sprintf("SilhouetteMode(%d)", int(m))
}

// ParseSilhouetteMode converts a config name into a SilhouetteMode.
// The empty string selects SilhouetteSampled.
func ParseSilhouetteMode(name string) (SilhouetteMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SilhouetteSampled, nil
	}
	for i, n := range silhouetteModeNames {
		if n == name {
			return SilhouetteMode(i), nil
		}
	}
	return SilhouetteSampled, fmt.Errorf("unknown silhouette mode %q", name)
}

// Caster computes shadow quads. Samples is the minimum number of points
// tested per segment; longer segments are sampled at least once per pixel.
// Zero selects DefaultSamples.
type Caster struct {
	Mode    SilhouetteMode
	Samples int
}

// CastShadow computes the shadow quad of occluder for a point light using
// the default Caster.
func CastShadow(lightPos Point, lightRadius float64, occluder Polygon) (Quad, bool) {
	return Caster{}.Cast(lightPos, lightRadius, occluder)
}

// Cast computes the shadow quad of occluder for a point light at lightPos.
// It returns false when the occluder's bounding-circle center lies beyond
// the light's radius. Degenerate occluders produce a quad collapsed to the
// occluder center.
func (c Caster) Cast(lightPos Point, lightRadius float64, occluder Polygon) (Quad, bool) {
	bounds := occluder.Bounds()
	center := bounds.Center()
	if lightPos.DistSq(center) > lightRadius*lightRadius {
		return Quad{}, false
	}

	q := Quad{
		Center: center,
		Radius: (bounds.Width() + bounds.Height()) / 4,
		A:      center,
		B:      center,
	}
	if !occluder.IsDegenerate() {
		if c.Mode == SilhouetteTangent {
			q.A, q.B = tangentSilhouette(lightPos, center, occluder)
		} else {
			q.A, q.B = c.visibleSilhouette(lightPos, occluder, bounds, center)
		}
	}

	extrude := lightRadius * lightRadius
	q.FarA = project(lightPos, q.A, extrude)
	q.FarB = project(lightPos, q.B, extrude)
	return q, true
}

// visibleSilhouette returns the farthest visible vertex and the farthest
// visible vertex other than it. Ties keep the first vertex found.
func (c Caster) visibleSilhouette(light Point, occ Polygon, bounds Rect, center Point) (Point, Point) {
	ccw := occ.SignedArea() > 0
	visible := make([]bool, len(occ))
	for i, v := range occ {
		if c.Mode == SilhouetteExact {
			visible[i] = exactVisible(light, occ, i, ccw)
		} else {
			visible[i] = c.sampledVisible(light, v, occ, bounds)
		}
	}

	ia := farthest(light, occ, visible, -1)
	if ia < 0 {
		return center, center
	}
	ib := farthest(light, occ, visible, ia)
	if ib < 0 {
		return occ[ia], center
	}
	return occ[ia], occ[ib]
}

func farthest(light Point, occ Polygon, visible []bool, skip int) int {
	best := -1
	var bestDist float64
	for i, v := range occ {
		if !visible[i] || (skip >= 0 && v == occ[skip]) {
			continue
		}
		d := light.DistSq(v)
		if best < 0 || d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (c Caster) sampledVisible(light, v Point, occ Polygon, bounds Rect) bool {
	t0, t1, ok := bounds.ClipSegment(light, v)
	if !ok || t1-t0 < 1e-12 {
		return true
	}
	d := v.Sub(light)
	n := c.Samples
	if n <= 0 {
		n = DefaultSamples
	}
	// Thin occluders can fall between sparse samples.
	if px := int(math.Ceil((t1 - t0) * d.Len())); px > n {
		n = min(px, maxSamples)
	}
	for k := 1; k <= n; k++ {
		t := t0 + (t1-t0)*float64(k)/float64(n+1)
		if occ.Contains(light.Add(d.Scale(t))) {
			return false
		}
	}
	return true
}

func exactVisible(light Point, occ Polygon, i int, ccw bool) bool {
	prev := Segment{A: neighbour(occ, i, -1), B: occ[i]}
	next := Segment{A: occ[i], B: neighbour(occ, i, 1)}
	return !(interiorSide(prev, light, ccw) && interiorSide(next, light, ccw))
}

// neighbour walks from vertex i in direction step and returns the first
// vertex that differs from occ[i], skipping repeated points.
func neighbour(occ Polygon, i, step int) Point {
	n := len(occ)
	for k := 1; k < n; k++ {
		if p := occ[((i+step*k)%n+n)%n]; p != occ[i] {
			return p
		}
	}
	return occ[i]
}

// interiorSide reports whether p is strictly on the inner side of edge e
func interiorSide(e Segment, p Point, ccw bool) bool {
	if !ccw {
		e = Segment{A: e.B, B: e.A}
	}
	return IsFacingPoint(e, p)
}

func tangentSilhouette(light, center Point, occ Polygon) (Point, Point) {
	a, b := center, center
	var maxA, maxB float64
	for _, v := range occ {
		d := LineDistSq(light, center, v)
		left := IsLeft(light, center, v)
		if maxA < d && left {
			maxA, a = d, v
		}
		if maxB < d && !left {
			maxB, b = d, v
		}
	}
	return a, b
}

// project moves end away from start by scalar along (end - start).
// When start == end the point is returned unchanged.
func project(start, end Point, scalar float64) Point {
	return end.Add(end.Sub(start).Normalize().Scale(scalar))
}
