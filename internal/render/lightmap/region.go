package lightmap

import "image"

// Region is an antialiased coverage mask over the viewport. Coverage 255 is
// fully inside the region and 0 fully outside.
type Region struct {
	rect image.Rectangle
	mask *image.Alpha
}

// NewRegion wraps an existing alpha mask as a region
func NewRegion(mask *image.Alpha) *Region {
	return &Region{rect: mask.Rect, mask: mask}
}

// Bounds returns the area the region is defined over
func (r *Region) Bounds() image.Rectangle {
	return r.rect
}

// Coverage returns the region coverage at (x, y). Points outside the
// region's bounds are not covered.
func (r *Region) Coverage(x, y int) uint8 {
	if r == nil || !(image.Point{x, y}).In(r.rect) {
		return 0
	}
	return r.mask.Pix[r.mask.PixOffset(x, y)]
}

// Empty reports whether no pixel is covered at all
func (r *Region) Empty() bool {
	if r == nil {
		return true
	}
	for _, a := range r.mask.Pix {
		if a != 0 {
			return false
		}
	}
	return true
}

// Mask returns the backing alpha mask
func (r *Region) Mask() *image.Alpha {
	return r.mask
}
