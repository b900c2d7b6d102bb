// Package lightmap provides the per-frame light accumulation buffer and the
// coverage regions used to clip lights against shadows.
//
// Pixels are stored with straight (non-premultiplied) alpha. Sprites are
// composited source-over, and the glow and blur post-processing steps work
// on the same straight-alpha channels.
package lightmap

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"chosenoffset.com/penumbra/internal/core/shadows"
)

// Lightmap is an RGBA accumulation buffer sized to the viewport. It owns the
// scratch buffers used while rasterizing shadow regions, so one Lightmap must
// only be rendered into by one goroutine at a time.
type Lightmap struct {
	img *image.NRGBA

	raster *vector.Rasterizer
	shadow Region
	lit    Region
}

// New creates a cleared lightmap of the given size
func New(width, height int) *Lightmap {
	lm := &Lightmap{}
	lm.Resize(width, height)
	return lm
}

// Resize reallocates the buffer when the size changes. The contents are
// cleared either way.
func (lm *Lightmap) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r := image.Rect(0, 0, width, height)
	if lm.img != nil && lm.img.Rect == r {
		lm.Clear()
		return
	}
	lm.img = image.NewNRGBA(r)
	lm.raster = vector.NewRasterizer(width, height)
	lm.shadow = Region{rect: r, mask: image.NewAlpha(r)}
	lm.lit = Region{rect: r, mask: image.NewAlpha(r)}
}

// Clear resets every pixel to fully transparent
func (lm *Lightmap) Clear() {
	clear(lm.img.Pix)
}

// Bounds returns the viewport rectangle
func (lm *Lightmap) Bounds() image.Rectangle {
	return lm.img.Rect
}

// Width returns the viewport width in pixels
func (lm *Lightmap) Width() int { return lm.img.Rect.Dx() }

// Height returns the viewport height in pixels
func (lm *Lightmap) Height() int { return lm.img.Rect.Dy() }

// Image returns the underlying straight-alpha image. It is reused across
// frames.
func (lm *Lightmap) Image() *image.NRGBA {
	return lm.img
}

// ARGB returns the pixel at (x, y) packed as 0xAARRGGBB. Out of range
// coordinates read as transparent.
func (lm *Lightmap) ARGB(x, y int) uint32 {
	if !(image.Point{x, y}).In(lm.img.Rect) {
		return 0
	}
	i := lm.img.PixOffset(x, y)
	return packARGB(lm.img.Pix[i : i+4 : i+4])
}

// SetARGB writes a packed 0xAARRGGBB pixel. Out of range writes are ignored.
func (lm *Lightmap) SetARGB(x, y int, argb uint32) {
	if !(image.Point{x, y}).In(lm.img.Rect) {
		return
	}
	i := lm.img.PixOffset(x, y)
	unpackARGB(lm.img.Pix[i:i+4:i+4], argb)
}

// ReadARGB copies the whole buffer into dst as packed pixels in row-major
// order, growing dst when needed.
func (lm *Lightmap) ReadARGB(dst []uint32) []uint32 {
	n := lm.Width() * lm.Height()
	if cap(dst) < n {
		dst = make([]uint32, n)
	}
	dst = dst[:n]
	w := lm.Width()
	for y := 0; y < lm.Height(); y++ {
		row := lm.img.Pix[y*lm.img.Stride:]
		for x := 0; x < w; x++ {
			dst[y*w+x] = packARGB(row[x*4 : x*4+4 : x*4+4])
		}
	}
	return dst
}

// WriteARGB replaces the whole buffer with packed row-major pixels
func (lm *Lightmap) WriteARGB(src []uint32) {
	w := lm.Width()
	if len(src) < w*lm.Height() {
		return
	}
	for y := 0; y < lm.Height(); y++ {
		row := lm.img.Pix[y*lm.img.Stride:]
		for x := 0; x < w; x++ {
			unpackARGB(row[x*4:x*4+4:x*4+4], src[y*w+x])
		}
	}
}

func packARGB(p []uint8) uint32 {
	return uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}

func unpackARGB(p []uint8, v uint32) {
	p[0] = uint8(v >> 16)
	p[1] = uint8(v >> 8)
	p[2] = uint8(v)
	p[3] = uint8(v >> 24)
}

// DrawSprite composites sprite over the lightmap with its top-left corner at
// (x, y). When clip is non-nil each sprite pixel is scaled by the clip
// coverage at that position.
func (lm *Lightmap) DrawSprite(sprite *image.NRGBA, x, y int, clip *Region) {
	if sprite == nil {
		return
	}
	off := image.Pt(x, y).Sub(sprite.Rect.Min)
	r := sprite.Rect.Add(off).Intersect(lm.img.Rect)
	if r.Empty() {
		return
	}

	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			si := sprite.PixOffset(px-off.X, py-off.Y)
			src := sprite.Pix[si : si+4 : si+4]
			sa := uint32(src[3])
			if clip != nil {
				sa = (sa*uint32(clip.Coverage(px, py)) + 127) / 255
			}
			if sa == 0 {
				continue
			}
			di := lm.img.PixOffset(px, py)
			blendOver(lm.img.Pix[di:di+4:di+4], src, sa)
		}
	}
}

// blendOver composites a straight-alpha source colour with effective alpha
// sa onto a straight-alpha destination pixel.
func blendOver(dst, src []uint8, sa uint32) {
	da := uint32(dst[3])
	srcW := sa * 255
	dstW := da * (255 - sa)
	outW := srcW + dstW
	if outW == 0 {
		return
	}
	for c := 0; c < 3; c++ {
		dst[c] = uint8((uint32(src[c])*srcW + uint32(dst[c])*dstW + outW/2) / outW)
	}
	dst[3] = uint8((outW + 127) / 255)
}

// ShadowRegion rasterizes the union of polys into the lightmap's shadow
// scratch region and returns it. The region is only valid until the next
// call. Overlapping polygons saturate instead of cancelling, whatever their
// winding.
func (lm *Lightmap) ShadowRegion(polys []shadows.Polygon) *Region {
	w, h := lm.Width(), lm.Height()
	view := shadows.Rect{
		Min: shadows.Point{X: -1, Y: -1},
		Max: shadows.Point{X: float64(w + 1), Y: float64(h + 1)},
	}

	lm.raster.Reset(w, h)
	for _, poly := range polys {
		clipped := poly.ClipToRect(view)
		if clipped.IsDegenerate() {
			continue
		}
		if clipped.SignedArea() < 0 {
			clipped.Reverse()
		}
		lm.raster.MoveTo(float32(clipped[0].X), float32(clipped[0].Y))
		for _, p := range clipped[1:] {
			lm.raster.LineTo(float32(p.X), float32(p.Y))
		}
		lm.raster.ClosePath()
	}
	lm.raster.DrawOp = draw.Src
	lm.raster.Draw(lm.shadow.mask, lm.shadow.rect, image.Opaque, image.Point{})
	return &lm.shadow
}

// ViewportMinus returns the viewport with r subtracted, as a region backed
// by the lightmap's lit scratch buffer. It is only valid until the next
// call.
func (lm *Lightmap) ViewportMinus(r *Region) *Region {
	lit := &lm.lit
	if r == nil {
		for i := range lit.mask.Pix {
			lit.mask.Pix[i] = 0xff
		}
		return lit
	}
	for y := lit.rect.Min.Y; y < lit.rect.Max.Y; y++ {
		row := lit.mask.Pix[(y-lit.rect.Min.Y)*lit.mask.Stride:]
		for x := lit.rect.Min.X; x < lit.rect.Max.X; x++ {
			row[x-lit.rect.Min.X] = 0xff - r.Coverage(x, y)
		}
	}
	return lit
}
