// Package postfx implements the lightmap post-processing filters: a glow
// brightness boost and a separable box blur.
//
// Both filters work on packed 0xAARRGGBB pixels holding straight alpha.
// The blur averages alpha plainly and colour weighted by alpha, so fully
// transparent pixels never pull colour towards black.
package postfx

import "image"

// Buffer is a pixel buffer that can be read and written as packed row-major
// ARGB pixels.
type Buffer interface {
	Bounds() image.Rectangle
	ReadARGB(dst []uint32) []uint32
	WriteARGB(src []uint32)
}

// Config selects the post-processing steps applied to each frame
type Config struct {
	GlowEnabled bool    `yaml:"glow"`
	GlowAmount  float32 `yaml:"glow_amount"`
	BlurEnabled bool    `yaml:"blur"`
	BlurRadius  int     `yaml:"blur_radius"`
}

// DefaultConfig returns glow at 0.2 and a radius 3 blur, both enabled
func DefaultConfig() Config {
	return Config{
		GlowEnabled: true,
		GlowAmount:  0.2,
		BlurEnabled: true,
		BlurRadius:  3,
	}
}

// Processor applies glow then blur to a buffer. It keeps its scratch
// buffers between frames and must not be shared between goroutines.
type Processor struct {
	front []uint32
	back  []uint32
}

// NewProcessor creates a processor with no scratch space allocated yet
func NewProcessor() *Processor {
	return &Processor{}
}

// Apply runs the enabled filters on buf in place
func (p *Processor) Apply(buf Buffer, cfg Config) {
	if !cfg.GlowEnabled && !cfg.BlurEnabled {
		return
	}
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	p.front = buf.ReadARGB(p.front)
	if cfg.GlowEnabled {
		GlowARGB(p.front, cfg.GlowAmount)
	}
	if cfg.BlurEnabled {
		p.back = grow(p.back, len(p.front))
		blurARGB(p.front, p.back, w, h, cfg.BlurRadius)
	}
	buf.WriteARGB(p.front)
}

// Glow multiplies the colour channels of every pixel in buf by amount*8
func Glow(buf Buffer, amount float32) {
	pix := buf.ReadARGB(nil)
	GlowARGB(pix, amount)
	buf.WriteARGB(pix)
}

// GlowARGB multiplies each colour channel by amount*8, truncating and
// clamping to [0, 255]. Alpha is left untouched.
func GlowARGB(pix []uint32, amount float32) {
	a := amount * 8
	for i, c := range pix {
		r := clampChannel(float32(c>>16&0xff) * a)
		g := clampChannel(float32(c>>8&0xff) * a)
		b := clampChannel(float32(c&0xff) * a)
		pix[i] = c&0xff000000 | r<<16 | g<<8 | b
	}
}

func clampChannel(v float32) uint32 {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint32(n)
}

// BoxBlur blurs buf with a (2*radius+1) wide box, horizontally then
// vertically. A radius below 1 is treated as 1. Uniform input is returned
// unchanged.
func BoxBlur(buf Buffer, radius int) {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	pix := buf.ReadARGB(nil)
	blurARGB(pix, make([]uint32, len(pix)), w, h, radius)
	buf.WriteARGB(pix)
}

// blurARGB blurs pix in place using scratch as the intermediate buffer.
// Each pass writes its output transposed, so running the same pass twice
// covers both axes and leaves the result back in pix.
func blurARGB(pix, scratch []uint32, w, h, radius int) {
	if radius < 1 {
		radius = 1
	}
	blurPass(pix, scratch, w, h, radius)
	blurPass(scratch, pix, h, w, radius)
}

func blurPass(src, dst []uint32, width, height, radius int) {
	window := 2*radius + 1
	sums := make([]uint32, 256*window)
	for i := range sums {
		sums[i] = uint32(i / window)
	}

	// Clamp the initial window to the row when the radius exceeds it.
	index := make([]int, radius+1)
	for i := range index {
		index[i] = min(i, width-1)
	}

	srcRow := 0
	for y := 0; y < height; y++ {
		// sa sums alpha; sr, sg and sb sum colour times alpha.
		var sa, sr, sg, sb int
		add := func(px uint32, n int) {
			a := int(px >> 24 & 0xff)
			sa += n * a
			sr += n * a * int(px>>16&0xff)
			sg += n * a * int(px>>8&0xff)
			sb += n * a * int(px&0xff)
		}
		add(src[srcRow], radius+1)
		for i := 1; i <= radius; i++ {
			add(src[srcRow+index[i]], 1)
		}

		di := y
		for x := 0; x < width; x++ {
			px := sums[sa] << 24
			if sa > 0 {
				px |= uint32(sr/sa)<<16 | uint32(sg/sa)<<8 | uint32(sb/sa)
			}
			dst[di] = px
			di += height

			next := min(x+radius+1, width-1)
			prev := max(x-radius, 0)
			add(src[srcRow+next], 1)
			add(src[srcRow+prev], -1)
		}
		srcRow += width
	}
}

func grow(buf []uint32, n int) []uint32 {
	if cap(buf) < n {
		return make([]uint32, n)
	}
	return buf[:n]
}
