package lighting

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"chosenoffset.com/penumbra/internal/core/shadows"
)

// ErrNegativeRadius is returned when a light is built with a radius below zero
var ErrNegativeRadius = errors.New("negative light radius")

// BuildSprite renders a radial gradient for a light of the given colour and
// radius. The sprite is 2*int(radius) pixels square with straight alpha:
// every pixel carries c's RGB and an alpha falling off linearly from c.A at
// the centre to zero at the rim, measured from pixel centres. A radius of
// zero gives an empty image.
func BuildSprite(c color.NRGBA, radius float64) (*image.NRGBA, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, fmt.Errorf("build light sprite: %w: %v", ErrNegativeRadius, radius)
	}
	side := 2 * int(radius)
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	if side == 0 {
		return img, nil
	}

	for y := 0; y < side; y++ {
		dy := float64(y) + 0.5 - radius
		row := img.Pix[y*img.Stride:]
		for x := 0; x < side; x++ {
			dx := float64(x) + 0.5 - radius
			falloff := 1 - math.Sqrt(dx*dx+dy*dy)/radius
			if falloff <= 0 {
				continue
			}
			a := uint8(math.Round(float64(c.A) * falloff))
			if a == 0 {
				continue
			}
			p := row[x*4 : x*4+4 : x*4+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, a
		}
	}
	return img, nil
}

type spriteKey struct {
	c      color.NRGBA
	radius float64
}

// SpriteCache shares sprites between lights with the same colour and radius.
// The sprites it returns must not be modified.
type SpriteCache struct {
	mu      sync.Mutex
	sprites map[spriteKey]*image.NRGBA
}

// NewSpriteCache creates an empty cache
func NewSpriteCache() *SpriteCache {
	return &SpriteCache{sprites: make(map[spriteKey]*image.NRGBA)}
}

// Get returns the sprite for (c, radius), building it on first use
func (sc *SpriteCache) Get(c color.NRGBA, radius float64) (*image.NRGBA, error) {
	key := spriteKey{c, radius}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if img, ok := sc.sprites[key]; ok {
		return img, nil
	}
	img, err := BuildSprite(c, radius)
	if err != nil {
		return nil, err
	}
	sc.sprites[key] = img
	return img, nil
}

// Len returns the number of cached sprites
func (sc *SpriteCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.sprites)
}

// PointLight is a single radial light with a pre-rendered sprite
type PointLight struct {
	pos    shadows.Point
	radius float64
	color  color.NRGBA
	sprite *image.NRGBA
}

// NewPointLight builds a light at pos. cache may be nil.
func NewPointLight(pos shadows.Point, radius float64, c color.NRGBA, cache *SpriteCache) (*PointLight, error) {
	var (
		sprite *image.NRGBA
		err    error
	)
	if cache != nil {
		sprite, err = cache.Get(c, radius)
	} else {
		sprite, err = BuildSprite(c, radius)
	}
	if err != nil {
		return nil, err
	}
	return &PointLight{pos: pos, radius: radius, color: c, sprite: sprite}, nil
}

func (l *PointLight) Position() shadows.Point { return l.pos }
func (l *PointLight) SetPosition(p shadows.Point) { l.pos = p }
func (l *PointLight) Radius() float64 { return l.radius }
func (l *PointLight) Color() color.NRGBA { return l.color }
func (l *PointLight) Sprite() *image.NRGBA { return l.sprite }

// Origin returns where the sprite's top-left corner lands, truncated
// towards zero.
func (l *PointLight) Origin() image.Point {
	return image.Pt(int(l.pos.X-l.radius), int(l.pos.Y-l.radius))
}
