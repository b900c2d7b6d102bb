// Package lighting builds radial light sprites and the soft lights that
// paint them into a lightmap around polygon occluders.
package lighting

import (
	"fmt"

	"go.uber.org/zap"

	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/logger"
	"chosenoffset.com/penumbra/internal/render/lightmap"
)

type namedLight struct {
	id    string
	light *SoftLight
}

// Manager handles all soft lights in a scene. Lights render in the order
// they were added. It is not safe for concurrent use.
type Manager struct {
	lights []namedLight
	index  map[string]int
	cache  *SpriteCache
	caster shadows.Caster
	log    *zap.Logger
}

// NewManager creates an empty light manager with its own sprite cache
func NewManager() *Manager {
	return &Manager{
		index: make(map[string]int),
		cache: NewSpriteCache(),
		log:   logger.Named("lighting"),
	}
}

// Cache returns the sprite cache shared by the manager's lights
func (m *Manager) Cache() *SpriteCache {
	return m.cache
}

// Add registers light under id. Adding an existing id fails.
func (m *Manager) Add(id string, light *SoftLight) error {
	if _, ok := m.index[id]; ok {
		return fmt.Errorf("light %q already exists", id)
	}
	light.SetCaster(m.caster)
	m.index[id] = len(m.lights)
	m.lights = append(m.lights, namedLight{id: id, light: light})

	p := light.Position()
	m.log.Debug("added light",
		zap.String("id", id),
		zap.Float64("x", p.X),
		zap.Float64("y", p.Y),
		zap.Float64("radius", light.Radius()),
		zap.Int("samples", len(light.Samples())))
	return nil
}

// AddPointLight builds a soft light from a centre light and a shape and
// registers it under id.
func (m *Manager) AddPointLight(id string, center *PointLight, shape Shape) (*SoftLight, error) {
	sl, err := NewSoftLight(center, shape, m.cache)
	if err != nil {
		return nil, fmt.Errorf("light %q: %w", id, err)
	}
	if err := m.Add(id, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

// Remove removes the light with the given id, if any
func (m *Manager) Remove(id string) {
	i, ok := m.index[id]
	if !ok {
		return
	}
	m.lights = append(m.lights[:i], m.lights[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.lights); j++ {
		m.index[m.lights[j].id] = j
	}
}

// Get returns the light with the given id
func (m *Manager) Get(id string) (*SoftLight, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.lights[i].light, true
}

// Lights returns all lights in render order
func (m *Manager) Lights() []*SoftLight {
	out := make([]*SoftLight, len(m.lights))
	for i, nl := range m.lights {
		out[i] = nl.light
	}
	return out
}

// IDs returns the light ids in render order
func (m *Manager) IDs() []string {
	out := make([]string, len(m.lights))
	for i, nl := range m.lights {
		out[i] = nl.id
	}
	return out
}

// Len returns the number of lights
func (m *Manager) Len() int {
	return len(m.lights)
}

// Clear removes every light
func (m *Manager) Clear() {
	m.lights = m.lights[:0]
	clear(m.index)
}

// SetCaster sets the shadow caster on every light, including lights added
// later.
func (m *Manager) SetCaster(c shadows.Caster) {
	m.caster = c
	for _, nl := range m.lights {
		nl.light.SetCaster(c)
	}
}

// Render paints every light into lm
func (m *Manager) Render(lm *lightmap.Lightmap, occluders []shadows.Polygon) {
	for _, nl := range m.lights {
		nl.light.RenderInto(lm, occluders)
	}
}
