package scene

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"chosenoffset.com/penumbra/internal/config"
	"chosenoffset.com/penumbra/internal/core/shadows"
	"chosenoffset.com/penumbra/internal/render/lighting"
)

// FromConfig builds a scene sized to the configured window: the random
// squares first, then the explicit occluders and the tile grid, and one
// soft light per configured light.
func FromConfig(cfg *config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := New(cfg.Window.Width, cfg.Window.Height)
	s.Post = cfg.Post
	s.Background, _ = config.ParseColor(cfg.Scene.Background)
	s.OccluderColor, _ = config.ParseColor(cfg.Scene.Occluder)

	sc := cfg.Scene
	s.Occluders = append(s.Occluders, RandomOccluders(sc.RandomOccluders, sc.Seed)...)
	for _, pts := range sc.Occluders {
		poly := make(shadows.Polygon, len(pts))
		for i, p := range pts {
			poly[i] = shadows.Point{X: p.X, Y: p.Y}
		}
		s.Occluders = append(s.Occluders, poly)
	}
	if len(sc.Grid) > 0 {
		s.Occluders = append(s.Occluders, GridOccluders(sc.Grid, float64(sc.TileSize), shadows.Point{X: sc.GridX, Y: sc.GridY})...)
	}

	mode, _ := shadows.ParseSilhouetteMode(sc.Silhouette)
	caster := shadows.Caster{Mode: mode, Samples: sc.Samples}

	for i, lc := range sc.Lights {
		id := lc.ID
		if id == "" {
			id = fmt.Sprintf("light-%d", i)
		}
		c, _ := config.ParseColor(lc.Color)
		center, err := lighting.NewPointLight(shadows.Point{X: lc.X, Y: lc.Y}, lc.Radius, c, s.Lights.Cache())
		if err != nil {
			return nil, fmt.Errorf("light %q: %w", id, err)
		}
		if _, err := s.Lights.AddPointLight(id, center, lc.Shape); err != nil {
			return nil, err
		}
		if lc.FollowCursor {
			s.Followers = append(s.Followers, id)
		}
	}
	s.Lights.SetCaster(caster)

	s.log.Info("scene built",
		zap.Int("occluders", len(s.Occluders)),
		zap.Int("lights", s.Lights.Len()),
		zap.Stringer("silhouette", mode))
	return s, nil
}

// RandomOccluders returns n 20x20 squares scattered around (135, 235) by up
// to ±100 pixels. The same seed always gives the same squares.
func RandomOccluders(n int, seed uint64) []shadows.Polygon {
	rng := rand.New(rand.NewPCG(seed, seed))
	out := make([]shadows.Polygon, 0, max(n, 0))
	for i := 0; i < n; i++ {
		dx := float64(rng.IntN(200) - 100)
		dy := float64(rng.IntN(200) - 100)
		out = append(out, shadows.Polygon{
			{X: 125 + dx, Y: 225 + dy},
			{X: 145 + dx, Y: 225 + dy},
			{X: 145 + dx, Y: 245 + dy},
			{X: 125 + dx, Y: 245 + dy},
		})
	}
	return out
}

// GridOccluders converts tile rows into rectangle occluders. '#' marks a
// blocking tile; every other byte is open. Rows may differ in length.
func GridOccluders(rows []string, tileSize float64, origin shadows.Point) []shadows.Polygon {
	return shadows.OccludersFromGrid(tileRows(rows), tileSize, origin)
}

type tileRows []string

func (r tileRows) Size() (int, int) {
	w := 0
	for _, row := range r {
		w = max(w, len(row))
	}
	return w, len(r)
}

func (r tileRows) BlocksLight(x, y int) bool {
	return x < len(r[y]) && r[y][x] == '#'
}
