package shadows

// BlockGrid reports which tiles of a grid block light
type BlockGrid interface {
	Size() (width, height int)
	BlocksLight(x, y int) bool
}

// tileRun is a horizontal run of blocking tiles [X0, X1) that has been
// extended down to row Y1 (exclusive).
type tileRun struct {
	X0, X1 int
	Y0, Y1 int
}

// OccludersFromGrid turns the blocking tiles of grid into rectangle
// occluders. Runs of blocking tiles in a row are merged first, then runs
// spanning the same columns in consecutive rows are merged into one
// rectangle. Rectangles come out in scan order of their top-left tile.
func OccludersFromGrid(grid BlockGrid, tileSize float64, origin Point) []Polygon {
	width, height := grid.Size()

	var done []tileRun
	open := make(map[[2]int]int) // columns -> index into done, for runs touching the previous row
	for y := 0; y < height; y++ {
		next := make(map[[2]int]int)
		for x := 0; x < width; {
			if !grid.BlocksLight(x, y) {
				x++
				continue
			}
			x0 := x
			for x < width && grid.BlocksLight(x, y) {
				x++
			}
			key := [2]int{x0, x}
			if i, ok := open[key]; ok {
				done[i].Y1 = y + 1
				next[key] = i
				continue
			}
			done = append(done, tileRun{X0: x0, X1: x, Y0: y, Y1: y + 1})
			next[key] = len(done) - 1
		}
		open = next
	}

	polys := make([]Polygon, 0, len(done))
	for _, r := range done {
		minX := origin.X + float64(r.X0)*tileSize
		minY := origin.Y + float64(r.Y0)*tileSize
		maxX := origin.X + float64(r.X1)*tileSize
		maxY := origin.Y + float64(r.Y1)*tileSize
		polys = append(polys, Polygon{
			{minX, minY},
			{maxX, minY},
			{maxX, maxY},
			{minX, maxY},
		})
	}
	return polys
}
