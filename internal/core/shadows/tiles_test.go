package shadows

import "testing"

type rows []string

func (r rows) Size() (int, int) {
	if len(r) == 0 {
		return 0, 0
	}
	return len(r[0]), len(r)
}

func (r rows) BlocksLight(x, y int) bool {
	return x < len(r[y]) && r[y][x] == '#'
}

func TestOccludersFromGrid(t *testing.T) {
	tests := []struct {
		name string
		grid rows
		want []Rect
	}{
		{
			name: "empty",
			grid: rows{"....", "...."},
		},
		{
			name: "block and single tile",
			grid: rows{
				"##..",
				"##..",
				"...#",
			},
			want: []Rect{
				{Min: Point{0, 0}, Max: Point{20, 20}},
				{Min: Point{30, 20}, Max: Point{40, 30}},
			},
		},
		{
			name: "runs split by a gap",
			grid: rows{
				"###",
				"#.#",
			},
			want: []Rect{
				{Min: Point{0, 0}, Max: Point{30, 10}},
				{Min: Point{0, 10}, Max: Point{10, 20}},
				{Min: Point{20, 10}, Max: Point{30, 20}},
			},
		},
		{
			name: "column",
			grid: rows{".#", ".#", ".#"},
			want: []Rect{{Min: Point{10, 0}, Max: Point{20, 30}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OccludersFromGrid(tt.grid, 10, Point{})
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d occluders, got %d: %v", len(tt.want), len(got), got)
			}
			for i, poly := range got {
				if b := poly.Bounds(); b != tt.want[i] {
					t.Errorf("occluder %d: expected %+v, got %+v", i, tt.want[i], b)
				}
				if poly.SignedArea() <= 0 {
					t.Errorf("occluder %d should wind like the other occluders, area %v", i, poly.SignedArea())
				}
			}
		})
	}
}

func TestOccludersFromGridOrigin(t *testing.T) {
	got := OccludersFromGrid(rows{"#"}, 32, Point{100, 50})
	if len(got) != 1 {
		t.Fatalf("expected one occluder, got %d", len(got))
	}
	if got[0][0] != (Point{100, 50}) || got[0][2] != (Point{132, 82}) {
		t.Errorf("unexpected corners %v", got[0])
	}
}
