package world

type VisibilityState uint8

const (
	Unexplored VisibilityState = iota
	Explored
	Visible
)

// FogOfWar tracks one civilization's knowledge of the map. Tiles downgrade from
// Visible to Explored when vision moves away, never back to Unexplored.
type FogOfWar struct {
	Width  int
	Height int
	cells  []VisibilityState
}

func NewFogOfWar(width, height int) *FogOfWar {
	return &FogOfWar{Width: width, Height: height, cells: make([]VisibilityState, width*height)}
}

func (f *FogOfWar) inBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < f.Width && p.Y < f.Height
}

func (f *FogOfWar) IsVisible(p Point) bool {
	return f.inBounds(p) && f.cells[p.Y*f.Width+p.X] == Visible
}

func (f *FogOfWar) IsExplored(p Point) bool {
	return f.inBounds(p) && f.cells[p.Y*f.Width+p.X] >= Explored
}

// ResetVisibility downgrades every Visible tile to Explored. Called at the start
// of a vision recompute.
func (f *FogOfWar) ResetVisibility() {
	for i, s := range f.cells {
		if s == Visible {
			f.cells[i] = Explored
		}
	}
}

// MarkVisible reveals every tile within range of center, measured in Manhattan
// distance.
func (f *FogOfWar) MarkVisible(center Point, visionRange int) {
	for dy := -visionRange; dy <= visionRange; dy++ {
		for dx := -visionRange; dx <= visionRange; dx++ {
			if abs(dx)+abs(dy) > visionRange {
				continue
			}
			p := Point{X: center.X + dx, Y: center.Y + dy}
			if f.inBounds(p) {
				f.cells[p.Y*f.Width+p.X] = Visible
			}
		}
	}
}
