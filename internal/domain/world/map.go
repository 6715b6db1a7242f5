package world

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ManhattanDistance is the movement metric of the map: units step in the four
// cardinal directions only.
func (p Point) ManhattanDistance(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func (p Point) Neighbors() [4]Point {
	return [4]Point{
		{X: p.X, Y: p.Y - 1},
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type TileKind string

const (
	TilePlains   TileKind = "plains"
	TileForest   TileKind = "forest"
	TileMountain TileKind = "mountain"
	TileWater    TileKind = "water"
	TileDesert   TileKind = "desert"
)

type Tile struct {
	Kind     TileKind `json:"kind"`
	Passable bool     `json:"passable"`
	// OwnedBy is zero while the tile is unclaimed.
	OwnedBy uint32 `json:"owned_by,omitempty"`
}

type Map struct {
	Width  int
	Height int
	tiles  []Tile
}

func NewMap(width, height int) *Map {
	m := &Map{Width: width, Height: height, tiles: make([]Tile, width*height)}
	for i := range m.tiles {
		m.tiles[i] = Tile{Kind: TilePlains, Passable: true}
	}
	return m
}

// Generate fills the map with terrain derived from a deterministic hash of the
// seed and coordinates, so two maps built from the same seed are identical.
func Generate(width, height int, seed int64) *Map {
	m := NewMap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			h := coordHash(seed, x, y)
			t := Tile{Kind: TilePlains, Passable: true}
			switch {
			case h%17 == 0:
				t = Tile{Kind: TileWater, Passable: false}
			case h%11 == 0:
				t = Tile{Kind: TileMountain, Passable: false}
			case h%5 == 0:
				t = Tile{Kind: TileForest, Passable: true}
			case h%7 == 0:
				t = Tile{Kind: TileDesert, Passable: true}
			}
			m.tiles[y*width+x] = t
		}
	}
	return m
}

func coordHash(seed int64, x, y int) uint64 {
	h := uint64(seed) ^ 0x9e3779b97f4a7c15
	h ^= uint64(uint32(x)) * 0xff51afd7ed558ccd
	h ^= uint64(uint32(y)) * 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 29
	return h
}

func (m *Map) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

func (m *Map) At(p Point) (Tile, bool) {
	if !m.InBounds(p) {
		return Tile{}, false
	}
	return m.tiles[p.Y*m.Width+p.X], true
}

func (m *Map) IsPassable(p Point) bool {
	t, ok := m.At(p)
	return ok && t.Passable
}

func (m *Map) SetOwner(p Point, civ uint32) bool {
	if !m.InBounds(p) {
		return false
	}
	m.tiles[p.Y*m.Width+p.X].OwnedBy = civ
	return true
}

func (m *Map) OwnerAt(p Point) uint32 {
	t, ok := m.At(p)
	if !ok {
		return 0
	}
	return t.OwnedBy
}
