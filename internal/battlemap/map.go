package battlemap

import (
	"fmt"
	"strings"
)

// Terrain is the ground cover of a hex.
type Terrain int

const (
	Clear Terrain = iota
	LightWoods
	HeavyWoods
	Water
	Rough
)

var terrainNames = []string{"Clear", "LightWoods", "HeavyWoods", "Water", "Rough"}

func (t Terrain) String() string {
	if t >= 0 && int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("Terrain(%d)", int(t))
}

// ParseTerrain parses a terrain name, case-insensitive.
func ParseTerrain(s string) (Terrain, error) {
	for i, name := range terrainNames {
		if strings.EqualFold(name, s) {
			return Terrain(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain: %q", s)
}

// woodsLevel is the to-hit and LOS weight of the terrain.
func (t Terrain) woodsLevel() int {
	switch t {
	case LightWoods:
		return 1
	case HeavyWoods:
		return 2
	}
	return 0
}

// Hex is one map cell.
type Hex struct {
	Coord     Coord
	Terrain   Terrain
	Elevation int
}

// LineOfSight is the result of tracing a line between two hexes.
type LineOfSight struct {
	Clear bool
	// InterveningWoods is the summed woods level of hexes between the two ends.
	InterveningWoods int
	// TargetWoods is the woods level of the target hex.
	TargetWoods int
	// ElevationModifier is -1 when firing down, +1 when firing up.
	ElevationModifier int
}

// Map is the query surface the rules engine consumes.
type Map interface {
	Hex(c Coord) (Hex, bool)
	Distance(a, b Coord) int
	LineOfSight(from, to Coord) LineOfSight
}

// HexMap is a rectangular board. Unset hexes inside the bounds are clear at
// elevation zero.
type HexMap struct {
	width  int
	height int
	hexes  map[Coord]Hex
}

// New creates a clear board of the given size. Coordinates run from 0 to
// width-1 and height-1.
func New(width, height int) *HexMap {
	return &HexMap{width: width, height: height, hexes: make(map[Coord]Hex)}
}

// Width returns the number of columns.
func (m *HexMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *HexMap) Height() int { return m.height }

// InBounds reports whether c lies on the board.
func (m *HexMap) InBounds(c Coord) bool {
	return c.Col >= 0 && c.Col < m.width && c.Row >= 0 && c.Row < m.height
}

// Set overrides a hex. Hexes outside the board are rejected.
func (m *HexMap) Set(h Hex) error {
	if !m.InBounds(h.Coord) {
		return fmt.Errorf("hex %s outside %dx%d board", h.Coord, m.width, m.height)
	}
	m.hexes[h.Coord] = h
	return nil
}

func (m *HexMap) Hex(c Coord) (Hex, bool) {
	if !m.InBounds(c) {
		return Hex{}, false
	}
	if h, ok := m.hexes[c]; ok {
		return h, true
	}
	return Hex{Coord: c}, true
}

func (m *HexMap) Distance(a, b Coord) int {
	return Distance(a, b)
}

// LineOfSight traces from the attacker to the target. Units stand one level
// above their hex, so a hex blocks when it rises above both ends. Woods
// between the two hexes add one point for light and two for heavy; three or
// more points block the line.
func (m *HexMap) LineOfSight(from, to Coord) LineOfSight {
	src, ok := m.Hex(from)
	if !ok {
		return LineOfSight{}
	}
	dst, ok := m.Hex(to)
	if !ok {
		return LineOfSight{}
	}

	los := LineOfSight{Clear: true, TargetWoods: dst.Terrain.woodsLevel()}
	switch {
	case src.Elevation > dst.Elevation:
		los.ElevationModifier = -1
	case src.Elevation < dst.Elevation:
		los.ElevationModifier = 1
	}

	fromLevel := src.Elevation + 1
	toLevel := dst.Elevation + 1
	for _, c := range Line(from, to) {
		h, ok := m.Hex(c)
		if !ok {
			continue
		}
		if h.Elevation > fromLevel && h.Elevation > toLevel {
			return LineOfSight{}
		}
		if h.Elevation >= min(src.Elevation, dst.Elevation) {
			los.InterveningWoods += h.Terrain.woodsLevel()
		}
	}
	if los.InterveningWoods >= 3 {
		return LineOfSight{}
	}
	return los
}
