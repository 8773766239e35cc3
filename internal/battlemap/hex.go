// Package battlemap answers the map queries the combat rules need: distance,
// facing arcs, terrain and line of sight on an odd-q hex grid.
package battlemap

import (
	"fmt"
	"math"

	"github.com/ironhex/combat/pkg/core"
)

// Coord is an offset coordinate (column, row). Odd columns are shifted down
// half a hex.
type Coord struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%02d%02d", c.Col, c.Row)
}

// Facing is a hexside direction, 0 = north, increasing clockwise.
type Facing int

const (
	North Facing = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
)

// Rotate turns the facing by n hexsides clockwise (negative for counterclockwise).
func (f Facing) Rotate(n int) Facing {
	return Facing(((int(f)+n)%6 + 6) % 6)
}

// Valid reports whether the facing is one of the six hexsides.
func (f Facing) Valid() bool {
	return f >= North && f <= NorthWest
}

type cube struct{ q, r, s int }

func toCube(c Coord) cube {
	q := c.Col
	z := c.Row - (c.Col-(c.Col&1))/2
	return cube{q: q, r: -q - z, s: z}
}

func fromCube(c cube) Coord {
	return Coord{Col: c.q, Row: c.s + (c.q-(c.q&1))/2}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance is the number of hexes between two coordinates.
func Distance(a, b Coord) int {
	ac, bc := toCube(a), toCube(b)
	return (abs(ac.q-bc.q) + abs(ac.r-bc.r) + abs(ac.s-bc.s)) / 2
}

var directions = [6]cube{
	{0, 1, -1}, {1, 0, -1}, {1, -1, 0},
	{0, -1, 1}, {-1, 0, 1}, {-1, 1, 0},
}

// Neighbor returns the adjacent hex across the given hexside.
func Neighbor(c Coord, f Facing) Coord {
	d := directions[f.Rotate(0)]
	cc := toCube(c)
	return fromCube(cube{cc.q + d.q, cc.r + d.r, cc.s + d.s})
}

// Bearing returns the hexside direction from one hex that points most
// directly at another.
func Bearing(from, to Coord) Facing {
	if from == to {
		return North
	}
	fc, tc := toCube(from), toCube(to)
	dq, dr, ds := tc.q-fc.q, tc.r-fc.r, tc.s-fc.s
	best, bestDot := North, math.MinInt
	for i, d := range directions {
		dot := dq*d.q + dr*d.r + ds*d.s
		if dot > bestDot {
			best, bestDot = Facing(i), dot
		}
	}
	return best
}

// AttackDirection returns the side of a target, standing at targetPos with
// targetFacing, that an attack from attackerPos strikes.
func AttackDirection(targetPos Coord, targetFacing Facing, attackerPos Coord) core.AttackDirection {
	diff := int(Bearing(targetPos, attackerPos).Rotate(-int(targetFacing)))
	switch diff {
	case 2:
		return core.FromRight
	case 3:
		return core.FromRear
	case 4:
		return core.FromLeft
	default:
		return core.FromFront
	}
}

// Line returns the hexes strictly between a and b.
func Line(a, b Coord) []Coord {
	dist := Distance(a, b)
	if dist <= 1 {
		return nil
	}
	ac, bc := toCube(a), toCube(b)
	out := make([]Coord, 0, dist-1)
	for i := 1; i < dist; i++ {
		t := float64(i) / float64(dist)
		// nudge off exact hex edges so ties round the same way both directions
		q := lerp(float64(ac.q)+1e-6, float64(bc.q)+1e-6, t)
		r := lerp(float64(ac.r)+1e-6, float64(bc.r)+1e-6, t)
		s := lerp(float64(ac.s)-2e-6, float64(bc.s)-2e-6, t)
		out = append(out, fromCube(cubeRound(q, r, s)))
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func cubeRound(q, r, s float64) cube {
	rq, rr, rs := math.Round(q), math.Round(r), math.Round(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	default:
		rs = -rq - rr
	}
	return cube{int(rq), int(rr), int(rs)}
}
