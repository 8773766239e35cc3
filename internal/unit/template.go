package unit

import (
	"github.com/ironhex/combat/pkg/core"
)

// internal structure per location by tonnage, in core.Locations order
var structureTable = map[int][8]int{
	20:  {3, 6, 5, 5, 3, 3, 4, 4},
	25:  {3, 8, 6, 6, 4, 4, 6, 6},
	30:  {3, 10, 7, 7, 5, 5, 7, 7},
	35:  {3, 11, 8, 8, 6, 6, 8, 8},
	40:  {3, 12, 10, 10, 6, 6, 10, 10},
	45:  {3, 14, 11, 11, 7, 7, 11, 11},
	50:  {3, 16, 12, 12, 8, 8, 12, 12},
	55:  {3, 18, 13, 13, 9, 9, 13, 13},
	60:  {3, 20, 14, 14, 10, 10, 14, 14},
	65:  {3, 21, 15, 15, 10, 10, 15, 15},
	70:  {3, 22, 15, 15, 11, 11, 15, 15},
	75:  {3, 23, 16, 16, 12, 12, 16, 16},
	80:  {3, 25, 17, 17, 13, 13, 17, 17},
	85:  {3, 27, 18, 18, 14, 14, 18, 18},
	90:  {3, 29, 19, 19, 15, 15, 19, 19},
	95:  {3, 30, 20, 20, 16, 16, 20, 20},
	100: {3, 31, 21, 21, 17, 17, 21, 21},
}

// StructureFor returns the internal structure of a location for a tonnage,
// rounding down to the nearest listed weight class.
func StructureFor(tonnage int, loc core.Location) int {
	best := 20
	for t := range structureTable {
		if t <= tonnage && t > best {
			best = t
		}
	}
	return structureTable[best][loc]
}

// MaxArmor is the armor ceiling of a location: nine on the head, twice the
// internal structure elsewhere.
func MaxArmor(tonnage int, loc core.Location) int {
	if loc == core.Head {
		return 9
	}
	return StructureFor(tonnage, loc) * 2
}

type fixedMount struct {
	name  string
	kind  ComponentKind
	slots []int
}

var bipedInternals = map[core.Location][]fixedMount{
	core.Head: {
		{"Life Support", LifeSupport, []int{0, 5}},
		{"Sensors", Sensors, []int{1, 4}},
		{"Cockpit", Cockpit, []int{2}},
	},
	core.CenterTorso: {
		{"Engine", Engine, []int{0, 1, 2, 7, 8, 9}},
		{"Gyro", Gyro, []int{3, 4, 5, 6}},
	},
	core.LeftArm:  armActuators(),
	core.RightArm: armActuators(),
	core.LeftLeg:  legActuators(),
	core.RightLeg: legActuators(),
}

func armActuators() []fixedMount {
	return []fixedMount{
		{"Shoulder", Shoulder, []int{0}},
		{"Upper Arm Actuator", UpperArmActuator, []int{1}},
		{"Lower Arm Actuator", LowerArmActuator, []int{2}},
		{"Hand Actuator", HandActuator, []int{3}},
	}
}

func legActuators() []fixedMount {
	return []fixedMount{
		{"Hip", Hip, []int{0}},
		{"Upper Leg Actuator", UpperLegActuator, []int{1}},
		{"Lower Leg Actuator", LowerLegActuator, []int{2}},
		{"Foot Actuator", FootActuator, []int{3}},
	}
}

// NewBiped builds a unit with the standard biped layout: structure from the
// tonnage table, cockpit equipment, engine, gyro and actuators. Locations
// missing from armor get the maximum armor.
func NewBiped(name string, tonnage, walkMP, jumpMP int, pilot *Pilot, armor map[core.Location]int) (*Unit, error) {
	u := New(name, tonnage, walkMP, jumpMP, pilot)
	for _, loc := range core.Locations {
		a, ok := armor[loc]
		if !ok {
			a = MaxArmor(tonnage, loc)
		}
		p := NewPart(loc, a, StructureFor(tonnage, loc))
		for _, m := range bipedInternals[loc] {
			if err := p.Mount(NewComponent(m.name, m.kind), m.slots...); err != nil {
				return nil, err
			}
		}
		u.AddPart(p)
	}
	return u, nil
}
