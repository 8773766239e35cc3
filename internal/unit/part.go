package unit

import (
	"errors"
	"fmt"

	"github.com/ironhex/combat/pkg/core"
)

var (
	// ErrInvalidSlot indicates a slot index outside the part.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrSlotOccupied indicates a slot already holds a component.
	ErrSlotOccupied = errors.New("slot occupied")
	// ErrPartNotFound indicates a unit has no part at the location.
	ErrPartNotFound = errors.New("part not found")
)

// Part is one location of a unit with its armor, internal structure and
// mounted components.
type Part struct {
	Location     core.Location
	MaxArmor     int
	Armor        int
	MaxStructure int
	Structure    int
	HasCASE      bool
	IsBlownOff   bool

	slots      []*Component
	hitSlots   []bool
	components []*Component
}

// NewPart creates an undamaged part.
func NewPart(loc core.Location, armor, structure int) *Part {
	n := loc.SlotCount()
	return &Part{
		Location:     loc,
		MaxArmor:     armor,
		Armor:        armor,
		MaxStructure: structure,
		Structure:    structure,
		slots:        make([]*Component, n),
		hitSlots:     make([]bool, n),
	}
}

// Destroyed reports whether the part has no internal structure left.
func (p *Part) Destroyed() bool {
	return p.Structure <= 0
}

// SlotCount returns the number of critical slots.
func (p *Part) SlotCount() int {
	return len(p.slots)
}

// Mount places c into the given slots. The component ID defaults to the
// location and first slot, e.g. "RA:0".
func (p *Part) Mount(c *Component, slots ...int) error {
	if len(slots) == 0 {
		return fmt.Errorf("%w: %s needs at least one slot", ErrInvalidSlot, c.Name)
	}
	for _, s := range slots {
		if s < 0 || s >= len(p.slots) {
			return fmt.Errorf("%w: %d in %s", ErrInvalidSlot, s, p.Location)
		}
		if p.slots[s] != nil {
			return fmt.Errorf("%w: %d in %s holds %s", ErrSlotOccupied, s, p.Location, p.slots[s].Name)
		}
	}
	for _, s := range slots {
		p.slots[s] = c
	}
	c.Slots = append([]int(nil), slots...)
	if c.ID == "" {
		c.ID = fmt.Sprintf("%s:%d", p.Location.Short(), slots[0])
	}
	if c.Kind == CASE {
		p.HasCASE = true
	}
	p.components = append(p.components, c)
	return nil
}

// ComponentAt returns the component in a slot, nil for an empty slot.
func (p *Part) ComponentAt(slot int) (*Component, error) {
	if slot < 0 || slot >= len(p.slots) {
		return nil, fmt.Errorf("%w: %d in %s", ErrInvalidSlot, slot, p.Location)
	}
	return p.slots[slot], nil
}

// Components returns the mounted components in mount order.
func (p *Part) Components() []*Component {
	return p.components
}

// IsSlotHit reports whether a slot already took a critical hit.
func (p *Part) IsSlotHit(slot int) bool {
	return slot >= 0 && slot < len(p.hitSlots) && p.hitSlots[slot]
}

// MarkSlotHit records a critical hit on a slot.
func (p *Part) MarkSlotHit(slot int) {
	if slot >= 0 && slot < len(p.hitSlots) {
		p.hitSlots[slot] = true
	}
}

// HittableSlots returns the occupied slots that have not been hit, in slot order.
func (p *Part) HittableSlots() []int {
	var out []int
	for i, c := range p.slots {
		if c != nil && !p.hitSlots[i] {
			out = append(out, i)
		}
	}
	return out
}

// IsSlotHittable reports whether a critical hit can land in the slot.
func (p *Part) IsSlotHittable(slot int) bool {
	return slot >= 0 && slot < len(p.slots) && p.slots[slot] != nil && !p.hitSlots[slot]
}

// destroy zeroes the part and disables everything mounted in it. It returns
// false if the part was already destroyed before the caller changed it.
func (p *Part) destroy(wasDestroyed bool) bool {
	p.Armor = 0
	p.Structure = 0
	for _, c := range p.components {
		c.Destroyed = true
	}
	return !wasDestroyed
}

// ApplyDamage removes armor and structure, clamped at zero. It returns true
// if this call destroyed the part.
func (p *Part) ApplyDamage(armor, structure int) bool {
	if p.Destroyed() {
		return false
	}
	p.Armor = max(0, p.Armor-armor)
	p.Structure = max(0, p.Structure-structure)
	if p.Structure == 0 {
		return p.destroy(false)
	}
	return false
}

// BlowOff removes a limb or head outright.
func (p *Part) BlowOff() bool {
	wasDestroyed := p.Destroyed()
	p.IsBlownOff = true
	return p.destroy(wasDestroyed)
}
