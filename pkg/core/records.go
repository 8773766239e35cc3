package core

import "github.com/google/uuid"

// Sum adds up a set of die results.
func Sum(dice []int) int {
	total := 0
	for _, d := range dice {
		total += d
	}
	return total
}

// Modifier is one named term of a target number.
type Modifier struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// LocationDamageData is the atomic result of applying damage to one location.
type LocationDamageData struct {
	Location            Location `json:"location"`
	ArmorDamage         int      `json:"armorDamage"`
	StructureDamage     int      `json:"structureDamage"`
	IsLocationDestroyed bool     `json:"isLocationDestroyed"`
}

// Total returns armor plus structure damage.
func (d LocationDamageData) Total() int {
	return d.ArmorDamage + d.StructureDamage
}

// LocationHitData is one resolved hit: the location rolls and the damage it caused.
type LocationHitData struct {
	Damage          []LocationDamageData `json:"damage"`
	AimedShotRoll   []int                `json:"aimedShotRoll,omitempty"`
	LocationRoll    []int                `json:"locationRoll,omitempty"`
	Location        Location             `json:"location"`
	InitialLocation *Location            `json:"initialLocation,omitempty"`
}

// TotalDamage sums the damage of every record of the hit.
func (h LocationHitData) TotalDamage() int {
	total := 0
	for _, d := range h.Damage {
		total += d.Total()
	}
	return total
}

// HitLocationsData holds every hit of one weapon. ClusterRoll is empty for
// single-projectile weapons.
type HitLocationsData struct {
	HitLocations []LocationHitData `json:"hitLocations"`
	TotalDamage  int               `json:"totalDamage"`
	ClusterRoll  []int             `json:"clusterRoll,omitempty"`
	MissilesHit  int               `json:"missilesHit,omitempty"`
}

// ComponentHitData describes one component struck by a critical hit.
type ComponentHitData struct {
	Slot                        int                  `json:"slot"`
	ComponentID                 string               `json:"componentId"`
	ComponentName               string               `json:"componentName"`
	ComponentKind               string               `json:"componentKind"`
	ExplosionDamage             int                  `json:"explosionDamage,omitempty"`
	ExplosionDamageDistribution []LocationDamageData `json:"explosionDamageDistribution,omitempty"`
}

// LocationCriticalHitsData is the critical hit check of one location.
type LocationCriticalHitsData struct {
	Location        Location           `json:"location"`
	Roll            []int              `json:"roll"`
	NumCriticalHits int                `json:"numCriticalHits"`
	HitComponents   []ComponentHitData `json:"hitComponents,omitempty"`
	IsBlownOff      bool               `json:"isBlownOff"`
}

// CriticalHitsData groups the critical hit checks a unit received from one impact.
type CriticalHitsData struct {
	UnitID    uuid.UUID                  `json:"unitId"`
	Locations []LocationCriticalHitsData `json:"locations"`
}

// AttackResolutionData is the complete record of one resolved weapon attack.
type AttackResolutionData struct {
	AttackerID       uuid.UUID         `json:"attackerId"`
	TargetID         uuid.UUID         `json:"targetId"`
	WeaponID         string            `json:"weaponId"`
	ToHitNumber      int               `json:"toHitNumber"`
	Modifiers        []Modifier        `json:"modifiers,omitempty"`
	AttackRoll       []int             `json:"attackRoll,omitempty"`
	IsHit            bool              `json:"isHit"`
	AttackDirection  AttackDirection   `json:"attackDirection"`
	ExternalHeat     int               `json:"externalHeat,omitempty"`
	HitLocationsData *HitLocationsData `json:"hitLocations,omitempty"`
	DestroyedParts   []Location        `json:"destroyedParts,omitempty"`
	UnitDestroyed    bool              `json:"unitDestroyed"`
}

// PsrData is a piloting skill roll.
type PsrData struct {
	Reason     string     `json:"reason"`
	Modifiers  []Modifier `json:"modifiers"`
	Target     int        `json:"target"`
	Roll       []int      `json:"roll,omitempty"`
	Success    bool       `json:"success"`
	Impossible bool       `json:"impossible,omitempty"`
}

// ConsciousnessRollData is a pilot consciousness or recovery roll.
type ConsciousnessRollData struct {
	Injuries   int   `json:"injuries"`
	Target     int   `json:"target"`
	Roll       []int `json:"roll"`
	Success    bool  `json:"success"`
	IsRecovery bool  `json:"isRecovery,omitempty"`
}

// FallData is the record of one fall check and, if the unit went down, the
// damage it took.
type FallData struct {
	UnitID          uuid.UUID                  `json:"unitId"`
	Reasons         []string                   `json:"reasons"`
	IsAutomatic     bool                       `json:"isAutomatic"`
	Psrs            []PsrData                  `json:"psrs,omitempty"`
	Fell            bool                       `json:"fell"`
	FacingRoll      []int                      `json:"facingRoll,omitempty"`
	Direction       AttackDirection            `json:"direction"`
	HitLocations    *HitLocationsData          `json:"hitLocations,omitempty"`
	Criticals       []LocationCriticalHitsData `json:"criticals,omitempty"`
	PilotDamageRoll *PsrData                   `json:"pilotDamageRoll,omitempty"`
	PilotInjured    bool                       `json:"pilotInjured"`
	DestroyedParts  []Location                 `json:"destroyedParts,omitempty"`
	UnitDestroyed   bool                       `json:"unitDestroyed"`
}
