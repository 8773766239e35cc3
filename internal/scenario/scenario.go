// Package scenario loads battle setups from YAML and plays them out with a
// simple autopilot.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ironhex/combat/internal/battlemap"
	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/unit"
	"github.com/ironhex/combat/pkg/core"
)

var (
	// ErrUnknownComponent is returned when equipment names neither a catalog
	// entry nor a component kind.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrInvalid is returned for scenarios that cannot produce a battle.
	ErrInvalid = errors.New("invalid scenario")
)

// File is the YAML document.
type File struct {
	Name    string                `yaml:"name"`
	Seed    uint64                `yaml:"seed"`
	Map     MapSpec               `yaml:"map"`
	Weapons map[string]WeaponSpec `yaml:"weapons"`
	Ammo    map[string]AmmoSpec   `yaml:"ammo"`
	Players []PlayerSpec          `yaml:"players"`
}

type MapSpec struct {
	Width  int       `yaml:"width"`
	Height int       `yaml:"height"`
	Hexes  []HexSpec `yaml:"hexes"`
}

type HexSpec struct {
	Col       int    `yaml:"col"`
	Row       int    `yaml:"row"`
	Terrain   string `yaml:"terrain"`
	Elevation int    `yaml:"elevation"`
}

// WeaponSpec is a weapon catalog entry.
type WeaponSpec struct {
	Kind            string `yaml:"kind"`
	Damage          int    `yaml:"damage"`
	Heat            int    `yaml:"heat"`
	MinRange        int    `yaml:"minRange"`
	ShortRange      int    `yaml:"shortRange"`
	MediumRange     int    `yaml:"mediumRange"`
	LongRange       int    `yaml:"longRange"`
	ToHitModifier   int    `yaml:"toHitModifier"`
	RackSize        int    `yaml:"rackSize"`
	ClusterSize     int    `yaml:"clusterSize"`
	AmmoType        string `yaml:"ammoType"`
	ExternalHeat    int    `yaml:"externalHeat"`
	ExplosionDamage int    `yaml:"explosionDamage"`
}

// AmmoSpec is an ammunition catalog entry.
type AmmoSpec struct {
	AmmoType      string `yaml:"ammoType"`
	Shots         int    `yaml:"shots"`
	DamagePerShot int    `yaml:"damagePerShot"`
	Inert         bool   `yaml:"inert"`
}

type PlayerSpec struct {
	Name  string     `yaml:"name"`
	Units []UnitSpec `yaml:"units"`
}

type PilotSpec struct {
	Name     string `yaml:"name"`
	Gunnery  int    `yaml:"gunnery"`
	Piloting int    `yaml:"piloting"`
}

type UnitSpec struct {
	Name            string          `yaml:"name"`
	Tonnage         int             `yaml:"tonnage"`
	Walk            int             `yaml:"walk"`
	Jump            int             `yaml:"jump"`
	EngineHeatSinks *int            `yaml:"engineHeatSinks"`
	DoubleHeatSinks bool            `yaml:"doubleHeatSinks"`
	Pilot           PilotSpec       `yaml:"pilot"`
	Armor           map[string]int  `yaml:"armor"`
	Position        battlemap.Coord `yaml:"position"`
	Facing          int             `yaml:"facing"`
	// Deployed places the unit before the battle starts.
	Deployed  bool        `yaml:"deployed"`
	Equipment []MountSpec `yaml:"equipment"`
}

// MountSpec mounts one component. Component is a weapons or ammo catalog key,
// or a component kind such as HeatSink, JumpJet or CASE.
type MountSpec struct {
	Component string `yaml:"component"`
	Location  string `yaml:"location"`
	Slots     []int  `yaml:"slots"`
	ID        string `yaml:"id"`
}

// Scenario is a loaded battle setup. Its units are live objects: apply a
// Scenario to one game only.
type Scenario struct {
	Name    string
	Seed    uint64
	Map     *battlemap.HexMap
	Players []Player
}

type Player struct {
	ID    uuid.UUID
	Name  string
	Units []Placement
}

// Placement is a unit and where it deploys.
type Placement struct {
	Unit     *unit.Unit
	Position battlemap.Coord
	Facing   battlemap.Facing
	Deployed bool
}

// Load reads and builds a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return f.Build()
}

// Build turns the document into live map and unit objects. Player and unit
// IDs derive from the names so that reruns of a file record the same IDs.
func (f *File) Build() (*Scenario, error) {
	if len(f.Players) < 2 {
		return nil, fmt.Errorf("%w: need at least two players, have %d", ErrInvalid, len(f.Players))
	}
	m, err := f.Map.build()
	if err != nil {
		return nil, err
	}
	s := &Scenario{Name: f.Name, Seed: f.Seed, Map: m}
	ns := uuid.NewSHA1(uuid.NameSpaceURL, []byte("ironhex:"+f.Name))

	for i, ps := range f.Players {
		if ps.Name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalid, i)
		}
		p := Player{ID: uuid.NewSHA1(ns, []byte(ps.Name)), Name: ps.Name}
		for j, us := range ps.Units {
			u, err := f.buildUnit(us)
			if err != nil {
				return nil, fmt.Errorf("player %s unit %q: %w", ps.Name, us.Name, err)
			}
			u.ID = uuid.NewSHA1(p.ID, []byte(fmt.Sprintf("%d:%s", j, us.Name)))
			facing := battlemap.Facing(us.Facing)
			if !facing.Valid() {
				return nil, fmt.Errorf("%w: unit %q facing %d", ErrInvalid, us.Name, us.Facing)
			}
			if !m.InBounds(us.Position) {
				return nil, fmt.Errorf("%w: unit %q placed off the map at %s", ErrInvalid, us.Name, us.Position)
			}
			p.Units = append(p.Units, Placement{Unit: u, Position: us.Position, Facing: facing, Deployed: us.Deployed})
		}
		if len(p.Units) == 0 {
			return nil, fmt.Errorf("%w: player %s has no units", ErrInvalid, ps.Name)
		}
		s.Players = append(s.Players, p)
	}
	return s, nil
}

func (ms MapSpec) build() (*battlemap.HexMap, error) {
	if ms.Width <= 0 || ms.Height <= 0 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrInvalid, ms.Width, ms.Height)
	}
	m := battlemap.New(ms.Width, ms.Height)
	for _, hs := range ms.Hexes {
		terrain := battlemap.Clear
		if hs.Terrain != "" {
			t, err := battlemap.ParseTerrain(hs.Terrain)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
			}
			terrain = t
		}
		h := battlemap.Hex{Coord: battlemap.Coord{Col: hs.Col, Row: hs.Row}, Terrain: terrain, Elevation: hs.Elevation}
		if err := m.Set(h); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return m, nil
}

func (f *File) buildUnit(us UnitSpec) (*unit.Unit, error) {
	if us.Tonnage < 20 || us.Tonnage > 100 {
		return nil, fmt.Errorf("%w: tonnage %d", ErrInvalid, us.Tonnage)
	}
	armor := make(map[core.Location]int, len(us.Armor))
	for name, v := range us.Armor {
		loc, err := core.ParseLocation(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		armor[loc] = v
	}
	pilot := unit.NewPilot(us.Pilot.Name, orDefault(us.Pilot.Gunnery, 4), orDefault(us.Pilot.Piloting, 5))
	u, err := unit.NewBiped(us.Name, us.Tonnage, us.Walk, us.Jump, pilot, armor)
	if err != nil {
		return nil, err
	}
	if us.EngineHeatSinks != nil {
		u.EngineHeatSinks = *us.EngineHeatSinks
	}
	u.DoubleHeatSinks = us.DoubleHeatSinks

	for _, ms := range us.Equipment {
		loc, err := core.ParseLocation(ms.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		c, err := f.component(ms.Component)
		if err != nil {
			return nil, err
		}
		c.ID = ms.ID
		if err := u.Part(loc).Mount(c, ms.Slots...); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (f *File) component(name string) (*unit.Component, error) {
	if ws, ok := f.Weapons[name]; ok {
		kind, err := unit.ParseWeaponKind(ws.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: weapon %s: %w", ErrInvalid, name, err)
		}
		return unit.NewWeapon(name, unit.WeaponStats{
			Kind:            kind,
			Damage:          ws.Damage,
			Heat:            ws.Heat,
			MinRange:        ws.MinRange,
			ShortRange:      ws.ShortRange,
			MediumRange:     ws.MediumRange,
			LongRange:       ws.LongRange,
			ToHitModifier:   ws.ToHitModifier,
			RackSize:        ws.RackSize,
			ClusterSize:     ws.ClusterSize,
			AmmoType:        ws.AmmoType,
			ExternalHeat:    ws.ExternalHeat,
			ExplosionDamage: ws.ExplosionDamage,
		}), nil
	}
	if as, ok := f.Ammo[name]; ok {
		return unit.NewAmmo(name, unit.AmmoStats{
			AmmoType:      as.AmmoType,
			Shots:         as.Shots,
			DamagePerShot: as.DamagePerShot,
			Inert:         as.Inert,
		}), nil
	}
	kind, err := unit.ParseComponentKind(name)
	if err != nil || kind == unit.Weapon || kind == unit.Ammo {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return unit.NewComponent(name, kind), nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Apply registers the players and units with g. Units marked deployed are
// placed on the map right away.
func (s *Scenario) Apply(g *game.Game) error {
	for _, p := range s.Players {
		g.AddPlayer(p.ID, p.Name)
		for _, pl := range p.Units {
			if pl.Deployed {
				pl.Unit.Position = pl.Position
				pl.Unit.Facing = pl.Facing
				pl.Unit.Deployed = true
			}
			if err := g.AddUnit(p.ID, pl.Unit); err != nil {
				return fmt.Errorf("add %s: %w", pl.Unit.Name, err)
			}
		}
	}
	return nil
}

// Placement returns where a unit deploys.
func (s *Scenario) Placement(id uuid.UUID) (Placement, bool) {
	for _, p := range s.Players {
		for _, pl := range p.Units {
			if pl.Unit.ID == id {
				return pl, true
			}
		}
	}
	return Placement{}, false
}
