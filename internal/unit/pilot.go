package unit

// MaxInjuries kills a pilot.
const MaxInjuries = 6

// Pilot is the MechWarrior inside a unit.
type Pilot struct {
	Name        string
	Gunnery     int
	Piloting    int
	Injuries    int
	Unconscious bool
	// KnockedOutTurn is the turn the pilot last lost consciousness.
	KnockedOutTurn int
}

// NewPilot creates an unhurt pilot.
func NewPilot(name string, gunnery, piloting int) *Pilot {
	return &Pilot{Name: name, Gunnery: gunnery, Piloting: piloting}
}

// Dead reports whether the pilot has taken lethal injuries.
func (p *Pilot) Dead() bool {
	return p.Injuries >= MaxInjuries
}

// Injure adds injuries, capped at MaxInjuries, and returns how many were applied.
func (p *Pilot) Injure(n int) int {
	if n <= 0 || p.Dead() {
		return 0
	}
	applied := min(n, MaxInjuries-p.Injuries)
	p.Injuries += applied
	return applied
}

// Kill applies lethal injuries.
func (p *Pilot) Kill() {
	p.Injuries = MaxInjuries
}

// CanAct reports whether the pilot can control the unit.
func (p *Pilot) CanAct() bool {
	return !p.Dead() && !p.Unconscious
}
