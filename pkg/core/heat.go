package core

// HeatData is the heat a unit generated and can sink during one turn.
type HeatData struct {
	MovementHeat        int `json:"movementHeat"`
	WeaponHeat          int `json:"weaponHeat"`
	ExternalHeat        int `json:"externalHeat"`
	EngineHeat          int `json:"engineHeat"`
	HeatSinkDissipation int `json:"heatSinkDissipation"`
	EngineDissipation   int `json:"engineDissipation"`
	ExternalHeatCap     int `json:"externalHeatCap"`
}

// CappedExternalHeat returns the external heat after the cap. A zero cap means
// uncapped.
func (h HeatData) CappedExternalHeat() int {
	if h.ExternalHeatCap > 0 && h.ExternalHeat > h.ExternalHeatCap {
		return h.ExternalHeatCap
	}
	return h.ExternalHeat
}

// TotalHeatPoints is the heat generated this turn.
func (h HeatData) TotalHeatPoints() int {
	return h.MovementHeat + h.WeaponHeat + h.CappedExternalHeat() + h.EngineHeat
}

// TotalHeatDissipationPoints is the heat sunk this turn.
func (h HeatData) TotalHeatDissipationPoints() int {
	return h.HeatSinkDissipation + h.EngineDissipation
}

// Net is generated heat minus dissipation.
func (h HeatData) Net() int {
	return h.TotalHeatPoints() - h.TotalHeatDissipationPoints()
}

// ShutdownData records a unit being powered down.
type ShutdownData struct {
	Reason ShutdownReason `json:"reason"`
	Turn   int            `json:"turn"`
}

// StartupData is an attempt to restart a unit shut down by heat.
type StartupData struct {
	Heat        int   `json:"heat"`
	Target      int   `json:"target"`
	Roll        []int `json:"roll,omitempty"`
	IsAutomatic bool  `json:"isAutomatic"`
	Success     bool  `json:"success"`
}

// ShutdownCheckData is a heat shutdown avoidance check.
type ShutdownCheckData struct {
	Heat        int   `json:"heat"`
	Target      int   `json:"target"`
	Roll        []int `json:"roll,omitempty"`
	IsAutomatic bool  `json:"isAutomatic"`
	Shutdown    bool  `json:"shutdown"`
}

// AmmoExplosionCheckData is a heat induced ammunition explosion check.
type AmmoExplosionCheckData struct {
	Heat        int      `json:"heat"`
	Target      int      `json:"target"`
	Roll        []int    `json:"roll"`
	Exploded    bool     `json:"exploded"`
	Location    Location `json:"location"`
	ComponentID string   `json:"componentId,omitempty"`
	Damage      int      `json:"damage,omitempty"`
}
