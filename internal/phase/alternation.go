package phase

import (
	"github.com/google/uuid"

	"github.com/ironhex/combat/internal/game"
	"github.com/ironhex/combat/internal/unit"
)

// alternation passes the active player role around the players, initiative
// loser first, one unit at a time. Players with nothing left to do are
// skipped.
type alternation struct {
	order []uuid.UUID
	next  int
}

func newAlternation(g *game.Game) *alternation {
	order := g.ReverseInitiative()
	if len(order) == 0 {
		for _, pl := range g.Players {
			order = append(order, pl.ID)
		}
	}
	return &alternation{order: order}
}

// advance makes the next player with a waiting unit active. It returns false
// when no unit is waiting.
func (a *alternation) advance(g *game.Game, waiting func(*unit.Unit) bool) bool {
	for i := range a.order {
		idx := (a.next + i) % len(a.order)
		id := a.order[idx]
		for _, u := range g.PlayerUnits(id) {
			if waiting(u) {
				a.next = (idx + 1) % len(a.order)
				g.SetActivePlayer(id, 1)
				return true
			}
		}
	}
	return false
}
