package ranking

import (
	"time"

	"github.com/mcoot/duelsmp/internal/model"
)

// Names resolves player IDs to display names
type Names map[model.PlayerID]string

// NamesOf builds a lookup from the given players
func NamesOf(players []*model.Player) Names {
	names := make(Names, len(players))
	for _, p := range players {
		names[p.ID] = p.DisplayName
	}
	return names
}

// Of returns the display name for id, or the raw id if the player was removed
func (n Names) Of(id model.PlayerID) string {
	if name, ok := n[id]; ok {
		return name
	}
	return string(id)
}

// DuelView is a read-only presentation of a duel. Bets are nil while they
// must stay hidden.
type DuelView struct {
	ID                model.DuelID
	Player1           model.PlayerID
	Player2           model.PlayerID
	Player1Name       string
	Player2Name       string
	P1Bet             *int
	P2Bet             *int
	BetsVisible       bool
	BetMode           model.BetMode
	Status            model.DuelStatus
	Winner            model.PlayerID
	WinnerName        string
	HeartsTransferred int
	Timestamp         time.Time
	CompletedAt       *time.Time
}

// ViewDuel presents a duel, concealing blind bets until it is complete
func ViewDuel(duel *model.Duel, names Names) DuelView {
	view := DuelView{
		ID:                duel.ID,
		Player1:           duel.Player1,
		Player2:           duel.Player2,
		Player1Name:       names.Of(duel.Player1),
		Player2Name:       names.Of(duel.Player2),
		BetsVisible:       duel.BetsVisible(),
		BetMode:           duel.BetMode,
		Status:            duel.Status,
		Winner:            duel.Winner,
		HeartsTransferred: duel.HeartsTransferred,
		Timestamp:         duel.Timestamp,
		CompletedAt:       duel.CompletedAt,
	}
	if view.BetsVisible {
		p1, p2 := duel.P1Bet, duel.P2Bet
		view.P1Bet = &p1
		view.P2Bet = &p2
	}
	if duel.Winner != "" {
		view.WinnerName = names.Of(duel.Winner)
	}
	return view
}

// ViewDuels presents each duel in order
func ViewDuels(duels []*model.Duel, names Names) []DuelView {
	views := make([]DuelView, len(duels))
	for i, d := range duels {
		views[i] = ViewDuel(d, names)
	}
	return views
}
