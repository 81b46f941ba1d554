// Package resolver computes the outcome of a finished duel.
package resolver

import (
	"fmt"

	"github.com/mcoot/duelsmp/internal/model"
)

// Outcome is the result of resolving a duel. Winner and Loser are updated
// copies; the inputs are never modified.
type Outcome struct {
	Winner            *model.Player
	Loser             *model.Player
	HeartsTransferred int
}

// Resolve moves the loser's stake to the winner.
//
// The winner's own bet is never at risk. The transfer is capped at the
// loser's current hearts so a total can never go negative, which only
// matters if the loser's hearts were lowered after the duel was created.
func Resolve(duel *model.Duel, winnerID model.PlayerID, players map[model.PlayerID]*model.Player) (*Outcome, error) {
	if !duel.HasParticipant(winnerID) {
		return nil, fmt.Errorf("%w: %s is not in duel %s", model.ErrInvalidWinner, winnerID, duel.ID)
	}
	loserID := duel.Opponent(winnerID)

	winner, ok := players[winnerID]
	if !ok {
		return nil, fmt.Errorf("%w: winner %s is no longer registered", model.ErrInvalidPlayers, winnerID)
	}
	loser, ok := players[loserID]
	if !ok {
		return nil, fmt.Errorf("%w: loser %s is no longer registered", model.ErrInvalidPlayers, loserID)
	}

	transfer := min(duel.BetOf(loserID), loser.CurrentHearts)

	w := winner.Clone()
	w.CurrentHearts += transfer
	w.Wins++
	w.HeartsWon += transfer

	l := loser.Clone()
	l.CurrentHearts -= transfer
	l.Losses++
	l.HeartsLost += transfer

	return &Outcome{
		Winner:            w,
		Loser:             l,
		HeartsTransferred: transfer,
	}, nil
}
