package response

import (
	"time"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/ranking"
)

// Player represents a player in API responses
type Player struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	CurrentHearts int       `json:"current_hearts"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	HeartsWon     int       `json:"hearts_won"`
	HeartsLost    int       `json:"hearts_lost"`
	Eliminated    bool      `json:"eliminated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:            string(p.ID),
		DisplayName:   p.DisplayName,
		CurrentHearts: p.CurrentHearts,
		Wins:          p.Wins,
		Losses:        p.Losses,
		HeartsWon:     p.HeartsWon,
		HeartsLost:    p.HeartsLost,
		Eliminated:    p.Eliminated(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PlayersFromModel converts a slice of players, preserving order
func PlayersFromModel(players []*model.Player) []Player {
	result := make([]Player, len(players))
	for i, p := range players {
		result[i] = PlayerFromModel(p)
	}
	return result
}

// PlayerList wraps a list of players
type PlayerList struct {
	Players []Player `json:"players"`
}

// Eligibility is the response for GET /api/v1/players/{id}/eligibility
type Eligibility struct {
	PlayerID string `json:"player_id"`
	Eligible bool   `json:"eligible"`
}

// Duel is the display view of a duel. Bets are null while concealed.
type Duel struct {
	ID                string     `json:"id"`
	Player1           string     `json:"player1"`
	Player2           string     `json:"player2"`
	Player1Name       string     `json:"player1_name"`
	Player2Name       string     `json:"player2_name"`
	P1Bet             *int       `json:"p1_bet"`
	P2Bet             *int       `json:"p2_bet"`
	BetsVisible       bool       `json:"bets_visible"`
	BetMode           string     `json:"bet_mode"`
	Status            string     `json:"status"`
	Winner            *string    `json:"winner"`
	WinnerName        *string    `json:"winner_name"`
	HeartsTransferred int        `json:"hearts_transferred"`
	Timestamp         time.Time  `json:"timestamp"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// DuelFromView converts a ranking.DuelView
func DuelFromView(v ranking.DuelView) Duel {
	d := Duel{
		ID:                string(v.ID),
		Player1:           string(v.Player1),
		Player2:           string(v.Player2),
		Player1Name:       v.Player1Name,
		Player2Name:       v.Player2Name,
		P1Bet:             v.P1Bet,
		P2Bet:             v.P2Bet,
		BetsVisible:       v.BetsVisible,
		BetMode:           string(v.BetMode),
		Status:            string(v.Status),
		HeartsTransferred: v.HeartsTransferred,
		Timestamp:         v.Timestamp,
		CompletedAt:       v.CompletedAt,
	}
	if v.Winner != "" {
		winner := string(v.Winner)
		name := v.WinnerName
		d.Winner = &winner
		d.WinnerName = &name
	}
	return d
}

// DuelsFromViews converts a slice of views, preserving order
func DuelsFromViews(views []ranking.DuelView) []Duel {
	result := make([]Duel, len(views))
	for i, v := range views {
		result[i] = DuelFromView(v)
	}
	return result
}

// DuelList wraps a list of duels
type DuelList struct {
	Duels []Duel `json:"duels"`
}

// ActiveDuel wraps the current pending duel, which may be absent
type ActiveDuel struct {
	Duel *Duel `json:"duel"`
}

// Stats is the dashboard summary
type Stats struct {
	ActivePlayers     int     `json:"active_players"`
	EliminatedPlayers int     `json:"eliminated_players"`
	TotalMatches      int     `json:"total_matches"`
	CurrentLeader     *Player `json:"current_leader"`
	MostWins          *Player `json:"most_wins"`
}

// StatsFromRanking converts ranking.Stats
func StatsFromRanking(s ranking.Stats) Stats {
	stats := Stats{
		ActivePlayers:     s.ActivePlayers,
		EliminatedPlayers: s.EliminatedPlayers,
		TotalMatches:      s.TotalMatches,
	}
	if s.CurrentLeader != nil {
		p := PlayerFromModel(s.CurrentLeader)
		stats.CurrentLeader = &p
	}
	if s.MostWins != nil {
		p := PlayerFromModel(s.MostWins)
		stats.MostWins = &p
	}
	return stats
}

// Dashboard combines stats, the active duel and the leaderboard read from
// one snapshot
type Dashboard struct {
	Stats       Stats    `json:"stats"`
	ActiveDuel  *Duel    `json:"active_duel"`
	Leaderboard []Player `json:"leaderboard"`
}
