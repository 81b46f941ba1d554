package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printLeaderboard(v.Players)
	case Eligibility:
		o.printEligibility(v)
	case Duel:
		o.printDuel(v)
	case DuelList:
		o.printDuelList(v.Duels)
	case ActiveDuel:
		o.printActiveDuel(v)
	case Stats:
		o.printStats(v)
	case Dashboard:
		o.printDashboard(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	CurrentHearts int    `json:"current_hearts"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	HeartsWon     int    `json:"hearts_won"`
	HeartsLost    int    `json:"hearts_lost"`
	Eliminated    bool   `json:"eliminated"`
}

// PlayerList response type
type PlayerList struct {
	Players []Player `json:"players"`
}

// Eligibility response type
type Eligibility struct {
	PlayerID string `json:"player_id"`
	Eligible bool   `json:"eligible"`
}

// Duel response type. Bets are nil while concealed.
type Duel struct {
	ID                string    `json:"id"`
	Player1           string    `json:"player1"`
	Player2           string    `json:"player2"`
	Player1Name       string    `json:"player1_name"`
	Player2Name       string    `json:"player2_name"`
	P1Bet             *int      `json:"p1_bet"`
	P2Bet             *int      `json:"p2_bet"`
	BetsVisible       bool      `json:"bets_visible"`
	BetMode           string    `json:"bet_mode"`
	Status            string    `json:"status"`
	Winner            *string   `json:"winner"`
	WinnerName        *string   `json:"winner_name"`
	HeartsTransferred int       `json:"hearts_transferred"`
	Timestamp         time.Time `json:"timestamp"`
}

// DuelList response type
type DuelList struct {
	Duels []Duel `json:"duels"`
}

// ActiveDuel response type
type ActiveDuel struct {
	Duel *Duel `json:"duel"`
}

// Stats response type
type Stats struct {
	ActivePlayers     int     `json:"active_players"`
	EliminatedPlayers int     `json:"eliminated_players"`
	TotalMatches      int     `json:"total_matches"`
	CurrentLeader     *Player `json:"current_leader"`
	MostWins          *Player `json:"most_wins"`
}

// Dashboard combines the summary views fetched by the dashboard command
type Dashboard struct {
	Stats       Stats    `json:"stats"`
	ActiveDuel  *Duel    `json:"active_duel"`
	Leaderboard []Player `json:"leaderboard"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Hearts: %d\n", p.CurrentHearts)
	fmt.Fprintf(o.w, "Record: %dW %dL\n", p.Wins, p.Losses)
	fmt.Fprintf(o.w, "Hearts won/lost: %d/%d\n", p.HeartsWon, p.HeartsLost)
	if p.Eliminated {
		fmt.Fprintln(o.w, "Status: eliminated")
	}
}

func (o *Output) printLeaderboard(players []Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tHEARTS\tWINS\tLOSSES\t")
	for i, p := range players {
		hearts := strconv.Itoa(p.CurrentHearts)
		if p.Eliminated {
			hearts += " (out)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t\n", i+1, p.ID, p.DisplayName, hearts, p.Wins, p.Losses)
	}
	_ = tw.Flush()
}

func (o *Output) printEligibility(e Eligibility) {
	if e.Eligible {
		fmt.Fprintf(o.w, "%s is eligible to duel\n", e.PlayerID)
	} else {
		fmt.Fprintf(o.w, "%s is not eligible to duel\n", e.PlayerID)
	}
}

func (o *Output) printDuel(d Duel) {
	fmt.Fprintf(o.w, "Duel: %s\n", d.ID)
	fmt.Fprintf(o.w, "Status: %s\n", d.Status)
	fmt.Fprintf(o.w, "Mode: %s\n", d.BetMode)
	fmt.Fprintf(o.w, "Players: %s vs %s\n", d.Player1Name, d.Player2Name)
	fmt.Fprintf(o.w, "Bets: %s\n", betsText(d))
	if d.WinnerName != nil {
		fmt.Fprintf(o.w, "Winner: %s (+%d hearts)\n", *d.WinnerName, d.HeartsTransferred)
	}
}

func (o *Output) printDuelList(duels []Duel) {
	if len(duels) == 0 {
		fmt.Fprintln(o.w, "No duels")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tMATCH\tBETS\tWINNER\t")
	for _, d := range duels {
		winner := "-"
		if d.WinnerName != nil {
			winner = fmt.Sprintf("%s (+%d)", *d.WinnerName, d.HeartsTransferred)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s vs %s\t%s\t%s\t\n", d.ID, d.Status, d.Player1Name, d.Player2Name, betsText(d), winner)
	}
	_ = tw.Flush()
}

func (o *Output) printActiveDuel(a ActiveDuel) {
	if a.Duel == nil {
		fmt.Fprintln(o.w, "No active duel")
		return
	}
	o.printDuel(*a.Duel)
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Active players: %d\n", s.ActivePlayers)
	fmt.Fprintf(o.w, "Eliminated players: %d\n", s.EliminatedPlayers)
	fmt.Fprintf(o.w, "Matches played: %d\n", s.TotalMatches)
	if s.CurrentLeader != nil {
		fmt.Fprintf(o.w, "Leader: %s (%d hearts)\n", s.CurrentLeader.DisplayName, s.CurrentLeader.CurrentHearts)
	}
	if s.MostWins != nil {
		fmt.Fprintf(o.w, "Most wins: %s (%d)\n", s.MostWins.DisplayName, s.MostWins.Wins)
	}
}

func (o *Output) printDashboard(d Dashboard) {
	o.printStats(d.Stats)
	fmt.Fprintln(o.w)
	o.printActiveDuel(ActiveDuel{Duel: d.ActiveDuel})
	fmt.Fprintln(o.w)
	o.printLeaderboard(d.Leaderboard)
}

func betsText(d Duel) string {
	if !d.BetsVisible || d.P1Bet == nil || d.P2Bet == nil {
		return "hidden"
	}
	return fmt.Sprintf("%d / %d", *d.P1Bet, *d.P2Bet)
}
