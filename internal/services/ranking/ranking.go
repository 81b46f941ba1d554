// Package ranking derives leaderboards and dashboard figures from ladder state.
// Every function is read-only and returns new slices.
package ranking

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mcoot/duelsmp/internal/model"
)

// Stats summarises the ladder for the dashboard
type Stats struct {
	ActivePlayers     int
	EliminatedPlayers int
	TotalMatches      int
	CurrentLeader     *model.Player // nil with no players
	MostWins          *model.Player // nil with no players
}

// nameOrder compares display names with English collation, then IDs so the
// order is total. A Collator is not safe for concurrent use.
type nameOrder struct {
	collator *collate.Collator
}

func newNameOrder() nameOrder {
	return nameOrder{collator: collate.New(language.English)}
}

func (o nameOrder) compare(a, b *model.Player) int {
	if c := o.collator.CompareString(a.DisplayName, b.DisplayName); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Leaderboard orders players by hearts, then wins, then display name
func Leaderboard(players []*model.Player) []*model.Player {
	order := newNameOrder()
	sorted := slices.Clone(players)
	slices.SortFunc(sorted, func(a, b *model.Player) int {
		if c := cmp.Compare(b.CurrentHearts, a.CurrentHearts); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return order.compare(a, b)
	})
	return sorted
}

// ByWins orders players by wins, then hearts, then display name
func ByWins(players []*model.Player) []*model.Player {
	order := newNameOrder()
	sorted := slices.Clone(players)
	slices.SortFunc(sorted, func(a, b *model.Player) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(b.CurrentHearts, a.CurrentHearts); c != 0 {
			return c
		}
		return order.compare(a, b)
	})
	return sorted
}

// GetStats computes the dashboard summary
func GetStats(players []*model.Player, duels []*model.Duel) Stats {
	var stats Stats
	for _, p := range players {
		if p.Eliminated() {
			stats.EliminatedPlayers++
		} else {
			stats.ActivePlayers++
		}
	}
	for _, d := range duels {
		if d.IsComplete() {
			stats.TotalMatches++
		}
	}
	if len(players) > 0 {
		stats.CurrentLeader = Leaderboard(players)[0]
		stats.MostWins = ByWins(players)[0]
	}
	return stats
}

// newestFirst orders duels by timestamp descending, then ID descending
func newestFirst(a, b *model.Duel) int {
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

// ActiveDuel returns the most recently created pending duel, or nil
func ActiveDuel(duels []*model.Duel) *model.Duel {
	var active *model.Duel
	for _, d := range duels {
		if !d.IsPending() {
			continue
		}
		if active == nil || newestFirst(d, active) < 0 {
			active = d
		}
	}
	return active
}

// PendingDuels returns every pending duel, newest first
func PendingDuels(duels []*model.Duel) []*model.Duel {
	return filterNewestFirst(duels, (*model.Duel).IsPending)
}

// MatchHistory returns completed duels, newest first
func MatchHistory(duels []*model.Duel) []*model.Duel {
	return filterNewestFirst(duels, (*model.Duel).IsComplete)
}

func filterNewestFirst(duels []*model.Duel, keep func(*model.Duel) bool) []*model.Duel {
	result := make([]*model.Duel, 0, len(duels))
	for _, d := range duels {
		if keep(d) {
			result = append(result, d)
		}
	}
	slices.SortFunc(result, newestFirst)
	return result
}
