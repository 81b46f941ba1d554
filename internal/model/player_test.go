package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameState(t *testing.T) {
	base := NewPlayer("alice", "Alice", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		change   func(p *Player)
		expected bool
	}{
		{"identical", func(p *Player) {}, true},
		{"same instant in another zone", func(p *Player) { p.UpdatedAt = p.UpdatedAt.In(time.FixedZone("X", 3600)) }, true},
		{"hearts", func(p *Player) { p.CurrentHearts = 9 }, false},
		{"losses", func(p *Player) { p.Losses++ }, false},
		{"hearts lost", func(p *Player) { p.HeartsLost = 1 }, false},
		{"name", func(p *Player) { p.DisplayName = "Al" }, false},
		{"updated at", func(p *Player) { p.UpdatedAt = p.UpdatedAt.Add(time.Nanosecond) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base.Clone()
			tt.change(other)
			assert.Equal(t, tt.expected, base.SameState(other))
		})
	}
}
