package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetsVisible(t *testing.T) {
	tests := []struct {
		name     string
		mode     BetMode
		status   DuelStatus
		expected bool
	}{
		{"agreed pending", BetModeAgreed, DuelStatusPending, true},
		{"agreed complete", BetModeAgreed, DuelStatusComplete, true},
		{"blind pending", BetModeBlind, DuelStatusPending, false},
		{"blind complete", BetModeBlind, DuelStatusComplete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Duel{BetMode: tt.mode, Status: tt.status}
			assert.Equal(t, tt.expected, d.BetsVisible())
		})
	}
}

func TestDuelParticipants(t *testing.T) {
	d := &Duel{Player1: "alice", Player2: "bob", P1Bet: 2, P2Bet: 4}

	assert.True(t, d.HasParticipant("alice"))
	assert.True(t, d.HasParticipant("bob"))
	assert.False(t, d.HasParticipant("carol"))

	assert.Equal(t, PlayerID("bob"), d.Opponent("alice"))
	assert.Equal(t, PlayerID("alice"), d.Opponent("bob"))
	assert.Equal(t, PlayerID(""), d.Opponent("carol"))

	assert.Equal(t, 2, d.BetOf("alice"))
	assert.Equal(t, 4, d.BetOf("bob"))
	assert.Equal(t, 0, d.BetOf("carol"))
}

func TestPlayerEliminatedIsDerived(t *testing.T) {
	p := &Player{CurrentHearts: 1}
	assert.False(t, p.Eliminated())

	p.CurrentHearts = 0
	assert.True(t, p.Eliminated())
}

func TestValidBet(t *testing.T) {
	assert.False(t, ValidBet(0))
	assert.True(t, ValidBet(1))
	assert.True(t, ValidBet(5))
	assert.False(t, ValidBet(6))
	assert.False(t, ValidBet(-1))
}
