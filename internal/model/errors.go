package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrDuplicatePlayer    = errors.New("player id already registered")
	ErrInvalidPlayerInput = errors.New("player id and display name are required")
	ErrInvalidAmount      = errors.New("hearts cannot be negative")

	// Duel errors
	ErrDuelNotFound        = errors.New("duel not found")
	ErrInvalidPlayers      = errors.New("invalid duel participants")
	ErrInvalidBet          = errors.New("bet must be between 1 and 5 hearts")
	ErrInsufficientHearts  = errors.New("bet exceeds player's current hearts")
	ErrAlreadyComplete     = errors.New("duel is already complete")
	ErrInvalidWinner       = errors.New("winner is not a participant in this duel")
	ErrInsufficientPlayers = errors.New("at least two eligible players are required")

	// Storage errors
	ErrConcurrentModification = errors.New("ladder state changed concurrently")
)
