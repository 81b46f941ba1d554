package request

// AddPlayerRequest is the request body for POST /api/v1/players
type AddPlayerRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// UpdatePlayerRequest is the request body for PUT /api/v1/players/{id}
type UpdatePlayerRequest struct {
	DisplayName string `json:"display_name"`
}

// UpdateHeartsRequest is the request body for PUT /api/v1/players/{id}/hearts
type UpdateHeartsRequest struct {
	Hearts *int `json:"hearts"`
}

// CreateDuelRequest is the request body for POST /api/v1/duels
type CreateDuelRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	P1Bet   int    `json:"p1_bet"`
	P2Bet   int    `json:"p2_bet"`
	BetMode string `json:"bet_mode"`
}

// CompleteDuelRequest is the request body for POST /api/v1/duels/{id}/complete
type CompleteDuelRequest struct {
	Winner string `json:"winner"`
}
