package redis

import (
	"fmt"

	"github.com/mcoot/duelsmp/internal/model"
)

// Key prefix for all ladder data
const keyPrefix = "duelsmp"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// duelKey returns the Redis key for a Duel
func duelKey(id model.DuelID) string {
	return fmt.Sprintf("%s:duel:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player keys
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// duelsIndexKey returns the Redis key for the SET of all duel keys
func duelsIndexKey() string {
	return fmt.Sprintf("%s:idx:duels", keyPrefix)
}
