package app

import "bigtwo/internal/domain"

// PlayersToStartGame is the number of occupied seats required to deal a game.
// Big Two deals the whole deck, so every seat must be filled.
const PlayersToStartGame = domain.NumPlayers
