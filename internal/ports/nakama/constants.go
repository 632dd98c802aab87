package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcReplayGame rebuilds a game from its handle and a move list.
	RpcReplayGame = "replay_game"

	// MatchNameBigTwo is the authoritative match handler name registered with Nakama.
	MatchNameBigTwo = "bigtwo_match"

	// GameLabel identifies Big Two matches in the match label.
	GameLabel = "bigtwo"

	// RulesConfigPath is read once per process, relative to the Nakama working directory.
	RulesConfigPath = "data/rules.json"

	// tickRate is the number of MatchLoop calls per second.
	tickRate = 1
)

const (
	MatchLabelKey_OpenSeats = "open"
	MatchLabelKey_Game      = "game"
	MatchLabelKey_Phase     = "phase"

	phaseLobby   = "lobby"
	phasePlaying = "playing"

	// Hand orderings accepted by OpQueryState.
	sortByRank = "rank"
	sortBySuit = "suit"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame  int64 = 1
	OpPlayCards  int64 = 2
	OpPassTurn   int64 = 3
	OpQueryState int64 = 5

	// Server -> Client events
	OpMatchState  int64 = 101
	OpGameStarted int64 = 103
	OpHandDealt   int64 = 104 // send privately
	OpCardPlayed  int64 = 105
	OpTurnPassed  int64 = 106
	OpTrickClosed int64 = 107
	OpGameEnded   int64 = 108
	OpPlayerView  int64 = 109 // send privately
	OpGameError   int64 = 110 // send privately
)
