package nakama

import (
	"context"
	"database/sql"
	"time"

	"bigtwo/internal/app"
	"bigtwo/internal/config"
	"bigtwo/internal/domain"
	"bigtwo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
// Nakama calls the handler for one match serially, so the Game inside is never
// touched by two actions at once.
type MatchState struct {
	Seats        [domain.NumPlayers]string   `json:"seats"`         // Array of user IDs, empty string means seat is empty
	OwnerSeat    int                         `json:"owner_seat"`    // Seat index of the match owner
	Tick         int64                       `json:"tick"`          // Current tick of the match
	TurnTicks    int64                       `json:"turn_ticks"`    // Ticks a seat may take per turn, 0 disables the timer
	TurnDeadline int64                       `json:"turn_deadline"` // Tick at which the seat to act is auto-played
	Presences    map[string]runtime.Presence `json:"-"`             // Map UserId -> Presence for targeted messaging
	App          *app.Service                `json:"-"`             // Game controller
	Game         *domain.Game                `json:"-"`             // Current game (nil if in lobby)
	Handle       app.GameHandle              `json:"-"`             // Handle of the current or last game
	Wins         ports.WinRecorder           `json:"-"`             // Win reporting, may be nil
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

// seatOf returns the seat held by userID, or -1.
func (ms *MatchState) seatOf(userID string) int {
	for i, seatUserID := range ms.Seats {
		if seatUserID != "" && seatUserID == userID {
			return i
		}
	}
	return -1
}

// findFirstConnectedSeat returns the first seat whose occupant is connected, or -1.
func findFirstConnectedSeat(seats []string, presences map[string]runtime.Presence) int {
	for i, userID := range seats {
		if userID == "" {
			continue
		}
		if _, ok := presences[userID]; ok {
			return i
		}
	}
	return -1
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := loadRulesConfig(ctx, logger)

	rules, err := cfg.Rules()
	if err != nil {
		logger.Warn("MatchInit: %v, using default rules", err)
		rules = domain.DefaultRules()
	}

	state := &MatchState{
		OwnerSeat: -1,
		TurnTicks: int64(cfg.TurnDuration()/time.Second) * tickRate,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(rules, app.NewHandleIssuer(cfg.HandleSecret)),
	}
	if nk != nil {
		state.Wins = NewNakamaLeaderboardAdapter(nk, cfg.LeaderboardID)
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, tickRate, label
}

// loadRulesConfig applies the runtime environment over the loaded file.
func loadRulesConfig(ctx context.Context, logger runtime.Logger) config.RulesConfig {
	cfg := config.GetRulesConfig()
	environ, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if err := config.ApplyEnv(&cfg, environ); err != nil {
		logger.Warn("Could not apply runtime environment to rules config: %v", err)
		cfg = config.GetRulesConfig()
	}
	return cfg
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always come back.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if matchState.Game != nil {
		return state, false, "Game in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		if seat := matchState.seatOf(p.GetUserId()); seat >= 0 {
			logger.Info("MatchJoin: User %s rejoined seat %d", p.GetUserId(), seat)
			continue
		}

		assigned := false
		for i, seatUserID := range matchState.Seats {
			if seatUserID == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}
		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat was available.", p.GetUserId())
		}
	}

	if _, connected := matchState.Presences[seatUser(matchState, matchState.OwnerSeat)]; !connected {
		matchState.OwnerSeat = findFirstConnectedSeat(matchState.Seats[:], matchState.Presences)
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	// A player coming back mid-game needs their hand again.
	if matchState.Game != nil {
		for _, p := range presences {
			if seat := matchState.seatOf(p.GetUserId()); seat >= 0 {
				mh.sendView(matchState, dispatcher, logger, p.GetUserId(), seat, false)
			}
		}
	}

	return matchState
}

// MatchLeave is called when one or more players leave the match. Seats are
// freed in the lobby; during a game they are held and the turn timer plays
// for absent players.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		if matchState.Game == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)
		} else {
			logger.Info("MatchLeave: User %s left during a game, seat %d held.", p.GetUserId(), seat)
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected players.")
		return nil
	}

	newOwnerSeat := findFirstConnectedSeat(matchState.Seats[:], matchState.Presences)
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		logger.Debug("MatchLeave: Owner set to seat %d.", newOwnerSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLoop processes queued messages in arrival order, then enforces the turn timer.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		case OpQueryState:
			mh.handleQueryState(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.enforceTurnDeadline(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	switch {
	case state.Game != nil:
		mh.sendError(state, dispatcher, logger, senderID, errInGame)
		return
	case senderSeat < 0 || senderSeat != state.OwnerSeat:
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, errNotOwner)
		return
	case state.GetOccupiedSeatCount() < app.PlayersToStartGame:
		logger.Warn("StartGame: Cannot start with %d players. Need %d.", state.GetOccupiedSeatCount(), app.PlayersToStartGame)
		mh.sendError(state, dispatcher, logger, senderID, app.ErrTooFewPlayers)
		return
	}

	game, handle, events, err := state.App.StartGame(state.Seats, nil)
	if err != nil {
		logger.Warn("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	state.Game = game
	state.Handle = handle
	mh.resetTurnDeadline(state)

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	logger.WithField("game_id", handle.ID).Info("StartGame: Game started, seat %d opens.", handle.OpeningSeat)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if senderSeat < 0 {
		mh.sendError(state, dispatcher, logger, senderID, errNotSeated)
		return
	}

	cards, err := decodePlayRequest(msg.GetData())
	if err != nil {
		logger.Warn("handlePlayCards: User %s sent a bad request: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	out, err := state.App.PlayCards(state.Game, senderSeat, cards)
	if err != nil {
		logger.Warn("handlePlayCards: User %s (seat %d) failed to play %v: %v", senderID, senderSeat, cards, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	mh.applyOutcome(ctx, state, dispatcher, logger, out)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if senderSeat < 0 {
		mh.sendError(state, dispatcher, logger, senderID, errNotSeated)
		return
	}

	out, err := state.App.PassTurn(state.Game, senderSeat)
	if err != nil {
		logger.Warn("handlePassTurn: User %s (seat %d) failed to pass turn: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	mh.applyOutcome(ctx, state, dispatcher, logger, out)
}

func (mh *matchHandler) handleQueryState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)
	if senderSeat < 0 {
		mh.sendError(state, dispatcher, logger, senderID, errNotSeated)
		return
	}
	bySuit, err := decodeQueryRequest(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	mh.sendView(state, dispatcher, logger, senderID, senderSeat, bySuit)
}

// enforceTurnDeadline auto-plays for the seat to act once its time is up: a
// pass when one is legal, otherwise the weakest legal lead.
func (mh *matchHandler) enforceTurnDeadline(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.TurnTicks <= 0 || state.Tick < state.TurnDeadline {
		return
	}

	seat := state.Game.Turn
	out, err := state.App.PassTurn(state.Game, seat)
	if err != nil {
		plays := domain.LegalPlays(state.Game, seat)
		if len(plays) == 0 {
			logger.Error("TurnTimer: Seat %d can neither pass nor play: %v", seat, err)
			mh.resetTurnDeadline(state)
			return
		}
		out, err = state.App.PlayCards(state.Game, seat, plays[0].Cards)
		if err != nil {
			logger.Error("TurnTimer: Forced play for seat %d rejected: %v", seat, err)
			mh.resetTurnDeadline(state)
			return
		}
		logger.Info("TurnTimer: Seat %d timed out, played %s.", seat, plays[0])
	} else {
		logger.Info("TurnTimer: Seat %d timed out, passed.", seat)
	}

	mh.applyOutcome(ctx, state, dispatcher, logger, out)
}

func (mh *matchHandler) resetTurnDeadline(state *MatchState) {
	state.TurnDeadline = state.Tick + state.TurnTicks
}

// applyOutcome publishes the events of an accepted action and closes the game
// when it ended.
func (mh *matchHandler) applyOutcome(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, out app.TurnOutcome) {
	for _, ev := range out.Events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	if !out.GameOver {
		mh.resetTurnDeadline(state)
		return
	}

	winnerID := state.Seats[out.Winner]
	logger.WithField("game_id", state.Handle.ID).Info("Game ended, seat %d (%s) won.", out.Winner, winnerID)

	if state.Wins != nil {
		rec := ports.WinRecord{
			UserID:    winnerID,
			Username:  winnerID,
			GameID:    state.Handle.ID,
			CardsLeft: make([]int, 0, domain.NumPlayers),
		}
		if p, ok := state.Presences[winnerID]; ok {
			rec.Username = p.GetUsername()
		}
		for _, pl := range state.Game.Players {
			rec.CardsLeft = append(rec.CardsLeft, len(pl.Hand))
		}
		if err := state.Wins.RecordWin(ctx, rec); err != nil {
			logger.Error("Failed to record win: %v", err)
		}
	}

	// Back to the lobby. Seats of players who left during the game open up.
	state.Game = nil
	state.TurnDeadline = 0
	for i, userID := range state.Seats {
		if _, ok := state.Presences[userID]; !ok {
			state.Seats[i] = ""
		}
	}
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastMatchState(state, dispatcher, logger)
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := make([]interface{}, 0, len(state.Seats))
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		p, connected := state.Presences[userID]
		if connected {
			displayName = p.GetUsername()
		}

		cardsLeft := 0
		if state.Game != nil {
			cardsLeft = len(state.Game.Players[i].Hand)
		}

		players = append(players, map[string]interface{}{
			"user_id":      userID,
			"seat":         i,
			"is_owner":     i == state.OwnerSeat,
			"cards_left":   cardsLeft,
			"display_name": displayName,
			"connected":    connected,
		})
	}

	seats := make([]interface{}, len(state.Seats))
	for i, userID := range state.Seats {
		seats[i] = userID
	}

	data, err := encodeFields(map[string]interface{}{
		"seats":      seats,
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"phase":      phaseOf(state),
		"players":    players,
	})
	if err != nil {
		logger.Error("Failed to marshal match state: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpMatchState, data, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast match state: %v", err)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, fields, err := eventToWire(ev)
	if err != nil {
		logger.Warn("broadcastEvent: %v", err)
		return
	}
	data, err := encodeFields(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events for absent players are dropped, never broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) sendView(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, seat int, bySuit bool) {
	view, err := state.App.View(state.Game, seat)
	if err != nil {
		mh.sendError(state, dispatcher, logger, userID, err)
		return
	}
	if bySuit {
		domain.SortBySuit(view.Hand)
	}
	mh.sendPrivate(state, dispatcher, logger, userID, OpPlayerView, viewToWire(view))
}

// sendError reports a rejected action to the user who sent it.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	code, reason := classifyError(err)
	mh.sendPrivate(state, dispatcher, logger, userID, OpGameError, map[string]interface{}{
		"code":    code,
		"reason":  reason,
		"message": err.Error(),
	})
}

func (mh *matchHandler) sendPrivate(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, opCode int64, fields map[string]interface{}) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send opcode %d to %s: Presence not found", opCode, userID)
		return
	}

	data, err := encodeFields(fields)
	if err != nil {
		logger.Error("Failed to marshal opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send opcode %d to %s: %v", opCode, userID, err)
	}
}

func phaseOf(state *MatchState) string {
	if state.Game != nil {
		return phasePlaying
	}
	return phaseLobby
}

func seatUser(state *MatchState, seat int) string {
	if seat < 0 || seat >= len(state.Seats) {
		return ""
	}
	return state.Seats[seat]
}

// matchLabel renders the label Nakama indexes for match listing.
func matchLabel(state *MatchState) (string, error) {
	data, err := encodeFields(map[string]interface{}{
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		MatchLabelKey_Game:      GameLabel,
		MatchLabelKey_Phase:     phaseOf(state),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
