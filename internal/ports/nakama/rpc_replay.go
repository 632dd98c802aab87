package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/types/known/structpb"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
)

func rpcReplayGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	cfg := loadRulesConfig(ctx, logger)
	rules, err := cfg.Rules()
	if err != nil {
		rules = domain.DefaultRules()
	}
	svc := app.NewService(rules, app.NewHandleIssuer(cfg.HandleSecret))
	return replayGame(ctx, logger, svc, payload)
}

// replayGame reads {"handle":"<token>","moves":[{"seat":0,"cards":["3d"]},{"seat":1,"pass":true}]}
// and returns the public state the moves lead to. Hands are not revealed.
func replayGame(ctx context.Context, logger runtime.Logger, svc *app.Service, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	token, moves, err := decodeReplayRequest([]byte(payload))
	if err != nil {
		logger.Warn("replayGame [User:%s]: %v", userID, err)
		return "", err
	}

	game, err := svc.Replay(token, moves)
	if err != nil {
		logger.Warn("replayGame [User:%s]: Replay failed: %v", userID, err)
		return "", err
	}

	cardsLeft := make([]int, domain.NumPlayers)
	for seat, p := range game.Players {
		cardsLeft[seat] = len(p.Hand)
	}
	b, err := encodeFields(map[string]interface{}{
		"state":      string(game.State),
		"turn":       game.Turn,
		"winner":     game.Winner,
		"lead":       combinationToWire(game.Trick.Lead),
		"passes":     game.Trick.Passes,
		"moves":      len(game.History),
		"cards_left": intsToWire(cardsLeft),
	})
	if err != nil {
		return "", err
	}
	logger.Info("replayGame [User:%s]: Replayed %d moves", userID, len(moves))
	return string(b), nil
}

func decodeReplayRequest(data []byte) (string, []domain.Move, error) {
	s, err := decodeFields(data)
	if err != nil {
		return "", nil, err
	}
	fields := s.GetFields()
	token := fields["handle"].GetStringValue()
	if token == "" {
		return "", nil, fmt.Errorf("%w: missing handle", errBadRequest)
	}

	var moves []domain.Move
	for i, v := range fields["moves"].GetListValue().GetValues() {
		obj := v.GetStructValue()
		if obj == nil {
			return "", nil, fmt.Errorf("%w: move %d is not an object", errBadRequest, i)
		}
		m, err := decodeMove(obj)
		if err != nil {
			return "", nil, fmt.Errorf("move %d: %w", i, err)
		}
		moves = append(moves, m)
	}
	return token, moves, nil
}

func decodeMove(obj *structpb.Struct) (domain.Move, error) {
	f := obj.GetFields()
	seat, ok := f["seat"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return domain.Move{}, fmt.Errorf("%w: missing seat", errBadRequest)
	}
	m := domain.Move{Seat: int(seat.NumberValue), Pass: f["pass"].GetBoolValue()}
	if m.Pass {
		return m, nil
	}
	cards, err := cardsFromWire(f["cards"].GetListValue().GetValues())
	if err != nil {
		return domain.Move{}, err
	}
	m.Cards = cards
	return m, nil
}
