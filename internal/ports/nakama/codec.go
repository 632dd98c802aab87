package nakama

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
	"bigtwo/internal/notation"
)

// Messages travel as google.protobuf.Struct documents in protojson form, so
// clients see plain JSON objects.

var errBadRequest = errors.New("malformed request")

func encodeFields(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	return protojson.Marshal(s)
}

func decodeFields(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return s, nil
}

// decodePlayRequest reads {"cards":["3d","3c"]}.
func decodePlayRequest(data []byte) ([]domain.Card, error) {
	s, err := decodeFields(data)
	if err != nil {
		return nil, err
	}
	v, ok := s.GetFields()["cards"]
	if !ok {
		return nil, fmt.Errorf("%w: missing cards", errBadRequest)
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%w: cards must be a list", errBadRequest)
	}
	return cardsFromWire(list.ListValue.GetValues())
}

// decodeQueryRequest reads an optional {"sort":"rank"|"suit"} and reports
// whether the hand should be grouped by suit.
func decodeQueryRequest(data []byte) (bool, error) {
	s, err := decodeFields(data)
	if err != nil {
		return false, err
	}
	v, ok := s.GetFields()["sort"]
	if !ok {
		return false, nil
	}
	switch v.GetStringValue() {
	case sortByRank:
		return false, nil
	case sortBySuit:
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown sort %q", errBadRequest, v.GetStringValue())
	}
}

// eventToWire maps an app event to its opcode and message body.
func eventToWire(ev app.Event) (int64, map[string]interface{}, error) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return OpGameStarted, map[string]interface{}{
			"game_id":      p.GameID,
			"opening_seat": p.OpeningSeat,
			"opening_card": notation.FormatCard(p.OpeningCard),
			"handle":       p.Token,
		}, nil
	case app.HandDealtPayload:
		return OpHandDealt, map[string]interface{}{
			"seat": p.Seat,
			"hand": cardsToWire(p.Hand),
		}, nil
	case app.CardPlayedPayload:
		return OpCardPlayed, map[string]interface{}{
			"seat":        p.Seat,
			"combination": combinationToWire(&p.Combination),
			"cards_left":  p.CardsLeft,
			"next_seat":   p.NextSeat,
		}, nil
	case app.TurnPassedPayload:
		return OpTurnPassed, map[string]interface{}{
			"seat":      p.Seat,
			"passes":    p.Passes,
			"next_seat": p.NextSeat,
		}, nil
	case app.TrickClosedPayload:
		return OpTrickClosed, map[string]interface{}{
			"winner_seat": p.WinnerSeat,
			"next_seat":   p.NextSeat,
		}, nil
	case app.GameEndedPayload:
		return OpGameEnded, map[string]interface{}{
			"winner_seat":    p.WinnerSeat,
			"winner_user_id": p.WinnerUserID,
			"cards_left":     intsToWire(p.CardsLeft[:]),
		}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}

func viewToWire(v app.PlayerView) map[string]interface{} {
	return map[string]interface{}{
		"seat":         v.Seat,
		"hand":         cardsToWire(v.Hand),
		"state":        string(v.State),
		"turn":         v.Turn,
		"lead":         combinationToWire(v.Lead),
		"lead_seat":    v.LeadSeat,
		"passes":       v.Passes,
		"cards_left":   intsToWire(v.CardsLeft[:]),
		"must_open":    v.MustOpen,
		"opening_seat": v.OpeningSeat,
		"winner":       v.Winner,
	}
}
