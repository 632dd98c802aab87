package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bigtwo/internal/app"
	"bigtwo/internal/domain"
	"bigtwo/internal/notation"
)

func replayPayload(t *testing.T, token string, moves []domain.Move) string {
	t.Helper()
	list := make([]map[string]interface{}, 0, len(moves))
	for _, m := range moves {
		entry := map[string]interface{}{"seat": m.Seat}
		if m.Pass {
			entry["pass"] = true
		} else {
			entry["cards"] = notation.FormatCards(m.Cards)
		}
		list = append(list, entry)
	}
	b, err := json.Marshal(map[string]interface{}{"handle": token, "moves": list})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(b)
}

func TestReplayGame(t *testing.T) {
	svc := app.NewService(domain.DefaultRules(), app.NewHandleIssuer("replay-secret"))
	seed := int64(7)
	game, handle, _, err := svc.StartGame([domain.NumPlayers]string{"user-1", "user-2", "user-3", "user-4"}, &seed)
	if err != nil {
		t.Fatalf("start game error: %v", err)
	}
	for i := 0; i < 8; i++ {
		seat := game.Turn
		if plays := domain.LegalPlays(game, seat); len(plays) > 0 {
			if _, err := svc.PlayCards(game, seat, plays[0].Cards); err != nil {
				t.Fatalf("play error: %v", err)
			}
		} else if _, err := svc.PassTurn(game, seat); err != nil {
			t.Fatalf("pass error: %v", err)
		}
	}

	out, err := replayGame(context.Background(), noopLogger{}, svc, replayPayload(t, handle.Token, game.History))
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	body := decodeMessage(t, []byte(out))
	if body["state"] != string(game.State) || int(body["turn"].(float64)) != game.Turn {
		t.Fatalf("replayed state = %v/%v, want %s/%d", body["state"], body["turn"], game.State, game.Turn)
	}
	if int(body["moves"].(float64)) != len(game.History) {
		t.Fatalf("moves = %v, want %d", body["moves"], len(game.History))
	}
	left := body["cards_left"].([]interface{})
	for seat, p := range game.Players {
		if int(left[seat].(float64)) != len(p.Hand) {
			t.Fatalf("seat %d cards left = %v, want %d", seat, left[seat], len(p.Hand))
		}
	}
	if _, ok := body["hand"]; ok {
		t.Fatal("replay must not reveal hands")
	}

	forged, err := app.NewHandleIssuer("other-secret").Issue(app.GameHandle{ID: "g", Seed: seed, Players: handle.Players, Rules: domain.DefaultRules()})
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}
	wrongSeat := (handle.OpeningSeat + 1) % domain.NumPlayers

	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "NotJSON", payload: "{", want: errBadRequest},
		{name: "MissingHandle", payload: `{"moves":[]}`, want: errBadRequest},
		{name: "MoveWithoutSeat", payload: `{"handle":"` + handle.Token + `","moves":[{"pass":true}]}`, want: errBadRequest},
		{name: "BadCardToken", payload: `{"handle":"` + handle.Token + `","moves":[{"seat":0,"cards":["zz"]}]}`, want: errBadRequest},
		{name: "ForgedHandle", payload: replayPayload(t, forged, nil), want: app.ErrInvalidHandle},
		{name: "IllegalMove", payload: replayPayload(t, handle.Token, []domain.Move{{Seat: wrongSeat, Pass: true}}), want: domain.ErrMustLeadOpeningCard},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := replayGame(context.Background(), noopLogger{}, svc, test.payload); !errors.Is(err, test.want) {
				t.Fatalf("error = %v, want %v", err, test.want)
			}
		})
	}
}
