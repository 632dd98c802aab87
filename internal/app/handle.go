package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"bigtwo/internal/domain"
)

// ErrInvalidHandle is returned for tokens that are malformed, forged or signed
// with another secret.
var ErrInvalidHandle = errors.New("invalid game handle")

// GameHandle identifies a dealt game. Seed and Players are enough to rebuild
// the deal; Token carries them signed so a client cannot pick its own deck.
type GameHandle struct {
	ID          string
	Seed        int64
	Players     [domain.NumPlayers]string
	Rules       domain.Rules
	OpeningSeat int
	OpeningCard domain.Card
	Token       string
}

// HandleIssuer signs and verifies game handle tokens with HS256.
type HandleIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewHandleIssuer returns nil for an empty secret: handles are then issued
// without a token and cannot be replayed.
func NewHandleIssuer(secret string) *HandleIssuer {
	if secret == "" {
		return nil
	}
	return &HandleIssuer{secret: []byte(secret), now: time.Now}
}

// Issue signs the handle's replay data.
func (i *HandleIssuer) Issue(h GameHandle) (string, error) {
	if i == nil {
		return "", fmt.Errorf("handle issuer is not configured")
	}

	players := make([]interface{}, len(h.Players))
	for seat, uid := range h.Players {
		players[seat] = uid
	}
	claims := jwt.MapClaims{
		"gid":     h.ID,
		"seed":    strconv.FormatInt(h.Seed, 10),
		"players": players,
		"sp":      string(h.Rules.StraightPolicy),
		"co":      h.Rules.AllowCombinationOpening,
		"cu":      h.Rules.CloseUnbeatableSingle,
		"iat":     i.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies a token and returns the handle it describes. Opening fields
// are left zero; Service.Rebuild fills them in.
func (i *HandleIssuer) Parse(tokenString string) (GameHandle, error) {
	if i == nil {
		return GameHandle{}, fmt.Errorf("%w: issuer is not configured", ErrInvalidHandle)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return GameHandle{}, fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return GameHandle{}, ErrInvalidHandle
	}

	h := GameHandle{Token: tokenString}
	if h.ID, ok = claims["gid"].(string); !ok {
		return GameHandle{}, fmt.Errorf("%w: missing gid", ErrInvalidHandle)
	}
	seed, _ := claims["seed"].(string)
	if h.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
		return GameHandle{}, fmt.Errorf("%w: bad seed", ErrInvalidHandle)
	}
	players, _ := claims["players"].([]interface{})
	if len(players) != domain.NumPlayers {
		return GameHandle{}, fmt.Errorf("%w: want %d players", ErrInvalidHandle, domain.NumPlayers)
	}
	for seat, p := range players {
		if h.Players[seat], ok = p.(string); !ok {
			return GameHandle{}, fmt.Errorf("%w: bad player at seat %d", ErrInvalidHandle, seat)
		}
	}
	sp, _ := claims["sp"].(string)
	h.Rules.StraightPolicy = domain.StraightPolicy(sp)
	h.Rules.AllowCombinationOpening, _ = claims["co"].(bool)
	h.Rules.CloseUnbeatableSingle, _ = claims["cu"].(bool)
	if err := h.Rules.Validate(); err != nil {
		return GameHandle{}, fmt.Errorf("%w: %v", ErrInvalidHandle, err)
	}
	return h, nil
}
