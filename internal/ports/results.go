package ports

import "context"

// WinRecord describes one finished game from the winner's side.
type WinRecord struct {
	UserID   string
	Username string
	GameID   string
	// CardsLeft is how many cards each seat still held when the game ended.
	CardsLeft []int
}

// WinRecorder reports finished games to a persistent store.
type WinRecorder interface {
	// RecordWin credits one win to rec.UserID.
	RecordWin(ctx context.Context, rec WinRecord) error
}
