package domain

import "time"

type Game struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MinPlayers  int       `json:"min_players,omitempty"`
	MaxPlayers  int       `json:"max_players,omitempty"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GameSuggestion struct {
	ID          uint      `json:"id"`
	LanpaID     uint      `json:"lanpa_id"`
	GameID      uint      `json:"game_id"`
	SuggestedBy uint      `json:"suggested_by"`
	Game        *Game     `json:"game,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type GameVote struct {
	ID        uint      `json:"id"`
	LanpaID   uint      `json:"lanpa_id"`
	GameID    uint      `json:"game_id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameVoteCount is one row of a tallied game vote, ordered by Votes descending.
type GameVoteCount struct {
	GameID   uint  `json:"game_id"`
	Game     *Game `json:"game,omitempty"`
	Votes    int   `json:"votes"`
	IsWinner bool  `json:"is_winner"`
}

// VoteResult is the outcome of tallying all game votes for a lanpa.
// Winner is nil when the lanpa has no suggestions at all. Tiebreak is true
// when the winner was drawn at random among equally ranked games.
type VoteResult struct {
	Results  []GameVoteCount `json:"results"`
	Winner   *GameVoteCount  `json:"winner,omitempty"`
	Tiebreak bool            `json:"tiebreak"`
}
