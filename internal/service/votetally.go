package service

import (
	"math/rand"
	"sort"

	"github.com/lanpahub/lanpa-api/internal/domain"
)

// ResolveGameVote tallies votes per suggested game and picks the winner.
// Games with zero votes still appear in the results. When several games share
// the maximum count the winner is drawn uniformly at random from that top set
// and Tiebreak is set. With no suggestions there is no winner.
//
// The random source is injected so callers can seed it deterministically.
func ResolveGameVote(suggestions []domain.GameSuggestion, votes []domain.GameVote, rng *rand.Rand) domain.VoteResult {
	if len(suggestions) == 0 {
		return domain.VoteResult{Results: []domain.GameVoteCount{}}
	}

	counts := make(map[uint]int, len(suggestions))
	for _, s := range suggestions {
		counts[s.GameID] = 0
	}
	for _, v := range votes {
		if _, ok := counts[v.GameID]; ok {
			counts[v.GameID]++
		}
	}

	results := make([]domain.GameVoteCount, 0, len(suggestions))
	for _, s := range suggestions {
		results = append(results, domain.GameVoteCount{
			GameID: s.GameID,
			Game:   s.Game,
			Votes:  counts[s.GameID],
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})

	max := results[0].Votes
	top := 1
	for top < len(results) && results[top].Votes == max {
		top++
	}

	winnerIdx := 0
	tiebreak := false
	if top > 1 {
		winnerIdx = rng.Intn(top)
		tiebreak = true
	}

	results[winnerIdx].IsWinner = true
	winner := results[winnerIdx]

	return domain.VoteResult{
		Results:  results,
		Winner:   &winner,
		Tiebreak: tiebreak,
	}
}
