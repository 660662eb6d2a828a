package recommend

import (
	"context"

	"github.com/mpelletier/talentgraph/graph"
)

// ScoredUser is one ranked user candidate. Score is a mutual-connection
// count for friend recommendations and a Pearson coefficient for
// people-you-may-know.
type ScoredUser struct {
	ID    int64
	Name  string
	Score float64
}

// ScoredJob is one ranked job candidate with its cosine similarity score.
type ScoredJob struct {
	ID         string
	Title      string
	Company    string
	Location   string
	PostingURL string
	Salary     *float64
	Score      float64
}

// FriendCounts are display statistics for a user: the number of direct
// neighbors and the number of distinct friend-of-friend candidates. They are
// independent of any ranking limit.
type FriendCounts struct {
	DirectFriends    int
	FriendsOfFriends int
}

// JobIndex is an optional collaborator backed by an external vector index.
// TopJobs returns at most limit jobs ranked by similarity to the embedding;
// the engine applies the same positive-score policy it uses for brute-force
// job ranking.
type JobIndex interface {
	TopJobs(ctx context.Context, embedding []float64, limit int) ([]ScoredJob, error)
}

// scoredJobFromGraph copies the posting fields that travel with a ranked job.
func scoredJobFromGraph(j graph.Job, score float64) ScoredJob {
	return ScoredJob{
		ID:         j.ID,
		Title:      j.Title,
		Company:    j.Company,
		Location:   j.Location,
		PostingURL: j.PostingURL,
		Salary:     j.Salary,
		Score:      score,
	}
}
