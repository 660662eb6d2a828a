package server

import (
	recommend "github.com/mpelletier/talentgraph"
	"github.com/mpelletier/talentgraph/graph"
)

// userJSON is a user in API responses. Score carries the mutual-connection
// count for friend recommendations and the correlation coefficient for
// people-you-may-know.
type userJSON struct {
	UserID int64    `json:"user_id"`
	Name   *string  `json:"name,omitempty"`
	Score  *float64 `json:"score,omitempty"`
}

type jobJSON struct {
	JobID            string   `json:"job_id"`
	Title            string   `json:"title"`
	Company          *string  `json:"company,omitempty"`
	Location         *string  `json:"location,omitempty"`
	JobPostingURL    *string  `json:"job_posting_url,omitempty"`
	NormalizedSalary *float64 `json:"normalized_salary,omitempty"`
	Score            float64  `json:"score"`
}

// recommendationJSON is the generic wrapper every recommendation endpoint
// returns. Only the list matching the endpoint is populated.
type recommendationJSON struct {
	User                  userJSON   `json:"user"`
	Friends               []userJSON `json:"friends,omitempty"`
	PeopleYouMayKnow      []userJSON `json:"people_you_may_know,omitempty"`
	Jobs                  []jobJSON  `json:"jobs,omitempty"`
	DirectFriendsCount    *int       `json:"direct_friends_count,omitempty"`
	FriendsOfFriendsCount *int       `json:"friends_of_friends_count,omitempty"`
}

type pathJSON struct {
	Path []int64 `json:"path"`
}

type errorJSON struct {
	Detail string `json:"detail"`
}

type statsJSON struct {
	ConnectionOK       bool       `json:"connection_ok"`
	StoreBackend       string     `json:"store_backend,omitempty"`
	UserCount          int        `json:"user_count"`
	JobCount           int        `json:"job_count"`
	KnowsCount         int        `json:"knows_relationships_count"`
	UsersWithFeatures  int        `json:"users_with_features"`
	UsersWithEmbedding int        `json:"users_with_embedding"`
	JobsWithEmbedding  int        `json:"jobs_with_embedding"`
	SampleUsers        []userJSON `json:"sample_users"`
}

func userFromScored(u recommend.ScoredUser) userJSON {
	out := userJSON{UserID: u.ID}
	if u.Name != "" {
		out.Name = &u.Name
	}
	score := u.Score
	out.Score = &score
	return out
}

func jobFromScored(j recommend.ScoredJob) jobJSON {
	out := jobJSON{
		JobID:            j.ID,
		Title:            j.Title,
		NormalizedSalary: j.Salary,
		Score:            j.Score,
	}
	if j.Company != "" {
		out.Company = &j.Company
	}
	if j.Location != "" {
		out.Location = &j.Location
	}
	if j.PostingURL != "" {
		out.JobPostingURL = &j.PostingURL
	}
	return out
}

func userFromRef(r graph.UserRef) userJSON {
	out := userJSON{UserID: r.ID}
	if r.Name != "" {
		name := r.Name
		out.Name = &name
	}
	return out
}
