// Package graph defines the contract between the recommendation engine and
// the graph store that holds users, jobs and KNOWS edges. The engine only
// reads; the offline loaders are the only writers.
package graph

import (
	"context"
	"errors"
)

// ErrNoPath is returned by ShortestPath when the two users are not connected
// within the hop limit. Callers distinguish it from store failures.
var ErrNoPath = errors.New("no path within hop limit")

// User is a user node as written by the loaders.
type User struct {
	ID       int64
	Name     string
	Features []float64
}

// UserAttrs holds the readable attributes of a user node. Absent attributes
// are zero values, never errors: many nodes legitimately lack features or an
// embedding.
type UserAttrs struct {
	Name      string
	Features  []float64
	Embedding []float64
}

// UserRef identifies a user in search results and stats samples.
type UserRef struct {
	ID   int64
	Name string
}

// UserFeatures is one candidate in the people-you-may-know scan.
type UserFeatures struct {
	ID       int64
	Name     string
	Features []float64
}

// Job is a job posting node. Salary is a pointer because most postings carry
// no normalized salary.
type Job struct {
	ID         string
	Title      string
	Company    string
	Location   string
	PostingURL string
	Salary     *float64
	Embedding  []float64
}

// Stats reports node and attribute coverage counts for diagnostics.
type Stats struct {
	Users              int
	Jobs               int
	Edges              int
	UsersWithFeatures  int
	UsersWithEmbedding int
	JobsWithEmbedding  int
	SampleUsers        []UserRef
}

// Store is the read-side contract the engine depends on. Every method takes a
// context so the underlying store can honor cancellation; failures are
// returned as-is and the engine propagates them wrapped with the lookup that
// failed.
type Store interface {
	// Neighbors returns the ids of users the given user KNOWS (out-edges).
	Neighbors(ctx context.Context, userID int64) ([]int64, error)

	// UserAttributes returns the attributes of a user. An unknown id yields
	// zero-value attrs, not an error.
	UserAttributes(ctx context.Context, userID int64) (UserAttrs, error)

	// UsersWithFeatures returns every user carrying a raw feature vector.
	UsersWithFeatures(ctx context.Context) ([]UserFeatures, error)

	// JobsWithEmbedding returns every job carrying an embedding.
	JobsWithEmbedding(ctx context.Context) ([]Job, error)

	// ShortestPath finds the shortest KNOWS chain between two users,
	// traversing edges in either direction, capped at maxHops edges.
	// Returns ErrNoPath when the users are not connected within the cap.
	ShortestPath(ctx context.Context, from, to int64, maxHops int) ([]int64, error)

	// SearchUsers matches users by exact id or case-insensitive name
	// substring.
	SearchUsers(ctx context.Context, q string, limit int) ([]UserRef, error)

	// Stats returns diagnostic counts.
	Stats(ctx context.Context) (Stats, error)
}

// Writer is the ingestion-side contract used only by the offline loaders.
type Writer interface {
	PutUser(ctx context.Context, u User) error
	PutEdge(ctx context.Context, from, to int64) error
	PutJob(ctx context.Context, j Job) error
	SetUserEmbedding(ctx context.Context, userID int64, embedding []float64) error
}
