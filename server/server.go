// Package server exposes the recommendation engine over HTTP: JSON endpoints
// for the four recommendation operations plus search, stats, health and a
// small exploration UI.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	recommend "github.com/mpelletier/talentgraph"
	"github.com/mpelletier/talentgraph/graph"
	"github.com/mpelletier/talentgraph/logging"
)

const defaultSearchLimit = 5

// Server routes HTTP requests to the engine and the store.
type Server struct {
	engine *recommend.Engine
	store  graph.Store
	log    zerolog.Logger
	router chi.Router

	// StoreBackend is reported by the stats endpoint.
	StoreBackend string
}

// New builds a server around an engine and its store.
func New(engine *recommend.Engine, store graph.Store, log zerolog.Logger) *Server {
	s := &Server{
		engine: engine,
		store:  store,
		log:    log,
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/users/search", s.handleSearchUsers)
		r.Get("/users/{userID}/recommendations/friends", s.handleFriends)
		r.Get("/users/{userID}/suggestions/people", s.handlePeople)
		r.Get("/users/{userID}/recommendations/jobs", s.handleJobs)
		r.Get("/paths/shortest", s.handleShortestPath)
		r.Get("/debug/stats", s.handleStats)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := logging.NewRequestID()
		ctx := logging.WithRequestID(r.Context(), reqID)
		w.Header().Set("X-Request-Id", reqID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.log.Info().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUserID(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)

	friends, err := s.engine.Friends(r.Context(), userID, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if len(friends) == 0 {
		writeError(w, http.StatusNotFound, "No friend recommendations found")
		return
	}

	counts, err := s.engine.FriendCounts(r.Context(), userID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	resp := recommendationJSON{
		User:                  userJSON{UserID: userID},
		Friends:               make([]userJSON, len(friends)),
		DirectFriendsCount:    &counts.DirectFriends,
		FriendsOfFriendsCount: &counts.FriendsOfFriends,
	}
	for i, f := range friends {
		resp.Friends[i] = userFromScored(f)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUserID(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)

	people, err := s.engine.PeopleYouMayKnow(r.Context(), userID, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if len(people) == 0 {
		writeError(w, http.StatusNotFound, "No suggestions found")
		return
	}

	resp := recommendationJSON{
		User:             userJSON{UserID: userID},
		PeopleYouMayKnow: make([]userJSON, len(people)),
	}
	for i, p := range people {
		resp.PeopleYouMayKnow[i] = userFromScored(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUserID(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 0)

	jobs, err := s.engine.Jobs(r.Context(), userID, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if len(jobs) == 0 {
		writeError(w, http.StatusNotFound, "No job recommendations found")
		return
	}

	resp := recommendationJSON{
		User: userJSON{UserID: userID},
		Jobs: make([]jobJSON, len(jobs)),
	}
	for i, j := range jobs {
		resp.Jobs[i] = jobFromScored(j)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.ParseInt(r.URL.Query().Get("from_user"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "from_user must be an integer")
		return
	}
	to, err := strconv.ParseInt(r.URL.Query().Get("to_user"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "to_user must be an integer")
		return
	}

	path, err := s.engine.ShortestPath(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, graph.ErrNoPath) {
			writeError(w, http.StatusNotFound, "No path found")
			return
		}
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pathJSON{Path: path})
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := queryInt(r, "limit", defaultSearchLimit)

	refs, err := s.store.SearchUsers(r.Context(), q, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	out := make([]userJSON, len(refs))
	for i, ref := range refs {
		out[i] = userFromRef(ref)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"connection_ok": false,
			"error":         err.Error(),
		})
		return
	}

	resp := statsJSON{
		ConnectionOK:       true,
		StoreBackend:       s.StoreBackend,
		UserCount:          st.Users,
		JobCount:           st.Jobs,
		KnowsCount:         st.Edges,
		UsersWithFeatures:  st.UsersWithFeatures,
		UsersWithEmbedding: st.UsersWithEmbedding,
		JobsWithEmbedding:  st.JobsWithEmbedding,
		SampleUsers:        make([]userJSON, len(st.SampleUsers)),
	}
	for i, ref := range st.SampleUsers {
		resp.SampleUsers[i] = userFromRef(ref)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "user id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().
		Str("request_id", logging.RequestID(r.Context())).
		Str("path", r.URL.Path).
		Err(err).
		Msg("store failure")
	writeError(w, http.StatusBadGateway, "graph store unavailable")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorJSON{Detail: detail})
}
