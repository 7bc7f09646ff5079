// Command rollbias-server is a minimal hosting application for the
// sampler: it owns strategy instances (one per session, mutated under a
// per-session lock), encodes snapshots as JSON, and exposes
// roll/undo/snapshot/restore over HTTP. It exists to demonstrate the
// collaborator contract; a real score-tracking frontend would sit where
// its handlers are.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/gorilla/mux"

	"github.com/dicecore/rollbias"
)

type config struct {
	Addr        string `env:"ROLLBIAS_ADDR" envDefault:":8080"`
	DefaultMode string `env:"ROLLBIAS_MODE" envDefault:"adaptive"`
}

// session pairs a strategy instance with the lock that serializes access
// to it. The core is single-writer by contract; this is where the host
// upholds that. The session owns one Source for its whole lifetime; the
// strategy samples from it, and so does the cosmetic pair split.
type session struct {
	mu    sync.Mutex
	src   rollbias.Source
	strat rollbias.Strategy
}

type server struct {
	cfg config

	mu       sync.Mutex
	sessions map[string]*session
	nextID   int
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	s := &server{cfg: cfg, sessions: make(map[string]*session)}

	r := mux.NewRouter()
	r.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/roll", s.roll).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/undo", s.undo).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/state", s.getState).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/state", s.putState).Methods(http.MethodPut)

	log.Printf("listening on %s (default mode %s)", cfg.Addr, cfg.DefaultMode)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}

func (s *server) lookup(r *http.Request) (*session, string, bool) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, id, ok
}

func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	mode := rollbias.Mode(req.Mode)
	if req.Mode == "" {
		mode = rollbias.Mode(s.cfg.DefaultMode)
	}

	src := rollbias.NewCPRNG(8192)
	strat, err := rollbias.New(src, mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("g%d", s.nextID)
	s.sessions[id] = &session{src: src, strat: strat}
	s.mu.Unlock()

	log.Printf("session %s created (mode %s)", id, mode)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "mode": string(mode)})
}

func (s *server) roll(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess.mu.Lock()
	sum := sess.strat.Roll()
	// cosmetic split into two die faces; has no effect on sampling
	d1, d2, err := rollbias.SplitPair(sess.src, sum)
	sess.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("session %s rolled %d (%d+%d)", id, sum, d1, d2)
	writeJSON(w, http.StatusOK, map[string]any{
		"sum":  sum,
		"dice": [2]int{d1, d2},
	})
}

func (s *server) undo(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess.mu.Lock()
	err := sess.strat.Undo()
	sess.mu.Unlock()

	switch {
	case errors.Is(err, rollbias.ErrEmptyHistory), errors.Is(err, rollbias.ErrBagBoundary):
		// precondition failure: the client should disable its undo button
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		log.Printf("session %s undid last roll", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *server) getState(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess.mu.Lock()
	snap := sess.strat.Snapshot()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, snap)
}

func (s *server) putState(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var snap rollbias.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	strat, err := rollbias.Restore(sess.src, snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	sess.strat = strat
	sess.mu.Unlock()

	log.Printf("session %s restored (mode %s)", id, snap.Mode)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
