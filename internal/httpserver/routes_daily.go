// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Deal" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's deal (creates or reuses session)
//   - POST /daily/complete    → report a cleared grid for today's deal
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each user can complete the daily deal once per day (enforced by DB +
// in-memory session). The deal itself is deterministic: every player gets
// the same shuffled grid, seeded from HMAC(salt, date), so move counts
// are comparable on the leaderboard.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jklind/memory-puzzle/internal/daily"
	"github.com/jklind/memory-puzzle/internal/game"
	"github.com/jklind/memory-puzzle/internal/symbols"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]*dailySession // active sessions keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

// dailySession holds transient in-memory state for an in-progress daily deal.
type dailySession struct {
	GameID   string
	UserID   string
	Date     string
	Start    time.Time
	Finished bool
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/complete", dd.handleComplete)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// dealToday builds today's deterministic session: default grid, shuffle
// seeded from the date + salt.
func (d *dailyServer) dealToday() (date string, sess *game.Session, err error) {
	now := time.Now().UTC()
	date = daily.DateKey(now)
	syms, err := symbols.ForGrid(defaultRows * defaultCols / 2)
	if err != nil {
		return date, nil, err
	}
	sess, err = game.NewSeeded(syms, defaultRows, defaultCols, daily.DealSeed(now, d.salt))
	return date, sess, err
}

// userID returns the authenticated user ID if logged in, otherwise the
// anonymous cookie ID.
func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	return d.srv.ownerID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the user already has a result row for today → return Played=true.
// - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	now := time.Now().UTC()
	date := daily.DateKey(now)

	// Already completed today (persisted in DB)?
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: "", Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	ds := d.sessions[key]
	d.mu.Unlock()
	if ds != nil && !ds.Finished {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: ds.GameID, Date: date})
		return
	}

	_, sess, err := d.dealToday()
	if err != nil {
		log.Error().Err(err).Msg("daily deal")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if err := d.srv.sessions.Put(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	d.mu.Lock()
	d.sessions[key] = &dailySession{
		GameID: sess.ID,
		UserID: uid,
		Date:   date,
		Start:  time.Now(),
	}
	d.mu.Unlock()
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID, Date: date})
}

// -----------------------------------------------------------------------------
// /daily/complete

// dailyCompleteReq reports a finished daily session.
type dailyCompleteReq struct {
	GameID string `json:"gameId"`
}

// dailyCompleteRes acknowledges the recorded result.
type dailyCompleteRes struct {
	Recorded  bool `json:"recorded"`
	Moves     int  `json:"moves"`
	ElapsedMs int  `json:"elapsedMs"`
}

// handleComplete verifies that the caller's daily session is actually
// cleared and persists the result. Play happens through the regular
// /game/select and /game/tick endpoints; this route only records the outcome.
func (d *dailyServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req dailyCompleteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	uid := d.userID(w, r)
	date := daily.DateKey(time.Now().UTC())
	key := uid + "|" + date

	d.mu.Lock()
	ds := d.sessions[key]
	d.mu.Unlock()
	if ds == nil || ds.GameID != req.GameID {
		http.Error(w, `{"error":"no_daily_session"}`, http.StatusNotFound)
		return
	}
	if ds.Finished {
		http.Error(w, `{"error":"already_recorded"}`, http.StatusConflict)
		return
	}
	sess, err := d.srv.sessions.Get(r.Context(), ds.GameID)
	if err != nil || !sess.IsComplete() {
		http.Error(w, `{"error":"not_complete"}`, http.StatusBadRequest)
		return
	}

	elapsed := int(time.Since(ds.Start).Milliseconds())
	res := daily.Result{UserID: uid, Date: date, Moves: sess.MoveCount, ElapsedMs: elapsed}
	if err := d.store.InsertResult(r.Context(), res); err != nil {
		log.Error().Err(err).Str("user", uid).Msg("insert daily result")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	d.mu.Lock()
	ds.Finished = true
	d.mu.Unlock()
	d.srv.sessions.Drop(r.Context(), ds.GameID)
	_ = json.NewEncoder(w).Encode(dailyCompleteRes{Recorded: true, Moves: sess.MoveCount, ElapsedMs: elapsed})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// handleLeaderboard returns the top results for a date (default: today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = daily.DateKey(time.Now().UTC())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"date": date, "rows": rows})
}
