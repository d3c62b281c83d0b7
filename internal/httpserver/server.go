// internal/httpserver/server.go
//
// HTTP server wiring for the memory-puzzle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/new, /game/select, /game/tick,
//     /game/state, /game/save, /game/load.
//   - Daily challenge endpoints (optional auth): mounted under /daily.
//   - Auth + stats endpoints (require auth): /auth/*, /stats/me.
//   - JWT + cookie handling, anonymous save-slot cookie for guests.
//
// Notes:
//   - The server is only a driver around the game engine: each request
//     maps to one engine operation (new/select/tick) or one persistence
//     operation (save/load). The engine itself never fails; persistence
//     failures map to the error contract in internal/store.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jklind/memory-puzzle/internal/game"
	"github.com/jklind/memory-puzzle/internal/record"
	"github.com/jklind/memory-puzzle/internal/store"
	"github.com/jklind/memory-puzzle/internal/symbols"
)

// Default grid for /game/new when the request does not size it.
const (
	defaultRows = 4
	defaultCols = 4

	// maxTicksPerRequest bounds how much simulated time a single
	// /game/tick call may advance (10 seconds at the engine tick rate).
	maxTicksPerRequest = 10 * game.TickRate
)

// Server bundles router, live session registry, durable saves, and DB handle.
type Server struct {
	r        *chi.Mux
	sessions store.Sessions
	saves    store.Saves
	db       *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions store.Sessions, saves store.Saves, db *sql.DB) *Server {
	s := &Server{r: chi.NewRouter(), sessions: sessions, saves: saves, db: db}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"memory-puzzle-go","endpoints":["/health","POST /game/new","POST /game/select","POST /game/tick","GET /game/state","POST /game/save","POST /game/load","/auth/*","/daily/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints — OPTIONAL AUTH (guests can play; saves keyed by anon cookie)
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/select", s.handleSelect)
	s.r.With(s.withOptionalAuth()).Post("/game/tick", s.handleTick)
	s.r.With(s.withOptionalAuth()).Get("/game/state", s.handleState)
	s.r.With(s.withOptionalAuth()).Post("/game/save", s.handleSave)
	s.r.With(s.withOptionalAuth()).Post("/game/load", s.handleLoad)

	// Daily challenge — OPTIONAL AUTH (guests can play; results persisted on completion)
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	// Debug: symbol set size
	s.r.Get("/debug/symbols", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"symbols": symbols.Count()})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ views --------------------------------------

// tileView is the client-facing representation of one tile.
// The symbol is only included once the tile is face up; a hidden tile
// never leaks its value to the client.
type tileView struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Symbol     string `json:"symbol,omitempty"`
	Visibility string `json:"visibility"`
	Progress   int    `json:"progress"`
}

// sessionView is the full state payload returned by the game endpoints.
type sessionView struct {
	GameID      string     `json:"gameId"`
	Rows        int        `json:"rows"`
	Cols        int        `json:"cols"`
	MoveCount   int        `json:"moveCount"`
	State       string     `json:"state"`
	PendingHide int        `json:"pendingHide"`
	Complete    bool       `json:"complete"`
	Tiles       []tileView `json:"tiles"`
}

// viewOf builds the client payload for a session.
func viewOf(sess *game.Session) sessionView {
	tiles := make([]tileView, len(sess.Tiles))
	for i, t := range sess.Tiles {
		tv := tileView{
			Row:        t.Row,
			Col:        t.Col,
			Visibility: string(t.Visibility),
			Progress:   t.Progress,
		}
		if t.Visibility.FaceUp() {
			tv.Symbol = t.Symbol
		}
		tiles[i] = tv
	}
	return sessionView{
		GameID:      sess.ID,
		Rows:        sess.Rows,
		Cols:        sess.Cols,
		MoveCount:   sess.MoveCount,
		State:       sess.State(),
		PendingHide: sess.PendingHide,
		Complete:    sess.Complete,
		Tiles:       tiles,
	}
}

// ------------------------------ GAME ---------------------------------------

// newGameReq is the payload for POST /game/new. Zero values mean the
// default 4x4 grid.
type newGameReq struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// handleNewGame deals a fresh shuffled grid and registers it as a live session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Rows == 0 && req.Cols == 0 {
		req.Rows, req.Cols = defaultRows, defaultCols
	}

	sess, err := s.newSession(req.Rows, req.Cols)
	if err != nil {
		if errors.Is(err, game.ErrInvalidConfig) {
			http.Error(w, `{"error":"invalid_config"}`, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("new game")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("register session")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	// Count the deal against the player's stats (best effort).
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		if _, err := s.db.Exec(`UPDATE users SET games_played = games_played + 1 WHERE id=?`, me.ID); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump games_played")
		}
	}

	_ = json.NewEncoder(w).Encode(viewOf(sess))
}

// newSession builds a session for the requested grid from the configured
// symbol set.
func (s *Server) newSession(rows, cols int) (*game.Session, error) {
	count := rows * cols
	if count <= 0 || count%2 != 0 {
		// Let the engine produce the canonical configuration error.
		return game.New(nil, rows, cols)
	}
	syms, err := symbols.ForGrid(count / 2)
	if err != nil {
		return nil, err
	}
	return game.New(syms, rows, cols)
}

// selectReq is the payload for POST /game/select.
type selectReq struct {
	GameID string `json:"gameId"`
	Tile   int    `json:"tile"`
}

// selectRes wraps the updated view with whether the tap had any effect.
type selectRes struct {
	Changed bool `json:"changed"`
	sessionView
}

// handleSelect forwards one tap to the selection controller.
// A tile index outside the grid is a client bug, rejected before it can
// trip the engine's contract check.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if req.Tile < 0 || req.Tile >= len(sess.Tiles) {
		http.Error(w, `{"error":"tile_out_of_range"}`, http.StatusBadRequest)
		return
	}

	wasComplete := sess.Complete
	changed := sess.Select(req.Tile)
	if sess.Complete && !wasComplete {
		s.recordCompletion(r, sess)
	}
	_ = json.NewEncoder(w).Encode(selectRes{Changed: changed, sessionView: viewOf(sess)})
}

// tickReq is the payload for POST /game/tick. Ticks defaults to 1 and is
// capped at maxTicksPerRequest.
type tickReq struct {
	GameID string `json:"gameId"`
	Ticks  int    `json:"ticks"`
}

// handleTick advances simulated time for a session. The client drives the
// cadence; the server just applies the requested number of steps.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req tickReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	n := req.Ticks
	if n <= 0 {
		n = 1
	}
	if n > maxTicksPerRequest {
		n = maxTicksPerRequest
	}
	for i := 0; i < n; i++ {
		sess.Tick()
	}
	_ = json.NewEncoder(w).Encode(viewOf(sess))
}

// handleState returns the current view of a session.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), r.URL.Query().Get("gameId"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(sess))
}

// ---------------------------- SAVE / LOAD ----------------------------------

// saveReq is the payload for POST /game/save.
type saveReq struct {
	GameID string `json:"gameId"`
}

// handleSave snapshots the session into the caller's save slot.
// A storage failure is reported but leaves the live session untouched.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	owner := s.ownerID(w, r)
	if err := s.saves.Save(r.Context(), owner, record.Snapshot(sess)); err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("save game")
		http.Error(w, `{"error":"storage_unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"saved": true})
}

// handleLoad restores the caller's save slot into a fresh live session.
// Missing and corrupt saves both mean "no save available": the client
// falls back to /game/new. The two cases get distinct error codes so a
// corrupt slot can be surfaced (and is cleared server-side).
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	rec, err := s.saves.Load(r.Context(), owner)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, `{"error":"no_save"}`, http.StatusNotFound)
		case errors.Is(err, record.ErrCorrupt):
			log.Warn().Err(err).Str("owner", owner).Msg("corrupt save slot")
			_ = s.saves.Delete(r.Context(), owner)
			http.Error(w, `{"error":"corrupt_save"}`, http.StatusNotFound)
		default:
			log.Error().Err(err).Str("owner", owner).Msg("load save")
			http.Error(w, `{"error":"storage_unavailable"}`, http.StatusServiceUnavailable)
		}
		return
	}
	sess, err := record.Restore(rec)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("corrupt save slot")
		_ = s.saves.Delete(r.Context(), owner)
		http.Error(w, `{"error":"corrupt_save"}`, http.StatusNotFound)
		return
	}
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(sess))
}

// recordCompletion updates the player's stats when a grid is cleared, and
// clears any now-stale save slot (best effort, non-fatal).
func (s *Server) recordCompletion(r *http.Request, sess *game.Session) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		return
	}
	_, err := s.db.Exec(`
        UPDATE users SET
            completed = completed + 1,
            best_moves = CASE WHEN best_moves = 0 OR ? < best_moves THEN ? ELSE best_moves END
        WHERE id=?`, sess.MoveCount, sess.MoveCount, me.ID)
	if err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("record completion")
	}
	if err := s.saves.Delete(r.Context(), me.ID); err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("clear finished save")
	}
}

// ------------------------------- AUTH --------------------------------------

// Request payloads for signup/login.
type signupReq struct{ Username, Password string }
type loginReq struct{ Username, Password string }

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	// Current user (gated)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		if me == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(me)
	})

	// Stats (gated)
	s.r.With(s.requireAuth()).Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		if me == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		u, err := s.findUserByID(me.ID)
		if err != nil {
			http.Error(w, `{"error":"not_found"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          u.ID,
			"gamesPlayed": u.GamesPlayed,
			"completed":   u.Completed,
			"bestMoves":   u.BestMoves,
		})
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and
// claims the guest save slot.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	u, err := s.createUser(body.Username, body.Password)
	if err != nil {
		if err.Error() == "username taken" {
			http.Error(w, `{"error":"Username taken"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tok, exp)
	s.claimAnonSave(r.Context(), s.ensureAnonID(w, r), u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates a user, sets cookie, and claims the guest save slot.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	u, err := s.findUserByUsername(strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		http.Error(w, `{"error":"Invalid username or password"}`, http.StatusUnauthorized)
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tok, exp)
	s.claimAnonSave(r.Context(), s.ensureAnonID(w, r), u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is
// present. It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerOrCookie(r); tok != "" {
				claims := jwt.MapClaims{}
				if t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
					return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
				}); err == nil && t.Valid {
					if id, _ := claims["id"].(string); id != "" {
						if u, err := s.findUserByID(id); err == nil {
							ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: u.ID, Username: u.Username})
							r = r.WithContext(ctx)
						}
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

const anonCookieName = "memory_anon"

// ownerID returns the save-slot owner for this request: the user ID when
// authenticated, otherwise a stable anonymous cookie ID.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// ensureAnonID returns an existing anon cookie or sets a new one.
// Used to associate guest saves with a stable identifier.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("NODE_ENV") == "production",
		SameSite: func() http.SameSite {
			if os.Getenv("NODE_ENV") == "production" {
				return http.SameSiteNoneMode
			}
			return http.SameSiteLaxMode
		}(),
		Expires: time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// claimAnonSave transfers a guest save slot to a user account after auth,
// when the saves backend supports it.
func (s *Server) claimAnonSave(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" || anonID == userID {
		return
	}
	type claimer interface {
		Claim(ctx context.Context, anonOwner, userOwner string) error
	}
	if c, ok := s.saves.(claimer); ok {
		if err := c.Claim(ctx, anonID, userID); err != nil {
			log.Warn().Err(err).Msg("claim anon save")
		}
	}
}

// ------------------------ auth helpers & users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	GamesPlayed  int
	Completed    int
	BestMoves    int
}

// createUser validates input, checks uniqueness, hashes password, and
// inserts a new user.
func (s *Server) createUser(username, pw string) (*userRow, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRow(`SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errors.New("username taken")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	id := genID()
	if _, err := s.db.Exec(`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, string(h), now); err != nil {
		return nil, err
	}
	return &userRow{ID: id, Username: username, PasswordHash: string(h), CreatedAt: mustParse(now)}, nil
}

// findUserByUsername/ID load a user row or return an error if missing.
func (s *Server) findUserByUsername(username string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, password_hash, created_at, games_played, completed, best_moves
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}
func (s *Server) findUserByID(id string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, password_hash, created_at, games_played, completed, best_moves
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a userRow.
func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Completed, &u.BestMoves); err != nil {
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// normalizeUsername trims whitespace; adjust here if you want stricter rules.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and a configurable expiry
// (JWT_EXPIRES_DAYS; default 14).
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	secret := getEnv("JWT_SECRET", "dev_secret_change_me")
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	exp := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	name := getEnv("COOKIE_NAME", "memory_token")
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	name := getEnv("COOKIE_NAME", "memory_token")
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(getEnv("COOKIE_NAME", "memory_token")); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			id, _ := claims["id"].(string)
			username, _ := claims["username"].(string)
			if id == "" || username == "" {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			// Ensure user still exists
			if _, err := s.findUserByID(id); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Username: username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
