// Package backendtest provides an in-memory fake of the backend's HTTP
// contract for tests: notes, projects, calendar, chat, translator, and
// the file-search subsystem. It also counts requests per route so tests
// can assert how many network calls an operation performed.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Server is the fake backend. All exported mutators are safe for
// concurrent use.
type Server struct {
	*httptest.Server

	// Token, when non-empty, makes every route require a matching
	// bearer token.
	Token string

	// ExtendedStats controls the optional extended-status probe
	// endpoint; when false it returns 404 so clients exercise the
	// degraded path.
	ExtendedStats bool

	mu          sync.Mutex
	notes       []map[string]any
	projects    []map[string]any
	events      []map[string]any
	directories []map[string]any
	indexed     map[string]bool
	sessions    []map[string]any
	history     map[string][]map[string]any
	reindexes   int
	requests    map[string]int

	// SlowSearch, when non-nil, is closed by the test to release
	// search requests; used to hold a fetch in flight.
	SlowSearch chan struct{}
}

// New starts the fake backend and registers cleanup.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		indexed:  map[string]bool{},
		history:  map[string][]map[string]any{},
		requests: map[string]int{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// Requests returns how many requests hit "METHOD /path".
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// Reindexes returns how many reindex jobs were triggered.
func (s *Server) Reindexes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reindexes
}

func (s *Server) count(r *http.Request) {
	s.mu.Lock()
	s.requests[r.Method+" "+r.URL.Path]++
	s.mu.Unlock()
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.count(req)
			if s.Token != "" {
				auth := req.Header.Get("Authorization")
				if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.Token {
					writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
					return
				}
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/notes", s.listNotes)
		r.Post("/notes", s.createNote)
		r.Get("/notes/{id}", s.getNote)
		r.Put("/notes/{id}", s.updateNote)
		r.Delete("/notes/{id}", s.deleteNote)

		r.Get("/projects", s.listProjects)
		r.Post("/projects", s.createProject)
		r.Get("/projects/{id}", s.getProject)
		r.Put("/projects/{id}", s.updateProject)
		r.Delete("/projects/{id}", s.deleteProject)

		r.Get("/calendar", s.listEvents)
		r.Post("/calendar", s.createEvent)
		r.Get("/calendar/{id}", s.getEvent)
		r.Put("/calendar/{id}", s.updateEvent)
		r.Delete("/calendar/{id}", s.deleteEvent)

		r.Post("/ai/chat", s.chat)
		r.Get("/ai/chat/history", s.chatHistory)
		r.Post("/ai/chat/session", s.newSession)
		r.Get("/ai/chat/sessions", s.listSessions)

		r.Post("/translator/translate", s.translate)

		r.Route("/file_search", func(r chi.Router) {
			r.Post("/search", s.search)
			r.Post("/index", s.addIndex)
			r.Delete("/index", s.removeIndex)
			r.Get("/directories", s.listDirectories)
			r.Post("/directories", s.addDirectory)
			r.Delete("/directories", s.removeDirectory)
			r.Get("/stats", s.stats)
			r.Get("/stats/extended", s.extendedStats)
			r.Post("/reindex", s.reindex)
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, into *map[string]any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return false
	}
	return true
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// --- notes ---

func (s *Server) listNotes(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"notes": s.notes, "total": len(s.notes)})
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	ts := now()
	rec := map[string]any{
		"id":         uuid.NewString(),
		"title":      body["title"],
		"content":    body["content"],
		"tags":       orEmpty(body["tags"]),
		"created_at": ts,
		"updated_at": ts,
	}
	if pid, ok := body["project_id"]; ok {
		rec["project_id"] = pid
	}
	s.mu.Lock()
	s.notes = append(s.notes, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	s.byID(w, r, s.notes, "note not found")
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	s.updateByID(w, r, s.notes, "note not found",
		[]string{"title", "content", "tags", "project_id"})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, &s.notes, "note not found")
}

// --- projects ---

func (s *Server) listProjects(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"projects": s.projects, "total": len(s.projects)})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	ts := now()
	rec := map[string]any{
		"id":          uuid.NewString(),
		"name":        body["name"],
		"description": orString(body["description"]),
		"status":      "active",
		"tags":        orEmpty(body["tags"]),
		"created_at":  ts,
		"updated_at":  ts,
	}
	s.mu.Lock()
	s.projects = append(s.projects, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.byID(w, r, s.projects, "project not found")
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	s.updateByID(w, r, s.projects, "project not found",
		[]string{"name", "description", "color", "icon", "parent_project_id", "tags"})
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, &s.projects, "project not found")
}

// --- calendar ---

// listEvents returns a bare array, matching the backend contract for
// this endpoint.
func (s *Server) listEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		writeJSON(w, http.StatusOK, []map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, s.events)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	ts := now()
	rec := map[string]any{
		"id":           uuid.NewString(),
		"title":        body["title"],
		"description":  orString(body["description"]),
		"event_type":   orDefault(body["event_type"], "event"),
		"status":       "scheduled",
		"event_date":   body["event_date"],
		"all_day":      body["all_day"] == true,
		"participants": orEmpty(body["participants"]),
		"tags":         orEmpty(body["tags"]),
		"created_at":   ts,
		"updated_at":   ts,
	}
	s.mu.Lock()
	s.events = append(s.events, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	s.byID(w, r, s.events, "event not found")
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	s.updateByID(w, r, s.events, "event not found",
		[]string{"title", "description", "event_type", "event_date", "start_time", "end_time",
			"all_day", "location", "participants", "project_id", "tags"})
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.events {
		if rec["id"] == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "event not found"})
}

// --- chat ---

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	sessionID := orString(body["session_id"])
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	msg := orString(body["message"])
	user := map[string]any{"role": "user", "content": msg, "timestamp": now()}
	reply := map[string]any{"role": "assistant", "content": "echo: " + msg, "timestamp": now()}
	s.mu.Lock()
	s.history[sessionID] = append(s.history[sessionID], user, reply)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": reply, "session_id": sessionID})
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	s.mu.Lock()
	msgs := s.history[sessionID]
	s.mu.Unlock()
	if msgs == nil {
		msgs = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) newSession(w http.ResponseWriter, _ *http.Request) {
	rec := map[string]any{"session_id": uuid.NewString(), "created_at": now()}
	s.mu.Lock()
	s.sessions = append(s.sessions, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.sessions
	if sessions == nil {
		sessions = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// --- translator ---

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	lang := orDefault(body["language"], "python")
	writeJSON(w, http.StatusOK, map[string]any{
		"code":     "# generated\npass",
		"language": lang,
		"warnings": []string{},
	})
}

// --- file search ---

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	if s.SlowSearch != nil {
		<-s.SlowSearch
	}
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	q := orString(body["query"])
	s.mu.Lock()
	defer s.mu.Unlock()
	results := []map[string]any{}
	for path := range s.indexed {
		if q == "*" || strings.Contains(path, q) {
			results = append(results, map[string]any{"path": path, "score": 1.0})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) addIndex(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	s.indexed[orString(body["path"])] = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "indexed"})
}

func (s *Server) removeIndex(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	delete(s.indexed, orString(body["path"]))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "removed"})
}

func (s *Server) listDirectories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dirs := s.directories
	if dirs == nil {
		dirs = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"directories": dirs})
}

func (s *Server) addDirectory(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	path := orString(body["path"])
	rec := map[string]any{
		"path":                   path,
		"include_subdirectories": body["include_subdirectories"] == true,
		"file_extensions":        orEmpty(body["file_extensions"]),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Adding an already-watched path is a replace, not an error.
	for i, d := range s.directories {
		if d["path"] == path {
			s.directories[i] = rec
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	s.directories = append(s.directories, rec)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) removeDirectory(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	path := orString(body["path"])
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.directories {
		if d["path"] == path {
			s.directories = append(s.directories[:i], s.directories[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"message": "removed"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "directory not watched"})
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"indexed_files":       len(s.indexed),
		"indexed_directories": len(s.directories),
		"total_size_bytes":    int64(len(s.indexed)) * 1024,
		"last_reindex_at":     nil,
	})
}

func (s *Server) extendedStats(w http.ResponseWriter, _ *http.Request) {
	if !s.ExtendedStats {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "extended stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth":   0,
		"index_healthy": true,
		"engine_status": "idle",
	})
}

func (s *Server) reindex(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.reindexes++
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"job_id": uuid.NewString()})
}

// --- shared helpers ---

func (s *Server) byID(w http.ResponseWriter, r *http.Request, set []map[string]any, notFound string) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range set {
		if rec["id"] == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": notFound})
}

// updateByID applies the allowed fields of the request body to the
// matching record, skipping absent or null fields.
func (s *Server) updateByID(w http.ResponseWriter, r *http.Request, set []map[string]any, notFound string, fields []string) {
	var body map[string]any
	if !decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range set {
		if rec["id"] == id {
			for _, k := range fields {
				if v, ok := body[k]; ok && v != nil {
					rec[k] = v
				}
			}
			rec["updated_at"] = now()
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": notFound})
}

func (s *Server) deleteByID(w http.ResponseWriter, r *http.Request, set *[]map[string]any, notFound string) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range *set {
		if rec["id"] == id {
			*set = append((*set)[:i], (*set)[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": notFound})
}

func orEmpty(v any) any {
	if v == nil {
		return []string{}
	}
	return v
}

func orString(v any) string {
	s, _ := v.(string)
	return s
}

func orDefault(v any, def string) string {
	if s := orString(v); s != "" {
		return s
	}
	return def
}
