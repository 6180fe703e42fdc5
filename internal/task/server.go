package task

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitpunk-fm/zinecast/internal/semver"
	"github.com/bitpunk-fm/zinecast/internal/syncx"
)

var Scheduler *Server // manual initialize

// Server hands tasks to long-polling feedlet workers and routes results
// back to the caller waiting on them.
type Server struct {
	token   string
	tasks   syncx.UnboundedChan[*Task]
	results sync.Map // map[string]chan *Result
	idGen   atomic.Uint64
	polling atomic.Int64 // workers currently parked in PollTaskHandler
}

var minAllowedVersion = semver.MustParse("v0.1.0")

func NewServer(token string) *Server {
	return &Server{
		tasks: syncx.NewUnboundedChan[*Task](32),
		token: token,
	}
}

// NewTask creates a task with a generated id.
func (s *Server) NewTask(taskType string, data map[string]string) *Task {
	id := s.idGen.Add(1)
	return &Task{
		ID:   strconv.FormatUint(id, 10),
		Type: taskType,
		Data: data,
	}
}

// HasWorkers reports whether any worker is parked waiting for a task.
func (s *Server) HasWorkers() bool {
	return s.polling.Load() > 0
}

// Call enqueues a task and waits for its result.
func (s *Server) Call(task *Task, timeout time.Duration) *Result {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.CallContext(ctx, task)
}

func (s *Server) CallContext(ctx context.Context, task *Task) *Result {
	resultChan := make(chan *Result, 1)
	s.results.Store(task.ID, resultChan)
	defer s.results.Delete(task.ID)

	s.tasks.In() <- task
	select {
	case result := <-resultChan:
		return result
	case <-ctx.Done():
		return nil
	}
}

func (s *Server) precheck(r *http.Request, w http.ResponseWriter) bool {
	if !s.validateToken(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return false
	}

	version, err := semver.Parse(r.Header.Get("Feed-Let-Version"))
	if err != nil || !version.GreaterEqual(minAllowedVersion) {
		time.Sleep(15 * time.Second) // slow stale workers down before they retry
		writeJSON(w, http.StatusUpgradeRequired, map[string]string{
			"error":       "worker version too old",
			"min_version": minAllowedVersion.String(),
		})
		return false
	}

	return true
}

func (s *Server) validateToken(r *http.Request) bool {
	if s.token == "" {
		return true // token check disabled
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return false
	}

	const bearerPrefix = "Bearer "
	if len(authHeader) <= len(bearerPrefix) || authHeader[:len(bearerPrefix)] != bearerPrefix {
		return false
	}

	token := authHeader[len(bearerPrefix):]
	return token == s.token
}

// PollTaskHandler parks a worker until a task arrives or the poll times out.
func (s *Server) PollTaskHandler(w http.ResponseWriter, r *http.Request) {
	if !s.precheck(r, w) {
		return
	}

	timeoutStr := r.URL.Query().Get("timeout")
	timeout := 30 * time.Second
	if timeoutStr != "" {
		if t, err := strconv.Atoi(timeoutStr); err == nil {
			timeout = time.Duration(t) * time.Second
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	s.polling.Add(1)
	defer s.polling.Add(-1)

	select {
	case task := <-s.tasks.Out():
		writeJSON(w, http.StatusOK, task)
	case <-ctx.Done():
		writeJSON(w, http.StatusNoContent, nil)
	}
}

// SubmitResultHandler accepts a worker's result and wakes the caller.
func (s *Server) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	if !s.precheck(r, w) {
		return
	}

	var result Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if chanInterface, ok := s.results.Load(result.ID); ok {
		if resultChan, ok := chanInterface.(chan *Result); ok {
			resultChan <- &result
			writeJSON(w, http.StatusOK, map[string]string{"message": "result accepted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "no task waiting for this result"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
