package task

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCallRoundTrip(t *testing.T) {
	s := NewServer("")
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/poll", s.PollTaskHandler)
	mux.HandleFunc("/tasks/result", s.SubmitResultHandler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.PollTimeout = 2 * time.Second

	// worker loop: one task, echo its payload back
	go func() {
		for {
			task, err := c.GetTask(context.Background())
			if err != nil || task == nil {
				continue
			}
			_ = c.SubmitResult(NewResultWithData(task.ID, []byte(`{"feedUrl":"`+task.Data["feedUrl"]+`"}`)))
			return
		}
	}()

	task := s.NewTask("feed:import", map[string]string{"feedUrl": "https://example.com/feed.xml"})
	result := s.Call(task, 5*time.Second)
	if result == nil {
		t.Fatal("Call timed out")
	}
	if !result.Success {
		t.Fatalf("result failed: %s", result.Error)
	}
	if string(result.Result) != `{"feedUrl":"https://example.com/feed.xml"}` {
		t.Errorf("result payload = %s", result.Result)
	}
}

func TestCallTimeout(t *testing.T) {
	s := NewServer("")
	task := s.NewTask("feed:import", nil)
	start := time.Now()
	if result := s.Call(task, 100*time.Millisecond); result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	if time.Since(start) > time.Second {
		t.Error("Call did not respect timeout")
	}
}

func TestWorkerAuthAndVersionGate(t *testing.T) {
	s := NewServer("sekrit")

	r := httptest.NewRequest("GET", "/tasks/poll", nil)
	w := httptest.NewRecorder()
	s.PollTaskHandler(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status %d", w.Code)
	}

	r = httptest.NewRequest("GET", "/tasks/poll?timeout=1", nil)
	r.Header.Set("Authorization", "Bearer sekrit")
	r.Header.Set("Feed-Let-Version", WorkerVersion)
	w = httptest.NewRecorder()
	s.PollTaskHandler(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("valid worker, empty queue: status %d", w.Code)
	}
}
