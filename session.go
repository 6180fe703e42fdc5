package main

import (
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/playlist"
	"github.com/bitpunk-fm/zinecast/internal/syncx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session is one listening session shared across a user's devices: the
// queue, what is playing, and how it advances. Playback itself happens in
// the clients; the session keeps them agreeing on what plays next.
type Session struct {
	Mu       sync.Mutex
	ID       string
	Name     string
	Key      string
	Shuffle  bool
	Repeat   bool
	Playing  bool
	Queue    []playlist.ResolvedTrack
	Order    []int // play order, indexes into Queue
	Pos      int   // position in Order
	End      time.Time
	PushTime int64
	remain   time.Duration // left on the clock while paused

	Connection []*Connection

	// private
	queue      syncx.UnboundedChan[[]byte]
	close      chan struct{}
	emptySince time.Time // zero while at least one device is connected
}

// sessionIdleTimeout is how long a session with no devices survives before
// it is torn down.
const sessionIdleTimeout = 10 * time.Minute

var sessionsMu sync.Mutex
var sessions = make(map[string]*Session)

func addSession(c *gin.Context) {
	var requestBody struct {
		Name string `json:"name"`
		Key  string `json:"key"`
	}

	err := c.ShouldBindBodyWithJSON(&requestBody)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionId := uuid.New().String()
	session := &Session{
		ID:   sessionId,
		Name: requestBody.Name,
		Key:  requestBody.Key,

		queue:      syncx.NewUnboundedChan[[]byte](8),
		close:      make(chan struct{}),
		emptySince: time.Now(),
	}
	sessionsMu.Lock()
	sessions[sessionId] = session
	sessionsMu.Unlock()

	session.Start()
	c.JSON(http.StatusOK, gin.H{"code": "20000", "message": "session created", "data": sessionId})
}

func GetSession(id string) *Session {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	return sessions[id]
}

func enterSession(c *gin.Context) {
	var request struct {
		SessionID string `json:"id"`
		Key       string `json:"key"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := GetSession(request.SessionID)
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if session.Key != request.Key {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": "20000", "message": "joined session", "data": request.SessionID})
}

func searchSessions(c *gin.Context) {
	var response []map[string]interface{}
	sessionsMu.Lock()
	for sessionId, session := range sessions {
		session.Mu.Lock()
		response = append(response, map[string]interface{}{
			"id":        sessionId,
			"name":      session.Name,
			"devices":   len(session.Connection),
			"playing":   session.Playing,
			"queueSize": len(session.Queue),
			"needKey":   session.Key != "",
		})
		session.Mu.Unlock()
	}
	sessionsMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"code": "20000", "message": "session list", "data": response})
}

func (s *Session) lock(fn func()) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	fn()
}

func (s *Session) Start() {
	ticker := time.NewTicker(time.Millisecond * 500)
	go func() {
		for {
			select {
			case <-s.close:
				ticker.Stop()
				return
			case j := <-s.queue.Out():
				s.lock(func() {
					for _, conn := range s.Connection {
						conn.SendRaw(j)
					}
				})
			case <-ticker.C:
				s.Update()
				if s.idleExpired(time.Now()) {
					sessionsMu.Lock()
					delete(sessions, s.ID)
					sessionsMu.Unlock()
					ticker.Stop()
					return
				}
			}
		}
	}()
}

// idleExpired reports whether the session has been without devices long
// enough to reap.
func (s *Session) idleExpired(now time.Time) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return len(s.Connection) == 0 && !s.emptySince.IsZero() &&
		now.Sub(s.emptySince) > sessionIdleTimeout
}

func (s *Session) Broadcast(msg any) {
	j := encJson(msg)
	s.queue.In() <- j
}

// Update auto-advances once the current track's clock runs out.
func (s *Session) Update() {
	advance := false
	s.lock(func() {
		if s.Playing && len(s.Order) > 0 && s.End.Before(time.Now()) {
			advance = true
		}
	})
	if advance {
		s.Next()
	}
}

// current returns the playing track. Callers hold the lock.
func (s *Session) current() *playlist.ResolvedTrack {
	if len(s.Order) == 0 || s.Pos < 0 || s.Pos >= len(s.Order) {
		return nil
	}
	return &s.Queue[s.Order[s.Pos]]
}

// pushCurrent broadcasts the now-playing track. Callers hold the lock.
func (s *Session) pushCurrent() {
	t := s.current()
	if t == nil {
		return
	}
	now := time.Now()
	s.PushTime = now.Add(200 * time.Millisecond).UnixMilli()
	s.End = now.Add(time.Duration(t.Duration) * time.Millisecond)
	s.Playing = true
	s.remain = 0

	if t.Local {
		guid := t.ItemGUID
		go func() { _ = catalog.IncrementPlayCount(guid) }()
	}

	j := encJson(gin.H{
		"type":     "now_playing",
		"track":    t,
		"index":    s.Order[s.Pos],
		"pushTime": s.PushTime,
	})
	s.queue.In() <- j
}

// buildOrder rebuilds the play order. The track at queue index keep stays
// first so toggling shuffle never interrupts what is playing. Callers hold
// the lock.
func (s *Session) buildOrder(keep int) {
	n := len(s.Queue)
	s.Order = make([]int, n)
	for i := range s.Order {
		s.Order[i] = i
	}
	s.Pos = 0
	if n == 0 {
		return
	}
	if !s.Shuffle {
		if keep >= 0 && keep < n {
			s.Pos = keep
		}
		return
	}
	rand.Shuffle(n, func(i, j int) {
		s.Order[i], s.Order[j] = s.Order[j], s.Order[i]
	})
	if keep >= 0 && keep < n {
		for i, v := range s.Order {
			if v == keep {
				s.Order[0], s.Order[i] = s.Order[i], s.Order[0]
				break
			}
		}
	}
}

// LoadQueue replaces the queue and starts playing at start.
func (s *Session) LoadQueue(tracks []playlist.ResolvedTrack, start int) {
	s.lock(func() {
		s.Queue = tracks
		s.buildOrder(start)
		s.pushCurrent()
	})
	s.PushQueue()
}

// Next advances the play order, wrapping only when repeat is on.
func (s *Session) Next() {
	stopped := false
	s.lock(func() {
		if len(s.Order) == 0 {
			return
		}
		if s.Pos+1 >= len(s.Order) {
			if !s.Repeat {
				s.Playing = false
				stopped = true
				return
			}
			s.Pos = 0
		} else {
			s.Pos++
		}
		s.pushCurrent()
	})
	if stopped {
		s.Broadcast(gin.H{"type": "stopped"})
	}
}

// Prev steps back in the play order, stopping at the first track.
func (s *Session) Prev() {
	s.lock(func() {
		if len(s.Order) == 0 {
			return
		}
		if s.Pos > 0 {
			s.Pos--
		}
		s.pushCurrent()
	})
}

// Pause freezes the clock; Resume restarts it with the remaining time.
// Neither broadcasts unless the state actually changed.
func (s *Session) Pause() {
	changed := false
	s.lock(func() {
		if !s.Playing {
			return
		}
		s.Playing = false
		s.remain = time.Until(s.End)
		if s.remain < 0 {
			s.remain = 0
		}
		changed = true
	})
	if changed {
		s.Broadcast(gin.H{"type": "paused"})
	}
}

func (s *Session) Resume() {
	changed := false
	s.lock(func() {
		if s.Playing || s.current() == nil {
			return
		}
		s.Playing = true
		s.End = time.Now().Add(s.remain)
		s.PushTime = time.Now().Add(200 * time.Millisecond).UnixMilli()
		changed = true
	})
	if changed {
		s.Broadcast(gin.H{"type": "resumed"})
	}
}

// SetShuffle toggles shuffle, keeping the current track in place.
func (s *Session) SetShuffle(enable bool) {
	s.lock(func() {
		if s.Shuffle == enable {
			return
		}
		keep := -1
		if t := s.current(); t != nil {
			keep = s.Order[s.Pos]
		}
		s.Shuffle = enable
		s.buildOrder(keep)
	})
	s.PushQueue()
}

// snapshot builds the full session state message. Callers hold the lock.
func (s *Session) snapshot() gin.H {
	h := gin.H{
		"type":    "queue",
		"queue":   s.Queue,
		"order":   s.Order,
		"pos":     s.Pos,
		"playing": s.Playing,
		"shuffle": s.Shuffle,
		"repeat":  s.Repeat,
		"devices": len(s.Connection),
	}
	if t := s.current(); t != nil {
		h["track"] = t
		h["pushTime"] = s.PushTime
	}
	return h
}

// PushQueue broadcasts the queue state to every device.
func (s *Session) PushQueue() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	j := encJson(s.snapshot())
	s.queue.In() <- j
}

// enter sends the session state to a device that just connected.
func (s *Session) enter(c *Connection) {
	s.lock(func() {
		c.Send(s.snapshot())
	})
}
