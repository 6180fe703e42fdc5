package main

import (
	"encoding/json"
	"sync"

	"github.com/bitpunk-fm/zinecast/internal/syncx"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

type Context struct {
	conn    *Connection
	session *Session
	data    gjson.Result
}

func (c *Context) Get(p string) gjson.Result {
	return c.data.Get(p)
}

func (c *Context) WithSession(f func(*Session)) {
	c.session.Mu.Lock()
	defer c.session.Mu.Unlock()
	f(c.session)
}

type Connection struct {
	ip   string
	send syncx.UnboundedChan[[]byte]

	mu     sync.Mutex
	device string
	closed bool

	conn *websocket.Conn
}

func (c *Connection) Start() {
	go func() {
		for x := range c.send.Out() {
			_ = c.conn.WriteMessage(websocket.TextMessage, x)
		}
	}()
}

func (c *Connection) GetDevice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.device
}

func encJson(j any) []byte {
	b, _ := json.Marshal(j)
	return b
}

func (c *Connection) Send(j any) {
	c.SendRaw(encJson(j))
}

func (c *Connection) SendRaw(j []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.send.In() <- j
}

// Close stops the write pump. Later sends are dropped.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.send.Close()
}
