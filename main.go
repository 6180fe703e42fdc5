package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/bitpunk-fm/zinecast/internal/base"
	"github.com/bitpunk-fm/zinecast/internal/catalog"
	"github.com/bitpunk-fm/zinecast/internal/lnurl"
	"github.com/bitpunk-fm/zinecast/internal/nostr"
	"github.com/bitpunk-fm/zinecast/internal/playlist"
	"github.com/bitpunk-fm/zinecast/internal/podcastindex"
	"github.com/bitpunk-fm/zinecast/internal/syncx"
	"github.com/bitpunk-fm/zinecast/internal/task"
)

var (
	resolver       *playlist.Resolver
	pindex         *podcastindex.Client
	lnClient       *lnurl.Client
	nostrPublisher *nostr.Publisher
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
} // use default options

func main() {
	base.InitConfig()
	base.InitLog()
	catalog.InitDB()

	pindex = podcastindex.NewClient(base.Config.PodcastIndexAPI,
		base.Config.PodcastIndexKey, base.Config.PodcastIndexSecret)
	resolver = playlist.NewResolver(pindex)
	lnClient = lnurl.NewClient()

	var err error
	nostrPublisher, err = nostr.NewPublisher(base.Config.NostrKey, base.Config.NostrRelays)
	if err != nil {
		log.Fatal().Err(err).Msg("nostr publisher init failed")
	}

	task.Scheduler = task.NewServer(base.Config.WorkerToken)

	gin.SetMode(gin.ReleaseMode)
	g := gin.Default()
	g.Use(Cors())

	g.GET("/api/albums", listAlbums)
	g.GET("/api/albums/:slug", getAlbum)
	g.POST("/api/tracks/:guid/played", trackPlayed)
	g.GET("/api/publishers", listPublishers)
	g.GET("/api/publishers/:guid", getPublisher)

	g.GET("/api/playlists", listPlaylists)
	g.POST("/api/playlists", createPlaylist)
	g.GET("/api/playlists/:id", getPlaylist)
	g.PUT("/api/playlists/:id", updatePlaylist)
	g.DELETE("/api/playlists/:id", deletePlaylist)
	g.POST("/api/playlists/:id/tracks", addPlaylistTrack)
	g.DELETE("/api/playlists/:id/tracks", removePlaylistTrack)
	g.GET("/api/playlists/:id/resolve", resolvePlaylist)

	g.POST("/api/auth/session", createAuthSession)
	g.GET("/api/favorites", listFavorites)
	g.POST("/api/favorites", addFavorite)
	g.DELETE("/api/favorites", removeFavorite)

	g.POST("/api/boost", createBoost)

	g.POST("/api/sessions", addSession)
	g.POST("/api/sessions/enter", enterSession)
	g.GET("/api/sessions", searchSessions)

	g.POST("/api/admin/login", adminLogin)
	admin := g.Group("/api/admin", adminRequired)
	admin.POST("/import", adminImport)
	admin.POST("/playlists", adminCreatePlaylist)

	g.GET("/tasks/poll", gin.WrapF(task.Scheduler.PollTaskHandler))
	g.POST("/tasks/result", gin.WrapF(task.Scheduler.SubmitResultHandler))

	g.Any("/sync", serveSync)

	log.Info().Str("addr", base.Config.Addr).Msg("zinecast listening")
	if err := http.ListenAndServe(base.Config.Addr, g); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// serveSync upgrades a device into its session's websocket fan-out.
func serveSync(c *gin.Context) {
	w, r := c.Writer, c.Request

	sessionId := r.URL.Query().Get("sessionId")
	key := r.URL.Query().Get("key")

	session := GetSession(sessionId)
	if session == nil || session.Key != key {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	wc, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer wc.Close()

	conn := &Connection{
		conn: wc,
		ip:   maskIP(r.RemoteAddr),
		send: syncx.NewUnboundedChan[[]byte](8),
	}

	session.lock(func() {
		session.Connection = append(session.Connection, conn)
		session.emptySince = time.Time{}
	})

	conn.Start()
	session.enter(conn)

	for {
		_, message, err := wc.ReadMessage()
		if err != nil {
			// remove from connections
			session.lock(func() {
				for i, conn := range session.Connection {
					if conn.conn == wc {
						session.Connection = append(session.Connection[:i], session.Connection[i+1:]...)
					}
				}
				if len(session.Connection) == 0 {
					session.emptySince = time.Now()
				}
			})
			conn.Close()
			break
		}

		// async handle command
		go func() {
			msg := gjson.ParseBytes(message)
			action := msg.Get("action").String()
			handler := route[action]
			if handler == nil {
				log.Debug().Str("action", action).Msg("unhandled message")
				return
			}
			handler(&Context{
				conn:    conn,
				session: session,
				data:    msg.Get("data"),
			})
		}()
	}
}

var route = map[string]func(ctx *Context){
	"/session/status":   sessionStatus,
	"/session/device":   setDevice,
	"/session/devices":  sessionDevices,
	"/queue/album":      queueAlbum,
	"/queue/playlist":   queuePlaylist,
	"/queue/add":        queueAdd,
	"/queue/remove":     queueRemove,
	"/queue/play":       playIndex,
	"/playback/pause":   pausePlayback,
	"/playback/resume":  resumePlayback,
	"/playback/next":    nextTrack,
	"/playback/prev":    prevTrack,
	"/playback/shuffle": setShuffle,
	"/playback/repeat":  setRepeat,
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "authorization,content-type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func maskIP(ip string) string {
	// 192.0.0.1:80 => 192.0.*.*
	ip = lastCut(ip, ":")
	ip = lastCut(ip, ".")
	ip = lastCut(ip, ".")
	return ip + ".*.*"
}

func lastCut(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}
