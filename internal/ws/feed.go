// Package ws streams newly posted comments to browsers watching a
// movie's detail page, so threads update without polling.
package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/reelbase/reelbase/internal/models"
	"go.uber.org/zap"
)

// CommentFeed fans each new comment out to every connection subscribed
// to that comment's movie. All bookkeeping goes through the hub
// goroutine's select loop; the mutex guards the subscriber map so the
// write fan-out can run against a snapshot without holding up joins.
type CommentFeed struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]map[*websocket.Conn]bool

	broadcast  chan models.CommentWithAuthor
	register   chan subscription
	unregister chan subscription
	logger     *zap.Logger
}

type subscription struct {
	conn    *websocket.Conn
	movieID uuid.UUID
}

func NewCommentFeed(logger *zap.Logger) *CommentFeed {
	return &CommentFeed{
		subscribers: make(map[uuid.UUID]map[*websocket.Conn]bool),
		broadcast:   make(chan models.CommentWithAuthor, 64),
		register:    make(chan subscription),
		unregister:  make(chan subscription),
		logger:      logger,
	}
}

// Run is the hub loop; start it once, in its own goroutine.
func (f *CommentFeed) Run() {
	for {
		select {
		case sub := <-f.register:
			f.add(sub.movieID, sub.conn)

		case sub := <-f.unregister:
			if f.remove(sub.movieID, sub.conn) {
				sub.conn.Close()
			}

		case comment := <-f.broadcast:
			for _, conn := range f.snapshot(comment.MovieID) {
				if err := conn.WriteJSON(comment); err != nil {
					f.logger.Warn("ws write failed", zap.Error(err))
					conn.Close()
					f.remove(comment.MovieID, conn)
				}
			}
		}
	}
}

func (f *CommentFeed) add(movieID uuid.UUID, conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[movieID] == nil {
		f.subscribers[movieID] = make(map[*websocket.Conn]bool)
	}
	f.subscribers[movieID][conn] = true
}

// remove reports whether the connection was subscribed. The movie's
// bucket goes with its last connection, so movies that lost their
// audience don't accumulate empty entries over the feed's lifetime.
func (f *CommentFeed) remove(movieID uuid.UUID, conn *websocket.Conn) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	conns, ok := f.subscribers[movieID]
	if !ok || !conns[conn] {
		return false
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(f.subscribers, movieID)
	}
	return true
}

// snapshot copies a movie's subscribers out so the fan-out writes
// happen without holding the lock.
func (f *CommentFeed) snapshot(movieID uuid.UUID) []*websocket.Conn {
	f.mu.Lock()
	defer f.mu.Unlock()

	conns := make([]*websocket.Conn, 0, len(f.subscribers[movieID]))
	for conn := range f.subscribers[movieID] {
		conns = append(conns, conn)
	}
	return conns
}

// PublishComment hands a new comment to the hub. Non-blocking: if the
// broadcast buffer is full the comment is dropped from the live feed —
// it's already persisted, subscribers just miss the push.
func (f *CommentFeed) PublishComment(comment models.CommentWithAuthor) {
	select {
	case f.broadcast <- comment:
	default:
		f.logger.Warn("comment feed backlogged, dropping broadcast",
			zap.String("movie_id", comment.MovieID.String()),
		)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe handles GET /v1/movies/:id/comments/live. The feed is
// read-only for clients: incoming frames are drained and discarded, and
// the reader goroutine unregisters the connection when it drops.
func (f *CommentFeed) Subscribe(c *gin.Context) {
	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		f.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	f.register <- subscription{conn: conn, movieID: movieID}

	go func() {
		defer func() {
			f.unregister <- subscription{conn: conn, movieID: movieID}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
