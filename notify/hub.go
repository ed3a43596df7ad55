package notify

import (
	"log"
	"net/http"
	"time"

	"tooltrack/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS is enforced at the HTTP layer; the handshake itself accepts any
	// origin the router let through.
	CheckOrigin: func(*http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Hub upgrades authenticated clients to websockets and copies their Redis
// subscription onto the socket.
type Hub struct {
	rdb    *redis.Client
	issuer *token.Issuer
}

func NewHub(rdb *redis.Client, issuer *token.Issuer) *Hub {
	return &Hub{rdb: rdb, issuer: issuer}
}

// Serve is the GET /ws/tooltrack handler. The subscriber's identity comes
// from the bearer token passed as the `token` query parameter and verified at
// handshake time, not from a bare userId the client claims.
func (h *Hub) Serve(c *gin.Context) {
	claims, err := h.issuer.Parse(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	sub := h.rdb.Subscribe(c.Request.Context(), userChannel(claims.Subject), greetingsChannel)
	go h.pump(conn, sub, claims.Subject)
}

// pump copies subscription messages to the socket until either side closes.
func (h *Hub) pump(conn *websocket.Conn, sub *redis.PubSub, email string) {
	defer func() {
		_ = sub.Close()
		_ = conn.Close()
	}()

	// Drain client frames so pong/close handling works; drop the payloads.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				_ = sub.Close()
				return
			}
		}
	}()

	ch := sub.Channel()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("notify: drop subscriber %s: %v", email, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
