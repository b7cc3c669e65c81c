package live

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/meladine121/reverse-engineertoolforweb-emergent/internal/broadcast"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware on the
	// HTTP routes; the websocket endpoint accepts any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsSubscriber adapts one websocket connection to the fan-out hub.
// Writes are serialized because gorilla connections allow only one
// concurrent writer.
type wsSubscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSubscriber) Send(msg broadcast.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

func (s *wsSubscriber) Close() error {
	return s.conn.Close()
}

// ServeWS handles GET requests upgrading to a websocket subscription on
// the live event stream
func ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[LIVE]: Websocket upgrade failed: %v", err)
		return
	}

	sub := &wsSubscriber{conn: conn}
	handle := hub.Subscribe(sub)

	// Drain inbound frames until the client disconnects, then detach
	go func() {
		defer hub.Unsubscribe(handle)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
