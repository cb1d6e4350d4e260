package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/middleware"
	"github.com/brightpath/institute-api/internal/response"
	ws "github.com/brightpath/institute-api/internal/websocket"
)

const pingInterval = 30 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ActivitySubscriber opens a subscription to the activity channel.
type ActivitySubscriber interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

// ActivityHandler streams the live activity feed to admins.
type ActivityHandler struct {
	feed     ActivitySubscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(feed ActivitySubscriber, log zerolog.Logger, allowedOrigins []string) *ActivityHandler {
	return &ActivityHandler{
		feed:     feed,
		log:      log.With().Str("component", "activity_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/admin/activity?token=
// Relays registrations, payments, grievances, enquiries and analytics events
// as they are published.
func (h *ActivityHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("user_id", claims.UserID).Logger()

	// The request context is not reliably cancelled once the connection is
	// hijacked, so the reader goroutine owns cancellation.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.feed.Subscribe(ctx)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Activity subscription failed")
		ws.WriteError(conn, "feed unavailable")
		return
	}

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, UserID: claims.UserID}); err != nil {
		return
	}
	wsLog.Info().Msg("Admin connected to activity feed")

	pings := make(chan struct{}, 1)
	go h.readLoop(conn, wsLog, pings, cancel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Activity feed closed")
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.ActivityResponse{
				Event:    ws.EventActivity,
				Activity: []byte(msg.Payload),
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Activity write failed")
				return
			}
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client messages until the connection drops. Writes stay
// on the Stream goroutine; a ping only signals it.
func (h *ActivityHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, pings chan<- struct{}, cancel context.CancelFunc) {
	defer cancel()
	ws.ExtendOnPong(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}
		if msg.Action == ws.ActionPing {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}
