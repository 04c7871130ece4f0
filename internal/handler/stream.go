package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type streamMessage struct {
	Type      string                        `json:"type"`
	Timestamp time.Time                     `json:"timestamp"`
	Data      *model.MarketAnalysisResponse `json:"data,omitempty"`
}

// StreamHandler pushes a freshly computed market analysis to each websocket
// client on a fixed interval. Nothing is shared between connections.
type StreamHandler struct {
	analysis *service.AnalysisService
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewStreamHandler(analysis *service.AnalysisService, interval time.Duration, allowedOrigins []string) *StreamHandler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StreamHandler{
		analysis: analysis,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

func (h *StreamHandler) MarketStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if !h.push(ctx, conn) {
		return
	}
	for {
		select {
		case <-ticker.C:
			if !h.push(ctx, conn) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn) bool {
	// A tick must finish before the next one is due.
	ctx, cancel := context.WithTimeout(ctx, h.interval)
	defer cancel()
	resp := h.analysis.Analyze(ctx)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(streamMessage{Type: "market_analysis", Timestamp: resp.Timestamp, Data: &resp})
	if err != nil {
		logger.Debug("websocket write failed", "error", err)
		return false
	}
	return true
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}
