package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"

	"github.com/tejusbharadwaj/climatewidget/internal/api"
	middleware "github.com/tejusbharadwaj/climatewidget/internal/httpapi/middlewares"
)

// CameraFailedText is sent to a client before closing once the camera
// cannot be reached after MaxReconnectAttempts.
const CameraFailedText = "Camera connection failed after maximum retries"

// StreamConfig controls the camera relay.
type StreamConfig struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	FrameInterval        time.Duration // pause after each relayed frame (~30 FPS)
}

func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		MaxReconnectAttempts: 3,
		ReconnectDelay:       5 * time.Second,
		FrameInterval:        33 * time.Millisecond,
	}
}

// ConnectionManager tracks the websocket clients currently being relayed to.
type ConnectionManager struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	gauge  prometheus.Gauge
	logger *logrus.Logger
}

// NewConnectionManager creates a manager. gauge may be nil.
func NewConnectionManager(gauge prometheus.Gauge, logger *logrus.Logger) *ConnectionManager {
	return &ConnectionManager{
		conns:  make(map[*websocket.Conn]struct{}),
		gauge:  gauge,
		logger: logger,
	}
}

func (m *ConnectionManager) Connect(conn *websocket.Conn) {
	m.mu.Lock()
	m.conns[conn] = struct{}{}
	n := len(m.conns)
	m.mu.Unlock()

	if m.gauge != nil {
		m.gauge.Inc()
	}
	m.logger.WithField("connections", n).Info("Client connected")
}

// Disconnect forgets conn. Unknown connections are ignored.
func (m *ConnectionManager) Disconnect(conn *websocket.Conn) {
	m.mu.Lock()
	_, ok := m.conns[conn]
	delete(m.conns, conn)
	n := len(m.conns)
	m.mu.Unlock()

	if !ok {
		return
	}
	if m.gauge != nil {
		m.gauge.Dec()
	}
	m.logger.WithField("connections", n).Info("Client disconnected")
}

func (m *ConnectionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}

// CloseAll closes every client with StatusGoingAway. Hijacked connections
// are not closed by http.Server.Shutdown.
func (m *ConnectionManager) CloseAll(reason string) {
	m.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(m.conns))
	for c := range m.conns {
		conns = append(conns, c)
	}
	m.mu.Unlock()

	for _, c := range conns {
		_ = c.Close(websocket.StatusGoingAway, reason)
	}
}

type streamStatusResponse struct {
	ActiveConnections int    `json:"active_connections"`
	Status            string `json:"status"`
}

// StreamController relays camera frames to websocket clients.
type StreamController struct {
	camera  api.CameraSource
	manager *ConnectionManager
	cfg     StreamConfig
	logger  *logrus.Logger
}

func NewStreamController(camera api.CameraSource, manager *ConnectionManager, cfg StreamConfig, logger *logrus.Logger) *StreamController {
	return &StreamController{camera: camera, manager: manager, cfg: cfg, logger: logger}
}

// GET /v1/stream/ws
func (c *StreamController) Relay(w http.ResponseWriter, r *http.Request) {
	// Streams outlive the server's WriteTimeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		c.logger.WithError(err).Warn("Failed to accept websocket")
		return
	}
	c.manager.Connect(conn)
	defer c.manager.Disconnect(conn)

	// Client messages are discarded; ctx ends when the client goes away.
	ctx := conn.CloseRead(r.Context())
	logger := c.logger.WithField("request_id", middleware.RequestID(r.Context()))

	c.relay(ctx, conn, logger)
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

// relay forwards frames until the client leaves or the camera is given up on.
func (c *StreamController) relay(ctx context.Context, conn *websocket.Conn, logger *logrus.Entry) {
	var camera api.CameraConn
	defer func() {
		if camera != nil {
			if err := camera.Close(); err != nil {
				logger.WithError(err).Debug("Error closing camera websocket")
			}
		}
	}()

	attempts := 0
	for {
		if camera == nil {
			if attempts >= c.cfg.MaxReconnectAttempts {
				logger.Error("Max reconnection attempts reached")
				if err := conn.Write(ctx, websocket.MessageText, []byte(CameraFailedText)); err != nil {
					logger.WithError(err).Info("Error notifying client of camera failure")
				}
				return
			}

			cam, err := c.camera.Connect(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				attempts++
				logger.WithError(err).WithFields(logrus.Fields{
					"attempt":      attempts,
					"max_attempts": c.cfg.MaxReconnectAttempts,
				}).Warn("Failed to connect to camera, retrying")
				if !sleep(ctx, c.cfg.ReconnectDelay) {
					return
				}
				continue
			}
			camera = cam
			attempts = 0
		}

		frame, err := camera.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithError(err).Warn("Camera connection closed. Attempting to reconnect")
			_ = camera.Close()
			camera = nil
			continue
		}

		if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
			logger.WithError(err).Info("Error sending frame to client")
			return
		}
		if c.cfg.FrameInterval > 0 && !sleep(ctx, c.cfg.FrameInterval) {
			return
		}
	}
}

// GET /v1/stream/status
func (c *StreamController) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, streamStatusResponse{
		ActiveConnections: c.manager.Count(),
		Status:            "running",
	})
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
