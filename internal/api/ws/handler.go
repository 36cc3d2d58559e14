package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/Klin/backend/internal/domain/watch"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/id"
	"github.com/GriffinCanCode/Klin/backend/internal/shared/types"
)

// Message types
const (
	TypeSystem   = "system"
	TypeWatch    = "watch"
	TypeUnwatch  = "unwatch"
	TypeWatching = "watching"
	TypeChange   = "change"
	TypePing     = "ping"
	TypePong     = "pong"
	TypeError    = "error"
)

const writeWait = 10 * time.Second

// Handler manages WebSocket connections
type Handler struct {
	upgrader websocket.Upgrader
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler. Connections are accepted from
// the listed origins and from clients that send no Origin header.
func NewHandler(origins []string, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &Handler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		metrics: metrics,
		logger:  logger.Named("ws"),
	}
}

// HandleConnection handles WebSocket upgrade and messages. Each connection
// watches at most one folder; a new watch replaces the previous one.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	s := &session{h: h, conn: conn}
	defer s.unwatch()

	s.send(types.WSEvent{Type: TypeSystem, Message: "Connected to Klin backend (Go)"})

	incoming := make(chan types.WSMessage)
	done := make(chan struct{})
	defer close(done)
	go s.readLoop(incoming, done)

	// All writes happen on this goroutine
	ctx := c.Request.Context()
	for {
		var events <-chan watch.Event
		var errs <-chan error
		if s.watcher != nil {
			events = s.watcher.Events()
			errs = s.watcher.Errors()
		}

		select {
		case <-ctx.Done():
			return
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			s.handle(msg)
		case ev, ok := <-events:
			if !ok {
				s.watcher = nil
				continue
			}
			if h.metrics != nil {
				h.metrics.RecordWatchEvent(ev.Op)
			}
			s.send(types.WSEvent{
				Type:      TypeChange,
				ID:        s.watchID,
				Op:        ev.Op,
				Path:      ev.Path,
				Name:      ev.Name,
				Timestamp: ev.Time.Unix(),
			})
		case err, ok := <-errs:
			if !ok {
				s.watcher = nil
				continue
			}
			h.logger.Warn("watcher error", zap.String("path", s.watcher.Path()), zap.Error(err))
			s.sendError(err.Error())
		}
	}
}

type session struct {
	h       *Handler
	conn    *websocket.Conn
	watcher *watch.Watcher
	watchID string
}

func (s *session) readLoop(out chan<- types.WSMessage, done <-chan struct{}) {
	defer close(out)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			msg = types.WSMessage{Type: ""}
		}
		select {
		case out <- msg:
		case <-done:
			return
		}
	}
}

func (s *session) handle(msg types.WSMessage) {
	if s.h.metrics != nil {
		s.h.metrics.RecordWSMessage("in", msg.Type)
	}

	switch msg.Type {
	case TypeWatch:
		s.watch(msg.Path)
	case TypeUnwatch:
		s.unwatch()
		s.send(types.WSEvent{Type: TypeWatching, Message: "stopped"})
	case TypePing:
		s.send(types.WSEvent{Type: TypePong})
	default:
		s.sendError("unknown message type")
	}
}

func (s *session) watch(path string) {
	w, err := watch.New(path)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	s.unwatch()
	s.watcher = w
	s.watchID = id.NewWatchID().String()

	s.h.logger.Info("watching folder", zap.String("path", w.Path()), zap.String("watch_id", s.watchID))
	s.send(types.WSEvent{Type: TypeWatching, ID: s.watchID, Path: w.Path()})
}

func (s *session) unwatch() {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Close(); err != nil {
		s.h.logger.Debug("watcher close failed", zap.Error(err))
	}
	s.watcher = nil
	s.watchID = ""
}

func (s *session) send(ev types.WSEvent) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	data, err := sonic.Marshal(ev)
	if err != nil {
		s.h.logger.Error("encode websocket frame", zap.Error(err))
		return
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.h.logger.Debug("websocket write failed", zap.Error(err))
		return
	}
	if s.h.metrics != nil {
		s.h.metrics.RecordWSMessage("out", ev.Type)
	}
}

func (s *session) sendError(msg string) {
	s.send(types.WSEvent{Type: TypeError, Message: msg})
}
