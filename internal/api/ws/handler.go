package ws

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/monitoring"
)

// Message types
const (
	TypeEvaluate    = "evaluate"
	TypeVisibleKeys = "visible_keys"
	TypeValidate    = "validate"
	TypePing        = "ping"

	TypeSystem = "system"
	TypeResult = "result"
	TypeError  = "error"
	TypePong   = "pong"
)

// maxMessageSize bounds one inbound message. Editor config sources and
// widget definitions are far smaller.
const maxMessageSize = 1 << 20

// Service is the evaluation surface used by the live channel
type Service interface {
	Evaluate(ctx context.Context, content string, values editorconfig.Values, def editorconfig.WidgetDefinition) (*editorconfig.EvaluationResult, error)
	VisiblePropertyKeys(ctx context.Context, content string, values editorconfig.Values, def editorconfig.WidgetDefinition) ([]string, bool, error)
	Validate(ctx context.Context, content string, values editorconfig.Values) ([]editorconfig.ValidationError, error)
}

// Message is a client request. ID is echoed back so clients can match replies.
type Message struct {
	Type    string                        `json:"type"`
	ID      string                        `json:"id,omitempty"`
	Content string                        `json:"content"`
	Values  editorconfig.Values           `json:"values"`
	Widget  editorconfig.WidgetDefinition `json:"widget"`
}

// Reply is sent for every message
type Reply struct {
	Type      string      `json:"type"`
	ID        string      `json:"id,omitempty"`
	Operation string      `json:"operation,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	Kind      string      `json:"kind,omitempty"`
	Stage     string      `json:"stage,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// VisibleKeysResult mirrors the HTTP visible-keys response
type VisibleKeysResult struct {
	HasGetProperties bool     `json:"hasGetProperties"`
	Keys             []string `json:"keys"`
}

// ValidateResult mirrors the HTTP validate response
type ValidateResult struct {
	Errors []editorconfig.ValidationError `json:"errors"`
}

// Handler manages WebSocket connections
type Handler struct {
	service   Service
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	upgrader  websocket.Upgrader
	readLimit int64
}

// NewHandler creates a new WebSocket handler. origins lists the allowed
// Origin headers; empty or "*" accepts any origin.
func NewHandler(service Service, logger *zap.Logger, metrics *monitoring.Metrics, origins []string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")

	return &Handler{
		service:   service,
		logger:    logger.Named("ws"),
		metrics:   metrics,
		readLimit: maxMessageSize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(origins, origin)
			},
		},
	}
}

// HandleConnection handles WebSocket upgrade and messages. Messages on one
// connection are processed in order.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.readLimit)

	connID := uuid.NewString()
	logger := h.logger.With(zap.String("conn_id", connID))
	logger.Debug("WebSocket connected")

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	reqCtx := c.Request.Context()

	h.send(conn, Reply{
		Type:    TypeSystem,
		Message: "Connected to editor config runtime",
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				logger.Warn("WebSocket message too large", zap.Int64("limit", h.readLimit))
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}
		h.record("in", msg.Type)

		reply := h.dispatch(reqCtx, msg)
		if err := h.send(conn, reply); err != nil {
			logger.Warn("WebSocket write error", zap.Error(err))
			break
		}
	}

	logger.Debug("WebSocket disconnected")
}

// dispatch runs one message and builds its reply
func (h *Handler) dispatch(ctx context.Context, msg Message) Reply {
	reply := Reply{ID: msg.ID, Operation: msg.Type}

	var (
		result interface{}
		err    error
	)
	switch msg.Type {
	case TypeEvaluate:
		result, err = h.service.Evaluate(ctx, msg.Content, msg.Values, msg.Widget)
	case TypeVisibleKeys:
		var (
			keys []string
			ok   bool
		)
		keys, ok, err = h.service.VisiblePropertyKeys(ctx, msg.Content, msg.Values, msg.Widget)
		res := VisibleKeysResult{HasGetProperties: ok}
		if ok {
			res.Keys = keys
			if res.Keys == nil {
				res.Keys = []string{}
			}
		}
		result = res
	case TypeValidate:
		var errs []editorconfig.ValidationError
		errs, err = h.service.Validate(ctx, msg.Content, msg.Values)
		if errs == nil {
			errs = []editorconfig.ValidationError{}
		}
		result = ValidateResult{Errors: errs}
	case TypePing:
		reply.Type = TypePong
		reply.Operation = ""
		return reply
	default:
		reply.Type = TypeError
		reply.Kind = "unknown_message_type"
		reply.Error = "unknown message type: " + msg.Type
		return reply
	}

	if err != nil {
		reply.Type = TypeError
		reply.Error = err.Error()
		reply.Kind, reply.Stage = editorconfig.Describe(err)
		return reply
	}
	reply.Type = TypeResult
	reply.Result = result
	return reply
}

func (h *Handler) send(conn *websocket.Conn, reply Reply) error {
	reply.Timestamp = time.Now().Unix()
	h.record("out", reply.Type)
	return conn.WriteJSON(reply)
}

func (h *Handler) record(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
