package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"

	"l2-da-lab/internal/domain"
	"l2-da-lab/internal/simulation"
)

// Websocket message types
const (
	MsgSetParams       = "set_params"
	MsgSelectMode      = "select_mode"
	MsgQueryBlockRange = "query_block_range"
	MsgSnapshot        = "snapshot"
	MsgError           = "error"
)

var errUnknownMessage = errors.New("unknown message type")

// WSMessage is the envelope of every websocket frame.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WSReply is sent back for every client message.
type WSReply struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Data      interface{} `json:"data"`
}

// GET /ws
// Each connection owns one simulation session. Messages are handled one at a
// time in arrival order, each answered with a snapshot or an error.
func (s *Server) WebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	session := simulation.NewSession(simulation.SessionOptions{
		Defaults: s.defaults.Input(),
		Manual:   s.defaults.ManualWorkload(),
		Query:    s.defaults.QueryWorkload(),
		Source:   s.source,
		Metrics:  s.metrics,
		Logger:   s.logger,
		Now:      s.now,
	})
	logger := s.logger.WithField("session", session.ID())

	s.metrics.SessionOpened()
	defer s.metrics.SessionClosed()
	logger.Info("session opened")
	defer logger.Info("session closed")

	conn.SetReadLimit(64 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(s.ws.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.ws.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	if err := s.writeReply(conn, session.ID(), MsgSnapshot, NewSnapshotResponse(session.Snapshot())); err != nil {
		logger.WithError(err).Warn("write initial snapshot")
		return
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("websocket read failed")
			}
			return
		}
		s.metrics.RecordSessionMessage(msg.Type)

		var reply interface{}
		msgType := MsgSnapshot
		resp, err := s.handleMessage(c, session, msg)
		if err != nil {
			logger.WithError(err).WithField("type", msg.Type).Debug("message rejected")
			msgType = MsgError
			reply = ErrorResponse{Error: err.Error()}
		} else {
			reply = resp
		}

		if err := s.writeReply(conn, session.ID(), msgType, reply); err != nil {
			logger.WithError(err).Warn("websocket write failed")
			return
		}
	}
}

func (s *Server) handleMessage(c *gin.Context, session *simulation.Session, msg WSMessage) (SnapshotResponse, error) {
	switch msg.Type {
	case MsgSetParams:
		var req SimulationRequest
		if err := decodeAndValidate(msg.Data, &req); err != nil {
			return SnapshotResponse{}, err
		}
		in, err := req.ToInput()
		if err != nil {
			return SnapshotResponse{}, err
		}
		return NewSnapshotResponse(session.Apply(in)), nil

	case MsgSelectMode:
		var req ModeRequest
		if err := decodeAndValidate(msg.Data, &req); err != nil {
			return SnapshotResponse{}, err
		}
		mode, err := domain.ParseMode(req.Mode)
		if err != nil {
			return SnapshotResponse{}, err
		}
		snap, err := session.SelectMode(mode)
		if err != nil {
			return SnapshotResponse{}, err
		}
		return NewSnapshotResponse(snap), nil

	case MsgQueryBlockRange:
		var req BlockRangeRequest
		if err := decodeAndValidate(msg.Data, &req); err != nil {
			return SnapshotResponse{}, err
		}
		snap, result, err := session.QueryBlockRange(c.Request.Context(), *req.Start, *req.End)
		if err != nil {
			return SnapshotResponse{}, err
		}
		resp := NewSnapshotResponse(snap)
		resp.BlockRange = &result
		return resp, nil
	}

	return SnapshotResponse{}, fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
}

func (s *Server) writeReply(conn *websocket.Conn, sessionID, msgType string, data interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(s.ws.WriteWait))
	return conn.WriteJSON(WSReply{Type: msgType, SessionID: sessionID, Data: data})
}

// pingLoop keeps the connection alive until done is closed.
// WriteControl may run concurrently with the reply writer.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.ws.WriteWait)); err != nil {
				s.logger.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

func decodeAndValidate(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return errors.New("missing message data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode message data: %w", err)
	}
	return binding.Validator.ValidateStruct(v)
}
