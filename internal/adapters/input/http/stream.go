package http

import (
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/model"
)

type streamAck struct {
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleStream reads one inbound update document per text message and acks
// each in arrival order.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	s.log.Info("update stream opened", zap.String("remote", r.RemoteAddr))
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, ctx.Err()) {
				s.log.Warn("update stream read failed", zap.Error(err))
			}
			return
		}
		ack := s.ack(r, typ, data)
		if err := wsjson.Write(ctx, conn, ack); err != nil {
			s.log.Warn("update stream write failed", zap.Error(err))
			return
		}
	}
}

func (s *Server) ack(r *http.Request, typ websocket.MessageType, data []byte) streamAck {
	if typ != websocket.MessageText {
		return streamAck{Error: "expected a text message"}
	}
	in, err := model.ParseInbound(data)
	if err != nil {
		return streamAck{Error: err.Error()}
	}
	outcome, err := s.bridge.ReceiveUpdate(r.Context(), in)
	if err != nil {
		return streamAck{Error: err.Error()}
	}
	return streamAck{Outcome: string(outcome)}
}
