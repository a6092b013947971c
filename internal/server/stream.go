package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"planforge/internal/scaffold"
	"planforge/internal/service"
)

const (
	streamWriteWait = 10 * time.Second
	streamPongWait  = 60 * time.Second
	streamPingEvery = (streamPongWait * 9) / 10
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type streamMessage struct {
	Type   string `json:"type"`
	Phase  string `json:"phase,omitempty"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail,omitempty"`
	Time   string `json:"time,omitempty"`

	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Result  *generateResponse `json:"result,omitempty"`
}

func eventMessage(e scaffold.Event) streamMessage {
	return streamMessage{
		Type:   string(e.Kind),
		Phase:  e.Phase,
		Path:   e.Path,
		Detail: e.Detail,
		Time:   e.Time.UTC().Format(time.RFC3339Nano),
	}
}

// HandleGenerateStream runs a generation and streams every translator event
// as a JSON message, finishing with a "result" or "error" message.
func (h *Handler) HandleGenerateStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dir := strings.TrimSpace(q.Get("project_dir"))
	if dir == "" {
		writeError(w, http.StatusBadRequest, "invalid_argument", "project_dir is required")
		return
	}
	useExisting, _ := strconv.ParseBool(q.Get("use_existing_folder"))

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(streamPongWait)); err != nil {
		h.log.Warn("stream: set read deadline failed", "err", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	writeCh := make(chan streamMessage, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(streamPingEvery)
		defer ticker.Stop()
		for {
			select {
			case out, ok := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
					cancel()
					return
				}
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					cancel()
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
					cancel()
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// the client never sends data; reading surfaces disconnects and pongs
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	push := func(m streamMessage) {
		select {
		case writeCh <- m:
		case <-ctx.Done():
		case <-writerDone:
		}
	}

	run, err := h.svc.Generate(ctx, service.GenerateRequest{ProjectDir: dir, UseExistingFolder: useExisting},
		func(e scaffold.Event) { push(eventMessage(e)) })
	if err != nil {
		_, code := statusFor(err)
		push(streamMessage{Type: "error", Code: code, Message: err.Error()})
	} else {
		resp := newGenerateResponse(run)
		push(streamMessage{Type: "result", Result: &resp})
	}
	close(writeCh)
	<-writerDone
}
