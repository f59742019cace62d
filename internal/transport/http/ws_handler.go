package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Nihil96/quiz-app/internal/app"
	"github.com/Nihil96/quiz-app/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Username string `json:"username"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type viewPayload struct {
	View domain.View `json:"view"`
}

type leaderboardPayload struct {
	Entries []domain.PlayerScoreEntry `json:"entries"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and speaks the quiz protocol:
// start/answer/next/previous/leaderboard inbound, view/state/completed/
// leaderboard/error outbound. One quiz run per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var (
		runID        string
		cancelUpdate func()
	)

	send <- outboundMessage[any]{Type: "view", Payload: viewPayload{View: domain.ViewWelcome}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if runID != "" {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "quiz already started"}}
				continue
			}
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid start payload"}}
				continue
			}
			run, err := h.service.StartRun(r.Context(), payload.Username)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			runID = run.ID()

			updates, cancel, err := h.service.Subscribe(runID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			cancelUpdate = cancel

			go h.forwardUpdates(updates, send, closeSignals, updatesDone)
		case "answer":
			if runID == "" {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "no active quiz"}}
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if _, err := h.service.SelectAnswer(runID, payload.Answer); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "next":
			if runID == "" {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "no active quiz"}}
				continue
			}
			if _, err := h.service.Next(runID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "previous":
			if runID == "" {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "no active quiz"}}
				continue
			}
			if _, err := h.service.Previous(runID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "leaderboard":
			entries, err := h.service.Leaderboard(r.Context())
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "leaderboard", Payload: leaderboardPayload{Entries: entries}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	if cancelUpdate != nil {
		cancelUpdate()
		<-updatesDone
	}
	close(send)
	<-writerDone
	if runID != "" {
		h.service.CloseRun(runID)
	}
}

// forwardUpdates fans run snapshots into the writer, emitting a discrete view
// message on navigation and the completion result exactly once.
func (h *WSHandler) forwardUpdates(updates <-chan domain.RunSnapshot, send chan<- outboundMessage[any], closeSignals <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	lastView := domain.ViewWelcome
	sentCompleted := false

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if snap.View != lastView {
				lastView = snap.View
				select {
				case send <- outboundMessage[any]{Type: "view", Payload: viewPayload{View: snap.View}}:
				case <-closeSignals:
					return
				}
			}
			select {
			case send <- outboundMessage[any]{Type: "state", Payload: snap}:
			case <-closeSignals:
				return
			}
			if snap.Completed && !sentCompleted {
				sentCompleted = true
				result, err := h.service.Result(snap.RunID)
				if err != nil {
					if !errors.Is(err, domain.ErrRunNotFound) {
						log.Printf("completion result unavailable: %v", err)
					}
					continue
				}
				select {
				case send <- outboundMessage[any]{Type: "completed", Payload: result}:
				case <-closeSignals:
					return
				}
			}
		case <-closeSignals:
			return
		}
	}
}
