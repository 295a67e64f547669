package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"nhooyr.io/websocket"

	"wordquest/internal/games"
	"wordquest/internal/service"
)

// WSMessage is the JSON envelope for WebSocket messages
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type wsErrorPayload struct {
	Message string `json:"message"`
}

// WSHandler streams session events (phase changes, timer ticks, game
// end) to the player and accepts game actions over the same socket.
type WSHandler struct {
	games *service.GameService
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(gameService *service.GameService) *WSHandler {
	return &WSHandler{games: gameService}
}

// Serve handles GET /api/play/ws
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	player, ok := GetPlayerFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // same-origin app, cookie already scopes the player
	})
	if err != nil {
		log.Printf("websocket accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	events, cancel := h.games.Subscribe(player.ID)
	defer cancel()

	// Writer: forward session events until the subscription or the
	// connection goes away.
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for ev := range events {
			payload, err := json.Marshal(ev.Payload)
			if err != nil {
				continue
			}
			msg, _ := json.Marshal(WSMessage{Type: ev.Type, Payload: payload})
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	// Reader: apply incoming actions
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(ctx, conn, "invalid message")
			continue
		}
		h.handleMessage(ctx, conn, player.ID, msg)
	}

	cancel()
	<-writeDone
}

func (h *WSHandler) handleMessage(ctx context.Context, conn *websocket.Conn, playerID int64, msg WSMessage) {
	switch msg.Type {
	case "action":
		var action games.Action
		if err := json.Unmarshal(msg.Payload, &action); err != nil {
			h.sendError(ctx, conn, "invalid action payload")
			return
		}
		view, err := h.games.Apply(playerID, action)
		if err != nil && errors.Is(err, service.ErrNoActiveGame) {
			h.sendError(ctx, conn, "no active game")
			return
		}
		if err != nil {
			h.sendError(ctx, conn, err.Error())
		}
		h.sendView(ctx, conn, view)

	case "state":
		view, err := h.games.State(playerID)
		if err != nil {
			h.sendError(ctx, conn, "no active game")
			return
		}
		h.sendView(ctx, conn, view)

	default:
		h.sendError(ctx, conn, "unknown message type: "+msg.Type)
	}
}

func (h *WSHandler) sendView(ctx context.Context, conn *websocket.Conn, view games.View) {
	payload, err := json.Marshal(view)
	if err != nil {
		return
	}
	msg, _ := json.Marshal(WSMessage{Type: "view", Payload: payload})
	conn.Write(ctx, websocket.MessageText, msg)
}

func (h *WSHandler) sendError(ctx context.Context, conn *websocket.Conn, message string) {
	payload, _ := json.Marshal(wsErrorPayload{Message: message})
	msg, _ := json.Marshal(WSMessage{Type: "error", Payload: payload})
	conn.Write(ctx, websocket.MessageText, msg)
}
