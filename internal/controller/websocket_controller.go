package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chessduo-backend/internal/middleware"
	"github.com/benbeisheim/chessduo-backend/internal/service"
	"github.com/benbeisheim/chessduo-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

type WebSocketController struct {
	roomService *service.RoomService
	log         zerolog.Logger
}

func NewWebSocketController(roomService *service.RoomService, logger zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		roomService: roomService,
		log:         logger,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	roomID, _ := c.Locals("wsRoomID").(string)
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.With().Str("room", roomID).Str("player", playerID).Logger()

	if err := wsc.roomService.RegisterConnection(roomID, playerID, c); err != nil {
		log.Warn().Err(err).Msg("failed to register connection")
		_ = c.WriteJSON(errorMessage(err))
		c.Close()
		return
	}
	defer wsc.roomService.UnregisterConnection(roomID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("read error")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debug().Err(err).Msg("parse error")
			wsc.sendError(roomID, playerID, fmt.Errorf("malformed message"))
			continue
		}

		if err := wsc.handleMessage(roomID, playerID, msg); err != nil {
			log.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			wsc.sendError(roomID, playerID, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(roomID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var p ws.SelectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("bad select payload: %w", err)
		}
		_, err := wsc.roomService.SelectSquare(roomID, playerID, p.Square)
		return err

	case ws.MessageTypeMove:
		var p ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("bad move payload: %w", err)
		}
		_, err := wsc.roomService.Move(roomID, playerID, p.From, p.To)
		return err

	case ws.MessageTypePromote:
		var p ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("bad promote payload: %w", err)
		}
		_, err := wsc.roomService.Promote(roomID, playerID, p.Square, p.Piece)
		return err

	case ws.MessageTypeRestart:
		_, err := wsc.roomService.Restart(roomID, playerID)
		return err

	case ws.MessageTypeDrawOffer:
		_, err := wsc.roomService.OfferDraw(roomID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(roomID, playerID string, cause error) {
	if err := wsc.roomService.SendError(roomID, playerID, cause); err != nil {
		wsc.log.Warn().Err(err).Str("room", roomID).Msg("send error failed")
	}
}

func errorMessage(cause error) ws.Message {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: cause.Error()})
	if err != nil {
		return ws.Message{Type: ws.MessageTypeError}
	}
	return msg
}

// Register mounts the websocket route on app.
func (wsc *WebSocketController) Register(app fiber.Router, origins []string) {
	app.Use("/ws", middleware.EnsurePlayerID())
	app.Get("/ws/rooms/:roomId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))
}
