package controller

import (
	"errors"

	"github.com/benbeisheim/chessduo-backend/internal/middleware"
	"github.com/benbeisheim/chessduo-backend/internal/model"
	"github.com/benbeisheim/chessduo-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type RoomController struct {
	roomService *service.RoomService
}

func NewRoomController(roomService *service.RoomService) *RoomController {
	return &RoomController{roomService: roomService}
}

type createRoomRequest struct {
	RoomID string `json:"roomId"`
}

type squareRequest struct {
	Square string `json:"square"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type promoteRequest struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
}

// statusFor maps service and model errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrRoomExists), errors.Is(err, model.ErrRoomFull):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrNotInRoom), errors.Is(err, model.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidRoomID), errors.Is(err, service.ErrInvalidSquare), errors.Is(err, service.ErrInvalidPiece):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// NewSession hands out a fresh player id.
func (rc *RoomController) NewSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"playerId": service.NewPlayerID(),
	})
}

func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	var req createRoomRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "malformed request body",
			})
		}
	}

	room, err := rc.roomService.CreateRoom(req.RoomID, middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Room created",
		"roomId":  room.ID,
		"color":   model.White,
		"room":    room,
	})
}

func (rc *RoomController) JoinRoom(c *fiber.Ctx) error {
	color, err := rc.roomService.JoinRoom(c.Params("roomId"), middleware.PlayerID(c))
	if errors.Is(err, model.ErrRoomFull) {
		return c.JSON(fiber.Map{
			"message":   "Room full, joined as spectator",
			"spectator": true,
		})
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Room joined",
		"color":     color,
		"spectator": false,
	})
}

func (rc *RoomController) GetRoomState(c *fiber.Ctx) error {
	room, err := rc.roomService.GetRoomState(c.Params("roomId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(room)
}

func (rc *RoomController) LegalMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := rc.roomService.LegalMoves(c.Params("roomId"), square)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves,
	})
}

// AllLegalMoves lists the legal moves of the side to move, keyed by origin
// square.
func (rc *RoomController) AllLegalMoves(c *fiber.Ctx) error {
	moves, err := rc.roomService.AllLegalMoves(c.Params("roomId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (rc *RoomController) FEN(c *fiber.Ctx) error {
	fen, err := rc.roomService.FEN(c.Params("roomId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"fen": fen,
	})
}

func (rc *RoomController) Select(c *fiber.Ctx) error {
	var req squareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	res, err := rc.roomService.SelectSquare(c.Params("roomId"), middleware.PlayerID(c), req.Square)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (rc *RoomController) Move(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	res, err := rc.roomService.Move(c.Params("roomId"), middleware.PlayerID(c), req.From, req.To)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (rc *RoomController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request body"})
	}
	res, err := rc.roomService.Promote(c.Params("roomId"), middleware.PlayerID(c), req.Square, req.Piece)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (rc *RoomController) Restart(c *fiber.Ctx) error {
	res, err := rc.roomService.Restart(c.Params("roomId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (rc *RoomController) OfferDraw(c *fiber.Ctx) error {
	res, err := rc.roomService.OfferDraw(c.Params("roomId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

// Register mounts the REST routes on app.
func (rc *RoomController) Register(app fiber.Router) {
	app.Post("/api/session", rc.NewSession)

	api := app.Group("/api", middleware.EnsurePlayerID())
	rooms := api.Group("/rooms")
	rooms.Post("/", rc.CreateRoom)
	rooms.Get("/:roomId", rc.GetRoomState)
	rooms.Get("/:roomId/fen", rc.FEN)
	rooms.Get("/:roomId/moves", rc.AllLegalMoves)
	rooms.Get("/:roomId/moves/:square", rc.LegalMoves)
	rooms.Post("/:roomId/join", rc.JoinRoom)
	rooms.Post("/:roomId/select", rc.Select)
	rooms.Post("/:roomId/move", rc.Move)
	rooms.Post("/:roomId/promote", rc.Promote)
	rooms.Post("/:roomId/restart", rc.Restart)
	rooms.Post("/:roomId/draw", rc.OfferDraw)
}
