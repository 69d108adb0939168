package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbeisheim/chessduo-backend/internal/config"
	"github.com/benbeisheim/chessduo-backend/internal/controller"
	"github.com/benbeisheim/chessduo-backend/internal/logx"
	"github.com/benbeisheim/chessduo-backend/internal/middleware"
	"github.com/benbeisheim/chessduo-backend/internal/service"
	"github.com/benbeisheim/chessduo-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"
)

const sweepInterval = time.Minute

// configExit reports the exit status for a failed config.Load. Help output
// is not an error.
func configExit(err error, stderr io.Writer) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(stderr, "chessduo: %v\n", err)
	return 2
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		os.Exit(configExit(err, os.Stderr))
	}

	logger := logx.NewLogger(cfg.LogLevel)
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	var roomStore service.RoomStore
	if cfg.Persist {
		st, err := store.Open(cfg.DataDir, logger.With().Str("component", "store").Logger())
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("open room store")
		}
		defer st.Close()
		roomStore = st
	}

	roomManager := service.NewRoomManager(roomStore, logger.With().Str("component", "rooms").Logger())
	restored, err := roomManager.Restore(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("restore rooms")
	} else if restored > 0 {
		logger.Info().Int("rooms", restored).Msg("rooms restored")
	}
	roomService := service.NewRoomService(roomManager)
	if cfg.RoomTTL > 0 {
		go roomManager.RunSweeper(ctx, sweepInterval, cfg.RoomTTL)
	}

	// Initialize controllers
	roomController := controller.NewRoomController(roomService)
	wsController := controller.NewWebSocketController(roomService, logger.With().Str("component", "ws").Logger())

	app := fiber.New(fiber.Config{
		AppName:               "chessduo",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.AccessLog(logger.With().Str("component", "http").Logger()))

	wsController.Register(app, cfg.Origins())
	roomController.Register(app)

	go func() {
		<-ctx.Done()
		logger.Info().Int("rooms", roomManager.RoomCount()).Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Str("addr", cfg.Addr).
		Bool("persist", cfg.Persist).
		Dur("room_ttl", cfg.RoomTTL).
		Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
