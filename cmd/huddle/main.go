package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/navikt/huddle/internal/api"
	"github.com/navikt/huddle/internal/auth"
	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/repository"
	"github.com/navikt/huddle/internal/service"
	"github.com/navikt/huddle/internal/signaling"
	"github.com/navikt/huddle/internal/utils"
	"github.com/navikt/huddle/internal/web"
	"github.com/rs/zerolog/log"
)

func main() {
	utils.SetupLogger(config.GetLogConfig())

	serverConfig := config.GetServerConfig()
	authConfig := config.GetAuthConfig()

	// Initialize the room directory using the factory
	directory, err := repository.NewRoomDirectory(config.GetRedisConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize room directory")
	}

	// Close the Redis connection on exit
	if closer, ok := directory.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error().Err(err).Msg("error closing Redis connection")
			}
		}()
	}

	// The seeded development room keeps its owner across lifecycle deletions
	if authConfig.DevMode && authConfig.DevRoomCode != "" {
		directory = repository.NewPinnedDirectory(directory, authConfig.DevRoomCode)
	}

	if authConfig.DevMode {
		log.Warn().Msg("AUTH_DEV_MODE enabled - the development token is accepted without a signature")
	} else if !authConfig.IsJWTConfigured() {
		log.Warn().Msg("AUTH_JWT_SECRET not configured - all connections will be rejected")
	}

	// Start the signaling hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := signaling.NewHub(directory, config.GetSignalingConfig())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(hubCtx)
	}()

	// Initialize the service layer and forward lifecycle transitions to the SSE stream
	roomService := service.NewRoomService(directory, hub)
	stream := web.NewLifecycleStream()
	hub.RegisterLifecycleCallback(roomService.NotifyLifecycle)
	roomService.RegisterUpdateCallback(stream.Publish)

	if authConfig.DevMode && authConfig.DevRoomCode != "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := roomService.SeedRoom(seedCtx, authConfig.DevRoomCode, "Development room", authConfig.DevUserID); err != nil {
			log.Warn().Err(err).Msg("failed to seed development room")
		}
		cancel()
	}

	router := api.SetupRoutes(api.Dependencies{
		Rooms:     roomService,
		Readiness: hub,
		Operator:  web.NewOperatorAuth(serverConfig.OperatorToken),
		ICE:       config.GetICEConfig(),
		WebSocket: web.NewWSHandler(hub, auth.NewAuthenticator(authConfig), serverConfig),
		Events:    stream,
	})

	// Configure the HTTP server
	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      web.WrapWithMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE and websocket connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info().Str("port", serverConfig.Port).Msg("starting huddle server")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until a signal is received or an error occurs
	select {
	case err := <-serverErrors:
		stopHub()
		log.Fatal().Err(err).Msg("error starting server")

	case <-shutdown:
		log.Info().Msg("shutting down server...")

		// First, close the SSE stream so long-lived subscribers let go
		stream.Close()

		// Stop the hub: timers are stopped and every websocket is closed
		stopHub()
		<-hubDone

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			log.Error().Err(err).Msg("error shutting down server")
			return
		}

		log.Info().Msg("server gracefully stopped")
	}
}
