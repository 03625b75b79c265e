package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lpernett/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xoraxteam900-star/danielai/handlers"
	"github.com/xoraxteam900-star/danielai/responder"
	"github.com/xoraxteam900-star/danielai/session"
	"github.com/xoraxteam900-star/danielai/speech"
	"github.com/xoraxteam900-star/danielai/utils"
	"github.com/xoraxteam900-star/danielai/vision"
)

func main() {
	// Load environment variables from .env before anything reads them.
	dotenvErr := godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("Starting Daniel Voice Assistant...")
	if dotenvErr != nil {
		// Fine in production, the environment is set externally.
		logger.Warn("No .env file loaded")
	}

	// Redis backs the optional analysis history. Missing or unreachable
	// Redis only loses history, never the assistant.
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_HOST"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          0,
			DialTimeout: 20 * time.Second,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := redisClient.Ping(pingCtx).Result(); err != nil {
			logger.Warn("Redis unreachable, analysis history disabled", zap.Error(err))
			redisClient = nil
		} else {
			logger.Info("Connected to Redis", zap.String("addr", addr))
		}
		cancel()
	}

	state := session.NewStore(logger)
	wake := speech.NewWakeWord(os.Getenv("WAKE_WORD"))
	transcriber := speech.NewDeepgramTranscriber(logger)
	detector := vision.NewHTTPDetector(os.Getenv("DETECTOR_URL"), logger)
	replySource := responder.New(rand.NewSource(time.Now().UnixNano()))
	history := utils.NewAnalysisHistory(redisClient, logger)
	events := handlers.NewBroadcaster(logger)

	assistant := handlers.NewAssistant(state, wake, transcriber, detector, replySource, history, events, logger)

	var camera *utils.CameraCapture
	if deviceStr := os.Getenv("CAMERA_DEVICE"); deviceStr != "" {
		device, err := strconv.Atoi(deviceStr)
		if err != nil {
			logger.Warn("Invalid CAMERA_DEVICE, local capture disabled", zap.String("value", deviceStr))
		} else {
			camera = utils.NewCameraCapture(device)
		}
	}

	state.MarkReady()
	logger.Info("Daniel is ready!", zap.String("wake_word", wake.Phrase))

	server := handlers.NewServer(assistant, camera, history, events, logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server.Routes(),
	}

	serverExit := make(chan struct{})
	go func() {
		logger.Info("Starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server exited", zap.Error(err))
		}
		close(serverExit)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("Shutting down server...")
	case <-serverExit:
		logger.Info("Server exited unexpectedly...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}

	logger.Info("Server shut down gracefully")
}
