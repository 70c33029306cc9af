package main

import (
	"context"
	"os"

	"github.com/yigit/examprep/internal/pkg/logger"
	"github.com/yigit/examprep/internal/server"
)

// @title ExamPrep API
// @version 1.0
// @description Student accounts, question banks and model tests for the exam preparation client

// @host localhost:8000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token; the jwt cookie is accepted as well

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
