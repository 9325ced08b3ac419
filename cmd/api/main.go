package main

import (
	"os"

	"github.com/anchalrajput45678-bit/Student-leave-management/internal/pkg/logger"
	"github.com/anchalrajput45678-bit/Student-leave-management/internal/server"
)

// @title College Leave Management API
// @version 1.0
// @description API for tracking student leave applications and faculty reviews

// @contact.name API Support
// @contact.email support@college-leave.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
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
