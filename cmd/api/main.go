package main

import (
	"os"

	"github.com/yigit/mentorlink/internal/pkg/logger"
)

// @title MentorLink API
// @version 1.0
// @description Mentorship matching: mentor discovery, mentorship requests and request threads

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
