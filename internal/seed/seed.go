package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/mentorlink/internal/app/models"
	appRepos "github.com/yigit/mentorlink/internal/app/repositories"
	appServices "github.com/yigit/mentorlink/internal/app/services"
)

// DefaultPassword is the password of every demo account.
const DefaultPassword = "password123"

// markerUsername is checked to decide whether the demo data already exists.
const markerUsername = "student1"

// DefaultAccounts returns the demo accounts.
func DefaultAccounts() []appModels.Registration {
	return []appModels.Registration{
		{
			Username: "mentor1",
			Name:     "Dr. Alan Grant",
			Email:    "alan@jurassic.com",
			Profile: appModels.MentorRegistration{
				Universities: []string{"Harvard", "Yale"},
				Expertise:    []string{"Paleontology", "Biology"},
				Bio:          "Expert in dinosaur genetics and admissions.",
			},
		},
		{
			Username: "mentor2",
			Name:     "Ada Lovelace",
			Email:    "ada@compute.com",
			Profile: appModels.MentorRegistration{
				Universities: []string{"MIT", "Stanford"},
				Expertise:    []string{"Computer Science", "Math"},
				Bio:          "First computer programmer. I can help with CS apps.",
			},
		},
		{
			Username: markerUsername,
			Name:     "Tim Murphy",
			Email:    "tim@jurassic.com",
			Profile: appModels.StudentRegistration{
				TargetUniversities: []string{"MIT"},
				TestScores:         map[string]interface{}{"SAT": 1450},
			},
		},
		{
			Username: "admin",
			Name:     "Admin User",
			Email:    "admin@elite.com",
			Profile:  appModels.AdminRegistration{},
		},
	}
}

// CreateDefaultData registers the demo accounts unless they already exist.
// It reports whether anything was created.
func CreateDefaultData(ctx context.Context, store appRepos.Store, authService appServices.AuthService, lgr zerolog.Logger) (bool, error) {
	exists, err := store.Users().UsernameExists(ctx, markerUsername)
	if err != nil {
		return false, fmt.Errorf("check seed marker: %w", err)
	}
	if exists {
		lgr.Info().Msg("Default data already present, skipping seed")
		return false, nil
	}

	lgr.Info().Msg("Seeding default data...")
	var finalErr error // collect errors without stopping
	for _, reg := range DefaultAccounts() {
		reg.Password = DefaultPassword
		if _, err := authService.Register(ctx, reg); err != nil {
			lgr.Error().Err(err).Str("username", reg.Username).Msg("Error creating default account")
			finalErr = errors.Join(finalErr, fmt.Errorf("seed %s: %w", reg.Username, err))
		}
	}
	if finalErr != nil {
		return true, finalErr
	}

	lgr.Info().Int("accounts", len(DefaultAccounts())).Msg("Default data seeded")
	return true, nil
}
