package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"helpconnect/internal/models"
	"helpconnect/internal/password"
	"helpconnect/internal/repository"
)

const seedPassword = "password123"

type SeedService interface {
	// SeedIfEmpty inserts demo accounts and a sample request when there are
	// no users yet. It reports whether anything was inserted.
	SeedIfEmpty(ctx context.Context) (bool, error)
}

type seedService struct {
	statsRepo repository.StatsRepository
	tx        TxRunner
	now       clock
}

func NewSeedService(statsRepo repository.StatsRepository, tx TxRunner) SeedService {
	return &seedService{statsRepo: statsRepo, tx: tx, now: utcNow}
}

func (s *seedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := s.statsRepo.CountUsers(ctx)
	if err != nil {
		return false, storeError("seed database", err)
	}
	if count > 0 {
		return false, nil
	}

	seeded := false
	err = s.tx.WithTx(ctx, func(tx *repository.Repository) error {
		// another instance may have seeded in between
		count, err := tx.Stats.CountUsers(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := password.Hash(seedPassword)
		if err != nil {
			return err
		}

		now := s.now()
		user := &models.User{
			Username:     "test_user",
			Email:        "user@test.com",
			PasswordHash: hash,
			UserType:     models.UserTypeDisabled,
			Rating:       models.DefaultRating,
			CreatedAt:    now,
		}
		volunteer := &models.User{
			Username:     "test_volunteer",
			Email:        "volunteer@test.com",
			PasswordHash: hash,
			UserType:     models.UserTypeVolunteer,
			Skills:       "visual_assistance,sign_language_basic",
			Rating:       models.DefaultRating,
			CreatedAt:    now,
		}
		for _, u := range []*models.User{user, volunteer} {
			if err := tx.User.Create(ctx, u); err != nil {
				return err
			}
		}

		request := &models.HelpRequest{
			Title:       "Need help reading a medicine leaflet",
			Description: "My eyesight is poor and I cannot read the small print on my medicine leaflet. I need someone to read it to me.",
			Category:    "visual",
			Status:      models.StatusPending,
			AuthorID:    user.ID,
			CreatedAt:   now.Add(time.Second),
		}
		if err := tx.HelpRequest.Create(ctx, request); err != nil {
			return err
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, storeError("seed database", err)
	}

	if seeded {
		logrus.Info("seeded database with demo accounts")
	}
	return seeded, nil
}
