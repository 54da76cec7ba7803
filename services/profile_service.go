package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/repository"
	"github.com/fadhlanhapp/congno-backend/utils"
)

// BankInfoInput carries the payout details a member submits during onboarding
type BankInfoInput struct {
	BankCode    string
	BankAccount string
	BankOwner   string
}

// ProfileService manages member profiles and their payout details
type ProfileService struct {
	profiles    ProfileStore
	invalidator DashboardInvalidator
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, invalidator DashboardInvalidator) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		invalidator: invalidator,
	}
}

// GetProfile returns the user's profile or a NotFound error
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NewNotFoundError("Profile")
		}
		return nil, utils.NewPersistenceError(utils.ErrFailedToRetrieve, err)
	}
	return profile, nil
}

// UpdateBankInfo creates or updates the user's profile with their payout details.
// The display name and email are refreshed from the identity provider on each call.
func (s *ProfileService) UpdateBankInfo(ctx context.Context, user models.CurrentUser, input BankInfoInput) (*models.Profile, error) {
	bankCode := strings.TrimSpace(input.BankCode)
	bankAccount := strings.TrimSpace(input.BankAccount)
	bankOwner := strings.TrimSpace(input.BankOwner)
	if bankCode == "" || bankAccount == "" || bankOwner == "" {
		return nil, utils.NewValidationError(utils.ErrBankInfoRequired)
	}

	email := strings.TrimSpace(user.Email)
	if email == "" {
		return nil, utils.NewValidationError(utils.ErrEmailRequired)
	}

	profile := &models.Profile{
		ID:          user.ID,
		DisplayName: utils.FirstNonEmpty(user.DisplayName, email),
		Email:       email,
		BankCode:    bankCode,
		BankAccount: bankAccount,
		BankOwner:   bankOwner,
	}
	if err := s.profiles.UpsertBankInfo(ctx, profile); err != nil {
		return nil, utils.NewPersistenceError(utils.ErrFailedToStore, err)
	}

	log.Printf("level=info component=profile msg=\"bank info updated\" user_id=%s", user.ID)
	invalidateDashboards(ctx, s.invalidator, user.ID)
	return profile, nil
}
