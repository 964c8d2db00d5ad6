package services

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"therawking/internal/apperrors"
	"therawking/internal/models"
	"therawking/internal/repositories"
)

// SubscriberService handles newsletter signups.
type SubscriberService struct {
	repo     repositories.SubscriberRepository
	validate *validator.Validate
}

// NewSubscriberService creates a new SubscriberService.
func NewSubscriberService(repo repositories.SubscriberRepository) *SubscriberService {
	return &SubscriberService{
		repo:     repo,
		validate: validator.New(),
	}
}

// Subscribe stores the email, lower-cased. Subscribing the same address twice
// is a no-op.
func (s *SubscriberService) Subscribe(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperrors.NewValidation("invalid email address")
	}
	return s.repo.Upsert(&models.Subscriber{Email: email})
}
