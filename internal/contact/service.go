package contact

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log}
}

type SubmitInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (Message, error) {
	m := Message{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if m.Name == "" || m.Message == "" {
		return Message{}, apperr.Invalid("name and message are required")
	}

	saved, err := s.repo.Create(ctx, m)
	if err != nil {
		return Message{}, apperr.Persistence("failed to save message", err)
	}
	s.log.Info("contact message received", zap.Int("id", saved.ID), zap.String("subject", saved.Subject))
	return saved, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	msgs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Persistence("failed to list messages", err)
	}
	return msgs, nil
}
