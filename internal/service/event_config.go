package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type EventConfigStore interface {
	EventConfigRepository
	Save(ctx context.Context, config domain.EventGameTableConfig) (domain.EventGameTableConfig, error)
}

type EventConfigService struct {
	repo EventConfigStore
}

func NewEventConfigService(repo EventConfigStore) *EventConfigService {
	return &EventConfigService{
		repo: repo,
	}
}

func (s *EventConfigService) Get(ctx context.Context, eventID string) (domain.EventGameTableConfig, error) {
	config, err := s.repo.FindByEvent(ctx, eventID)
	if err != nil {
		return domain.EventGameTableConfig{}, fmt.Errorf("s.repo.FindByEvent -> %w", err)
	}

	return config, nil
}

func (s *EventConfigService) Save(ctx context.Context, config domain.EventGameTableConfig) (domain.EventGameTableConfig, error) {
	if err := config.Validate(); err != nil {
		return domain.EventGameTableConfig{}, err
	}

	saved, err := s.repo.Save(ctx, config)
	if err != nil {
		return domain.EventGameTableConfig{}, fmt.Errorf("s.repo.Save -> %w", err)
	}

	return saved, nil
}
