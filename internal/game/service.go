package game

import (
	"context"

	"github.com/bishalghimire/merotopup-backend/internal/types/game"
)

type GameRepository interface {
	Games(ctx context.Context) (map[string]game.Game, error)
}

type Service struct {
	repo GameRepository
}

func NewService(repo GameRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Catalog(ctx context.Context) (map[string]game.Game, error) {
	return s.repo.Games(ctx)
}
