// Package sweeper деактивирует пользователей, которые давно не входили.
package sweeper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// UserDeactivator деактивирует пользователей с последним входом раньше cutoff.
type UserDeactivator interface {
	DeactivateInactive(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service выполняет задачу деактивации.
type Service struct {
	repo   UserDeactivator
	period time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// NewService создаёт Service; period — допустимый срок без входа.
func NewService(repo UserDeactivator, period time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, period: period, now: time.Now, log: log}
}

// DeactivateInactive деактивирует всех, кроме superuser, кто не входил дольше period.
func (s *Service) DeactivateInactive(ctx context.Context, _ json.RawMessage) (string, error) {
	const op = "sweeper.DeactivateInactive"

	cutoff := s.now().Add(-s.period)
	n, err := s.repo.DeactivateInactive(ctx, cutoff)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("inactive users deactivated", slog.Int64("count", n), slog.Time("cutoff", cutoff))
	return fmt.Sprintf("deactivated %d users", n), nil
}
