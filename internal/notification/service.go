package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
)

type RepositoryAPI interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, companyID int64, unreadOnly bool, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, companyID int64) (int64, error)
	MarkRead(ctx context.Context, companyID, id int64) error
	MarkAllRead(ctx context.Context, companyID int64) (int64, error)
}

const defaultListLimit = 100

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return s.wrap(err, "failed to store notification", "company_id", n.CompanyID, "type", n.Type)
	}
	return nil
}

func (s *Service) List(ctx context.Context, companyID int64, unreadOnly bool) ([]*Notification, int64, error) {
	list, err := s.repo.List(ctx, companyID, unreadOnly, defaultListLimit)
	if err != nil {
		return nil, 0, s.wrap(err, "failed to list notifications", "company_id", companyID)
	}
	unread, err := s.repo.CountUnread(ctx, companyID)
	if err != nil {
		return nil, 0, s.wrap(err, "failed to count unread notifications", "company_id", companyID)
	}
	return list, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, companyID, id int64) error {
	if err := s.repo.MarkRead(ctx, companyID, id); err != nil {
		return s.wrap(err, "failed to mark notification read", "company_id", companyID, "notification_id", id)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, companyID int64) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, companyID)
	if err != nil {
		return 0, s.wrap(err, "failed to mark notifications read", "company_id", companyID)
	}
	s.logger.Info("notifications marked read", "company_id", companyID, "count", n)
	return n, nil
}

func (s *Service) wrap(err error, msg string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, append(args, "error", err)...)
	return internal.NewInternalError(msg, err)
}
