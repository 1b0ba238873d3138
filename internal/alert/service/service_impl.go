package service

import (
	"context"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxListLimit = 250

type ServiceParams struct {
	fx.In

	Log  *zap.Logger
	Repo alertdomain.Repository
}

type service struct {
	log  *zap.Logger
	repo alertdomain.Repository
}

func NewService(p ServiceParams) alertdomain.Service {
	return &service{
		log:  p.Log.Named("alert.service"),
		repo: p.Repo,
	}
}

func (s *service) ListAlerts(ctx context.Context, req alertdomain.ListRequest) (alertdomain.ListResponse, error) {
	if req.UserID == 0 {
		return alertdomain.ListResponse{}, alertdomain.ErrInvalidUser
	}
	if req.Limit < 0 || req.Limit > maxListLimit {
		return alertdomain.ListResponse{}, alertdomain.ErrInvalidLimit
	}

	alerts, err := s.repo.List(ctx, req.UserID, req.UnreadOnly, req.Limit)
	if err != nil {
		return alertdomain.ListResponse{}, err
	}
	unread, err := s.repo.UnreadCount(ctx, req.UserID)
	if err != nil {
		return alertdomain.ListResponse{}, err
	}

	return alertdomain.ListResponse{Alerts: alerts, UnreadCount: unread}, nil
}

func (s *service) MarkRead(ctx context.Context, req alertdomain.MarkReadRequest) (int64, error) {
	if req.UserID == 0 {
		return 0, alertdomain.ErrInvalidUser
	}
	return s.repo.MarkRead(ctx, req.UserID, req.AlertIDs)
}
