package usecase

import (
	"context"

	"github.com/Alwanly/fleet-dashboard/internal/dashboard/dto"
	"github.com/Alwanly/fleet-dashboard/pkg/wrapper"
)

type UseCaseInterface interface {
	Health(ctx context.Context) wrapper.JSONResult
	ListFeeds(ctx context.Context) wrapper.JSONResult
	GetFeed(ctx context.Context, name string) wrapper.JSONResult
	RefetchFeed(ctx context.Context, name string) wrapper.JSONResult
	SetFeedEnabled(ctx context.Context, name string, req *dto.SetEnabledRequest) wrapper.JSONResult
	SetVisibility(ctx context.Context, req *dto.SetVisibilityRequest) wrapper.JSONResult
	FocusNode(ctx context.Context, req *dto.FocusNodeRequest) wrapper.JSONResult
	ListViews(ctx context.Context) wrapper.JSONResult
	GetView(ctx context.Context, view string) wrapper.JSONResult
	RefetchViewFeed(ctx context.Context, view, name string) wrapper.JSONResult
	ReleaseView(ctx context.Context, view string) wrapper.JSONResult
}
