package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/Alwanly/fleet-dashboard/internal/dashboard/dto"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/wrapper"
	"go.uber.org/zap"
)

type UseCase struct {
	Board  *Board
	Logger *logger.CanonicalLogger
}

var _ UseCaseInterface = (*UseCase)(nil)

func NewUseCase(uc UseCase) *UseCase {
	if uc.Logger == nil {
		uc.Logger = logger.NewNop()
	}
	return &uc
}

func (uc *UseCase) Health(ctx context.Context) wrapper.JSONResult {
	return wrapper.ResponseSuccess(http.StatusOK, uc.Board.Health())
}

func (uc *UseCase) ListFeeds(ctx context.Context) wrapper.JSONResult {
	feeds := uc.Board.Feeds()
	return wrapper.ResponseSuccess(http.StatusOK, dto.ListFeedsResponse{
		Visible: uc.Board.Visible(),
		Feeds:   feeds,
		Total:   len(feeds),
	})
}

func (uc *UseCase) GetFeed(ctx context.Context, name string) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Resource(name))

	st, err := uc.Board.Feed(name)
	if err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, st)
}

func (uc *UseCase) RefetchFeed(ctx context.Context, name string) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Resource(name))

	st, err := uc.Board.Refetch(ctx, name)
	if err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, st)
}

func (uc *UseCase) SetFeedEnabled(ctx context.Context, name string, req *dto.SetEnabledRequest) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Resource(name))

	st, err := uc.Board.SetEnabled(name, *req.Enabled)
	if err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, st)
}

func (uc *UseCase) SetVisibility(ctx context.Context, req *dto.SetVisibilityRequest) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Visible(*req.Visible))

	announced, err := uc.Board.SetVisible(ctx, *req.Visible)
	if err != nil {
		// the local signal already changed; report the partial result
		uc.Logger.WithError(err).Warn("visibility not announced")
		logger.AddToContext(ctx, zap.Error(err))
	}
	return wrapper.ResponseSuccess(http.StatusOK, dto.VisibilityResponse{
		Visible:   uc.Board.Visible(),
		Announced: announced,
	})
}

func (uc *UseCase) FocusNode(ctx context.Context, req *dto.FocusNodeRequest) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.NodeID(req.NodeID))
	return wrapper.ResponseSuccess(http.StatusOK, uc.Board.Focus(req.View, req.NodeID))
}

func (uc *UseCase) ListViews(ctx context.Context) wrapper.JSONResult {
	views := uc.Board.Views()
	return wrapper.ResponseSuccess(http.StatusOK, dto.ListViewsResponse{Views: views, Total: len(views)})
}

func (uc *UseCase) GetView(ctx context.Context, view string) wrapper.JSONResult {
	st, err := uc.Board.View(view)
	if err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, st)
}

func (uc *UseCase) RefetchViewFeed(ctx context.Context, view, name string) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Resource(name), logger.View(view))

	f, err := uc.Board.viewFeed(view, name)
	if err != nil {
		return uc.failed(ctx, err)
	}
	if err := f.Refetch(ctx); err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, f.Status())
}

// SetViewFeedEnabled toggles one view's node feed. Other views sharing
// the same session keep their own setting.
func (uc *UseCase) SetViewFeedEnabled(ctx context.Context, view, name string, req *dto.SetEnabledRequest) wrapper.JSONResult {
	logger.AddToContext(ctx, logger.Resource(name), logger.View(view))

	st, err := uc.Board.SetViewEnabled(view, name, *req.Enabled)
	if err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, st)
}

func (uc *UseCase) ReleaseView(ctx context.Context, view string) wrapper.JSONResult {
	if err := uc.Board.ReleaseView(view); err != nil {
		return uc.failed(ctx, err)
	}
	return wrapper.ResponseSuccess(http.StatusOK, "view released")
}

func (uc *UseCase) failed(ctx context.Context, err error) wrapper.JSONResult {
	logger.AddToContext(ctx, zap.Error(err))

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownFeed), errors.Is(err, ErrUnknownView):
		code = http.StatusNotFound
	case errors.Is(err, poll.ErrClosed):
		code = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		code = http.StatusRequestTimeout
	}
	return wrapper.ResponseFailed(code, err.Error(), nil)
}
