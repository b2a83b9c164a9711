package handler

import (
	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/binding"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/dto"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/repository"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/usecase"
	"github.com/Alwanly/fleet-dashboard/pkg/deps"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
	"github.com/Alwanly/fleet-dashboard/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	Logger  *logger.CanonicalLogger
	UseCase *usecase.UseCase
	Board   *usecase.Board
	Config  *config.DashboardConfig
}

// NewHandler wires the board against the fleet admin API and registers
// its routes.
func NewHandler(d deps.App, cfg *config.DashboardConfig) (*Handler, error) {
	return NewHandlerWithClient(d, cfg, repository.NewFleetClient(cfg, d.Logger))
}

// NewHandlerWithClient is NewHandler with an explicit fleet client.
// Extra options apply to every polling session.
func NewHandlerWithClient(d deps.App, cfg *config.DashboardConfig, client repository.IFleetClient, opts ...poll.Option) (*Handler, error) {
	if d.Signal != nil {
		opts = append([]poll.Option{poll.WithVisibility(d.Signal)}, opts...)
	}
	factory := binding.NewFactory(cfg, client, d.Logger, opts...)

	board, err := usecase.NewBoard(usecase.BoardOptions{
		Factory:   factory,
		Group:     d.Poller,
		Signal:    d.Signal,
		Publisher: d.Pub,
		Channel:   cfg.VisibilityChannel,
		Logger:    d.Logger,
	})
	if err != nil {
		return nil, err
	}

	uc := usecase.NewUseCase(usecase.UseCase{
		Board:  board,
		Logger: d.Logger,
	})

	h := &Handler{
		Logger:  d.Logger,
		UseCase: uc,
		Board:   board,
		Config:  cfg,
	}

	d.Fiber.Get("/health", h.health)

	feeds := d.Fiber.Group("/feeds")
	feeds.Get("", h.listFeeds)
	feeds.Get(":name", h.getFeed)
	feeds.Post(":name/refetch", h.refetchFeed)
	feeds.Put(":name/enabled", h.setFeedEnabled)

	d.Fiber.Put("/visibility", h.setVisibility)
	d.Fiber.Put("/nodes/focus", h.focusNode)

	views := d.Fiber.Group("/views")
	views.Get("", h.listViews)
	views.Get(":view", h.getView)
	views.Post(":view/feeds/:name/refetch", h.refetchViewFeed)
	views.Put(":view/feeds/:name/enabled", h.setViewFeedEnabled)
	views.Delete(":view", h.releaseView)

	return h, nil
}

// health godoc
func (h *Handler) health(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "health_check"))

	res := h.UseCase.Health(c.UserContext())
	return c.Status(res.Code).JSON(res)
}

// listFeeds returns every feed's data, loading and error state
func (h *Handler) listFeeds(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "list_feeds"))

	res := h.UseCase.ListFeeds(c.UserContext())
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) getFeed(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "get_feed"))

	res := h.UseCase.GetFeed(c.UserContext(), c.Params("name"))
	return c.Status(res.Code).JSON(res)
}

// refetchFeed fetches a feed outside its schedule and answers once the
// fetch settles
func (h *Handler) refetchFeed(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "refetch_feed"))

	res := h.UseCase.RefetchFeed(c.UserContext(), c.Params("name"))
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) setFeedEnabled(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "set_feed_enabled"))

	req := new(dto.SetEnabledRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.ValidateStruct(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": validator.TranslateError(err)})
	}

	res := h.UseCase.SetFeedEnabled(c.UserContext(), c.Params("name"), req)
	return c.Status(res.Code).JSON(res)
}

// setVisibility pauses or resumes every feed
func (h *Handler) setVisibility(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "set_visibility"))

	req := new(dto.SetVisibilityRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.ValidateStruct(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": validator.TranslateError(err)})
	}

	res := h.UseCase.SetVisibility(c.UserContext(), req)
	return c.Status(res.Code).JSON(res)
}

// focusNode points a view's node feeds at a node; node_id 0 clears it
func (h *Handler) focusNode(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "focus_node"))

	req := new(dto.FocusNodeRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.ValidateStruct(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": validator.TranslateError(err)})
	}

	res := h.UseCase.FocusNode(c.UserContext(), req)
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) listViews(c *fiber.Ctx) error {
	res := h.UseCase.ListViews(c.UserContext())
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) getView(c *fiber.Ctx) error {
	res := h.UseCase.GetView(c.UserContext(), c.Params("view"))
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) refetchViewFeed(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "refetch_view_feed"))

	res := h.UseCase.RefetchViewFeed(c.UserContext(), c.Params("view"), c.Params("name"))
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) setViewFeedEnabled(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "set_view_feed_enabled"))

	req := new(dto.SetEnabledRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.ValidateStruct(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": validator.TranslateError(err)})
	}

	res := h.UseCase.SetViewFeedEnabled(c.UserContext(), c.Params("view"), c.Params("name"), req)
	return c.Status(res.Code).JSON(res)
}

func (h *Handler) releaseView(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "release_view"))

	res := h.UseCase.ReleaseView(c.UserContext(), c.Params("view"))
	return c.Status(res.Code).JSON(res)
}
