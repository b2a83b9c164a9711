package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/mockapi/repository"
	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/deps"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	Logger *logger.CanonicalLogger
	Repo   repository.IRepository
	faults *faults
}

// NewHandler registers the admin API routes the dashboard polls, under
// /api, plus fault injection under /_faults.
func NewHandler(d deps.App) *Handler {
	h := &Handler{
		Logger: d.Logger,
		Repo:   repository.NewRepository(d.Database),
		faults: newFaults(),
	}

	d.Fiber.Get("/health", h.health)

	d.Fiber.Post("/_faults", h.addFault)
	d.Fiber.Get("/_faults", h.listFaults)
	d.Fiber.Delete("/_faults", h.clearFaults)

	admin := d.Fiber.Group("/api/admin", h.faults.middleware())
	admin.Get("/nodes", h.listNodes)
	admin.Get("/nodes/:id", h.getNode)
	admin.Get("/nodes/:id/logs", h.nodeLogs)
	admin.Get("/nodes/:id/ssh-keys", h.nodeSSHKeys)
	admin.Get("/nodes/:id/network/wireguard/peers", h.nodeWireGuardPeers)
	admin.Get("/nodes/:id/network/ospf/neighbors", h.nodeOSPFNeighbors)
	admin.Get("/network/wireguard/peers", h.wireGuardPeers)
	admin.Get("/network/ospf/neighbors", h.ospfNeighbors)
	admin.Get("/kubernetes/cluster", h.kubernetesCluster)
	admin.Get("/kubernetes/workloads", h.kubernetesWorkloads)
	admin.Get("/kubernetes/networking", h.kubernetesNetworking)
	admin.Get("/deployment/settings", h.deploymentSettings)
	admin.Get("/enrollments", h.enrollments)
	admin.Get("/ipam/pools", h.ipPools)
	admin.Get("/ipam/allocations", h.ipAllocations)

	return h
}

func (h *Handler) health(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "health_check"))
	return c.JSON(fiber.Map{"status": "healthy", "service": "mockapi"})
}

// fail answers err in the admin API error shape: {"error": "..."}.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	logger.AddToContext(c.UserContext(), zap.Error(err))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func (h *Handler) nodeID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid node id")
	}
	logger.AddToContext(c.UserContext(), zap.Int(logger.FieldNodeID, id))
	return int64(id), nil
}

func (h *Handler) listNodes(c *fiber.Ctx) error {
	nodes, err := h.Repo.ListNodes(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(nodes)
}

func (h *Handler) getNode(c *fiber.Ctx) error {
	id, err := h.nodeID(c)
	if err != nil {
		return err
	}
	node, err := h.Repo.GetNode(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(node)
}

func (h *Handler) nodeLogs(c *fiber.Ctx) error {
	id, err := h.nodeID(c)
	if err != nil {
		return err
	}

	q := new(LogsQuery)
	if err := c.QueryParser(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
	}
	if err := validator.ValidateStruct(q); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": validator.TranslateError(err)})
	}
	if q.Limit == 0 {
		q.Limit = 200
	}

	events, err := h.Repo.NodeEvents(c.UserContext(), id, q.Limit)
	if err != nil {
		return h.fail(c, err)
	}
	out := models.NodeLogs{Window: fmt.Sprintf("last %d", q.Limit), Logs: make([]string, 0, len(events))}
	for _, e := range events {
		out.Logs = append(out.Logs, fmt.Sprintf("%s %s", e.CreatedAt.UTC().Format(time.RFC3339), e.Message))
	}
	return c.JSON(out)
}

func (h *Handler) nodeSSHKeys(c *fiber.Ctx) error {
	id, err := h.nodeID(c)
	if err != nil {
		return err
	}
	keys, err := h.Repo.ListNodeSSHKeys(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(keys)
}

func (h *Handler) nodeWireGuardPeers(c *fiber.Ctx) error {
	id, err := h.nodeID(c)
	if err != nil {
		return err
	}
	peers, err := h.Repo.ListWireGuardPeers(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(peers)
}

func (h *Handler) nodeOSPFNeighbors(c *fiber.Ctx) error {
	id, err := h.nodeID(c)
	if err != nil {
		return err
	}
	neighbors, err := h.Repo.ListOSPFNeighbors(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(neighbors)
}

func (h *Handler) wireGuardPeers(c *fiber.Ctx) error {
	peers, err := h.Repo.ListWireGuardPeers(c.UserContext(), 0)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(peers)
}

func (h *Handler) ospfNeighbors(c *fiber.Ctx) error {
	neighbors, err := h.Repo.ListOSPFNeighbors(c.UserContext(), 0)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(neighbors)
}

func (h *Handler) kubernetesCluster(c *fiber.Ctx) error {
	cluster, err := h.Repo.GetCluster(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(models.KubernetesClusterResponse{Cluster: cluster})
}

func (h *Handler) kubernetesWorkloads(c *fiber.Ctx) error {
	nodes, err := h.Repo.ListNodes(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(synthesizeWorkloads(nodes, time.Now().UTC()))
}

func (h *Handler) kubernetesNetworking(c *fiber.Ctx) error {
	settings, err := h.Repo.GetDeploymentSettings(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(synthesizeNetworking(settings, time.Now().UTC()))
}

func (h *Handler) deploymentSettings(c *fiber.Ctx) error {
	settings, err := h.Repo.GetDeploymentSettings(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(settings)
}

func (h *Handler) enrollments(c *fiber.Ctx) error {
	out, err := h.Repo.ListEnrollments(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

func (h *Handler) ipPools(c *fiber.Ctx) error {
	pools, err := h.Repo.ListIPPools(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(pools)
}

func (h *Handler) ipAllocations(c *fiber.Ctx) error {
	allocs, err := h.Repo.ListIPAllocations(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(allocs)
}

func (h *Handler) addFault(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "add_fault"))

	req := new(FaultRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.ValidateStruct(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": validator.TranslateError(err)})
	}

	fault := h.faults.add(req)
	h.Logger.Info("fault injected", zap.String("path", fault.Path), zap.Int(logger.FieldStatus, fault.Status), zap.Int("count", fault.Remaining))
	return c.Status(fiber.StatusCreated).JSON(fault)
}

func (h *Handler) listFaults(c *fiber.Ctx) error {
	return c.JSON(h.faults.list())
}

func (h *Handler) clearFaults(c *fiber.Ctx) error {
	h.faults.clear()
	return c.SendStatus(fiber.StatusNoContent)
}
