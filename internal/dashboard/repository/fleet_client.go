package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Alwanly/fleet-dashboard/internal/config"
	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"go.uber.org/zap"
)

// MaxResponseBytes caps how much of one fleet API response is read. The
// largest real payload, a full log tail, stays far below it.
const MaxResponseBytes = 8 << 20

// ErrBodyTooLarge is the cause of the decode failure reported for a
// response over the cap.
var ErrBodyTooLarge = errors.New("response body too large")

type fleetClient struct {
	httpClient *http.Client
	baseURL    string
	maxBody    int64
	logger     *logger.CanonicalLogger
}

// NewFleetClient creates a new fleet admin API client
func NewFleetClient(cfg *config.DashboardConfig, log *logger.CanonicalLogger) IFleetClient {
	return newFleetClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.FleetAPIURL, log)
}

func newFleetClient(httpClient *http.Client, baseURL string, log *logger.CanonicalLogger) *fleetClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &fleetClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxBody:    MaxResponseBytes,
		logger:     log,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// get issues a GET for path and decodes the body into T. A 204 or an
// empty body yields the zero value of T.
func get[T any](ctx context.Context, c *fleetClient, path string) (T, error) {
	var out T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return out, apierror.Transport(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, apierror.Transport(err)
	}
	defer resp.Body.Close()

	// one byte past the cap tells an oversized body from one exactly at it
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return out, apierror.Transport(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		c.logger.Debug("fleet api returned non-success status",
			zap.String(logger.FieldOperation, path),
			zap.Int(logger.FieldStatus, resp.StatusCode),
		)
		return out, apierror.Protocol(resp.StatusCode, eb.Error)
	}

	if int64(len(body)) > c.maxBody {
		c.logger.Warn("fleet api response over size cap",
			zap.String(logger.FieldOperation, path),
			zap.Int64("max_bytes", c.maxBody),
		)
		return out, apierror.Decode(resp.StatusCode, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, c.maxBody))
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, apierror.Decode(resp.StatusCode, err)
	}
	return out, nil
}

func (c *fleetClient) ListNodes(ctx context.Context) ([]models.Node, error) {
	return get[[]models.Node](ctx, c, "/admin/nodes")
}

func (c *fleetClient) GetNode(ctx context.Context, id int64) (*models.Node, error) {
	return get[*models.Node](ctx, c, fmt.Sprintf("/admin/nodes/%d", id))
}

func (c *fleetClient) GetNodeLogs(ctx context.Context, id int64, limit int) (*models.NodeLogs, error) {
	return get[*models.NodeLogs](ctx, c, fmt.Sprintf("/admin/nodes/%d/logs?limit=%d", id, limit))
}

func (c *fleetClient) ListNodeSSHKeys(ctx context.Context, id int64) ([]models.NodeSSHKey, error) {
	return get[[]models.NodeSSHKey](ctx, c, fmt.Sprintf("/admin/nodes/%d/ssh-keys", id))
}

func (c *fleetClient) ListWireGuardPeers(ctx context.Context) ([]models.WireGuardPeer, error) {
	return get[[]models.WireGuardPeer](ctx, c, "/admin/network/wireguard/peers")
}

func (c *fleetClient) ListOSPFNeighbors(ctx context.Context) ([]models.OSPFNeighbor, error) {
	return get[[]models.OSPFNeighbor](ctx, c, "/admin/network/ospf/neighbors")
}

func (c *fleetClient) ListNodeWireGuardPeers(ctx context.Context, id int64) ([]models.WireGuardPeer, error) {
	return get[[]models.WireGuardPeer](ctx, c, fmt.Sprintf("/admin/nodes/%d/network/wireguard/peers", id))
}

func (c *fleetClient) ListNodeOSPFNeighbors(ctx context.Context, id int64) ([]models.OSPFNeighbor, error) {
	return get[[]models.OSPFNeighbor](ctx, c, fmt.Sprintf("/admin/nodes/%d/network/ospf/neighbors", id))
}

func (c *fleetClient) GetKubernetesCluster(ctx context.Context) (*models.KubernetesClusterResponse, error) {
	return get[*models.KubernetesClusterResponse](ctx, c, "/admin/kubernetes/cluster")
}

func (c *fleetClient) GetKubernetesWorkloads(ctx context.Context) (*models.KubernetesWorkloadsResponse, error) {
	return get[*models.KubernetesWorkloadsResponse](ctx, c, "/admin/kubernetes/workloads")
}

func (c *fleetClient) GetKubernetesNetworking(ctx context.Context) (*models.KubernetesNetworkingResponse, error) {
	return get[*models.KubernetesNetworkingResponse](ctx, c, "/admin/kubernetes/networking")
}

func (c *fleetClient) GetDeploymentSettings(ctx context.Context) (*models.DeploymentSettings, error) {
	return get[*models.DeploymentSettings](ctx, c, "/admin/deployment/settings")
}

func (c *fleetClient) ListEnrollments(ctx context.Context) ([]models.NodeEnrollmentRequest, error) {
	return get[[]models.NodeEnrollmentRequest](ctx, c, "/admin/enrollments")
}

func (c *fleetClient) ListIPPools(ctx context.Context) ([]models.IPPool, error) {
	return get[[]models.IPPool](ctx, c, "/admin/ipam/pools")
}

func (c *fleetClient) ListIPAllocations(ctx context.Context) ([]models.IPAllocation, error) {
	return get[[]models.IPAllocation](ctx, c, "/admin/ipam/allocations")
}
