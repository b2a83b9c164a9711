package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/database"
	"github.com/Alwanly/fleet-dashboard/pkg/deps"
	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedInitialData(db, 2))
	t.Cleanup(func() {
		if conn, err := db.DB(); err == nil {
			_ = conn.Close()
		}
	})

	app := fiber.New()
	NewHandler(deps.App{Fiber: app, Logger: logger.NewNop(), Database: db})
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func TestListAndGetNodes(t *testing.T) {
	app := newTestApp(t)

	var nodes []models.Node
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/nodes", nil, &nodes))
	require.Len(t, nodes, 5)

	var node models.Node
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/nodes/4", nil, &node))
	assert.Equal(t, int64(4), node.ID)
	assert.Equal(t, models.RoleWorker, node.Role)
}

func TestMissingNodeUsesErrorShape(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/admin/nodes/999", nil, &body))
	assert.NotEmpty(t, body["error"])

	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodGet, "/api/admin/nodes/abc", nil, nil))
}

func TestNodeLogsLimit(t *testing.T) {
	app := newTestApp(t)

	var logs models.NodeLogs
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/nodes/1/logs?limit=1", nil, &logs))
	assert.Equal(t, "last 1", logs.Window)
	assert.Len(t, logs.Logs, 1)

	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodGet, "/api/admin/nodes/1/logs?limit=5000", nil, nil))
}

func TestNodeScopedNetwork(t *testing.T) {
	app := newTestApp(t)

	var all, scoped []models.WireGuardPeer
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/network/wireguard/peers", nil, &all))
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/nodes/4/network/wireguard/peers", nil, &scoped))
	assert.Len(t, scoped, 3)
	assert.Greater(t, len(all), len(scoped))

	var neighbors []models.OSPFNeighbor
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/nodes/4/network/ospf/neighbors", nil, &neighbors))
	assert.Len(t, neighbors, 3)
}

func TestKubernetesEndpoints(t *testing.T) {
	app := newTestApp(t)

	var cluster models.KubernetesClusterResponse
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/kubernetes/cluster", nil, &cluster))
	require.NotNil(t, cluster.Cluster)

	var workloads models.KubernetesWorkloadsResponse
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/kubernetes/workloads", nil, &workloads))
	assert.Len(t, workloads.Nodes, 5)
	assert.Len(t, workloads.Resources, 2)

	var networking models.KubernetesNetworkingResponse
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/kubernetes/networking", nil, &networking))
	assert.Len(t, networking.Services, 2)
}

func TestInjectedFaultIsConsumed(t *testing.T) {
	app := newTestApp(t)

	var fault Fault
	status := do(t, app, http.MethodPost, "/_faults", FaultRequest{Path: "/api/admin/nodes", Status: 503, Message: "maintenance"}, &fault)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, fault.ID)
	assert.Equal(t, 1, fault.Remaining)

	var body map[string]string
	assert.Equal(t, http.StatusServiceUnavailable, do(t, app, http.MethodGet, "/api/admin/nodes", nil, &body))
	assert.Equal(t, "maintenance", body["error"])

	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/nodes", nil, nil))
}

func TestInjectedMalformedBody(t *testing.T) {
	app := newTestApp(t)

	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/_faults", FaultRequest{Path: "/api/admin/enrollments", Body: "not json", Count: 2}, nil))

	var faults []Fault
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/_faults", nil, &faults))
	require.Len(t, faults, 1)
	assert.Equal(t, 2, faults[0].Remaining)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/enrollments", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "not json", string(raw))

	assert.Equal(t, http.StatusNoContent, do(t, app, http.MethodDelete, "/_faults", nil, nil))
	var enrollments []models.NodeEnrollmentRequest
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/api/admin/enrollments", nil, &enrollments))
	assert.Len(t, enrollments, 1)
}

func TestFaultValidation(t *testing.T) {
	app := newTestApp(t)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodPost, "/_faults", FaultRequest{Path: "nodes", Status: 200}, &body))
	assert.Contains(t, body.Fields, "path")
	assert.Contains(t, body.Fields, "status")
}
