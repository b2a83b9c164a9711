package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/models"
	"github.com/Alwanly/fleet-dashboard/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededRepo(t *testing.T, workers int) IRepository {
	t.Helper()
	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedInitialData(db, workers))
	t.Cleanup(func() {
		if conn, err := db.DB(); err == nil {
			_ = conn.Close()
		}
	})
	return NewRepository(db)
}

func TestSeededFleet(t *testing.T) {
	repo := newSeededRepo(t, 2)
	ctx := context.Background()

	nodes, err := repo.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 5)
	assert.Equal(t, "hub-1", nodes[0].Hostname)
	assert.Equal(t, models.RoleWorker, nodes[4].Role)
	assert.Equal(t, "hub", nodes[0].Labels["role"])
	require.Len(t, nodes[0].SystemServices, 1)

	settings, err := repo.GetDeploymentSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, settings.OSPFDeadInterval)

	cluster, err := repo.GetCluster(ctx)
	require.NoError(t, err)
	require.NotNil(t, cluster)
	assert.Equal(t, "v1.31.2", cluster.KubernetesVersion)

	enrollments, err := repo.ListEnrollments(ctx)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, models.EnrollmentPending, enrollments[0].Status)

	pools, err := repo.ListIPPools(ctx)
	require.NoError(t, err)
	assert.Len(t, pools, 4)

	allocs, err := repo.ListIPAllocations(ctx)
	require.NoError(t, err)
	require.Len(t, allocs, 5)
	require.NotNil(t, allocs[0].Pool)
	assert.Equal(t, "loopback", allocs[0].Pool.Kind)
}

func TestSeedIsIdempotent(t *testing.T) {
	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedInitialData(db, 1))
	require.NoError(t, database.SeedInitialData(db, 1))

	nodes, err := NewRepository(db).ListNodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 4)
}

func TestNodeScopedQueries(t *testing.T) {
	repo := newSeededRepo(t, 2)
	ctx := context.Background()

	_, err := repo.GetNode(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.ListNodeSSHKeys(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	// worker-1 peers with every hub
	peers, err := repo.ListWireGuardPeers(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, peers, 3)

	all, err := repo.ListWireGuardPeers(ctx, 0)
	require.NoError(t, err)
	assert.Greater(t, len(all), len(peers))

	neighbors, err := repo.ListOSPFNeighbors(ctx, 4)
	require.NoError(t, err)
	assert.Len(t, neighbors, 3)

	keys, err := repo.ListNodeSSHKeys(ctx, 4)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "ops@worker-1", keys[0].Comment)
}

func TestHeartbeatAppendsEvents(t *testing.T) {
	repo := newSeededRepo(t, 1)
	ctx := context.Background()

	now := time.Now().UTC().Add(time.Minute)
	require.NoError(t, repo.Heartbeat(ctx, now))
	require.NoError(t, repo.Heartbeat(ctx, now.Add(time.Second)))

	events, err := repo.NodeEvents(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Less(t, events[0].ID, events[1].ID)
	assert.Contains(t, events[1].Message, "heartbeat")

	node, err := repo.GetNode(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, node.LastSeenAt)
	assert.WithinDuration(t, now.Add(time.Second), *node.LastSeenAt, time.Second)
}
