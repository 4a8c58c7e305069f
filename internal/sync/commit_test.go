package sync

import (
	"testing"

	"kafka-governance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFixture() *fakeStore {
	return &fakeStore{
		tenants: []model.Tenant{
			{ID: 1, Name: "acme", BaseSyncEnvID: 1, OrderOfEnvs: "1,2,3"},
		},
		envs: []model.Environment{
			{ID: 1, Name: "DEV", TenantID: 1, ClusterID: 100},
			{ID: 2, Name: "TST", TenantID: 1, ClusterID: 200},
		},
		clusters: []model.Cluster{
			{ID: 100, Name: "dev-cluster", TenantID: 1},
			{ID: 200, Name: "tst-cluster", TenantID: 1},
		},
		teams: []model.Team{
			{ID: 10, Name: "payments", TenantID: 1},
			{ID: 11, Name: "logistics", TenantID: 1},
		},
	}
}

func TestCommitDecisionsRequiresPermission(t *testing.T) {
	svc := newTestService(commitFixture(), nil, nil)
	p := operatorPrincipal(1) // no SYNC_TOPICS

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: "payments"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, NotAuthorizedMessage, resp.Message)
}

func TestCommitDecisionsAdoptsNewTopicInBaseEnvironment(t *testing.T) {
	store := commitFixture()
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: "payments", Partitions: 3, ReplicationFactor: 2},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.Equal(t, "orders", saved.Name)
	assert.Equal(t, uint(1), saved.EnvironmentID)
	assert.Equal(t, uint(10), saved.TeamID)
	assert.Equal(t, uint(1), saved.TenantID)
}

func TestCommitDecisionsRejectsPromotionBeforeBase(t *testing.T) {
	store := commitFixture()
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 2, TeamName: "payments"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "base environment DEV")
	assert.Contains(t, resp.Message, "orders")
	assert.Empty(t, store.saved, "conflicts abort the whole batch")
}

func TestCommitDecisionsAllowsNewTopicOutsidePromotionOrder(t *testing.T) {
	store := commitFixture()
	store.envs = append(store.envs, model.Environment{ID: 9, Name: "SANDBOX", TenantID: 1, ClusterID: 300})
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	// env 9 is not in the tenant's promotion order, so the base rule does not apply
	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "scratch", EnvironmentID: 9, TeamName: "payments"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, store.saved, 1)
}

func TestCommitDecisionsRejectsTeamConflictWithBaseOwnership(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	// base env record is owned by payments; promoting under logistics conflicts
	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 2, TeamName: "logistics"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "conflicts with ownership in the base environment DEV")
	assert.Empty(t, store.saved)
}

func TestCommitDecisionsReassignsTeamInPlace(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}
	inventory := &fakeInventory{}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: "logistics"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, store.saved, 1)
	assert.Equal(t, uint(42), store.saved[0].ID, "existing record is updated, not recreated")
	assert.Equal(t, uint(11), store.saved[0].TeamID)
	assert.ElementsMatch(t, []uint{100, 200}, inventory.invalidated, "commit reloads every tenant cluster cache")
}

func TestCommitDecisionsCreatesPerEnvironmentRecord(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 2, TeamName: "payments", Partitions: 6, ReplicationFactor: 3},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	assert.Equal(t, uint(2), saved.EnvironmentID, "a new record is created in the target environment")
	assert.Equal(t, uint(10), saved.TeamID)

	// the base environment record is untouched
	base, err := store.TopicByID(42, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), base.EnvironmentID)
}

func TestCommitDecisionsDeleteBySentinel(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}
	inventory := &fakeInventory{}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: model.TeamRemoveSentinel, Sequence: 42},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, []uint{42}, store.deleted)
	assert.NotEmpty(t, inventory.invalidated)
}

func TestCommitDecisionsDeleteIsIdempotent(t *testing.T) {
	store := commitFixture()
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	// id 42 does not exist
	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: model.TeamRemoveSentinel, Sequence: 42},
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestCommitDecisionsUnknownTeam(t *testing.T) {
	store := commitFixture()
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: "no-such-team"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Unknown team")
	assert.Empty(t, store.saved)
}

func TestCommitDecisionsSkipsEmptyTeamSelection(t *testing.T) {
	store := commitFixture()
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: ""},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "No topics to update", resp.Message)
}

func TestCommitDecisionsNoChangeIsNoUpdate(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: "payments"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "No topics to update", resp.Message)
}

func TestCommitDecisionsEnvironmentScopeEnforced(t *testing.T) {
	store := commitFixture()
	svc := newTestService(store, nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)
	p.AllowedEnvs = []uint{2}

	resp, err := svc.CommitDecisions(p, []model.SyncDecision{
		{TopicName: "orders", EnvironmentID: 1, TeamName: "payments"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, NotAuthorizedMessage, resp.Message)
}
