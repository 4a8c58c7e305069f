package sync

import (
	"fmt"
	"testing"

	"kafka-governance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTopicListRequiresPermission(t *testing.T) {
	svc := newTestService(commitFixture(), nil, nil)
	p := operatorPrincipal(1) // no permissions

	_, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1"})

	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestSyncTopicListReturnsNewAndDeletedTopics(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
		{ID: 43, Name: "shipments", EnvironmentID: 1, TeamID: 11, TenantID: 1},
	}
	inventory := &fakeInventory{topics: []model.ClusterTopic{
		{Name: "alerts", Partitions: 1, ReplicationFactor: 1},
		{Name: "orders", Partitions: 3, ReplicationFactor: 2},
	}}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1"})

	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalCount)
	assert.False(t, list.LoadingInProgress)
	require.NotNil(t, list.Paging)

	byName := make(map[string]model.DiffEntry)
	for _, entry := range list.Entries {
		byName[entry.TopicName] = entry
	}
	assert.Equal(t, model.RemarkAdded, byName["alerts"].Remarks)
	assert.Empty(t, byName["orders"].Remarks)
	assert.Equal(t, model.RemarkDeleted, byName["shipments"].Remarks)
}

func TestReconTopicListReturnsDriftOnly(t *testing.T) {
	store := commitFixture()
	store.topics = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}
	inventory := &fakeInventory{topics: []model.ClusterTopic{
		{Name: "alerts"},
		{Name: "orders"},
	}}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.ReconTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1"})

	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "alerts", list.Entries[0].TopicName)
	assert.Equal(t, model.RemarkAdded, list.Entries[0].Remarks)
}

func TestSyncTopicListPropagatesLoadingFlag(t *testing.T) {
	store := commitFixture()
	inventory := &fakeInventory{loading: true}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1"})

	require.NoError(t, err)
	assert.True(t, list.LoadingInProgress)
}

func TestSyncTopicListNameFilterSkippedWhileLoading(t *testing.T) {
	store := commitFixture()
	inventory := &fakeInventory{
		loading: true,
		topics: []model.ClusterTopic{
			{Name: "orders"},
			{Name: "alerts"},
		},
	}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1", NameFilter: "orders"})

	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount, "partial cache contents are never filtered")
}

func TestSyncTopicListNameFilter(t *testing.T) {
	store := commitFixture()
	inventory := &fakeInventory{topics: []model.ClusterTopic{
		{Name: "orders"},
		{Name: "orders-dlq"},
		{Name: "alerts"},
	}}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1", NameFilter: "orders"})

	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCount)
}

func TestSyncTopicListCountsInvalidEntriesBeforePaging(t *testing.T) {
	store := commitFixture()
	store.envs[0].PolicyEnabled = true
	store.envs[0].TopicPrefix = "dev_"
	store.envs[0].MaxPartitions = 100
	store.envs[0].MaxReplicationFactor = 3

	var clusterTopics []model.ClusterTopic
	for i := 0; i < 30; i++ {
		clusterTopics = append(clusterTopics, model.ClusterTopic{
			Name:       fmt.Sprintf("topic-%03d", i), // violates the dev_ prefix
			Partitions: 1, ReplicationFactor: 1,
		})
	}
	inventory := &fakeInventory{topics: clusterTopics}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "1"})

	require.NoError(t, err)
	assert.Len(t, list.Entries, PageSize)
	assert.Equal(t, 30, list.TotalCount)
	assert.Equal(t, 30, list.InvalidCount, "the invalid count spans all pages")
}

func TestSyncTopicListUnpaged(t *testing.T) {
	store := commitFixture()
	var clusterTopics []model.ClusterTopic
	for i := 0; i < 30; i++ {
		clusterTopics = append(clusterTopics, model.ClusterTopic{Name: fmt.Sprintf("topic-%03d", i)})
	}
	inventory := &fakeInventory{topics: clusterTopics}
	svc := newTestService(store, inventory, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	list, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 1, PageNo: "-1"})

	require.NoError(t, err)
	assert.Len(t, list.Entries, 30)
	assert.Nil(t, list.Paging)
}

func TestReconTopicsScheduledIsUnpagedAndPrincipalFree(t *testing.T) {
	store := commitFixture()
	var clusterTopics []model.ClusterTopic
	for i := 0; i < 25; i++ {
		clusterTopics = append(clusterTopics, model.ClusterTopic{Name: fmt.Sprintf("topic-%03d", i)})
	}
	inventory := &fakeInventory{topics: clusterTopics}
	svc := newTestService(store, inventory, nil)

	entries, err := svc.ReconTopicsScheduled(1, 1)

	require.NoError(t, err)
	assert.Len(t, entries, 25)
}

func TestSyncTopicListUnknownEnvironment(t *testing.T) {
	svc := newTestService(commitFixture(), nil, nil)
	p := operatorPrincipal(1, PermSyncTopics)

	_, err := svc.SyncTopicList(p, 1, ListQuery{EnvironmentID: 999, PageNo: "1"})

	assert.Error(t, err)
}
