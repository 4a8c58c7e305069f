package sync

import (
	"testing"

	"kafka-governance/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffFixture() DiffInput {
	return DiffInput{
		Environment: &model.Environment{ID: 1, Name: "DEV", TenantID: 1},
		Teams: []model.Team{
			{ID: 10, Name: "payments", TenantID: 1},
			{ID: 11, Name: "logistics", TenantID: 1},
		},
	}
}

func TestBuildDiffMarksUnrecordedTopicsAdded(t *testing.T) {
	in := diffFixture()
	in.ClusterTopics = []model.ClusterTopic{
		{Name: "orders", Partitions: 3, ReplicationFactor: 2},
	}

	entries := BuildDiff(in, false)

	require.Len(t, entries, 1)
	assert.Equal(t, "orders", entries[0].TopicName)
	assert.Equal(t, model.RemarkAdded, entries[0].Remarks)
	assert.Equal(t, uint(0), entries[0].TeamID)
	assert.Equal(t, []string{"payments", "logistics"}, entries[0].PossibleTeams)
}

func TestBuildDiffMarksMissingRecordedTopicsDeleted(t *testing.T) {
	in := diffFixture()
	in.Recorded = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1, Partitions: 3, ReplicationFactor: 2},
	}

	entries := BuildDiff(in, false)

	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, model.RemarkDeleted, entry.Remarks)
	assert.Equal(t, "orders", entry.TopicName)
	assert.Equal(t, 42, entry.Sequence, "deleted entries carry the record id")
	assert.Equal(t, "payments", entry.TeamName)
	assert.Equal(t, []string{"payments", model.TeamRemoveSentinel}, entry.PossibleTeams)
	assert.True(t, entry.Valid)
}

func TestBuildDiffExistingTopicKeepsOwner(t *testing.T) {
	in := diffFixture()
	in.ClusterTopics = []model.ClusterTopic{{Name: "orders", Partitions: 3, ReplicationFactor: 2}}
	in.Recorded = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
	}

	entries := BuildDiff(in, false)

	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Remarks)
	assert.Equal(t, uint(10), entries[0].TeamID)
	assert.Equal(t, "payments", entries[0].TeamName)
}

func TestBuildDiffReconciliationModeReturnsDriftOnly(t *testing.T) {
	in := diffFixture()
	in.ClusterTopics = []model.ClusterTopic{
		{Name: "alerts", Partitions: 1, ReplicationFactor: 1},
		{Name: "orders", Partitions: 3, ReplicationFactor: 2},
	}
	in.Recorded = []model.Topic{
		{ID: 42, Name: "orders", EnvironmentID: 1, TeamID: 10, TenantID: 1},
		{ID: 43, Name: "shipments", EnvironmentID: 1, TeamID: 11, TenantID: 1},
	}

	entries := BuildDiff(in, true)

	require.Len(t, entries, 2)
	assert.Equal(t, "alerts", entries[0].TopicName)
	assert.Equal(t, model.RemarkAdded, entries[0].Remarks)
	assert.Equal(t, 1, entries[0].Sequence)
	assert.Equal(t, "shipments", entries[1].TopicName)
	assert.Equal(t, model.RemarkDeleted, entries[1].Remarks)
}

func TestBuildDiffExcludesCrossTenantOwnership(t *testing.T) {
	in := diffFixture()
	in.ClusterTopics = []model.ClusterTopic{{Name: "foreign", Partitions: 1, ReplicationFactor: 1}}
	// record owned by a team not visible to this tenant
	in.Recorded = []model.Topic{
		{ID: 99, Name: "foreign", EnvironmentID: 1, TeamID: 77, TenantID: 2},
	}

	entries := BuildDiff(in, false)

	assert.Empty(t, entries, "cross-tenant topics are neither listed nor reassigned")
}

func TestBuildDiffCrossTenantRecordNeverSurfacesAsDeleted(t *testing.T) {
	in := diffFixture()
	in.Recorded = []model.Topic{
		{ID: 99, Name: "foreign", EnvironmentID: 1, TeamID: 77, TenantID: 2},
	}

	entries := BuildDiff(in, false)

	assert.Empty(t, entries)
}

func TestBuildDiffSortsClusterTopicsByName(t *testing.T) {
	in := diffFixture()
	in.ClusterTopics = []model.ClusterTopic{
		{Name: "zeta"},
		{Name: "alpha"},
		{Name: "mid"},
	}

	entries := BuildDiff(in, false)

	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].TopicName)
	assert.Equal(t, "mid", entries[1].TopicName)
	assert.Equal(t, "zeta", entries[2].TopicName)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Sequence)
	}
}

func TestBuildDiffValidatesClusterEntriesAgainstPolicy(t *testing.T) {
	in := diffFixture()
	in.Environment.PolicyEnabled = true
	in.Environment.TopicPrefix = "dev_"
	in.Environment.MaxPartitions = 12
	in.Environment.MaxReplicationFactor = 3
	in.ClusterTopics = []model.ClusterTopic{
		{Name: "dev_orders", Partitions: 3, ReplicationFactor: 2},
		{Name: "orders", Partitions: 3, ReplicationFactor: 2},
	}

	entries := BuildDiff(in, false)

	require.Len(t, entries, 2)
	assert.True(t, entries[0].Valid)
	assert.False(t, entries[1].Valid)
	assert.Contains(t, entries[1].ValidationStatus, "prefix")
}

func TestResolveRecordPrefersScopedEnvironment(t *testing.T) {
	records := []model.Topic{
		{ID: 1, Name: "orders", EnvironmentID: 2},
		{ID: 5, Name: "orders", EnvironmentID: 1},
	}

	record, found := resolveRecord(records, 1)

	require.True(t, found)
	assert.Equal(t, uint(5), record.ID)
}

func TestResolveRecordFallsBackToLowestID(t *testing.T) {
	records := []model.Topic{
		{ID: 7, Name: "orders", EnvironmentID: 2},
		{ID: 3, Name: "orders", EnvironmentID: 4},
	}

	record, found := resolveRecord(records, 1)

	require.True(t, found)
	assert.Equal(t, uint(3), record.ID)
}

func TestResolveRecordEmpty(t *testing.T) {
	_, found := resolveRecord(nil, 1)
	assert.False(t, found)
}
