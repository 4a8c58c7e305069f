package model

// Remarks classifying a diff entry. An empty remark means the topic exists
// on the cluster and in the catalog with a tenant-visible owner.
const (
	RemarkAdded   = "ADDED"
	RemarkDeleted = "DELETED"
)

// TeamRemoveSentinel is the team selection that marks a sync decision as a
// delete of the catalog record instead of an adoption.
const TeamRemoveSentinel = "Remove from catalog"

// ClusterTopic is a topic as it currently exists on a live cluster. It is
// rebuilt on every inventory fetch and never persisted.
type ClusterTopic struct {
	Name              string `json:"name"`
	Partitions        int    `json:"partitions"`
	ReplicationFactor int    `json:"replication_factor"`
}

// DiffEntry is one row of a reconciliation result. Sequence numbers rows
// within a single pass for stable ordering; for DELETED rows it carries the
// catalog record id so a delete decision can reference it.
type DiffEntry struct {
	Sequence          int      `json:"sequence"`
	TopicName         string   `json:"topic_name"`
	EnvironmentID     uint     `json:"environment_id"`
	EnvironmentName   string   `json:"environment_name"`
	Partitions        int      `json:"partitions"`
	ReplicationFactor int      `json:"replication_factor"`
	TeamID            uint     `json:"team_id"`
	TeamName          string   `json:"team_name"`
	PossibleTeams     []string `json:"possible_teams"`
	Remarks           string   `json:"remarks"`
	ValidationStatus  string   `json:"validation_status"`
	Valid             bool     `json:"valid"`
}

// SyncDecision is one operator-approved ownership decision. TeamName equal
// to TeamRemoveSentinel marks the entry for deletion; Sequence then carries
// the catalog record id to delete.
type SyncDecision struct {
	TopicName         string `json:"topic_name"`
	EnvironmentID     uint   `json:"environment_id"`
	TeamName          string `json:"team_name"`
	Partitions        int    `json:"partitions"`
	ReplicationFactor int    `json:"replication_factor"`
	Sequence          uint   `json:"sequence"`
}

// PagingMeta is the navigation metadata attached to a paginated response
type PagingMeta struct {
	TotalPages  int   `json:"total_pages"`
	AllPageNos  []int `json:"all_page_nos"`
	CurrentPage int   `json:"current_page"`
}

// TopicOverview is one row of the owned-topics view: a topic grouped by
// name across the environments it exists in.
type TopicOverview struct {
	Sequence          int      `json:"sequence"`
	TopicID           uint     `json:"topic_id"`
	TopicName         string   `json:"topic_name"`
	EnvironmentNames  []string `json:"environment_names"`
	TeamName          string   `json:"team_name"`
	Partitions        int      `json:"partitions"`
	ReplicationFactor int      `json:"replication_factor"`
	Description       string   `json:"description"`
}
