package sync

import (
	"errors"

	"kafka-governance/internal/model"
)

// Permissions required for sync operations
const (
	PermSyncTopics            = "SYNC_TOPICS"
	PermSyncBackTopics        = "SYNC_BACK_TOPICS"
	PermSyncSubscriptions     = "SYNC_SUBSCRIPTIONS"
	PermSyncBackSubscriptions = "SYNC_BACK_SUBSCRIPTIONS"
)

// Sync-back selection modes
const (
	SyncTypeSelected = "SELECTED_TOPICS"
	SyncTypeAll      = "ALL_TOPICS"
)

// ErrTopicExists is returned by a Provisioner when the topic already exists
// on the target cluster.
var ErrTopicExists = errors.New("topic already exists on cluster")

// Principal is the authenticated caller of a sync operation, resolved from
// the JWT claims by the API layer. Scheduled runs pass a nil principal.
type Principal struct {
	UserName    string
	TenantID    uint
	Permissions []string
	AllowedEnvs []uint
}

// Store is the read/write contract against the system-of-record.
type Store interface {
	// SyncTopics returns recorded topics for a tenant, optionally
	// restricted to one environment (environmentID 0 = all) and one team
	// (teamID 0 = all), ordered by name.
	SyncTopics(environmentID, teamID, tenantID uint) ([]model.Topic, error)
	// TopicsByName returns every per-environment record of a topic name
	// within a tenant, ordered by id.
	TopicsByName(name string, tenantID uint) ([]model.Topic, error)
	TopicByID(id, tenantID uint) (*model.Topic, error)
	SaveTopics(topics []model.Topic) error
	// DeleteTopic removes a recorded topic; deleting an absent id is a
	// no-op success.
	DeleteTopic(id, tenantID uint) error

	TeamsForTenant(tenantID uint) ([]model.Team, error)
	Environment(id, tenantID uint) (*model.Environment, error)
	EnvironmentsForTenant(tenantID uint) ([]model.Environment, error)
	Cluster(id, tenantID uint) (*model.Cluster, error)
	Tenant(id uint) (*model.Tenant, error)
	Tenants() ([]model.Tenant, error)

	CreateTopicRequest(req *model.TopicRequest) error
	ApproveTopicRequest(id uint, approver string) (*model.Topic, error)
}

// InventoryFetcher serves cached cluster topic inventories without ever
// blocking on a live cluster scan. A true loading flag means the returned
// topics are the stale or partial cache contents and the caller is expected
// to re-request.
type InventoryFetcher interface {
	FetchTopics(cluster *model.Cluster, tenantID uint, forceRefresh bool) (topics []model.ClusterTopic, loadingInProgress bool, err error)
	Invalidate(clusterID, tenantID uint)
}

// Provisioner creates topics on a live cluster during sync-back.
type Provisioner interface {
	CreateTopic(cluster *model.Cluster, topic model.ClusterTopic) error
}

// ApiResponse is the aggregate outcome of a write operation. Log carries
// per-item lines for batch operations.
type ApiResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Log     []string `json:"log,omitempty"`
}

// NotAuthorizedMessage is returned whenever the caller lacks a required
// permission; authorization failures never yield partial results.
const NotAuthorizedMessage = "Not Authorized"

func notAuthorized() *ApiResponse {
	return &ApiResponse{Success: false, Message: NotAuthorizedMessage}
}

// SyncTopicsList is the result of a diff listing
type SyncTopicsList struct {
	Entries           []model.DiffEntry `json:"entries"`
	TotalCount        int               `json:"total_count"`
	InvalidCount      int               `json:"invalid_count"`
	LoadingInProgress bool              `json:"loading_in_progress"`
	Paging            *model.PagingMeta `json:"paging,omitempty"`
}

// TopicsPage is the result of the owned-topics row view
type TopicsPage struct {
	Entries []model.TopicOverview `json:"entries"`
	Paging  model.PagingMeta      `json:"paging"`
}
