package sync

import (
	"errors"
	"fmt"
	"strings"

	"kafka-governance/internal/model"
	"kafka-governance/prometheus"

	"go.uber.org/zap"
)

// ErrNotAuthorized is returned by read operations when the caller lacks the
// required sync permission. Write operations surface the same condition as
// a not-authorized ApiResponse instead.
var ErrNotAuthorized = errors.New("not authorized")

// Service orchestrates reconciliation over the store, the cluster inventory
// and the cluster provisioner. The read path holds no mutable state.
type Service struct {
	store       Store
	inventory   InventoryFetcher
	provisioner Provisioner
	log         *zap.Logger
}

func NewService(store Store, inventory InventoryFetcher, provisioner Provisioner, log *zap.Logger) *Service {
	return &Service{
		store:       store,
		inventory:   inventory,
		provisioner: provisioner,
		log:         log,
	}
}

// ListQuery bundles the read-path parameters. PageNo "-1" disables paging.
type ListQuery struct {
	EnvironmentID uint
	PageNo        string
	CurrentPage   string
	NameFilter    string
	ForceRefresh  bool
}

// SyncTopicList returns the full-mode diff: every cluster topic, owned and
// unowned, plus DELETED entries, paginated.
func (s *Service) SyncTopicList(p *Principal, tenantID uint, q ListQuery) (*SyncTopicsList, error) {
	if p != nil && !HasPermission(p, PermSyncTopics) {
		return nil, ErrNotAuthorized
	}
	prometheus.RecordReconciliationRun("full")

	entries, loading, err := s.computeDiff(tenantID, q, false)
	if err != nil {
		return nil, err
	}
	return s.assembleList(entries, loading, q), nil
}

// ReconTopicList returns the reconciliation-mode diff: drift (ADDED and
// DELETED) entries only.
func (s *Service) ReconTopicList(p *Principal, tenantID uint, q ListQuery) (*SyncTopicsList, error) {
	if p != nil && !HasPermission(p, PermSyncTopics) {
		return nil, ErrNotAuthorized
	}
	prometheus.RecordReconciliationRun("reconciliation")

	entries, loading, err := s.computeDiff(tenantID, q, true)
	if err != nil {
		return nil, err
	}
	return s.assembleList(entries, loading, q), nil
}

// ReconTopicsScheduled is the scheduler entry point: reconciliation mode,
// no principal, no paging, no cache reset.
func (s *Service) ReconTopicsScheduled(tenantID, environmentID uint) ([]model.DiffEntry, error) {
	entries, _, err := s.computeDiff(tenantID, ListQuery{EnvironmentID: environmentID, PageNo: "-1"}, true)
	return entries, err
}

func (s *Service) computeDiff(tenantID uint, q ListQuery, reconciliationOnly bool) ([]model.DiffEntry, bool, error) {
	env, err := s.store.Environment(q.EnvironmentID, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("environment %d: %w", q.EnvironmentID, err)
	}
	cluster, err := s.store.Cluster(env.ClusterID, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("cluster %d: %w", env.ClusterID, err)
	}

	clusterTopics, loading, err := s.inventory.FetchTopics(cluster, tenantID, q.ForceRefresh)
	if err != nil {
		return nil, false, fmt.Errorf("fetch cluster topics: %w", err)
	}

	if q.NameFilter != "" && !loading {
		filter := strings.TrimSpace(q.NameFilter)
		filtered := make([]model.ClusterTopic, 0, len(clusterTopics))
		for _, topic := range clusterTopics {
			if strings.Contains(topic.Name, filter) {
				filtered = append(filtered, topic)
			}
		}
		clusterTopics = filtered
	}

	recorded, err := s.store.SyncTopics(env.ID, 0, tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("read recorded topics: %w", err)
	}
	teams, err := s.store.TeamsForTenant(tenantID)
	if err != nil {
		return nil, false, fmt.Errorf("read teams: %w", err)
	}

	s.log.Info("reconciliation pass",
		zap.Uint("tenant_id", tenantID),
		zap.Uint("environment_id", env.ID),
		zap.Int("cluster_topics", len(clusterTopics)),
		zap.Int("recorded_topics", len(recorded)),
		zap.Bool("loading_in_progress", loading))

	entries := BuildDiff(DiffInput{
		Environment:   env,
		ClusterTopics: clusterTopics,
		Recorded:      recorded,
		Teams:         teams,
	}, reconciliationOnly)

	return entries, loading, nil
}

func (s *Service) assembleList(entries []model.DiffEntry, loading bool, q ListQuery) *SyncTopicsList {
	list := &SyncTopicsList{
		TotalCount:        len(entries),
		LoadingInProgress: loading,
	}
	for _, entry := range entries {
		if !entry.Valid {
			list.InvalidCount++
		}
	}

	if q.PageNo == "-1" {
		list.Entries = entries
		return list
	}

	page, meta := Paginate(entries, q.PageNo, q.CurrentPage)
	list.Entries = page
	list.Paging = &meta
	return list
}

// invalidateTenantInventory drops the cached inventory of every cluster
// backing one of the tenant's environments. Cache coherence after a commit
// is reload-on-write, not incremental.
func (s *Service) invalidateTenantInventory(tenantID uint) {
	envs, err := s.store.EnvironmentsForTenant(tenantID)
	if err != nil {
		s.log.Error("reload tenant inventory", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return
	}
	for _, env := range envs {
		s.inventory.Invalidate(env.ClusterID, tenantID)
	}
}
