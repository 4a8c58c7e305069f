package sync

import (
	"fmt"
	"sort"
	"strings"

	"kafka-governance/internal/model"
)

// RowViewQuery bundles the owned-topics view parameters. EnvironmentID 0
// lists topics across all environments; TeamID 0 disables team scoping.
// RoleFilter "OWNER" restricts rows to topics owned by TeamID.
type RowViewQuery struct {
	EnvironmentID uint
	TeamID        uint
	RoleFilter    string
	PageNo        string
	CurrentPage   string
	NameFilter    string
}

// TopicsRowView lists recorded topics grouped by name across environments,
// filtered and windowed for presentation. It reads the catalog only; the
// cluster is not consulted.
func (s *Service) TopicsRowView(p *Principal, q RowViewQuery) (*TopicsPage, error) {
	if p == nil {
		return nil, ErrNotAuthorized
	}
	tenantID := p.TenantID

	teamID := uint(0)
	if q.RoleFilter == "OWNER" || q.RoleFilter == "" {
		teamID = q.TeamID
	}

	topics, err := s.store.SyncTopics(q.EnvironmentID, teamID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("read recorded topics: %w", err)
	}

	teams, err := s.store.TeamsForTenant(tenantID)
	if err != nil {
		return nil, fmt.Errorf("read teams: %w", err)
	}
	teamNameByID := make(map[uint]string, len(teams))
	for _, team := range teams {
		teamNameByID[team.ID] = team.Name
	}

	envs, err := s.store.EnvironmentsForTenant(tenantID)
	if err != nil {
		return nil, fmt.Errorf("read environments: %w", err)
	}
	envNameByID := make(map[uint]string, len(envs))
	for _, env := range envs {
		envNameByID[env.ID] = env.Name
	}

	var promotionOrder []uint
	if tenant, err := s.store.Tenant(tenantID); err == nil {
		promotionOrder = parsePromotionOrder(tenant.OrderOfEnvs)
	}

	filter := strings.TrimSpace(q.NameFilter)

	grouped := make(map[string]*model.TopicOverview)
	envIDsByName := make(map[string][]uint)
	names := make([]string, 0)
	for _, topic := range topics {
		if filter != "" && !strings.Contains(topic.Name, filter) && !strings.Contains(topic.Description, filter) {
			continue
		}
		overview, seen := grouped[topic.Name]
		if !seen {
			overview = &model.TopicOverview{
				TopicID:           topic.ID,
				TopicName:         topic.Name,
				TeamName:          teamNameByID[topic.TeamID],
				Partitions:        topic.Partitions,
				ReplicationFactor: topic.ReplicationFactor,
				Description:       topic.Description,
			}
			grouped[topic.Name] = overview
			names = append(names, topic.Name)
		}
		envIDsByName[topic.Name] = append(envIDsByName[topic.Name], topic.EnvironmentID)
	}

	sort.Strings(names)

	rows := make([]model.TopicOverview, 0, len(names))
	for _, name := range names {
		overview := grouped[name]
		envIDs := envIDsByName[name]
		sortByPromotionOrder(envIDs, promotionOrder)
		for _, id := range envIDs {
			overview.EnvironmentNames = append(overview.EnvironmentNames, envNameByID[id])
		}
		rows = append(rows, *overview)
	}

	page, meta := Paginate(rows, q.PageNo, q.CurrentPage)
	for i := range page {
		page[i].Sequence = (meta.CurrentPage-1)*PageSize + i + 1
	}

	return &TopicsPage{Entries: page, Paging: meta}, nil
}

// sortByPromotionOrder orders environment ids by their position in the
// tenant's promotion order; ids outside the order sort last, by id.
func sortByPromotionOrder(envIDs []uint, order []uint) {
	position := func(id uint) int {
		for i, candidate := range order {
			if candidate == id {
				return i
			}
		}
		return len(order) + int(id)
	}
	sort.Slice(envIDs, func(i, j int) bool {
		return position(envIDs[i]) < position(envIDs[j])
	})
}
