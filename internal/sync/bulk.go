package sync

import (
	"fmt"
	"strings"

	"kafka-governance/internal/model"

	"go.uber.org/zap"
)

// SyncBulkRequest assigns one team to a set of topics in a source
// environment: either explicitly named topics (with their cluster details)
// or every topic currently on the source cluster.
type SyncBulkRequest struct {
	SourceEnvID       uint                 `json:"source_env_id"`
	SelectedTeam      string               `json:"selected_team"`
	TypeOfSync        string               `json:"type_of_sync"`
	TopicNames        []string             `json:"topic_names,omitempty"`
	TopicDetails      []model.ClusterTopic `json:"topic_details,omitempty"`
	TopicSearchFilter string               `json:"topic_search_filter,omitempty"`
}

// BulkAssign adopts topics in bulk by fabricating one sync decision per
// topic and committing them individually, collecting a per-topic log. The
// operation succeeds only if every topic was committed.
func (s *Service) BulkAssign(p *Principal, req SyncBulkRequest) (*ApiResponse, error) {
	if !HasPermission(p, PermSyncTopics) {
		return notAuthorized(), nil
	}
	tenantID := p.TenantID
	s.log.Info("bulk topic assignment",
		zap.Uint("tenant_id", tenantID),
		zap.Uint("source_env", req.SourceEnvID),
		zap.String("team", req.SelectedTeam),
		zap.String("type_of_sync", req.TypeOfSync))

	sourceEnv, err := s.store.Environment(req.SourceEnvID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("source environment %d: %w", req.SourceEnvID, err)
	}

	logLines := []string{
		"Source environment " + sourceEnv.Name,
		"Assigned to team " + req.SelectedTeam,
		"Type of sync " + req.TypeOfSync,
	}

	var selected []model.ClusterTopic
	if req.TypeOfSync == SyncTypeSelected {
		detailsByName := make(map[string]model.ClusterTopic, len(req.TopicDetails))
		for _, detail := range req.TopicDetails {
			detailsByName[detail.Name] = detail
		}
		for _, name := range req.TopicNames {
			detail, ok := detailsByName[name]
			if !ok {
				detail = model.ClusterTopic{Name: name}
			}
			selected = append(selected, detail)
		}
	} else {
		cluster, err := s.store.Cluster(sourceEnv.ClusterID, tenantID)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", sourceEnv.ClusterID, err)
		}
		clusterTopics, _, err := s.inventory.FetchTopics(cluster, tenantID, false)
		if err != nil {
			return nil, fmt.Errorf("fetch cluster topics: %w", err)
		}
		for _, topic := range clusterTopics {
			if req.TopicSearchFilter != "" && !strings.Contains(topic.Name, req.TopicSearchFilter) {
				continue
			}
			selected = append(selected, topic)
		}
	}

	failed := false
	for _, topic := range selected {
		decision := model.SyncDecision{
			TopicName:         topic.Name,
			EnvironmentID:     req.SourceEnvID,
			TeamName:          req.SelectedTeam,
			Partitions:        topic.Partitions,
			ReplicationFactor: topic.ReplicationFactor,
		}
		resp, err := s.CommitDecisions(p, []model.SyncDecision{decision})
		if err != nil {
			failed = true
			logLines = append(logLines, fmt.Sprintf("Topic status : %s %v", topic.Name, err))
			s.log.Error("bulk assign topic", zap.String("topic", topic.Name), zap.Error(err))
			continue
		}
		if !resp.Success {
			failed = true
		}
		logLines = append(logLines, fmt.Sprintf("Topic status : %s %s", topic.Name, resp.Message))
	}

	message := "success"
	if failed {
		message = "failure"
	}
	return &ApiResponse{Success: !failed, Message: message, Log: logLines}, nil
}
