package sync

import (
	"errors"
	"fmt"

	"kafka-governance/internal/model"
	"kafka-governance/prometheus"

	"go.uber.org/zap"
)

// SyncBackRequest selects topics to clone from a source environment into a
// target environment, either explicitly by record id or all of them.
type SyncBackRequest struct {
	SourceEnvID uint   `json:"source_env_id"`
	TargetEnvID uint   `json:"target_env_id"`
	TypeOfSync  string `json:"type_of_sync"`
	TopicIDs    []uint `json:"topic_ids,omitempty"`
}

// SyncBack clones owned topic definitions into another environment. Each
// selected topic is provisioned on the target environment's cluster and,
// when source and target differ, formal ownership is registered through an
// auto-approved create request under the source owner team.
//
// Failures of individual topics are recorded in the operation log and do
// not stop the remaining topics; the response is successful only if no
// topic failed hard.
func (s *Service) SyncBack(p *Principal, req SyncBackRequest) (*ApiResponse, error) {
	if !HasPermission(p, PermSyncBackTopics) {
		return notAuthorized(), nil
	}
	tenantID := p.TenantID
	s.log.Info("sync back topics",
		zap.Uint("tenant_id", tenantID),
		zap.Uint("source_env", req.SourceEnvID),
		zap.Uint("target_env", req.TargetEnvID),
		zap.String("type_of_sync", req.TypeOfSync))

	sourceEnv, err := s.store.Environment(req.SourceEnvID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("source environment %d: %w", req.SourceEnvID, err)
	}
	targetEnv, err := s.store.Environment(req.TargetEnvID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("target environment %d: %w", req.TargetEnvID, err)
	}
	targetCluster, err := s.store.Cluster(targetEnv.ClusterID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("target cluster %d: %w", targetEnv.ClusterID, err)
	}

	logLines := []string{
		"Source environment " + sourceEnv.Name,
		"Target environment " + targetEnv.Name,
		"Type of sync " + req.TypeOfSync,
	}

	var topics []model.Topic
	if req.TypeOfSync == SyncTypeSelected {
		for _, id := range req.TopicIDs {
			topic, err := s.store.TopicByID(id, tenantID)
			if err != nil {
				logLines = append(logLines, fmt.Sprintf("Topic id %d not found", id))
				continue
			}
			topics = append(topics, *topic)
		}
	} else {
		topics, err = s.store.SyncTopics(req.SourceEnvID, 0, tenantID)
		if err != nil {
			return nil, fmt.Errorf("read source topics: %w", err)
		}
	}

	failed := false
	for _, topic := range topics {
		line, ok := s.syncBackOne(p, req, targetCluster, topic)
		logLines = append(logLines, line)
		if !ok {
			failed = true
			prometheus.RecordSyncBackTopic("error")
		} else {
			prometheus.RecordSyncBackTopic("success")
		}
	}

	s.inventory.Invalidate(targetCluster.ID, tenantID)

	message := "success"
	if failed {
		message = "failure"
	}
	return &ApiResponse{Success: !failed, Message: message, Log: logLines}, nil
}

func (s *Service) syncBackOne(p *Principal, req SyncBackRequest, targetCluster *model.Cluster, topic model.Topic) (string, bool) {
	err := s.provisioner.CreateTopic(targetCluster, model.ClusterTopic{
		Name:              topic.Name,
		Partitions:        topic.Partitions,
		ReplicationFactor: topic.ReplicationFactor,
	})
	if errors.Is(err, ErrTopicExists) {
		return "Error in creating topic. Topic " + topic.Name + " already exists on target cluster", true
	}
	if err != nil {
		s.log.Error("sync back create topic",
			zap.String("topic", topic.Name),
			zap.Uint("cluster_id", targetCluster.ID),
			zap.Error(err))
		return fmt.Sprintf("Error in creating topic %s %v", topic.Name, err), false
	}

	if req.SourceEnvID != req.TargetEnvID {
		if err := s.registerOwnership(p, req.TargetEnvID, topic); err != nil {
			s.log.Error("sync back register ownership",
				zap.String("topic", topic.Name),
				zap.Error(err))
			return fmt.Sprintf("Topic created %s, ownership registration failed: %v", topic.Name, err), false
		}
	}

	return "Topic created " + topic.Name, true
}

// registerOwnership files a create request for the topic definition against
// the target environment and approves it immediately: sync-back is an
// administrative operation, not a normal request/approval flow.
func (s *Service) registerOwnership(p *Principal, targetEnvID uint, topic model.Topic) error {
	records, err := s.store.TopicsByName(topic.Name, topic.TenantID)
	if err != nil {
		return fmt.Errorf("lookup owner: %w", err)
	}
	owner, found := resolveRecord(records, topic.EnvironmentID)
	if !found {
		return fmt.Errorf("no owner record for topic %s", topic.Name)
	}

	request := &model.TopicRequest{
		Name:              topic.Name,
		EnvironmentID:     targetEnvID,
		Partitions:        topic.Partitions,
		ReplicationFactor: topic.ReplicationFactor,
		TeamID:            owner.TeamID,
		TenantID:          topic.TenantID,
		Operation:         model.RequestOperationCreate,
		Status:            model.RequestStatusCreated,
		Requestor:         p.UserName,
	}
	if err := s.store.CreateTopicRequest(request); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if _, err := s.store.ApproveTopicRequest(request.ID, p.UserName); err != nil {
		return fmt.Errorf("approve request: %w", err)
	}
	return nil
}
