package sync

import (
	"fmt"
	"strconv"
	"strings"

	"kafka-governance/internal/model"
	"kafka-governance/prometheus"

	"go.uber.org/zap"
)

// CommitDecisions applies a batch of operator-approved ownership decisions
// to the system-of-record: deletes, adoptions of unowned topics, team
// reassignments and per-environment record creation.
//
// The batch is rejected as a whole when a decision targets a non-base
// environment for a topic that does not exist in the tenant's base
// environment, or when base-environment ownership conflicts with the
// requested team. Deletes are idempotent. A successful commit reloads the
// tenant's inventory cache.
func (s *Service) CommitDecisions(p *Principal, decisions []model.SyncDecision) (*ApiResponse, error) {
	if !HasPermission(p, PermSyncTopics) {
		prometheus.RecordSyncCommit("not_authorized")
		return notAuthorized(), nil
	}
	tenantID := p.TenantID

	tenant, err := s.store.Tenant(tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant %d: %w", tenantID, err)
	}
	teams, err := s.store.TeamsForTenant(tenantID)
	if err != nil {
		return nil, fmt.Errorf("read teams: %w", err)
	}
	teamIDByName := make(map[string]uint, len(teams))
	teamNameByID := make(map[uint]string, len(teams))
	for _, team := range teams {
		teamIDByName[team.Name] = team.ID
		teamNameByID[team.ID] = team.Name
	}

	updates, deletes := splitDeletes(decisions)

	for _, id := range deletes {
		if err := s.store.DeleteTopic(id, tenantID); err != nil {
			return nil, fmt.Errorf("delete topic %d: %w", id, err)
		}
		s.log.Info("deleted recorded topic", zap.Uint("topic_id", id), zap.Uint("tenant_id", tenantID))
	}

	var toSave []model.Topic
	var notInBase, teamConflicts, unknownTeams []string
	promotionOrder := parsePromotionOrder(tenant.OrderOfEnvs)
	baseEnvID := tenant.BaseSyncEnvID

	for _, decision := range updates {
		if !EnvAllowed(p, decision.EnvironmentID) {
			prometheus.RecordSyncCommit("not_authorized")
			return notAuthorized(), nil
		}

		teamID, known := teamIDByName[decision.TeamName]
		if !known {
			unknownTeams = append(unknownTeams, decision.TopicName)
			continue
		}

		existing, err := s.store.TopicsByName(decision.TopicName, tenantID)
		if err != nil {
			return nil, fmt.Errorf("lookup topic %s: %w", decision.TopicName, err)
		}

		if len(existing) == 0 {
			if decision.EnvironmentID != baseEnvID && containsEnv(promotionOrder, decision.EnvironmentID) {
				notInBase = append(notInBase, decision.TopicName)
				continue
			}
			toSave = append(toSave, model.Topic{
				Name:              decision.TopicName,
				EnvironmentID:     decision.EnvironmentID,
				Partitions:        decision.Partitions,
				ReplicationFactor: decision.ReplicationFactor,
				TeamID:            teamID,
				TenantID:          tenantID,
				Description:       "Topic description",
			})
			continue
		}

		// ownership must originate from the base environment
		for _, record := range existing {
			if record.EnvironmentID == baseEnvID {
				if teamNameByID[record.TeamID] != decision.TeamName && decision.EnvironmentID != baseEnvID {
					teamConflicts = append(teamConflicts, decision.TopicName)
				}
				break
			}
		}

		envFound := false
		for _, record := range existing {
			if record.EnvironmentID == decision.EnvironmentID {
				envFound = true
				if record.TeamID != teamID {
					record.TeamID = teamID
					toSave = append(toSave, record)
				}
			}
		}
		if !envFound {
			// an environment is part of a record's identity, not a mutable
			// attribute: a new per-environment record is created instead of
			// moving an existing one
			toSave = append(toSave, model.Topic{
				Name:              decision.TopicName,
				EnvironmentID:     decision.EnvironmentID,
				Partitions:        decision.Partitions,
				ReplicationFactor: decision.ReplicationFactor,
				TeamID:            teamID,
				TenantID:          tenantID,
				Description:       "Topic description",
			})
		}
	}

	baseEnvName := strconv.FormatUint(uint64(baseEnvID), 10)
	if env, err := s.store.Environment(baseEnvID, tenantID); err == nil {
		baseEnvName = env.Name
	}

	if len(notInBase) > 0 {
		prometheus.RecordSyncCommit("conflict")
		return &ApiResponse{
			Success: false,
			Message: fmt.Sprintf("Topics must exist in the base environment %s before they can be promoted. Topics : %s",
				baseEnvName, strings.Join(notInBase, " ")),
		}, nil
	}
	if len(teamConflicts) > 0 {
		prometheus.RecordSyncCommit("conflict")
		return &ApiResponse{
			Success: false,
			Message: fmt.Sprintf("Team assignment conflicts with ownership in the base environment %s. Topics : %s",
				baseEnvName, strings.Join(teamConflicts, " ")),
		}, nil
	}
	if len(unknownTeams) > 0 {
		prometheus.RecordSyncCommit("invalid")
		return &ApiResponse{
			Success: false,
			Message: "Unknown team selected. Topics : " + strings.Join(unknownTeams, " "),
		}, nil
	}

	if len(toSave) == 0 {
		if len(deletes) > 0 {
			s.invalidateTenantInventory(tenantID)
			prometheus.RecordSyncCommit("success")
			return &ApiResponse{Success: true, Message: "success"}, nil
		}
		prometheus.RecordSyncCommit("empty")
		return &ApiResponse{Success: false, Message: "No topics to update"}, nil
	}

	if err := s.store.SaveTopics(toSave); err != nil {
		prometheus.RecordSyncCommit("error")
		return nil, fmt.Errorf("save topics: %w", err)
	}
	s.invalidateTenantInventory(tenantID)

	s.log.Info("committed sync decisions",
		zap.Uint("tenant_id", tenantID),
		zap.Int("saved", len(toSave)),
		zap.Int("deleted", len(deletes)))

	prometheus.RecordSyncCommit("success")
	return &ApiResponse{Success: true, Message: "success"}, nil
}

// splitDeletes separates delete decisions (team set to the remove sentinel)
// from adoptions and reassignments, dropping entries with no team selected.
func splitDeletes(decisions []model.SyncDecision) (updates []model.SyncDecision, deletes []uint) {
	for _, decision := range decisions {
		switch decision.TeamName {
		case "":
			continue
		case model.TeamRemoveSentinel:
			deletes = append(deletes, decision.Sequence)
		default:
			updates = append(updates, decision)
		}
	}
	return updates, deletes
}

func parsePromotionOrder(orderOfEnvs string) []uint {
	if orderOfEnvs == "" {
		return nil
	}
	parts := strings.Split(orderOfEnvs, ",")
	order := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			continue
		}
		order = append(order, uint(id))
	}
	return order
}

func containsEnv(order []uint, environmentID uint) bool {
	for _, id := range order {
		if id == environmentID {
			return true
		}
	}
	return false
}
