package sync

import (
	"sort"

	"kafka-governance/internal/model"
)

// DiffInput is everything one reconciliation pass operates on. The engine
// is a pure transform over these inputs; fetching and caching live in the
// collaborators.
type DiffInput struct {
	Environment   *model.Environment
	ClusterTopics []model.ClusterTopic
	Recorded      []model.Topic
	Teams         []model.Team
}

// BuildDiff compares a cluster's current topic set against the recorded
// inventory and classifies every name as ADDED, DELETED or existing.
//
// Cross-tenant isolation: a topic whose recorded owner is not in the
// tenant-visible team set is excluded entirely, never reassigned. In
// reconciliation mode only drift (ADDED/DELETED) entries are returned.
// Sequence numbers are local to the pass; DELETED entries carry the record
// id instead so a delete decision can reference it.
func BuildDiff(in DiffInput, reconciliationOnly bool) []model.DiffEntry {
	clusterTopics := make([]model.ClusterTopic, len(in.ClusterTopics))
	copy(clusterTopics, in.ClusterTopics)
	sort.Slice(clusterTopics, func(i, j int) bool {
		return clusterTopics[i].Name < clusterTopics[j].Name
	})

	teamNameByID := make(map[uint]string, len(in.Teams))
	visibleTeams := make([]string, 0, len(in.Teams))
	for _, team := range in.Teams {
		teamNameByID[team.ID] = team.Name
		visibleTeams = append(visibleTeams, team.Name)
	}

	recordsByName := make(map[string][]model.Topic, len(in.Recorded))
	for _, rec := range in.Recorded {
		recordsByName[rec.Name] = append(recordsByName[rec.Name], rec)
	}

	var envID uint
	var envName string
	if in.Environment != nil {
		envID = in.Environment.ID
		envName = in.Environment.Name
	}

	entries := make([]model.DiffEntry, 0, len(clusterTopics))
	sequence := 0

	for _, clusterTopic := range clusterTopics {
		record, found := resolveRecord(recordsByName[clusterTopic.Name], envID)

		ownerName := ""
		if found && record.TeamID != 0 {
			name, visible := teamNameByID[record.TeamID]
			if !visible {
				// owned by a team outside this tenant: exclude, never reassign
				continue
			}
			ownerName = name
		}

		if ownerName != "" && reconciliationOnly {
			continue
		}

		sequence++
		entry := model.DiffEntry{
			Sequence:          sequence,
			TopicName:         clusterTopic.Name,
			EnvironmentID:     envID,
			EnvironmentName:   envName,
			Partitions:        clusterTopic.Partitions,
			ReplicationFactor: clusterTopic.ReplicationFactor,
			PossibleTeams:     visibleTeams,
		}

		if ownerName != "" {
			entry.TeamID = record.TeamID
			entry.TeamName = ownerName
		} else {
			entry.Remarks = model.RemarkAdded
		}

		entry.ValidationStatus, entry.Valid = ValidatePolicy(
			clusterTopic.Name, clusterTopic.Partitions, clusterTopic.ReplicationFactor, in.Environment)

		entries = append(entries, entry)
	}

	entries = append(entries, deletedEntries(clusterTopics, in.Recorded, teamNameByID, envName)...)

	return entries
}

// resolveRecord picks the record governing ownership for a topic name. When
// records for the name exist in several environments, the record in the
// scoped environment wins; otherwise the lowest id applies.
func resolveRecord(records []model.Topic, environmentID uint) (model.Topic, bool) {
	if len(records) == 0 {
		return model.Topic{}, false
	}
	best := records[0]
	for _, rec := range records[1:] {
		if rec.EnvironmentID == environmentID && best.EnvironmentID != environmentID {
			best = rec
			continue
		}
		if rec.EnvironmentID == environmentID || best.EnvironmentID != environmentID {
			if rec.ID < best.ID {
				best = rec
			}
		}
	}
	return best, true
}

// deletedEntries emits a DELETED entry for every tenant-visible recorded
// topic absent from the cluster's current name set.
func deletedEntries(clusterTopics []model.ClusterTopic, recorded []model.Topic, teamNameByID map[uint]string, envName string) []model.DiffEntry {
	clusterNames := make(map[string]struct{}, len(clusterTopics))
	for _, topic := range clusterTopics {
		clusterNames[topic.Name] = struct{}{}
	}

	entries := make([]model.DiffEntry, 0)
	for _, rec := range recorded {
		ownerName := teamNameByID[rec.TeamID]
		if ownerName == "" {
			// unowned or cross-tenant records never surface as DELETED
			continue
		}
		if _, onCluster := clusterNames[rec.Name]; onCluster {
			continue
		}
		entries = append(entries, model.DiffEntry{
			Sequence:          int(rec.ID),
			TopicName:         rec.Name,
			EnvironmentID:     rec.EnvironmentID,
			EnvironmentName:   envName,
			Partitions:        rec.Partitions,
			ReplicationFactor: rec.ReplicationFactor,
			TeamID:            rec.TeamID,
			TeamName:          ownerName,
			PossibleTeams:     []string{ownerName, model.TeamRemoveSentinel},
			Remarks:           model.RemarkDeleted,
			Valid:             true,
		})
	}
	return entries
}
