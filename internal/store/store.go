package store

import (
	"errors"
	"fmt"
	"time"

	"kafka-governance/internal/model"
	"kafka-governance/prometheus"

	"gorm.io/gorm"
)

// Store is the gorm-backed system-of-record implementation of the sync
// package's store contract.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SyncTopics returns recorded topics for a tenant, optionally restricted to
// one environment and one team, ordered by name.
func (s *Store) SyncTopics(environmentID, teamID, tenantID uint) ([]model.Topic, error) {
	defer prometheus.TrackDBOperation("sync_topics")(time.Now())

	query := s.db.Where("tenant_id = ?", tenantID)
	if environmentID != 0 {
		query = query.Where("environment_id = ?", environmentID)
	}
	if teamID != 0 {
		query = query.Where("team_id = ?", teamID)
	}

	var topics []model.Topic
	if err := query.Order("name asc").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

// TopicsByName returns every per-environment record of a topic name within
// a tenant, ordered by id.
func (s *Store) TopicsByName(name string, tenantID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := s.db.Where("name = ? AND tenant_id = ?", name, tenantID).
		Order("id asc").Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}

func (s *Store) TopicByID(id, tenantID uint) (*model.Topic, error) {
	var topic model.Topic
	err := s.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&topic).Error
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// SaveTopics upserts a batch of recorded topics in one transaction
func (s *Store) SaveTopics(topics []model.Topic) error {
	defer prometheus.TrackDBOperation("save_topics")(time.Now())

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range topics {
			if err := tx.Save(&topics[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTopic removes a recorded topic. Deleting an absent id is a no-op.
func (s *Store) DeleteTopic(id, tenantID uint) error {
	return s.db.Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&model.Topic{}).Error
}

func (s *Store) TeamsForTenant(tenantID uint) ([]model.Team, error) {
	var teams []model.Team
	err := s.db.Where("tenant_id = ?", tenantID).Order("name asc").Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *Store) Environment(id, tenantID uint) (*model.Environment, error) {
	var env model.Environment
	err := s.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&env).Error
	if err != nil {
		return nil, err
	}
	return &env, nil
}

func (s *Store) EnvironmentsForTenant(tenantID uint) ([]model.Environment, error) {
	var envs []model.Environment
	err := s.db.Where("tenant_id = ?", tenantID).Order("id asc").Find(&envs).Error
	if err != nil {
		return nil, err
	}
	return envs, nil
}

func (s *Store) Cluster(id, tenantID uint) (*model.Cluster, error) {
	var cluster model.Cluster
	err := s.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&cluster).Error
	if err != nil {
		return nil, err
	}
	return &cluster, nil
}

func (s *Store) Tenant(id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *Store) Tenants() ([]model.Tenant, error) {
	var tenants []model.Tenant
	if err := s.db.Order("id asc").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (s *Store) CreateTopicRequest(req *model.TopicRequest) error {
	return s.db.Create(req).Error
}

// ApproveTopicRequest marks a request approved and materializes the topic
// record it describes, in one transaction.
func (s *Store) ApproveTopicRequest(id uint, approver string) (*model.Topic, error) {
	var topic *model.Topic
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request model.TopicRequest
		if err := tx.First(&request, id).Error; err != nil {
			return fmt.Errorf("request %d: %w", id, err)
		}
		if request.Status == model.RequestStatusApproved {
			return errors.New("request already approved")
		}

		request.Status = model.RequestStatusApproved
		request.Approver = approver
		if err := tx.Save(&request).Error; err != nil {
			return err
		}

		topic = &model.Topic{
			Name:              request.Name,
			EnvironmentID:     request.EnvironmentID,
			Partitions:        request.Partitions,
			ReplicationFactor: request.ReplicationFactor,
			TeamID:            request.TeamID,
			TenantID:          request.TenantID,
			Description:       "Topic description",
		}
		return tx.Save(topic).Error
	})
	if err != nil {
		return nil, err
	}
	return topic, nil
}
