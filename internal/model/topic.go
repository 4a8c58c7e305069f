package model

import (
	"time"
)

// Topic is the system-of-record entry for an owned topic. A topic name is
// unique per environment within a tenant; TeamID 0 means unowned.
type Topic struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	Name              string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_topic_name_env_tenant"`
	EnvironmentID     uint      `json:"environment_id" gorm:"not null;uniqueIndex:idx_topic_name_env_tenant"`
	Partitions        int       `json:"partitions"`
	ReplicationFactor int       `json:"replication_factor"`
	TeamID            uint      `json:"team_id" gorm:"index"`
	TenantID          uint      `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_topic_name_env_tenant"`
	Description       string    `json:"description" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Topic request operation and status values
const (
	RequestOperationCreate = "CREATE"

	RequestStatusCreated  = "CREATED"
	RequestStatusApproved = "APPROVED"
)

// TopicRequest is a formal change request for a topic definition. Sync-back
// files one per cloned topic and approves it immediately.
type TopicRequest struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	Name              string    `json:"name" gorm:"type:varchar(255);not null;index"`
	EnvironmentID     uint      `json:"environment_id" gorm:"not null"`
	Partitions        int       `json:"partitions"`
	ReplicationFactor int       `json:"replication_factor"`
	TeamID            uint      `json:"team_id"`
	TenantID          uint      `json:"tenant_id" gorm:"index;not null"`
	Operation         string    `json:"operation" gorm:"type:varchar(32);not null"`
	Status            string    `json:"status" gorm:"type:varchar(32);not null"`
	Requestor         string    `json:"requestor" gorm:"type:varchar(255)"`
	Approver          string    `json:"approver" gorm:"type:varchar(255)"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
