package model

import "time"

// Environment status values
const (
	EnvStatusOnline  = "ONLINE"
	EnvStatusOffline = "OFFLINE"
)

// Environment is a tenant-scoped logical environment backed by one Kafka
// cluster, carrying the naming and sizing policy applied to its topics.
// Exactly one of prefix/suffix or regex is active, selected by ApplyRegex.
type Environment struct {
	ID                   uint      `json:"id" gorm:"primarykey"`
	Name                 string    `json:"name" gorm:"type:varchar(100);not null"`
	TenantID             uint      `json:"tenant_id" gorm:"index;not null"`
	ClusterID            uint      `json:"cluster_id" gorm:"not null"`
	Status               string    `json:"status" gorm:"type:varchar(16);default:'ONLINE'"`
	PolicyEnabled        bool      `json:"policy_enabled" gorm:"default:false"`
	TopicPrefix          string    `json:"topic_prefix" gorm:"type:varchar(100)"`
	TopicSuffix          string    `json:"topic_suffix" gorm:"type:varchar(100)"`
	TopicRegex           string    `json:"topic_regex" gorm:"type:varchar(255)"`
	ApplyRegex           bool      `json:"apply_regex" gorm:"default:false"`
	MaxPartitions        int       `json:"max_partitions"`
	MaxReplicationFactor int       `json:"max_replication_factor"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Cluster holds the connection details of a live Kafka cluster
type Cluster struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	Name             string    `json:"name" gorm:"type:varchar(100);not null"`
	BootstrapServers string    `json:"bootstrap_servers" gorm:"type:varchar(500);not null"`
	TenantID         uint      `json:"tenant_id" gorm:"index;not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
