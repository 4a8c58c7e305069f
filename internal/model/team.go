package model

import "time"

// Team owns zero or more recorded topics within a tenant
type Team struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_team_name_tenant"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_team_name_tenant"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tenant scopes teams, environments and recorded topics. BaseSyncEnvID is
// the environment ownership must originate from before a topic can be
// promoted elsewhere; OrderOfEnvs is the comma-separated promotion order of
// environment ids.
type Tenant struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	Name          string    `json:"name" gorm:"type:varchar(100);not null;unique"`
	AdminEmail    string    `json:"admin_email" gorm:"type:varchar(255)"`
	BaseSyncEnvID uint      `json:"base_sync_env_id"`
	OrderOfEnvs   string    `json:"order_of_envs" gorm:"type:varchar(255)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
