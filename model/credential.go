package model

import (
	"time"
)

type SolisCredential struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id"`
	KeyID     string     `gorm:"column:key_id" json:"key_id"`
	KeySecret string     `gorm:"column:key_secret" json:"key_secret"`
	BaseURL   string     `gorm:"column:base_url" json:"base_url"`
	Owner     string     `gorm:"column:owner" json:"owner"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (*SolisCredential) TableName() string {
	return "tbl_solis_credentials"
}
