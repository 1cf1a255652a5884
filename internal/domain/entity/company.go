package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a registered business in the VAT registry mirror, keyed by its
// 13-digit tax ID. Seller verification resolves sellers through this table.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TaxID     string    `gorm:"size:13;uniqueIndex;not null" json:"tax_id"`
	Name      string    `gorm:"size:512;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
