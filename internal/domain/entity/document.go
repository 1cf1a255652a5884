package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

// Document is one stored upload together with the denormalized fields pulled
// out of its processing result. The full per-page output lives in ResultJSON;
// the scalar columns exist for listing and querying.
type Document struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_documents_employee_sha,unique" json:"employee_id"`
	MemberName    string           `gorm:"size:255" json:"member_name"`
	OriginalName  string           `gorm:"size:512;not null" json:"original_name"`
	FilePath      string           `gorm:"size:1024;not null" json:"file_path"`
	MimeType      string           `gorm:"size:100;not null" json:"mime_type"`
	FileSizeBytes int64            `gorm:"not null" json:"file_size_bytes"`
	SHA256        string           `gorm:"size:64;not null;column:sha256;index:idx_documents_employee_sha,unique" json:"sha256"`
	VendorName    *string          `gorm:"size:512" json:"vendor_name,omitempty"`
	BuyerName     *string          `gorm:"size:512" json:"buyer_name,omitempty"`
	TaxID         *string          `gorm:"size:32;index" json:"tax_id,omitempty"`
	InvoiceNo     *string          `gorm:"size:128" json:"invoice_no,omitempty"`
	DocDate       *time.Time       `gorm:"type:date" json:"doc_date,omitempty"`
	TotalAmount   *decimal.Decimal `gorm:"type:numeric(18,2)" json:"total_amount,omitempty"`

	DeductionStatus enum.DeductionStatus `gorm:"size:100" json:"deduction_status,omitempty"`
	DeductionReason string               `gorm:"type:text" json:"deduction_reason,omitempty"`

	ResultJSON datatypes.JSON `gorm:"type:jsonb" json:"result_json,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Employee Employee                `gorm:"foreignKey:EmployeeID" json:"-"`
	History  []DocumentResultHistory `gorm:"foreignKey:DocumentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new document
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Document model
func (Document) TableName() string {
	return "documents"
}

// DocumentResultHistory is an append-only trail of pipeline outcomes for a
// document, one row per processing run and stage.
type DocumentResultHistory struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID   uuid.UUID            `gorm:"type:uuid;not null;index" json:"document_id"`
	Stage        string               `gorm:"size:50;not null" json:"stage"`
	ResultJSON   datatypes.JSON       `gorm:"type:jsonb" json:"result_json,omitempty"`
	Status       enum.DeductionStatus `gorm:"size:100" json:"status,omitempty"`
	Reason       string               `gorm:"type:text" json:"reason,omitempty"`
	RulesVersion string               `gorm:"size:32" json:"rules_version,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new history row
func (h *DocumentResultHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DocumentResultHistory model
func (DocumentResultHistory) TableName() string {
	return "document_result_history"
}
