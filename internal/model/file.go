package model

import (
	"gorm.io/gorm"
)

// Upload lifecycle states. DuplicateSkipped is terminal: the record of the
// first upload stays authoritative and the re-upload is never stored.
const (
	StatusReceived         = "received"
	StatusStored           = "stored"
	StatusQueued           = "queued"
	StatusParsing          = "parsing"
	StatusProcessed        = "processed"
	StatusDuplicateSkipped = "duplicate-skipped"
)

// UploadedFile is the metadata record for one uploaded document.
// (company_id, file_name, checksum) is the dedupe key.
type UploadedFile struct {
	gorm.Model
	FileName    string `gorm:"type:text;not null;uniqueIndex:idx_uploaded_files_dedupe,priority:2"`
	CompanyID   uint   `gorm:"not null;index;uniqueIndex:idx_uploaded_files_dedupe,priority:1"`
	Checksum    string `gorm:"type:text;not null;uniqueIndex:idx_uploaded_files_dedupe,priority:3"` // sha256 hex
	StoragePath string `gorm:"type:text"`
	Status      string `gorm:"type:text;not null;default:'received';index"`
	Processed   bool   `gorm:"not null;default:false"`

	// Contract metadata, denormalized into search responses
	ContractTitle string `gorm:"type:text"`
	CustomerName  string `gorm:"type:text"`
	ContractValue int64
	CurrencyType  string `gorm:"type:text;not null;default:'USD'"`
}
