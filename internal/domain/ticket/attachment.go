package ticket

import (
	"strings"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Attachment is a file uploaded to a ticket. The binary content lives in
// object storage under StorageKey; this record only carries the metadata.
type Attachment struct {
	shared.BaseEntity
	TicketID    uuid.UUID
	UploadedBy  uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
}

// NewAttachment creates attachment metadata for an uploaded file
func NewAttachment(ticketID, uploadedBy uuid.UUID, fileName, contentType string, sizeBytes int64, storageKey string) (*Attachment, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Attachment file name is required")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Attachment cannot be empty")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Attachment storage key is required")
	}
	return &Attachment{
		BaseEntity:  shared.NewBaseEntity(),
		TicketID:    ticketID,
		UploadedBy:  uploadedBy,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		StorageKey:  storageKey,
	}, nil
}
