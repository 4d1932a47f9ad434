package ticket

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxMessageLength is the longest accepted message body
const MaxMessageLength = 10000

// Message is one entry in a ticket's conversation. Internal notes are only
// visible to admin roles.
type Message struct {
	shared.BaseEntity
	TicketID       uuid.UUID
	AuthorID       uuid.UUID
	Content        string
	IsInternalNote bool
}

// NewMessage creates a message on a ticket
func NewMessage(ticketID, authorID uuid.UUID, content string, internalNote bool) (*Message, error) {
	if err := ValidateMessageContent(content); err != nil {
		return nil, err
	}
	return &Message{
		BaseEntity:     shared.NewBaseEntity(),
		TicketID:       ticketID,
		AuthorID:       authorID,
		Content:        content,
		IsInternalNote: internalNote,
	}, nil
}

// ValidateMessageContent enforces the message body rules
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Message content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Message content must be %d characters or less", MaxMessageLength))
	}
	return nil
}
