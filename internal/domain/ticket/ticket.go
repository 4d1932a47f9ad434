package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxTitleLength is the longest accepted ticket title
const MaxTitleLength = 200

// Status represents the lifecycle state of a ticket
type Status string

const (
	// StatusOpen is the state of every newly created ticket
	StatusOpen Status = "open"

	// StatusInProgress means someone is actively working the ticket
	StatusInProgress Status = "in_progress"

	// StatusWaiting means the ticket is blocked on the reporter
	StatusWaiting Status = "waiting"

	// StatusClosed is terminal
	StatusClosed Status = "closed"
)

// IsValid returns true if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusWaiting, StatusClosed:
		return true
	}
	return false
}

// validTransitions maps each status to the statuses it may move to.
// Closed tickets never transition.
var validTransitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusWaiting, StatusClosed},
	StatusInProgress: {StatusWaiting, StatusClosed},
	StatusWaiting:    {StatusInProgress, StatusClosed},
	StatusClosed:     {},
}

// CanTransitionTo reports whether moving to next is a legal status change
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Priority represents how urgent a ticket is
type Priority string

const (
	// PriorityLow is for non-blocking requests
	PriorityLow Priority = "low"

	// PriorityMedium is the default
	PriorityMedium Priority = "medium"

	// PriorityHigh is for significant impairments
	PriorityHigh Priority = "high"

	// PriorityUrgent is for outages
	PriorityUrgent Priority = "urgent"
)

// IsValid returns true if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Ticket is a support request raised by a tenant user. When it consumes a
// contract entitlement, ContractItemRef points at the consumed item; the
// reference is set at creation time and immutable afterwards.
type Ticket struct {
	shared.TenantAggregateRoot
	Title           string
	Status          Status
	Priority        Priority
	ContractItemRef *contract.ItemRef
	ResolvedAt      *time.Time
}

// NewTicket creates an open ticket. An empty priority defaults to medium.
func NewTicket(tenantID, createdBy uuid.UUID, title string, priority Priority, ref *contract.ItemRef) (*Ticket, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown priority %q", priority))
	}

	return &Ticket{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Title:               strings.TrimSpace(title),
		Status:              StatusOpen,
		Priority:            priority,
		ContractItemRef:     ref,
	}, nil
}

// ValidateTitle enforces the title rules shared by create and update
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Ticket title is required")
	}
	// Length limits are in characters, not bytes, so multi-byte titles
	// count the same here as in the request binding.
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Ticket title must be %d characters or less", MaxTitleLength))
	}
	return nil
}

// TransitionTo moves the ticket to a new status, stamping ResolvedAt on
// close. Illegal transitions fail without mutating the ticket.
func (t *Ticket) TransitionTo(next Status) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown status %q", next))
	}
	if !t.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition from %s to %s", t.Status, next))
	}
	if next == t.Status {
		return nil
	}

	t.Status = next
	now := time.Now()
	if next == StatusClosed {
		t.ResolvedAt = &now
	}
	t.UpdatedAt = now
	return nil
}

// SetPriority changes the ticket's priority
func (t *Ticket) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown priority %q", p))
	}
	t.Priority = p
	t.UpdatedAt = time.Now()
	return nil
}

// Rename changes the ticket's title
func (t *Ticket) Rename(title string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	t.Title = strings.TrimSpace(title)
	t.UpdatedAt = time.Now()
	return nil
}
