package contract

import (
	"strings"
	"time"

	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SummaryVersion is the schema version of the persisted item summary
const SummaryVersion = "1.0"

// Summary is the versioned document holding a contract's ordered item list.
// It is persisted as a single jsonb column; items are always replaced
// wholesale, never patched individually.
type Summary struct {
	Version string `json:"version"`
	Items   []Item `json:"items"`
}

// NewSummary creates a summary at the current schema version
func NewSummary(items []Item) Summary {
	if items == nil {
		items = []Item{}
	}
	return Summary{Version: SummaryVersion, Items: items}
}

// Contract is an agreement between a tenant and the service provider.
// Its entitlements live in the item summary; the uploaded source document
// is referenced by PDFURL.
type Contract struct {
	shared.TenantAggregateRoot
	Title     string
	StartDate time.Time
	EndDate   time.Time
	Summary   Summary
	PDFURL    string
}

// NewContract creates a contract for a tenant. Dates are compared date-only,
// so callers may pass any time of day.
func NewContract(tenantID, createdBy uuid.UUID, title string, startDate, endDate time.Time, items []Item) (*Contract, error) {
	title = strings.TrimSpace(title)
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract title cannot be empty")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract end date cannot precede start date")
	}

	return &Contract{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, createdBy),
		Title:               title,
		StartDate:           startDate,
		EndDate:             endDate,
		Summary:             NewSummary(items),
	}, nil
}

// ReplaceItems swaps the entire item list for a new one
func (c *Contract) ReplaceItems(items []Item) {
	c.Summary = NewSummary(items)
	c.UpdatedAt = time.Now()
}

// SetPDFURL records the location of the uploaded contract document
func (c *Contract) SetPDFURL(url string) {
	c.PDFURL = url
	c.UpdatedAt = time.Now()
}

// IsActiveOn reports whether the contract covers the given instant.
// The comparison is date-only and inclusive on both ends, in UTC.
func (c *Contract) IsActiveOn(now time.Time) bool {
	today := toDate(now)
	return !today.Before(toDate(c.StartDate)) && !today.After(toDate(c.EndDate))
}

// FindItem locates an item by id within the summary
func (c *Contract) FindItem(itemID string) (Item, bool) {
	for _, item := range c.Summary.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

func toDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
