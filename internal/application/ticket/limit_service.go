package ticket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LimitCheckResult reports whether one more ticket may be created against a
// contract item right now. Message is only populated on denial.
type LimitCheckResult struct {
	Allowed      bool                 `json:"allowed"`
	CurrentCount int64                `json:"current_count"`
	Limit        int                  `json:"limit"`
	Period       contract.LimitPeriod `json:"period"`
	Message      string               `json:"message,omitempty"`
}

// LimitExceededError is the business-rule denial returned when a contract
// item's quota is used up. It is an expected outcome, not a system failure,
// and maps to HTTP 422 so UIs can render it inline.
type LimitExceededError struct {
	Ref          contract.ItemRef
	CurrentCount int64
	Limit        int
	Period       contract.LimitPeriod
	Message      string
}

// Error implements the error interface
func (e *LimitExceededError) Error() string {
	return e.Message
}

// HTTPStatusCode returns the HTTP status for this error
func (e *LimitExceededError) HTTPStatusCode() int {
	return http.StatusUnprocessableEntity
}

// newLimitExceededError builds the denial with the user-facing message
func newLimitExceededError(ref contract.ItemRef, count int64, limit int, period contract.LimitPeriod) *LimitExceededError {
	return &LimitExceededError{
		Ref:          ref,
		CurrentCount: count,
		Limit:        limit,
		Period:       period,
		Message:      limitReachedMessage(count, limit, period),
	}
}

func limitReachedMessage(count int64, limit int, period contract.LimitPeriod) string {
	return fmt.Sprintf("Limit reached: %d/%d tickets for this %s period.", count, limit, period)
}

// LimitService decides whether creating one more ticket against a contract
// item is permitted. Every check re-queries the store; limits gate a
// low-frequency, high-stakes action, so correctness beats latency here.
type LimitService struct {
	contracts contract.Repository
	tickets   ticket.Repository
	logger    *zap.Logger
}

// NewLimitService creates a LimitService
func NewLimitService(contracts contract.Repository, tickets ticket.Repository, logger *zap.Logger) *LimitService {
	return &LimitService{
		contracts: contracts,
		tickets:   tickets,
		logger:    logger,
	}
}

// CheckLimitRef evaluates the limit for an already-decoded reference
func (s *LimitService) CheckLimitRef(ctx context.Context, tenantID uuid.UUID, ref contract.ItemRef, now time.Time) (*LimitCheckResult, error) {
	if ref.IsZero() {
		return nil, shared.ErrInvalidReference
	}

	c, err := s.contracts.FindByIDForTenant(ctx, tenantID, ref.ContractID)
	if err != nil {
		return nil, err
	}

	item, found := c.FindItem(ref.ItemID)
	if !found {
		return nil, shared.ErrNotFound
	}

	// Non-limit items and limit items without a positive value are never
	// enforced.
	if !item.HasEnforceableLimit() {
		return &LimitCheckResult{
			Allowed:      true,
			CurrentCount: 0,
			Limit:        0,
			Period:       contract.PeriodMonthly,
		}, nil
	}

	period := item.EffectivePeriod()
	periodStart := contract.PeriodStart(period, now)

	// Counting is by creation time: closed tickets still consume quota.
	count, err := s.tickets.CountByContractItemSince(ctx, tenantID, ref, periodStart)
	if err != nil {
		return nil, err
	}

	result := &LimitCheckResult{
		Allowed:      count < int64(item.Value),
		CurrentCount: count,
		Limit:        item.Value,
		Period:       period,
	}
	if !result.Allowed {
		result.Message = limitReachedMessage(count, item.Value, period)
		s.logger.Info("Contract item limit reached",
			zap.String("tenant_id", tenantID.String()),
			zap.String("contract_item", ref.String()),
			zap.Int64("current_count", count),
			zap.Int("limit", item.Value))
	}
	return result, nil
}

// CheckLimit evaluates the limit for an encoded reference string, failing
// with shared.ErrInvalidReference when the string form is malformed.
func (s *LimitService) CheckLimit(ctx context.Context, tenantID uuid.UUID, encodedRef string, now time.Time) (*LimitCheckResult, error) {
	ref, err := contract.ParseItemRef(encodedRef)
	if err != nil {
		return nil, err
	}
	return s.CheckLimitRef(ctx, tenantID, ref, now)
}
