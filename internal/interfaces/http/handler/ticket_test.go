package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ticketapp "github.com/helpdesk/backend/internal/application/ticket"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/domain/ticket"
	"github.com/helpdesk/backend/internal/interfaces/http/dto"
	"github.com/helpdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// injectClaims simulates an authenticated request without a real token
func injectClaims(tenantID, userID uuid.UUID, role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTTenantIDKey, tenantID.String())
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, string(role))
		c.Next()
	}
}

func newTicketTestRouter(t *testing.T, tickets *fakeTicketRepo, contracts *fakeContractRepo, tenantID, userID uuid.UUID, role identity.Role) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	limits := ticketapp.NewLimitService(contracts, tickets, logger)
	svc := ticketapp.NewService(tickets, contracts, fakeUserRepo{}, fakeTenantRepo{}, fakeActivityRepo{},
		limits, fakeNotifier{}, newFakeStorage(), logger)

	r := gin.New()
	r.Use(injectClaims(tenantID, userID, role))
	api := r.Group("/api/v1")
	NewTicketHandler(svc, limits).RegisterRoutes(api)
	return r
}

// limitedContract builds an active contract with one limited item
func limitedContract(t *testing.T, tenantID uuid.UUID, limit int) (contract.Contract, string) {
	t.Helper()

	items := []contract.Item{{
		ID:    "item-1",
		Text:  "5 tickets per month",
		Type:  contract.ItemTypeLimit,
		Value: limit,
	}}
	c, err := contract.NewContract(tenantID, uuid.New(), "Support Agreement",
		time.Now().Add(-48*time.Hour), time.Now().Add(30*24*time.Hour), items)
	require.NoError(t, err)

	ref := contract.ItemRef{ContractID: c.ID, ItemID: "item-1"}
	return *c, ref.String()
}

func TestCreateTicketWithoutContractItem(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()
	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(CreateTicketRequest{
		Title:          "Printer on fire",
		Priority:       "high",
		InitialMessage: "It is actually on fire.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, tickets.created, 1)
	assert.Empty(t, tickets.createdWithLimit)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Printer on fire", data["title"])
	assert.Equal(t, "open", data["status"])
	assert.Equal(t, "high", data["priority"])
}

func TestCreateTicketOthersSentinelSkipsLimit(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()
	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(CreateTicketRequest{Title: "General question", ContractItemID: "others"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, tickets.created, 1)
	assert.Nil(t, tickets.created[0].ContractItemRef)
}

func TestCreateTicketWithinLimit(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	c, encodedRef := limitedContract(t, tenantID, 5)

	tickets := newFakeTicketRepo()
	tickets.countSince = 2
	r := newTicketTestRouter(t, tickets, &fakeContractRepo{contracts: []contract.Contract{c}}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(CreateTicketRequest{Title: "Need support", ContractItemID: encodedRef})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, tickets.createdWithLimit, 1)
	require.NotNil(t, tickets.createdWithLimit[0].ContractItemRef)
	assert.Equal(t, encodedRef, tickets.createdWithLimit[0].ContractItemRef.String())
}

func TestCreateTicketLimitExceeded(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	c, encodedRef := limitedContract(t, tenantID, 5)

	tickets := newFakeTicketRepo()
	tickets.countSince = 5
	r := newTicketTestRouter(t, tickets, &fakeContractRepo{contracts: []contract.Contract{c}}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(CreateTicketRequest{Title: "One too many", ContractItemID: encodedRef})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, tickets.created)
	assert.Empty(t, tickets.createdWithLimit)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeLimitExceeded, resp.Error.Code)
	assert.Equal(t, "Limit reached: 5/5 tickets for this monthly period.", resp.Error.Message)
}

func TestCreateTicketMalformedReference(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	r := newTicketTestRouter(t, newFakeTicketRepo(), &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(CreateTicketRequest{Title: "Broken ref", ContractItemID: "not-a-reference"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTicketMissingTitle(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	r := newTicketTestRouter(t, newFakeTicketRepo(), &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", bytes.NewReader([]byte(`{"priority":"low"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTicketsPagination(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()

	t1, err := ticket.NewTicket(tenantID, userID, "First", ticket.PriorityMedium, nil)
	require.NoError(t, err)
	t2, err := ticket.NewTicket(tenantID, userID, "Second", ticket.PriorityLow, nil)
	require.NoError(t, err)
	tickets.listResult = []ticket.Ticket{*t1, *t2}
	tickets.listTotal = 42

	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 5, resp.Meta.TotalPages)
}

func TestListTicketsRejectsZeroPage(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	r := newTicketTestRouter(t, newFakeTicketRepo(), &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	for _, query := range []string{"page=0", "page_size=0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets?"+query, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestListTicketsRejectsUnknownStatus(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	r := newTicketTestRouter(t, newFakeTicketRepo(), &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets?status=exploded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTicketNotFound(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	r := newTicketTestRouter(t, newFakeTicketRepo(), &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTicketStatusTransition(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()

	existing, err := ticket.NewTicket(tenantID, userID, "Slow VPN", ticket.PriorityMedium, nil)
	require.NoError(t, err)
	tickets.byID[existing.ID] = existing

	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantAdmin)

	body := []byte(`{"status":"in_progress","priority":"urgent"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tickets/"+existing.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "in_progress", data["status"])
	assert.Equal(t, "urgent", data["priority"])
}

func TestUpdateTicketIllegalTransition(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()

	existing, err := ticket.NewTicket(tenantID, userID, "Done deal", ticket.PriorityMedium, nil)
	require.NoError(t, err)
	require.NoError(t, existing.TransitionTo(ticket.StatusClosed))
	tickets.byID[existing.ID] = existing

	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantAdmin)

	body := []byte(`{"status":"open"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tickets/"+existing.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListMessagesHidesInternalNotesFromUsers(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()

	existing, err := ticket.NewTicket(tenantID, userID, "Mailbox full", ticket.PriorityMedium, nil)
	require.NoError(t, err)
	tickets.byID[existing.ID] = existing

	public, err := ticket.NewMessage(existing.ID, userID, "Please clean up your inbox", false)
	require.NoError(t, err)
	internal, err := ticket.NewMessage(existing.ID, userID, "Customer does this every month", true)
	require.NoError(t, err)
	tickets.messages = []ticket.Message{*public, *internal}

	tests := []struct {
		name     string
		role     identity.Role
		expected int
	}{
		{name: "tenant user sees public only", role: identity.RoleTenantUser, expected: 1},
		{name: "tenant admin sees all", role: identity.RoleTenantAdmin, expected: 2},
		{name: "super admin sees all", role: identity.RoleSuperAdmin, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, tt.role)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tickets/"+existing.ID.String()+"/messages", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp.Data.([]interface{}), tt.expected)
		})
	}
}

func TestAddMessageInternalNoteRequiresAdmin(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()

	existing, err := ticket.NewTicket(tenantID, userID, "Flaky wifi", ticket.PriorityMedium, nil)
	require.NoError(t, err)
	tickets.byID[existing.ID] = existing

	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(AddMessageRequest{Content: "secret", IsInternalNote: true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/"+existing.ID.String()+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, tickets.addedMessages)
}

func TestAddMessage(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	tickets := newFakeTicketRepo()

	existing, err := ticket.NewTicket(tenantID, userID, "Flaky wifi", ticket.PriorityMedium, nil)
	require.NoError(t, err)
	tickets.byID[existing.ID] = existing

	r := newTicketTestRouter(t, tickets, &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	body, _ := json.Marshal(AddMessageRequest{Content: "It dropped again at 14:00"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets/"+existing.ID.String()+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, tickets.addedMessages, 1)
	assert.Equal(t, "It dropped again at 14:00", tickets.addedMessages[0].Content)
}

func TestCheckLimitEndpoint(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	c, encodedRef := limitedContract(t, tenantID, 5)

	tickets := newFakeTicketRepo()
	tickets.countSince = 5
	r := newTicketTestRouter(t, tickets, &fakeContractRepo{contracts: []contract.Contract{c}}, tenantID, userID, identity.RoleTenantUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/limit-check?contract_item_id="+encodedRef, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, float64(5), data["current_count"])
	assert.NotEmpty(t, data["message"])
}

func TestCheckLimitOthersAlwaysAllowed(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	r := newTicketTestRouter(t, newFakeTicketRepo(), &fakeContractRepo{}, tenantID, userID, identity.RoleTenantUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/limit-check?contract_item_id=others", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["allowed"])
}
