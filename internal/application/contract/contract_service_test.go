package contract

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/helpdesk/backend/internal/domain/activity"
	"github.com/helpdesk/backend/internal/domain/contract"
	"github.com/helpdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type contractFixture struct {
	contracts  *mockContractRepository
	activities *mockActivityRepository
	cache      *mockCatalogCache
	storage    *mockObjectStorage
	service    *Service
}

func newContractFixture() *contractFixture {
	f := &contractFixture{
		contracts:  new(mockContractRepository),
		activities: new(mockActivityRepository),
		cache:      new(mockCatalogCache),
		storage:    new(mockObjectStorage),
	}
	f.service = NewService(f.contracts, f.activities, f.cache, f.storage, zap.NewNop())
	return f
}

func TestService_CreateContract(t *testing.T) {
	tenantID := uuid.New()
	adminID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("saves, invalidates the catalog and records activity", func(t *testing.T) {
		f := newContractFixture()

		f.contracts.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Invalidate", mock.Anything, tenantID).Return(nil)
		f.activities.On("Append", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
			return e.ActionType == activity.ActionContractCreated && e.TenantID == tenantID
		})).Return(nil)

		c, err := f.service.CreateContract(context.Background(), tenantID, adminID, CreateContractInput{
			Title:     "Support Agreement 2024",
			StartDate: start,
			EndDate:   end,
			Items: []contract.Item{
				{ID: "item1x1", Text: "5 tickets per month", Type: contract.ItemTypeLimit, Value: 5},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Support Agreement 2024", c.Title)
		assert.Equal(t, contract.SummaryVersion, c.Summary.Version)

		f.cache.AssertCalled(t, "Invalidate", mock.Anything, tenantID)
		f.activities.AssertCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		f := newContractFixture()

		_, err := f.service.CreateContract(context.Background(), tenantID, adminID, CreateContractInput{
			Title:     "Backwards",
			StartDate: end,
			EndDate:   start,
		})
		require.Error(t, err)
		f.contracts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("cache invalidation failure does not fail creation", func(t *testing.T) {
		f := newContractFixture()

		f.contracts.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Invalidate", mock.Anything, tenantID).Return(assert.AnError)
		f.activities.On("Append", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.CreateContract(context.Background(), tenantID, adminID, CreateContractInput{
			Title:     "Support Agreement 2024",
			StartDate: start,
			EndDate:   end,
		})
		require.NoError(t, err)
	})
}

func TestService_UpdateContract(t *testing.T) {
	tenantID := uuid.New()
	adminID := uuid.New()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	existing := func(t *testing.T) *contract.Contract {
		t.Helper()
		c, err := contract.NewContract(tenantID, adminID, "Support Agreement", start, end, []contract.Item{
			{ID: "item1x1", Text: "5 tickets per month", Type: contract.ItemTypeLimit, Value: 5},
		})
		require.NoError(t, err)
		return c
	}

	t.Run("items are replaced wholesale", func(t *testing.T) {
		f := newContractFixture()
		c := existing(t)

		f.contracts.On("FindByIDForTenant", mock.Anything, tenantID, c.ID).Return(c, nil)
		f.contracts.On("Save", mock.Anything, c).Return(nil)
		f.cache.On("Invalidate", mock.Anything, tenantID).Return(nil)
		f.activities.On("Append", mock.Anything, mock.Anything).Return(nil)

		items := []contract.Item{
			{ID: "item2x1", Text: "10 tickets per month", Type: contract.ItemTypeLimit, Value: 10},
			{ID: "item2x2", Text: "Unlimited remote support", Type: contract.ItemTypeUnlimited},
		}
		updated, err := f.service.UpdateContract(context.Background(), tenantID, adminID, c.ID, UpdateContractInput{
			Items: &items,
		})
		require.NoError(t, err)
		require.Len(t, updated.Summary.Items, 2)
		assert.Equal(t, "item2x1", updated.Summary.Items[0].ID)
	})

	t.Run("nil fields leave the contract untouched", func(t *testing.T) {
		f := newContractFixture()
		c := existing(t)

		f.contracts.On("FindByIDForTenant", mock.Anything, tenantID, c.ID).Return(c, nil)
		f.contracts.On("Save", mock.Anything, c).Return(nil)
		f.cache.On("Invalidate", mock.Anything, tenantID).Return(nil)
		f.activities.On("Append", mock.Anything, mock.Anything).Return(nil)

		updated, err := f.service.UpdateContract(context.Background(), tenantID, adminID, c.ID, UpdateContractInput{})
		require.NoError(t, err)
		assert.Equal(t, "Support Agreement", updated.Title)
		require.Len(t, updated.Summary.Items, 1)
	})

	t.Run("unknown contract", func(t *testing.T) {
		f := newContractFixture()
		id := uuid.New()

		f.contracts.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.UpdateContract(context.Background(), tenantID, adminID, id, UpdateContractInput{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ParseItems(t *testing.T) {
	f := newContractFixture()

	items := f.service.ParseItems("5 tickets per month\nUnlimited remote support")
	require.Len(t, items, 2)
	assert.Equal(t, contract.ItemTypeLimit, items[0].Type)
	assert.Equal(t, 5, items[0].Value)
	assert.Equal(t, contract.ItemTypeUnlimited, items[1].Type)
}

func TestService_UploadPDF(t *testing.T) {
	tenantID := uuid.New()
	adminID := uuid.New()

	t.Run("stores the document and records its URL", func(t *testing.T) {
		f := newContractFixture()
		c, err := contract.NewContract(tenantID, adminID, "Support Agreement",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil)
		require.NoError(t, err)

		key := "tenants/" + tenantID.String() + "/contracts/" + c.ID.String() + "/contract.pdf"
		f.contracts.On("FindByIDForTenant", mock.Anything, tenantID, c.ID).Return(c, nil)
		f.storage.On("Upload", mock.Anything, key, "application/pdf", mock.Anything, int64(8)).Return(nil)
		f.storage.On("PresignDownload", mock.Anything, key).Return("https://bucket/"+key, nil)
		f.contracts.On("Save", mock.Anything, c).Return(nil)

		updated, err := f.service.UploadPDF(context.Background(), tenantID, adminID, c.ID, 8, strings.NewReader("pdfbytes"))
		require.NoError(t, err)
		assert.Equal(t, "https://bucket/"+key, updated.PDFURL)
	})

	t.Run("upload failure leaves the contract unsaved", func(t *testing.T) {
		f := newContractFixture()
		c, err := contract.NewContract(tenantID, adminID, "Support Agreement",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil)
		require.NoError(t, err)

		f.contracts.On("FindByIDForTenant", mock.Anything, tenantID, c.ID).Return(c, nil)
		f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError)

		_, err = f.service.UploadPDF(context.Background(), tenantID, adminID, c.ID, 8, strings.NewReader("pdfbytes"))
		require.Error(t, err)
		f.contracts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
