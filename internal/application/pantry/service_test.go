package pantry

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockPantryStore struct {
	mock.Mock
}

func (m *MockPantryStore) ListByOwner(ctx context.Context, ownerID string) ([]*pantry.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pantry.Item), args.Error(1)
}

func (m *MockPantryStore) Create(ctx context.Context, item *pantry.Item) (*pantry.Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pantry.Item), args.Error(1)
}

func (m *MockPantryStore) Update(ctx context.Context, id string, name, quantity string) (*pantry.Item, error) {
	args := m.Called(ctx, id, name, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pantry.Item), args.Error(1)
}

func (m *MockPantryStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVisionModel struct {
	mock.Mock
}

func (m *MockVisionModel) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	args := m.Called(ctx, prompt, image, mimeType)
	return args.String(0), args.Error(1)
}

type MockQuotaGate struct {
	mock.Mock
}

func (m *MockQuotaGate) Check(ctx context.Context, userKey string, tier user.Tier, class outbound.OperationClass) (outbound.Decision, error) {
	args := m.Called(ctx, userKey, tier, class)
	return args.Get(0).(outbound.Decision), args.Error(1)
}

func newTestService(t *testing.T) (*PantryService, *MockPantryStore, *MockVisionModel, *MockQuotaGate) {
	items := &MockPantryStore{}
	vision := &MockVisionModel{}
	quota := &MockQuotaGate{}
	svc := NewPantryService(items, vision, quota, zaptest.NewLogger(t))
	return svc.(*PantryService), items, vision, quota
}

func freeUser() *user.User {
	return &user.User{ID: "7", SubjectID: "subj_1", Tier: user.TierFree}
}

func allowed(limit int) outbound.Decision {
	return outbound.Decision{Allowed: true, Limit: limit}
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	image := []byte{0xff, 0xd8, 0xff}

	t.Run("denied scan never reaches the vision model", func(t *testing.T) {
		svc, _, vision, quota := newTestService(t)
		quota.On("Check", mock.Anything, "subj_1", user.TierFree, outbound.ClassPantryScan).
			Return(outbound.Decision{Allowed: false, Reason: outbound.DenyRateLimit, Limit: 10}, nil)

		_, err := svc.Scan(ctx, freeUser(), image, "image/jpeg")
		require.Error(t, err)

		assert.True(t, errors.Is(err, errors.CodeQuotaExceeded))
		assert.Equal(t, "Monthly scan limit reached. Upgrade to Pro for unlimited scans!", err.(*errors.AppError).Message)
		vision.AssertNotCalled(t, "Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("policy denial maps to forbidden", func(t *testing.T) {
		svc, _, _, quota := newTestService(t)
		quota.On("Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(outbound.Decision{Allowed: false, Reason: outbound.DenyPolicy}, nil)

		_, err := svc.Scan(ctx, freeUser(), image, "image/jpeg")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeForbidden))
		assert.Equal(t, "Request denied by security system", err.(*errors.AppError).Message)
	})

	t.Run("pro denial points at support", func(t *testing.T) {
		svc, _, _, quota := newTestService(t)
		pro := &user.User{ID: "8", SubjectID: "subj_2", Tier: user.TierPro}
		quota.On("Check", mock.Anything, "subj_2", user.TierPro, outbound.ClassPantryScan).
			Return(outbound.Decision{Allowed: false, Reason: outbound.DenyRateLimit, Limit: 1000}, nil)

		_, err := svc.Scan(ctx, pro, image, "image/jpeg")
		require.Error(t, err)
		assert.Contains(t, err.(*errors.AppError).Message, "contact support")
	})

	t.Run("successful scan returns parsed guesses", func(t *testing.T) {
		svc, _, vision, quota := newTestService(t)
		quota.On("Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(allowed(10), nil)
		vision.On("Describe", mock.Anything, mock.Anything, image, "image/jpeg").
			Return("```json\n[{\"name\": \"Eggs\", \"quantity\": \"6\", \"confidence\": 0.98}]\n```", nil)

		got, err := svc.Scan(ctx, freeUser(), image, "image/jpeg")
		require.NoError(t, err)

		assert.True(t, got.Success)
		require.Len(t, got.Ingredients, 1)
		assert.Equal(t, "Eggs", got.Ingredients[0].Name)
		assert.Equal(t, "10", got.ScansLimit)
		assert.Equal(t, "Found 1 ingredients!", got.Message)
	})

	t.Run("vision output is capped at the scan limit", func(t *testing.T) {
		svc, _, vision, quota := newTestService(t)
		quota.On("Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(allowed(10), nil)

		guesses := make([]pantry.Guess, 25)
		for i := range guesses {
			guesses[i] = pantry.Guess{Name: fmt.Sprintf("item-%d", i), Quantity: "1", Confidence: 0.9}
		}
		raw, err := json.Marshal(guesses)
		require.NoError(t, err)
		vision.On("Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(string(raw), nil)

		got, err := svc.Scan(ctx, freeUser(), image, "image/jpeg")
		require.NoError(t, err)
		assert.Len(t, got.Ingredients, pantry.MaxScanItems)
		assert.Equal(t, "item-19", got.Ingredients[len(got.Ingredients)-1].Name)
		assert.Equal(t, "Found 25 ingredients!", got.Message)
	})

	t.Run("empty detection gets a retake message", func(t *testing.T) {
		svc, _, vision, quota := newTestService(t)
		quota.On("Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(allowed(10), nil)
		vision.On("Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("[]", nil)

		_, err := svc.Scan(ctx, freeUser(), image, "image/jpeg")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeModelOutputInvalid))
		assert.Equal(t, "No ingredients detected in the image. Please try a clearer photo.", err.(*errors.AppError).Message)
	})

	t.Run("prose response gets the generic parse message", func(t *testing.T) {
		svc, _, vision, quota := newTestService(t)
		quota.On("Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(allowed(10), nil)
		vision.On("Describe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("I see a fridge with some vegetables.", nil)

		_, err := svc.Scan(ctx, freeUser(), image, "image/jpeg")
		require.Error(t, err)
		assert.Equal(t, "Failed to parse ingredients. Please try again.", err.(*errors.AppError).Message)
	})

	t.Run("missing image is a validation error", func(t *testing.T) {
		svc, _, _, quota := newTestService(t)

		_, err := svc.Scan(ctx, freeUser(), nil, "")
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
		quota.AssertNotCalled(t, "Check", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("one failed item does not abort the batch", func(t *testing.T) {
		svc, items, _, _ := newTestService(t)

		items.On("Create", mock.Anything, mock.MatchedBy(func(it *pantry.Item) bool {
			return it.Name == "Eggs" && it.OwnerID == "7"
		})).Return(&pantry.Item{ID: "1", Name: "Eggs"}, nil)
		items.On("Create", mock.Anything, mock.MatchedBy(func(it *pantry.Item) bool {
			return it.Name == "Milk"
		})).Return(nil, fmt.Errorf("store unavailable"))
		items.On("Create", mock.Anything, mock.MatchedBy(func(it *pantry.Item) bool {
			return it.Name == "Flour"
		})).Return(&pantry.Item{ID: "3", Name: "Flour"}, nil)

		result, err := svc.Commit(ctx, freeUser(), []pantry.Guess{
			{Name: "Eggs", Quantity: "6"},
			{Name: "Milk", Quantity: "1L"},
			{Name: "Flour", Quantity: "500g"},
		})
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Len(t, result.SavedItems, 2)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "Milk", result.Failed[0].Name)
		assert.Equal(t, "Saved 2 items to your pantry!", result.Message)
	})

	t.Run("empty guess list is a validation error", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.Commit(ctx, freeUser(), nil)
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	})
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("trims input before storing", func(t *testing.T) {
		svc, items, _, _ := newTestService(t)
		items.On("Create", mock.Anything, mock.MatchedBy(func(it *pantry.Item) bool {
			return it.Name == "Olive Oil" && it.Quantity == "500ml"
		})).Return(&pantry.Item{ID: "9", Name: "Olive Oil", Quantity: "500ml"}, nil)

		item, err := svc.Add(ctx, freeUser(), "  Olive Oil  ", " 500ml ")
		require.NoError(t, err)
		assert.Equal(t, "9", item.ID)
	})

	t.Run("blank name or quantity rejected", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.Add(ctx, freeUser(), "   ", "1")
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))

		_, err = svc.Add(ctx, freeUser(), "Eggs", "")
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	})
}

func TestList(t *testing.T) {
	t.Run("nil store result becomes an empty slice", func(t *testing.T) {
		svc, items, _, _ := newTestService(t)
		items.On("ListByOwner", mock.Anything, "7").Return([]*pantry.Item(nil), nil)

		result, err := svc.List(context.Background(), freeUser())
		require.NoError(t, err)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.Equal(t, "10", result.ScansLimit)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update requires an item id", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		_, err := svc.Update(ctx, freeUser(), "", "Eggs", "12")
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	})

	t.Run("delete passes through to the store", func(t *testing.T) {
		svc, items, _, _ := newTestService(t)
		items.On("Delete", mock.Anything, "5").Return(nil)

		require.NoError(t, svc.Delete(ctx, freeUser(), "5"))
		items.AssertExpectations(t)
	})
}
