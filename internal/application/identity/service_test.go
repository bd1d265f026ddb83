package identity

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindBySubject(ctx context.Context, subjectID string) (*user.User, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserStore) UpdateTier(ctx context.Context, userID string, tier user.Tier) error {
	args := m.Called(ctx, userID, tier)
	return args.Error(0)
}

func (m *MockUserStore) DefaultRoleID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newTestService(t *testing.T) (*IdentityService, *MockUserStore) {
	users := &MockUserStore{}
	svc := NewIdentityService(users, zaptest.NewLogger(t))
	return svc.(*IdentityService), users
}

func freeSession() *user.Session {
	return &user.Session{
		SubjectID: "subj_1",
		Email:     "ada.lovelace@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Plan:      "free_user",
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("nil session is unauthorized", func(t *testing.T) {
		svc, users := newTestService(t)

		_, err := svc.Resolve(ctx, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeUnauthorized))
		users.AssertNotCalled(t, "FindBySubject", mock.Anything, mock.Anything)
	})

	t.Run("known subject returns the stored user", func(t *testing.T) {
		svc, users := newTestService(t)
		stored := &user.User{ID: "7", SubjectID: "subj_1", Tier: user.TierFree}
		users.On("FindBySubject", mock.Anything, "subj_1").Return(stored, nil)

		got, err := svc.Resolve(ctx, freeSession())
		require.NoError(t, err)
		assert.Equal(t, "7", got.ID)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "UpdateTier", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tier drift syncs the store", func(t *testing.T) {
		svc, users := newTestService(t)
		stored := &user.User{ID: "7", SubjectID: "subj_1", Tier: user.TierFree}
		users.On("FindBySubject", mock.Anything, "subj_1").Return(stored, nil)
		users.On("UpdateTier", mock.Anything, "7", user.TierPro).Return(nil)

		session := freeSession()
		session.Plan = "pro"

		got, err := svc.Resolve(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, user.TierPro, got.Tier)
		users.AssertExpectations(t)
	})

	t.Run("fresh claim wins even when the sync write fails", func(t *testing.T) {
		svc, users := newTestService(t)
		stored := &user.User{ID: "7", SubjectID: "subj_1", Tier: user.TierFree}
		users.On("FindBySubject", mock.Anything, "subj_1").Return(stored, nil)
		users.On("UpdateTier", mock.Anything, "7", user.TierPro).Return(fmt.Errorf("store unavailable"))

		session := freeSession()
		session.Plan = "pro"

		got, err := svc.Resolve(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, user.TierPro, got.Tier)
	})

	t.Run("unknown subject is provisioned", func(t *testing.T) {
		svc, users := newTestService(t)
		users.On("FindBySubject", mock.Anything, "subj_1").Return(nil, nil)
		users.On("DefaultRoleID", mock.Anything).Return(1, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.SubjectID == "subj_1" &&
				u.Username == "ada.lovelace" &&
				u.Tier == user.TierFree &&
				u.Provisioning != nil &&
				u.Provisioning.Confirmed &&
				!u.Provisioning.Blocked &&
				u.Provisioning.RoleID == 1 &&
				strings.HasPrefix(u.Provisioning.Password, "provider_managed_subj_1_")
		})).Return(&user.User{ID: "9", SubjectID: "subj_1", Username: "ada.lovelace", Tier: user.TierFree}, nil)

		got, err := svc.Resolve(ctx, freeSession())
		require.NoError(t, err)
		assert.Equal(t, "9", got.ID)
		users.AssertExpectations(t)
	})

	t.Run("explicit username is preferred over the email local part", func(t *testing.T) {
		svc, users := newTestService(t)
		users.On("FindBySubject", mock.Anything, "subj_1").Return(nil, nil)
		users.On("DefaultRoleID", mock.Anything).Return(1, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.Username == "ada"
		})).Return(&user.User{ID: "9", Username: "ada"}, nil)

		session := freeSession()
		session.Username = "ada"

		_, err := svc.Resolve(ctx, session)
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("unreachable store fails closed", func(t *testing.T) {
		svc, users := newTestService(t)
		users.On("FindBySubject", mock.Anything, "subj_1").Return(nil, fmt.Errorf("connection refused"))

		_, err := svc.Resolve(ctx, freeSession())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
	})

	t.Run("role lookup failure aborts provisioning", func(t *testing.T) {
		svc, users := newTestService(t)
		users.On("FindBySubject", mock.Anything, "subj_1").Return(nil, nil)
		users.On("DefaultRoleID", mock.Anything).Return(0, fmt.Errorf("roles endpoint down"))

		_, err := svc.Resolve(ctx, freeSession())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeExternalServiceError))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
