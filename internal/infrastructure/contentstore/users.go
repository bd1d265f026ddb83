package contentstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// UserStore implements outbound.UserStore against the content backend's
// users-permissions plugin. Unlike the content types, the users endpoint
// returns bare arrays and takes a flat create payload.
type UserStore struct {
	client *Client
	logger *zap.Logger
}

// NewUserStore creates a new user store
func NewUserStore(client *Client, logger *zap.Logger) outbound.UserStore {
	return &UserStore{
		client: client,
		logger: logger.Named("user-store"),
	}
}

type wireUser struct {
	ID        int       `json:"id"`
	SubjectID string    `json:"subjectId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ImageURL  string    `json:"imageUrl"`
	Tier      string    `json:"subscriptionTier"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w *wireUser) toDomain() *user.User {
	return &user.User{
		ID:        strconv.Itoa(w.ID),
		SubjectID: w.SubjectID,
		Username:  w.Username,
		Email:     w.Email,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		ImageURL:  w.ImageURL,
		Tier:      user.ParseTier(w.Tier),
		CreatedAt: w.CreatedAt,
	}
}

// FindBySubject looks up the user provisioned for an identity-provider
// subject. Returns (nil, nil) when no user exists yet.
func (s *UserStore) FindBySubject(ctx context.Context, subjectID string) (*user.User, error) {
	path := "/api/users?filters[subjectId][$eq]=" + url.QueryEscape(subjectID)

	var users []wireUser
	if err := s.client.do(ctx, "GET", path, nil, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	// First match wins; duplicate rows from a provision race are tolerated.
	return users[0].toDomain(), nil
}

// Create registers a new user. The Provisioning block must be populated.
func (s *UserStore) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u.Provisioning == nil {
		return nil, fmt.Errorf("user create requires provisioning fields")
	}

	payload := map[string]interface{}{
		"username":         u.Username,
		"email":            u.Email,
		"password":         u.Provisioning.Password,
		"confirmed":        u.Provisioning.Confirmed,
		"blocked":          u.Provisioning.Blocked,
		"role":             u.Provisioning.RoleID,
		"subjectId":        u.SubjectID,
		"firstName":        u.FirstName,
		"lastName":         u.LastName,
		"imageUrl":         u.ImageURL,
		"subscriptionTier": string(u.Tier),
	}

	var created wireUser
	if err := s.client.do(ctx, "POST", "/api/users", payload, &created); err != nil {
		return nil, err
	}
	return created.toDomain(), nil
}

// UpdateTier syncs the stored subscription tier with the session claim
func (s *UserStore) UpdateTier(ctx context.Context, id string, tier user.Tier) error {
	payload := map[string]interface{}{
		"subscriptionTier": string(tier),
	}
	return s.client.do(ctx, "PUT", "/api/users/"+url.PathEscape(id), payload, nil)
}

// DefaultRoleID resolves the backend's authenticated role id from the role
// registry.
func (s *UserStore) DefaultRoleID(ctx context.Context) (int, error) {
	var out struct {
		Roles []struct {
			ID   int    `json:"id"`
			Type string `json:"type"`
		} `json:"roles"`
	}
	if err := s.client.do(ctx, "GET", "/api/users-permissions/roles", nil, &out); err != nil {
		return 0, err
	}
	for _, role := range out.Roles {
		if role.Type == "authenticated" {
			return role.ID, nil
		}
	}
	return 0, fmt.Errorf("authenticated role not found")
}
