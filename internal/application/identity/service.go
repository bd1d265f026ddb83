// Package identity provides the application layer for session resolution.
// Authentication itself is delegated to the external identity provider; this
// service turns a verified session into a provisioned application user.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"github.com/pantrychef/v2/pkg/errors"
	"go.uber.org/zap"
)

// IdentityService implements the identity use cases
type IdentityService struct {
	users  outbound.UserStore
	logger *zap.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(users outbound.UserStore, logger *zap.Logger) inbound.IdentityService {
	return &IdentityService{
		users:  users,
		logger: logger.Named("identity-service"),
	}
}

// Resolve looks up the user for the session's subject, syncing the
// entitlement tier and provisioning the user on first contact. An
// unreachable store fails closed. Two concurrent first requests can race
// the provision step and leave duplicate rows; the first match wins on
// every later lookup.
func (s *IdentityService) Resolve(ctx context.Context, session *user.Session) (*user.User, error) {
	if session == nil {
		return nil, errors.NewUnauthorizedError("")
	}

	tier := session.Tier()

	existing, err := s.users.FindBySubject(ctx, session.SubjectID)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to resolve user", err)
	}

	if existing != nil {
		if existing.Tier != tier {
			// Best effort: the fresh claim wins in the response even if
			// the store write fails.
			if err := s.users.UpdateTier(ctx, existing.ID, tier); err != nil {
				s.logger.Warn("Failed to sync subscription tier",
					zap.String("user_id", existing.ID),
					zap.Error(err),
				)
			}
			existing.Tier = tier
		}
		return existing, nil
	}

	created, err := s.provision(ctx, session, tier)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Provisioned new user",
		zap.String("user_id", created.ID),
		zap.String("subject_id", created.SubjectID),
	)
	return created, nil
}

func (s *IdentityService) provision(ctx context.Context, session *user.Session, tier user.Tier) (*user.User, error) {
	roleID, err := s.users.DefaultRoleID(ctx)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to resolve default role", err)
	}

	username := session.Username
	if username == "" {
		username = strings.Split(session.Email, "@")[0]
	}

	u := &user.User{
		SubjectID: session.SubjectID,
		Username:  username,
		Email:     session.Email,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		ImageURL:  session.ImageURL,
		Tier:      tier,
	}

	u.Provisioning = &user.Provisioning{
		Password:  fmt.Sprintf("provider_managed_%s_%d", session.SubjectID, time.Now().UnixMilli()),
		Confirmed: true,
		Blocked:   false,
		RoleID:    roleID,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, errors.NewExternalServiceError("Failed to provision user", err)
	}
	return created, nil
}
