package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pantrychef/v2/internal/domain/user"
	"github.com/pantrychef/v2/internal/ports/inbound"
	"github.com/pantrychef/v2/pkg/errors"
)

const sessionKey = "session_user"

// sessionClaims is the claim set of an identity-provider session token
type sessionClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
	Plan      string `json:"plan"`
}

// Auth verifies the bearer token, resolves the session into a provisioned
// user via the identity service, and stores the user on the context.
// Token issuance lives entirely with the external identity provider.
func (m *Middleware) Auth(identity inbound.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Error(errors.NewUnauthorizedError(""))
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(
			strings.TrimPrefix(header, "Bearer "),
			&sessionClaims{},
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(m.config.Auth.JWTSecret), nil
			},
		)
		if err != nil || !token.Valid {
			c.Error(errors.NewUnauthorizedError("Invalid or expired session"))
			c.Abort()
			return
		}

		claims := token.Claims.(*sessionClaims)
		session := &user.Session{
			SubjectID: claims.Subject,
			Email:     claims.Email,
			Username:  claims.Username,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			ImageURL:  claims.ImageURL,
			Plan:      claims.Plan,
		}

		usr, err := identity.Resolve(c.Request.Context(), session)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(sessionKey, usr)
		c.Set("user_id", usr.ID)
		c.Next()
	}
}

// CurrentUser returns the resolved user set by Auth
func CurrentUser(c *gin.Context) *user.User {
	if v, exists := c.Get(sessionKey); exists {
		if usr, ok := v.(*user.User); ok {
			return usr
		}
	}
	return nil
}
