// Package auth verifies Supabase access tokens and exposes the caller to handlers.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fadhlanhapp/congno-backend/models"
	"github.com/fadhlanhapp/congno-backend/utils"
)

const currentUserKey = "currentUser"

// Claims is the subset of a Supabase access token the service reads
type Claims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens signed with the project's JWT secret
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a verifier for the given shared secret
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(30*time.Second),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify parses tokenString and returns the user it identifies
func (v *Verifier) Verify(tokenString string) (models.CurrentUser, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return models.CurrentUser{}, errors.New("token validation failed")
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return models.CurrentUser{}, errors.New("subject claim missing")
	}

	return models.CurrentUser{
		ID:          sub,
		Email:       strings.ToLower(strings.TrimSpace(claims.Email)),
		DisplayName: utils.FirstNonEmpty(claims.UserMetadata.FullName, claims.UserMetadata.Name),
	}, nil
}

// Middleware rejects requests without a valid bearer token and stores the caller on the context
func Middleware(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.HandleError(c, utils.NewUnauthenticatedError("Authorization required"))
			c.Abort()
			return
		}

		user, err := verifier.Verify(tokenString)
		if err != nil {
			utils.HandleError(c, utils.NewUnauthenticatedError("Invalid token"))
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated caller set by Middleware
func CurrentUser(c *gin.Context) (models.CurrentUser, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return models.CurrentUser{}, false
	}
	user, ok := value.(models.CurrentUser)
	return user, ok
}

// SetCurrentUser stores user on the context, for handlers mounted without Middleware
func SetCurrentUser(c *gin.Context, user models.CurrentUser) {
	c.Set(currentUserKey, user)
}

func bearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}

	return token, true
}
