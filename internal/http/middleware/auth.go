package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/http/response"
	"github.com/yungbote/coursebridge-backend/internal/platform/apierr"
	"github.com/yungbote/coursebridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

var errTokenAuthDisabled = errors.New("token auth is not configured")

// AuthMiddleware resolves the caller from an HS256 bearer token whose subject
// is the user id. Anonymous requests pass through unless auth is required.
type AuthMiddleware struct {
	log      *logger.Logger
	secret   []byte
	required bool
}

func NewAuthMiddleware(log *logger.Logger, secret string, required bool) *AuthMiddleware {
	return &AuthMiddleware{
		log:      log.With("middleware", "AuthMiddleware"),
		secret:   []byte(strings.TrimSpace(secret)),
		required: required,
	}
}

// Identify attaches RequestData for every request. A bad token is always
// rejected; a missing token is rejected only when auth is required.
func (am *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			if am.required {
				abortUnauthorized(c, "missing or invalid token")
				return
			}
			c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{}))
			c.Next()
			return
		}
		userID, err := am.parse(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			abortUnauthorized(c, "missing or invalid token")
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID:      userID,
			TokenString: tokenString,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireUser rejects anonymous callers on routes that act for a user.
func (am *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ctxutil.CallerID(c.Request.Context()); !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) parse(tokenString string) (uuid.UUID, error) {
	if len(am.secret) == 0 {
		return uuid.Nil, errTokenAuthDisabled
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.Subject)
}

// SignToken issues a token Identify accepts for userID.
func SignToken(secret string, userID uuid.UUID, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errTokenAuthDisabled
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(strings.TrimSpace(secret)))
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Abort()
	response.RespondDomainError(c, apierr.Unauthorized(msg))
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
