package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAdminRole is the role claim JWTGate expects when none is configured.
const DefaultAdminRole = "admin"

// ErrNotAdmin is returned for a valid token that does not carry the admin role.
var ErrNotAdmin = errors.New("token lacks admin role")

// AdminGate decides whether a request comes from an authorized admin.
type AdminGate interface {
	Authorize(c *gin.Context) bool
}

// AdminClaims are the claims carried by admin bearer tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTGate authorizes requests carrying an HMAC-signed bearer token with the admin role.
// Tokens are issued by the auth provider; the gate only verifies them. An empty Secret denies everything.
type JWTGate struct {
	Secret []byte
	Role   string           // defaults to DefaultAdminRole
	Now    func() time.Time // defaults to time.Now
}

func (g JWTGate) Authorize(c *gin.Context) bool {
	if len(g.Secret) == 0 {
		return false
	}
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return false
	}
	claims, err := g.Verify(token)
	if err != nil {
		log.Printf("[auth] invalid token: %v", err)
		return false
	}
	c.Set("admin_subject", claims.Subject)
	return true
}

// Verify checks the token's signature, expiry and role claim.
func (g JWTGate) Verify(tokenString string) (*AdminClaims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if g.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(g.Now))
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	role := g.Role
	if role == "" {
		role = DefaultAdminRole
	}
	if claims.Role != role {
		return nil, fmt.Errorf("%w: got %q", ErrNotAdmin, claims.Role)
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAdmin aborts with 401 unless gate authorizes the request. A nil gate denies everything.
func RequireAdmin(gate AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gate == nil || !gate.Authorize(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequestID propagates X-Request-Id, minting one when absent, and logs each request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-Id")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Header("X-Request-Id", rid)

		start := time.Now()
		c.Next()
		log.Printf("[api] %s %s status=%d dur=%s rid=%s", c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start), rid)
	}
}
