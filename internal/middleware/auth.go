package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reelbase/reelbase/internal/auth"
)

// ContextKeyIdentity is where the verified caller identity lives in the
// gin context. Handlers read it through GetIdentity rather than touching
// the key directly.
const ContextKeyIdentity = "identity"

// RequireIdentity rejects any request without a valid bearer token.
// On success the verified Identity is stored in the request context and
// the chain continues; on failure the handler never runs.
func RequireIdentity(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := bearerIdentity(c, verifier)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid bearer token",
			})
			return
		}
		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// OptionalIdentity attaches an identity when a valid token is present but
// lets anonymous requests through. Needed by endpoints like "my rating
// for this movie", where anonymous means "no opinion yet", not an error.
func OptionalIdentity(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := bearerIdentity(c, verifier); ok {
			c.Set(ContextKeyIdentity, identity)
		}
		c.Next()
	}
}

// bearerIdentity extracts and verifies the "Authorization: Bearer <token>"
// header. Returns false on a missing header, a malformed header, or a
// token the verifier rejects.
func bearerIdentity(c *gin.Context, verifier auth.Verifier) (*auth.Identity, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	identity, err := verifier.Verify(c.Request.Context(), parts[1])
	if err != nil {
		return nil, false
	}
	return identity, true
}

// GetIdentity returns the verified caller, or nil for anonymous requests.
// Behind RequireIdentity it is never nil; behind OptionalIdentity the
// handler must check.
func GetIdentity(c *gin.Context) *auth.Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := val.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
