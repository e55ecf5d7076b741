package http

import (
	"github.com/gin-gonic/gin"

	"expense-api/internal/domain"
)

const identityKey = "identity"

// requireAuth rejects requests without a valid bearer token and stores the
// resolved identity on the gin context for the handler to pass on.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := h.gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			h.writeError(c, err)
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	identity, _ := c.MustGet(identityKey).(domain.Identity)
	return identity
}
