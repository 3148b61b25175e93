package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuwanwp/docapi/internal/store"
)

// writeError maps a storage failure onto the error taxonomy: malformed
// id 400, missing document 404, anything else 500 with a generic body.
// The underlying cause is logged, never echoed to the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrMalformedID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
	case errors.Is(err, store.ErrInvalidCollection):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
	default:
		log.Printf("[API] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
