package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nuwanwp/docapi/internal/document"
)

// handleRoot returns service metadata.
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "docapi - generic REST API over a document store",
		"version": Version,
		"backend": s.backend,
	})
}

// handleList returns every document in the collection.
func (s *Server) handleList(c *gin.Context) {
	entity := c.Param("entity")
	docs, err := s.store.List(c.Request.Context(), entity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  document.Serialize(docs),
		"count": len(docs),
	})
}

// handleGet returns a single document by id.
func (s *Server) handleGet(c *gin.Context) {
	entity := c.Param("entity")
	doc, err := s.store.Get(c.Request.Context(), entity, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": document.Serialize(doc)})
}

// handleCreate inserts the JSON body verbatim as a new document, then
// re-fetches it by the assigned id.
func (s *Server) handleCreate(c *gin.Context) {
	entity := c.Param("entity")
	var body document.Document
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ctx := c.Request.Context()
	id, err := s.store.Insert(ctx, entity, body)
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := s.store.Get(ctx, entity, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data":    document.Serialize(created),
		"message": "Document created successfully",
	})
}

// handleUpdate merges the JSON body's fields into an existing document.
func (s *Server) handleUpdate(c *gin.Context) {
	entity := c.Param("entity")
	var body document.Document
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	updated, err := s.store.Update(c.Request.Context(), entity, c.Param("id"), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    document.Serialize(updated),
		"message": "Document updated successfully",
	})
}

// handleDelete removes a document and returns it.
func (s *Server) handleDelete(c *gin.Context) {
	entity := c.Param("entity")
	deleted, err := s.store.Delete(c.Request.Context(), entity, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    document.Serialize(deleted),
		"message": "Document deleted successfully",
	})
}

// handleFilter coerces each query parameter into a typed value and
// returns every document matching all of them by equality. The coerced
// filter map is echoed in the response.
func (s *Server) handleFilter(c *gin.Context) {
	entity := c.Param("entity")
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	filter := document.CoerceParams(params)

	docs, err := s.store.Find(c.Request.Context(), entity, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    document.Serialize(docs),
		"count":   len(docs),
		"filters": filter,
	})
}
