// Package api exposes the REST surface: the generic entity router over
// arbitrary collections and the auth gateway over the reserved "users"
// collection. Handlers compose query coercion and document serialization
// around the storage backend and map failures onto the error taxonomy.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nuwanwp/docapi/internal/auth"
	"github.com/nuwanwp/docapi/internal/store"
)

// Version reported by the root metadata endpoint.
const Version = "1.0.0"

// Server wires the entity and auth handlers onto a storage backend.
type Server struct {
	store   store.Store
	tokens  *auth.TokenManager
	backend string
}

// NewServer creates a Server over the given backend. backend is the
// human-readable backend name echoed by the metadata endpoint.
func NewServer(st store.Store, tokens *auth.TokenManager, backend string) *Server {
	return &Server{store: st, tokens: tokens, backend: backend}
}

// Router builds the HTTP routing table. The /auth routes are static and
// shadow the entity wildcard for that one path segment; every other
// first segment is taken verbatim as a collection name.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	r.GET("/", s.handleRoot)

	ag := r.Group("/auth")
	ag.POST("/register", s.handleRegister)
	ag.POST("/login", s.handleLogin)
	ag.POST("/logout", s.requireToken, s.handleLogout)
	ag.GET("/profile", s.requireToken, s.handleProfile)
	ag.GET("/validate", s.requireToken, s.handleValidate)

	r.GET("/:entity", s.handleList)
	r.POST("/:entity", s.handleCreate)
	r.GET("/:entity/filter", s.handleFilter)
	r.GET("/:entity/id/:id", s.handleGet)
	r.PUT("/:entity/:id", s.handleUpdate)
	r.DELETE("/:entity/:id", s.handleDelete)

	return r
}
