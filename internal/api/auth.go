package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nuwanwp/docapi/internal/auth"
	"github.com/nuwanwp/docapi/internal/document"
	"github.com/nuwanwp/docapi/internal/store"
)

// usersCollection is the reserved collection the auth gateway operates on.
const usersCollection = "users"

// ctxUserID is the gin context key holding the verified token subject.
const ctxUserID = "user_id"

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// sanitizeUser strips credentials from a user document before it leaves
// the service.
func sanitizeUser(user document.Document) document.Document {
	out := user.Clone()
	delete(out, "password")
	return out
}

// requireToken is the bearer middleware for protected endpoints. Only
// access tokens are accepted; a refresh token presented here is rejected.
func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		unauthorized(c, "missing bearer token")
		return
	}
	subject, tokenType, err := s.tokens.Verify(token)
	if err != nil || tokenType != auth.TypeAccess {
		unauthorized(c, "invalid or expired token")
		return
	}
	c.Set(ctxUserID, subject)
	c.Next()
}

// handleRegister creates a user in the reserved collection. Registration
// is rejected with a conflict when any existing user matches the new name
// OR the new email, independently.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	ctx := c.Request.Context()
	byName, err := s.store.Find(ctx, usersCollection, document.Document{"name": req.Name})
	if err != nil {
		writeError(c, err)
		return
	}
	byEmail, err := s.store.Find(ctx, usersCollection, document.Document{"email": req.Email})
	if err != nil {
		writeError(c, err)
		return
	}
	if len(byName) > 0 || len(byEmail) > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a user with this name or email already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	user := document.Document{
		"name":           req.Name,
		"email":          req.Email,
		"password":       hash,
		"role":           "user",
		"last_login":     nil,
		"is_active":      true,
		"email_verified": false,
	}
	id, err := s.store.Insert(ctx, usersCollection, user)
	if err != nil {
		writeError(c, err)
		return
	}
	created, err := s.store.Get(ctx, usersCollection, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data":    document.Serialize(sanitizeUser(created)),
		"message": "User registered successfully",
	})
}

// handleLogin checks credentials, stamps last_login, and issues an access
// and a refresh token. The access token is also set as an HttpOnly
// same-site cookie alongside the JSON body.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ctx := c.Request.Context()
	users, err := s.store.Find(ctx, usersCollection, document.Document{"email": req.Email})
	if err != nil {
		writeError(c, err)
		return
	}
	if len(users) == 0 {
		unauthorized(c, "invalid credentials")
		return
	}
	user := users[0]
	hash, _ := user["password"].(string)
	if !auth.CheckPassword(hash, req.Password) {
		unauthorized(c, "invalid credentials")
		return
	}

	id := user.ID()
	updated, err := s.store.Update(ctx, usersCollection, id, document.Document{
		"last_login": time.Now().UTC(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	access, err := s.tokens.Issue(id, auth.TypeAccess)
	if err != nil {
		writeError(c, err)
		return
	}
	refresh, err := s.tokens.Issue(id, auth.TypeRefresh)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("access_token", access, int(s.tokens.AccessTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"data":          document.Serialize(sanitizeUser(updated)),
		"message":       "Login successful",
	})
}

// handleLogout is advisory: tokens are stateless, so there is no
// server-side session to destroy. The cookie is cleared as a courtesy.
func (s *Server) handleLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// handleProfile resolves the token subject to a user and returns the
// sanitized profile. A subject with no backing user is unauthorized, not
// a plain not-found: the credential no longer identifies anyone.
func (s *Server) handleProfile(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": document.Serialize(sanitizeUser(user))})
}

// handleValidate confirms the token is valid and reports a freshly
// computed expiry estimate (now + access TTL), not the token's own exp.
func (s *Server) handleValidate(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"user_id":    user.ID(),
		"expires_at": time.Now().UTC().Add(s.tokens.AccessTTL()).Format(time.RFC3339),
	})
}

// currentUser loads the user document for the verified token subject.
// On failure it writes the response and returns ok=false.
func (s *Server) currentUser(c *gin.Context) (document.Document, bool) {
	id := c.GetString(ctxUserID)
	user, err := s.store.Get(c.Request.Context(), usersCollection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrMalformedID) {
			unauthorized(c, "user no longer exists")
		} else {
			writeError(c, err)
		}
		return nil, false
	}
	return user, true
}
