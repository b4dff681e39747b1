package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/models"
)

// defaultProfileName is assigned to registrations that do not name a
// profile.
const defaultProfileName = "Usuário"

// hashPassword produces the hex SHA-256 digest of the plain password.
// The scheme is inherited from the system this one replaces, where
// existing accounts already store digests in this exact format.
func hashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin checks the credentials and returns the account. There is
// no session or token; the frontend keeps the user object.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || user.Password != hashPassword(req.Password) {
		s.respondError(c, http.StatusUnauthorized, fmt.Errorf("invalid email or password"))
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

type registerRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Profile  string `json:"profile"`
}

// handleRegister creates a new account.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("email and password are required"))
		return
	}

	profileName := req.Profile
	if profileName == "" {
		profileName = defaultProfileName
	}
	profile, err := s.store.GetProfileByName(c.Request.Context(), profileName)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), models.User{
		Name:      req.Name,
		Nickname:  req.Nickname,
		Email:     req.Email,
		Password:  hashPassword(req.Password),
		ProfileID: profile.ID,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleListUsers returns all accounts with their profiles.
func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"users": users})
}

// handleListProfiles returns the access profiles.
func (s *Server) handleListProfiles(c *gin.Context) {
	profiles, err := s.store.ListProfiles(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"profiles": profiles})
}
