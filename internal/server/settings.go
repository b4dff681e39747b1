package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"azurebridge/internal/models"
)

const maskedValue = "******"

// handleListSettings returns all settings rows. Secret values are never
// sent to the frontend, only a mask signalling something is stored.
func (s *Server) handleListSettings(c *gin.Context) {
	settings, err := s.store.ListSettings(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	for i := range settings {
		if settings[i].IsSecret && settings[i].Value != "" {
			settings[i].Value = maskedValue
		}
	}
	respondSuccess(c, http.StatusOK, gin.H{"settings": settings})
}

type settingRequest struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsSecret    bool   `json:"is_secret"`
	IsActive    bool   `json:"is_active"`
	UpdatedBy   string `json:"updated_by"`
}

// handleCreateSetting inserts a new settings row.
func (s *Server) handleCreateSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	setting, err := s.store.CreateSetting(c.Request.Context(), models.Setting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
		Category:    req.Category,
		IsSecret:    req.IsSecret,
		IsActive:    req.IsActive,
		UpdatedBy:   req.UpdatedBy,
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if setting.IsSecret && setting.Value != "" {
		setting.Value = maskedValue
	}
	respondSuccess(c, http.StatusCreated, gin.H{"setting": setting})
}

// handleUpdateSetting changes the value and flags of a settings row.
// Sending the mask back leaves the stored secret untouched.
func (s *Server) handleUpdateSetting(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Value == maskedValue {
		current, err := s.store.GetSetting(c.Request.Context(), id)
		if err != nil {
			s.respondError(c, storeStatus(err), err)
			return
		}
		req.Value = current.Value
	}

	setting, err := s.store.UpdateSetting(c.Request.Context(), id, models.Setting{
		Value:       req.Value,
		Description: req.Description,
		Category:    req.Category,
		IsSecret:    req.IsSecret,
		IsActive:    req.IsActive,
		UpdatedBy:   req.UpdatedBy,
	})
	if err != nil {
		s.respondError(c, storeStatus(err), err)
		return
	}
	if setting.IsSecret && setting.Value != "" {
		setting.Value = maskedValue
	}
	respondSuccess(c, http.StatusOK, gin.H{"setting": setting})
}
