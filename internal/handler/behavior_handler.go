package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-behavior-api/internal/service"
	"github.com/noah-isme/classroom-behavior-api/pkg/response"
)

// BehaviorHandler exposes behavior category endpoints.
type BehaviorHandler struct {
	behaviors *service.BehaviorService
}

// NewBehaviorHandler constructs BehaviorHandler.
func NewBehaviorHandler(behaviors *service.BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{behaviors: behaviors}
}

// List godoc
// @Summary List behavior categories
// @Tags Behaviors
// @Produce json
// @Param type query string false "positive or negative"
// @Success 200 {object} response.Envelope
// @Router /behaviors [get]
func (h *BehaviorHandler) List(c *gin.Context) {
	categories, err := h.behaviors.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Create godoc
// @Summary Create custom behavior category
// @Tags Behaviors
// @Accept json
// @Produce json
// @Param payload body service.CreateBehaviorRequest true "Behavior payload"
// @Success 201 {object} response.Envelope
// @Router /behaviors [post]
func (h *BehaviorHandler) Create(c *gin.Context) {
	var req service.CreateBehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	category, err := h.behaviors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// Update godoc
// @Summary Update custom behavior category
// @Tags Behaviors
// @Accept json
// @Produce json
// @Param id path string true "Behavior ID"
// @Param payload body service.UpdateBehaviorRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /behaviors/{id} [put]
func (h *BehaviorHandler) Update(c *gin.Context) {
	var req service.UpdateBehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	category, err := h.behaviors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, category, nil)
}

// Delete godoc
// @Summary Delete custom behavior category and its entries
// @Tags Behaviors
// @Produce json
// @Param id path string true "Behavior ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /behaviors/{id} [delete]
func (h *BehaviorHandler) Delete(c *gin.Context) {
	removed, err := h.behaviors.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "entries_removed": removed}, nil)
}
