package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mateuschrist/taxdeed-api/internal/service"
)

type PropertyHandler struct {
	Properties *service.PropertyAdminService
}

func (h *PropertyHandler) Register(r *gin.Engine) {
	g := r.Group("/api/properties")
	g.GET("/:id", h.get)
	g.PUT("/:id", h.put)
}

// @Summary Property detail
// @Tags properties
// @Produce json
// @Security BearerAuth
// @Param id path int true "property id"
// @Success 200 {object} models.Property
// @Failure 404 {object} map[string]any
// @Router /api/properties/{id} [get]
func (h *PropertyHandler) get(c *gin.Context) {
	if h.Properties == nil {
		Error(c, http.StatusInternalServerError, "property service unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Properties.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Edit admin fields (status, notes)
// @Tags properties
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "property id"
// @Param body body service.AdminEdit true "status and/or notes"
// @Success 200 {object} models.Property
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/properties/{id} [put]
func (h *PropertyHandler) put(c *gin.Context) {
	if h.Properties == nil {
		Error(c, http.StatusInternalServerError, "property service unavailable", nil)
		return
	}
	id := parseUint64(c.Param("id"))
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req service.AdminEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Properties.Edit(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
