package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mateuschrist/taxdeed-api/internal/service"
)

type ExistenceHandler struct {
	Existence *service.ExistenceService
}

func (h *ExistenceHandler) Register(r *gin.Engine) {
	r.POST("/api/existence-check", h.check)
}

type existenceRequest struct {
	County string          `json:"county"`
	State  string          `json:"state"`
	Nodes  json.RawMessage `json:"nodes" swaggertype:"array,string"`
}

type existenceResponse struct {
	Existing []string `json:"existing"`
}

// @Summary Which nodes are already stored
// @Tags ingest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body existenceRequest true "candidate nodes"
// @Success 200 {object} existenceResponse
// @Failure 400 {object} map[string]any
// @Router /api/existence-check [post]
func (h *ExistenceHandler) check(c *gin.Context) {
	if h.Existence == nil {
		Error(c, http.StatusInternalServerError, "existence service unavailable", nil)
		return
	}
	var req existenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	nodes, err := decodeNodes(req.Nodes)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid input: nodes must be an array", nil)
		return
	}
	existing, err := h.Existence.CheckExisting(c.Request.Context(), req.County, req.State, nodes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Ok(c, existenceResponse{Existing: existing}, map[string]any{"queried": len(nodes)})
}
