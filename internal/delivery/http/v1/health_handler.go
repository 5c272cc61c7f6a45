package v1

import (
	"net/http"

	"contact-sms-relay/internal/delivery/http/response"
	"contact-sms-relay/internal/usecase"

	"github.com/gin-gonic/gin"
)

// LivenessMessage is the plain-text body of GET /.
const LivenessMessage = "SMS Backend is running 🚀"

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	r.GET("/", handler.Liveness)
	r.GET("/health", handler.Readiness)
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, LivenessMessage)
}

// Readiness godoc
// @Summary      Readiness with dependency status
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	response.Success(c, http.StatusOK, "System operational", h.healthUC.Check(c.Request.Context()))
}
