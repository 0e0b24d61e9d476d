package api

import (
	"net/http"

	resdto "roombook/internal/handler/dto/response"
	"roombook/internal/handler/httperr"
	"roombook/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewResourceHandler(bookingUseCase usecase.BookingUseCase) *ResourceHandler {
	return &ResourceHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary List resources
// @Description List all bookable resources
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ResourceResponse
// @Failure 401 {object} map[string]string
// @Router /resources [get]
func (h *ResourceHandler) ListResources(c *gin.Context) {
	resources, err := h.bookingUseCase.ListResources(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromResources(resources))
}
