package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealshare/backend/internal/service"
)

// LinkHandler resolves short links. Issuance happens on the recipe routes.
type LinkHandler struct {
	links *service.LinkService
}

func NewLinkHandler(links *service.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

func (h *LinkHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/s/:code", h.Resolve)
}

func (h *LinkHandler) Resolve(c *gin.Context) {
	fullURL, err := h.links.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fullURL)
}
