package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/dto"
	"github.com/gin-gonic/gin"
)

// meHandler serves the caller's own profile and roles.
type meHandler struct {
	userService portssvc.UserSvcFacade
	roleService portssvc.RoleSvcFacade
}

func newMeHandler(us portssvc.UserSvcFacade, rs portssvc.RoleSvcFacade) *meHandler {
	return &meHandler{userService: us, roleService: rs}
}

// getMe godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /me [get]
func (h *meHandler) getMe(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), principalID(c))
	if err != nil {
		respondWithError(c, err, "Get current user")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}

// listMyRoles godoc
// @Summary Roles held by the current user
// @Description Lists the flat role assignments of the caller across the site and every journal.
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /me/roles [get]
func (h *meHandler) listMyRoles(c *gin.Context) {
	roles, err := h.roleService.ListMyRoles(c.Request.Context(), principalID(c))
	if err != nil {
		respondWithError(c, err, "List own roles")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"roles": roles})
}

func registerMeRoutes(group *gin.RouterGroup, us portssvc.UserSvcFacade, rs portssvc.RoleSvcFacade) {
	h := newMeHandler(us, rs)
	me := group.Group("/me")
	{
		me.GET("", h.getMe)
		me.GET("/roles", h.listMyRoles)
	}
}
