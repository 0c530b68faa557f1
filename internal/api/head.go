package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
)

// Head admin routes manage departments and their panel accounts. They sit
// behind the admin middleware plus the head scope check.
func (h *Handler) registerHeadRoutes(api *gin.RouterGroup) {
	head := api.Group("/head-admin")
	head.Use(h.auth.AdminMiddleware(), h.auth.HeadMiddleware(), h.auth.CSRFMiddleware())

	head.GET("/departments", h.listDepartments)
	head.POST("/departments", h.createDepartment)
	head.PUT("/departments/:id", h.updateDepartment)
	head.DELETE("/departments/:id", h.deleteDepartment)

	head.POST("/departments/:id/accounts", h.createDepartmentAccount)
	head.DELETE("/accounts/:id", h.deleteDepartmentAccount)
}

func (h *Handler) listDepartments(c *gin.Context) {
	rows, err := h.catalog.ListDepartments(c.Request.Context(), 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": emptyIfNil(rows)})
}

func (h *Handler) createDepartment(c *gin.Context) {
	var req models.Department
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}
	created, err := h.catalog.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateDepartment(c *gin.Context) {
	var req models.Department
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateDepartment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteDepartment(c *gin.Context) {
	if err := h.catalog.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type accountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) createDepartmentAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Username == "" || len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and a password of at least 8 characters are required"})
		return
	}
	acct, err := h.catalog.CreateDepartmentAccount(c.Request.Context(), c.Param("id"), req.Username, req.Password)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acct)
}

func (h *Handler) deleteDepartmentAccount(c *gin.Context) {
	if err := h.catalog.DeleteDepartmentAccount(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
