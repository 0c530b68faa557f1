package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/auth"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
)

// Department routes let each department maintain its own content rows. Login
// issues a JWT scoped to the department; data routes are fenced to it.
func (h *Handler) registerDepartmentRoutes(api *gin.RouterGroup) {
	api.POST("/department/login", h.departmentLogin)

	dept := api.Group("/department")
	dept.Use(auth.DepartmentMiddleware(h.deptTokens))
	dept.GET("/me", h.departmentMe)
	dept.GET("/data", h.listOwnData)
	dept.POST("/data", h.createOwnData)
	dept.PUT("/data/:id", h.updateOwnData)
	dept.DELETE("/data/:id", h.deleteOwnData)
}

func (h *Handler) departmentLogin(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	acct, err := h.catalog.VerifyDepartmentAccount(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidLogin) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	token, err := h.deptTokens.Issue(acct.DepartmentID, acct.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"department_id": acct.DepartmentID,
		"username":      acct.Username,
	})
}

func (h *Handler) departmentMe(c *gin.Context) {
	departmentID, _ := auth.DepartmentFromContext(c)
	dept, err := h.catalog.GetDepartment(c.Request.Context(), departmentID)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}

func (h *Handler) listOwnData(c *gin.Context) {
	departmentID, _ := auth.DepartmentFromContext(c)
	rows, err := h.catalog.ListDepartmentData(c.Request.Context(), departmentID, 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": emptyIfNil(rows)})
}

func (h *Handler) createOwnData(c *gin.Context) {
	departmentID, _ := auth.DepartmentFromContext(c)
	var req models.DepartmentData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	req.DepartmentID = departmentID
	created, err := h.catalog.CreateDepartmentData(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateOwnData(c *gin.Context) {
	departmentID, _ := auth.DepartmentFromContext(c)
	var req models.DepartmentData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateDepartmentData(c.Request.Context(), departmentID, c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteOwnData(c *gin.Context) {
	departmentID, _ := auth.DepartmentFromContext(c)
	if err := h.catalog.DeleteDepartmentData(c.Request.Context(), departmentID, c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
