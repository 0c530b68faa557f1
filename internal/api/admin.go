package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/auth"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/models"
	"github.com/icexchange001-crypto/college-voice-backend-sub001/internal/service/catalog"
)

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	api.POST("/admin/login", h.adminLogin)

	admin := api.Group("/admin")
	admin.Use(h.auth.AdminMiddleware(), h.auth.CSRFMiddleware())
	admin.POST("/logout", h.adminLogout)
	admin.GET("/me", h.adminMe)

	admin.GET("/courses", h.listCourses)
	admin.POST("/courses", h.createCourse)
	admin.PUT("/courses/:id", h.updateCourse)
	admin.DELETE("/courses/:id", h.deleteCourse)

	admin.GET("/staff", h.listStaff)
	admin.POST("/staff", h.createStaff)
	admin.PUT("/staff/:id", h.updateStaff)
	admin.DELETE("/staff/:id", h.deleteStaff)

	admin.GET("/events", h.listEvents)
	admin.POST("/events", h.createEvent)
	admin.PUT("/events/:id", h.updateEvent)
	admin.DELETE("/events/:id", h.deleteEvent)

	admin.GET("/notices", h.listNotices)
	admin.POST("/notices", h.createNotice)
	admin.PUT("/notices/:id", h.updateNotice)
	admin.DELETE("/notices/:id", h.deleteNotice)

	admin.GET("/scholarships", h.listScholarships)
	admin.POST("/scholarships", h.createScholarship)
	admin.PUT("/scholarships/:id", h.updateScholarship)
	admin.DELETE("/scholarships/:id", h.deleteScholarship)

	admin.GET("/court-offices", h.listCourtOffices)
	admin.POST("/court-offices", h.createCourtOffice)
	admin.PUT("/court-offices/:id", h.updateCourtOffice)
	admin.DELETE("/court-offices/:id", h.deleteCourtOffice)

	admin.GET("/settings", h.listSettings)
	admin.PUT("/settings/:key", h.putSetting)
	admin.DELETE("/settings/:key", h.deleteSetting)
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	token, scope, err := h.auth.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	csrfToken, err := h.auth.NewCSRFToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.setAuthCookies(c, token, csrfToken)
	c.JSON(http.StatusOK, gin.H{
		"auth_token": token,
		"csrf_token": csrfToken,
		"scope":      scope,
	})
}

func (h *Handler) adminLogout(c *gin.Context) {
	if token, ok := auth.TokenFromContext(c); ok {
		if err := h.auth.Revoke(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
	}
	h.clearAuthCookies(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminMe(c *gin.Context) {
	scope, _ := auth.ScopeFromContext(c)
	c.JSON(http.StatusOK, gin.H{"scope": scope})
}

func (h *Handler) setAuthCookies(c *gin.Context, authToken, csrfToken string) {
	maxAge := int(h.auth.TokenTTL().Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.auth.AuthCookieName(), authToken, maxAge, "/", "", false, true)
	// CSRF cookie is readable from the page so it can ride the header back.
	c.SetCookie(h.auth.CSRFCookieName(), csrfToken, maxAge, "/", "", false, false)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(h.auth.AuthCookieName(), "", -1, "/", "", false, true)
	c.SetCookie(h.auth.CSRFCookieName(), "", -1, "/", "", false, false)
}

// crudError maps catalog errors to HTTP statuses.
func crudError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func (h *Handler) listCourses(c *gin.Context) {
	rows, err := h.catalog.ListCourses(c.Request.Context(), 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": emptyIfNil(rows)})
}

func (h *Handler) createCourse(c *gin.Context) {
	var req models.Course
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}
	created, err := h.catalog.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCourse(c *gin.Context) {
	var req models.Course
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateCourse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCourse(c *gin.Context) {
	if err := h.catalog.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listStaff(c *gin.Context) {
	rows, err := h.catalog.ListStaff(c.Request.Context(), 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": emptyIfNil(rows)})
}

func (h *Handler) createStaff(c *gin.Context) {
	var req models.StaffMember
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.EmployeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and employee_id are required"})
		return
	}
	created, err := h.catalog.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateStaff(c *gin.Context) {
	var req models.StaffMember
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateStaff(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteStaff(c *gin.Context) {
	if err := h.catalog.DeleteStaff(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listEvents(c *gin.Context) {
	rows, err := h.catalog.ListEvents(c.Request.Context(), 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": emptyIfNil(rows)})
}

func (h *Handler) createEvent(c *gin.Context) {
	var req models.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Title == "" || req.StartsAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and starts_at are required"})
		return
	}
	created, err := h.catalog.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateEvent(c *gin.Context) {
	var req models.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateEvent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteEvent(c *gin.Context) {
	if err := h.catalog.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listNotices(c *gin.Context) {
	rows, err := h.catalog.ListNotices(c.Request.Context(), false, 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": emptyIfNil(rows)})
}

func (h *Handler) createNotice(c *gin.Context) {
	var req models.Notice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	created, err := h.catalog.CreateNotice(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateNotice(c *gin.Context) {
	var req models.Notice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateNotice(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteNotice(c *gin.Context) {
	if err := h.catalog.DeleteNotice(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listScholarships(c *gin.Context) {
	rows, err := h.catalog.ListScholarships(c.Request.Context(), 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scholarships": emptyIfNil(rows)})
}

func (h *Handler) createScholarship(c *gin.Context) {
	var req models.Scholarship
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	created, err := h.catalog.CreateScholarship(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateScholarship(c *gin.Context) {
	var req models.Scholarship
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateScholarship(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteScholarship(c *gin.Context) {
	if err := h.catalog.DeleteScholarship(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCourtOffices(c *gin.Context) {
	rows, err := h.catalog.ListCourtOffices(c.Request.Context(), 0)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offices": emptyIfNil(rows)})
}

func (h *Handler) createCourtOffice(c *gin.Context) {
	var req models.CourtOffice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.RoomNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and room_number are required"})
		return
	}
	created, err := h.catalog.CreateCourtOffice(c.Request.Context(), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCourtOffice(c *gin.Context) {
	var req models.CourtOffice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	updated, err := h.catalog.UpdateCourtOffice(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCourtOffice(c *gin.Context) {
	if err := h.catalog.DeleteCourtOffice(c.Request.Context(), c.Param("id")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listSettings(c *gin.Context) {
	rows, err := h.catalog.ListSettings(c.Request.Context())
	if err != nil {
		crudError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": emptyIfNil(rows)})
}

type settingRequest struct {
	Value string `json:"value"`
}

func (h *Handler) putSetting(c *gin.Context) {
	var req settingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.catalog.PutSetting(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteSetting(c *gin.Context) {
	if err := h.catalog.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		crudError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
