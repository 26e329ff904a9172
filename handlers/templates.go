package handlers

import (
	"net/http"

	"aircare/models"
	"aircare/services/templates"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves the notification template admin endpoints.
type TemplateHandler struct {
	Svc templates.TemplateService
}

func NewTemplateHandler(svc templates.TemplateService) *TemplateHandler {
	return &TemplateHandler{Svc: svc}
}

// ListTemplates handles GET /api/admin/templates.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetTemplate handles GET /api/admin/templates/:id.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// PutTemplate handles PUT /api/admin/templates/:id. Invalid templates are
// rejected with their validation result.
func (h *TemplateHandler) PutTemplate(c *gin.Context) {
	var t models.NotificationTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	t.ID = c.Param("id")
	saved, err := h.Svc.Save(c.Request.Context(), t, c.GetString("adminSubject"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// PreviewTemplate handles POST /api/admin/templates/preview: it validates the
// draft and renders it with sample data.
func (h *TemplateHandler) PreviewTemplate(c *gin.Context) {
	var t models.NotificationTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, err)
		return
	}
	t = templates.ToLegacy(t)
	if t.Variables == nil {
		t.Variables = templates.ExtractVariables(t.Subject + "\n" + t.Content)
	}
	enhanced := templates.Enhance(t)
	validation := templates.Validate(t)

	resp := gin.H{"validation": validation, "preview": enhanced.Preview}
	rendered, err := templates.Render(t, enhanced.Preview.SampleData)
	resp["rendered"] = rendered
	if err != nil {
		resp["renderError"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
