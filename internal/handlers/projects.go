package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nursery-tracker/internal/models"
	"nursery-tracker/internal/services"
	"nursery-tracker/internal/storage"
)

type ProjectsHandler struct {
	service *services.ProjectService
	blobs   storage.BlobStore
}

func NewProjectsHandler(service *services.ProjectService, blobs storage.BlobStore) *ProjectsHandler {
	return &ProjectsHandler{
		service: service,
		blobs:   blobs,
	}
}

// CreateProject godoc
// @Summary     Create a project
// @Description Creates a new project under a caller-chosen id with default status fields
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       project body models.CreateProjectRequest true "Project id and name"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation error",
			Message: err.Error(),
		})
		return
	}

	project, err := h.service.CreateProject(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projectResponse(project))
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns all projects, most recently updated first
// @Tags        projects
// @Produce     json
// @Success     200 {object} models.ProjectListResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = h.projectResponse(&projects[i])
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: responses})
}

// GetProject godoc
// @Summary     Get project detail
// @Description Returns the project record with its photos and comments, newest first
// @Tags        projects
// @Produce     json
// @Param       project_id path string true "Project id"
// @Success     200 {object} models.ProjectDetailResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	projectID := c.Param("project_id")

	project, err := h.service.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	photos, err := h.service.ListPhotos(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	detail := models.ProjectDetailResponse{
		Project:  h.projectResponse(project),
		Photos:   make([]models.PhotoResponse, len(photos)),
		Comments: make([]models.CommentResponse, len(comments)),
	}
	for i, p := range photos {
		detail.Photos[i] = photoResponse(p, h.blobs.URLFor(p.BlobKey))
	}
	for i, cm := range comments {
		detail.Comments[i] = commentResponse(cm)
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateStatus godoc
// @Summary     Update project status
// @Description Replaces all mutable status fields and stamps last_updated
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       project_id path string true "Project id"
// @Param       status body models.UpdateStatusRequest true "Status fields"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/status [put]
func (h *ProjectsHandler) UpdateStatus(c *gin.Context) {
	projectID := c.Param("project_id")

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation error",
			Message: err.Error(),
		})
		return
	}

	fields := models.StatusFields{
		OverallStatus:   req.OverallStatus,
		House:           req.House,
		PlantShape:      req.PlantShape,
		WaterStatus:     req.WaterStatus,
		PestPresence:    req.PestPresence,
		DiseasePresence: req.DiseasePresence,
		Quantity:        req.Quantity,
		RootStructure:   req.RootStructure,
		NutrientStatus:  req.NutrientStatus,
		PestType:        req.PestType,
		DiseaseType:     req.DiseaseType,
		ActionRequired:  req.ActionRequired,
		Priority:        req.Priority,
		RetailReady:     req.RetailReady,
		RetailTimeline:  req.RetailTimeline,
	}

	if err := h.service.UpdateStatus(c.Request.Context(), projectID, fields); err != nil {
		respondError(c, err)
		return
	}

	project, err := h.service.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.projectResponse(project))
}

func (h *ProjectsHandler) projectResponse(p *models.Project) models.ProjectResponse {
	r := models.ProjectResponse{
		ID:              p.ID,
		Name:            p.Name,
		OverallStatus:   p.OverallStatus,
		House:           p.House,
		PlantShape:      p.PlantShape,
		WaterStatus:     p.WaterStatus,
		PestPresence:    p.PestPresence,
		DiseasePresence: p.DiseasePresence,
		Quantity:        p.Quantity,
		RootStructure:   p.RootStructure,
		NutrientStatus:  p.NutrientStatus,
		PestType:        p.PestType,
		DiseaseType:     p.DiseaseType,
		ActionRequired:  p.ActionRequired,
		Priority:        p.Priority,
		RetailReady:     p.RetailReady,
		RetailTimeline:  p.RetailTimeline,
		LastUpdated:     p.LastUpdated,
	}
	if p.HeaderImageKey.Valid {
		r.HeaderImageKey = p.HeaderImageKey.String
		r.HeaderImageURL = h.blobs.URLFor(p.HeaderImageKey.String)
	}
	return r
}

func photoResponse(p models.Photo, url string) models.PhotoResponse {
	return models.PhotoResponse{
		ID:        p.ID,
		ProjectID: p.ProjectID,
		BlobKey:   p.BlobKey,
		URL:       url,
		Caption:   p.Caption,
		Author:    p.Author,
		DateAdded: p.DateAdded,
	}
}

func commentResponse(c models.Comment) models.CommentResponse {
	return models.CommentResponse{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Author:    c.Author,
		Text:      c.Text,
		DateAdded: c.DateAdded,
	}
}
