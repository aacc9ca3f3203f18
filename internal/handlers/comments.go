package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nursery-tracker/internal/models"
	"nursery-tracker/internal/services"
)

type CommentsHandler struct {
	service *services.ProjectService
}

func NewCommentsHandler(service *services.ProjectService) *CommentsHandler {
	return &CommentsHandler{
		service: service,
	}
}

// Add godoc
// @Summary     Add a comment
// @Description Appends a comment to the project's thread. Comments are immutable once created.
// @Tags        comments
// @Accept      json
// @Produce     json
// @Param       project_id path string true "Project id"
// @Param       comment body models.AddCommentRequest true "Author and text"
// @Success     200 {object} models.CommentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/comments [post]
func (h *CommentsHandler) Add(c *gin.Context) {
	projectID := c.Param("project_id")

	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation error",
			Message: err.Error(),
		})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), projectID, req.Author, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, commentResponse(*comment))
}

// ListForProject godoc
// @Summary     List comments
// @Description Returns the project's comment thread, most recent first
// @Tags        comments
// @Produce     json
// @Param       project_id path string true "Project id"
// @Success     200 {object} models.CommentListResponse
// @Router      /projects/{project_id}/comments [get]
func (h *CommentsHandler) ListForProject(c *gin.Context) {
	projectID := c.Param("project_id")

	comments, err := h.service.ListComments(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.CommentResponse, len(comments))
	for i, cm := range comments {
		responses[i] = commentResponse(cm)
	}

	c.JSON(http.StatusOK, models.CommentListResponse{Comments: responses})
}
