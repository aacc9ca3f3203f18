package handlers

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"nursery-tracker/internal/models"
	"nursery-tracker/internal/services"
	"nursery-tracker/internal/storage"
)

// uploadFieldNames are tried in order when pulling the file out of a
// multipart form, so the UI is free to name the field naturally.
var uploadFieldNames = []string{"photo", "photos", "image", "images", "file", "files"}

type PhotosHandler struct {
	service *services.ProjectService
	blobs   storage.BlobStore
}

func NewPhotosHandler(service *services.ProjectService, blobs storage.BlobStore) *PhotosHandler {
	return &PhotosHandler{
		service: service,
		blobs:   blobs,
	}
}

// Upload godoc
// @Summary     Upload a project photo
// @Description Uploads the photo to the blob store and records it against the project
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Param       project_id path string true "Project id"
// @Param       photo formData file true "Photo file"
// @Param       caption formData string false "Caption"
// @Param       author formData string false "Author name"
// @Success     200 {object} models.PhotoResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /projects/{project_id}/photos [post]
func (h *PhotosHandler) Upload(c *gin.Context) {
	projectID := c.Param("project_id")

	file, data, mimeType, ok := readUploadedFile(c)
	if !ok {
		return
	}

	photo, err := h.service.UploadPhoto(c.Request.Context(), projectID, data,
		file.Filename, mimeType, c.PostForm("caption"), c.PostForm("author"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, photoResponse(*photo, h.blobs.URLFor(photo.BlobKey)))
}

// ListForProject godoc
// @Summary     List project photos
// @Description Returns the project's photos, newest first, with display URLs
// @Tags        photos
// @Produce     json
// @Param       project_id path string true "Project id"
// @Success     200 {object} models.PhotoListResponse
// @Router      /projects/{project_id}/photos [get]
func (h *PhotosHandler) ListForProject(c *gin.Context) {
	projectID := c.Param("project_id")

	photos, err := h.service.ListPhotos(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PhotoResponse, len(photos))
	for i, p := range photos {
		responses[i] = photoResponse(p, h.blobs.URLFor(p.BlobKey))
	}

	c.JSON(http.StatusOK, models.PhotoListResponse{Photos: responses})
}

// Delete godoc
// @Summary     Delete a photo
// @Description Deletes the backing blob, then the record. A failed blob delete keeps the record.
// @Tags        photos
// @Produce     json
// @Param       photo_id path int true "Photo id"
// @Success     200 {object} map[string]string
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /photos/{photo_id} [delete]
func (h *PhotosHandler) Delete(c *gin.Context) {
	photoID, ok := parsePhotoID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePhoto(c.Request.Context(), photoID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "photo deleted successfully"})
}

// Content streams the full-size blob behind a photo record.
func (h *PhotosHandler) Content(c *gin.Context) {
	photoID, ok := parsePhotoID(c)
	if !ok {
		return
	}

	photo, data, err := h.service.PhotoContent(c.Request.Context(), photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	mimeType := mime.TypeByExtension(filepath.Ext(photo.BlobKey))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Data(http.StatusOK, mimeType, data)
}

// SetHeaderImage godoc
// @Summary     Set the project header image
// @Description Uploads a new header blob, repoints the project, then deletes the old blob
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Param       project_id path string true "Project id"
// @Param       photo formData file true "Header image file"
// @Success     200 {object} map[string]string
// @Failure     404 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /projects/{project_id}/header-image [post]
func (h *PhotosHandler) SetHeaderImage(c *gin.Context) {
	projectID := c.Param("project_id")

	file, data, mimeType, ok := readUploadedFile(c)
	if !ok {
		return
	}

	key, err := h.service.SetHeaderImage(c.Request.Context(), projectID, data, file.Filename, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"header_image_key": key,
		"header_image_url": h.blobs.URLFor(key),
	})
}

func parsePhotoID(c *gin.Context) (int64, bool) {
	photoID, err := strconv.ParseInt(c.Param("photo_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid photo id"})
		return 0, false
	}
	return photoID, true
}

// readUploadedFile pulls the first file out of the multipart form, reading
// its bytes and resolving a MIME type. On failure it writes the error
// response itself.
func readUploadedFile(c *gin.Context) (*multipart.FileHeader, []byte, string, bool) {
	// 32MB form cap
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return nil, nil, "", false
	}

	form := c.Request.MultipartForm
	if form == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to parse multipart form"})
		return nil, nil, "", false
	}

	var file *multipart.FileHeader
	for _, fieldName := range uploadFieldNames {
		if f := form.File[fieldName]; len(f) > 0 {
			file = f[0]
			break
		}
	}
	if file == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: "provide a file under one of: photo, photos, image, images, file, files",
		})
		return nil, nil, "", false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return nil, nil, "", false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return nil, nil, "", false
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(file.Filename))
	}

	return file, data, mimeType, true
}
