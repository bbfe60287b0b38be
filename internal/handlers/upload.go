package handlers

import (
	"errors"
	"net/http"

	"inkblog/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 << 10

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload accepts a multipart form with an "image" field and returns its URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploadService.MaxBytes()+multipartOverhead)

	fh, err := c.FormFile("image")
	if err != nil {
		switch {
		case isBodyTooLarge(err):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File too large"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "No image file provided"})
		}
		return
	}

	url, err := h.uploadService.SaveImage(c.Request.Context(), fh)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFile):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No image file provided"})
		case errors.Is(err, services.ErrNotImage):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Only image files are allowed"})
		case errors.Is(err, services.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File too large"})
		default:
			log.Error().Err(err).Msg("Image upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
