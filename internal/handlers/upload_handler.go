package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/services"
)

// UploadHandler exposes standalone image upload, used by clients that
// upload photos before submitting the item form.
type UploadHandler struct {
	media *services.MediaService
}

func NewUploadHandler(media *services.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

// Image uploads a single file sent in the "image" field.
func (h *UploadHandler) Image(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return apperr.Validation("image", "No image provided")
	}

	urls, err := h.media.SaveImages(c.UserContext(), []*multipart.FileHeader{fh})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Image uploaded successfully",
		"imageUrl": urls[0],
	})
}

// Images uploads up to services.MaxImagesPerItem files sent in the
// "images" field.
func (h *UploadHandler) Images(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.Validation("images", "No images provided")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return apperr.Validation("images", "No images provided")
	}

	urls, err := h.media.SaveImages(c.UserContext(), files)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d image(s) uploaded successfully", len(urls)),
		"images":  urls,
	})
}
