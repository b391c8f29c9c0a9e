package handlers

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/middleware"
	"github.com/khojapp/khoj-server/internal/services"
	"github.com/khojapp/khoj-server/internal/validation"
)

type ItemHandler struct {
	items *services.ItemService
	media *services.MediaService
}

func NewItemHandler(items *services.ItemService, media *services.MediaService) *ItemHandler {
	return &ItemHandler{items: items, media: media}
}

// List returns items in the requester's college, filtered by the optional
// query parameters. Capped at services.ListLimit rows, newest first.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	q := services.ListQuery{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Campus:   c.Query("campus"),
		Search:   c.Query("search"),
	}
	items, err := h.items.List(c.UserContext(), middleware.RequestUser(c), q)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *ItemHandler) Mine(c *fiber.Ctx) error {
	items, err := h.items.Mine(c.UserContext(), middleware.RequestUser(c))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Create accepts either a JSON body (with image URLs from a prior upload
// call) or a multipart form carrying the item fields plus up to five image
// files. Files are resolved to URLs before the item is persisted.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in services.CreateItemInput
	var files []*multipart.FileHeader

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperr.Validation("", "Invalid multipart form")
		}
		in, err = itemInputFromForm(form)
		if err != nil {
			return err
		}
		files = form.File["images"]
	} else if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("", "Invalid request body")
	}

	if err := validation.Struct(in); err != nil {
		return err
	}

	if len(files) > 0 {
		urls, err := h.media.SaveImages(c.UserContext(), files)
		if err != nil {
			return err
		}
		in.Images = append(in.Images, urls...)
	}

	item, err := h.items.Create(c.UserContext(), middleware.RequestUser(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	item, err := h.items.Get(c.UserContext(), middleware.RequestUser(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in services.UpdateItemInput
	if err := c.BodyParser(&in); err != nil {
		return apperr.Validation("", "Invalid request body")
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	item, err := h.items.Update(c.UserContext(), middleware.RequestUser(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), middleware.RequestUser(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// itemInputFromForm maps multipart form values onto the create payload.
// The date accepts either a date-only value or RFC 3339.
func itemInputFromForm(form *multipart.Form) (services.CreateItemInput, error) {
	value := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	in := services.CreateItemInput{
		Type:              value("type"),
		Title:             value("title"),
		Description:       value("description"),
		Category:          value("category"),
		Location:          value("location"),
		Urgent:            value("urgent") == "true",
		ContactPreference: value("contactPreference"),
		Campus:            value("campus"),
	}

	raw := value("date")
	if raw == "" {
		return in, apperr.Validation("date", "date is required")
	}
	date, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		date, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return in, apperr.Validation("date", "date must be YYYY-MM-DD or RFC 3339")
	}
	in.Date = date
	return in, nil
}
