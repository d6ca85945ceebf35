package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
)

// FieldHandler exposes the field catalogue.  Reads are public and run
// behind the response cache; writes are admin only.
type FieldHandler struct {
	Fields *repository.FieldRepo
}

func NewFieldHandler(f *repository.FieldRepo) *FieldHandler {
	return &FieldHandler{Fields: f}
}

type templateSlotReq struct {
	TimeLabel string `json:"timeLabel"`
	Price     int64  `json:"price"`
}

type templateSlotResp struct {
	TimeLabel string `json:"timeLabel"`
	Price     int64  `json:"price"`
}

type fieldReq struct {
	Name        string            `json:"name"`
	Location    string            `json:"location"`
	Manager     string            `json:"manager"`
	Description string            `json:"description"`
	Type        string            `json:"type"`
	Price       int64             `json:"price"`
	ImageSrc    string            `json:"imageSrc"`
	ImageAlt    string            `json:"imageAlt"`
	Title       string            `json:"title"`
	Template    []templateSlotReq `json:"template"`
}

type fieldResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Manager     string `json:"manager"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Price       int64  `json:"price"`
	ImageSrc    string `json:"imageSrc,omitempty"`
	ImageAlt    string `json:"imageAlt,omitempty"`
	Title       string `json:"title,omitempty"`
}

func toFieldResp(f model.Field) fieldResp {
	return fieldResp{
		ID:          f.ID,
		Name:        f.Name,
		Location:    f.Location,
		Manager:     f.Manager,
		Description: f.Description,
		Type:        string(f.Type),
		Price:       f.Price,
		ImageSrc:    f.ImageSrc,
		ImageAlt:    f.ImageAlt,
		Title:       f.Title,
	}
}

func (req fieldReq) toModel() (model.Field, []model.TemplateSlot, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Field{}, nil, errors.New("name is required")
	}
	ft := model.FieldType(req.Type)
	if !ft.Valid() {
		return model.Field{}, nil, errors.New("type must be 5v5, 7v7 or 11v11")
	}
	if req.Price <= 0 {
		return model.Field{}, nil, errors.New("price must be positive")
	}
	f := model.Field{
		Name:        name,
		Location:    req.Location,
		Manager:     req.Manager,
		Description: req.Description,
		Type:        ft,
		Price:       req.Price,
		ImageSrc:    req.ImageSrc,
		ImageAlt:    req.ImageAlt,
		Title:       req.Title,
	}
	tmpl := make([]model.TemplateSlot, 0, len(req.Template))
	for i, ts := range req.Template {
		if strings.TrimSpace(ts.TimeLabel) == "" {
			return model.Field{}, nil, errors.New("template slot label must not be empty")
		}
		price := ts.Price
		if price <= 0 {
			price = req.Price
		}
		tmpl = append(tmpl, model.TemplateSlot{TimeLabel: ts.TimeLabel, Price: price, Position: i})
	}
	return f, tmpl, nil
}

// List returns every field.  Public.
func (h *FieldHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	fields, err := h.Fields.List(ctx)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list fields", nil)
	}
	out := make([]fieldResp, 0, len(fields))
	for _, f := range fields {
		out = append(out, toFieldResp(f))
	}
	return respond(c, http.StatusOK, "fields", out)
}

// Get returns one field with its slot template.  Public.
func (h *FieldHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "fieldId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid field id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	f, err := h.Fields.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return respond(c, http.StatusNotFound, "field not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load field", nil)
	}
	tmpl, err := h.Fields.Template(ctx, id)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to load field", nil)
	}
	out := make([]templateSlotResp, 0, len(tmpl))
	for _, ts := range tmpl {
		out = append(out, templateSlotResp{TimeLabel: ts.TimeLabel, Price: ts.Price})
	}
	return respond(c, http.StatusOK, "field", echo.Map{
		"field":    toFieldResp(f),
		"template": out,
	})
}

// Create adds a field.  Admin only.
func (h *FieldHandler) Create(c echo.Context) error {
	var req fieldReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	f, tmpl, err := req.toModel()
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Fields.Create(ctx, &f, tmpl); err != nil {
		return respond(c, http.StatusInternalServerError, "failed to create field", nil)
	}
	return respond(c, http.StatusCreated, "field created", toFieldResp(f))
}

// Update replaces a field and its template.  Admin only.
func (h *FieldHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "fieldId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid field id", nil)
	}
	var req fieldReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	f, tmpl, err := req.toModel()
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	f.ID = id

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Fields.Update(ctx, &f, tmpl); err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return respond(c, http.StatusNotFound, "field not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to update field", nil)
	}
	return respond(c, http.StatusOK, "field updated", toFieldResp(f))
}

// Delete removes a field.  Admin only.
func (h *FieldHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "fieldId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid field id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Fields.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrFieldNotFound) {
			return respond(c, http.StatusNotFound, "field not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to delete field", nil)
	}
	return respond(c, http.StatusOK, "field deleted", nil)
}
