package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
)

// ClubApplicationHandler manages requests to register a club.  Approval
// promotes the applicant to the manager role.
type ClubApplicationHandler struct {
	Applications *repository.ClubApplicationRepo
	Users        *repository.UserRepo
}

func NewClubApplicationHandler(a *repository.ClubApplicationRepo, u *repository.UserRepo) *ClubApplicationHandler {
	return &ClubApplicationHandler{Applications: a, Users: u}
}

type applicationReq struct {
	ClubName    string `json:"clubName"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

type applicationResp struct {
	ID          uint64     `json:"id"`
	UserID      uint64     `json:"userId"`
	ClubName    string     `json:"clubName"`
	Description string     `json:"description,omitempty"`
	Contact     string     `json:"contact,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty"`
}

func toApplicationResp(a model.ClubApplication) applicationResp {
	return applicationResp{
		ID:          a.ID,
		UserID:      a.UserID,
		ClubName:    a.ClubName,
		Description: a.Description,
		Contact:     a.Contact,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		ApprovedAt:  a.ApprovedAt,
		RejectedAt:  a.RejectedAt,
	}
}

// List returns applications, optionally filtered by status.  Admin only.
func (h *ClubApplicationHandler) List(c echo.Context) error {
	status := model.ApplicationStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return respond(c, http.StatusBadRequest, "invalid status filter", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	apps, err := h.Applications.List(ctx, status)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list applications", nil)
	}
	out := make([]applicationResp, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResp(a))
	}
	return respond(c, http.StatusOK, "applications", out)
}

// Get returns one application.  Owners see their own; admins see all.
func (h *ClubApplicationHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "applicationId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid application id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	a, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return respond(c, http.StatusNotFound, "application not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load application", nil)
	}
	if authRole(c) != string(model.RoleAdmin) && a.UserID != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}
	return respond(c, http.StatusOK, "application", toApplicationResp(a))
}

// ListByUser returns a user's applications.  Users may only list their
// own; admins may list anyone's.
func (h *ClubApplicationHandler) ListByUser(c echo.Context) error {
	uid, ok := paramID(c, "userId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid user id", nil)
	}
	if authRole(c) != string(model.RoleAdmin) && uid != authUserID(c) {
		return respond(c, http.StatusForbidden, "forbidden", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	apps, err := h.Applications.ListByUser(ctx, uid)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list applications", nil)
	}
	out := make([]applicationResp, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResp(a))
	}
	return respond(c, http.StatusOK, "applications", out)
}

// Create submits a new application for the authenticated user.
func (h *ClubApplicationHandler) Create(c echo.Context) error {
	var req applicationReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	req.ClubName = strings.TrimSpace(req.ClubName)
	if req.ClubName == "" {
		return respond(c, http.StatusBadRequest, "clubName is required", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	a := model.ClubApplication{
		UserID:      authUserID(c),
		ClubName:    req.ClubName,
		Description: req.Description,
		Contact:     req.Contact,
	}
	if err := h.Applications.Create(ctx, &a); err != nil {
		return respond(c, http.StatusInternalServerError, "failed to submit application", nil)
	}
	return respond(c, http.StatusCreated, "application submitted", toApplicationResp(a))
}

// Approve accepts a pending application and promotes the applicant to
// manager.  Admin only.
func (h *ClubApplicationHandler) Approve(c echo.Context) error {
	return h.review(c, model.ApplicationApproved)
}

// Reject declines a pending application.  Admin only.
func (h *ClubApplicationHandler) Reject(c echo.Context) error {
	return h.review(c, model.ApplicationRejected)
}

func (h *ClubApplicationHandler) review(c echo.Context, decision model.ApplicationStatus) error {
	id, ok := paramID(c, "applicationId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid application id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	existing, err := h.Applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return respond(c, http.StatusNotFound, "application not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load application", nil)
	}
	if existing.Status != model.ApplicationPending {
		return respond(c, http.StatusBadRequest, "application has already been reviewed", nil)
	}

	a, err := h.Applications.SetStatus(ctx, id, decision, time.Now().UTC())
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to update application", nil)
	}

	if decision == model.ApplicationApproved {
		if err := h.Users.UpdateRole(ctx, a.UserID, model.RoleManager); err != nil {
			return respond(c, http.StatusInternalServerError, "application approved but promotion failed", nil)
		}
		return respond(c, http.StatusOK, "application approved", toApplicationResp(a))
	}
	return respond(c, http.StatusOK, "application rejected", toApplicationResp(a))
}

// Delete removes an application.  Admin only.
func (h *ClubApplicationHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "applicationId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid application id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Applications.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return respond(c, http.StatusNotFound, "application not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to delete application", nil)
	}
	return respond(c, http.StatusOK, "application deleted", nil)
}
