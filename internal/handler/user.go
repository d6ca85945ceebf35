package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
)

// UserHandler exposes account administration and the /users/me profile.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

type userResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		Bio:          u.Bio,
		Role:         string(u.Role),
		Status:       string(u.Status),
		RegisteredAt: u.RegisteredAt,
	}
}

// List returns all users, paginated.  Admin only.
func (h *UserHandler) List(c echo.Context) error {
	page, limit, offset := queryPage(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, limit, offset)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to list users", nil)
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return respond(c, http.StatusOK, "users", echo.Map{
		"users":      out,
		"pagination": newPagination(total, limit, page),
	})
}

// Get returns one user by id.  Admin only.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := paramID(c, "userId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid user id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respond(c, http.StatusNotFound, "user not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to load user", nil)
	}
	return respond(c, http.StatusOK, "user", toUserResp(u))
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	uid := authUserID(c)
	if uid == 0 {
		return respond(c, http.StatusUnauthorized, "not authenticated", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respond(c, http.StatusNotFound, "user not found", nil)
	}
	return respond(c, http.StatusOK, "me", toUserResp(u))
}

type updateUserReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Bio     string `json:"bio"`
	Role    string `json:"role"`
}

// Update edits profile fields, and optionally the role when the request
// carries one.  Admin only.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "userId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid user id", nil)
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.Update(ctx, id, req.Name, req.Phone, req.Address, req.Bio); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respond(c, http.StatusNotFound, "user not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to update user", nil)
	}
	if req.Role != "" {
		role := model.Role(req.Role)
		if !role.Valid() {
			return respond(c, http.StatusBadRequest, "invalid role", nil)
		}
		if err := h.Users.UpdateRole(ctx, id, role); err != nil {
			return respond(c, http.StatusInternalServerError, "failed to update role", nil)
		}
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to load user", nil)
	}
	return respond(c, http.StatusOK, "user updated", toUserResp(u))
}

// Delete removes a user account.  Admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := paramID(c, "userId")
	if !ok {
		return respond(c, http.StatusBadRequest, "invalid user id", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respond(c, http.StatusNotFound, "user not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to delete user", nil)
	}
	return respond(c, http.StatusOK, "user deleted", nil)
}
