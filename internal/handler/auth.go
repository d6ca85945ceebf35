package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanbong/field-booking/internal/config"
	"github.com/sanbong/field-booking/internal/model"
	"github.com/sanbong/field-booking/internal/repository"
	"github.com/sanbong/field-booking/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginReq struct {
	// Identifier is an email address or a phone number.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a user account with role "user" and returns a token
// pair.  Roles are never taken from the request; promotion happens only
// through club application approval or an admin edit.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		return respond(c, http.StatusBadRequest, "name, email, phone and password are required", nil)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to create user", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Status:       model.UserActive,
	}
	uid, err := h.Users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return respond(c, http.StatusConflict, "email or phone already registered", nil)
		}
		return respond(c, http.StatusInternalServerError, "failed to create user", nil)
	}

	return h.issuePair(c, http.StatusCreated, "registered", model.User{
		ID: uid, Name: req.Name, Email: req.Email, Phone: req.Phone, Role: model.RoleUser,
	})
}

// Login verifies credentials against the email or phone identifier and
// returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "invalid body", nil)
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		return respond(c, http.StatusBadRequest, "identifier and password are required", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	var (
		u   model.User
		err error
	)
	if strings.Contains(req.Identifier, "@") {
		u, err = h.Users.GetByEmail(ctx, strings.ToLower(req.Identifier))
	} else {
		u, err = h.Users.GetByPhone(ctx, req.Identifier)
	}
	if err != nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		// One message for both cases; do not reveal which part failed.
		return respond(c, http.StatusUnauthorized, "invalid credentials", nil)
	}
	if u.Status != model.UserActive {
		return respond(c, http.StatusForbidden, "account is inactive", nil)
	}

	return h.issuePair(c, http.StatusOK, "logged in", u)
}

// Refresh exchanges a valid refresh token for a new pair.  The old
// token is revoked: refresh tokens are single-use.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return respond(c, http.StatusBadRequest, "refresh_token is required", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "invalid refresh token", nil)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "invalid refresh token", nil)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return respond(c, http.StatusInternalServerError, "failed to rotate token", nil)
	}

	return h.issuePair(c, http.StatusOK, "refreshed", u)
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return respond(c, http.StatusBadRequest, "refresh_token is required", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return respond(c, http.StatusInternalServerError, "failed to log out", nil)
	}
	return respond(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) issuePair(c echo.Context, status int, message string, u model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to issue token", nil)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "failed to issue token", nil)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return respond(c, http.StatusInternalServerError, "failed to issue token", nil)
	}

	return respond(c, status, message, authResp{
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}
