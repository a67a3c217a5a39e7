package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/events"
	authmw "github.com/realtyconnect/community-api/internal/middleware/auth"
	"github.com/realtyconnect/community-api/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Social   *service.SocialService
	Producer *events.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Username  string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	switch {
	case !validEmail(req.Email):
		return apperr.Validation("a valid email is required")
	case len(req.Password) < 6:
		return apperr.Validation("password must be at least 6 characters")
	case len(req.Password) > 72:
		// bcrypt ignores everything past 72 bytes and newer versions error out
		return apperr.Validation("password must be at most 72 characters")
	case len(req.Username) < 3:
		return apperr.Validation("username must be at least 3 characters")
	case req.FirstName == "" || req.LastName == "":
		return apperr.Validation("first and last name are required")
	}

	user, pair, err := h.Svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, userRoom(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"userId":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "registration complete",
		"data": echo.Map{
			"user":         user,
			"token":        pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return apperr.Validation("email and password are required")
	}

	user, pair, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, userRoom(user.ID), map[string]interface{}{
		"type":   "user_logged_in",
		"userId": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login complete",
		"data": echo.Map{
			"user":         user,
			"token":        pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		},
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	pair, err := h.Svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"token":        pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		},
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	if err := h.Svc.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "logout complete",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	profile, err := h.Social.Profile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"user": profile},
	})
}
