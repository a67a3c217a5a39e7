package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/events"
	authmw "github.com/realtyconnect/community-api/internal/middleware/auth"
	"github.com/realtyconnect/community-api/internal/service"
	"github.com/realtyconnect/community-api/internal/util"
)

type UserHandler struct {
	Social   *service.SocialService
	Posts    *service.PostService
	Producer *events.Producer
}

func userRoom(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.Social.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"user": profile},
	})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	var req struct {
		FirstName           *string   `json:"firstName"`
		LastName            *string   `json:"lastName"`
		Bio                 *string   `json:"bio"`
		Avatar              *string   `json:"avatar"`
		Location            *string   `json:"location"`
		InvestmentGoals     *[]string `json:"investmentGoals"`
		TotalAssets         *float64  `json:"totalAssets"`
		MonthlyRentalIncome *float64  `json:"monthlyRentalIncome"`
		PropertyCount       *int      `json:"propertyCount"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	updated, err := h.Social.UpdateProfile(c.Request().Context(), user.ID, service.ProfilePatch{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Bio:                 req.Bio,
		Avatar:              req.Avatar,
		Location:            req.Location,
		InvestmentGoals:     req.InvestmentGoals,
		TotalAssets:         req.TotalAssets,
		MonthlyRentalIncome: req.MonthlyRentalIncome,
		PropertyCount:       req.PropertyCount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "profile updated",
		"data":    echo.Map{"user": updated},
	})
}

func (h *UserHandler) GetUserPosts(c echo.Context) error {
	userID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	page, limit := util.Normalize(pageParams(c))

	var viewerID uint
	if viewer, ok := authmw.CurrentUser(c); ok {
		viewerID = viewer.ID
	}

	res, err := h.Posts.ListByAuthor(c.Request().Context(), userID, util.Offset(page, limit), limit, viewerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts":      res.Posts,
			"pagination": pagination(page, limit, res.Total, util.Pages(res.Total, limit)),
		},
	})
}

func (h *UserHandler) Follow(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	targetID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Social.Follow(c.Request().Context(), user.ID, targetID); err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, userRoom(targetID), map[string]interface{}{
		"type":       "user_followed",
		"userId":     targetID,
		"followerId": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "follow complete",
	})
}

func (h *UserHandler) Unfollow(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	targetID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Social.Unfollow(c.Request().Context(), user.ID, targetID); err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, userRoom(targetID), map[string]interface{}{
		"type":       "user_unfollowed",
		"userId":     targetID,
		"followerId": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "unfollow complete",
	})
}
