package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/events"
	authmw "github.com/realtyconnect/community-api/internal/middleware/auth"
	"github.com/realtyconnect/community-api/internal/repo"
	"github.com/realtyconnect/community-api/internal/service"
	"github.com/realtyconnect/community-api/internal/util"
)

type PostHandler struct {
	Posts    *service.PostService
	Producer *events.Producer
}

func postRoom(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

type postBody struct {
	Content  *string   `json:"content"`
	Images   *[]string `json:"images"`
	Tags     *[]string `json:"tags"`
	Location *string   `json:"location"`
	IsPublic *bool     `json:"isPublic"`
}

func (h *PostHandler) Create(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	var req postBody
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		return apperr.Validation("content is required")
	}

	in := service.PostInput{Content: *req.Content, IsPublic: req.IsPublic}
	if req.Images != nil {
		in.Images = *req.Images
	}
	if req.Tags != nil {
		in.Tags = *req.Tags
	}
	if req.Location != nil {
		in.Location = *req.Location
	}

	post, err := h.Posts.Create(c.Request().Context(), user.ID, in)
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicPostEvents, postRoom(post.ID), map[string]interface{}{
		"type":     "post_created",
		"postId":   post.ID,
		"authorId": user.ID,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "post created",
		"data":    echo.Map{"post": post},
	})
}

func (h *PostHandler) List(c echo.Context) error {
	page, limit := util.Normalize(pageParams(c))

	filter := repo.PostFilter{Location: c.QueryParam("location")}
	if tags := c.QueryParam("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	if author := c.QueryParam("author"); author != "" {
		id, err := idFromString(author)
		if err != nil {
			return err
		}
		filter.AuthorID = id
	}

	var viewerID uint
	if viewer, ok := authmw.CurrentUser(c); ok {
		viewerID = viewer.ID
	}

	res, err := h.Posts.List(c.Request().Context(), filter, util.Offset(page, limit), limit, viewerID)
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

func (h *PostHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.Validation("query parameter q is required")
	}

	page, limit := util.Normalize(pageParams(c))

	total, docs, err := h.Posts.Search(c.Request().Context(), q, util.Offset(page, limit), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"total": total, "posts": docs},
	})
}

func (h *PostHandler) Get(c echo.Context) error {
	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var viewerID uint
	if viewer, ok := authmw.CurrentUser(c); ok {
		viewerID = viewer.ID
	}

	post, err := h.Posts.Get(c.Request().Context(), postID, viewerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"post": post},
	})
}

func (h *PostHandler) Update(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req postBody
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	post, err := h.Posts.Update(c.Request().Context(), postID, user.ID, service.PostPatch{
		Content:  req.Content,
		Images:   req.Images,
		Tags:     req.Tags,
		Location: req.Location,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicPostEvents, postRoom(post.ID), map[string]interface{}{
		"type":   "post_updated",
		"postId": post.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "post updated",
		"data":    echo.Map{"post": post},
	})
}

func (h *PostHandler) Delete(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.Posts.Delete(c.Request().Context(), postID, user.ID); err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicPostEvents, postRoom(postID), map[string]interface{}{
		"type":   "post_deleted",
		"postId": postID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "post deleted",
	})
}

func (h *PostHandler) Like(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	count, err := h.Posts.Like(c.Request().Context(), postID, user.ID)
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicPostEvents, postRoom(postID), map[string]interface{}{
		"type":       "post_liked",
		"postId":     postID,
		"userId":     user.ID,
		"likesCount": count,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "like added",
		"data":    echo.Map{"likesCount": count},
	})
}

func (h *PostHandler) Unlike(c echo.Context) error {
	user := authmw.MustCurrentUser(c)

	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	count, err := h.Posts.Unlike(c.Request().Context(), postID, user.ID)
	if err != nil {
		return err
	}

	publish(c, h.Producer, events.TopicPostEvents, postRoom(postID), map[string]interface{}{
		"type":       "post_unliked",
		"postId":     postID,
		"userId":     user.ID,
		"likesCount": count,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "like removed",
		"data":    echo.Map{"likesCount": count},
	})
}

func (h *PostHandler) Share(c echo.Context) error {
	postID, err := idParam(c, "id")
	if err != nil {
		return err
	}

	shares, err := h.Posts.Share(c.Request().Context(), postID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"shares": shares},
	})
}
