package handlers

import (
	"context"
	"net/mail"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/apperr"
	"github.com/realtyconnect/community-api/internal/events"
	"github.com/realtyconnect/community-api/internal/logging"
)

func idParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id: " + raw)
	}
	return uint(id), nil
}

func idFromString(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id: " + raw)
	}
	return uint(id), nil
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// publish sends a room event; delivery failures are logged, never surfaced
// to the client.
func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event publish failed", "topic", topic, "error", err)
	}
}

func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func pagination(page, limit int, total int64, pages int) echo.Map {
	return echo.Map{
		"page":  page,
		"limit": limit,
		"total": total,
		"pages": pages,
	}
}
