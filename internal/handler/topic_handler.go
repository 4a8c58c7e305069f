package handler

import (
	"net/http"
	"strconv"

	"kafka-governance/internal/middleware"
	"kafka-governance/internal/sync"
	"kafka-governance/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListTopics handles the owned-topics row view: recorded topics grouped by
// name across environments, catalog only.
func ListTopics(c echo.Context) error {
	log := logger.FromEcho(c)
	p := middleware.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	q := sync.RowViewQuery{
		RoleFilter:  c.QueryParam("role"),
		PageNo:      c.QueryParam("page_no"),
		CurrentPage: c.QueryParam("current_page"),
		NameFilter:  c.QueryParam("topic_name_search"),
	}
	if q.PageNo == "" {
		q.PageNo = "1"
	}
	if v := c.QueryParam("env_id"); v != "" {
		envID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			log.Warn("Invalid env_id parameter", zap.String("value", v), zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "env_id must be a positive integer"})
		}
		q.EnvironmentID = uint(envID)
	}
	if v := c.QueryParam("team_id"); v != "" {
		teamID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			log.Warn("Invalid team_id parameter", zap.String("value", v), zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "team_id must be a positive integer"})
		}
		q.TeamID = uint(teamID)
	}

	log.Info("Listing topics row view",
		zap.Uint("environment_id", q.EnvironmentID),
		zap.Uint("team_id", q.TeamID),
		zap.String("role", q.RoleFilter))

	page, err := syncService.TopicsRowView(p, q)
	if err != nil {
		return writeServiceError(c, log, "Failed to list topics", err)
	}
	return c.JSON(http.StatusOK, page)
}
