package handler

import (
	"errors"
	"net/http"
	"strconv"

	"kafka-governance/internal/middleware"
	"kafka-governance/internal/model"
	"kafka-governance/internal/sync"
	"kafka-governance/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var syncService *sync.Service

// Init wires the sync service into the package-level handlers
func Init(service *sync.Service) {
	syncService = service
}

// listQueryFromRequest extracts the shared diff listing parameters
func listQueryFromRequest(c echo.Context) (sync.ListQuery, error) {
	envID, err := strconv.ParseUint(c.QueryParam("env_id"), 10, 32)
	if err != nil {
		return sync.ListQuery{}, err
	}
	q := sync.ListQuery{
		EnvironmentID: uint(envID),
		PageNo:        c.QueryParam("page_no"),
		CurrentPage:   c.QueryParam("current_page"),
		NameFilter:    c.QueryParam("topic_name_search"),
	}
	if q.PageNo == "" {
		q.PageNo = "1"
	}
	if c.QueryParam("refresh") == "true" {
		q.ForceRefresh = true
	}
	return q, nil
}

// GetSyncTopics handles the full-mode diff listing for an environment
func GetSyncTopics(c echo.Context) error {
	log := logger.FromEcho(c)
	p := middleware.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	q, err := listQueryFromRequest(c)
	if err != nil {
		log.Warn("Invalid env_id parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "env_id must be a positive integer"})
	}

	log.Info("Listing sync topics",
		zap.Uint("environment_id", q.EnvironmentID),
		zap.String("page_no", q.PageNo))

	list, err := syncService.SyncTopicList(p, p.TenantID, q)
	if err != nil {
		return writeServiceError(c, log, "Failed to list sync topics", err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetReconTopics handles the reconciliation-mode diff listing: drift only
func GetReconTopics(c echo.Context) error {
	log := logger.FromEcho(c)
	p := middleware.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	q, err := listQueryFromRequest(c)
	if err != nil {
		log.Warn("Invalid env_id parameter", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "env_id must be a positive integer"})
	}

	log.Info("Listing reconciliation topics",
		zap.Uint("environment_id", q.EnvironmentID),
		zap.String("page_no", q.PageNo))

	list, err := syncService.ReconTopicList(p, p.TenantID, q)
	if err != nil {
		return writeServiceError(c, log, "Failed to list reconciliation topics", err)
	}
	return c.JSON(http.StatusOK, list)
}

// CommitSyncDecisions handles a batch of operator ownership decisions
func CommitSyncDecisions(c echo.Context) error {
	log := logger.FromEcho(c)
	p := middleware.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var decisions []model.SyncDecision
	if err := c.Bind(&decisions); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if len(decisions) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No topics selected"})
	}

	log.Info("Committing sync decisions", zap.Int("count", len(decisions)))

	resp, err := syncService.CommitDecisions(p, decisions)
	if err != nil {
		return writeServiceError(c, log, "Failed to commit sync decisions", err)
	}
	return writeApiResponse(c, resp)
}

// BulkAssignTopics handles bulk team assignment for a source environment
func BulkAssignTopics(c echo.Context) error {
	log := logger.FromEcho(c)
	p := middleware.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req sync.SyncBulkRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Bulk topic assignment requested",
		zap.Uint("source_env_id", req.SourceEnvID),
		zap.String("selected_team", req.SelectedTeam),
		zap.String("type_of_sync", req.TypeOfSync))

	resp, err := syncService.BulkAssign(p, req)
	if err != nil {
		return writeServiceError(c, log, "Failed to bulk assign topics", err)
	}
	return writeApiResponse(c, resp)
}

// SyncBackTopics handles propagating recorded topics back onto a cluster
func SyncBackTopics(c echo.Context) error {
	log := logger.FromEcho(c)
	p := middleware.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req sync.SyncBackRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Sync back requested",
		zap.Uint("source_env_id", req.SourceEnvID),
		zap.Uint("target_env_id", req.TargetEnvID),
		zap.String("type_of_sync", req.TypeOfSync))

	resp, err := syncService.SyncBack(p, req)
	if err != nil {
		return writeServiceError(c, log, "Failed to sync back topics", err)
	}
	return writeApiResponse(c, resp)
}

// writeApiResponse maps a service outcome to the HTTP status
func writeApiResponse(c echo.Context, resp *sync.ApiResponse) error {
	if !resp.Success && resp.Message == sync.NotAuthorizedMessage {
		return c.JSON(http.StatusForbidden, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

func writeServiceError(c echo.Context, log *zap.Logger, message string, err error) error {
	if errors.Is(err, sync.ErrNotAuthorized) {
		log.Warn("Operation not authorized", zap.Error(err))
		return c.JSON(http.StatusForbidden, echo.Map{"error": sync.NotAuthorizedMessage})
	}
	log.Error(message, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": message})
}
