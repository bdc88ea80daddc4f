package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/metrics"
	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

type NearbyFinder interface {
	FindNearby(ctx context.Context, userID string) domain.NearbyResult
}

type FamilyFinder interface {
	FindFamily(ctx context.Context, userID string) (domain.FamilyResult, error)
}

type PresenceHandler struct {
	nearby NearbyFinder
	family FamilyFinder
	log    *zap.Logger
}

func NewPresenceHandler(nearby NearbyFinder, family FamilyFinder, log *zap.Logger) *PresenceHandler {
	return &PresenceHandler{nearby: nearby, family: family, log: log}
}

type NearbyResponse struct {
	UserIDs   []string            `json:"user_ids"`
	SocketIDs []string            `json:"socket_ids"`
	Users     []domain.NearbyUser `json:"users"`
}

func NewNearbyResponse(res domain.NearbyResult) NearbyResponse {
	return NearbyResponse{
		UserIDs:   res.UserIDs(),
		SocketIDs: res.SessionIDs(),
		Users:     res.Users,
	}
}

// FamilyResponse lists one entry per contact. SocketIDs[i] is "" when
// UserIDs[i] is not connected.
type FamilyResponse struct {
	UserIDs   []string               `json:"user_ids"`
	SocketIDs []string               `json:"socket_ids"`
	Contacts  []domain.FamilyContact `json:"contacts"`
}

func NewFamilyResponse(res domain.FamilyResult) FamilyResponse {
	return FamilyResponse{
		UserIDs:   res.ContactIDs(),
		SocketIDs: res.SessionIDs(),
		Contacts:  res.Contacts,
	}
}

func (h *PresenceHandler) Nearby(c *gin.Context) {
	defer observe("nearby", time.Now())

	res := h.nearby.FindNearby(c.Request.Context(), currentUserID(c))
	c.JSON(http.StatusOK, NewNearbyResponse(res))
}

func (h *PresenceHandler) Family(c *gin.Context) {
	defer observe("family", time.Now())

	userID := currentUserID(c)
	res, err := h.family.FindFamily(c.Request.Context(), userID)
	if err != nil {
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error("family query failed", zap.String("user_id", userID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewFamilyResponse(res))
}

// StatusFor maps query errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidUserID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSnapshotUnavailable),
		errors.Is(err, domain.ErrSnapshotCorrupt),
		errors.Is(err, domain.ErrDirectoryFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func observe(query string, start time.Time) {
	metrics.QueriesTotal.WithLabelValues(query).Inc()
	metrics.QueryDurationMs.WithLabelValues(query).Observe(float64(time.Since(start).Milliseconds()))
}
