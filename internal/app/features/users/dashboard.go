// internal/app/features/users/dashboard.go
package users

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type dashboardStats struct {
	TeamCount           int   `json:"team_count"`
	ActiveProjectCount  int64 `json:"active_project_count"`
	UpcomingEventCount  int64 `json:"upcoming_event_count"`
	PendingJoinRequests int64 `json:"pending_join_requests"`
}

// ServeDashboardStats aggregates the caller's counters: teams they
// belong to, in-progress projects across those teams, upcoming events
// they registered for, and pending requests to teams they lead.
//
// Route: GET /api/users/dashboard/stats
func (h *Handler) ServeDashboardStats(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teams, err := teamstore.New(h.DB).ListByMember(ctx, uid)
	if err != nil {
		h.Log.Error("dashboard: list teams failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load stats.")
		return
	}

	teamIDs := make([]primitive.ObjectID, 0, len(teams))
	ledIDs := make([]primitive.ObjectID, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
		if t.LeaderID == uid {
			ledIDs = append(ledIDs, t.ID)
		}
	}

	stats := dashboardStats{TeamCount: len(teams)}

	if len(teamIDs) > 0 {
		n, err := h.DB.Collection("projects").CountDocuments(ctx, bson.M{
			"team_id": bson.M{"$in": teamIDs},
			"status":  models.ProjectInProgress,
		})
		if err != nil {
			h.Log.Error("dashboard: count projects failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not load stats.")
			return
		}
		stats.ActiveProjectCount = n
	}

	upcoming, err := h.DB.Collection("events").CountDocuments(ctx, bson.M{
		"registered_user_ids": uid,
		"is_archived":         false,
		"date":                bson.M{"$gte": time.Now().UTC()},
	})
	if err != nil {
		h.Log.Error("dashboard: count events failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load stats.")
		return
	}
	stats.UpcomingEventCount = upcoming

	if len(ledIDs) > 0 {
		n, err := h.DB.Collection("join_requests").CountDocuments(ctx, bson.M{
			"team_id": bson.M{"$in": ledIDs},
			"status":  models.JoinRequestPending,
		})
		if err != nil {
			h.Log.Error("dashboard: count join requests failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not load stats.")
			return
		}
		stats.PendingJoinRequests = n
	}

	httpjson.OK(w, stats)
}
