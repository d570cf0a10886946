// internal/app/features/teams/mine.go
package teams

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// ServeMyTeams returns the teams the caller leads or belongs to.
//
// Route: GET /api/teams/my-teams
func (h *Handler) ServeMyTeams(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ts, err := teamstore.New(h.DB).ListByMember(ctx, uid)
	if err != nil {
		h.Log.Error("list my teams failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load teams.")
		return
	}

	vs, err := buildViews(ctx, h.DB, ts)
	if err != nil {
		h.Log.Error("resolve team users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load teams.")
		return
	}

	httpjson.OK(w, vs)
}

// teamRequests groups the pending requests of one led team.
type teamRequests struct {
	Team     teamView             `json:"team"`
	Requests []models.JoinRequest `json:"requests"`
}

// ServeMyJoinRequests returns the pending requests to every team the
// caller leads, grouped per team.
//
// Route: GET /api/teams/my-join-requests
func (h *Handler) ServeMyJoinRequests(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	led, err := teamstore.New(h.DB).ListByLeader(ctx, uid)
	if err != nil {
		h.Log.Error("list led teams failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load requests.")
		return
	}

	vs, err := buildViews(ctx, h.DB, led)
	if err != nil {
		h.Log.Error("resolve team users failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load requests.")
		return
	}

	jrStore := joinrequeststore.New(h.DB)
	out := make([]teamRequests, 0, len(led))
	for i, t := range led {
		reqs, err := jrStore.ListPendingByTeam(ctx, t.ID)
		if err != nil {
			h.Log.Error("list pending requests failed", zap.Error(err), zap.String("team_id", t.ID.Hex()))
			httpjson.Error(w, http.StatusInternalServerError, "Could not load requests.")
			return
		}
		if reqs == nil {
			reqs = []models.JoinRequest{}
		}
		out = append(out, teamRequests{Team: vs[i], Requests: reqs})
	}

	httpjson.OK(w, out)
}

// ServeMyRequestHistory returns the caller's own requests, newest
// first, terminal states included.
//
// Route: GET /api/teams/my-requests-history
func (h *Handler) ServeMyRequestHistory(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := joinrequeststore.New(h.DB).ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error("list request history failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load requests.")
		return
	}
	if reqs == nil {
		reqs = []models.JoinRequest{}
	}

	httpjson.OK(w, reqs)
}
