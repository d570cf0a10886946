// internal/app/features/teams/rate.go
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/inputval"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

type rateRequest struct {
	Score int `json:"score"`
}

type rateResponse struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// HandleRate records the caller's 1-5 score for a team. A second
// rating from the same user replaces the first.
//
// Route: POST /api/teams/{id}/rate
func (h *Handler) HandleRate(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id.")
		return
	}

	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req rateRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if !inputval.IsValidScore(req.Score) {
		httpjson.Error(w, http.StatusBadRequest, "Score must be between 1 and 5.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := teamstore.New(h.DB).Rate(ctx, oid, uid, req.Score)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Team not found.")
			return
		}
		h.Log.Error("rate team failed", zap.Error(err), zap.String("team_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not save rating.")
		return
	}

	httpjson.OK(w, rateResponse{
		AverageRating: updated.AverageRating(),
		RatingCount:   len(updated.Ratings),
	})
}
