// internal/app/features/profiles/me.go
package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/normalize"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// ServeMe returns the caller's profile, or 404 if they never created one.
//
// Route: GET /api/profiles/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).GetByUserID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Profile not found.")
			return
		}
		h.Log.Error("get profile failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load profile.")
		return
	}

	httpjson.OK(w, p)
}

// skillsField accepts either a JSON array of strings or a single
// comma-separated string, matching what clients actually send.
type skillsField []string

func (s *skillsField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = strings.Split(joined, ",")
	return nil
}

type upsertRequest struct {
	FullName       string                  `json:"full_name"`
	FieldOfStudy   string                  `json:"field_of_study"`
	Bio            string                  `json:"bio"`
	Skills         skillsField             `json:"skills"`
	WorkExperience []models.WorkExperience `json:"work_experience"`
	SocialLinks    models.SocialLinks      `json:"social_links"`
}

// HandleUpsertMe creates or updates the caller's profile in one call.
//
// Route: PUT /api/profiles/me
func (h *Handler) HandleUpsertMe(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req upsertRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := profilestore.New(h.DB).Upsert(ctx, models.Profile{
		UserID:         uid,
		FullName:       htmlsanitize.PlainText(req.FullName),
		FieldOfStudy:   htmlsanitize.PlainText(req.FieldOfStudy),
		Bio:            htmlsanitize.Sanitize(req.Bio),
		Skills:         normalize.StringList(req.Skills),
		WorkExperience: req.WorkExperience,
		SocialLinks:    req.SocialLinks,
	})
	if err != nil {
		h.Log.Error("upsert profile failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not save profile.")
		return
	}

	httpjson.OK(w, p)
}
