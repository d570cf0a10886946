// internal/app/features/teams/create.go
package teams

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/htmlsanitize"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
}

// HandleCreate creates a team. The creator becomes its leader: they
// are seeded into the members list and their account role is raised to
// team_lead, both in the same transaction as the insert.
//
// Route: POST /api/teams
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "Team name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var created models.Team
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		created, err = teamstore.New(h.DB).Create(ctx, models.Team{
			Name:        req.Name,
			Description: htmlsanitize.Sanitize(req.Description),
			Avatar:      strings.TrimSpace(req.Avatar),
			LeaderID:    uid,
			Members:     []models.TeamMember{{UserID: uid, RoleInTeam: models.TeamRoleLeader}},
		})
		if err != nil {
			return err
		}
		// Admins keep their role; everyone else becomes a team lead.
		if role != models.RoleAdmin && role != models.RoleTeamLead {
			if err := userstore.New(h.DB).UpdateRole(ctx, uid, models.RoleTeamLead); err != nil {
				return err
			}
		}
		return profilestore.New(h.DB).AddTeam(ctx, uid, created.ID)
	})
	if err != nil {
		if errors.Is(err, teamstore.ErrDuplicateTeamName) {
			httpjson.Error(w, http.StatusConflict, "A team with this name already exists.")
			return
		}
		h.Log.Error("create team failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create team.")
		return
	}

	v, err := buildView(ctx, h.DB, created)
	if err != nil {
		h.Log.Error("resolve team users failed", zap.Error(err), zap.String("team_id", created.ID.Hex()))
		httpjson.Created(w, created)
		return
	}
	httpjson.Created(w, v)
}
