// internal/app/features/teams/members.go
package teams

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/app/system/txn"
)

// HandleRemoveMember removes a member from a team and retires their
// accepted request so they can apply again later. The leader cannot be
// removed from their own team.
//
// Route: DELETE /api/teams/{teamID}/remove-member/{memberID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, memberID, ok := h.teamUserParams(w, r, "memberID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	t, ok := h.loadManagedTeam(ctx, w, r, teamID)
	if !ok {
		return
	}
	if memberID == t.LeaderID {
		httpjson.Error(w, http.StatusBadRequest, "The team leader cannot be removed.")
		return
	}
	if !t.HasMember(memberID) {
		httpjson.Error(w, http.StatusNotFound, "User is not a member of this team.")
		return
	}

	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := teamstore.New(h.DB).RemoveMember(ctx, teamID, memberID); err != nil {
			return err
		}
		if err := joinrequeststore.New(h.DB).CloseAccepted(ctx, memberID, teamID); err != nil {
			return err
		}
		return profilestore.New(h.DB).RemoveTeam(ctx, memberID, teamID)
	})
	if err != nil {
		h.Log.Error("remove member failed", zap.Error(err),
			zap.String("team_id", teamID.Hex()), zap.String("member_id", memberID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not remove member.")
		return
	}

	httpjson.OK(w, map[string]string{"message": "Member removed."})
}
