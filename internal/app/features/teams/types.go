// internal/app/features/teams/types.go
package teams

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// memberView pairs a resolved user with their role on the team.
type memberView struct {
	User       models.PublicUser `json:"user"`
	RoleInTeam string            `json:"role_in_team"`
}

// teamView is the JSON shape for team responses: the stored document
// plus the computed average rating and resolved participants.
type teamView struct {
	models.Team
	AverageRating float64            `json:"average_rating"`
	Leader        *models.PublicUser `json:"leader,omitempty"`
	MemberUsers   []memberView       `json:"member_users,omitempty"`
}

// buildViews resolves leaders and members for a batch of teams with a
// single user lookup.
func buildViews(ctx context.Context, db *mongo.Database, ts []models.Team) ([]teamView, error) {
	idSet := map[primitive.ObjectID]struct{}{}
	for _, t := range ts {
		idSet[t.LeaderID] = struct{}{}
		for _, m := range t.Members {
			idSet[m.UserID] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	us, err := userstore.New(db).ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PublicUser, len(us))
	for i := range us {
		byID[us[i].ID] = us[i].Public()
	}

	out := make([]teamView, 0, len(ts))
	for _, t := range ts {
		v := teamView{Team: t, AverageRating: t.AverageRating()}
		if leader, ok := byID[t.LeaderID]; ok {
			v.Leader = &leader
		}
		for _, m := range t.Members {
			if u, ok := byID[m.UserID]; ok {
				v.MemberUsers = append(v.MemberUsers, memberView{User: u, RoleInTeam: m.RoleInTeam})
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// buildView resolves a single team.
func buildView(ctx context.Context, db *mongo.Database, t models.Team) (teamView, error) {
	vs, err := buildViews(ctx, db, []models.Team{t})
	if err != nil {
		return teamView{}, err
	}
	return vs[0], nil
}
