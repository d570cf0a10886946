// internal/app/features/associations/create.go
package associations

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	associationstore "github.com/campuslink-io/campuslink/internal/app/store/associations"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
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
	Logo        string `json:"logo"`
	ManagerID   string `json:"manager_id"`
}

// HandleCreate creates an association and promotes its manager to the
// association_manager role, both in one transaction. The authority and
// the role that encodes it never diverge.
//
// Route: POST /api/associations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "Association name is required.")
		return
	}
	managerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ManagerID))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid manager id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users := userstore.New(h.DB)
	manager, err := users.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Manager not found.")
			return
		}
		h.Log.Error("get manager failed", zap.Error(err), zap.String("manager_id", managerID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load manager.")
		return
	}

	var created models.Association
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		created, err = associationstore.New(h.DB).Create(ctx, models.Association{
			Name:        req.Name,
			Description: htmlsanitize.Sanitize(req.Description),
			Logo:        strings.TrimSpace(req.Logo),
			ManagerID:   managerID,
		})
		if err != nil {
			return err
		}
		if manager.Role != models.RoleAdmin && manager.Role != models.RoleAssociationManager {
			return users.UpdateRole(ctx, managerID, models.RoleAssociationManager)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, associationstore.ErrDuplicateName) {
			httpjson.Error(w, http.StatusConflict, "An association with this name already exists.")
			return
		}
		h.Log.Error("create association failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not create association.")
		return
	}

	mgr := manager.Public()
	httpjson.Created(w, associationView{Association: created, Manager: &mgr})
}
