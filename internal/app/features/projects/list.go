// internal/app/features/projects/list.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	projectstore "github.com/campuslink-io/campuslink/internal/app/store/projects"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

const defaultPageSize = 10

// teamRef is the shallow team reference embedded in project responses.
type teamRef struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar,omitempty"`
}

// projectView is the JSON shape for project responses.
type projectView struct {
	models.Project
	LikeCount int      `json:"like_count"`
	Team      *teamRef `json:"team,omitempty"`
}

type listResponse struct {
	Data        []projectView `json:"data"`
	TotalPages  int64         `json:"total_pages"`
	CurrentPage int64         `json:"current_page"`
}

// ServeList returns one page of the project catalog, newest first,
// with the owning team shallow-populated.
//
// Route: GET /api/projects?page=&limit=
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = defaultPageSize
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ps, total, err := projectstore.New(h.DB).ListPage(ctx, page, limit)
	if err != nil {
		h.Log.Error("list projects failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load projects.")
		return
	}

	vs, err := h.buildViews(ctx, ps)
	if err != nil {
		h.Log.Error("resolve project teams failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load projects.")
		return
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	httpjson.OK(w, listResponse{
		Data:        vs,
		TotalPages:  totalPages,
		CurrentPage: page,
	})
}

// ServeGet returns one project with its team shallow-populated.
//
// Route: GET /api/projects/{id}
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid project id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := projectstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Project not found.")
			return
		}
		h.Log.Error("get project failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load project.")
		return
	}

	vs, err := h.buildViews(ctx, []models.Project{p})
	if err != nil {
		h.Log.Error("resolve project team failed", zap.Error(err), zap.String("project_id", oid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not load project.")
		return
	}

	httpjson.OK(w, vs[0])
}

// buildViews resolves owning teams for a batch of projects with one
// team lookup.
func (h *Handler) buildViews(ctx context.Context, ps []models.Project) ([]projectView, error) {
	store := teamstore.New(h.DB)
	cache := map[primitive.ObjectID]*teamRef{}

	out := make([]projectView, 0, len(ps))
	for _, p := range ps {
		v := projectView{Project: p, LikeCount: p.LikeCount()}
		if ref, ok := cache[p.TeamID]; ok {
			v.Team = ref
		} else {
			t, err := store.GetByID(ctx, p.TeamID)
			switch {
			case err == nil:
				ref := &teamRef{ID: t.ID, Name: t.Name, Avatar: t.Avatar}
				cache[p.TeamID] = ref
				v.Team = ref
			case errors.Is(err, mongo.ErrNoDocuments):
				cache[p.TeamID] = nil
			default:
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}
