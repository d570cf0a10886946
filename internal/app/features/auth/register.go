// internal/app/features/auth/register.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/inputval"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/normalize"
	"github.com/campuslink-io/campuslink/internal/app/system/ratelimit"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// bcryptCost trades login latency against brute-force resistance.
const bcryptCost = 12

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// HandleRegister creates a user account and returns a signed token.
// Every account starts with the "user" role; roles change only as side
// effects of domain actions.
//
// Route: POST /api/auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.Signups.Allow(ratelimit.ClientIP(r)) {
		httpjson.Error(w, http.StatusTooManyRequests, "Too many registration attempts. Please wait a minute before trying again.")
		return
	}

	var req registerRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	req.Username = normalize.Username(req.Username)
	req.Email = normalize.Email(req.Email)

	if !inputval.IsValidUsername(req.Username) {
		httpjson.Error(w, http.StatusBadRequest, "Username must be 3-32 letters, digits, underscores, or dashes.")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		httpjson.Error(w, http.StatusBadRequest, "A valid email address is required.")
		return
	}
	if !inputval.IsValidPassword(req.Password) {
		httpjson.Error(w, http.StatusBadRequest, "Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicate) {
			httpjson.Error(w, http.StatusConflict, "Username or email is already taken.")
			return
		}
		h.Log.Error("create user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed.")
		return
	}

	token, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Registration failed.")
		return
	}

	httpjson.Created(w, authResponse{Token: token, User: u.Public()})
}
