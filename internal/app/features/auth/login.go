// internal/app/features/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/limits"
	"github.com/campuslink-io/campuslink/internal/app/system/normalize"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns a signed token. An
// unknown email is 404 and a wrong password is 400, so the client can
// tell "no such account" apart from "bad password".
//
// Route: POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req, limits.MaxJSONBodySize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Email = normalize.Email(req.Email)

	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		httpjson.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "No account with this email exists.")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Incorrect password.")
		return
	}

	token, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	h.Limiter.ResetEmail(req.Email)

	httpjson.OK(w, authResponse{Token: token, User: u.Public()})
}
