// internal/app/features/uploads/avatar.go
package uploads

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	profilestore "github.com/campuslink-io/campuslink/internal/app/store/profiles"
	"github.com/campuslink-io/campuslink/internal/app/system/authz"
	"github.com/campuslink-io/campuslink/internal/app/system/httpjson"
	"github.com/campuslink-io/campuslink/internal/app/system/timeouts"
)

// Extensions accepted for avatar images. The stored name keeps the
// original extension when it is one of these, otherwise defaults to
// .png.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type avatarResponse struct {
	URL string `json:"url"`
}

// HandleAvatar accepts a multipart "avatar" image, writes it under the
// configured upload directory as <userID>-<uuid><ext>, and records the
// public URL on the caller's profile.
//
// Route: POST /api/uploads/avatar
func (h *Handler) HandleAvatar(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Upload too large or malformed.")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Missing avatar file.")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		httpjson.Error(w, http.StatusBadRequest, "Avatar must be an image.")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		ext = ".png"
	}
	name := uid.Hex() + "-" + uuid.NewString() + ext

	if err := os.MkdirAll(h.LocalPath, 0o755); err != nil {
		h.Log.Error("create upload dir failed", zap.Error(err), zap.String("dir", h.LocalPath))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store avatar.")
		return
	}

	dst, err := os.Create(filepath.Join(h.LocalPath, name))
	if err != nil {
		h.Log.Error("create upload file failed", zap.Error(err), zap.String("file", name))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store avatar.")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		h.Log.Error("write upload failed", zap.Error(err), zap.String("file", name))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store avatar.")
		return
	}

	url := path.Join("/", strings.Trim(h.LocalURL, "/"), name)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := profilestore.New(h.DB).SetAvatar(ctx, uid, url); err != nil {
		h.Log.Error("save avatar url failed", zap.Error(err), zap.String("user_id", uid.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store avatar.")
		return
	}

	httpjson.OK(w, avatarResponse{URL: url})
}
