// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	associationsfeature "github.com/campuslink-io/campuslink/internal/app/features/associations"
	authfeature "github.com/campuslink-io/campuslink/internal/app/features/auth"
	commentsfeature "github.com/campuslink-io/campuslink/internal/app/features/comments"
	eventsfeature "github.com/campuslink-io/campuslink/internal/app/features/events"
	healthfeature "github.com/campuslink-io/campuslink/internal/app/features/health"
	messagesfeature "github.com/campuslink-io/campuslink/internal/app/features/messages"
	"github.com/campuslink-io/campuslink/internal/app/features/presence"
	profilesfeature "github.com/campuslink-io/campuslink/internal/app/features/profiles"
	projectsfeature "github.com/campuslink-io/campuslink/internal/app/features/projects"
	teamsfeature "github.com/campuslink-io/campuslink/internal/app/features/teams"
	uploadsfeature "github.com/campuslink-io/campuslink/internal/app/features/uploads"
	usersfeature "github.com/campuslink-io/campuslink/internal/app/features/users"
	sysauth "github.com/campuslink-io/campuslink/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. CampusLink builds the token
// manager and presence hub here, applies the bearer-token middleware
// globally, and mounts one feature router per API area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens := sysauth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry)
	hub := presence.NewHub(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the bearer-token principal into
	// context if present. Anonymous requests pass through; route
	// groups decide what requires a sign-in.
	r.Use(tokens.LoadBearerUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Get("/health", healthHandler.Serve)

	// Uploaded avatars, served straight off disk
	r.Handle(appCfg.UploadLocalURL+"/*", fileserver.Handler(appCfg.UploadLocalURL, appCfg.UploadLocalPath))

	// Live presence and chat relay
	r.Get("/ws", hub.ServeWS)

	db := deps.MongoDatabase

	r.Mount("/api/auth", authfeature.Routes(authfeature.NewHandler(db, logger, tokens)))
	r.Mount("/api/users", usersfeature.Routes(usersfeature.NewHandler(db, logger)))
	r.Mount("/api/profiles", profilesfeature.Routes(profilesfeature.NewHandler(db, logger)))
	r.Mount("/api/teams", teamsfeature.Routes(teamsfeature.NewHandler(db, logger)))
	r.Mount("/api/projects", projectsfeature.Routes(projectsfeature.NewHandler(db, logger)))
	r.Mount("/api/associations", associationsfeature.Routes(associationsfeature.NewHandler(db, logger)))
	r.Mount("/api/events", eventsfeature.Routes(eventsfeature.NewHandler(db, logger)))
	r.Mount("/api/comments", commentsfeature.Routes(commentsfeature.NewHandler(db, logger)))
	r.Mount("/api/messages", messagesfeature.Routes(messagesfeature.NewHandler(db, logger, hub)))
	r.Mount("/api/uploads", uploadsfeature.Routes(uploadsfeature.NewHandler(db, logger, appCfg.UploadLocalPath, appCfg.UploadLocalURL, appCfg.UploadMaxBytes)))

	return r, nil
}
