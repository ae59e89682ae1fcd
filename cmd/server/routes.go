package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/board"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/config"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/db"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	authapi "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/admin/control/endpoints"
	clientapi "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/tv/endpoints"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/hub"
	redisclient "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/redis"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/storage"
)

// Deps is everything the HTTP layer is wired to.
type Deps struct {
	Config  *config.Config
	Board   *board.Board
	Hub     *hub.Hub
	Store   db.Store
	Storage storage.Storage
	Themes  redisclient.ThemeStore
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, d Deps, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"X-Request-ID",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.ScheduleModule(d.Board),
		clientapi.QiblaModule(d.Board),
		clientapi.ThemeModule(d.Themes),
		clientapi.IntegrationsModule(d.Board, d.Themes),
		clientapi.StreamModule(d.Hub),
	)

	if !d.Config.AdminEnabled() {
		return
	}

	creds := authapi.Credentials{
		Username:     d.Config.AdminUsername,
		PasswordHash: d.Config.AdminPassHash,
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(d.Config.JWTSecret, creds),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: d.Config.JWTSecret,
	},
		// session endpoints that require auth
		authapi.AuthSessionModule(d.Config.JWTSecret, creds),
		adminapi.TimetableModule(d.Storage, d.Config.TimetableKey, d.Store, d.Board),
	)
}
