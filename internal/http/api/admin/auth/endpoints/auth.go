package endpoints

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/admin/auth/packets"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/middleware"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

// Credentials is the single admin account, configured through the
// environment. PasswordHash is a bcrypt hash.
type Credentials struct {
	Username     string
	PasswordHash string
}

// AuthPublicModule mounts public auth endpoints (/auth/login)
func AuthPublicModule(jwtSecret string, creds Credentials) api.Module {
	ctl := newAccountManager(jwtSecret, creds)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.adminLogin)
	})
}

// AuthSessionModule mounts private session endpoints (JWT required)
func AuthSessionModule(jwtSecret string, creds Credentials) api.Module {
	ctl := newAccountManager(jwtSecret, creds)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.getCurrentProfile)
	})
}

type AccountManager struct {
	jwtSecret string
	creds     Credentials
}

func newAccountManager(secret string, creds Credentials) *AccountManager {
	return &AccountManager{jwtSecret: secret, creds: creds}
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if a.creds.Username == "" || a.creds.PasswordHash == "" {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "admin login is not configured"}
	}

	userOK := subtle.ConstantTimeCompare([]byte(request.Username), []byte(a.creds.Username)) == 1
	passOK := middleware.CheckPassword(a.creds.PasswordHash, request.Password)
	if !userOK || !passOK {
		log.Warn().Str("username", request.Username).Str("ip", ctx.ClientIP()).Msg("failed admin login")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: middleware.ErrInvalidCredentials.Error()}
	}

	token, err := middleware.GenerateJWT(a.creds.Username, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Msg("could not sign admin token")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	log.Info().Str("username", a.creds.Username).Msg("admin logged in")
	return packets.LoginResponse{Token: token}, nil
}

// GET /api/admin/auth/current_profile
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	return packets.ProfileResponse{Username: admin.Username}, nil
}
