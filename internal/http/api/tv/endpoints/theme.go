package endpoints

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/tv/packets"
	redisclient "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/redis"
)

type ThemeController struct {
	themes redisclient.ThemeStore
}

// ThemeModule mounts the per-client light/dark preference
func ThemeModule(themes redisclient.ThemeStore) api.Module {
	ctl := &ThemeController{themes: themes}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/theme", ctl.getTheme)
		c.PUBLIC_PUT("/theme", ctl.setTheme)
	})
}

// GET /api/tv/theme?client=
func (t *ThemeController) getTheme(ctx *gin.Context) (any, *api.APIError) {
	client := ctx.Query("client")
	if client == "" {
		return nil, api.BadRequest("client is required")
	}
	theme, err := t.themes.Theme(ctx.Request.Context(), client)
	if err != nil {
		// the default is still usable
		log.Warn().Err(err).Str("client", client).Msg("theme lookup failed")
	}
	return packets.ThemeResponse{Client: client, Theme: theme}, nil
}

// PUT /api/tv/theme
func (t *ThemeController) setTheme(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ThemeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	err := t.themes.SetTheme(ctx.Request.Context(), request.Client, request.Theme)
	if errors.Is(err, redisclient.ErrInvalidTheme) {
		return nil, api.BadRequest(err.Error())
	}
	if err != nil {
		log.Error().Err(err).Str("client", request.Client).Msg("could not save theme")
		return nil, api.Internal("could not save theme")
	}
	return packets.ThemeResponse{Client: request.Client, Theme: request.Theme}, nil
}
