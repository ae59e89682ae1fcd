package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	redisclient "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/redis"
)

type IntegrationsController struct {
	board  Board
	themes redisclient.ThemeStore
}

// IntegrationsModule serves the server-rendered pages signage screens embed.
func IntegrationsModule(b Board, themes redisclient.ThemeStore) api.Module {
	ctl := &IntegrationsController{board: b, themes: themes}
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW(http.MethodGet, "/integrations/:name", ctl.serveIntegration)
	})
}

func (i *IntegrationsController) serveIntegration(ctx *gin.Context) {
	name := ctx.Param("name")
	switch name {
	case "athan":
		i.serveAthan(ctx)
	default:
		ctx.String(http.StatusNotFound, "integration not found")
	}
}

func (i *IntegrationsController) serveAthan(ctx *gin.Context) {
	snap := i.board.Latest()
	if snap == nil {
		ctx.String(http.StatusServiceUnavailable, "prayer times not loaded yet")
		return
	}

	theme := redisclient.DefaultTheme
	if client := ctx.Query("client"); client != "" && i.themes != nil {
		t, err := i.themes.Theme(ctx.Request.Context(), client)
		if err != nil {
			log.Warn().Err(err).Str("client", client).Msg("theme lookup failed")
		} else {
			theme = t
		}
	}

	ctx.Header("Cache-Control", "no-store")
	ctx.HTML(http.StatusOK, "athan.html", AthanPage(snap, theme))
}

// AthanPage flattens a snapshot into the template's 12-hour view.
func AthanPage(snap *model.Snapshot, theme string) model.AthanPageData {
	dateStr := snap.Date
	if d, err := time.Parse("2006-01-02", snap.Date); err == nil {
		dateStr = strings.ToUpper(d.Format("January 2, 2006"))
	}

	prayers := make([]model.Prayer, 0, len(snap.Schedule.Entries))
	for _, e := range snap.Schedule.Entries {
		time12, period := e.Time.Clock12()
		prayers = append(prayers, model.Prayer{
			Name:    strings.ToUpper(e.Label),
			Hint:    e.Hint,
			Time:    time12,
			Period:  period,
			Current: snap.Schedule.IsCurrent(e.Slot),
			Day:     e.Day.String(),
		})
	}

	data := model.AthanPageData{
		City:      strings.ToUpper(snap.Locality),
		Date:      dateStr,
		Prayers:   prayers,
		Countdown: snap.Countdown,
		Theme:     theme,
	}
	if snap.Next != nil {
		data.NextLabel = snap.Next.Label
	}
	for _, w := range snap.Makrooh {
		data.Makrooh = append(data.Makrooh, w.Text)
	}
	return data
}
