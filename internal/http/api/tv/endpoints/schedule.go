package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/board"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
)

type ScheduleController struct {
	board Board
}

// ScheduleModule mounts the public schedule endpoints
func ScheduleModule(b Board) api.Module {
	ctl := &ScheduleController{board: b}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/schedule", ctl.current)
		c.PUBLIC_GET("/schedule/:date", ctl.forDate)
	})
}

// GET /api/tv/schedule
func (s *ScheduleController) current(ctx *gin.Context) (any, *api.APIError) {
	snap := s.board.Latest()
	if snap == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "schedule not ready yet"}
	}
	ctx.Header("Cache-Control", "no-store")
	return snap, nil
}

// GET /api/tv/schedule/:date
func (s *ScheduleController) forDate(ctx *gin.Context) (any, *api.APIError) {
	snap, err := s.board.Day(ctx.Request.Context(), ctx.Param("date"))
	switch {
	case errors.Is(err, board.ErrNoRow):
		return nil, api.NotFound("no timetable for " + ctx.Param("date"))
	case err != nil:
		return nil, api.BadRequest("date must be YYYY-MM-DD")
	}
	return snap, nil
}
