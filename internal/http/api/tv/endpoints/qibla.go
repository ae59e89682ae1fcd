package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/board"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/tv/packets"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/qibla"
)

type QiblaController struct {
	board Board
}

// QiblaModule mounts the compass endpoints
func QiblaModule(b Board) api.Module {
	ctl := &QiblaController{board: b}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/qibla", ctl.bearing)
		c.PUBLIC_POST("/qibla/location", ctl.submitLocation)
		c.PUBLIC_POST("/qibla/location/denied", ctl.denyLocation)
		c.PUBLIC_POST("/qibla/motion", ctl.motion)
		c.PUBLIC_POST("/qibla/heading", ctl.heading)
	})
}

// GET /api/tv/qibla?lat=&lon=[&heading=]
func (q *QiblaController) bearing(ctx *gin.Context) (any, *api.APIError) {
	lat, err1 := strconv.ParseFloat(ctx.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(ctx.Query("lon"), 64)
	p := model.GeoPoint{Lat: lat, Lon: lon}
	if err1 != nil || err2 != nil || !p.Valid() {
		return nil, api.BadRequest("lat must be within [-90,90] and lon within [-180,180]")
	}

	var heading *float64
	if raw := ctx.Query("heading"); raw != "" {
		h, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, api.BadRequest("heading must be a number of degrees")
		}
		h = qibla.Normalize360(h)
		heading = &h
	}

	b := qibla.Bearing(p)
	return packets.QiblaResponse{
		Location: p,
		Bearing:  b,
		Cardinal: qibla.Cardinal(b),
		Heading:  heading,
		Angles:   qibla.RenderAngles(b, heading),
	}, nil
}

// POST /api/tv/qibla/location
func (q *QiblaController) submitLocation(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LocationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	p := model.GeoPoint{Lat: *request.Lat, Lon: *request.Lon}
	if err := q.board.SubmitLocation(ctx.Request.Context(), p); err != nil {
		return nil, boardError(err)
	}
	return q.compass()
}

// POST /api/tv/qibla/location/denied
func (q *QiblaController) denyLocation(ctx *gin.Context) (any, *api.APIError) {
	if err := q.board.DenyLocation(ctx.Request.Context()); err != nil {
		return nil, boardError(err)
	}
	return q.compass()
}

// POST /api/tv/qibla/motion
func (q *QiblaController) motion(ctx *gin.Context) (any, *api.APIError) {
	var request packets.MotionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	if err := q.board.EnableMotion(ctx.Request.Context(), *request.Granted); err != nil {
		return nil, boardError(err)
	}
	return q.compass()
}

// POST /api/tv/qibla/heading
func (q *QiblaController) heading(ctx *gin.Context) (any, *api.APIError) {
	var request packets.HeadingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	h := model.Heading{Kind: model.HeadingKind(request.Kind), Degrees: *request.Degrees}
	if err := q.board.SubmitHeading(ctx.Request.Context(), h); err != nil {
		return nil, boardError(err)
	}
	return q.compass()
}

// compass reports the state as of the last render; the change just submitted
// shows up on the next snapshot.
func (q *QiblaController) compass() (any, *api.APIError) {
	snap := q.board.Latest()
	if snap == nil {
		return gin.H{"accepted": true}, nil
	}
	return packets.CompassResponse{Compass: snap.Compass}, nil
}

func boardError(err error) *api.APIError {
	switch {
	case errors.Is(err, qibla.ErrHeadingKindMismatch), errors.Is(err, board.ErrMotionNotGranted):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, qibla.ErrInvalidHeading), errors.Is(err, board.ErrInvalidLocation):
		return api.BadRequest(err.Error())
	case errors.Is(err, board.ErrNotRunning):
		return &api.APIError{Code: http.StatusServiceUnavailable, Message: "board is not running"}
	default:
		log.Error().Err(err).Msg("board rejected update")
		return api.Internal("could not apply update")
	}
}
