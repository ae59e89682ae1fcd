package endpoints

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/db"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api/admin/control/packets"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/storage"
	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/timetable"
)

const maxTimetableBytes = 2 << 20

// Refresher asks the board to load the timetable again.
type Refresher interface {
	Refresh()
}

type TimetableController struct {
	storage storage.Storage
	key     string
	store   db.Store // nil when postgres is not configured
	board   Refresher
}

func newTimetableController(st storage.Storage, key string, store db.Store, board Refresher) *TimetableController {
	return &TimetableController{storage: st, key: key, store: store, board: board}
}

// TimetableModule mounts all authenticated /timetable endpoints
func TimetableModule(st storage.Storage, key string, store db.Store, board Refresher) api.Module {
	ctl := newTimetableController(st, key, store, board)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/timetable", ctl.uploadTimetable)
		c.POST("/timetable/reload", ctl.reloadTimetable)
	})
}

// POST /api/admin/timetable (multipart, field "file")
func (c *TimetableController) uploadTimetable(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("[timetable] upload: missing file")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}
	if fileHeader.Size > maxTimetableBytes {
		return nil, &api.APIError{Code: http.StatusRequestEntityTooLarge, Message: "timetable is too large"}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not read file"}
	}
	body, err := io.ReadAll(io.LimitReader(src, maxTimetableBytes+1))
	src.Close()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "could not read file"}
	}

	table, err := timetable.Parse(bytes.NewReader(body))
	if errors.Is(err, timetable.ErrNoDateColumn) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err != nil {
		log.Warn().Err(err).Msg("[timetable] upload: unreadable csv")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "timetable is not valid CSV"}
	}
	if len(table) == 0 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "timetable has no dated rows"}
	}

	archive, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("[timetable] upload: archive failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	if err := c.storage.Put(ctx.Request.Context(), c.key, body); err != nil {
		log.Error().Err(err).Str("key", c.key).Msg("[timetable] upload: publish failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store timetable"}
	}

	rows := table.Rows()
	stored := 0
	if c.store != nil {
		stored, err = c.store.UpsertDayRows(ctx.Request.Context(), rows)
		if err != nil {
			log.Error().Err(err).Msg("[timetable] upload: db upsert failed")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save timetable rows"}
		}
	}

	c.board.Refresh()

	log.Info().
		Str("admin", admin.Username).
		Int("days", len(rows)).
		Str("archive", archive).
		Msg("[timetable] uploaded")

	return packets.UploadResponse{
		Days:      len(rows),
		FirstDate: rows[0].Date,
		LastDate:  rows[len(rows)-1].Date,
		Archive:   archive,
		Stored:    stored,
	}, nil
}

// POST /api/admin/timetable/reload
func (c *TimetableController) reloadTimetable(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	c.board.Refresh()
	log.Info().Str("admin", admin.Username).Msg("[timetable] reload requested")
	return packets.ReloadResponse{Reloading: true}, nil
}
