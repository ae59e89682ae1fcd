package board

import (
	"context"
	"errors"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

var ErrPermissionDenied = errors.New("location permission denied")

// Locator resolves the viewer's position. It returns ErrPermissionDenied when
// the viewer refuses; any other error is treated the same way for display.
type Locator interface {
	Locate(ctx context.Context) (model.GeoPoint, error)
}

// StaticLocator answers with a configured point, e.g. a fixed kiosk.
type StaticLocator struct {
	Point model.GeoPoint
}

func (l StaticLocator) Locate(context.Context) (model.GeoPoint, error) {
	if !l.Point.Valid() {
		return model.GeoPoint{}, ErrPermissionDenied
	}
	return l.Point, nil
}
