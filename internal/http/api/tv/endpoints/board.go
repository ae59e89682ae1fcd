package endpoints

import (
	"context"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"
)

// Board is what the display endpoints need from the running board.
type Board interface {
	Latest() *model.Snapshot
	Day(ctx context.Context, iso string) (*model.Snapshot, error)
	SubmitLocation(ctx context.Context, p model.GeoPoint) error
	DenyLocation(ctx context.Context) error
	EnableMotion(ctx context.Context, granted bool) error
	SubmitHeading(ctx context.Context, h model.Heading) error
}
