package board

import "github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/model"

// Sink receives every rendered snapshot. Render is called from the board's
// loop goroutine and must not block.
type Sink interface {
	Render(model.Snapshot)
}

type SinkFunc func(model.Snapshot)

func (f SinkFunc) Render(s model.Snapshot) { f(s) }

// MultiSink fans a snapshot out in order.
type MultiSink []Sink

func (m MultiSink) Render(s model.Snapshot) {
	for _, sink := range m {
		sink.Render(s)
	}
}
