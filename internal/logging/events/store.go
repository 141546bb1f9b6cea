package events

import "github.com/muxboard/muxboard/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Emit(event string, subscribers int) {
	logging.Trace("store.emit", map[string]interface{}{"event": event, "subscribers": subscribers})
}
