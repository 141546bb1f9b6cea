package events

import "github.com/muxboard/muxboard/internal/logging"

type ConnTracer struct{}

var Conn = ConnTracer{}

func (ConnTracer) Connect(socket string) {
	logging.Trace("conn.connect", map[string]interface{}{"socket": socket})
}

func (ConnTracer) ConnectFailed(socket string, err error) {
	logging.Trace("conn.connect.failed", map[string]interface{}{"socket": socket, "error": err.Error()})
}

func (ConnTracer) Disconnect() {
	logging.Trace("conn.disconnect", nil)
}

func (ConnTracer) Reconnect(ok bool) {
	logging.Trace("conn.reconnect", map[string]interface{}{"ok": ok})
}

func (ConnTracer) Retry(attempt, budget int) {
	logging.Trace("conn.retry", map[string]interface{}{"attempt": attempt, "budget": budget})
}
