package events

import "github.com/muxboard/muxboard/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Spawn(template, project, request string) {
	logging.Trace("session.spawn", map[string]interface{}{
		"template": template,
		"project":  project,
		"request":  request,
	})
}

func (SessionTracer) Spawned(id, tab string) {
	logging.Trace("session.spawned", map[string]interface{}{"id": id, "tab": tab})
}

func (SessionTracer) SpawnFailed(template, reason string) {
	logging.Trace("session.spawn.failed", map[string]interface{}{"template": template, "reason": reason})
}

func (SessionTracer) Close(id string, force bool) {
	logging.Trace("session.close", map[string]interface{}{"id": id, "force": force})
}

func (SessionTracer) Closed(id string, forced bool) {
	logging.Trace("session.closed", map[string]interface{}{"id": id, "forced": forced})
}

func (SessionTracer) Vanished(id string) {
	logging.Trace("session.vanished", map[string]interface{}{"id": id})
}

func (SessionTracer) Activate(id string) {
	logging.Trace("session.activate", map[string]interface{}{"id": id})
}
