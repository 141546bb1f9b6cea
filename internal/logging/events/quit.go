package events

import "github.com/muxboard/muxboard/internal/logging"

type QuitTracer struct{}

var Quit = QuitTracer{}

func (QuitTracer) Prompt(sessions int) {
	logging.Trace("quit.prompt", map[string]interface{}{"sessions": sessions})
}

func (QuitTracer) Action(action string) {
	logging.Trace("quit.action", map[string]interface{}{"action": action})
}

func (QuitTracer) Warning(message string) {
	logging.Trace("quit.warning", map[string]interface{}{"message": message})
}

func (QuitTracer) Done(action string, closed, total int) {
	logging.Trace("quit.done", map[string]interface{}{"action": action, "closed": closed, "total": total})
}
