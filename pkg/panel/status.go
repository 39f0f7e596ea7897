package panel

import (
	"fmt"

	"github.com/mgnsk/turnitup/pkg/protocol"
)

// Level is the severity of a status line.
type Level string

// Status levels. They double as CSS classes in the popup.
const (
	LevelInfo    Level = ""
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Status is the short advisory line under the controls.
type Status struct {
	Text  string
	Level Level
}

// Status lines.
var (
	StatusNoActiveTab     = Status{"NO ACTIVE TAB", LevelError}
	StatusCannotBoost     = Status{"CANNOT BOOST HERE", LevelError}
	StatusNoMediaDetected = Status{"NO MEDIA DETECTED", LevelWarning}
	StatusReloadPage      = Status{"RELOAD PAGE", LevelWarning}
	StatusClickToActivate = Status{"CLICK PAGE TO ACTIVATE", LevelWarning}
	StatusNoMediaFound    = Status{"NO MEDIA FOUND", LevelInfo}
)

// StatusVolume reports a confirmed gain.
func StatusVolume(gain float64) Status {
	return Status{Text: fmt.Sprintf("VOL: %d%%", protocol.Percent(gain))}
}

// StatusMediaActive reports the number of media elements on the page.
func StatusMediaActive(n int) Status {
	return Status{Text: fmt.Sprintf("%d MEDIA ACTIVE", n)}
}

// statusOf derives the status line from a GET_STATUS response.
func statusOf(resp protocol.Response) Status {
	switch {
	case resp.AudioContextState == "suspended":
		return StatusClickToActivate
	case resp.MediaCount != nil && *resp.MediaCount == 0:
		return StatusNoMediaFound
	case resp.MediaCount != nil:
		return StatusMediaActive(*resp.MediaCount)
	default:
		return StatusVolume(resp.Gain)
	}
}
