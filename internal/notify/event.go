package notify

import (
	"encoding/json"
	"time"

	"github.com/vk/enginebuild/internal/buildcfg"
)

// Kind is the lifecycle stage an Event reports.
type Kind string

// Build lifecycle stages.
const (
	KindStarted   Kind = "started"
	KindSucceeded Kind = "succeeded"
	KindFailed    Kind = "failed"
)

// Event is the payload emitted for each lifecycle stage of a build.
type Event struct {
	Kind         Kind                  `json:"kind"`
	Workspace    string                `json:"workspace"`
	Backend      buildcfg.Backend      `json:"backend"`
	Optimization buildcfg.Optimization `json:"optimization"`
	OutputType   buildcfg.OutputType   `json:"output_type"`
	Output       string                `json:"output,omitempty"`
	Error        string                `json:"error,omitempty"`
	DurationMS   int64                 `json:"duration_ms,omitempty"`
	Time         time.Time             `json:"time"`
}

// NewEvent describes a build of workspace under cfg.
func NewEvent(kind Kind, workspace string, cfg buildcfg.Configuration) Event {
	return Event{
		Kind:         kind,
		Workspace:    workspace,
		Backend:      cfg.Backend,
		Optimization: cfg.Optimization,
		OutputType:   cfg.OutputType,
		Output:       cfg.OutputFile(),
		Time:         time.Now().UTC(),
	}
}

// payload converts e into the generic map the socket.io encoder expects.
func (e Event) payload() (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
