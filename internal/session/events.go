package session

import (
	"documind/internal/chat"
	"documind/internal/upload"
)

// HealthStatus is the reachability of the configured API.
type HealthStatus string

const (
	HealthUnknown  HealthStatus = "unknown"
	HealthChecking HealthStatus = "checking"
	HealthOnline   HealthStatus = "online"
	HealthOffline  HealthStatus = "offline"
)

// Label is the text of the health indicator.
func (h HealthStatus) Label() string {
	switch h {
	case HealthOnline:
		return "🟢 Online"
	case HealthOffline:
		return "🔴 Offline"
	case HealthChecking:
		return "🟡 Checking…"
	default:
		return "⚪ Unknown"
	}
}

// EventType names what changed.
type EventType string

const (
	EventState         EventType = "state"
	EventMessage       EventType = "message"
	EventCleared       EventType = "cleared"
	EventClearInput    EventType = "clear_input"
	EventFocus         EventType = "focus"
	EventAlert         EventType = "alert"
	EventDownload      EventType = "download"
	EventSearchResults EventType = "search_results"
)

// Event is a single update pushed to the front end.
type Event struct {
	Type     EventType       `json:"type"`
	Snapshot *Snapshot       `json:"snapshot,omitempty"`
	Node     *chat.ViewNode  `json:"node,omitempty"`
	Nodes    []chat.ViewNode `json:"nodes,omitempty"`
	Text     string          `json:"text,omitempty"`
	FileName string          `json:"file_name,omitempty"`
}

// Notifier receives events. Implementations must not call back into the
// Session synchronously.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// Snapshot is the full visible state apart from the message list.
type Snapshot struct {
	APIBase      string       `json:"api_base"`
	ResolvedBase string       `json:"resolved_base"`
	Health       HealthStatus `json:"health"`
	HealthLabel  string       `json:"health_label"`
	HealthReason string       `json:"health_reason,omitempty"`
	SendEnabled  bool         `json:"send_enabled"`
	Busy         bool         `json:"busy"`

	TotalQuestions int    `json:"total_questions"`
	Latency        string `json:"latency"`
	Status         string `json:"status"`
	Empty          bool   `json:"empty"`

	DialogOpen     bool              `json:"dialog_open"`
	Uploads        []upload.ListItem `json:"uploads"`
	ConfirmEnabled bool              `json:"confirm_enabled"`
	UploadStatus   string            `json:"upload_status,omitempty"`
	UploadState    string            `json:"upload_state,omitempty"` // uploading, success, error
}
