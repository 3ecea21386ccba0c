package reporting

import "time"

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// TasksSummary is the admin's top-line view of the shared queue.
type TasksSummary struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// AgentSummary is one caller's slice of the queue.
type AgentSummary struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`

	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Attempts  int `json:"attempts"`
}

type Summary struct {
	Tasks  TasksSummary   `json:"tasks"`
	Agents []AgentSummary `json:"agents"`
}

// CallActivitySummary aggregates the append-only call log over a window.
type CallActivitySummary struct {
	Range TimeRange `json:"range"`

	TotalCalls        int `json:"total_calls"`
	ConnectedCalls    int `json:"connected_calls"`
	BusyCalls         int `json:"busy_calls"`
	NotPickingCalls   int `json:"not_picking_calls"`
	CallbackCalls     int `json:"callback_calls"`
	WrongNumberCalls  int `json:"wrong_number_calls"`

	WhatsappSent int `json:"whatsapp_sent"`

	TotalDurationMins   int `json:"total_duration_mins"`
	AverageDurationMins int `json:"average_duration_mins"`
}
