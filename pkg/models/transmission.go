package models

// Transmission status values
const (
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
	StatusAborted = "ABORTED"
	StatusPending = "PENDING"
)

// Transmission modes
const (
	ModeScheduled  = "SCHEDULED"
	ModeManualTest = "MANUAL_TEST"
)

// Badge is a label and a CSS class suffix
type Badge struct {
	Label string
	Class string
}

var statusBadges = map[string]Badge{
	StatusSent:    {Label: "Sent", Class: "success"},
	StatusFailed:  {Label: "Failed", Class: "danger"},
	StatusAborted: {Label: "Aborted", Class: "warning"},
	StatusPending: {Label: "Pending", Class: "info"},
}

// Statuses lists the known statuses in display order
var Statuses = []string{StatusSent, StatusFailed, StatusAborted, StatusPending}

// StatusBadge maps a transmission status to its badge. Unknown statuses get a
// neutral badge labelled with the raw value.
func StatusBadge(status string) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	label := status
	if label == "" {
		label = "Unknown"
	}
	return Badge{Label: label, Class: "secondary"}
}

// ModeBadge maps a transmission mode to its badge
func ModeBadge(mode string) Badge {
	if mode == ModeScheduled {
		return Badge{Label: "Scheduled", Class: "primary"}
	}
	return Badge{Label: "Manual test", Class: "info"}
}

// TransmissionRecord is one entry of the transmission history
type TransmissionRecord struct {
	ID            int       `json:"id"`
	TxID          string    `json:"tx_id"`
	ChannelID     int       `json:"channel_id"`
	ChannelName   string    `json:"channel_name"`
	Mode          string    `json:"mode"`
	Status        string    `json:"status"`
	CreatedAt     Time      `json:"created_at"`
	SentAt        Time      `json:"sent_at"`
	PlannedAt     Time      `json:"planned_at"`
	MeasuredAt    Time      `json:"measurement_at"`
	RenderedText  string    `json:"rendered_text"`
	ErrorMessage  string    `json:"error_message"`
	StationID     StationID `json:"station_id"`
	OffsetSeconds int       `json:"offset_seconds"`
}

// DisplayTime is planned_at for pending records and sent_at otherwise
func (r TransmissionRecord) DisplayTime() Time {
	if r.Status == StatusPending {
		return r.PlannedAt
	}
	return r.SentAt
}

// HistoryPage is a paginated slice of the transmission history
type HistoryPage struct {
	Results []TransmissionRecord `json:"results"`
	Total   int                  `json:"total"`
	Offset  int                  `json:"offset"`
	Limit   int                  `json:"limit"`
}

// TxStats aggregates transmissions over a time window
type TxStats struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	ByChannel map[string]int `json:"by_channel"`
	ByMode    map[string]int `json:"by_mode"`
}

// Count returns the number of transmissions with the given status
func (s TxStats) Count(status string) int {
	return s.ByStatus[status]
}
