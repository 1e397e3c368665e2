package models

// Runner states reported by the status endpoint
const (
	RunnerRunning = "running"
	RunnerStopped = "stopped"
	RunnerUnknown = "unknown"
)

// SystemStatus is the response of the status endpoint
type SystemStatus struct {
	MasterEnabled       bool                 `json:"master_enabled"`
	ActiveChannels      int                  `json:"active_channels"`
	TotalChannels       int                  `json:"total_channels"`
	PollIntervalSeconds int                  `json:"poll_interval_seconds"`
	TxLockActive        bool                 `json:"tx_lock_active"`
	RunnerStatus        string               `json:"runner_status"`
	TxStats24h          *StatusTxStats       `json:"tx_stats_24h,omitempty"`
	ChannelsStats       []ChannelStats       `json:"channels_stats,omitempty"`
	RecentTx            []TransmissionRecord `json:"recent_tx,omitempty"`
}

// StatusTxStats summarises the last 24 hours of transmissions
type StatusTxStats struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Aborted int `json:"aborted"`
}

// ChannelStats is the per-channel runtime summary of the dashboard
type ChannelStats struct {
	Name              string `json:"name"`
	Enabled           bool   `json:"is_enabled"`
	TxCount24h        int    `json:"tx_count_24h"`
	LastMeasurementAt Time   `json:"last_measurement_at"`
	NextTxAt          Time   `json:"next_tx_at"`
	LastError         string `json:"last_error"`
}

// Runner normalises the runner status; anything unexpected is unknown
func (s SystemStatus) Runner() string {
	switch s.RunnerStatus {
	case RunnerRunning, RunnerStopped:
		return s.RunnerStatus
	default:
		return RunnerUnknown
	}
}
