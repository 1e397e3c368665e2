package models

// ForecastEvent is a predicted announcement
type ForecastEvent struct {
	ChannelID     int          `json:"channel_id"`
	ChannelName   string       `json:"channel_name"`
	TxTime        Time         `json:"tx_time"`
	MeasuredAt    Time         `json:"measurement_time"`
	OffsetSeconds int          `json:"offset_seconds"`
	RenderedText  string       `json:"rendered_text"`
	Measurement   *Measurement `json:"measurement"`
	Simulated     bool         `json:"is_simulated"`
}

// Forecast is the response of the timeline forecast endpoint. Events are
// sorted by transmission time.
type Forecast struct {
	Start       Time            `json:"forecast_start"`
	End         Time            `json:"forecast_end"`
	TotalEvents int             `json:"total_events"`
	Events      []ForecastEvent `json:"events"`
}

// NextTransmissions is the response of the timeline next endpoint
type NextTransmissions struct {
	Events []ForecastEvent `json:"next_transmissions"`
	Count  int             `json:"count"`
}
