package workflow

import (
	"context"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// Gateway is the part of the API client used by the workflows
type Gateway interface {
	GetChannel(ctx context.Context, id int) (*models.Channel, error)
	TestMeasurement(ctx context.Context, providerID string, stationID models.StationID) (*models.Measurement, error)
	PreviewChannel(ctx context.Context, id int) (*models.PreviewResult, error)
	Synthesize(ctx context.Context, req models.SynthesizeRequest) (*models.SynthesizeResult, error)
}

// MeasurementResult is the surface opened after a measurement test
type MeasurementResult struct {
	Channel     models.Channel
	Measurement models.Measurement
	AgeMinutes  int
}

// PreviewResult is the surface opened after an announcement preview
type PreviewResult struct {
	Channel models.Channel
	models.PreviewResult
	AgeMinutes int
}

// Runner executes the preview and test workflows
type Runner struct {
	gateway Gateway
	tracker *Tracker
	now     func() time.Time
}

// NewRunner creates a runner sharing tracker with other runners
func NewRunner(gateway Gateway, tracker *Tracker) *Runner {
	return &Runner{gateway: gateway, tracker: tracker, now: time.Now}
}

// TestMeasurement fetches a live measurement for a channel's station
func (r *Runner) TestMeasurement(ctx context.Context, channelID int) (*MeasurementResult, error) {
	var result *MeasurementResult
	err := r.tracker.Run(TestKey(channelID), "Testing...", func() error {
		channel, err := r.gateway.GetChannel(ctx, channelID)
		if err != nil {
			return err
		}
		m, err := r.gateway.TestMeasurement(ctx, channel.ProviderID, channel.StationID)
		if err != nil {
			return err
		}
		result = &MeasurementResult{
			Channel:     *channel,
			Measurement: *m,
			AgeMinutes:  m.AgeMinutes(r.now()),
		}
		return nil
	})
	return result, err
}

// Preview renders and synthesises the announcement of a channel
func (r *Runner) Preview(ctx context.Context, channelID int) (*PreviewResult, error) {
	var result *PreviewResult
	err := r.tracker.Run(PreviewKey(channelID), "Generating...", func() error {
		channel, err := r.gateway.GetChannel(ctx, channelID)
		if err != nil {
			return err
		}
		preview, err := r.gateway.PreviewChannel(ctx, channelID)
		if err != nil {
			return err
		}
		result = &PreviewResult{
			Channel:       *channel,
			PreviewResult: *preview,
			AgeMinutes:    preview.Measurement.Age(r.now()),
		}
		return nil
	})
	return result, err
}

// Synthesize runs the TTS tool
func (r *Runner) Synthesize(ctx context.Context, req models.SynthesizeRequest) (*models.SynthesizeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var result *models.SynthesizeResult
	err := r.tracker.Run(SynthesizeKey, "Synthesizing...", func() error {
		res, err := r.gateway.Synthesize(ctx, req)
		result = res
		return err
	})
	return result, err
}
