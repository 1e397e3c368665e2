package workflow

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// MockGateway implements Gateway for testing
type MockGateway struct {
	Channel    models.Channel
	Meas       models.Measurement
	Preview    models.PreviewResult
	Err        error
	block      chan struct{}
	started    chan struct{}
	panicValue interface{}
}

func (m *MockGateway) GetChannel(ctx context.Context, id int) (*models.Channel, error) {
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	if m.panicValue != nil {
		panic(m.panicValue)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	ch := m.Channel
	ch.ID = id
	return &ch, nil
}

func (m *MockGateway) TestMeasurement(ctx context.Context, providerID string, stationID models.StationID) (*models.Measurement, error) {
	return &m.Meas, nil
}

func (m *MockGateway) PreviewChannel(ctx context.Context, id int) (*models.PreviewResult, error) {
	return &m.Preview, nil
}

func (m *MockGateway) Synthesize(ctx context.Context, req models.SynthesizeRequest) (*models.SynthesizeResult, error) {
	return &models.SynthesizeResult{AudioURL: "/api/tts/audio/x.wav"}, m.Err
}

func TestTrackerPerControlExclusion(t *testing.T) {
	tracker := NewTracker()

	release, err := tracker.Begin(TestKey(1), "Testing...")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := tracker.Begin(TestKey(1), "Testing..."); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy for the same control, got %v", err)
	}

	other, err := tracker.Begin(PreviewKey(1), "Generating...")
	if err != nil {
		t.Errorf("Expected a different control to start, got %v", err)
	}
	other()

	label, busy := tracker.Busy(TestKey(1))
	if !busy || label != "Testing..." {
		t.Errorf("Expected control to be busy with its label, got %q %v", label, busy)
	}

	release()
	release()

	if _, busy := tracker.Busy(TestKey(1)); busy {
		t.Error("Expected control to be released")
	}
	if len(tracker.Active()) != 0 {
		t.Errorf("Expected no active controls, got %v", tracker.Active())
	}
}

func TestReleaseAfterTransportError(t *testing.T) {
	tracker := NewTracker()
	transportErr := &api.TransportError{Method: "POST", Path: "/providers/test-measurement", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	runner := NewRunner(&MockGateway{Err: transportErr}, tracker)

	_, err := runner.TestMeasurement(context.Background(), 4)

	var got *api.TransportError
	if !errors.As(err, &got) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if _, busy := tracker.Busy(TestKey(4)); busy {
		t.Error("Expected busy state to be cleared after a transport error")
	}
}

func TestReleaseAfterPanic(t *testing.T) {
	tracker := NewTracker()
	runner := NewRunner(&MockGateway{panicValue: "boom"}, tracker)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Expected panic to propagate")
			}
		}()
		runner.Preview(context.Background(), 2)
	}()

	if _, busy := tracker.Busy(PreviewKey(2)); busy {
		t.Error("Expected busy state to be cleared after a panic")
	}
}

func TestConcurrentSameControl(t *testing.T) {
	tracker := NewTracker()
	gateway := &MockGateway{block: make(chan struct{}), started: make(chan struct{}, 1)}
	runner := NewRunner(gateway, tracker)

	done := make(chan error, 1)
	go func() {
		_, err := runner.Preview(context.Background(), 9)
		done <- err
	}()
	<-gateway.started

	if _, err := runner.Preview(context.Background(), 9); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy while the first preview runs, got %v", err)
	}

	close(gateway.block)
	if err := <-done; err != nil {
		t.Errorf("Expected first preview to succeed, got %v", err)
	}
}

func TestMeasurementAge(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	gateway := &MockGateway{
		Channel: models.Channel{ProviderID: "ffvl", StationID: "67"},
		Meas:    models.Measurement{MeasuredAt: models.Time{Time: now.Add(-7*time.Minute - 20*time.Second)}, WindAvgKmh: 18},
	}
	runner := NewRunner(gateway, NewTracker())
	runner.now = func() time.Time { return now }

	result, err := runner.TestMeasurement(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.AgeMinutes != 7 {
		t.Errorf("Expected age 7 minutes, got %d", result.AgeMinutes)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	runner := NewRunner(&MockGateway{}, NewTracker())

	if _, err := runner.Synthesize(context.Background(), models.SynthesizeRequest{VoiceID: "v"}); err == nil {
		t.Error("Expected validation error for empty text")
	}
}
