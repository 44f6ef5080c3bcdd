// Copyright © 2026 The panelctl authors

package telemetry

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/segmentio/analytics-go.v3"
)

// SegmentWriteKey is stamped into release builds. Local builds leave it
// empty, which disables tracking.
var SegmentWriteKey string

// DisableEnv turns tracking off when set to a true value.
const DisableEnv = "PANELCTL_SEGMENT_EVENTS_DISABLE"

const (
	EventLoginSucceeded = "Login Succeeded"
	EventLoginFailed    = "Login Failed"
	EventLogout         = "Logout"
)

// Tracker records usage events. Credentials and tokens are never sent.
type Tracker interface {
	Track(event, username string, props map[string]interface{}) error
	Close()
}

type SegmentTracker struct {
	apiURL      string
	anonymousID string
	client      analytics.Client
}

type NoopTracker struct {
}

type segmentNoopLogger struct {
}

// NewTracker returns a Segment tracker, or a no-op one when tracking is
// disabled by flag, env var or a missing write key.
func NewTracker(apiURL string, noTracking bool) Tracker {
	return newTracker(SegmentWriteKey, apiURL, noTracking, analytics.Config{})
}

func newTracker(writeKey, apiURL string, noTracking bool, cfg analytics.Config) Tracker {
	disabled, _ := strconv.ParseBool(os.Getenv(DisableEnv))

	if writeKey == "" || noTracking || disabled {
		return NoopTracker{}
	}

	cfg.Logger = &segmentNoopLogger{}
	client, err := analytics.NewWithConfig(writeKey, cfg)
	if err != nil {
		zap.S().Debugf("Segment disabled: %s", err)
		return NoopTracker{}
	}

	return SegmentTracker{
		apiURL:      apiURL,
		anonymousID: uuid.New().String(),
		client:      client,
	}
}

func (s SegmentTracker) Track(event, username string, props map[string]interface{}) error {
	zap.S().Debug("Sending Segment Event: ", event)

	properties := analytics.NewProperties().Set("apiURL", s.apiURL)
	for k, v := range props {
		properties = properties.Set(k, v)
	}

	return s.client.Enqueue(analytics.Track{
		UserId:      username,
		AnonymousId: s.anonymousID,
		Event:       event,
		Properties:  properties,
		Integrations: analytics.NewIntegrations().Set("Amplitude", map[string]interface{}{
			"session_id": time.Now().Unix(),
		}),
	})
}

func (s SegmentTracker) Close() {
	if err := s.client.Close(); err != nil {
		zap.S().Debugf("Could not flush segment events: %s", err)
	}
}

func (l *segmentNoopLogger) Logf(format string, args ...interface{}) {
	zap.S().Debug("Could not send segment event")
}

func (l *segmentNoopLogger) Errorf(format string, args ...interface{}) {
	zap.S().Debug("Could not send segment event")
}

func (NoopTracker) Track(event, username string, props map[string]interface{}) error {
	return nil
}

func (NoopTracker) Close() {
}
