package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/weatherpro/weatherpro/internal/provider/resilience"
	"github.com/weatherpro/weatherpro/internal/weather"
)

// Job types accepted on the refresh subscription.
const (
	JobTypeRefresh     = "refresh"
	JobTypeSelectCity  = "select_city"
	JobTypeHealthCheck = "health_check"
)

// ErrUnknownJobType is returned for messages with an unsupported job type.
var ErrUnknownJobType = errors.New("unknown job type")

// PubSubHandler turns Pub/Sub messages into dashboard refreshes.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	refreshJob       *RefreshJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// RefreshMessage is the payload of a refresh trigger, e.g.
// {"job_type":"select_city","city":"Tokyo"}.
type RefreshMessage struct {
	JobType string `json:"job_type"`
	City    string `json:"city,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Refreshes replace each other, so there is no point in a deep backlog.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 2 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		refreshJob:       cfg.RefreshJob,
		logger:           cfg.Logger,
	}, nil
}

// Start processes messages until ctx is cancelled.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	retry, err := h.process(ctx, msg.Data)
	switch {
	case err == nil:
		msg.Ack()
	case retry:
		logger.Error().Err(err).Msg("job failed, requesting redelivery")
		msg.Nack()
	default:
		// Redelivery would fail the same way
		logger.Warn().Err(err).Msg("dropping message")
		msg.Ack()
	}
}

// process runs the job described by data. retry reports whether a failure
// is transient.
func (h *PubSubHandler) process(ctx context.Context, data []byte) (retry bool, err error) {
	startTime := time.Now()

	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return false, fmt.Errorf("parsing message: %w", err)
	}

	switch msg.JobType {
	case JobTypeRefresh:
		err = h.refreshJob.Run(ctx, Trigger{Source: SourcePubSub}).Err
	case JobTypeSelectCity:
		if msg.City == "" {
			return false, weather.ErrEmptyCity
		}
		err = h.refreshJob.Run(ctx, Trigger{Source: SourcePubSub, City: msg.City}).Err
	case JobTypeHealthCheck:
		err = h.refreshJob.Check(ctx)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownJobType, msg.JobType)
	}

	switch {
	case err == nil, errors.Is(err, weather.ErrSuperseded):
		h.logger.Info().
			Str("job_type", msg.JobType).
			Dur("duration", time.Since(startTime)).
			Msg("job completed successfully")
		return false, nil
	case errors.Is(err, weather.ErrCityNotFound), errors.Is(err, weather.ErrEmptyCity):
		return false, err
	case errors.Is(err, resilience.ErrCircuitOpen):
		// The scheduler refreshes again once the breaker closes
		return false, err
	default:
		return true, err
	}
}
