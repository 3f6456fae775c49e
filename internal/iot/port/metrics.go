package port

import (
	"context"

	"github.com/mirzahilmi/stacy/internal/common/constant"
	_errors "github.com/mirzahilmi/stacy/internal/common/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	requests metric.Int64Counter
	events   metric.Int64Counter
	readings map[string]metric.Float64Gauge
}

func newInstruments() (*instruments, error) {
	meter := otel.Meter(constant.METER_NAME)

	requests, err := meter.Int64Counter(
		constant.METRIC_CLIENT_REQUESTS,
		metric.WithDescription("Requests issued against the plant server"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		log.Error().
			Err(err).
			Msg("iot: cannot create meter counter instance")
		return nil, err
	}
	events, err := meter.Int64Counter(
		constant.METRIC_LISTENER_EVENTS,
		metric.WithDescription("Frames pushed by the plant server"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		log.Error().
			Err(err).
			Msg("iot: cannot create meter counter instance")
		return nil, err
	}

	readings := map[string]metric.Float64Gauge{}
	for field := range (Reading{}).fields() {
		gauge, err := meter.Float64Gauge(
			constant.METRIC_READING_PREFIX+field,
			metric.WithDescription("Last submitted "+field+" reading"),
		)
		if err != nil {
			log.Error().
				Err(err).
				Msg("iot: cannot create meter gauge instance")
			return nil, err
		}
		readings[field] = gauge
	}

	return &instruments{requests, events, readings}, nil
}

func (i *instruments) request(ctx context.Context, operation string, err error) {
	outcome := constant.OUTCOME_OK
	if err != nil {
		outcome = _errors.Kind(err)
		if outcome == "" {
			outcome = "unknown"
		}
	}
	i.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func (i *instruments) event(ctx context.Context) {
	i.events.Add(ctx, 1)
}

func (i *instruments) reading(ctx context.Context, deviceId string, reading Reading) {
	device := metric.WithAttributes(attribute.String("device_id", deviceId))
	for field, value := range reading.fields() {
		if value == nil {
			continue
		}
		i.readings[field].Record(ctx, *value, device)
	}
}
