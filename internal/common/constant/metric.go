package constant

const (
	METER_NAME = "stacy"

	METRIC_CLIENT_REQUESTS = "stacy.client.requests"
	METRIC_LISTENER_EVENTS = "stacy.listener.events"
	METRIC_READING_PREFIX  = "stacy.reading."

	OUTCOME_OK = "ok"
)
