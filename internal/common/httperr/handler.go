package httperr

import (
	"context"
	"errors"

	_errors "github.com/mirzahilmi/stacy/internal/common/errors"
	"github.com/rs/zerolog/log"
)

const (
	EXIT_OK          = 0
	EXIT_FAILURE     = 1
	EXIT_APPLICATION = 2
	EXIT_TRANSPORT   = 3
	EXIT_PROTOCOL    = 4
	EXIT_LISTENER    = 5
	EXIT_VALIDATION  = 64
)

// Report logs err according to its failure class and returns the process
// exit code for it. Cancellation is not a failure.
func Report(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return EXIT_OK
	}

	errApplication := new(_errors.ApplicationError)
	if errors.As(err, &errApplication) {
		log.Error().
			Str("operation", errApplication.Operation).
			Int("status", errApplication.Status).
			Bytes("body", errApplication.Body).
			Msg("client: server rejected request")
		return EXIT_APPLICATION
	}

	errTransport := new(_errors.TransportError)
	if errors.As(err, &errTransport) {
		log.Error().
			Err(errTransport.Err).
			Str("operation", errTransport.Operation).
			Msg("client: request did not reach the server")
		return EXIT_TRANSPORT
	}

	errProtocol := new(_errors.ProtocolError)
	if errors.As(err, &errProtocol) {
		log.Error().
			Err(errProtocol.Err).
			Str("operation", errProtocol.Operation).
			Bytes("body", errProtocol.Body).
			Msg("client: cannot decode response body")
		return EXIT_PROTOCOL
	}

	errListener := new(_errors.ListenerError)
	if errors.As(err, &errListener) {
		log.Error().
			Err(errListener.Err).
			Str("state", errListener.State).
			Msg("listener: stream aborted")
		return EXIT_LISTENER
	}

	errValidation := new(_errors.ValidationError)
	if errors.As(err, &errValidation) {
		fields := map[string]any{}
		for field, message := range errValidation.Fields() {
			fields[field] = message
		}
		log.Error().Fields(fields).Msg("validation: rejected input")
		return EXIT_VALIDATION
	}

	log.Error().Err(err).Msg("")
	return EXIT_FAILURE
}
