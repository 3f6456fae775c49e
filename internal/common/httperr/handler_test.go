package httperr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	_errors "github.com/mirzahilmi/stacy/internal/common/errors"
	"github.com/mirzahilmi/stacy/internal/common/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logging.InitWriter(&buf, "debug"))

	cases := []struct {
		err  error
		code int
	}{
		{nil, EXIT_OK},
		{context.Canceled, EXIT_OK},
		{fmt.Errorf("listen: %w", context.Canceled), EXIT_OK},
		{_errors.NewApplicationError("create_user", 500, []byte(`{"message":"Internal Server Error"}`)), EXIT_APPLICATION},
		{_errors.NewTransportError("create_user", errors.New("connection refused")), EXIT_TRANSPORT},
		{_errors.NewProtocolError("get_plants", []byte("<html>"), errors.New("invalid character")), EXIT_PROTOCOL},
		{_errors.NewListenerError("streaming", errors.New("unexpected EOF")), EXIT_LISTENER},
		{_errors.NewValidationError(map[string]string{"uid": "missing"}), EXIT_VALIDATION},
		{errors.New("boom"), EXIT_FAILURE},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, Report(tc.err), "%v", tc.err)
	}
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"uid":"missing"`)
	assert.Contains(t, buf.String(), `"message":"validation: rejected input"`)
	assert.NotContains(t, buf.String(), "config:")
}
