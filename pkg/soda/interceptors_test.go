package soda_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/soda/pkg/soda"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"debug", msg, fields})
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"info", msg, fields})
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"warn", msg, fields})
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{"error", msg, fields})
}

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	chain := soda.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	// Add multiple interceptors
	chain.AddRequestInterceptor(func(ctx context.Context, req *soda.Request) error {
		executionOrder = append(executionOrder, "first")
		return nil
	})

	chain.AddRequestInterceptor(func(ctx context.Context, req *soda.Request) error {
		executionOrder = append(executionOrder, "second")
		return nil
	})

	req := &soda.Request{
		Method: "GET",
		Path:   "/resource/nimj-3ivp.json",
	}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_RequestInterceptorError(t *testing.T) {
	chain := soda.NewInterceptorChain()
	ctx := context.Background()

	interceptorErr := errors.New("rejected")
	reachedSecond := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *soda.Request) error {
		return interceptorErr
	})

	chain.AddRequestInterceptor(func(ctx context.Context, req *soda.Request) error {
		reachedSecond = true
		return nil
	})

	err := chain.ExecuteRequestInterceptors(ctx, &soda.Request{Method: "GET"})
	require.ErrorIs(t, err, interceptorErr)
	assert.False(t, reachedSecond, "chain should stop at the first failure")
}

func TestInterceptorChain_ResponseInterceptors(t *testing.T) {
	chain := soda.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddResponseInterceptor(func(ctx context.Context, req *soda.Request, resp *soda.Response) error {
		executionOrder = append(executionOrder, "first")
		return nil
	})

	chain.AddResponseInterceptor(func(ctx context.Context, req *soda.Request, resp *soda.Response) error {
		executionOrder = append(executionOrder, "second")
		return nil
	})

	req := &soda.Request{
		Method: "GET",
		Path:   "/resource/nimj-3ivp.json",
	}
	resp := &soda.Response{
		StatusCode: 200,
	}

	err := chain.ExecuteResponseInterceptors(ctx, req, resp)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestHeaderInterceptor(t *testing.T) {
	headers := map[string]string{
		"X-Custom-Header": "custom-value",
		"X-Request-ID":    "123456",
	}

	interceptor := soda.HeaderInterceptor(headers)
	ctx := context.Background()
	req := &soda.Request{
		Method: "GET",
		Path:   "/resource/nimj-3ivp.json",
	}

	err := interceptor(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "custom-value", req.Headers.Get("X-Custom-Header"))
	assert.Equal(t, "123456", req.Headers.Get("X-Request-ID"))
}

func TestUserAgentInterceptor(t *testing.T) {
	interceptor := soda.UserAgentInterceptor("earthquake-ingest/1.0")
	ctx := context.Background()
	req := &soda.Request{
		Method:  "GET",
		Path:    "/resource/nimj-3ivp.json",
		Headers: make(http.Header),
	}

	err := interceptor(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "earthquake-ingest/1.0", req.Headers.Get("User-Agent"))
}

func TestLoggingInterceptors(t *testing.T) {
	logger := &recordingLogger{}
	ctx := context.Background()

	req := &soda.Request{
		Method: "GET",
		Path:   "/resource/nimj-3ivp.json",
	}

	err := soda.LoggingInterceptor(logger)(ctx, req)
	require.NoError(t, err)

	require.Len(t, logger.entries, 1)
	assert.Equal(t, "debug", logger.entries[0].level)
	assert.Equal(t, "/resource/nimj-3ivp.json", logger.entries[0].fields["path"])

	// Successful responses log at debug, failures at error.
	interceptor := soda.LoggingResponseInterceptor(logger)

	err = interceptor(ctx, req, &soda.Response{StatusCode: 200})
	require.NoError(t, err)

	err = interceptor(ctx, req, &soda.Response{StatusCode: 500, Error: errors.New("boom")})
	require.NoError(t, err)

	require.Len(t, logger.entries, 3)
	assert.Equal(t, "debug", logger.entries[1].level)
	assert.Equal(t, "error", logger.entries[2].level)
	assert.Equal(t, 500, logger.entries[2].fields["status_code"])
}
