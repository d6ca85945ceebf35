package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriterWithinLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 64}

	_, err := cw.Write([]byte(`{"success":true}`))
	require.NoError(t, err)

	assert.False(t, cw.overflowed())
	assert.Equal(t, `{"success":true}`, cw.buf.String())
	assert.Equal(t, `{"success":true}`, rec.Body.String())
}

// A body larger than the limit still reaches the client in full, but
// the capture must report the overflow so the prefix is never cached.
func TestCaptureWriterOverflowDetected(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	_, err := cw.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)

	assert.True(t, cw.overflowed())
	assert.Equal(t, "0123456789", cw.buf.String())
	assert.Equal(t, "0123456789abcdef", rec.Body.String())
}

// Overflow must be detected even when an earlier write lands exactly on
// the limit and a later one pushes past it.
func TestCaptureWriterOverflowAcrossWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	_, err := cw.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.False(t, cw.overflowed())

	_, err = cw.Write([]byte("abc"))
	require.NoError(t, err)

	assert.True(t, cw.overflowed())
	assert.Equal(t, int64(13), cw.size)
	assert.Equal(t, "0123456789", cw.buf.String())
	assert.Equal(t, "0123456789abc", rec.Body.String())
}

func TestCaptureWriterNoLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 0}

	_, err := cw.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)

	assert.False(t, cw.overflowed())
	assert.Equal(t, "0123456789abcdef", cw.buf.String())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"success":true,"message":"fields"}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}
