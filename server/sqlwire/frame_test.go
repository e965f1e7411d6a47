package sqlwire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giraffedb/giraffesql/internal/sql/executor"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	req := ExecuteRequest{ID: 7, SQL: "SHOW TABLES"}
	require.NoError(t, WriteFrame(&buf, req))

	var got ExecuteRequest
	require.NoError(t, ReadFrame(&buf, &got))
	assert.Equal(t, req, got)
}

func TestFrameResponseCarriesResult(t *testing.T) {
	var buf bytes.Buffer

	resp := ExecuteResponse{
		ID:     1,
		Result: &executor.Result{Columns: []string{"a"}, Message: "ok"},
	}
	require.NoError(t, WriteFrame(&buf, resp))

	var got ExecuteResponse
	require.NoError(t, ReadFrame(&buf, &got))
	require.NotNil(t, got.Result)
	assert.Equal(t, "ok", got.Result.Message)
	assert.Equal(t, []string{"a"}, got.Result.Columns)
}

func TestFrameTooLarge(t *testing.T) {
	hdr := []byte{0xff, 0xff, 0xff, 0xff}
	err := ReadFrame(bytes.NewReader(hdr), &ExecuteRequest{})
	require.Error(t, err)
}

func TestFrameEmpty(t *testing.T) {
	hdr := []byte{0, 0, 0, 0}
	err := ReadFrame(bytes.NewReader(hdr), &ExecuteRequest{})
	require.Error(t, err)
}
