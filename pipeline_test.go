package redis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pior/redis/resp"
)

func TestPipelineOrderedResults(t *testing.T) {
	client, dialer := newTestClient(nil, "+OK\r\n$1\r\nv\r\n:42\r\n")

	client.StartPipeline()
	assert.True(t, client.Pipelining())

	_, err := client.Exec("SET", "k", "v")
	require.NoError(t, err)
	blob, err := client.ExecBytes("GET", "k")
	require.NoError(t, err)
	assert.Nil(t, blob, "queued command returns a placeholder")
	n, err := client.ExecInt("INCR", "counter")
	require.NoError(t, err)
	assert.Zero(t, n)

	// Nothing on the wire while queuing.
	assert.Empty(t, dialer.conn(0).GetWrittenRequest())
	assert.Equal(t, 0, dialer.dials)

	results, err := client.StopPipeline(true)
	require.NoError(t, err)
	assert.False(t, client.Pipelining())

	require.Len(t, results, 3)
	assert.Equal(t, resp.SimpleValue("OK"), results[0])
	assert.Equal(t, []byte("v"), results[1])
	assert.Equal(t, int64(42), results[2])

	// One contiguous burst.
	assert.Equal(t,
		"*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"+
			"*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"+
			"*2\r\n$4\r\nINCR\r\n$7\r\ncounter\r\n",
		dialer.conn(0).GetWrittenRequest())
}

func TestPipelineFireAndForget(t *testing.T) {
	client, dialer := newTestClient(nil, "")

	client.StartPipeline()
	client.Exec("SET", "a", "1")
	client.ExecInt("INCR", "b")

	results, err := client.StopPipeline(false)
	require.NoError(t, err)

	// Placeholders per queued kind; no reply was read even though the
	// scripted stream is empty.
	require.Len(t, results, 2)
	assert.Equal(t, resp.Value{}, results[0])
	assert.Equal(t, int64(0), results[1])
	assert.NotEmpty(t, dialer.conn(0).GetWrittenRequest())
}

func TestStopPipelineWithoutStart(t *testing.T) {
	client, dialer := newTestClient(nil)

	results, err := client.StopPipeline(true)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, dialer.dials)
}

func TestStopPipelineEmptyQueue(t *testing.T) {
	client, dialer := newTestClient(nil)

	client.StartPipeline()
	results, err := client.StopPipeline(true)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, dialer.dials)
}

func TestPipelineHandshakeOncePerBatch(t *testing.T) {
	client, dialer := newTestClient(&Config{Password: "secret"},
		"+OK\r\n+OK\r\n+OK\r\n")

	client.StartPipeline()
	client.Exec("SET", "a", "1")
	client.Exec("SET", "b", "2")

	_, err := client.StopPipeline(true)
	require.NoError(t, err)

	written := dialer.conn(0).GetWrittenRequest()
	assert.Equal(t, 1, strings.Count(written, "AUTH"), "written: %q", written)

	// AUTH went out before the batch.
	assert.Less(t, strings.Index(written, "AUTH"), strings.Index(written, "SET"))
}

func TestPipelineServerErrorAbandonsBatch(t *testing.T) {
	client, _ := newTestClient(nil, "+OK\r\n-ERR oops\r\n+OK\r\n")

	client.StartPipeline()
	client.Exec("SET", "a", "1")
	client.Exec("BAD")
	client.Exec("SET", "b", "2")

	results, err := client.StopPipeline(true)
	var serverErr *resp.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Len(t, results, 1)
}

func TestPipelineSizeLimit(t *testing.T) {
	client, dialer := newTestClient(&Config{MaxRequestSize: 32})

	client.StartPipeline()
	client.Exec("SET", "key", "a value exceeding the configured maximum")

	_, err := client.StopPipeline(true)
	var sizeErr *resp.SizeLimitError
	require.ErrorAs(t, err, &sizeErr)
	assert.Empty(t, dialer.conn(0).GetWrittenRequest())
}
