package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient creates a miniredis instance and returns a connected RedisClient.
func setupTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

func testWorkItem(index, total int) WorkItem {
	return WorkItem{
		JobID:          "job-123",
		Index:          index,
		Total:          total,
		Parser:         "ps",
		CollectionPath: "/data/collections/host-01",
		TraceID:        "trace-123",
		SpanID:         "span-123",
		SubmittedAt:    time.Now().UnixMilli(),
	}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("successful connection", func(t *testing.T) {
		mr := miniredis.RunT(t)
		defer mr.Close()

		client, err := NewRedisClient(RedisOptions{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		})
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("connection failure", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL:            "redis://localhost:99999",
			ConnectTimeout: 100 * time.Millisecond,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := NewRedisClient(RedisOptions{
			URL: "invalid://url",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse Redis URL")
	})
}

func TestPushPop(t *testing.T) {
	t.Run("successful push and pop", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		item := testWorkItem(0, 1)

		err := client.Push(ctx, "test-queue", item)
		require.NoError(t, err)

		popped, err := client.Pop(ctx, "test-queue")
		require.NoError(t, err)
		require.NotNil(t, popped)

		assert.Equal(t, item.JobID, popped.JobID)
		assert.Equal(t, item.Index, popped.Index)
		assert.Equal(t, item.Total, popped.Total)
		assert.Equal(t, item.Parser, popped.Parser)
		assert.Equal(t, item.CollectionPath, popped.CollectionPath)
		assert.Equal(t, item.TraceID, popped.TraceID)
		assert.Equal(t, item.SpanID, popped.SpanID)
		assert.Equal(t, item.SubmittedAt, popped.SubmittedAt)
	})

	t.Run("multiple items FIFO order", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			item := testWorkItem(i, 5)
			item.CollectionPath = fmt.Sprintf("/data/collections/host-%02d", i)
			require.NoError(t, client.Push(ctx, "test-queue", item))
		}

		for i := 0; i < 5; i++ {
			popped, err := client.Pop(ctx, "test-queue")
			require.NoError(t, err)
			require.NotNil(t, popped)
			assert.Equal(t, i, popped.Index)
		}
	})

	t.Run("pop blocks until push", func(t *testing.T) {
		client, _ := setupTestClient(t)
		ctx := context.Background()

		done := make(chan *WorkItem, 1)
		go func() {
			popped, err := client.Pop(ctx, "blocking-queue")
			if err == nil {
				done <- popped
			}
		}()

		time.Sleep(50 * time.Millisecond)
		require.NoError(t, client.Push(ctx, "blocking-queue", testWorkItem(0, 1)))

		select {
		case popped := <-done:
			assert.Equal(t, "job-123", popped.JobID)
		case <-time.After(5 * time.Second):
			t.Fatal("Pop did not return after Push")
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		client, mr := setupTestClient(t)
		ctx := context.Background()

		_, err := mr.Lpush("bad-queue", "not json")
		require.NoError(t, err)

		_, err = client.Pop(ctx, "bad-queue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal work item")
	})
}

func TestPublishSubscribe(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results, err := client.Subscribe(ctx, "results:job-123")
	require.NoError(t, err)

	result := Result{
		JobID:       "job-123",
		Index:       0,
		RecordsJSON: `[{"tool":"ps"}]`,
		RecordCount: 1,
		WorkerID:    "worker-1",
		StartedAt:   time.Now().UnixMilli(),
		CompletedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, client.Publish(ctx, "results:job-123", result))

	select {
	case got := <-results:
		assert.Equal(t, result.JobID, got.JobID)
		assert.Equal(t, result.RecordsJSON, got.RecordsJSON)
		assert.Equal(t, result.RecordCount, got.RecordCount)
		assert.Equal(t, result.WorkerID, got.WorkerID)
	case <-time.After(5 * time.Second):
		t.Fatal("did not receive published result")
	}

	// Cancelling the context closes the result channel.
	cancel()
	select {
	case _, open := <-results:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("result channel was not closed on cancel")
	}
}

func TestRegisterAndListParsers(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	metas := []ParserMeta{
		{Name: "ps", Version: "1.0.0", Description: "process records", Command: "ps", WorkerCount: 2},
		{Name: "lsof", Version: "1.0.0", Description: "open file records", Command: "lsof"},
	}
	for _, meta := range metas {
		require.NoError(t, client.RegisterParser(ctx, meta))
	}

	parsers, err := client.ListParsers(ctx)
	require.NoError(t, err)
	require.Len(t, parsers, 2)

	byName := map[string]ParserMeta{}
	for _, p := range parsers {
		byName[p.Name] = p
	}
	assert.Equal(t, "ps", byName["ps"].Command)
	assert.Equal(t, 2, byName["ps"].WorkerCount)
	assert.Equal(t, "open file records", byName["lsof"].Description)
}

func TestHeartbeat(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Heartbeat(ctx, "ps"))

	val, err := mr.Get("parser:ps:health")
	require.NoError(t, err)
	assert.Equal(t, "ok", val)

	// The key expires after the TTL.
	mr.FastForward(31 * time.Second)
	assert.False(t, mr.Exists("parser:ps:health"))
}

func TestWorkerCount(t *testing.T) {
	client, _ := setupTestClient(t)
	ctx := context.Background()

	count, err := client.GetWorkerCount(ctx, "ps")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, client.IncrementWorkerCount(ctx, "ps"))
	require.NoError(t, client.IncrementWorkerCount(ctx, "ps"))

	count, err = client.GetWorkerCount(ctx, "ps")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, client.DecrementWorkerCount(ctx, "ps"))

	count, err = client.GetWorkerCount(ctx, "ps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
