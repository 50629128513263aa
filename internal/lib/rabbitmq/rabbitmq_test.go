package rabbitmq

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const amqpPort = nat.Port("5672/tcp")

func setupRabbitMQ(ctx context.Context, t *testing.T) string {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_RABBITMQ_TESTS") == "1" {
		t.Skip("skipping RabbitMQ integration test")
	}
	if url := os.Getenv("TEST_RABBITMQ_URL"); url != "" {
		return url
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{string(amqpPort)},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, amqpPort)
	require.NoError(t, err)

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())
}

func TestPublishAndConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	url := setupRabbitMQ(ctx, t)

	conn, err := Connect(url, 5, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	queues := QueuesFor("test-jobs", "course.notify_subscribers")
	ch, err := SetupChannel(conn, "test-jobs", queues, 5)
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	var (
		mu       sync.Mutex
		received []string
		wg       sync.WaitGroup
	)
	wg.Add(2)
	handler := func(_ context.Context, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(body))
		wg.Done()
		return nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var consumers sync.WaitGroup
	consumeCtx, stop := context.WithCancel(ctx)
	defer func() {
		stop()
		consumers.Wait()
	}()
	require.NoError(t, ConsumerMessage(consumeCtx, ch, queues[0].QueueName, handler, logger, &consumers))

	publisher := NewPublisher(ch, "test-jobs")
	require.NoError(t, publisher.Publish(ctx, "course.notify_subscribers", map[string]int{"course_id": 1}))
	require.NoError(t, publisher.Publish(ctx, "course.notify_subscribers", map[string]int{"course_id": 2}))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(20 * time.Second):
		t.Fatal("timeout waiting for messages")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{`{"course_id":1}`, `{"course_id":2}`}, received)
}

func TestPublisher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(nil, "jobs")
	err := p.Publish(ctx, "any", struct{}{})
	assert.ErrorIs(t, err, context.Canceled)
}
