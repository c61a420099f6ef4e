package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagesync/internal/prism"
)

// newTask issues a throwaway create just to obtain a registered task
func newTask(t *testing.T, client *prism.MockClient) string {
	t.Helper()

	taskUUID, _, err := client.CreateImage(context.Background(), &prism.ImageSpec{
		Spec:     &prism.ImageDefinition{Name: "poll-target"},
		Metadata: prism.Metadata{Kind: "image", Name: "poll-target"},
	})
	require.NoError(t, err)
	return taskUUID
}

func TestTaskPoller_WaitsForSuccess(t *testing.T) {
	client := prism.NewMockClient()
	taskUUID := newTask(t, client)
	client.SetPendingPolls(taskUUID, 2)

	poller := NewTaskPoller(client, WithInterval(time.Millisecond))
	failure, err := poller.Wait(context.Background(), taskUUID)
	require.NoError(t, err)

	assert.Empty(t, failure)
	assert.Equal(t, 3, client.CallCount("GetTask"))
}

func TestTaskPoller_ReturnsFailureDetail(t *testing.T) {
	client := prism.NewMockClient()
	client.FailNextTask("source download failed")
	taskUUID := newTask(t, client)

	poller := NewTaskPoller(client, WithInterval(time.Millisecond))
	failure, err := poller.Wait(context.Background(), taskUUID)
	require.NoError(t, err)

	assert.Equal(t, "source download failed", failure)
}

func TestTaskPoller_DeadlineExceeded(t *testing.T) {
	client := prism.NewMockClient()
	taskUUID := newTask(t, client)
	client.SetPendingPolls(taskUUID, 1000)

	poller := NewTaskPoller(client, WithInterval(5*time.Millisecond), WithDeadline(25*time.Millisecond))
	_, err := poller.Wait(context.Background(), taskUUID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTaskPoller_ContextCancelled(t *testing.T) {
	client := prism.NewMockClient()
	taskUUID := newTask(t, client)
	client.SetPendingPolls(taskUUID, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	poller := NewTaskPoller(client, WithInterval(2*time.Millisecond))
	_, err := poller.Wait(ctx, taskUUID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskPoller_PollFailure(t *testing.T) {
	client := prism.NewMockClient()
	taskUUID := newTask(t, client)
	client.SetShouldFail("GetTask", "connection reset")

	poller := NewTaskPoller(client, WithInterval(time.Millisecond))
	_, err := poller.Wait(context.Background(), taskUUID)
	require.Error(t, err)

	recErr, ok := AsReconciliationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeAPI, recErr.Type)
}
