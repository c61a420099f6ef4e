package prism

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorded is the last request seen by the fake endpoint
type recorded struct {
	method string
	path   string
	auth   string
	body   []byte
}

func newFakeEndpoint(t *testing.T, status int, response string) (*HTTPClient, *recorded) {
	t.Helper()

	rec := &recorded{}
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	endpoint, err := url.Parse(server.URL)
	require.NoError(t, err)

	client := NewHTTPClient(HTTPOptions{
		Hostname: endpoint.Hostname(),
		Port:     endpoint.Port(),
		Username: "admin",
		Password: "secret",
		Insecure: true,
	})
	return client, rec
}

func TestHTTPClient_ListEntities(t *testing.T) {
	client, rec := newFakeEndpoint(t, http.StatusOK, `{
		"entities": [
			{
				"status": {"name": "ubuntu20", "resources": {"image_type": "ISO_IMAGE"}},
				"metadata": {"kind": "image", "uuid": "img-1", "name": "ubuntu20"}
			}
		]
	}`)

	list, err := client.ListEntities(context.Background(), KindImage, ListRequest{
		Kind:   "image",
		Offset: 0,
		Length: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/nutanix/v3/images/list", rec.path)
	assert.NotEmpty(t, rec.auth)

	var page ListRequest
	require.NoError(t, json.Unmarshal(rec.body, &page))
	assert.Equal(t, 500, page.Length)

	require.Len(t, list.Entities, 1)
	assert.Equal(t, "ubuntu20", list.Entities[0].Status.Name)
	assert.Equal(t, "ISO_IMAGE", list.Entities[0].Status.Resources.ImageType)
	assert.Equal(t, "img-1", list.Entities[0].Metadata.UUID)
}

func TestHTTPClient_ListEntitiesUnsupportedKind(t *testing.T) {
	client := NewHTTPClient(HTTPOptions{Hostname: "pc.example.com"})

	_, err := client.ListEntities(context.Background(), EntityKind("subnet"), ListRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported entity kind")
}

func TestHTTPClient_CreateImage(t *testing.T) {
	client, rec := newFakeEndpoint(t, http.StatusAccepted, `{
		"status": {"execution_context": {"task_uuid": "task-1"}},
		"metadata": {"kind": "image", "uuid": "img-1"}
	}`)

	taskUUID, imageUUID, err := client.CreateImage(context.Background(), &ImageSpec{
		Spec: &ImageDefinition{
			Name:      "ubuntu20",
			Resources: ImageResources{ImageType: "ISO_IMAGE", SourceURI: "http://mirror/ubuntu20.iso"},
		},
		APIVersion: "3.1.0",
		Metadata:   Metadata{Kind: "image", Name: "ubuntu20"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/nutanix/v3/images", rec.path)
	assert.Equal(t, "task-1", taskUUID)
	assert.Equal(t, "img-1", imageUUID)

	var sent ImageSpec
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "3.1.0", sent.APIVersion)
	assert.Equal(t, "http://mirror/ubuntu20.iso", sent.Spec.Resources.SourceURI)
}

func TestHTTPClient_UpdateAndDeletePaths(t *testing.T) {
	client, rec := newFakeEndpoint(t, http.StatusAccepted, `{
		"status": {"execution_context": {"task_uuid": "task-2"}}
	}`)

	taskUUID, err := client.UpdateImage(context.Background(), "img-1", &ImageSpec{
		Spec: &ImageDefinition{Name: "ubuntu20"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/nutanix/v3/images/img-1", rec.path)
	assert.Equal(t, "task-2", taskUUID)

	taskUUID, err = client.DeleteImage(context.Background(), "img-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/nutanix/v3/images/img-1", rec.path)
	assert.Equal(t, "task-2", taskUUID)
}

func TestHTTPClient_GetTask(t *testing.T) {
	client, rec := newFakeEndpoint(t, http.StatusOK, `{
		"uuid": "task-1",
		"status": "FAILED",
		"error_detail": "source unreachable"
	}`)

	task, err := client.GetTask(context.Background(), "task-1")
	require.NoError(t, err)

	assert.Equal(t, "/api/nutanix/v3/tasks/task-1", rec.path)
	assert.Equal(t, TaskFailed, task.Status)
	assert.Equal(t, "source unreachable", task.ErrorDetail)
	assert.True(t, task.Terminal())
}

func TestHTTPClient_APIErrorFromMessageList(t *testing.T) {
	client, _ := newFakeEndpoint(t, http.StatusUnprocessableEntity, `{
		"message_list": [{"message": "name is required"}, {"message": "invalid source"}]
	}`)

	_, err := client.GetImage(context.Background(), "img-1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, []string{"name is required", "invalid source"}, apiErr.Messages)
	assert.Contains(t, apiErr.Error(), "name is required; invalid source")
}

func TestHTTPClient_APIErrorWithoutBody(t *testing.T) {
	client, _ := newFakeEndpoint(t, http.StatusUnauthorized, ``)

	_, err := client.GetTask(context.Background(), "task-1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, apiErr.Messages)
}
