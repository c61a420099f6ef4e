package prism

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// kind → list endpoint path segment
var listPaths = map[EntityKind]string{
	KindImage:   "images",
	KindVM:      "vms",
	KindCluster: "clusters",
}

// HTTPClient implements the Client interface against the Prism Central v3 REST API
type HTTPClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// HTTPOptions configures a new HTTPClient
type HTTPOptions struct {
	Hostname string
	Port     string
	Username string
	Password string
	// Insecure skips certificate verification for self-signed setups
	Insecure bool
	Timeout  time.Duration
}

// NewHTTPClient creates a client for the given Prism Central endpoint
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	port := opts.Port
	if port == "" {
		port = "9440"
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &HTTPClient{
		baseURL:  fmt.Sprintf("https://%s:%s/api/nutanix/v3", opts.Hostname, port),
		username: opts.Username,
		password: opts.Password,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// APIError represents a non-2xx response from Prism Central
type APIError struct {
	StatusCode int
	Messages   []string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("prism api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("prism api error: status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// errorBody is the Prism error envelope
type errorBody struct {
	MessageList []struct {
		Message string `json:"message"`
	} `json:"message_list"`
	Message string `json:"message"`
}

// mutationResponse is the common envelope of create/update/delete responses
type mutationResponse struct {
	Status struct {
		ExecutionContext struct {
			TaskUUID string `json:"task_uuid"`
		} `json:"execution_context"`
	} `json:"status"`
	Metadata Metadata `json:"metadata"`
}

// ListEntities lists entities of the given kind with pagination
func (c *HTTPClient) ListEntities(ctx context.Context, kind EntityKind, page ListRequest) (*EntityList, error) {
	path, ok := listPaths[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported entity kind: %s", kind)
	}

	var list EntityList
	if err := c.do(ctx, http.MethodPost, "/"+path+"/list", page, &list); err != nil {
		return nil, fmt.Errorf("unable to list %s: %w", path, err)
	}

	return &list, nil
}

// CreateImage submits an image create and returns the task and image identifiers
func (c *HTTPClient) CreateImage(ctx context.Context, spec *ImageSpec) (string, string, error) {
	var resp mutationResponse
	if err := c.do(ctx, http.MethodPost, "/images", spec, &resp); err != nil {
		return "", "", fmt.Errorf("unable to create image: %w", err)
	}

	return resp.Status.ExecutionContext.TaskUUID, resp.Metadata.UUID, nil
}

// UpdateImage submits an image update and returns the task identifier
func (c *HTTPClient) UpdateImage(ctx context.Context, imageUUID string, spec *ImageSpec) (string, error) {
	var resp mutationResponse
	if err := c.do(ctx, http.MethodPut, "/images/"+imageUUID, spec, &resp); err != nil {
		return "", fmt.Errorf("unable to update image %s: %w", imageUUID, err)
	}

	return resp.Status.ExecutionContext.TaskUUID, nil
}

// GetImage fetches the full image document
func (c *HTTPClient) GetImage(ctx context.Context, imageUUID string) (*ImageSpec, error) {
	var spec ImageSpec
	if err := c.do(ctx, http.MethodGet, "/images/"+imageUUID, nil, &spec); err != nil {
		return nil, fmt.Errorf("unable to get image %s: %w", imageUUID, err)
	}

	return &spec, nil
}

// DeleteImage submits an image delete and returns the task identifier
func (c *HTTPClient) DeleteImage(ctx context.Context, imageUUID string) (string, error) {
	var resp mutationResponse
	if err := c.do(ctx, http.MethodDelete, "/images/"+imageUUID, nil, &resp); err != nil {
		return "", fmt.Errorf("unable to delete image %s: %w", imageUUID, err)
	}

	return resp.Status.ExecutionContext.TaskUUID, nil
}

// GetTask fetches the current state of an asynchronous task
func (c *HTTPClient) GetTask(ctx context.Context, taskUUID string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskUUID, nil, &task); err != nil {
		return nil, fmt.Errorf("unable to get task %s: %w", taskUUID, err)
	}

	return &task, nil
}

// do performs a single authenticated JSON round-trip
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("unable to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, payload)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("unable to decode response: %w", err)
		}
	}

	return nil
}

func newAPIError(status int, payload []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(payload, &body); err == nil {
		for _, m := range body.MessageList {
			apiErr.Messages = append(apiErr.Messages, m.Message)
		}
		if len(apiErr.Messages) == 0 && body.Message != "" {
			apiErr.Messages = append(apiErr.Messages, body.Message)
		}
	}

	return apiErr
}
