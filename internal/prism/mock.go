package prism

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockClient implements Client for testing
type MockClient struct {
	mu sync.RWMutex

	// Storage for mock data
	entities map[EntityKind][]Entity
	images   map[string]*ImageSpec
	tasks    map[string]*Task

	// Behavior controls
	shouldFailOperations map[string]string
	nextTaskFailure      string
	pendingPolls         map[string]int

	// Call tracking
	calls map[string]int
}

// NewMockClient creates a new mock Prism client
func NewMockClient() *MockClient {
	return &MockClient{
		entities:             make(map[EntityKind][]Entity),
		images:               make(map[string]*ImageSpec),
		tasks:                make(map[string]*Task),
		shouldFailOperations: make(map[string]string),
		pendingPolls:         make(map[string]int),
		calls:                make(map[string]int),
	}
}

// SetShouldFail makes the named operation return an error with the given message
func (m *MockClient) SetShouldFail(operation, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOperations[operation] = message
}

// FailNextTask makes the task of the next mutating call terminate in FAILED
// with the given detail
func (m *MockClient) FailNextTask(detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTaskFailure = detail
}

// SetPendingPolls makes the given task report RUNNING for n polls before
// its terminal state
func (m *MockClient) SetPendingPolls(taskUUID string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingPolls[taskUUID] = n
}

// CallCount returns how many times the named operation was invoked
func (m *MockClient) CallCount(operation string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[operation]
}

// AddImageEntity seeds an existing image and returns its uuid
func (m *MockClient) AddImageEntity(name, imageType, description string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.entities[KindImage] = append(m.entities[KindImage], Entity{
		Status: EntityStatus{
			Name:        name,
			Description: description,
			Resources:   EntityResources{ImageType: imageType},
		},
		Metadata: Metadata{Kind: "image", UUID: id, Name: name},
	})
	m.images[id] = &ImageSpec{
		Spec: &ImageDefinition{
			Name:        name,
			Resources:   ImageResources{ImageType: imageType},
			Description: description,
		},
		APIVersion: "3.1.0",
		Metadata:   Metadata{Kind: "image", UUID: id, Name: name},
		Status:     json.RawMessage(`{"state":"COMPLETE"}`),
	}
	return id
}

// AddVMEntity seeds a VM with the given disk uuids and returns its uuid
func (m *MockClient) AddVMEntity(name string, diskUUIDs ...string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	disks := make([]DiskRef, 0, len(diskUUIDs))
	for _, d := range diskUUIDs {
		disks = append(disks, DiskRef{UUID: d})
	}

	id := uuid.NewString()
	m.entities[KindVM] = append(m.entities[KindVM], Entity{
		Status: EntityStatus{
			Name:      name,
			Resources: EntityResources{DiskList: disks},
		},
		Metadata: Metadata{Kind: "vm", UUID: id, Name: name},
	})
	return id
}

// AddClusterEntity seeds a cluster and returns its uuid
func (m *MockClient) AddClusterEntity(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.entities[KindCluster] = append(m.entities[KindCluster], Entity{
		Status:   EntityStatus{Name: name},
		Metadata: Metadata{Kind: "cluster", UUID: id, Name: name},
	})
	return id
}

// ListEntities returns the seeded entities of a kind with pagination applied
func (m *MockClient) ListEntities(ctx context.Context, kind EntityKind, page ListRequest) (*EntityList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["ListEntities"]++
	m.calls["ListEntities/"+string(kind)]++

	if msg, ok := m.shouldFailOperations["ListEntities"]; ok {
		return nil, fmt.Errorf("%s", msg)
	}

	entities := m.entities[kind]

	// Only the vms list API honors filters; mirror that.
	if kind == KindVM && page.Filter != "" {
		name, ok := strings.CutPrefix(page.Filter, "vm_name==")
		if !ok {
			return nil, fmt.Errorf("unsupported filter: %s", page.Filter)
		}
		filtered := make([]Entity, 0)
		for _, e := range entities {
			if e.Status.Name == name {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	if page.Offset > len(entities) {
		return &EntityList{Entities: []Entity{}}, nil
	}
	entities = entities[page.Offset:]
	if page.Length > 0 && page.Length < len(entities) {
		entities = entities[:page.Length]
	}

	out := make([]Entity, len(entities))
	copy(out, entities)
	return &EntityList{Entities: out}, nil
}

// CreateImage stores the spec and returns fresh task and image uuids
func (m *MockClient) CreateImage(ctx context.Context, spec *ImageSpec) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["CreateImage"]++

	if msg, ok := m.shouldFailOperations["CreateImage"]; ok {
		return "", "", fmt.Errorf("%s", msg)
	}

	imageUUID := uuid.NewString()
	stored := *spec
	stored.Metadata.UUID = imageUUID
	m.images[imageUUID] = &stored

	m.entities[KindImage] = append(m.entities[KindImage], Entity{
		Status: EntityStatus{
			Name:        spec.Spec.Name,
			Description: spec.Spec.Description,
			Resources:   EntityResources{ImageType: spec.Spec.Resources.ImageType},
		},
		Metadata: Metadata{Kind: "image", UUID: imageUUID, Name: spec.Spec.Name},
	})

	return m.newTask(), imageUUID, nil
}

// UpdateImage replaces the stored spec for the image
func (m *MockClient) UpdateImage(ctx context.Context, imageUUID string, spec *ImageSpec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["UpdateImage"]++

	if msg, ok := m.shouldFailOperations["UpdateImage"]; ok {
		return "", fmt.Errorf("%s", msg)
	}

	if _, ok := m.images[imageUUID]; !ok {
		return "", fmt.Errorf("image %s not found", imageUUID)
	}

	stored := *spec
	stored.Metadata.UUID = imageUUID
	m.images[imageUUID] = &stored

	for i, e := range m.entities[KindImage] {
		if e.Metadata.UUID == imageUUID {
			m.entities[KindImage][i].Status.Description = spec.Spec.Description
			m.entities[KindImage][i].Status.Resources.ImageType = spec.Spec.Resources.ImageType
		}
	}

	return m.newTask(), nil
}

// GetImage returns the stored image document
func (m *MockClient) GetImage(ctx context.Context, imageUUID string) (*ImageSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["GetImage"]++

	if msg, ok := m.shouldFailOperations["GetImage"]; ok {
		return nil, fmt.Errorf("%s", msg)
	}

	spec, ok := m.images[imageUUID]
	if !ok {
		return nil, fmt.Errorf("image %s not found", imageUUID)
	}

	copied := *spec
	return &copied, nil
}

// DeleteImage removes the image and its entity
func (m *MockClient) DeleteImage(ctx context.Context, imageUUID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["DeleteImage"]++

	if msg, ok := m.shouldFailOperations["DeleteImage"]; ok {
		return "", fmt.Errorf("%s", msg)
	}

	if _, ok := m.images[imageUUID]; !ok {
		return "", fmt.Errorf("image %s not found", imageUUID)
	}
	delete(m.images, imageUUID)

	remaining := make([]Entity, 0, len(m.entities[KindImage]))
	for _, e := range m.entities[KindImage] {
		if e.Metadata.UUID != imageUUID {
			remaining = append(remaining, e)
		}
	}
	m.entities[KindImage] = remaining

	return m.newTask(), nil
}

// GetTask returns the state of a task, honoring scripted pending polls
func (m *MockClient) GetTask(ctx context.Context, taskUUID string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["GetTask"]++

	if msg, ok := m.shouldFailOperations["GetTask"]; ok {
		return nil, fmt.Errorf("%s", msg)
	}

	task, ok := m.tasks[taskUUID]
	if !ok {
		return nil, fmt.Errorf("task %s not found", taskUUID)
	}

	if m.pendingPolls[taskUUID] > 0 {
		m.pendingPolls[taskUUID]--
		return &Task{UUID: taskUUID, Status: TaskRunning}, nil
	}

	copied := *task
	return &copied, nil
}

// newTask registers a terminal task for the current mutation. The caller
// must hold the lock.
func (m *MockClient) newTask() string {
	id := uuid.NewString()
	task := &Task{UUID: id, Status: TaskSucceeded}
	if m.nextTaskFailure != "" {
		task.Status = TaskFailed
		task.ErrorDetail = m.nextTaskFailure
		m.nextTaskFailure = ""
	}
	m.tasks[id] = task
	return id
}
