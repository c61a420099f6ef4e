package prism

import (
	"context"
	"encoding/json"
)

// EntityKind identifies a listable Prism Central resource kind
type EntityKind string

const (
	KindImage   EntityKind = "image"
	KindVM      EntityKind = "vm"
	KindCluster EntityKind = "cluster"
)

// Client defines the interface for interacting with Prism Central
type Client interface {
	// Listing
	ListEntities(ctx context.Context, kind EntityKind, page ListRequest) (*EntityList, error)

	// Image operations
	CreateImage(ctx context.Context, spec *ImageSpec) (taskUUID string, imageUUID string, err error)
	UpdateImage(ctx context.Context, imageUUID string, spec *ImageSpec) (taskUUID string, err error)
	GetImage(ctx context.Context, imageUUID string) (*ImageSpec, error)
	DeleteImage(ctx context.Context, imageUUID string) (taskUUID string, err error)

	// Task operations
	GetTask(ctx context.Context, taskUUID string) (*Task, error)
}

// ListRequest carries pagination and an optional FIQL filter.
// Filters are only honored by the vms list API; images and clusters
// ignore them server-side.
type ListRequest struct {
	Kind   string `json:"kind,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Length int    `json:"length,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// EntityList is the response of a list call
type EntityList struct {
	Entities []Entity `json:"entities"`
}

// Entity is a single listed resource instance
type Entity struct {
	Status   EntityStatus `json:"status"`
	Metadata Metadata     `json:"metadata"`
}

// EntityStatus holds the server-observed state of a listed entity
type EntityStatus struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Resources   EntityResources `json:"resources"`
}

// EntityResources holds the kind-specific resource fields the
// reconciler consumes: image_type for images, disk_list for VMs.
type EntityResources struct {
	ImageType string    `json:"image_type,omitempty"`
	DiskList  []DiskRef `json:"disk_list,omitempty"`
}

// DiskRef identifies a single VM disk
type DiskRef struct {
	UUID string `json:"uuid"`
}

// Metadata is the addressing section of an entity or request
type Metadata struct {
	Kind string `json:"kind"`
	UUID string `json:"uuid,omitempty"`
	Name string `json:"name,omitempty"`
}

// ImageSpec is the full image document as created, fetched and updated.
// Status is kept opaque; it is stripped before an update submit.
type ImageSpec struct {
	Spec       *ImageDefinition `json:"spec,omitempty"`
	APIVersion string           `json:"api_version,omitempty"`
	Metadata   Metadata         `json:"metadata"`
	Status     json.RawMessage  `json:"status,omitempty"`
}

// ImageDefinition is the desired-state section of an image document
type ImageDefinition struct {
	Name        string         `json:"name"`
	Resources   ImageResources `json:"resources"`
	Description string         `json:"description"`
}

// ImageResources describes the image source, type and placement
type ImageResources struct {
	ImageType               string         `json:"image_type,omitempty"`
	InitialPlacementRefList []Reference    `json:"initial_placement_ref_list,omitempty"`
	SourceOptions           *SourceOptions `json:"source_options,omitempty"`
	DataSourceReference     *Reference     `json:"data_source_reference,omitempty"`
	SourceURI               string         `json:"source_uri,omitempty"`
	Checksum                *Checksum      `json:"checksum,omitempty"`
}

// Reference points at another entity by kind and uuid
type Reference struct {
	Kind string `json:"kind"`
	UUID string `json:"uuid"`
}

// SourceOptions controls how the remote side fetches the source
type SourceOptions struct {
	AllowInsecureConnection bool `json:"allow_insecure_connection"`
}

// Checksum carries the expected checksum of a URL-sourced image
type Checksum struct {
	Value     string `json:"checksum_value"`
	Algorithm string `json:"checksum_algorithm"`
}

// TaskState is the lifecycle state of an asynchronous operation
type TaskState string

const (
	TaskQueued    TaskState = "QUEUED"
	TaskPending   TaskState = "PENDING"
	TaskRunning   TaskState = "RUNNING"
	TaskSucceeded TaskState = "SUCCEEDED"
	TaskFailed    TaskState = "FAILED"
)

// Task is the polled view of an asynchronous operation
type Task struct {
	UUID        string    `json:"uuid,omitempty"`
	Status      TaskState `json:"status"`
	ErrorDetail string    `json:"error_detail,omitempty"`
}

// Terminal reports whether the task reached a final state
func (t *Task) Terminal() bool {
	return t.Status == TaskSucceeded || t.Status == TaskFailed
}
