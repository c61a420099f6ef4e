package manifest

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"imagesync/internal/resource"
)

// KindImage is the only manifest kind this tool manages
const KindImage = "Image"

// Manifest is a declarative image document
type Manifest struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`
	Spec              ImageSpec `json:"spec"`
}

// ImageSpec declares the desired image attributes
type ImageSpec struct {
	Type        string        `json:"type,omitempty"`
	URL         string        `json:"url,omitempty"`
	VMDisk      string        `json:"vmDisk,omitempty"`
	VMDiskUUID  string        `json:"vmDiskUUID,omitempty"`
	UUID        string        `json:"uuid,omitempty"`
	Description string        `json:"description,omitempty"`
	Checksum    *ChecksumSpec `json:"checksum,omitempty"`
	Clusters    []string      `json:"clusters,omitempty"`
	Page        *PageSpec     `json:"page,omitempty"`
	State       string        `json:"state,omitempty"`
}

// ChecksumSpec declares the expected checksum of a URL source
type ChecksumSpec struct {
	Value     string `json:"value"`
	Algorithm string `json:"algorithm"`
}

// PageSpec overrides the list pagination defaults
type PageSpec struct {
	Offset int `json:"offset,omitempty"`
	Length int `json:"length,omitempty"`
}

var validTypes = map[string]bool{"": true, resource.ISOImage: true, resource.DiskImage: true}
var validStates = map[string]bool{"": true, string(resource.StatePresent): true, string(resource.StateAbsent): true}
var validAlgorithms = map[string]bool{"SHA_1": true, "SHA_256": true}

// Validate enforces the source exclusivity and enumeration rules before
// any remote call is made
func (m *Manifest) Validate() error {
	if m.Kind != KindImage {
		return fmt.Errorf("unsupported kind %q, expected %q", m.Kind, KindImage)
	}
	if m.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}

	spec := m.Spec
	if !validTypes[spec.Type] {
		return fmt.Errorf("invalid type %q, expected %s or %s", spec.Type, resource.ISOImage, resource.DiskImage)
	}
	if !validStates[spec.State] {
		return fmt.Errorf("invalid state %q, expected present or absent", spec.State)
	}

	if spec.URL != "" && spec.VMDisk != "" {
		return fmt.Errorf("url and vmDisk are mutually exclusive")
	}
	if spec.VMDisk != "" && spec.VMDiskUUID != "" {
		return fmt.Errorf("vmDisk and vmDiskUUID are mutually exclusive")
	}

	state := spec.State
	if state == "" {
		state = string(resource.StatePresent)
	}
	if state == string(resource.StatePresent) && spec.URL == "" && spec.VMDisk == "" && spec.VMDiskUUID == "" {
		return fmt.Errorf("one of url, vmDisk or vmDiskUUID is required")
	}

	if spec.Checksum != nil {
		if spec.URL == "" {
			return fmt.Errorf("checksum is only applicable with a url source")
		}
		if spec.Checksum.Value == "" {
			return fmt.Errorf("checksum.value is required")
		}
		if !validAlgorithms[spec.Checksum.Algorithm] {
			return fmt.Errorf("invalid checksum.algorithm %q, expected SHA_1 or SHA_256", spec.Checksum.Algorithm)
		}
	}

	return nil
}

// ToDescriptor converts the manifest into the desired-state descriptor
// consumed by the reconciliation core, applying defaults
func (m *Manifest) ToDescriptor() resource.ImageDescriptor {
	desc := resource.ImageDescriptor{
		Name:        m.Name,
		Type:        m.Spec.Type,
		Description: m.Spec.Description,
		SourceURL:   m.Spec.URL,
		VMDiskName:  m.Spec.VMDisk,
		VMDiskUUID:  m.Spec.VMDiskUUID,
		UUID:        m.Spec.UUID,
		Clusters:    m.Spec.Clusters,
		Page:        resource.DefaultPage,
		State:       resource.State(m.Spec.State),
	}

	if m.Spec.Checksum != nil {
		desc.Checksum = &resource.Checksum{
			Value:     m.Spec.Checksum.Value,
			Algorithm: m.Spec.Checksum.Algorithm,
		}
	}
	if m.Spec.Page != nil {
		desc.Page = resource.Page{Offset: m.Spec.Page.Offset, Length: m.Spec.Page.Length}
	}
	if desc.State == "" {
		desc.State = resource.StatePresent
	}

	return desc
}
