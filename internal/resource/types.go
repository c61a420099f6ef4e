package resource

// Image types understood by Prism Central
const (
	ISOImage  = "ISO_IMAGE"
	DiskImage = "DISK_IMAGE"
)

// State declares whether the image should exist remotely
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// Page carries the pagination parameters passed to every list call
type Page struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// DefaultPage matches the remote API's documented defaults
var DefaultPage = Page{Offset: 0, Length: 500}

// Checksum is the expected checksum of a URL-sourced image
type Checksum struct {
	Value     string `json:"value"`
	Algorithm string `json:"algorithm"`
}

// ImageDescriptor is the desired state of a single image for one
// reconciliation pass. Name is required; exactly one of SourceURL,
// VMDiskName or VMDiskUUID identifies the source when the state is
// present. UUID pins the update target when multiple images share a name.
type ImageDescriptor struct {
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	Description string    `json:"description,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	VMDiskName  string    `json:"vm_disk,omitempty"`
	VMDiskUUID  string    `json:"vm_disk_uuid,omitempty"`
	UUID        string    `json:"uuid,omitempty"`
	Checksum    *Checksum `json:"checksum,omitempty"`
	Clusters    []string  `json:"clusters,omitempty"`
	Page        Page      `json:"page"`
	State       State     `json:"state,omitempty"`
}

// MatchKind classifies how an existing entity matches the desired image
type MatchKind string

const (
	// MatchNone means no entity shares the desired name
	MatchNone MatchKind = "none"
	// MatchNameOnly means an entity shares the name but neither type
	// nor description match
	MatchNameOnly MatchKind = "name"
	// MatchType means name and type match but the description differs
	MatchType MatchKind = "type"
	// MatchDescription means name and description match but the type differs
	MatchDescription MatchKind = "description"
	// MatchFull means name, type and description all match
	MatchFull MatchKind = "full"
)

// MatchResult is the outcome of scanning existing entities for the
// desired name. ImageUUID is empty only for MatchNone.
type MatchResult struct {
	Kind      MatchKind `json:"kind"`
	ImageUUID string    `json:"image_uuid,omitempty"`
}

// Action is the decision a reconciliation pass arrived at
type Action string

const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Decision is the evaluated plan for one pass, before any mutation
type Decision struct {
	Action    Action `json:"action"`
	ImageUUID string `json:"image_uuid,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Outcome is the terminal result of one reconciliation pass. A failed
// remote task sets FailureMessage verbatim; local validation and
// ambiguity problems are returned as errors instead, before any
// mutating call is issued.
type Outcome struct {
	Changed        bool   `json:"changed"`
	ImageUUID      string `json:"image_uuid,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

// Failed reports whether the pass ended in a remote task failure
func (o *Outcome) Failed() bool {
	return o.FailureMessage != ""
}
