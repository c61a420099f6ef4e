package resource

import (
	"context"
	"net/url"
	"path"

	"imagesync/internal/prism"
)

// DetectImageType returns the effective image type for the descriptor:
// the explicit type if set, DISK_IMAGE for VM disk sources, otherwise
// the type inferred from the source URL's path extension.
func DetectImageType(desired ImageDescriptor) (string, error) {
	if desired.VMDiskName != "" || desired.VMDiskUUID != "" {
		// image_type is ignored for VM disk sources
		return DiskImage, nil
	}
	if desired.Type != "" {
		return desired.Type, nil
	}

	parsed, err := url.Parse(desired.SourceURL)
	if err != nil {
		return "", NewValidationError(desired.Name, "unable to identify image type, specify the value manually", err)
	}

	switch path.Ext(parsed.Path) {
	case ".iso":
		return ISOImage, nil
	case ".qcow2":
		return DiskImage, nil
	default:
		return "", NewValidationError(desired.Name, "unable to identify image type, specify the value manually", nil)
	}
}

// SpecBuilder assembles the create request body from the desired
// attributes and resolved identifiers.
type SpecBuilder interface {
	Build(ctx context.Context, desired ImageDescriptor) (*prism.ImageSpec, error)
}

// DefaultSpecBuilder implements SpecBuilder
type DefaultSpecBuilder struct {
	resolver IdentifierResolver
}

// NewSpecBuilder creates a spec builder using the given resolver
func NewSpecBuilder(resolver IdentifierResolver) SpecBuilder {
	return &DefaultSpecBuilder{resolver: resolver}
}

// Build constructs a fresh create request. A disk source takes
// precedence over a URL; the placement list is omitted entirely when no
// clusters were requested so the remote default of all-clusters
// placement applies.
func (b *DefaultSpecBuilder) Build(ctx context.Context, desired ImageDescriptor) (*prism.ImageSpec, error) {
	imageType, err := DetectImageType(desired)
	if err != nil {
		return nil, err
	}

	diskUUID := desired.VMDiskUUID
	if desired.VMDiskName != "" && diskUUID == "" {
		diskUUID, err = b.resolver.ResolveVMDisk(ctx, desired.VMDiskName, desired.Page)
		if err != nil {
			return nil, err
		}
	}

	resources := prism.ImageResources{
		SourceOptions: &prism.SourceOptions{AllowInsecureConnection: true},
	}

	if diskUUID != "" {
		resources.ImageType = DiskImage
		resources.DataSourceReference = &prism.Reference{Kind: "vm_disk", UUID: diskUUID}
	} else if desired.SourceURL != "" {
		resources.ImageType = imageType
		resources.SourceURI = desired.SourceURL
	}

	if desired.SourceURL != "" && desired.Checksum != nil {
		resources.Checksum = &prism.Checksum{
			Value:     desired.Checksum.Value,
			Algorithm: desired.Checksum.Algorithm,
		}
	}

	if len(desired.Clusters) > 0 {
		clusterUUIDs, err := b.resolver.ResolveClusters(ctx, desired.Clusters, desired.Page)
		if err != nil {
			return nil, err
		}
		for _, name := range desired.Clusters {
			resources.InitialPlacementRefList = append(resources.InitialPlacementRefList, prism.Reference{
				Kind: "cluster",
				UUID: clusterUUIDs[name],
			})
		}
	}

	return &prism.ImageSpec{
		Spec: &prism.ImageDefinition{
			Name:        desired.Name,
			Resources:   resources,
			Description: desired.Description,
		},
		APIVersion: "3.1.0",
		Metadata: prism.Metadata{
			Kind: "image",
			Name: desired.Name,
		},
	}, nil
}
