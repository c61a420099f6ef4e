package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"imagesync/internal/prism"
)

// IdentifierResolver resolves human-readable names to remote identifiers
type IdentifierResolver interface {
	// ResolveVMDisk returns the first disk uuid of the VM with the given
	// name. Exactly one VM must match.
	ResolveVMDisk(ctx context.Context, vmName string, page Page) (string, error)

	// ResolveClusters maps every requested cluster name to its uuid.
	// All requested names must resolve.
	ResolveClusters(ctx context.Context, names []string, page Page) (map[string]string, error)
}

// DefaultIdentifierResolver implements IdentifierResolver
type DefaultIdentifierResolver struct {
	client prism.Client
}

// NewIdentifierResolver creates a new identifier resolver
func NewIdentifierResolver(client prism.Client) IdentifierResolver {
	return &DefaultIdentifierResolver{client: client}
}

// ResolveVMDisk looks up the VM by name with a server-side filter and
// returns its first disk uuid
func (r *DefaultIdentifierResolver) ResolveVMDisk(ctx context.Context, vmName string, page Page) (string, error) {
	list, err := r.client.ListEntities(ctx, prism.KindVM, prism.ListRequest{
		Offset: page.Offset,
		Length: page.Length,
		Filter: fmt.Sprintf("vm_name==%s", vmName),
	})
	if err != nil {
		return "", NewAPIError(vmName, fmt.Sprintf("unable to list VMs: %v", err), err)
	}

	if len(list.Entities) == 0 {
		return "", NewValidationError(vmName, fmt.Sprintf("no VM found with name %s", vmName), nil)
	}
	if len(list.Entities) > 1 {
		return "", NewValidationError(vmName, fmt.Sprintf("found %d VMs with name %s, expected exactly one", len(list.Entities), vmName), nil)
	}

	disks := list.Entities[0].Status.Resources.DiskList
	if len(disks) == 0 {
		return "", NewValidationError(vmName, fmt.Sprintf("VM %s has no disks", vmName), nil)
	}

	return disks[0].UUID, nil
}

// ResolveClusters lists the clusters once and maps each requested name
// to its uuid. The failure for unresolved names carries exactly the
// missing subset, computed by set difference.
func (r *DefaultIdentifierResolver) ResolveClusters(ctx context.Context, names []string, page Page) (map[string]string, error) {
	list, err := r.client.ListEntities(ctx, prism.KindCluster, prism.ListRequest{
		Offset: page.Offset,
		Length: page.Length,
	})
	if err != nil {
		return nil, NewAPIError("", fmt.Sprintf("unable to list clusters: %v", err), err)
	}

	requested := lo.Uniq(names)
	resolved := make(map[string]string, len(requested))
	for _, name := range requested {
		for _, entity := range list.Entities {
			if entity.Status.Name == name {
				resolved[name] = entity.Metadata.UUID
				break
			}
		}
	}

	if len(resolved) != len(requested) {
		missing := lo.Without(requested, lo.Keys(resolved)...)
		return nil, NewValidationError("", fmt.Sprintf("could not find cluster(s) with name %s", strings.Join(missing, ", ")), nil)
	}

	return resolved, nil
}
