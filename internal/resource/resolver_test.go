package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagesync/internal/prism"
)

func TestResolveVMDisk(t *testing.T) {
	client := prism.NewMockClient()
	client.AddVMEntity("build-vm", "disk-1", "disk-2")
	client.AddVMEntity("other-vm", "disk-9")

	resolver := NewIdentifierResolver(client)
	uuid, err := resolver.ResolveVMDisk(context.Background(), "build-vm", DefaultPage)
	require.NoError(t, err)

	assert.Equal(t, "disk-1", uuid)
}

func TestResolveVMDisk_NoVM(t *testing.T) {
	client := prism.NewMockClient()

	resolver := NewIdentifierResolver(client)
	_, err := resolver.ResolveVMDisk(context.Background(), "missing-vm", DefaultPage)
	require.Error(t, err)

	recErr, ok := AsReconciliationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeValidation, recErr.Type)
	assert.Contains(t, recErr.Message, "missing-vm")
}

func TestResolveVMDisk_DuplicateVMs(t *testing.T) {
	client := prism.NewMockClient()
	client.AddVMEntity("build-vm", "disk-1")
	client.AddVMEntity("build-vm", "disk-2")

	resolver := NewIdentifierResolver(client)
	_, err := resolver.ResolveVMDisk(context.Background(), "build-vm", DefaultPage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly one")
}

func TestResolveVMDisk_NoDisks(t *testing.T) {
	client := prism.NewMockClient()
	client.AddVMEntity("diskless-vm")

	resolver := NewIdentifierResolver(client)
	_, err := resolver.ResolveVMDisk(context.Background(), "diskless-vm", DefaultPage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no disks")
}

func TestResolveClusters(t *testing.T) {
	client := prism.NewMockClient()
	east := client.AddClusterEntity("east")
	west := client.AddClusterEntity("west")

	resolver := NewIdentifierResolver(client)
	resolved, err := resolver.ResolveClusters(context.Background(), []string{"east", "west"}, DefaultPage)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"east": east, "west": west}, resolved)
}

// The failure lists precisely the unresolved subset, never the full
// requested set.
func TestResolveClusters_MissingSubset(t *testing.T) {
	client := prism.NewMockClient()
	client.AddClusterEntity("east")

	resolver := NewIdentifierResolver(client)
	_, err := resolver.ResolveClusters(context.Background(), []string{"east", "north", "south"}, DefaultPage)
	require.Error(t, err)

	recErr, ok := AsReconciliationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeValidation, recErr.Type)
	assert.Contains(t, recErr.Message, "north")
	assert.Contains(t, recErr.Message, "south")
	assert.NotContains(t, recErr.Message, "east")
}
