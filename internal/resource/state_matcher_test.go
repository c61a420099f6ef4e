package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagesync/internal/prism"
)

func TestStateMatcher_NoMatch(t *testing.T) {
	client := prism.NewMockClient()
	client.AddImageEntity("other", ISOImage, "")

	matcher := NewStateMatcher(client)
	result, err := matcher.Match(context.Background(), ImageDescriptor{
		Name: "ubuntu20",
		Type: ISOImage,
		Page: DefaultPage,
	})
	require.NoError(t, err)

	assert.Equal(t, MatchNone, result.Kind)
	assert.Empty(t, result.ImageUUID)
}

func TestStateMatcher_Classification(t *testing.T) {
	tests := []struct {
		name         string
		existingType string
		existingDesc string
		want         MatchKind
	}{
		{"full match", ISOImage, "base image", MatchFull},
		{"type only", ISOImage, "stale description", MatchType},
		{"description only", DiskImage, "base image", MatchDescription},
		{"name only", DiskImage, "stale description", MatchNameOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := prism.NewMockClient()
			uuid := client.AddImageEntity("ubuntu20", tt.existingType, tt.existingDesc)

			matcher := NewStateMatcher(client)
			result, err := matcher.Match(context.Background(), ImageDescriptor{
				Name:        "ubuntu20",
				Type:        ISOImage,
				Description: "base image",
				Page:        DefaultPage,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.want, result.Kind)
			assert.Equal(t, uuid, result.ImageUUID)
		})
	}
}

// The first entity that matches a field settles the classification,
// even when a later duplicate would match fully.
func TestStateMatcher_FirstFoundWins(t *testing.T) {
	client := prism.NewMockClient()
	first := client.AddImageEntity("ubuntu20", ISOImage, "stale")
	client.AddImageEntity("ubuntu20", ISOImage, "base image")

	matcher := NewStateMatcher(client)
	result, err := matcher.Match(context.Background(), ImageDescriptor{
		Name:        "ubuntu20",
		Type:        ISOImage,
		Description: "base image",
		Page:        DefaultPage,
	})
	require.NoError(t, err)

	assert.Equal(t, MatchType, result.Kind)
	assert.Equal(t, first, result.ImageUUID)
}

// A bare name match does not stop the scan; a later duplicate may still
// settle the classification.
func TestStateMatcher_ScanContinuesPastNameOnly(t *testing.T) {
	client := prism.NewMockClient()
	client.AddImageEntity("ubuntu20", DiskImage, "stale")
	second := client.AddImageEntity("ubuntu20", ISOImage, "base image")

	matcher := NewStateMatcher(client)
	result, err := matcher.Match(context.Background(), ImageDescriptor{
		Name:        "ubuntu20",
		Type:        ISOImage,
		Description: "base image",
		Page:        DefaultPage,
	})
	require.NoError(t, err)

	assert.Equal(t, MatchFull, result.Kind)
	assert.Equal(t, second, result.ImageUUID)
}

func TestStateMatcher_ListFailure(t *testing.T) {
	client := prism.NewMockClient()
	client.SetShouldFail("ListEntities", "connection refused")

	matcher := NewStateMatcher(client)
	_, err := matcher.Match(context.Background(), ImageDescriptor{Name: "ubuntu20", Page: DefaultPage})
	require.Error(t, err)

	recErr, ok := AsReconciliationError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeAPI, recErr.Type)
}
