package resource

import (
	"context"
	"fmt"

	"imagesync/internal/prism"
)

// MatchStrategy names the policy used when several entities share the
// desired name.
type MatchStrategy string

// MatchFirstFound settles the classification at the first entity whose
// type or description also matches; a later duplicate that would match
// more fields does not win.
const MatchFirstFound MatchStrategy = "first-found"

// StateMatcher compares a desired image against the existing remote
// entities sharing its name and classifies the match.
type StateMatcher interface {
	Match(ctx context.Context, desired ImageDescriptor) (MatchResult, error)
}

// DefaultStateMatcher implements StateMatcher
type DefaultStateMatcher struct {
	client   prism.Client
	strategy MatchStrategy
}

// NewStateMatcher creates a state matcher using the first-found strategy
func NewStateMatcher(client prism.Client) StateMatcher {
	return &DefaultStateMatcher{client: client, strategy: MatchFirstFound}
}

// Match scans the existing images for the desired name. Scanning
// continues past a bare name match, but the first entity whose type or
// description also matches settles the classification.
func (m *DefaultStateMatcher) Match(ctx context.Context, desired ImageDescriptor) (MatchResult, error) {
	list, err := m.client.ListEntities(ctx, prism.KindImage, prism.ListRequest{
		Offset: desired.Page.Offset,
		Length: desired.Page.Length,
	})
	if err != nil {
		return MatchResult{}, NewAPIError(desired.Name, fmt.Sprintf("unable to list images: %v", err), err)
	}

	result := MatchResult{Kind: MatchNone}
	for _, entity := range list.Entities {
		if entity.Status.Name != desired.Name {
			continue
		}

		result.ImageUUID = entity.Metadata.UUID

		typeMatches := desired.Type == entity.Status.Resources.ImageType
		descriptionMatches := desired.Description == entity.Status.Description

		switch {
		case typeMatches && descriptionMatches:
			result.Kind = MatchFull
			return result, nil
		case typeMatches:
			result.Kind = MatchType
			return result, nil
		case descriptionMatches:
			result.Kind = MatchDescription
			return result, nil
		default:
			result.Kind = MatchNameOnly
		}
	}

	return result, nil
}
