package resource

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"imagesync/internal/prism"
)

// ReconciliationController orchestrates one reconciliation pass:
// evaluate the remote state, decide create/update/delete/no-op, execute
// the mutation and wait for its task.
type ReconciliationController interface {
	// Plan evaluates the pass without mutating anything
	Plan(ctx context.Context, desired ImageDescriptor) (*Decision, error)

	// Reconcile converges the remote image to the desired state and
	// returns the terminal outcome. Remote task failures are reported
	// in the outcome, not as an error.
	Reconcile(ctx context.Context, desired ImageDescriptor) (*Outcome, error)
}

// DefaultReconciliationController implements ReconciliationController
type DefaultReconciliationController struct {
	client   prism.Client
	matcher  StateMatcher
	resolver IdentifierResolver
	builder  SpecBuilder
	poller   TaskPoller
}

// NewReconciliationController creates a controller with the default
// matcher, resolver, builder and poller wired to the given client
func NewReconciliationController(client prism.Client, opts ...PollOption) ReconciliationController {
	resolver := NewIdentifierResolver(client)
	return &DefaultReconciliationController{
		client:   client,
		matcher:  NewStateMatcher(client),
		resolver: resolver,
		builder:  NewSpecBuilder(resolver),
		poller:   NewTaskPoller(client, opts...),
	}
}

// Plan decides the action for the pass. Validation and ambiguity
// problems surface here, before any mutating call.
func (c *DefaultReconciliationController) Plan(ctx context.Context, desired ImageDescriptor) (*Decision, error) {
	if desired.Name == "" {
		return nil, NewValidationError("", "image name is required", nil)
	}

	if desired.State == StateAbsent {
		return c.planDeletion(ctx, desired)
	}

	// The matcher compares effective values: an omitted type is
	// inferred the same way the create path would infer it, so a
	// re-run after a successful create classifies as a full match.
	effective, err := c.effectiveDescriptor(desired)
	if err != nil {
		return nil, err
	}

	match, err := c.matcher.Match(ctx, effective)
	if err != nil {
		return nil, err
	}

	uuid := match.ImageUUID
	if desired.UUID != "" {
		// explicit target pins the update when names are duplicated
		uuid = desired.UUID
	}

	switch match.Kind {
	case MatchFull:
		return &Decision{Action: ActionNone, ImageUUID: match.ImageUUID, Reason: "image matches desired state"}, nil
	case MatchType:
		return &Decision{Action: ActionUpdate, ImageUUID: uuid, Reason: "description differs"}, nil
	case MatchDescription:
		return &Decision{Action: ActionUpdate, ImageUUID: uuid, Reason: "type differs"}, nil
	default:
		return &Decision{Action: ActionCreate, Reason: "no matching image found"}, nil
	}
}

// Reconcile executes the planned action to its terminal state
func (c *DefaultReconciliationController) Reconcile(ctx context.Context, desired ImageDescriptor) (*Outcome, error) {
	decision, err := c.Plan(ctx, desired)
	if err != nil {
		return nil, err
	}

	switch decision.Action {
	case ActionNone:
		return &Outcome{Changed: false, ImageUUID: decision.ImageUUID}, nil
	case ActionCreate:
		return c.create(ctx, desired)
	case ActionUpdate:
		return c.update(ctx, desired, decision.ImageUUID)
	case ActionDelete:
		return c.delete(ctx, desired, decision.ImageUUID)
	default:
		return nil, fmt.Errorf("unknown action %q", decision.Action)
	}
}

// effectiveDescriptor fills in the inferred image type. Type inference
// failure is fatal for a present pass even when a matching image
// exists, since the same input could never be created.
func (c *DefaultReconciliationController) effectiveDescriptor(desired ImageDescriptor) (ImageDescriptor, error) {
	imageType, err := DetectImageType(desired)
	if err != nil {
		return ImageDescriptor{}, err
	}

	effective := desired
	effective.Type = imageType
	return effective, nil
}

// create builds the spec, submits the create and waits for its task
func (c *DefaultReconciliationController) create(ctx context.Context, desired ImageDescriptor) (*Outcome, error) {
	spec, err := c.builder.Build(ctx, desired)
	if err != nil {
		return nil, err
	}

	taskUUID, imageUUID, err := c.client.CreateImage(ctx, spec)
	if err != nil {
		return nil, NewAPIError(desired.Name, fmt.Sprintf("create failed: %v", err), err)
	}

	failure, err := c.poller.Wait(ctx, taskUUID)
	if err != nil {
		return nil, err
	}
	if failure != "" {
		return &Outcome{FailureMessage: failure}, nil
	}

	return &Outcome{Changed: true, ImageUUID: imageUUID}, nil
}

// update reads back the current document, strips the server-populated
// status, overwrites type and description and submits it. An absent
// desired description clears the remote field.
func (c *DefaultReconciliationController) update(ctx context.Context, desired ImageDescriptor, imageUUID string) (*Outcome, error) {
	effective, err := c.effectiveDescriptor(desired)
	if err != nil {
		return nil, err
	}

	spec, err := c.client.GetImage(ctx, imageUUID)
	if err != nil {
		return nil, NewAPIError(desired.Name, fmt.Sprintf("unable to read image %s: %v", imageUUID, err), err)
	}

	spec.Status = nil
	spec.Spec.Resources.ImageType = effective.Type
	spec.Spec.Description = desired.Description

	taskUUID, err := c.client.UpdateImage(ctx, imageUUID, spec)
	if err != nil {
		return nil, NewAPIError(desired.Name, fmt.Sprintf("update failed: %v", err), err)
	}

	failure, err := c.poller.Wait(ctx, taskUUID)
	if err != nil {
		return nil, err
	}
	if failure != "" {
		return &Outcome{FailureMessage: failure}, nil
	}

	return &Outcome{Changed: true, ImageUUID: imageUUID}, nil
}

// planDeletion lists the images sharing the desired name and refuses to
// act on an ambiguous set. Deleting duplicates silently is unacceptable
// collateral damage, so more than one match fails before any delete.
func (c *DefaultReconciliationController) planDeletion(ctx context.Context, desired ImageDescriptor) (*Decision, error) {
	list, err := c.client.ListEntities(ctx, prism.KindImage, prism.ListRequest{
		Offset: desired.Page.Offset,
		Length: desired.Page.Length,
	})
	if err != nil {
		return nil, NewAPIError(desired.Name, fmt.Sprintf("unable to list images: %v", err), err)
	}

	matches := lo.Filter(list.Entities, func(entity prism.Entity, _ int) bool {
		return entity.Status.Name == desired.Name
	})

	switch len(matches) {
	case 0:
		return &Decision{Action: ActionNone, Reason: "no image with that name"}, nil
	case 1:
		return &Decision{Action: ActionDelete, ImageUUID: matches[0].Metadata.UUID}, nil
	default:
		return nil, NewAmbiguityError(desired.Name, fmt.Sprintf("Found multiple images with name %s", desired.Name))
	}
}

// delete removes the single matched image and waits for its task
func (c *DefaultReconciliationController) delete(ctx context.Context, desired ImageDescriptor, imageUUID string) (*Outcome, error) {
	taskUUID, err := c.client.DeleteImage(ctx, imageUUID)
	if err != nil {
		return nil, NewAPIError(desired.Name, fmt.Sprintf("delete failed: %v", err), err)
	}

	failure, err := c.poller.Wait(ctx, taskUUID)
	if err != nil {
		return nil, err
	}
	if failure != "" {
		return &Outcome{FailureMessage: failure}, nil
	}

	return &Outcome{Changed: true, ImageUUID: imageUUID}, nil
}
