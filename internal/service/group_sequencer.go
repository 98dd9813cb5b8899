package service

import (
	"context"

	"crosssell-service/internal/models"
)

// GroupSequencer walks the ordered rule groups bound to a placement.
// For a fixed catalog snapshot, Next is a pure function of
// (anchor, placement, shift).
type GroupSequencer struct {
	groups GroupSource
}

// NewGroupSequencer creates a new group sequencer
func NewGroupSequencer(groups GroupSource) *GroupSequencer {
	return &GroupSequencer{groups: groups}
}

// Next returns the group ranked at position shift (0-based) for the
// anchor and placement, or nil past the end of the sequence. Group
// eligibility for the anchor is decided by the rule store; the
// sequencer only fixes the walk order.
func (g *GroupSequencer) Next(ctx context.Context, anchorID int64, placement string, shift int) (*models.Group, error) {
	if shift < 0 {
		return nil, nil
	}
	return g.groups.GetGroupByPlacementAndPosition(ctx, placement, shift)
}
