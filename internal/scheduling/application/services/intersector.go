package services

import (
	"context"
	"sort"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	"golang.org/x/sync/errgroup"
)

// MultiPartyIntersector combines per-attendee slot sequences into the
// sequence of slots free for every attendee simultaneously.
type MultiPartyIntersector struct {
	slots  *SlotGenerator
	policy Policy
}

// NewMultiPartyIntersector creates a multi-party intersector.
func NewMultiPartyIntersector(slots *SlotGenerator, policy Policy) *MultiPartyIntersector {
	return &MultiPartyIntersector{
		slots:  slots,
		policy: policy,
	}
}

// IntersectRange computes the jointly-free slots for all attendees across
// the date range. Per-attendee, per-day computations are independent pure
// reads and fan out concurrently, bounded by the policy's fanout limit;
// only the final combination is ordering-sensitive and happens by slot
// position, never by arrival order.
func (mi *MultiPartyIntersector) IntersectRange(
	ctx context.Context,
	attendees []sharedDomain.SubjectID,
	rangeStart, rangeEnd time.Time,
) ([]domain.TimeSlot, error) {
	if len(attendees) == 0 {
		return nil, sharedDomain.InvalidRequestf("at least one attendee is required")
	}
	if !rangeEnd.After(rangeStart) {
		return nil, sharedDomain.InvalidRequestf("search range end must be after start")
	}

	days := mi.schedulableDays(rangeStart, rangeEnd)
	if len(days) == 0 {
		return []domain.TimeSlot{}, nil
	}

	// perDay[d][a] holds attendee a's slots on day d.
	perDay := make([][][]domain.TimeSlot, len(days))
	for i := range perDay {
		perDay[i] = make([][]domain.TimeSlot, len(attendees))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mi.policy.SearchFanout)

	for d, day := range days {
		for a, attendee := range attendees {
			d, a, day, attendee := d, a, day, attendee
			g.Go(func() error {
				slots, err := mi.slots.GenerateDay(gctx, attendee, day)
				if err != nil {
					return err
				}
				perDay[d][a] = slots
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	searchWindow := domain.Interval{Start: rangeStart, End: rangeEnd}

	joint := make([]domain.TimeSlot, 0)
	for d := range days {
		joint = append(joint, intersectDay(perDay[d], len(attendees), searchWindow)...)
	}
	return joint, nil
}

// schedulableDays lists the midnights of the business days touching the range.
func (mi *MultiPartyIntersector) schedulableDays(rangeStart, rangeEnd time.Time) []time.Time {
	days := make([]time.Time, 0)
	day := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, rangeStart.Location())
	for day.Before(rangeEnd) {
		if mi.policy.IsBusinessDay(day.Weekday()) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// intersectDay ANDs one day's per-attendee slot sequences by grid position.
// A position is jointly free only when every attendee has an available
// slot starting at that exact instant.
func intersectDay(attendeeSlots [][]domain.TimeSlot, attendeeCount int, searchWindow domain.Interval) []domain.TimeSlot {
	freeAt := make(map[int64]int)
	slotAt := make(map[int64]domain.TimeSlot)

	for _, slots := range attendeeSlots {
		for _, slot := range slots {
			if !slot.Available || !searchWindow.Covers(slot.Interval) {
				continue
			}
			key := slot.Start().UnixNano()
			freeAt[key]++
			slotAt[key] = slot
		}
	}

	keys := make([]int64, 0, len(freeAt))
	for key, count := range freeAt {
		if count == attendeeCount {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	joint := make([]domain.TimeSlot, 0, len(keys))
	for _, key := range keys {
		slot := slotAt[key]
		slot.OccupyingEventID = nil
		joint = append(joint, slot)
	}
	return joint
}
