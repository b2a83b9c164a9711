package usecase

import (
	"context"

	"github.com/Alwanly/fleet-dashboard/internal/dashboard/binding"
	"github.com/Alwanly/fleet-dashboard/internal/dashboard/dto"
	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
	"github.com/Alwanly/fleet-dashboard/pkg/poll"
)

// feed is the type-erased surface the board drives every resource
// through.
type feed interface {
	Status() dto.FeedStatus
	Refetch(ctx context.Context) error
	SetEnabled(enabled bool)
}

// sessionFeed is a fleet-wide feed owned by the board's group.
type sessionFeed[T any] struct {
	*poll.Session[T]
}

func (f sessionFeed[T]) Status() dto.FeedStatus {
	return toStatus(f.Name(), f.Session)
}

// keyedFeed is a node-scoped feed of one view.
type keyedFeed[T any] struct {
	name  string
	view  string
	keyed *binding.Keyed[int64, T]
	// onEnabled lets the view remember a toggle across rebinds
	onEnabled func(bool)
}

func (f keyedFeed[T]) Status() dto.FeedStatus {
	s, id, ok := f.keyed.Current()
	if !ok {
		return dto.FeedStatus{Name: f.name, View: f.view}
	}
	st := toStatus(f.name, s)
	st.View = f.view
	st.NodeID = id
	// a coalesced session runs while any view wants it; report this view's choice
	st.Enabled = f.keyed.Enabled()
	return st
}

func (f keyedFeed[T]) Refetch(ctx context.Context) error {
	return f.keyed.Refetch(ctx)
}

func (f keyedFeed[T]) SetEnabled(enabled bool) {
	if f.onEnabled != nil {
		f.onEnabled(enabled)
	}
	f.keyed.SetEnabled(enabled)
}

func toStatus[T any](name string, s *poll.Session[T]) dto.FeedStatus {
	snap := s.Snapshot()
	st := dto.FeedStatus{
		Name:      name,
		SessionID: s.ID(),
		Bound:     true,
		Active:    s.Active(),
		Enabled:   s.Enabled(),
		Interval:  s.Interval().String(),
		Loading:   snap.Loading,
		Fetches:   snap.Fetches,
	}
	if snap.Data != nil {
		st.Data = *snap.Data
	}
	if snap.Err != nil {
		st.Error = &dto.FeedError{
			Status:  snap.Err.Status,
			Message: snap.Err.Message,
			Kind:    string(snap.Err.Kind),
			Hint:    apierror.UserMessage(snap.Err),
		}
	}
	if !snap.UpdatedAt.IsZero() {
		t := snap.UpdatedAt
		st.UpdatedAt = &t
	}
	return st
}
