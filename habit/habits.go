package habit

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/habitloop/client-go/dateutil"
	"github.com/habitloop/client-go/schema"
	"github.com/habitloop/client-go/transport"
)

// HabitAPI groups the habit CRUD and completion operations.
type HabitAPI struct {
	t *transport.Client
}

// NewHabitAPI constructs the habit operation group over a shared transport.
func NewHabitAPI(t *transport.Client) *HabitAPI {
	return &HabitAPI{t: t}
}

// Habits lists the user's habits. Every element is validated; one invalid
// element fails the whole call and no partial list is returned.
func (h *HabitAPI) Habits(ctx context.Context) ([]schema.Habit, error) {
	resp, err := h.t.Get(ctx, "/habits/")
	if err != nil {
		return nil, err
	}
	return schema.ParseHabitList(resp.Body)
}

// Habit fetches a single habit by id.
func (h *HabitAPI) Habit(ctx context.Context, id int64) (*schema.Habit, error) {
	resp, err := h.t.Get(ctx, fmt.Sprintf("/habits/%d/", id))
	if err != nil {
		return nil, err
	}
	return schema.ParseHabit(resp.Body)
}

// CreateHabit validates and submits a new habit.
func (h *HabitAPI) CreateHabit(ctx context.Context, data schema.HabitCreate) (*schema.Habit, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	resp, err := h.t.Post(ctx, "/habits/", data)
	if err != nil {
		return nil, err
	}
	return schema.ParseHabit(resp.Body)
}

// UpdateHabit validates and applies a partial patch.
func (h *HabitAPI) UpdateHabit(ctx context.Context, id int64, data schema.HabitUpdate) (*schema.Habit, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	resp, err := h.t.Patch(ctx, fmt.Sprintf("/habits/%d/", id), data)
	if err != nil {
		return nil, err
	}
	return schema.ParseHabit(resp.Body)
}

// DeleteHabit removes a habit.
func (h *HabitAPI) DeleteHabit(ctx context.Context, id int64) error {
	_, err := h.t.Delete(ctx, fmt.Sprintf("/habits/%d/", id))
	return err
}

// ToggleCompletion sets a habit's completion status for one date. An omitted
// date is left out of the request body; the server defaults it to today.
func (h *HabitAPI) ToggleCompletion(ctx context.Context, habitID int64, toggle schema.CompletionToggle) (*schema.HabitCompletion, error) {
	if err := toggle.Validate(); err != nil {
		return nil, err
	}
	resp, err := h.t.Post(ctx, fmt.Sprintf("/habits/%d/toggle/", habitID), toggle)
	if err != nil {
		return nil, err
	}
	return schema.ParseCompletion(resp.Body)
}

// MarkComplete records today's completion, dated in the caller's local
// calendar.
func (h *HabitAPI) MarkComplete(ctx context.Context, habitID int64, notes string) (*schema.HabitCompletion, error) {
	return h.ToggleCompletion(ctx, habitID, schema.CompletionToggle{
		Date:      dateutil.Today(),
		Completed: true,
		Notes:     notes,
	})
}

// MarkIncomplete clears today's completion.
func (h *HabitAPI) MarkIncomplete(ctx context.Context, habitID int64) (*schema.HabitCompletion, error) {
	return h.ToggleCompletion(ctx, habitID, schema.CompletionToggle{
		Date:      dateutil.Today(),
		Completed: false,
	})
}

// Completions fetches a habit's completion history, optionally bounded by
// start and end dates (YYYY-MM-DD). Every record is validated.
func (h *HabitAPI) Completions(ctx context.Context, habitID int64, startDate, endDate string) ([]schema.HabitCompletion, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}
	path := fmt.Sprintf("/habits/%d/completions/", habitID)
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	resp, err := h.t.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return schema.ParseCompletionList(resp.Body)
}

// Stats fetches the account-wide habit statistics.
func (h *HabitAPI) Stats(ctx context.Context) (*schema.HabitStats, error) {
	resp, err := h.t.Get(ctx, "/habits/stats/")
	if err != nil {
		return nil, err
	}
	return schema.ParseStats(resp.Body)
}

// TodayHabits lists the habits scheduled for today with completion status.
func (h *HabitAPI) TodayHabits(ctx context.Context) ([]schema.Habit, error) {
	resp, err := h.t.Get(ctx, "/habits/today/")
	if err != nil {
		return nil, err
	}
	return schema.ParseHabits(resp.Body)
}

// HabitWithCompletions pairs a habit with its completion history.
type HabitWithCompletions struct {
	Habit       schema.Habit
	Completions []schema.HabitCompletion
}

// HabitsWithCompletions fetches all habits, then each habit's completions
// over [startDate, endDate] concurrently. Habit order is preserved; the
// per-habit fetches carry no ordering guarantee among themselves. The first
// failure fails the whole call — in-flight siblings run to completion and
// their results are discarded, not cancelled.
func (h *HabitAPI) HabitsWithCompletions(ctx context.Context, startDate, endDate string) ([]HabitWithCompletions, error) {
	habits, err := h.Habits(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]HabitWithCompletions, len(habits))
	var g errgroup.Group
	for i, hb := range habits {
		i, hb := i, hb
		g.Go(func() error {
			completions, err := h.Completions(ctx, hb.ID, startDate, endDate)
			if err != nil {
				return err
			}
			out[i] = HabitWithCompletions{Habit: hb, Completions: completions}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Toggle is one entry of a bulk toggle.
type Toggle struct {
	HabitID   int64
	Completed bool
	Notes     string
}

// BulkToggleToday applies every toggle for today's date concurrently and
// returns the resulting completions in input order. Any single failure fails
// the whole batch; toggles already applied server-side are not rolled back
// and no partial result is reported.
func (h *HabitAPI) BulkToggleToday(ctx context.Context, toggles []Toggle) ([]schema.HabitCompletion, error) {
	today := dateutil.Today()
	out := make([]schema.HabitCompletion, len(toggles))
	var g errgroup.Group
	for i, tg := range toggles {
		i, tg := i, tg
		g.Go(func() error {
			completion, err := h.ToggleCompletion(ctx, tg.HabitID, schema.CompletionToggle{
				Date:      today,
				Completed: tg.Completed,
				Notes:     tg.Notes,
			})
			if err != nil {
				return err
			}
			out[i] = *completion
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
