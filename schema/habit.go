package schema

import "fmt"

// Habit frequencies accepted by the service.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyCustom = "custom"
)

// Habit is a tracked habit as returned by the service. Streaks and the
// completion rate are server-authoritative; they are only range-checked here.
type Habit struct {
	ID               int64   `json:"id" validate:"required"`
	Name             string  `json:"name" validate:"required,max=200"`
	Description      string  `json:"description,omitempty"`
	Frequency        string  `json:"frequency" validate:"required,oneof=daily weekly custom"`
	IsActive         bool    `json:"is_active"`
	CreatedAt        string  `json:"created_at" validate:"required,rfc3339"`
	UpdatedAt        string  `json:"updated_at" validate:"required,rfc3339"`
	CurrentStreak    int     `json:"current_streak" validate:"gte=0"`
	BestStreak       int     `json:"best_streak" validate:"gte=0"`
	IsCompletedToday bool    `json:"is_completed_today"`
	CompletionRate   float64 `json:"completion_rate" validate:"gte=0,lte=100"`
}

// Validate checks the habit contract.
func (h *Habit) Validate() error { return check(h) }

// ParseHabit decodes and validates a single habit response body.
func ParseHabit(data []byte) (*Habit, error) {
	var h Habit
	if err := decode(data, "habit", &h); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// HabitCreate is the payload for creating a habit. Name length bounds are
// enforced before transmission; frequency defaults to daily when omitted.
type HabitCreate struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency" validate:"oneof=daily weekly custom"`
}

// Validate applies the frequency default, then checks the create contract.
func (c *HabitCreate) Validate() error {
	if c.Frequency == "" {
		c.Frequency = FrequencyDaily
	}
	return check(c)
}

// HabitUpdate is a partial patch; every field is optional and absent fields
// are omitted from the request body.
type HabitUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Frequency   *string `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly custom"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// Validate checks the update contract over whichever fields are present.
func (u HabitUpdate) Validate() error { return check(u) }

// HabitCompletion is one completion record for a calendar date.
type HabitCompletion struct {
	ID        int64  `json:"id" validate:"required"`
	Date      string `json:"date" validate:"required,dateonly"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at" validate:"required,rfc3339"`
	UpdatedAt string `json:"updated_at" validate:"required,rfc3339"`
}

// Validate checks the completion contract.
func (c *HabitCompletion) Validate() error { return check(c) }

// ParseCompletion decodes and validates a completion response body.
func ParseCompletion(data []byte) (*HabitCompletion, error) {
	var c HabitCompletion
	if err := decode(data, "completion", &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// CompletionToggle sets a habit's completion status for one date. Date is
// optional; when omitted the server applies its own notion of today, so it
// must never be defaulted client-side.
type CompletionToggle struct {
	Date      string `json:"date,omitempty" validate:"omitempty,dateonly"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// Validate checks the toggle contract.
func (t CompletionToggle) Validate() error { return check(t) }

// HabitStats is the account-wide aggregate returned by the stats endpoint.
// Counts are trusted from the server and not cross-validated here.
type HabitStats struct {
	TotalHabits          int     `json:"total_habits" validate:"gte=0"`
	ActiveHabits         int     `json:"active_habits" validate:"gte=0"`
	CompletedToday       int     `json:"completed_today" validate:"gte=0"`
	TotalToday           int     `json:"total_today" validate:"gte=0"`
	CompletionPercentage float64 `json:"completion_percentage" validate:"gte=0,lte=100"`
	LongestStreak        int     `json:"longest_streak" validate:"gte=0"`
}

// ParseStats decodes and validates a stats response body.
func ParseStats(data []byte) (*HabitStats, error) {
	var s HabitStats
	if err := decode(data, "stats", &s); err != nil {
		return nil, err
	}
	if err := check(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// HabitList is the paginated envelope for the habit collection endpoint.
type HabitList struct {
	Results  []Habit `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// CompletionList is the paginated envelope for completion history.
type CompletionList struct {
	Results  []HabitCompletion `json:"results"`
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
}

// ParseHabitList decodes the collection envelope and validates every element
// individually. One invalid element fails the whole parse; no partial list
// is returned.
func ParseHabitList(data []byte) ([]Habit, error) {
	var list HabitList
	if err := decode(data, "habit list", &list); err != nil {
		return nil, err
	}
	if err := validateHabits(list.Results, "results"); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// ParseHabits decodes a bare habit array (the today endpoint), validating
// every element.
func ParseHabits(data []byte) ([]Habit, error) {
	var habits []Habit
	if err := decode(data, "habits", &habits); err != nil {
		return nil, err
	}
	if err := validateHabits(habits, ""); err != nil {
		return nil, err
	}
	return habits, nil
}

// ParseCompletionList decodes the completion envelope, validating every element.
func ParseCompletionList(data []byte) ([]HabitCompletion, error) {
	var list CompletionList
	if err := decode(data, "completion list", &list); err != nil {
		return nil, err
	}
	for i := range list.Results {
		if err := list.Results[i].Validate(); err != nil {
			return nil, prefixElem(err, "results", i)
		}
	}
	return list.Results, nil
}

func validateHabits(habits []Habit, parent string) error {
	for i := range habits {
		if err := habits[i].Validate(); err != nil {
			return prefixElem(err, parent, i)
		}
	}
	return nil
}

// prefixElem nests a ValidationError's field paths under parent[i] so list
// failures stay attributable to the offending element.
func prefixElem(err error, parent string, i int) error {
	var verr *ValidationError
	if asValidation(err, &verr) {
		return verr.prefix(fmt.Sprintf("%s[%d]", parent, i))
	}
	return err
}
