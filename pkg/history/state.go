package history

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// PageSize is the number of records shown per page
const PageSize = 50

// MaxPage bounds the page index so the gateway offset stays well within range
const MaxPage = 1_000_000

// LocalLayout is the format of a datetime-local form field
const LocalLayout = "2006-01-02T15:04"

// Filters narrows the history. Start and End hold the local date-times as
// the operator typed them.
type Filters struct {
	ChannelID int
	Status    string
	Mode      string
	Start     string
	End       string
}

// State is everything needed to load one history page
type State struct {
	Page    int
	Filters Filters
}

// ParseState reads the state from the query of a console request
func ParseState(q url.Values) State {
	page, _ := strconv.Atoi(q.Get("page"))
	page = clampPage(page)
	channelID, _ := strconv.Atoi(q.Get("channel_id"))
	return State{
		Page: page,
		Filters: Filters{
			ChannelID: channelID,
			Status:    strings.ToUpper(strings.TrimSpace(q.Get("status"))),
			Mode:      strings.ToUpper(strings.TrimSpace(q.Get("mode"))),
			Start:     strings.TrimSpace(q.Get("start")),
			End:       strings.TrimSpace(q.Get("end")),
		},
	}
}

// ApplyFilters replaces the filters and goes back to the first page
func (s State) ApplyFilters(f Filters) State {
	s.Page = 0
	s.Filters = f
	return s
}

// WithPage returns the same filters on another page
func (s State) WithPage(page int) State {
	s.Page = clampPage(page)
	return s
}

func clampPage(page int) int {
	switch {
	case page < 0:
		return 0
	case page > MaxPage:
		return MaxPage
	default:
		return page
	}
}

// Encode returns the console query string of the state
func (s State) Encode() string {
	q := url.Values{}
	if s.Page > 0 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.Filters.ChannelID > 0 {
		q.Set("channel_id", strconv.Itoa(s.Filters.ChannelID))
	}
	if s.Filters.Status != "" {
		q.Set("status", s.Filters.Status)
	}
	if s.Filters.Mode != "" {
		q.Set("mode", s.Filters.Mode)
	}
	if s.Filters.Start != "" {
		q.Set("start", s.Filters.Start)
	}
	if s.Filters.End != "" {
		q.Set("end", s.Filters.End)
	}
	return q.Encode()
}

// Validate checks the filters against the values the gateway accepts
func (s State) Validate(loc *time.Location) error {
	if s.Filters.Status != "" && !contains(models.Statuses, s.Filters.Status) {
		return fmt.Errorf("invalid status: %s (valid: %s)", s.Filters.Status, strings.Join(models.Statuses, ", "))
	}
	if s.Filters.Mode != "" && s.Filters.Mode != models.ModeScheduled && s.Filters.Mode != models.ModeManualTest {
		return fmt.Errorf("invalid mode: %s (valid: %s, %s)", s.Filters.Mode, models.ModeScheduled, models.ModeManualTest)
	}

	start, err := parseLocal(s.Filters.Start, loc)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseLocal(s.Filters.End, loc)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}

// Query builds the gateway query for the state: the full filter set plus
// limit and offset. Local date-times become absolute UTC instants.
func (s State) Query(loc *time.Location) (url.Values, error) {
	if err := s.Validate(loc); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(PageSize))
	q.Set("offset", strconv.Itoa(s.Page*PageSize))
	if s.Filters.ChannelID > 0 {
		q.Set("channel_id", strconv.Itoa(s.Filters.ChannelID))
	}
	if s.Filters.Status != "" {
		q.Set("status", s.Filters.Status)
	}
	if s.Filters.Mode != "" {
		q.Set("mode", s.Filters.Mode)
	}
	if s.Filters.Start != "" {
		start, _ := LocalToUTC(s.Filters.Start, loc)
		q.Set("start_date", start)
	}
	if s.Filters.End != "" {
		end, _ := LocalToUTC(s.Filters.End, loc)
		q.Set("end_date", end)
	}
	return q, nil
}

// LocalToUTC converts a datetime-local value entered in loc to an RFC 3339
// UTC instant
func LocalToUTC(value string, loc *time.Location) (string, error) {
	t, err := parseLocal(value, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}

func parseLocal(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{LocalLayout, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected %s, got %q", LocalLayout, value)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
