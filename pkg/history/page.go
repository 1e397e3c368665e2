package history

import (
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// Row is a history record prepared for display
type Row struct {
	models.TransmissionRecord
	StatusBadge models.Badge
	ModeBadge   models.Badge
	When        string
	Pending     bool
}

// Page is the view model of the history page
type Page struct {
	State      State
	Rows       []Row
	Pagination Pagination
	Stats      *models.TxStats
	Channels   []models.Channel
	Error      string
}

// NewRows prepares records for display in loc
func NewRows(records []models.TransmissionRecord, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			TransmissionRecord: rec,
			StatusBadge:        models.StatusBadge(rec.Status),
			ModeBadge:          models.ModeBadge(rec.Mode),
			Pending:            rec.Status == models.StatusPending,
			When:               "-",
		}
		if t := rec.DisplayTime(); !t.IsZero() {
			row.When = t.In(loc).Format("02/01/2006 15:04:05")
		}
		rows = append(rows, row)
	}
	return rows
}

// NewPage builds the page for a loaded history slice
func NewPage(state State, result *models.HistoryPage, loc *time.Location) Page {
	page := Page{State: state}
	if result == nil {
		return page
	}
	page.Rows = NewRows(result.Results, loc)
	limit := result.Limit
	if limit <= 0 {
		limit = PageSize
	}
	page.Pagination = NewPagination(result.Total, state.Page, limit)
	return page
}

// PrevQuery is the console query of the previous page
func (p Page) PrevQuery() string {
	return p.State.WithPage(p.State.Page - 1).Encode()
}

// NextQuery is the console query of the next page
func (p Page) NextQuery() string {
	return p.State.WithPage(p.State.Page + 1).Encode()
}
