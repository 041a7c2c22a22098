package domain

import (
	"sort"
	"time"
)

// Dataset is a loaded ticket export together with the columns it carried.
type Dataset struct {
	Name     string
	Version  string
	LoadedAt time.Time
	Tickets  []*Ticket
	columns  map[string]bool
}

// NewDataset builds a dataset from parsed tickets and the header of the file.
func NewDataset(name, version string, columns []string, tickets []*Ticket) *Dataset {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	if tickets == nil {
		tickets = []*Ticket{}
	}
	return &Dataset{
		Name:     name,
		Version:  version,
		LoadedAt: time.Now().UTC(),
		Tickets:  tickets,
		columns:  set,
	}
}

// EmptyDataset is what consumers receive when loading or validation failed.
func EmptyDataset(name string) *Dataset {
	return NewDataset(name, "", nil, nil)
}

// HasColumn reports whether the source file had the given column.
func (d *Dataset) HasColumn(column string) bool {
	return d != nil && d.columns[column]
}

// Columns returns the present column names, sorted.
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.columns))
	for c := range d.columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Tickets)
}

func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// CreatedSpan returns the first and last creation day in the dataset.
func (d *Dataset) CreatedSpan() (Date, Date, bool) {
	var (
		first, last Date
		found       bool
	)
	if !d.HasColumn(ColumnCreated) {
		return first, last, false
	}
	for _, t := range d.Tickets {
		day, ok := t.CreatedDate()
		if !ok {
			continue
		}
		if !found || day.Before(first) {
			first = day
		}
		if !found || day.After(last) {
			last = day
		}
		found = true
	}
	return first, last, found
}

// FindTicket looks a ticket up by id.
func (d *Dataset) FindTicket(id string) (*Ticket, bool) {
	if d == nil {
		return nil, false
	}
	for _, t := range d.Tickets {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}
