// Package archive groups date-stamped collection rows into the
// year → month → day hierarchy for the history browser.
package archive

import (
	"sort"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// FieldSpec names the column roles used to build the archive. Date and
// Title are required; Subtitle and Category are optional and omitted from
// the output when left empty.
type FieldSpec struct {
	Date     string
	Title    string
	Subtitle string
	Category string
}

// Outcome distinguishes the three shapes of an archive result so the
// caller can render different messaging for each.
type Outcome int

const (
	// OutcomeOK means at least one row carried a parseable date.
	OutcomeOK Outcome = iota
	// OutcomeEmpty means the input collection had no rows at all.
	OutcomeEmpty
	// OutcomeNoValidDates means rows were present but none had a
	// parseable date.
	OutcomeNoValidDates
)

// Entry is one record under a day leaf.
type Entry struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Category string `json:"category,omitempty"`
}

// DayGroup is one leaf: all records of a single calendar day.
type DayGroup struct {
	Day     int     `json:"day"`
	Weekday string  `json:"weekday"`
	Entries []Entry `json:"entries"`
}

// MonthGroup holds the days of one month, latest day first.
type MonthGroup struct {
	Month string     `json:"month"`
	Days  []DayGroup `json:"days"`
}

// YearGroup holds the months of one year.
type YearGroup struct {
	Year   int          `json:"year"`
	Months []MonthGroup `json:"months"`
}

// Tree is the full three-level archive.
type Tree struct {
	Outcome Outcome
	Years   []YearGroup
}

// dated pairs a row's parsed calendar date with its rendered entry,
// preserving input order for tie-breaking.
type dated struct {
	year    int
	month   string
	day     int
	weekday string
	entry   Entry
}

// Group builds the archive tree from a collection snapshot.
//
// Rows whose date cell fails to parse are dropped, never fabricated: the
// number of leaf entries always equals the number of parseable-date input
// rows. Years are ordered descending and days within a month descending;
// records sharing a date keep their load order. Months within a year stay
// in the order they are first encountered walking the year's rows, which
// is not calendar order. Clients render the month list as received and
// rely on that ordering staying load-order dependent.
func Group(rows []types.Row, spec FieldSpec) Tree {
	if len(rows) == 0 {
		return Tree{Outcome: OutcomeEmpty}
	}

	var parsed []dated
	for _, row := range rows {
		date, ok := types.ParseDate(row.Cell(spec.Date))
		if !ok {
			continue
		}
		entry := Entry{Title: row.Cell(spec.Title)}
		if spec.Subtitle != "" {
			entry.Subtitle = row.Cell(spec.Subtitle)
		}
		if spec.Category != "" {
			entry.Category = row.Cell(spec.Category)
		}
		parsed = append(parsed, dated{
			year:    date.Year(),
			month:   date.Month().String(),
			day:     date.Day(),
			weekday: date.Weekday().String(),
			entry:   entry,
		})
	}

	if len(parsed) == 0 {
		return Tree{Outcome: OutcomeNoValidDates}
	}

	byYear := make(map[int][]dated)
	for _, d := range parsed {
		byYear[d.year] = append(byYear[d.year], d)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	tree := Tree{Outcome: OutcomeOK, Years: make([]YearGroup, 0, len(years))}
	for _, y := range years {
		tree.Years = append(tree.Years, YearGroup{
			Year:   y,
			Months: groupMonths(byYear[y]),
		})
	}
	return tree
}

// groupMonths splits one year's records into month groups in
// first-encounter order, each month's days descending.
func groupMonths(records []dated) []MonthGroup {
	var order []string
	byMonth := make(map[string][]dated)
	for _, d := range records {
		if _, seen := byMonth[d.month]; !seen {
			order = append(order, d.month)
		}
		byMonth[d.month] = append(byMonth[d.month], d)
	}

	months := make([]MonthGroup, 0, len(order))
	for _, m := range order {
		months = append(months, MonthGroup{
			Month: m,
			Days:  groupDays(byMonth[m]),
		})
	}
	return months
}

// groupDays splits one month's records into day leaves, latest day first.
// Same-day records keep the order they were loaded in.
func groupDays(records []dated) []DayGroup {
	var order []int
	byDay := make(map[int]*DayGroup)
	for _, d := range records {
		leaf, ok := byDay[d.day]
		if !ok {
			leaf = &DayGroup{Day: d.day, Weekday: d.weekday}
			byDay[d.day] = leaf
			order = append(order, d.day)
		}
		leaf.Entries = append(leaf.Entries, d.entry)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	days := make([]DayGroup, 0, len(order))
	for _, day := range order {
		days = append(days, *byDay[day])
	}
	return days
}

// LeafCount returns the total number of entries across the tree.
func (t Tree) LeafCount() int {
	var n int
	for _, y := range t.Years {
		for _, m := range y.Months {
			for _, d := range m.Days {
				n += len(d.Entries)
			}
		}
	}
	return n
}
