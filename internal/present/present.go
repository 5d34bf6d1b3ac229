// Package present derives the grouped, filtered view of the record set.
// Everything here is pure: inputs are never mutated and nothing blocks,
// so the view can be rebuilt on every keystroke.
package present

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/h0rv/fetchlist/internal/domain"
	"golang.org/x/text/cases"
)

// ErrUnknownGroup is returned by ParseGroupFilter for input that is neither
// "all" nor a list ID.
var ErrUnknownGroup = errors.New("unknown group")

// AllLabel is the selector label of the "no filter" entry.
const AllLabel = "All"

// GroupFilter selects either every group or a single listId.
// The zero value is AllGroups.
type GroupFilter struct {
	listID int
	set    bool
}

// AllGroups is the "no filter" sentinel.
var AllGroups = GroupFilter{}

// OnlyGroup restricts the view to records with the given listId.
func OnlyGroup(listID int) GroupFilter {
	return GroupFilter{listID: listID, set: true}
}

// IsAll reports whether the filter is the "no filter" sentinel.
func (g GroupFilter) IsAll() bool { return !g.set }

// ListID returns the selected listId and whether one is selected.
func (g GroupFilter) ListID() (int, bool) { return g.listID, g.set }

// String returns "All" or the selected listId.
func (g GroupFilter) String() string {
	if !g.set {
		return AllLabel
	}
	return strconv.Itoa(g.listID)
}

func (g GroupFilter) matches(r domain.Record) bool {
	return !g.set || r.ListID == g.listID
}

// ParseGroupFilter accepts "all" (any case, or empty) or a decimal listId.
func ParseGroupFilter(s string) (GroupFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllLabel) {
		return AllGroups, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return AllGroups, fmt.Errorf("%w: %q", ErrUnknownGroup, s)
	}
	return OnlyGroup(id), nil
}

// FilterInput holds the user's current search text and group selection.
type FilterInput struct {
	SearchText string
	Group      GroupFilter
}

// Status tells the renderer which placeholder, if any, to draw.
type Status int

const (
	// StatusReady means at least one record is visible.
	StatusReady Status = iota
	// StatusLoading means there is no data yet and a refresh is in flight.
	StatusLoading
	// StatusEmpty means there is no data and nothing is loading.
	StatusEmpty
	// StatusNoMatches means records exist but the filter removed all of them.
	StatusNoMatches
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	case StatusNoMatches:
		return "no_matches"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Group is one listId partition of the visible records, in name order.
type Group struct {
	ListID  int             `json:"listId" yaml:"listId"`
	Records []domain.Record `json:"records" yaml:"records"`
}

// View is the rendered result of the pipeline.
type View struct {
	Groups      []Group
	ShowHeaders bool
	Status      Status
	// Total is the number of records before filtering.
	Total int
}

// Len returns the number of visible records.
func (v View) Len() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Records)
	}
	return n
}

// Row is one line of the flattened view: a group header or a record.
type Row struct {
	Header bool
	ListID int
	Record domain.Record
}

// Rows flattens the groups, emitting a header row before each group only
// when headers are shown.
func (v View) Rows() []Row {
	rows := make([]Row, 0, v.Len()+len(v.Groups))
	for _, g := range v.Groups {
		if v.ShowHeaders {
			rows = append(rows, Row{Header: true, ListID: g.ListID})
		}
		for _, r := range g.Records {
			rows = append(rows, Row{ListID: g.ListID, Record: r})
		}
	}
	return rows
}

// Present runs search filter, group filter, stable name sort, and grouping
// by ascending listId, in that order.
func Present(records []domain.Record, in FilterInput) View {
	view := View{
		ShowHeaders: in.Group.IsAll(),
		Total:       len(records),
	}
	if len(records) == 0 {
		view.Status = StatusEmpty
		return view
	}

	fold := cases.Fold()
	query := fold.String(in.SearchText)
	visible := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if !strings.Contains(fold.String(r.Name), query) {
			continue
		}
		if !in.Group.matches(r) {
			continue
		}
		visible = append(visible, r)
	}
	if len(visible) == 0 {
		view.Status = StatusNoMatches
		return view
	}

	slices.SortStableFunc(visible, func(a, b domain.Record) int {
		return strings.Compare(a.Name, b.Name)
	})

	view.Groups = groupByListID(visible)
	view.Status = StatusReady
	return view
}

// ForState is Present with the loading flag taken into account: with no
// records and a refresh in flight the view reports StatusLoading.
func ForState(records []domain.Record, loading bool, in FilterInput) View {
	if len(records) == 0 && loading {
		return View{ShowHeaders: in.Group.IsAll(), Status: StatusLoading}
	}
	return Present(records, in)
}

// groupByListID partitions name-sorted records; each group keeps the
// incoming relative order.
func groupByListID(sorted []domain.Record) []Group {
	index := make(map[int]int)
	var groups []Group
	for _, r := range sorted {
		i, ok := index[r.ListID]
		if !ok {
			i = len(groups)
			index[r.ListID] = i
			groups = append(groups, Group{ListID: r.ListID})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return cmp.Compare(a.ListID, b.ListID)
	})
	return groups
}

// GroupOption is one entry of the group selector.
type GroupOption struct {
	Label  string
	Filter GroupFilter
}

// GroupOptions returns the selector entries for the unfiltered record set:
// "All" first, then every distinct listId ascending.
func GroupOptions(records []domain.Record) []GroupOption {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, r := range records {
		if _, ok := seen[r.ListID]; ok {
			continue
		}
		seen[r.ListID] = struct{}{}
		ids = append(ids, r.ListID)
	}
	slices.Sort(ids)

	options := make([]GroupOption, 0, len(ids)+1)
	options = append(options, GroupOption{Label: AllLabel, Filter: AllGroups})
	for _, id := range ids {
		options = append(options, GroupOption{Label: strconv.Itoa(id), Filter: OnlyGroup(id)})
	}
	return options
}
