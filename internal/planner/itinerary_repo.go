package planner

import (
	"context"
	"slices"
	"strings"
)

// TodosOn returns the trip's todos scheduled on date (YYYY-MM-DD), ordered
// by start time. Matching is by exact date string.
func (r *Repository) TodosOn(ctx context.Context, tripID ID, date string) ([]TodoItem, error) {
	all, err := r.todos.List(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return FilterTodosByDate(all, date), nil
}

// FilterTodosByDate keeps the todos whose date equals date, ordered by start
// time. Todos starting at the same time keep their stored order.
func FilterTodosByDate(todos []TodoItem, date string) []TodoItem {
	out := []TodoItem{}
	for _, t := range todos {
		if t.Date == date {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b TodoItem) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// TodoDates returns the distinct dates that carry at least one todo,
// sorted ascending.
func (r *Repository) TodoDates(ctx context.Context, tripID ID) ([]string, error) {
	all, err := r.todos.List(ctx, tripID)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(all))
	for _, t := range all {
		dates = append(dates, t.Date)
	}
	slices.Sort(dates)
	return slices.Compact(dates), nil
}

// TogglePacked flips the checked state of a packing list item.
func (r *Repository) TogglePacked(ctx context.Context, tripID, itemID ID) (PackItem, error) {
	return r.packingList.Update(ctx, tripID, itemID, func(p PackItem) PackItem {
		p.Checked = !p.Checked
		return p
	})
}
