// Package listing provides the list state shared by every admin screen: filters,
// pagination, the current page of items and the mutation reducers that reconcile
// that page locally after a backend call succeeds.
package listing

import "dormdesk/internal/core/entity"

// ActionKind names a local list mutation.
type ActionKind string

const (
	ActionAdd        ActionKind = "ADD"
	ActionRemove     ActionKind = "REMOVE"
	ActionUpdateByID ActionKind = "UPDATE_BY_ID"
	ActionReplace    ActionKind = "REPLACE"
)

// Action is a single reducer input.
type Action[T entity.Identifiable] struct {
	Kind  ActionKind
	Item  T
	ID    int64
	Items []T
}

// Add appends item to the list.
func Add[T entity.Identifiable](item T) Action[T] {
	return Action[T]{Kind: ActionAdd, Item: item}
}

// Remove drops the item with id.
func Remove[T entity.Identifiable](id int64) Action[T] {
	return Action[T]{Kind: ActionRemove, ID: id}
}

// UpdateByID swaps the item carrying item.GetID().
func UpdateByID[T entity.Identifiable](item T) Action[T] {
	return Action[T]{Kind: ActionUpdateByID, Item: item, ID: item.GetID()}
}

// Replace swaps the whole list (a fresh page from the backend).
func Replace[T entity.Identifiable](items []T) Action[T] {
	return Action[T]{Kind: ActionReplace, Items: items}
}

// Reduce applies a to items and returns a new slice. items is never modified.
// Unknown kinds return a copy of the input.
func Reduce[T entity.Identifiable](items []T, a Action[T]) []T {
	switch a.Kind {
	case ActionAdd:
		out := make([]T, 0, len(items)+1)
		out = append(out, items...)
		return append(out, a.Item)
	case ActionRemove:
		out := make([]T, 0, len(items))
		for _, it := range items {
			if it.GetID() != a.ID {
				out = append(out, it)
			}
		}
		return out
	case ActionUpdateByID:
		out := make([]T, len(items))
		for i, it := range items {
			if it.GetID() == a.ID {
				out[i] = a.Item
				continue
			}
			out[i] = it
		}
		return out
	case ActionReplace:
		out := make([]T, len(a.Items))
		copy(out, a.Items)
		return out
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
