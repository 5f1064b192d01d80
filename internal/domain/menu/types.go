package menu

// Package menu contains domain types for the role-driven navigation menu.

// Element is a single navigation entry granted to a role.
type Element struct {
	ID          int    `json:"id"`
	Controller  string `json:"controller"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dedupe collapses elements with the same ID, preserving first-seen order.
// The gateway returns one row per (role, element) pair, so users holding
// several roles see duplicates.
func Dedupe(elements []Element) []Element {
	seen := make(map[int]struct{}, len(elements))
	out := make([]Element, 0, len(elements))
	for _, e := range elements {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
