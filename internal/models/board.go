package models

// Task is one card on the Today board.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Column is a named list of tasks on the Today board.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// DefaultColumns is the board a user starts with.
func DefaultColumns() []Column {
	return []Column{
		{ID: "todo", Title: "To Do", Tasks: []Task{}},
		{ID: "doing", Title: "Doing", Tasks: []Task{}},
		{ID: "done", Title: "Done", Tasks: []Task{}},
	}
}

// CloneColumns deep-copies a board so callers cannot alias its task slices.
func CloneColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		out[i] = c
		out[i].Tasks = append([]Task{}, c.Tasks...)
	}
	return out
}
