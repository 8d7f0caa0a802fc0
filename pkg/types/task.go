package types

// SentinelText marks a task that has never been edited. It is stored as-is
// but rendered as a placeholder, never as input content.
const SentinelText = "Edit Here..."

// TasksKey is the single store key the task list is persisted under.
const TasksKey = "tasks"

// Task is one editable entry in the checklist. It has no identity beyond
// its position in the list.
type Task struct {
	Text string
}

// NewTask returns a task carrying the sentinel text.
func NewTask() Task {
	return Task{Text: SentinelText}
}

// Edited reports whether the task holds real content. A task edited to the
// literal sentinel text is indistinguishable from a fresh one.
func (t Task) Edited() bool {
	return t.Text != SentinelText
}

// DisplayValue returns the value an editable input should show: empty for a
// never-edited task, the text otherwise.
func (t Task) DisplayValue() string {
	if !t.Edited() {
		return ""
	}
	return t.Text
}

// Placeholder returns the hint shown when the input is empty.
func (t Task) Placeholder() string {
	return SentinelText
}

// TasksFromTexts builds a task list from its persisted form.
// Always returns a non-nil slice.
func TasksFromTexts(texts []string) []Task {
	tasks := make([]Task, len(texts))
	for i, s := range texts {
		tasks[i] = Task{Text: s}
	}
	return tasks
}
