package types

// Expansion is the view state of the root node.
type Expansion int

// Expansion states. Collapsed is the zero value and the initial state.
const (
	Collapsed Expansion = iota
	Expanded
)

func (e Expansion) String() string {
	switch e {
	case Collapsed:
		return "collapsed"
	case Expanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// State is the (expansion, task list) pair every intent returns for
// rendering. Tasks is a copy; callers may keep or modify it freely.
type State struct {
	Expansion Expansion
	Tasks     []Task
}

// Expanded reports whether the root node is expanded.
func (s State) Expanded() bool {
	return s.Expansion == Expanded
}

// Texts returns the task list in its persisted form.
// Always returns a non-nil slice.
func (s State) Texts() []string {
	texts := make([]string, len(s.Tasks))
	for i, t := range s.Tasks {
		texts[i] = t.Text
	}
	return texts
}

// Row is the presentation-facing view of one task.
type Row struct {
	Index       int
	Value       string
	Placeholder string
}

// Rows derives the rendered rows from the task list.
func (s State) Rows() []Row {
	rows := make([]Row, len(s.Tasks))
	for i, t := range s.Tasks {
		rows[i] = Row{Index: i, Value: t.DisplayValue(), Placeholder: t.Placeholder()}
	}
	return rows
}
