package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/checklist/pkg/types"
)

// rootLabel is the text rendered next to the root node.
const rootLabel = "Click here to start"

// stateJSON is the --json rendering of a State.
type stateJSON struct {
	Expansion string    `json:"expansion"`
	Tasks     []rowJSON `json:"tasks"`
}

type rowJSON struct {
	Index       int    `json:"index"`
	Text        string `json:"text"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder"`
}

// printState renders st as text rows or as a JSON document.
func printState(w io.Writer, st types.State, jsonMode bool) error {
	if jsonMode {
		out := stateJSON{Expansion: st.Expansion.String(), Tasks: []rowJSON{}}
		for _, row := range st.Rows() {
			out.Tasks = append(out.Tasks, rowJSON{
				Index:       row.Index,
				Text:        st.Tasks[row.Index].Text,
				Value:       row.Value,
				Placeholder: row.Placeholder,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	marker := "+"
	if st.Expanded() {
		marker = "-"
	}
	fmt.Fprintf(w, "%s %s\n", marker, rootLabel)
	if !st.Expanded() {
		return nil
	}
	if len(st.Tasks) == 0 {
		fmt.Fprintln(w, "  (no items)")
	}
	for _, row := range st.Rows() {
		if row.Value == "" {
			fmt.Fprintf(w, "  [%d] (%s)\n", row.Index, row.Placeholder)
			continue
		}
		fmt.Fprintf(w, "  [%d] %s\n", row.Index, row.Value)
	}
	return nil
}
