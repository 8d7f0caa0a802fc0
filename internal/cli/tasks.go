package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/checklist/internal/checklist"
	"github.com/mesh-intelligence/checklist/pkg/types"
)

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Expand the list and print its items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withExpanded(cmd, func(c *checklist.Controller) (types.State, error) {
				return c.State(), nil
			})
		},
	}
}

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Append an item, optionally setting its text",
		Long: "Append an item to the list. Without text the item is left unedited\n" +
			"and renders as the \"" + types.SentinelText + "\" placeholder.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withExpanded(cmd, func(c *checklist.Controller) (types.State, error) {
				st := c.AddTask()
				if len(args) == 0 {
					return st, nil
				}
				return c.EditTask(len(st.Tasks)-1, strings.Join(args, " "))
			})
		},
	}
}

func newEditCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <text...>",
		Short: "Replace the text of the item at index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			return e.withExpanded(cmd, func(c *checklist.Controller) (types.State, error) {
				st, err := c.EditTask(index, text)
				return st, indexError(err)
			})
		},
	}
}

func newDeleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the item at index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return e.withExpanded(cmd, func(c *checklist.Controller) (types.State, error) {
				st, err := c.DeleteTask(index)
				return st, indexError(err)
			})
		},
	}
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError("invalid index %q", arg)
	}
	return index, nil
}

func indexError(err error) error {
	if errors.Is(err, types.ErrIndexOutOfRange) {
		return userError("%s", err)
	}
	return err
}
