package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/checklist/internal/tui"
)

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := e.openSession(cmd)
			if err != nil {
				return err
			}

			runErr := tui.Run(s.ctrl, s.events.setForward)
			s.events.setForward(nil)
			if err := s.close(cmd); err != nil {
				return err
			}
			if runErr != nil {
				return sysError("tui: %s", runErr)
			}
			return nil
		},
	}
}
