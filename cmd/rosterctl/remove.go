package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Monalisa-XD/Academix/internal/service"
)

func newRemoveCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <faculty|students> <id>",
		Short: "Delete a roster record after a yes/no prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := a.workspace().Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var confirm service.Confirmer = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = service.Confirmed(true)
			}
			return removeRecord(cmd.Context(), tab, args[1], confirm, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// removeRecord deletes id from tab and reports the outcome on out. A confirmed
// delete reaches the backend even when id is not in the loaded list.
func removeRecord(ctx context.Context, tab service.RosterTab, id string, confirm service.Confirmer, out io.Writer) error {
	agreed := false
	recorded := service.ConfirmFunc(func(ctx context.Context, prompt string) bool {
		agreed = confirm.Confirm(ctx, prompt)
		return agreed
	})

	before := tab.View().Pagination.TotalCount
	if err := tab.Remove(ctx, id, recorded); err != nil {
		return err
	}
	switch {
	case !agreed:
		fmt.Fprintln(out, "Nothing deleted.")
	case tab.View().Pagination.TotalCount == before:
		fmt.Fprintf(out, "Delete request sent for %s; it was not in the loaded %s list.\n", id, tab.Entity())
	default:
		fmt.Fprintf(out, "Deleted %s.\n", id)
	}
	return nil
}

// promptConfirmer asks on out and reads one line from in. Only y or yes agrees.
func promptConfirmer(in io.Reader, out io.Writer) service.Confirmer {
	reader := bufio.NewReader(in)
	return service.ConfirmFunc(func(ctx context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}
