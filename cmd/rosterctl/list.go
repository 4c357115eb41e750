package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Monalisa-XD/Academix/internal/models"
	"github.com/Monalisa-XD/Academix/internal/service"
	"github.com/Monalisa-XD/Academix/pkg/export"
)

var footerStyle = lipgloss.NewStyle().Faint(true)

func newListCmd(a *app) *cobra.Command {
	var (
		search  string
		filters []string
		page    int
	)
	cmd := &cobra.Command{
		Use:       "list <faculty|students>",
		Short:     "Print one page of a roster",
		Args:      cobra.ExactArgs(1),
		ValidArgs: service.Tabs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := a.workspace().Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := applyListState(tab, search, filters, page); err != nil {
				return err
			}
			renderPage(cmd.OutOrStdout(), tab.View(), tab.Dataset())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Name prefix to match")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as name=value, repeatable; name= keeps records with an empty value")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	return cmd
}

func applyListState(tab service.RosterTab, search string, filters []string, page int) error {
	tab.SetSearchTerm(search)
	for _, f := range filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("filter %q must be name=value", f)
		}
		if err := tab.SetFilter(strings.TrimSpace(name), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	tab.GoToPage(page)
	return nil
}

// renderPage prints the rows of the current page. data holds every filtered
// row in display order; the view says which of them are on the page.
func renderPage(w io.Writer, view models.RosterView, data export.Dataset) {
	if view.ShowingFrom == 0 {
		fmt.Fprintf(w, "No %s found.\n", view.Entity)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"ID"}, data.Headers...)...)
	for i := view.ShowingFrom - 1; i < view.ShowingTo && i < len(data.Rows); i++ {
		row := make([]string, 0, len(data.Headers)+1)
		row = append(row, data.Keys[i])
		for _, h := range data.Headers {
			row = append(row, data.Rows[i][h])
		}
		t.Row(row...)
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, footerStyle.Render(fmt.Sprintf("Showing %d to %d of %d results, page %d of %d",
		view.ShowingFrom, view.ShowingTo, view.Pagination.TotalCount, view.Pagination.Page, view.Pagination.TotalPages)))
}
