package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/officer"
)

var (
	boardSort  string
	boardOrder string
)

var sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Afficher le tableau des publications par commune",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		groups, err := officer.New(gw, officer.WithLogger(logger)).Board(cmd.Context(), boardSort, boardOrder)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "Aucune publication.")
			return nil
		}
		for _, g := range groups {
			fmt.Fprintln(out, sectionStyle.Render(g.Nom))
			printRecords(out, g.Records)
		}
		return nil
	},
}

func init() {
	boardCmd.Flags().StringVar(&boardSort, "sort", officer.SortPublication, "sort field: date_declaration, date_celebration or date_publication")
	boardCmd.Flags().StringVar(&boardOrder, "order", officer.OrderDesc, "sort order: asc or desc")
}

// printRecords renders records as a table.
func printRecords(out io.Writer, records []declaration.Record) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.Status.Label(),
			r.Epoux.FullName(),
			r.Epouse.FullName(),
			r.DateCelebration,
			r.Commune.Nom,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("No", "Statut", "Epoux", "Epouse", "Celebration", "Commune").
		Rows(rows...)
	fmt.Fprintln(out, t.String())
}
