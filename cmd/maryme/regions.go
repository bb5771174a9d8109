package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-maryme/components/communes"
	"github.com/goliatone/go-maryme/pkg/location"
)

var regionsSearch string

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Afficher les regions, departements et communes",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		loader := location.NewLoader(gw, logger)
		out := cmd.OutOrStdout()
		if regionsSearch != "" {
			found, err := communes.New(communes.WithSource(loader)).Lookup(cmd.Context(), communes.Query{Search: regionsSearch})
			if err != nil {
				return err
			}
			for _, o := range found {
				fmt.Fprintf(out, "%4d  %s\n", o.ID, o.Label)
			}
			return nil
		}
		tree, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range tree.Regions() {
			fmt.Fprintf(out, "%s (%d)\n", r.Nom, r.ID)
			for _, d := range r.Departements {
				fmt.Fprintf(out, "  %s (%d)\n", d.Nom, d.ID)
				for _, c := range d.Communes {
					fmt.Fprintf(out, "    %s (%d)\n", c.Nom, c.ID)
				}
			}
		}
		return nil
	},
}

func init() {
	regionsCmd.Flags().StringVarP(&regionsSearch, "search", "s", "", "search communes by name")
}
