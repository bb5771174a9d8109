package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-maryme/pkg/admin"
	"github.com/goliatone/go-maryme/pkg/auth"
	"github.com/goliatone/go-maryme/pkg/contract"
)

var (
	adminCreate bool
	communeReq  admin.CommuneRequest
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Commandes d'administration",
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Se connecter en administrateur",
	RunE: func(cmd *cobra.Command, args []string) error {
		return login(cmd, func(c *auth.Client, email, password string) (string, error) {
			if adminCreate {
				return c.AdminCreate(cmd.Context(), email, password)
			}
			return c.AdminLogin(cmd.Context(), email, password)
		})
	},
}

var adminCommuneCmd = &cobra.Command{
	Use:   "commune",
	Short: "Creer une commune",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		doc, err := contract.Load(cmd.Context())
		if err != nil {
			return err
		}
		created, err := admin.New(gw, admin.WithContract(doc), admin.WithLogger(logger)).CreateCommune(cmd.Context(), communeReq)
		if err != nil {
			var invalid *admin.InvalidError
			if errors.As(err, &invalid) {
				for field, msg := range invalid.Fields {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
				}
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Commune %s creee (%d).\n", created.Nom, created.ID)
		return nil
	},
}

func init() {
	adminLoginCmd.Flags().StringVar(&loginEmail, "email", "", "adresse electronique")
	adminLoginCmd.Flags().BoolVar(&adminCreate, "create", false, "creer le compte administrateur")
	adminCommuneCmd.Flags().IntVar(&communeReq.RegionID, "region", 0, "id de la region")
	adminCommuneCmd.Flags().IntVar(&communeReq.DepartmentID, "departement", 0, "id du departement")
	adminCommuneCmd.Flags().StringVar(&communeReq.Nom, "nom", "", "nom de la commune")

	adminCmd.AddCommand(adminLoginCmd, adminCommuneCmd)
}
