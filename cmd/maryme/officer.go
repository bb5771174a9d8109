package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-maryme/pkg/auth"
	"github.com/goliatone/go-maryme/pkg/config"
	"github.com/goliatone/go-maryme/pkg/declaration"
	"github.com/goliatone/go-maryme/pkg/officer"
	"github.com/goliatone/go-maryme/pkg/renderers/tui"
)

var (
	loginEmail  string
	listStatus  string
	listSort    string
	listOrder   string
	messageText string
)

var officerCmd = &cobra.Command{
	Use:   "officer",
	Short: "Commandes de l'officier d'etat civil",
}

var officerLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Se connecter et afficher le jeton",
	RunE: func(cmd *cobra.Command, args []string) error {
		return login(cmd, func(c *auth.Client, email, password string) (string, error) {
			return c.OfficerLogin(cmd.Context(), email, password)
		})
	},
}

var officerMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Afficher le profil connecte",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOfficer()
		if err != nil {
			return err
		}
		p, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", p.FullName(), p.Email)
		return nil
	},
}

var officerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lister les declarations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newOfficer()
		if err != nil {
			return err
		}
		records, err := client.List(cmd.Context(), officer.Query{
			Status:    declaration.Status(listStatus),
			SortBy:    listSort,
			SortOrder: listOrder,
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Aucune declaration.")
			return nil
		}
		printRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

var officerApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Accepter une declaration en attente",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return review(cmd, args[0], (*officer.Client).Approve)
	},
}

var officerRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Refuser une declaration en attente",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return review(cmd, args[0], (*officer.Client).Reject)
	},
}

var officerPublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publier une declaration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecordID(args[0])
		if err != nil {
			return err
		}
		client, err := newOfficer()
		if err != nil {
			return err
		}
		if err := client.Publish(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Declaration %d publiee.\n", id)
		return nil
	},
}

var officerMessageCmd = &cobra.Command{
	Use:   "message <id>",
	Short: "Envoyer un message au declarant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecordID(args[0])
		if err != nil {
			return err
		}
		text := messageText
		if text == "" {
			text, err = tui.NewSurveyDriver(cmd.OutOrStdout()).TextArea(cmd.Context(), tui.TextAreaConfig{Message: "Message"})
			if err != nil {
				return err
			}
		}
		client, err := newOfficer()
		if err != nil {
			return err
		}
		if err := client.SendMessage(cmd.Context(), id, text); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Message envoye.")
		return nil
	},
}

func init() {
	officerLoginCmd.Flags().StringVar(&loginEmail, "email", "", "adresse electronique")
	officerListCmd.Flags().StringVar(&listStatus, "status", string(declaration.StatusPending), "en_attente, accepte or refuse")
	officerListCmd.Flags().StringVar(&listSort, "sort", officer.SortDeclaration, "sort field")
	officerListCmd.Flags().StringVar(&listOrder, "order", officer.OrderDesc, "asc or desc")
	officerMessageCmd.Flags().StringVarP(&messageText, "text", "m", "", "message content, prompted when empty")

	officerCmd.AddCommand(officerLoginCmd, officerMeCmd, officerListCmd, officerApproveCmd, officerRejectCmd, officerPublishCmd, officerMessageCmd)
}

func newOfficer() (*officer.Client, error) {
	gw, err := newGateway()
	if err != nil {
		return nil, err
	}
	return officer.New(gw, officer.WithLogger(logger)), nil
}

// review finds the pending record and applies fn to it.
func review(cmd *cobra.Command, rawID string, fn func(*officer.Client, context.Context, declaration.Record) error) error {
	id, err := parseRecordID(rawID)
	if err != nil {
		return err
	}
	client, err := newOfficer()
	if err != nil {
		return err
	}
	records, err := client.List(cmd.Context(), officer.Query{Status: declaration.StatusPending})
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		if err := fn(client, cmd.Context(), rec); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Declaration %d traitee.\n", id)
		return nil
	}
	return fmt.Errorf("%w: %d", officer.ErrNotPending, id)
}

type loginFunc func(c *auth.Client, email, password string) (string, error)

// login prompts for missing credentials and prints the token to export.
func login(cmd *cobra.Command, fn loginFunc) error {
	driver := tui.NewSurveyDriver(cmd.OutOrStdout())
	email := strings.TrimSpace(loginEmail)
	var err error
	if email == "" {
		if email, err = driver.Input(cmd.Context(), tui.InputConfig{Message: "Adresse electronique"}); err != nil {
			return err
		}
	}
	password, err := driver.Password(cmd.Context(), tui.InputConfig{Message: "Mot de passe"})
	if err != nil {
		return err
	}
	gw, err := newGateway()
	if err != nil {
		return err
	}
	jwt, err := fn(auth.New(gw, tokens, auth.WithLogger(logger)), email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "export %s=%s\n", config.EnvToken, jwt)
	return nil
}

func parseRecordID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, errors.Join(officer.ErrInvalidID, err)
	}
	return id, nil
}
