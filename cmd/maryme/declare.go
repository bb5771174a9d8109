package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-maryme/pkg/artifact"
	"github.com/goliatone/go-maryme/pkg/artifact/pdf"
	"github.com/goliatone/go-maryme/pkg/auth"
	"github.com/goliatone/go-maryme/pkg/contract"
	"github.com/goliatone/go-maryme/pkg/renderers/tui"
	"github.com/goliatone/go-maryme/pkg/session"
)

var (
	declareFormat string
	declareDir    string
)

var declareCmd = &cobra.Command{
	Use:   "declare",
	Short: "Remplir et envoyer une declaration de mariage",
	Long: `Walks the declaration wizard: e-mail, one-time code, spouses, witnesses,
ceremony, then region, department and commune. Once the backend accepts the
declaration the confirmation is printed and saved to --dir.`,
	RunE: runDeclare,
}

func init() {
	declareCmd.Flags().StringVar(&declareFormat, "format", "", "confirmation file format: html, md, txt or pdf (config artifact.format)")
	declareCmd.Flags().StringVar(&declareDir, "dir", "", "directory for the confirmation file (config artifact.dir)")
}

func newArtifactRenderer() (*artifact.Renderer, error) {
	a := cfg.Artifact
	opts := []artifact.Option{
		artifact.WithTheme(cfg.Theme()),
		artifact.WithTerminalStyle(a.TerminalStyle, a.WordWrap),
		artifact.WithLogger(logger),
	}
	if a.PDF.Enabled {
		opts = append(opts, artifact.WithPDFExporter(pdf.New(
			pdf.WithBin(a.PDF.Browser),
			pdf.WithTimeout(cfg.PDFTimeout()),
			pdf.WithLogger(logger),
		)))
	}
	return artifact.NewRenderer(opts...)
}

func runDeclare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := declareFormat
	if format == "" {
		format = cfg.Artifact.Format
	}
	fileFormat, err := artifact.ParseFormat(format)
	if err != nil {
		return err
	}
	dir := declareDir
	if dir == "" {
		dir = cfg.Artifact.Dir
	}

	gw, err := newGateway()
	if err != nil {
		return err
	}
	doc, err := contract.Load(ctx)
	if err != nil {
		return err
	}
	renderer, err := newArtifactRenderer()
	if err != nil {
		return err
	}
	authClient := auth.New(gw, tokens, auth.WithResendInterval(cfg.ResendInterval()), auth.WithLogger(logger))

	s, err := session.New(gw, tokens,
		session.WithAuth(authClient),
		session.WithContract(doc),
		session.WithRenderer(renderer),
		session.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	receipt, err := tui.New(s, tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())), tui.WithLogger(logger)).Run(ctx)
	if err != nil {
		return err
	}

	path, err := s.WriteArtifact(ctx, dir, fileFormat)
	if err != nil {
		logger.Warn("confirmation not saved", zap.Error(err))
		return fmt.Errorf("declaration %d acceptee, fichier non enregistre: %w", receipt.ID, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Confirmation enregistree: %s\n", path)
	return nil
}
