package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/csg33k/cotizador/internal/adapters/pdf"
	sqliteadapter "github.com/csg33k/cotizador/internal/adapters/sqlite"
	"github.com/csg33k/cotizador/internal/app"
	"github.com/csg33k/cotizador/internal/config"
	"github.com/csg33k/cotizador/internal/domain"
	"github.com/csg33k/cotizador/internal/handlers"
	"github.com/csg33k/cotizador/internal/templates"
)

var requestFile string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cotizador",
		Short: "Quote submission operator CLI",
		Long: `cotizador works with quote requests saved as JSON, in the same shape the
forms post to /api/send-quote. Use "-" to read the request from stdin.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&requestFile, "file", "f", "-", "Quote request JSON file")
	cmd.AddCommand(
		newRenderCmd(),
		newRowCmd(),
		newReceiptCmd(),
		newSubmitCmd(),
		newSheetCmd(),
	)
	return cmd
}

func newRenderCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the admin and customer emails to HTML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, row, err := loadRequest(cmd)
			if err != nil {
				return err
			}
			note, err := templates.Composer{Brand: brandFromEnv()}.Compose(cmd.Context(), s, row)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			files := map[string]string{
				"admin-" + s.QuoteID + ".html":    note.AdminHTML,
				"customer-" + s.QuoteID + ".html": note.CustomerHTML,
			}
			for name, html := range files {
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin:    %s\ncustomer: %s\n", note.AdminSubject, note.CustomerSubject)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "preview", "Directory for the rendered files")
	return cmd
}

func newRowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Print the spreadsheet row a request would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, row, err := loadRequest(cmd)
			if err != nil {
				return err
			}
			values := row.Values()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(values)
			}
			for i, v := range values {
				fmt.Fprintf(cmd.OutOrStdout(), "%-2d %-22s %s\n", i+1, domain.Header[i], v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the row as a JSON array")
	return cmd
}

func newReceiptCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Build the PDF receipt for a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, row, err := loadRequest(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = pdf.Filename(s.QuoteID)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := pdf.GenerateReceipt(s, row, brandFromEnv(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default cotizacion-<quoteId>.pdf)")
	return cmd
}

func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Run a request through the configured sheet and mailer",
		Long: `submit runs the same steps as POST /api/send-quote using the current
configuration. Without RESEND_API_KEY emails are only logged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readRequest(cmd)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			wired, err := app.Build(cfg, logger)
			if err != nil {
				return err
			}
			defer wired.Close()

			outcome, err := wired.Orchestrator.Submit(cmd.Context(), s)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"adminEmailId":  outcome.AdminEmailID,
				"userEmailId":   outcome.UserEmailID,
				"sheetsSuccess": outcome.SheetsSuccess,
				"message":       outcome.Message(),
				"quoteType":     outcome.Segment,
			})
		},
	}
}

func newSheetCmd() *cobra.Command {
	var dbPath, tab string
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Inspect the local SQLite sheet",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "cotizaciones.db", "SQLite sheet path")
	cmd.PersistentFlags().StringVar(&tab, "tab", "Cotizaciones", "Sheet tab")

	open := func() (*sqliteadapter.Repository, error) {
		return sqliteadapter.New(dbPath)
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the header row",
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := open()
				if err != nil {
					return err
				}
				defer repo.Close()
				return repo.WriteHeader(cmd.Context(), tab)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every stored row as JSON lines",
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := open()
				if err != nil {
					return err
				}
				defer repo.Close()
				rows, err := repo.ListRows(cmd.Context(), tab)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, r := range rows {
					if err := enc.Encode(r); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)
	return cmd
}

// ── helpers ───────────────────────────────────────────────────────────────────

func readRequest(cmd *cobra.Command) (domain.Submission, error) {
	var r io.Reader = cmd.InOrStdin()
	if requestFile != "-" {
		f, err := os.Open(requestFile)
		if err != nil {
			return domain.Submission{}, err
		}
		defer f.Close()
		r = f
	}
	s, err := handlers.DecodeRequest(r)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("decode %s: %w", requestFile, err)
	}
	return s, nil
}

// loadRequest reads the request and builds its row in the configured zone.
func loadRequest(cmd *cobra.Command) (domain.Submission, domain.Row, error) {
	s, err := readRequest(cmd)
	if err != nil {
		return s, domain.Row{}, err
	}
	loc := time.UTC
	if cfg, err := config.Load(); err == nil {
		if l, err := cfg.Location(); err == nil {
			loc = l
		}
	}
	return s, domain.NewRow(s, time.Now().In(loc)), nil
}

func brandFromEnv() string {
	if cfg, err := config.Load(); err == nil && cfg.Brand != "" {
		return cfg.Brand
	}
	return templates.DefaultBrand
}
