package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	peopleSqlite "github.com/quipper/poc/housejobs/internal/repositories/people/sqlite"
	"github.com/quipper/poc/housejobs/internal/views"
	"github.com/quipper/poc/housejobs/pkg/repositories/people"
)

var recordsFormat string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print the stored house job records",
	Long: `Print every stored person record, sorted by display name.

Reads the SQLite store directly; it is safe to run next to a live server.

Examples:
  housejobs records                 # Table
  housejobs records --format yaml   # YAML, one document with every record`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := os.Stat(cfg.SQLitePath); err != nil {
			return fmt.Errorf("no store at %s: %w", cfg.SQLitePath, err)
		}
		repo, err := peopleSqlite.NewSQLiteRepo(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer repo.Disconnect()

		records, err := repo.FetchAll(context.Background())
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), records, recordsFormat)
	},
}

func init() {
	recordsCmd.Flags().StringVar(&recordsFormat, "format", "table", "output format: table or yaml")
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	enabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // Gray
)

func printRecords(w io.Writer, records []*people.Person, format string) error {
	sorted := views.SortByName(records)
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sorted); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		printTable(w, sorted)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or yaml)", format)
	}
}

func printTable(w io.Writer, records []*people.Person) {
	header := []string{"ID", "NAME", "ENABLED", "JOB", "DAYS", "TASKS"}
	rows := make([][]string, 0, len(records))
	for _, p := range records {
		rows = append(rows, []string{
			p.PersonID,
			p.DisplayName,
			fmt.Sprint(p.Enabled),
			views.JobNameText(p),
			views.DaysText(p),
			strings.Join(p.JobTasks, "; "),
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style func(i int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style(i).Width(widths[i]).Render(cell)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(w, line(header, func(int) lipgloss.Style { return headerStyle }))
	for i, row := range rows {
		enabled := records[i].Enabled
		fmt.Fprintln(w, line(row, func(col int) lipgloss.Style {
			if col != 2 {
				return lipgloss.NewStyle()
			}
			if enabled {
				return enabledStyle
			}
			return disabledStyle
		}))
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, disabledStyle.Render("no records"))
	}
}
