package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/courtside/volleymetrics/internal/model"
	"github.com/courtside/volleymetrics/internal/scoring"
	"github.com/courtside/volleymetrics/internal/stats"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the store as JSON or a spreadsheet",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the store with a previously exported JSON document",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (stdout for json when omitted)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json|xlsx")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.Load()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(store, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal store: %w", err)
		}
		data = append(data, '\n')
		if exportOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
	case "xlsx":
		if exportOut == "" {
			return fmt.Errorf("--out is required for xlsx export")
		}
		if err := writeWorkbook(store, exportOut); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid format %q (want json or xlsx)", exportFormat)
	}

	if exportOut != "" {
		fmt.Fprintf(os.Stdout, "Wrote %s\n", exportOut)
	}
	return nil
}

// writeWorkbook lays the store out as three sheets: the player list, the
// match list with derived final scores, and the all-time stats table.
func writeWorkbook(store *model.Store, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Players"); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, "Players", 1, "ID", "Name"); err != nil {
		return err
	}
	for i, p := range store.Players {
		if err := writeRow(f, "Players", i+2, p.ID, p.Name); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet("Matches"); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := writeRow(f, "Matches", 1, "ID", "Date", "Title", "Opponent", "Our", "Opp"); err != nil {
		return err
	}
	for i, m := range store.Matches {
		rows := scoring.BuildTimeline(m, store.Rallies)
		var final scoring.Score
		if len(rows) > 0 {
			final = rows[len(rows)-1].ScoreAfter
		}
		if err := writeRow(f, "Matches", i+2, m.ID, m.Date, m.Title, m.Opponent, final.Our, final.Opp); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet("Stats"); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := writeRow(f, "Stats", 1, "Player", "Matches", "Attack", "Serve", "Block", "Reception", "Toss", "Errors"); err != nil {
		return err
	}
	for i, p := range stats.Collect(store) {
		row := []any{p.Name, p.Matches}
		for _, c := range []*stats.CategoryStats{&p.Attack, &p.Serve, &p.Block, &p.Reception, &p.Toss} {
			if eff, ok := c.Efficiency(); ok {
				row = append(row, eff)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, p.TotalErrors)
		if err := writeRow(f, "Stats", i+2, row...); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells ...any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name %s!%d,%d: %w", sheet, i+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	var store model.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	if store.Version != model.StoreVersion {
		return fmt.Errorf("unsupported store version %d (want %d)", store.Version, model.StoreVersion)
	}
	clean := model.Sanitize(store)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Save(&clean); err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d players, %d matches, %d rallies\n",
		len(clean.Players), len(clean.Matches), len(clean.Rallies))
	return nil
}
