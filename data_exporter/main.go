package main

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/alecthomas/kong"
	_ "github.com/go-sql-driver/mysql"
	"github.com/kataras/golog"
	"github.com/xor-shift/prng/common"
)

const selectQuery = "SELECT draw_order, kind, min_value, max_value, value, insert_time FROM draws WHERE stream_state=? ORDER BY insert_time, draw_order"

type Row struct {
	DrawOrder  int       `json:"order"`
	Kind       string    `json:"kind"`
	Min        *int32    `json:"min,omitempty"`
	Max        *int32    `json:"max,omitempty"`
	Value      string    `json:"value"`
	InsertTime time.Time `json:"insertTime"`
}

type args struct {
	State              string `name:"state" short:"s" help:"hex stream state to export" required:""`
	Out                string `name:"out" short:"o" default:"stream_{{.Prefix}}.csv" help:"File to output to (templated)"`
	Format             string `name:"format" short:"f" enum:"csv,json" default:"csv" help:"Data format"`
	ExportColumnTitles bool   `name:"export_column_titles" negatable:"" default:"true" help:"(applicable only to CSV outputs) whether to include column titles for CSV exports"`
}

var cfg common.Config

func init() {
	var err error

	if cfg, err = common.LoadConfig(); err != nil {
		golog.Fatalf("loading config failed: %s", err)
	}
}

func outFileName(pattern, state string) (string, error) {
	tmpl, err := template.New("").Parse(pattern)
	if err != nil {
		return "", fmt.Errorf("error while creating the output filename template: %w", err)
	}

	prefix := state
	if len(prefix) > 16 {
		prefix = prefix[:16]
	}

	buf := bytes.Buffer{}
	if err = tmpl.Execute(&buf, struct{ State, Prefix string }{state, prefix}); err != nil {
		return "", fmt.Errorf("error while executing the output filename template: %w", err)
	}

	return buf.String(), nil
}

func readRows(db *sql.DB, state string) ([]Row, error) {
	sqlRows, err := db.Query(selectQuery, state)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draws of stream %s: %w", state, err)
	}
	defer sqlRows.Close()

	var rows []Row
	for i := 0; sqlRows.Next(); i++ {
		var row Row
		var lo, hi sql.NullInt32

		if err = sqlRows.Scan(&row.DrawOrder, &row.Kind, &lo, &hi, &row.Value, &row.InsertTime); err != nil {
			return nil, fmt.Errorf("error while reading row %d of stream %s: %w", i, state, err)
		}

		if lo.Valid && hi.Valid {
			row.Min, row.Max = &lo.Int32, &hi.Int32
		}

		rows = append(rows, row)
	}

	return rows, sqlRows.Err()
}

func writeCSV(w io.Writer, rows []Row, titles bool) error {
	csvWriter := csv.NewWriter(w)

	if titles {
		_ = csvWriter.Write([]string{"Draw Order", "Kind", "Min", "Max", "Value", "Insert Time"})
	}

	for _, row := range rows {
		_ = csvWriter.Write([]string{
			fmt.Sprintf("%d", row.DrawOrder),
			row.Kind,
			formatBound(row.Min),
			formatBound(row.Max),
			row.Value,
			fmt.Sprintf("%d", row.InsertTime.Unix()),
		})
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func formatBound(bound *int32) string {
	if bound == nil {
		return ""
	}

	return fmt.Sprintf("%d", *bound)
}

func writeJSON(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func main() {
	var a args
	_ = kong.Parse(&a, kong.Description("Export the draws recorded for one stream."))

	db, err := sql.Open("mysql", cfg.MySQLConfig().FormatDSN())
	if err != nil {
		golog.Fatalf("opening the database failed: %s", err)
	}

	rows, err := readRows(db, a.State)
	_ = db.Close()
	if err != nil {
		golog.Fatal(err)
	}

	name, err := outFileName(a.Out, a.State)
	if err != nil {
		golog.Fatal(err)
	}

	outFile, err := os.Create(name)
	if err != nil {
		golog.Fatalf("error while creating the output file \"%s\": %s", name, err)
	}
	defer outFile.Close()

	if a.Format == "json" {
		err = writeJSON(outFile, rows)
	} else {
		err = writeCSV(outFile, rows, a.ExportColumnTitles)
	}

	if err != nil {
		golog.Fatalf("error while writing %s: %s", name, err)
	}

	golog.Infof("exported %d draws to %s", len(rows), name)
}
