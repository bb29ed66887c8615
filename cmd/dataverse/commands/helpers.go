// Package commands implements the dataverse CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/dynamics-go/dataverse/pkg/dataverse"
	"github.com/dynamics-go/dataverse/pkg/dvclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// buildClient assembles a client from the flag and environment
// configuration. A missing client secret is prompted for on the terminal.
func buildClient() (dataverse.Client, error) {
	secret := viper.GetString("client_secret")
	if secret == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Client secret: ")

		secretBytes, err := term.ReadPassword(int(syscall.Stdin))

		fmt.Fprintln(os.Stderr)

		if err != nil {
			return nil, fmt.Errorf("reading client secret: %w", err)
		}

		secret = string(secretBytes)
	}

	config := &dataverse.Config{
		APIURL:       viper.GetString("api_url"),
		TokenURL:     viper.GetString("token_url"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: secret,
		Resource:     viper.GetString("resource"),
		CacheToken:   true,
		Debug:        viper.GetBool("debug"),
	}

	if scope := viper.GetString("scope"); scope != "" {
		for _, part := range strings.Split(scope, ",") {
			if part = strings.TrimSpace(part); part != "" {
				config.Scope = append(config.Scope, part)
			}
		}
	}

	return dvclient.New(config)
}

// outputRows renders rows in the configured output format.
func outputRows(rows []dataverse.Row) error {
	switch viper.GetString("output") {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(rows)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(rows)
	default:
		if len(rows) == 0 {
			fmt.Println("No rows found")

			return nil
		}

		return renderTable(rows)
	}
}

// renderTable prints rows as a table over the union of their columns,
// annotation columns excluded.
func renderTable(rows []dataverse.Row) error {
	columnSet := map[string]struct{}{}

	for _, row := range rows {
		for column := range row {
			if strings.Contains(column, "@odata") {
				continue
			}

			columnSet[column] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for column := range columnSet {
		columns = append(columns, column)
	}

	sort.Strings(columns)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(toHeaderRow(columns)...)

	for _, row := range rows {
		cells := make([]any, 0, len(columns))
		for _, column := range columns {
			cells = append(cells, dataverse.AsString(row[column], ""))
		}

		_ = table.Append(cells...)
	}

	_ = table.Render()

	return nil
}

func toHeaderRow(columns []string) []any {
	header := make([]any, 0, len(columns))
	for _, column := range columns {
		header = append(header, column)
	}

	return header
}

// parseRowData decodes a JSON object argument into a row.
func parseRowData(raw string) (dataverse.Row, error) {
	var row dataverse.Row
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return nil, fmt.Errorf("parsing row data: %w", err)
	}

	return row, nil
}
