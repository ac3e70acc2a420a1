package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/spf13/cobra"
)

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List canonical fields with their kinds and synonyms",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		t, err := schema.Load(cfg.Mapping.FieldsFile)
		if err != nil {
			return err
		}

		table := tablewriter.NewTable(os.Stdout)
		table.Header("Field", "Kind", "Bonus", "Synonyms")
		for _, e := range t.Entries() {
			if err := table.Append(
				string(e.Field),
				string(e.Kind),
				strconv.Itoa(e.Bonus),
				strings.Join(e.Synonyms, ", "),
			); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
