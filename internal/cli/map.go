package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ppiankov/profilemap/internal/mapper"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/pipeline"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/spf13/cobra"
)

var (
	mapDeep    bool
	mapDepth   int
	mapExplain bool
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <file.json>",
	Short: "Map an arbitrary JSON object onto the canonical schema",
	Long: `Map runs field matching, value cleaning and projection over any JSON
object, without extraction. Use - to read from stdin.

Example:
  profilemap map profile.json
  profilemap map combined.json --deep --depth 4
  profilemap map profile.json --explain`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().BoolVar(&mapDeep, "deep", false, "recurse into nested objects")
	mapCmd.Flags().IntVar(&mapDepth, "depth", 0, "nesting limit for --deep (default: mapping.max_depth)")
	mapCmd.Flags().BoolVar(&mapExplain, "explain", false, "print which raw key fed each top-level field")
	mapCmd.Flags().StringVarP(&outPath, "out", "o", "", "output JSON path (default: stdout)")
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := schema.Load(cfg.Mapping.FieldsFile)
	if err != nil {
		return err
	}

	bag, err := readObject(args[0])
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, pipeline.WithTable(table))
	if mapExplain {
		_, selections := p.Projector().Explain(bag)
		if err := renderSelections(os.Stderr, selections); err != nil {
			return err
		}
	}

	return writeJSON(outPath, p.Map(bag, mapDeep, mapDepth))
}

// readObject reads a JSON object from path, or stdin for "-"
func readObject(path string) (*model.Bag, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	parsed, err := model.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	bag, ok := parsed.(*model.Bag)
	if !ok {
		return nil, fmt.Errorf("parse input: expected a JSON object")
	}
	return bag, nil
}

func renderSelections(w io.Writer, selections []mapper.Selection) error {
	table := tablewriter.NewTable(w)
	table.Header("Field", "Raw key", "Score", "Value")
	for _, s := range selections {
		if err := table.Append(
			string(s.Candidate.Field),
			s.Candidate.RawKey,
			strconv.Itoa(s.Candidate.Score),
			displayValue(s.Value),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func displayValue(v any) string {
	switch t := v.(type) {
	case []string:
		return strings.Join(t, "; ")
	default:
		return fmt.Sprint(t)
	}
}
