package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect and validate document templates",
}

var templateValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Statically check a template for unknown placeholders",
	Long: `Checks a template source without rendering it. With a file argument the
file is read; without one, the custom template from the config is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var source string
		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading template: %w", err)
			}
			source = string(data)
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Template.Custom == "" {
				return fmt.Errorf("no template file given and no custom template configured")
			}
			source = cfg.Template.Custom
		}

		result := template.Validate(source)
		if result.Valid {
			okColor.Println("Template is valid.")
			return nil
		}
		failColor.Printf("Template has %d problem(s):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
		return fmt.Errorf("template validation failed")
	},
}

var templatePlaceholdersCmd = &cobra.Command{
	Use:   "placeholders",
	Short: "List supported template placeholders",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("{{" + strings.Join(template.Placeholders(), "}}, {{") + "}}")
	},
}

func init() {
	templateCmd.AddCommand(templateValidateCmd)
	templateCmd.AddCommand(templatePlaceholdersCmd)
}
