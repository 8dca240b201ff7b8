package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/seoscan/internal/model"
)

// NewRulesCmd creates the rules command.
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List every rule seoscan checks",
		Long: `Rules prints the rule catalog: id, category, severity and how to fix.
Use the ids with --disable-rule, disabledRules and exclusions.

Examples:
  # All rules
  seoscan rules

  # Only sitemap rules, as JSON
  seoscan rules --category sitemap --json`,
		Args: cobra.NoArgs,
		RunE: runRulesCmd,
	}

	cmd.Flags().StringP("category", "c", "", "Only list rules of this category")
	cmd.Flags().BoolP("json", "j", false, "Output the catalog as JSON")

	return cmd
}

func runRulesCmd(cmd *cobra.Command, _ []string) error {
	category, err := cmd.Flags().GetString("category")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	rules := filterRules(model.Rules(), category)
	if category != "" && len(rules) == 0 {
		return fmt.Errorf("no rules in category %q", category)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rules)
	}

	title := cases.Title(language.English)
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Rule", "Category", "Severity", "Name"})
	for _, r := range rules {
		t.AppendRow(table.Row{r.ID, title.String(r.Category), r.Severity, r.Name})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(rules)})
	t.Render()
	return nil
}

func filterRules(rules []model.RuleInfo, category string) []model.RuleInfo {
	if category == "" {
		return rules
	}
	filtered := make([]model.RuleInfo, 0)
	for _, r := range rules {
		if r.Category == category {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
