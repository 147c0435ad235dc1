package main

import (
	"fmt"
	"strings"

	"github.com/matsen/bibcheck/internal/schema"
	"github.com/spf13/cobra"
)

var rulesFile string

func init() {
	rulesCmd.Flags().StringVar(&rulesFile, "file", "", "Extra schema rules YAML file to merge before listing")
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the schema rules per entry type",
	RunE:  runRules,
}

// RuleListing describes one registry entry for command output.
type RuleListing struct {
	Tag        string   `json:"tag"`
	OutputType string   `json:"output_type"`
	Fields     []string `json:"fields"`
	Constraint string   `json:"constraint,omitempty"`
	Demoted    string   `json:"demoted,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	registry := schema.NewRegistry()
	if rulesFile != "" {
		if err := registry.LoadRuleFile(rulesFile); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	var listings []RuleListing
	for _, tag := range registry.Types() {
		rule, _ := registry.Lookup(tag, "")
		listings = append(listings, describe(tag, rule))

		// The article tag dispatches on the journal value; surface the
		// preprint variant too.
		if tag == "article" {
			if arxiv, ok := registry.Lookup(tag, "arXiv"); ok {
				listings = append(listings, describe("article (arXiv)", arxiv))
			}
		}
	}

	if humanOutput {
		for _, l := range listings {
			fmt.Printf("%s -> %s\n", l.Tag, l.OutputType)
			fmt.Printf("  fields: %s\n", strings.Join(l.Fields, ", "))
			if l.Constraint != "" {
				fmt.Printf("  constraint: %s\n", l.Constraint)
			}
			if l.Demoted != "" {
				fmt.Printf("  demoted: %s\n", l.Demoted)
			}
			fmt.Println()
		}
		return nil
	}

	return outputJSON(listings)
}

func describe(tag string, rule schema.Rule) RuleListing {
	l := RuleListing{
		Tag:        tag,
		OutputType: rule.Type,
		Fields:     rule.Fields,
	}
	if rule.Constraint != nil {
		l.Constraint = fmt.Sprintf("%s ~ %s", rule.Constraint.Field, rule.Constraint.Pattern)
	}
	if rule.Demote {
		l.Demoted = rule.DemoteReason
	}
	return l
}
