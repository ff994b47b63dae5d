// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-digest/internal/keywords"
	"github.com/pdiddy/section-digest/internal/persona"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [task...]",
	Short: "Print the keywords derived from a task",
	Long: `Keywords prints, one per line, the keyword list used for scoring. The
task is taken from the arguments, or from persona.json in the input
directory when no arguments are given. Duplicates are kept because each
occurrence contributes to page scores.`,
	RunE: runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	task := strings.Join(args, " ")
	if len(args) == 0 {
		p, err := persona.Load(cfg.InputDir)
		if err != nil {
			return err
		}
		task = p.JobToBeDone.Task
	}

	w := cmd.OutOrStdout()
	for _, kw := range keywords.Derive(task, keywords.Options{Supplemental: cfg.Keywords.Supplemental}) {
		fmt.Fprintln(w, kw)
	}
	return nil
}
