package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/attune/internal/config"
	"github.com/kalambet/attune/internal/intake"
	"github.com/kalambet/attune/internal/matching"
	"github.com/kalambet/attune/internal/storage"
)

// --- match ---

var matchCmd = &cobra.Command{
	Use:   "match <entity-id>",
	Short: "Rank matchable therapists for a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/match/" + url.PathEscape(args[0])
		if topK > 0 {
			path += fmt.Sprintf("?top_k=%d", topK)
		}

		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var result struct {
			EntityID string            `json:"entity_id"`
			Matches  []matching.Result `json:"matches"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Matches) == 0 {
			printWarning("no matchable therapists found")
			return nil
		}

		fmt.Fprintln(os.Stderr, colorize(colorBold, fmt.Sprintf("top matches for %s", result.EntityID)))
		for i, m := range result.Matches {
			name := m.Name
			if name == "" {
				name = m.TherapistID
			}
			printStep("%2d. %s — %.2f", i+1, name, m.Score)
			printStatus("issues", "%.2f", m.Breakdown.ClinicalIssues)
			printStatus("emotional style", "%.2f", m.Breakdown.EmotionalStyle)
			printStatus("depth", "%.2f", m.Breakdown.DepthOrientation)
			printStatus("pacing", "%.2f", m.Breakdown.Pacing)
			printStatus("boundaries", "%.2f", m.Breakdown.Boundaries)
			printStatus("communication", "%.2f", m.Breakdown.Communication)
		}
		return nil
	},
}

// --- therapists ---

var therapistsCmd = &cobra.Command{
	Use:   "therapists",
	Short: "List matchable therapists",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/therapists")
		if err != nil {
			return err
		}

		var result struct {
			Therapists []matching.TherapistRef `json:"therapists"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Therapists) == 0 {
			printWarning("no matchable therapists")
			return nil
		}
		for _, t := range result.Therapists {
			printStatus(t.ID, "%s", t.Name)
		}
		return nil
	},
}

// --- intake ---

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Import answer sets into the local store",
	Long: `Import answer sets into the local store.

Examples:
  attune intake --file ./client-42.json
  attune intake --dir ./exports
  attune intake --file ./bio.pdf --entity 7f3a... --question 288`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		dir, _ := cmd.Flags().GetString("dir")
		entity, _ := cmd.Flags().GetString("entity")
		question, _ := cmd.Flags().GetInt("question")

		if file == "" && dir == "" {
			return fmt.Errorf("one of --file or --dir is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		importer := intake.New(store)

		switch {
		case dir != "":
			n, err := importer.ImportDir(context.Background(), dir)
			if err != nil {
				return err
			}
			printSuccess("imported %d answer files from %s", n, dir)
		case strings.HasSuffix(strings.ToLower(file), ".pdf"):
			if entity == "" || question == 0 {
				return fmt.Errorf("--entity and --question are required for PDF import")
			}
			if err := importer.ImportPDF(file, entity, question); err != nil {
				return err
			}
			printSuccess("imported %s as answer %d for %s", file, question, entity)
		default:
			entityID, n, err := importer.ImportFile(file)
			if err != nil {
				return err
			}
			printSuccess("imported %d answers for entity %s", n, entityID)
		}
		return nil
	},
}

// --- vocab ---

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show per-category survey option vocabularies",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/vocabulary")
		if err != nil {
			return err
		}

		var result struct {
			ByCategory map[string][]string `json:"by_category"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		cats := make([]string, 0, len(result.ByCategory))
		for c := range result.ByCategory {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			printStatus(c, "%s", strings.Join(result.ByCategory[c], ", "))
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage attune configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, k := range config.ShowAll(cfg) {
			printStatus(k.Key, "%s (env %s)", k.Value, k.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetKey(args[0], args[1]); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}
		printSuccess("set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	matchCmd.Flags().Int("top", 0, "maximum number of matches to return")

	intakeCmd.Flags().String("file", "", "answer file to import (.json or .pdf)")
	intakeCmd.Flags().String("dir", "", "directory of .json answer files to import")
	intakeCmd.Flags().String("entity", "", "entity ID for PDF imports")
	intakeCmd.Flags().Int("question", 0, "question ID for PDF imports")

	configCmd.AddCommand(configShowCmd, configSetCmd)
}
