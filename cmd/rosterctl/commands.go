package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ecgf-team/roster-api/internal/app/members"
	"github.com/ecgf-team/roster-api/internal/app/transfer"
	"github.com/ecgf-team/roster-api/internal/domain"
)

func newListCmd(c *cli) *cobra.Command {
	var q struct {
		search, level, archetype, archetypeType string
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members ordered by level and years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			query := members.Query{
				SearchTerm:    q.search,
				Level:         domain.Level(strings.ToUpper(q.level)),
				ArchetypeType: domain.ArchetypeMatch(q.archetypeType),
			}
			if q.archetype != "" {
				if query.Archetype, err = domain.ParseArchetype(q.archetype); err != nil {
					return err
				}
			}
			ms, err := app.Members.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(ms))
			for _, m := range ms {
				rows = append(rows, []string{string(m.ID), m.Name, string(m.Level), strconv.Itoa(m.Years), string(m.PrimaryArchetype), string(m.SecondaryArchetype)})
			}
			return writeTable(cmd.OutOrStdout(), []string{"ID", "NAME", "LEVEL", "YEARS", "PRIMARY", "SECONDARY"}, rows)
		},
	}
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "name search term")
	cmd.Flags().StringVar(&q.level, "level", "", "only this level (L1-L5)")
	cmd.Flags().StringVar(&q.archetype, "archetype", "", "archetype label or slug ("+archetypeSlugs()+")")
	cmd.Flags().StringVar(&q.archetypeType, "archetype-type", "", "primary, secondary or both")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the roster as csv, json or xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ms, err := app.Members.List(cmd.Context())
			if err != nil {
				return err
			}
			data, err := transfer.Encode(f, ms)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d members to %s\n", len(ms), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "csv, json or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	var (
		format       string
		keepAll      bool
		duplicateKey string
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add members from a csv, json or xlsx file",
		Long: `Import reads FILE and adds its members to the roster.

Every row is validated first; nothing is stored if any row is invalid.
Members whose name (or id, with --duplicate-key=id) already exists are skipped
unless --keep-duplicates is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(path), ".")
			}
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := members.MergeOptions{SkipDuplicates: !keepAll, Key: members.DuplicateKey(duplicateKey)}
			if opts.Key != members.DuplicateByName && opts.Key != members.DuplicateByID {
				return fmt.Errorf("--duplicate-key must be name or id, got %q", duplicateKey)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			cands, err := transfer.Parse(f, data)
			if err != nil {
				return err
			}

			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Members.Import(cmd.Context(), cands, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d, skipped %d\n", len(res.Added), res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv, json or xlsx (default from the file extension)")
	cmd.Flags().BoolVar(&keepAll, "keep-duplicates", false, "add members even when they already exist")
	cmd.Flags().StringVar(&duplicateKey, "duplicate-key", string(members.DuplicateByName), "name or id")
	return cmd
}

func newStatsCmd(c *cli) *cobra.Command {
	var includeSecondary bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print roster statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			st, err := app.Members.Stats(cmd.Context(), includeSecondary)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
	cmd.Flags().BoolVar(&includeSecondary, "include-secondary", false, "count secondary archetypes too")
	return cmd
}

func newMatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Pair every member with their best mentor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			matches, err := app.Growth.Matches(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, []string{
					m.Mentee.Name, string(m.Mentee.Level),
					m.Mentor.Name, string(m.Mentor.Level),
				})
			}
			return writeTable(cmd.OutOrStdout(), []string{"MENTEE", "LEVEL", "MENTOR", "LEVEL"}, rows)
		},
	}
}

func newLevelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level YEARS",
		Short: "Show the level that matches a number of years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			years, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("years must be an integer: %q", args[0])
			}
			level := domain.LevelForYears(years)
			rng, err := domain.LevelRange(level)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s years)\n", level, rng)
			return nil
		},
	}
}

func archetypeSlugs() string {
	slugs := make([]string, len(domain.ValidArchetypes))
	for i, a := range domain.ValidArchetypes {
		slugs[i] = a.Slug()
	}
	return strings.Join(slugs, ", ")
}
