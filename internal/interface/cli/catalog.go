package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerpath-hub/career-path-builder/internal/domain/catalog"
)

func newCatalogCmd() *cobra.Command {
	var careerID string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the career path catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			out := cmd.OutOrStdout()
			styled := isTerminal(out)

			if careerID == "" {
				headers := []string{"ID", "Title", "Skills"}
				rows := make([][]string, 0, cat.Len())
				for _, p := range cat.All() {
					rows = append(rows, []string{p.ID, p.Title, strconv.Itoa(p.SkillCount())})
				}
				fmt.Fprint(out, RenderTable(headers, rows, styled))
				return nil
			}

			path, ok := cat.Get(careerID)
			if !ok {
				return fmt.Errorf("unknown career path %q", careerID)
			}

			fmt.Fprintf(out, "%s\n%s\n\n", path.Title, path.Description)
			headers := []string{"#", "Skill", "Level", "Duration", "Resources"}
			rows := make([][]string, 0, len(path.Skills))
			for i, s := range path.Skills {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					s.Name,
					s.Level.String(),
					s.Duration,
					strings.Join(s.Resources, ", "),
				})
			}
			fmt.Fprint(out, RenderTable(headers, rows, styled))
			return nil
		},
	}

	cmd.Flags().StringVar(&careerID, "career", "", "show the roadmap of one career path")
	return cmd
}
