package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"formd/pkg/types"
)

// submissions: list stored contact submissions, newest first.
func submissionsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List stored contact submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			path := "/api/submissions"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}
			var resp types.SubmissionsResponse
			if err := apiGet(ctx, path, &resp); err != nil {
				return err
			}
			if len(resp.Submissions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no submissions")
				return nil
			}
			for _, s := range resp.Submissions {
				line := fmt.Sprintf("#%d  %s  %s <%s>", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Name, s.Email)
				if s.Subject != "" {
					line += "  " + s.Subject
				}
				if n := len(s.Attachments); n > 0 {
					line += fmt.Sprintf("  [%d file(s)]", n)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to list (0 = server default)")
	return cmd
}
