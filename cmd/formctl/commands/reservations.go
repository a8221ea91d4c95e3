package commands

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"formd/pkg/types"
)

// reservations: list confirmed reservations for a day.
func reservationsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List confirmed reservations for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			path := "/api/reservations"
			if date != "" {
				path += "?date=" + url.QueryEscape(date)
			}
			var resp types.ReservationsResponse
			if err := apiGet(ctx, path, &resp); err != nil {
				return err
			}
			if len(resp.Reservations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no reservations")
				return nil
			}
			for _, r := range resp.Reservations {
				fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  %d名  %s\n",
					r.ID, r.ReservedAt.Format("2006-01-02 15:04"), r.NumPeople, r.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to list in YYYY-MM-DD form (default today)")
	return cmd
}
