package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show players ranked by hearts, then wins, then name",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Get(cmd.Context(), "/api/v1/leaderboard", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ladder statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show completed duels, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DuelList

			if err := client.Get(cmd.Context(), "/api/v1/history", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newDashboardCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show stats, the active duel and the top of the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var dash Dashboard

			if err := client.Get(cmd.Context(), "/api/v1/dashboard", &dash); err != nil {
				return err
			}

			if top > 0 && len(dash.Leaderboard) > top {
				dash.Leaderboard = dash.Leaderboard[:top]
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(dash)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "Number of leaderboard rows to show (0 for all)")

	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every player and duel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes the whole ladder; pass --yes to confirm")
			}

			if err := client.Post(cmd.Context(), "/api/v1/reset", nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Ladder reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
