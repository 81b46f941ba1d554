package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newDuelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duel",
		Short: "Duel commands",
	}

	cmd.AddCommand(newDuelCreateCmd())
	cmd.AddCommand(newDuelRandomCmd())
	cmd.AddCommand(newDuelCompleteCmd())
	cmd.AddCommand(newDuelGetCmd())
	cmd.AddCommand(newDuelListCmd())
	cmd.AddCommand(newDuelActiveCmd())

	return cmd
}

func duelPath(id string) string {
	return "/api/v1/duels/" + pathEscape(id)
}

func newDuelCreateCmd() *cobra.Command {
	var p1Bet, p2Bet int
	var mode string

	cmd := &cobra.Command{
		Use:   "create <player1> <player2>",
		Short: "Create a pending duel between two players",
		Long: `Create a pending duel. Each player wagers between 1 and 5 hearts and
no more than they currently hold. In blind mode the bets stay hidden until
the duel is completed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"player1":  args[0],
				"player2":  args[1],
				"p1_bet":   p1Bet,
				"p2_bet":   p2Bet,
				"bet_mode": mode,
			}
			var result Duel

			if err := client.Post(cmd.Context(), "/api/v1/duels", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&p1Bet, "p1-bet", 1, "Hearts wagered by player1")
	cmd.Flags().IntVar(&p2Bet, "p2-bet", 1, "Hearts wagered by player2")
	cmd.Flags().StringVar(&mode, "mode", "agreed", "Bet mode: agreed, blind")

	return cmd
}

func newDuelRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Pair two random eligible players",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Duel

			if err := client.Post(cmd.Context(), "/api/v1/duels/random", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newDuelCompleteCmd() *cobra.Command {
	var winner string

	cmd := &cobra.Command{
		Use:   "complete <duel-id>",
		Short: "Record the winner of a pending duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"winner": winner}
			var result Duel

			if err := client.Post(cmd.Context(), duelPath(args[0])+"/complete", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "Winning player id (required)")
	_ = cmd.MarkFlagRequired("winner")

	return cmd
}

func newDuelGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <duel-id>",
		Short: "Show a duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Duel

			if err := client.Get(cmd.Context(), duelPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newDuelListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List duels, pending first, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/duels"
			if status != "" {
				path += "?" + url.Values{"status": {status}}.Encode()
			}
			var result DuelList

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: pending, complete")

	return cmd
}

func newDuelActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the most recent pending duel",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ActiveDuel

			if err := client.Get(cmd.Context(), "/api/v1/duels/active", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
