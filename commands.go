package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/surftrip-planner/server/internal/agent/graph/conversations"
	"github.com/surftrip-planner/server/internal/agent/repo"
)

var planCmd = &cobra.Command{
	Use:     "plan [request]",
	Short:   "Plan a trip from a single request",
	Example: `  surfplanner plan "I want to surf in Bayonne this Friday, leaving from Paris after my meetings"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		serveMetrics(ctx, cfg.MetricsAddr, a.metrics)

		markdown, _ := cmd.Flags().GetBool("markdown")
		verbose, _ := cmd.Flags().GetBool("verbose")
		render := newPrinter(markdown)

		session := conversations.NewSession(a.runner)
		reply, err := session.Send(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render(reply))

		if verbose {
			s := session.State()
			fmt.Fprintf(cmd.ErrOrStderr(), "run: %s\ntrip: %s\nrounds: %d\ncost: $%.6f\n",
				s.RunID, s.TripDetails.JSON(), s.PlanningRounds, s.TotalCostUSD)
		}
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Hold a multi-turn planning conversation",
	Long:  "Reads one message per line. /reset starts a new conversation, /quit exits.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		serveMetrics(ctx, cfg.MetricsAddr, a.metrics)

		markdown, _ := cmd.Flags().GetBool("markdown")
		render := newPrinter(markdown)
		session := conversations.NewSession(a.runner)
		out := cmd.OutOrStdout()

		scanner := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(out, "> ")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "/quit", "/exit":
				return nil
			case "/reset":
				session.Reset()
				fmt.Fprintln(out, "Conversation cleared.")
			case "":
			default:
				reply, err := session.Send(ctx, line)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				} else {
					fmt.Fprintln(out, render(reply))
				}
			}
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprint(out, "> ")
		}
		return scanner.Err()
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the tool result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [tool...]",
	Short: "Drop cached results of the given tools (all tools when none given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.Redis.Enabled() {
			return fmt.Errorf("REDIS_URL is not set, there is no cache to clear")
		}
		ctx := cmd.Context()
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		defer rdb.Close()

		names := args
		if len(names) == 0 {
			names = []string{"*"}
		}
		cache := repo.NewRedisToolCache(rdb, 0)
		for _, name := range names {
			n, err := cache.Invalidate(ctx, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries removed\n", name, n)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().BoolP("verbose", "v", false, "Print trip details and cost after the reply")

	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(planCmd, chatCmd, cacheCmd)
}
