package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqltutor/internal/llm"
	"github.com/abhisek/sqltutor/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged AI requests and their cost",
}

// withEventRepo opens the state database and hands its event log to fn.
func withEventRepo(cmd *cobra.Command, fn func(repo store.EventRepo) error) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}
	return fn(e.store.EventRepo())
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent AI requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		session, _ := cmd.Flags().GetString("session")

		return withEventRepo(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{
				Limit:     limit,
				Purpose:   purpose,
				SessionID: session,
			})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No AI requests recorded.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-12s  %-8s  %-28s  %6s  %6s  %7s  %s\n",
				"ID", "Timestamp", "Purpose", "Session", "Model", "In", "Out", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 108))

			for _, ev := range events {
				ok := "✓"
				if !ev.Success {
					ok = "✗"
				}
				fmt.Printf("%-5d  %-19s  %-12s  %-8s  %-28s  %6d  %6d  %7d  %s\n",
					ev.ID,
					ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(ev.Purpose, 12),
					truncate(ev.SessionID, 8),
					truncate(ev.Model, 28),
					ev.InputTokens,
					ev.OutputTokens,
					ev.LatencyMs,
					ok,
				)
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one AI request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withEventRepo(cmd, func(repo store.EventRepo) error {
			ev, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if ev == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("ID:        %d\n", ev.ID)
			fmt.Printf("Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Session:   %s\n", orDash(ev.SessionID))
			fmt.Printf("Provider:  %s\n", ev.Provider)
			fmt.Printf("Model:     %s\n", ev.Model)
			fmt.Printf("Purpose:   %s\n", ev.Purpose)
			fmt.Printf("Tokens:    %d in / %d out\n", ev.InputTokens, ev.OutputTokens)
			if c := llm.LookupCost(ev.Model); c != nil {
				fmt.Printf("Cost:      %s\n", formatCost(c.Cost(ev.InputTokens, ev.OutputTokens)))
			}
			fmt.Printf("Latency:   %dms\n", ev.LatencyMs)
			fmt.Printf("Success:   %v\n", ev.Success)
			if ev.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", ev.ErrorMessage)
			}

			printSection("REQUEST", ev.RequestBody)
			printSection("RESPONSE", ev.ResponseBody)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEventRepo(cmd, func(repo store.EventRepo) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No AI usage recorded yet.")
				return nil
			}

			rule := strings.Repeat("─", 72)
			fmt.Println("Usage by Purpose")
			fmt.Println(rule)
			fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
				"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
			fmt.Println(rule)

			var calls, in, out int
			for _, u := range byPurpose {
				fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
					u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
				calls += u.Calls
				in += u.InputTokens
				out += u.OutputTokens
			}
			fmt.Println(rule)
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(byModel) == 0 {
				return nil
			}

			fmt.Println()
			fmt.Println("Estimated Cost (USD)")
			fmt.Println(rule)
			fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
			fmt.Println(rule)

			var total float64
			var unknown []string
			for _, u := range byModel {
				cost := "?"
				if c := llm.LookupCost(u.Model); c != nil {
					usd := c.Cost(u.InputTokens, u.OutputTokens)
					total += usd
					cost = formatCost(usd)
				} else {
					unknown = append(unknown, u.Model)
				}
				fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
					truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
			}

			fmt.Println(rule)
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
			if len(unknown) > 0 {
				fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		})
	},
}

func printSection(title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(title)
	fmt.Println(sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Println(body)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (hint, feedback, exercise-gen)")
	llmListCmd.Flags().StringP("session", "s", "", "Filter by practice session id")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
