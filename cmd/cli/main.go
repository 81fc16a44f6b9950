package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/pawnledger/internal/adapter/http/dto"
)

var (
	baseURL string
	timeout time.Duration
	rawJSON bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pawnledger-cli",
		Short:         "PawnLedger CLI tool",
		Long:          `A command line interface for interacting with the PawnLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the PawnLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&rawJSON, "json", false, "Print the raw response data as JSON")

	rootCmd.AddCommand(summaryCmd(), outstandingCmd(), pricesCmd(), customersCmd(), loansCmd())
	return rootCmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the business dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var d dto.DashboardResponse
			raw, err := apiCall(http.MethodGet, "/api/dashboard", &d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rawJSON {
				return printJSON(out, raw)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "To collect\t%s\n", d.Udhari.TotalToCollect.Rupees)
			fmt.Fprintf(tw, "To pay\t%s\n", d.Udhari.TotalToPay.Rupees)
			fmt.Fprintf(tw, "Net position\t%s\n", d.Udhari.NetPosition.Rupees)
			fmt.Fprintf(tw, "Active gold loans\t%d (%d overdue)\n", d.GoldLoans.ActiveCount, d.GoldLoans.OverdueCount)
			fmt.Fprintf(tw, "Loan principal out\t%s\n", d.GoldLoans.OutstandingPrincipal.Rupees)
			fmt.Fprintf(tw, "Pending interest\t%s\n", d.GoldLoans.PendingInterest.Rupees)
			fmt.Fprintf(tw, "Expenses pending\t%s\n", d.Expenses.PendingNet.Rupees)
			return tw.Flush()
		},
	}
}

func outstandingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outstanding",
		Short: "Customer-wise outstanding udhari",
	}

	side := func(use, short, path string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var report dto.OutstandingReportResponse
				raw, err := apiCall(http.MethodGet, path, &report)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if rawJSON {
					return printJSON(out, raw)
				}

				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CUSTOMER\tNAME\tENTRIES\tOUTSTANDING")
				for _, row := range report.CustomerWise {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", row.CustomerID, truncate(row.CustomerName, 24), row.EntryCount, row.OutstandingRupees)
				}
				fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", report.TotalRupees)
				return tw.Flush()
			},
		}
	}

	cmd.AddCommand(
		side("collect", "Amounts customers owe us", "/api/udhari/outstanding-to-collect"),
		side("pay", "Amounts we owe customers", "/api/udhari/outstanding-to-pay"),
	)
	return cmd
}

func pricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Show current gold and silver prices per gram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var q dto.PriceQuoteResponse
			raw, err := apiCall(http.MethodGet, "/api/prices/current", &q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rawJSON {
				return printJSON(out, raw)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METAL\tPURITY\tPER GRAM")
			for _, r := range q.Gold {
				fmt.Fprintf(tw, "gold\t%s\t%s\n", r.Purity, r.PerGramRupees)
			}
			for _, r := range q.Silver {
				fmt.Fprintf(tw, "silver\t%s\t%s\n", r.Purity, r.PerGramRupees)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "source: %s, updated %s\n", q.Source, q.LastUpdated.Format(time.RFC3339))
			return nil
		},
	}
}

func customersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer operations",
	}

	var (
		search string
		status string
		page   int
		limit  int
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if search != "" {
				q.Set("search", search)
			}
			if status != "" {
				q.Set("status", status)
			}
			q.Set("page", strconv.Itoa(page))
			q.Set("limit", strconv.Itoa(limit))

			var p dto.CustomerPageResponse
			raw, err := apiCall(http.MethodGet, "/api/customers?"+q.Encode(), &p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rawJSON {
				return printJSON(out, raw)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPHONE\tSTATUS")
			for _, c := range p.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, truncate(c.Name, 24), c.Phone, c.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "page %d, %d of %d customers\n", p.Page, len(p.Items), p.Total)
			return nil
		},
	}
	listCmd.Flags().StringVar(&search, "search", "", "Filter by name, phone or email")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status (active|inactive)")
	listCmd.Flags().IntVar(&page, "page", 1, "Page number")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")

	cmd.AddCommand(listCmd)
	return cmd
}

func loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Gold loan operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Recompute and repair stored gold loan statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationReportResponse
			raw, err := apiCall(http.MethodPost, "/api/gold-loans/reconcile", &report)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rawJSON {
				return printJSON(out, raw)
			}

			fmt.Fprintf(out, "Checked %d loans, repaired %d\n", report.TotalLoans, report.RepairedLoans)
			for _, d := range report.Discrepancies {
				fmt.Fprintf(out, "  %s: %s -> %s\n", d.LoanID, d.StoredStatus, d.ComputedStatus)
			}
			return nil
		},
	})
	return cmd
}

// apiCall performs a request and decodes the envelope's data into dst. The raw data is
// returned for --json output.
func apiCall(method, path string, dst any) (json.RawMessage, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}
	if !env.Success || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, env.Error)
	}

	if err := json.Unmarshal(env.Data, dst); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return env.Data, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
