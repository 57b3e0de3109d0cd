package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/morshidulrahman/testomg-babe/internal/pkg/apiclient"
)

const commandTimeout = 30 * time.Second

type clientFactory func() (*apiclient.Client, error)

func accountCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show plan and billing details",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			account, err := client.GetAccount(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:    %s\n", account.Email)
			fmt.Fprintf(out, "Plan:     %s\n", account.Plan)
			if account.CurrentPeriod == nil {
				fmt.Fprintln(out, "Period:   none")
				return nil
			}
			p := account.CurrentPeriod
			fmt.Fprintf(out, "Period:   %s (%s)\n", p.Period, p.Status)
			fmt.Fprintf(out, "Renews:   %s\n", p.EndDate.Format("January 2, 2006"))
			return nil
		},
	}
}

func transactionsCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "transactions",
		Short: "List your transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			rows, err := client.GetTransactions(ctx)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions yet")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTRANSACTION\tPACKAGE\tMETHOD\tPRICE\tSTATUS")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.OrderDate, r.TransactionID, r.Package, r.PaymentMethod, r.Price, r.Status)
			}
			return w.Flush()
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a session token read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := tokenSource()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.ErrOrStderr(), "Paste session token: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return err
			}
			token := strings.TrimSpace(line)
			if token == "" {
				return fmt.Errorf("empty token")
			}
			if err := tokens.Save(token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", tokens.Path)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := tokenSource()
			if err != nil {
				return err
			}
			if err := tokens.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

