// Package report renders the formatted account listing. It consumes
// ListAll and Aggregate only and performs no validation of its own.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"account-records/internal/domain"
	"account-records/internal/service"
)

type Generator struct {
	accounts *service.AccountService
}

func NewGenerator(accounts *service.AccountService) *Generator {
	return &Generator{accounts: accounts}
}

// Write renders the tabular listing followed by a summary block. An
// empty store produces a short notice instead of an empty table.
func (g *Generator) Write(w io.Writer) error {
	accounts, err := g.accounts.ListAll()
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		_, err := fmt.Fprintln(w, "No accounts on file.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Acct\tLast Name\tFirst Name\tBalance")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.Number, a.LastName, a.FirstName, a.Balance.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary, err := g.accounts.Aggregate()
	if err != nil {
		return err
	}
	return writeSummary(w, summary)
}

func writeSummary(w io.Writer, s *domain.Summary) error {
	_, err := fmt.Fprintf(w, "\nAccounts: %d\nTotal balance: %s\nOverdrawn: %d\nAverage balance: %s\n",
		s.Count, s.TotalBalance.StringFixed(2), s.OverdrawnCount, s.AverageBalance.StringFixed(2))
	return err
}
