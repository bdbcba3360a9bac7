package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/model"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand())
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	var repoDir string
	var statement string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the chart of accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			accts := r.index.All()
			if statement != "" {
				st := model.StatementType(statement)
				if !st.Valid() {
					return fmt.Errorf("unknown statement type %q", statement)
				}
				accts = r.index.ByStatement(st)
			}
			return printAccounts(cmd.OutOrStdout(), accts)
		},
	}

	addRepoFlag(cmd, &repoDir)
	cmd.Flags().StringVar(&statement, "statement", "", "only balance_sheet or income_statement accounts")
	return cmd
}

func printAccounts(w io.Writer, accts []model.Account) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tACCOUNT\tSIDE\tSTATEMENT")
	for _, a := range accts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.Order, a.Name, a.Side, a.Statement)
	}
	fmt.Fprintf(tw, "\n%d accounts\n", len(accts))
	return tw.Flush()
}

