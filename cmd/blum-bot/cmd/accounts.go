package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"jordanella.com/blum-go/internal/accounts"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "manage account files",
}

var accountsList = &cobra.Command{
	Use:   "list",
	Short: "list valid accounts",
	RunE:  runAccountsList,
}

var accountsAdd = &cobra.Command{
	Use:   "add",
	Short: "write a new account file",
	RunE:  runAccountsAdd,
}

var (
	accountName     string
	accountToken    string
	accountPlatform string
	accountMin      uint32
	accountMax      uint32
	accountProxy    string
)

func init() {
	accountsAdd.Flags().StringVarP(&accountName, "name", "n", "", "file name; .yaml is added when no extension is given")
	accountsAdd.Flags().StringVarP(&accountToken, "token", "t", "", "authorization token")
	accountsAdd.Flags().StringVarP(&accountPlatform, "platform", "p", accounts.DefaultPlatform.String(), "iOS15, iOS16, Android, Windows or MacOS")
	accountsAdd.Flags().Uint32Var(&accountMin, "min", accounts.DefaultMinScore, "minimum claimed score")
	accountsAdd.Flags().Uint32Var(&accountMax, "max", accounts.DefaultMaxScore, "maximum claimed score")
	accountsAdd.Flags().StringVar(&accountProxy, "proxy", "", "optional proxy URL (http, https, socks5)")

	accountsCmd.AddCommand(accountsList)
	accountsCmd.AddCommand(accountsAdd)
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	list, err := accounts.LoadFromDirectory(cfg.AccountsDir, logger.Named("Accounts"))
	if err != nil {
		return errors.Wrap(err, "failed to read accounts")
	}
	if len(list) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No valid accounts in %s\n", cfg.AccountsDir)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFILE\tPLATFORM\tSCORE\tTOKEN\tPROXY")
	for i, a := range list {
		proxy := "-"
		if a.Proxy != "" {
			proxy = a.Proxy
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d-%d\t%s\t%s\n", i+1, a.Name(), a.Platform, a.MinScore, a.MaxScore, a.MaskedToken(), proxy)
	}
	return w.Flush()
}

func runAccountsAdd(cmd *cobra.Command, _ []string) error {
	if accountName == "" {
		return errors.New("name is empty")
	}
	if strings.TrimSpace(accountToken) == "" {
		return errors.New("token is empty")
	}

	platform, err := accounts.ParsePlatform(accountPlatform)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	account := accounts.NewAccountConfig()
	account.AuthorizationToken = strings.TrimSpace(accountToken)
	account.Platform = platform
	account.MinScore = accountMin
	account.MaxScore = accountMax
	account.Proxy = accountProxy

	filename := accountName
	if filepath.Ext(filename) == "" {
		filename += ".yaml"
	}

	if err := accounts.SaveAccount(cfg.AccountsDir, filename, account); err != nil {
		return errors.Wrap(err, "failed to save account")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", filepath.Join(cfg.AccountsDir, filename))
	return nil
}
