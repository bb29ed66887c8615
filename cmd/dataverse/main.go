package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dynamics-go/dataverse/cmd/dataverse/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dataverse",
	Short: "Microsoft Dataverse Web API CLI",
	Long: `A command-line interface for querying the Microsoft Dynamics 365
Dataverse OData Web API.

Credentials and endpoints are read from flags or from DYNAMICS_*
environment variables (DYNAMICS_API_URL, DYNAMICS_TOKEN_URL,
DYNAMICS_CLIENT_ID, DYNAMICS_CLIENT_SECRET, DYNAMICS_SCOPE).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "Web API endpoint root")
	rootCmd.PersistentFlags().String("token-url", "", "OAuth2 token endpoint")
	rootCmd.PersistentFlags().String("client-id", "", "app registration client id")
	rootCmd.PersistentFlags().String("client-secret", "", "app registration client secret (prompted when omitted)")
	rootCmd.PersistentFlags().String("scope", "", "token scope, comma-separated")
	rootCmd.PersistentFlags().String("resource", "", "token resource, an alternative to scope")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log requests and responses")

	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("token_url", rootCmd.PersistentFlags().Lookup("token-url"))
	_ = viper.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client-id"))
	_ = viper.BindPFlag("client_secret", rootCmd.PersistentFlags().Lookup("client-secret"))
	_ = viper.BindPFlag("scope", rootCmd.PersistentFlags().Lookup("scope"))
	_ = viper.BindPFlag("resource", rootCmd.PersistentFlags().Lookup("resource"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix("DYNAMICS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewUpdateCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
