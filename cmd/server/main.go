// Command server runs the SpendMart finance API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kusalyaa/SpendMart-sub000/internal/config"
)

var (
	configFile string

	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "spendmart-server",
	Short: "SpendMart personal finance API",
	Long: `spendmart-server serves the SpendMart finance API over connect.
Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		log = config.ConfigureLogging(cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml or ./.spendmart/config.yaml)")
	rootCmd.AddCommand(dispatchRemindersCmd, estimateLimitCmd, quoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
