package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eigerco/bridgebench/pkg/log"
)

const envPrefix = "BRIDGEBENCH"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "bridgebench",
		Short: "Generate bridge messages and delivery proofs",
		Long: `bridgebench builds synthetic storage proofs of bridged chain lanes,
registers the header they are anchored at as finalized and prints the
resulting proof. Every run starts from an empty store unless --data-dir
is given.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if path := v.GetString("config"); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config %s: %w", path, err)
				}
			}
			return initLogging(v)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console or json)")
	flags.String("data-dir", "", "keep the node store on disk at this path")
	flags.String("this-chain", "millau", "chain the proofs are generated for")
	flags.String("bridged-chain", "rialto", "chain the proofs are generated from")

	root.AddCommand(
		newMessagesCmd(v),
		newDeliveryCmd(v),
		newRewardsAccountCmd(v),
		newChainsCmd(),
	)
	return root
}

func initLogging(v *viper.Viper) error {
	level, err := log.ParseLogLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	format, err := log.ParseLoggerType(v.GetString("log-format"))
	if err != nil {
		return err
	}
	log.Init(log.Options{LogLevel: level, Type: format, Output: os.Stderr})
	return nil
}
