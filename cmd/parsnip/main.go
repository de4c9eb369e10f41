package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// reported wraps an error whose details were already written to the
// command's error stream.
type reported struct{ err error }

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "parsnip",
		Short:         "Grammar-driven parsing toolkit",
		Long:          "Parsnip checks EBNF grammars, parses files with them and serves parse diagnostics over LSP.",
		Version:       version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(viper.GetInt("verbose"), nil)
		},
	}

	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringP("grammar", "g", "", "EBNF grammar file")
	rootCmd.PersistentFlags().StringP("start", "s", "", "start production")
	rootCmd.PersistentFlags().Bool("compiled", false, "run the compiled form of the grammar")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("grammar", rootCmd.PersistentFlags().Lookup("grammar"))
	_ = viper.BindPFlag("start", rootCmd.PersistentFlags().Lookup("start"))
	_ = viper.BindPFlag("compiled", rootCmd.PersistentFlags().Lookup("compiled"))

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newLSPCmd())

	return rootCmd
}

func initConfig() {
	viper.SetEnvPrefix("PARSNIP")
	viper.AutomaticEnv()
}

func main() {
	cobra.OnInitialize(initConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
