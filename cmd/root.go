// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// settings holds the configuration shared by every command.  Values come
// from flags, JSLTCHECK_* environment variables and the config file, in
// that order of precedence.
type settings struct {
	Builtins []string `mapstructure:"builtins"`
	Paths    []string `mapstructure:"paths"`
	Checks   []string `mapstructure:"checks"`
	Exclude  []string `mapstructure:"exclude"`
	Hints    bool     `mapstructure:"hints"`
	Color    string   `mapstructure:"color"`
}

func loadSettings() (*settings, error) {
	var s settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &s, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsltcheck",
	Short: "Static checks for JSLT transforms",
	Long: `jsltcheck analyzes JSLT source files without running them. It resolves
every variable and function reference against the scope it appears in and
reports unknown names, duplicate declarations, unused symbols, wrong call
arity and missing import files.

Getting started:
  jsltcheck lint transform.jslt      Check a single file
  jsltcheck lint ./...               Check every .jslt file below .
  jsltcheck checks                   Describe the available checks
  jsltcheck lsp                      Start the language server

Configuration is read from $HOME/.jsltcheck.yaml or ./.jsltcheck.yaml:

  builtins: [my-extension]   # extra built-in function names
  paths: [lib]               # import search paths
  checks: []                 # default check list (empty means all)
  exclude: [generated_*]     # patterns skipped by "lint dir/..."
  hints: false               # report informational classifications
  color: auto                # auto, always or never

Every key may also be set through a JSLTCHECK_ environment variable,
for example JSLTCHECK_HINTS=true.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		if path := viper.ConfigFileUsed(); path != "" {
			log.WithField("config", path).Debug("using config file")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.InfoLevel)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.jsltcheck.yaml or ./.jsltcheck.yaml)")
	rootCmd.PersistentFlags().String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug output to stderr.")
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))

	viper.SetDefault("color", "auto")
	viper.SetDefault("hints", false)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".jsltcheck")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("JSLTCHECK")
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.WithError(err).Warn("could not read config file")
		}
	}
}
