// Package cli implements the praisebot command line.
package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/masoncj/praisebot/internal/config"
	"github.com/masoncj/praisebot/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool
	noProgress bool

	appConfig *config.Config
	configMu  sync.RWMutex
)

var rootCmd = &cobra.Command{
	Use:   "praisebot",
	Short: "Render praise commands into SVG artifacts",
	Long: `praisebot parses chat praise commands such as

  @praisebot thank @cmason for being awesome with color=gold

and renders them through named SVG templates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.praisebot.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable output")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "suppress progress output")
	rootCmd.PersistentFlags().StringSlice("templates", nil, "extra template directories, searched first")
	rootCmd.PersistentFlags().String("directory", "", "identity directory file for wrapped references")

	_ = viper.BindPFlag("templates.paths", rootCmd.PersistentFlags().Lookup("templates"))
	_ = viper.BindPFlag("directory.path", rootCmd.PersistentFlags().Lookup("directory"))
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		return exitCode(err)
	}
	return 0
}

func initApp() error {
	if err := readConfigFile(viper.GetViper()); err != nil {
		return err
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger := logging.Component("cli")
		logger.Debug().Str("file", used).Msg("using config file")
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()
	return nil
}

func readConfigFile(v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(".praisebot")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded configuration, or defaults before load.
func GetConfig() *config.Config {
	configMu.RLock()
	defer configMu.RUnlock()
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}
