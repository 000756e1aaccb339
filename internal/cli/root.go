package cli

import (
	"campus-rental-client/internal/config"
	"campus-rental-client/internal/logger"
	"campus-rental-client/internal/storage"

	"github.com/spf13/cobra"
)

// GlobalFlags are shared by every command.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	Ephemeral  bool
	NoBrowser  bool
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var flags GlobalFlags

	rootCmd := &cobra.Command{
		Use:   "campusrent",
		Short: "Campus Rentals from the terminal",
		Long: `campusrent is a client for the Campus Rentals marketplace.
Browse items, book and pay for rentals, manage your bookings and
returns, and chat with owners.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return setup(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cliCtx := GetCLIContext(cmd); cliCtx != nil {
				return cliCtx.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().BoolVar(&flags.Ephemeral, "ephemeral", false, "keep the session in memory only")
	rootCmd.PersistentFlags().BoolVar(&flags.NoBrowser, "no-browser", false, "print checkout links instead of opening them")

	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewLoginCmd())
	rootCmd.AddCommand(NewRegisterCmd())
	rootCmd.AddCommand(NewLogoutCmd())
	rootCmd.AddCommand(NewWhoamiCmd())
	rootCmd.AddCommand(NewProfileCmd())
	rootCmd.AddCommand(NewItemsCmd())
	rootCmd.AddCommand(NewWishlistCmd())
	rootCmd.AddCommand(NewBookCmd())
	rootCmd.AddCommand(NewBookingsCmd())
	rootCmd.AddCommand(NewReturnsCmd())
	rootCmd.AddCommand(NewChatCmd())
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}

func setup(cmd *cobra.Command, flags GlobalFlags) error {
	configPath := flags.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logLevel := cfg.Log.Level
	if flags.Verbose {
		logLevel = "debug"
	}
	if flags.Quiet {
		logLevel = "error"
	}
	logger.Initialize(logLevel, cfg.Log.Format)

	var store storage.KeyValueStore
	if flags.Ephemeral {
		store = storage.NewMemoryStore()
	} else {
		store, err = storage.OpenSQLite(cfg.Session.Path)
		if err != nil {
			return err
		}
	}

	cliCtx := NewCLIContext(cfg, configPath, store, browserOpener(cmd.OutOrStdout(), !flags.NoBrowser))
	if err := cliCtx.Session.Hydrate(cmd.Context()); err != nil {
		logger.Warn("Could not restore session", "error", err)
	}
	cmd.SetContext(withCLIContext(cmd.Context(), cliCtx))
	return nil
}
