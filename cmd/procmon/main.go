package main

import (
	"fmt"
	"os"

	"procmon/config"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "procmon"))

// app carries the resolved configuration to every subcommand
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "procmon",
		Short: "Process tree monitor",
		Long: `procmon lists processes as a parent/child tree, sorted by any column
and filtered by searches that keep every match's ancestors visible.

Searches are comma separated "@column value" clauses that must all match:
  procmon ps --search "@user root, @name ssh"
  procmon top --sort cpu --order desc`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			if used := a.v.ConfigFileUsed(); used != "" {
				log.Debugln("Using config file:", used)
			}
			a.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is procmon.toml in the user config dir or the working dir)")
	flags.Duration(config.KeyInterval, 0, "refresh interval")
	flags.String(config.KeySort, "", "sort column: name, id, cpu, memory, parentid, state, starttime, user, command")
	flags.String(config.KeyOrder, "", "sort order: asc or desc")
	flags.StringP(config.KeySearch, "s", "", `search, e.g. "@name ssh, @user root"`)
	flags.String(config.KeySource, "", "process source: procfs or psutil")
	flags.String("proc-root", "", "procfs mount point")
	flags.String(config.KeyPasswd, "", "passwd file used for user names")
	flags.Bool(config.KeyColor, true, "color process states")

	for key, name := range map[string]string{
		config.KeyInterval: config.KeyInterval,
		config.KeySort:     config.KeySort,
		config.KeyOrder:    config.KeyOrder,
		config.KeySearch:   config.KeySearch,
		config.KeySource:   config.KeySource,
		config.KeyProcRoot: "proc-root",
		config.KeyPasswd:   config.KeyPasswd,
		config.KeyColor:    config.KeyColor,
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(newTopCommand(a))
	rootCmd.AddCommand(newPsCommand(a))
	rootCmd.AddCommand(newKillCommand(a))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration as TOML",
		// skip loading, the defaults are wanted even with a broken config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.WriteDefault(cmd.OutOrStdout())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "procmon", version)
		},
	}
}
