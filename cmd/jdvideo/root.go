package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is reported by --version.
const Version = "0.2.0"

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "jdvideo",
		Short:        "Local download helper for the JDVideo browser extension",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v, cfgFile)
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Optional YAML config file")
	if err := initServerFlags(root, v); err != nil {
		panic(err)
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP helper (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v, cfgFile)
		},
	})

	return root
}

// initServerFlags binds every flag to its config key so flags override file and env.
func initServerFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.PersistentFlags()

	flags.String("host", "127.0.0.1", "Listen address")
	flags.Int("port", 3030, "Listen port")
	flags.String("root", "./downloads", "Default download directory")
	flags.Int("concurrency", 3, "Parallel downloads per batch")
	flags.Int("retry", 2, "Extra attempts per item after the first failure")
	flags.Int("global-limit", 0, "Parallel downloads across all batches (0 = no limit)")
	flags.Duration("timeout", 0, "Connect, header and idle read timeout (0 = 30s)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("store", "sqlite", "Batch history store (sqlite, postgres, none)")
	flags.String("store-dsn", "", "History store DSN; a file path for sqlite")

	bindings := map[string]string{
		"server.host":           "host",
		"server.port":           "port",
		"download.root":         "root",
		"download.concurrency":  "concurrency",
		"download.retry":        "retry",
		"download.global_limit": "global-limit",
		"download.timeout":      "timeout",
		"log.level":             "log-level",
		"store.driver":          "store",
		"store.dsn":             "store-dsn",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}

	return nil
}
