package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharelgx/JDVideo/internal/infra/config"
)

func TestFlagsOverrideDefaults(t *testing.T) {
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	if err := initServerFlags(cmd, v); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	args := []string{"--port", "4141", "--root", root, "--concurrency", "6", "--retry", "0", "--store", "none"}
	if err := cmd.PersistentFlags().Parse(args); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(v, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 4141 || cfg.Download.Concurrency != 6 || cfg.Download.Retry != 0 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Download.Root != root || cfg.Store.Driver != config.DriverNone {
		t.Fatalf("root/store = %q/%q", cfg.Download.Root, cfg.Store.Driver)
	}
	if cfg.Events.Path != filepath.Join(root, "logs", "jdvideo.log") {
		t.Fatalf("Events.Path = %q", cfg.Events.Path)
	}
}

func TestRootCommandHasServe(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"serve"})
	if err != nil || cmd.Name() != "serve" {
		t.Fatalf("serve subcommand missing: %v", err)
	}
}
