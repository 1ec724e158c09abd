package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/lukaszgryglicki/lenticalib/internal/lenticalib"
	"github.com/lukaszgryglicki/lenticalib/internal/viewer"
)

func main() {
	lenticalib.Debug = os.Getenv("DEBUG") != ""
	lenticalib.PNG = os.Getenv("PNG") != ""
	lenticalib.RAW = os.Getenv("RAW") != ""
	batch := os.Getenv("BATCH") != ""
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := defaultConfigPath
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	} else if _, err := os.Stat(cfg); errors.Is(err, os.ErrNotExist) {
		lenticalib.Logf("%s not found, using built-in defaults", cfg)
		cfg = ""
	}
	if err := run(cfg, batch); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

const defaultConfigPath = "configs/calibration.json"

// run loads cfgPath, or the built-in designer rig when it is empty.
func run(cfgPath string, batch bool) error {
	if batch && cfgPath != "" {
		return lenticalib.Run(cfgPath)
	}
	cfg := lenticalib.DefaultConfig()
	if cfgPath != "" {
		var err error
		if cfg, err = lenticalib.LoadConfig(cfgPath); err != nil {
			return err
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if batch {
		return lenticalib.RunConfig(ctx, cfg)
	}

	sess, err := lenticalib.NewSessionFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := sess.Start(ctx); err != nil {
		return err
	}
	err = viewer.Run(ctx, sess)
	if errors.Is(err, viewer.ErrNoDisplay) {
		lenticalib.Logf("no display, running batch instead")
		return lenticalib.RunConfig(ctx, cfg)
	}
	return err
}
