package main

import (
	"context"
	"os"
	"os/signal"

	jRPC "github.com/0xPolygon/cdk-rpc/rpc"
	cdkverifier "github.com/0xPolygon/cdk-verifier"
	"github.com/0xPolygon/cdk-verifier/cache"
	cdkcommon "github.com/0xPolygon/cdk-verifier/common"
	"github.com/0xPolygon/cdk-verifier/config"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/rpc"
	"github.com/0xPolygon/cdk-verifier/verifier"
	"github.com/urfave/cli/v2"
)

func start(cliCtx *cli.Context) error {
	c, err := config.Load(cliCtx)
	if err != nil {
		return err
	}

	log.Init(c.Log)

	if c.Log.Environment == log.EnvironmentDevelopment {
		cdkverifier.PrintVersion(os.Stdout)
		log.Info("Starting application")
	} else if c.Log.Environment == log.EnvironmentProduction {
		logVersion()
	}

	v, err := verifier.New(cliCtx.Context, c.Verifier)
	if err != nil {
		return err
	}
	if v.WithContext() {
		log.Warn("no execution endpoint configured: every prove request must carry the pobs of the batch")
	}

	poeCache, err := cache.NewPoeCache(c.Cache)
	if err != nil {
		v.Close()
		return err
	}

	server := createRPC(c.RPC, v, poeCache)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal(err)
		}
	}()

	waitSignal([]context.CancelFunc{
		v.Close,
		func() {
			if err := poeCache.Close(); err != nil {
				log.Errorf("error closing the poe cache: %s", err)
			}
		},
	})
	return nil
}

func createRPC(cfg jRPC.Config, v rpc.Verifier, poeCache rpc.PoeCacher) *jRPC.Server {
	logger := log.WithFields("module", cdkcommon.RPC)
	services := []jRPC.Service{
		{
			Name: rpc.VERIFIER,
			Service: rpc.NewVerifierEndpoints(
				logger,
				cfg.WriteTimeout.Duration,
				cfg.ReadTimeout.Duration,
				cdkverifier.Version,
				v,
				poeCache,
			),
		},
	}

	return jRPC.NewServer(cfg, services, jRPC.WithLogger(logger.GetSugaredLogger()))
}

func logVersion() {
	log.Infow("Starting application", cdkverifier.GetVersion().KeysAndValues()...)
}

func waitSignal(cancelFuncs []context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	for sig := range signals {
		switch sig {
		case os.Interrupt, os.Kill:
			log.Info("terminating application gracefully...")

			exitStatus := 0
			for _, cancel := range cancelFuncs {
				cancel()
			}
			os.Exit(exitStatus)
		}
	}
}
