package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-holdings-reconciler/internal/adapter"
	"github.com/feral-file/ff-holdings-reconciler/internal/bootstrap"
	"github.com/feral-file/ff-holdings-reconciler/internal/claim"
	"github.com/feral-file/ff-holdings-reconciler/internal/config"
	"github.com/feral-file/ff-holdings-reconciler/internal/holdings"
	"github.com/feral-file/ff-holdings-reconciler/internal/logger"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	wallet     = flag.String("wallet", "", "Wallet address whose holdings to reconcile")
	tokenIDs   = flag.String("tokens", "", "Comma-separated token ids whose vesting state to compute")
	timeout    = flag.Duration("timeout", 5*time.Minute, "Overall deadline for the run")
)

// output is the JSON document printed to stdout
type output struct {
	Holdings *holdings.View `json:"holdings,omitempty"`
	Vesting  *claim.View    `json:"vesting,omitempty"`
}

func main() {
	flag.Parse()

	if *wallet == "" && *tokenIDs == "" {
		fmt.Fprintln(os.Stderr, "at least one of -wallet or -tokens is required")
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadCLIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	// Logs go to stderr so stdout stays machine-readable
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "reconcile-cli",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	components, err := bootstrap.Build(ctx, cfg, adapter.NewEthClientDialer())
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}
	defer components.Close()

	var out output
	if *wallet != "" {
		out.Holdings, err = components.Holdings.Holdings(ctx, *wallet)
		if err != nil {
			logger.Fatal("Failed to reconcile holdings", zap.Error(err), zap.String("wallet", *wallet))
		}
	}
	if *tokenIDs != "" {
		out.Vesting, err = components.Claims.Vesting(ctx, strings.Split(*tokenIDs, ","))
		if err != nil {
			logger.Fatal("Failed to compute vesting", zap.Error(err))
		}
	}

	data, err := adapter.NewJSON().MarshalIndent(out)
	if err != nil {
		logger.Fatal("Failed to encode output", zap.Error(err))
	}
	fmt.Println(string(data))
}
