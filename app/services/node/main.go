package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/solochain/solochain/app/services/node/handlers"
	"github.com/solochain/solochain/foundation/blockchain/database"
	"github.com/solochain/solochain/foundation/blockchain/database/storage/badgerdb"
	"github.com/solochain/solochain/foundation/blockchain/database/storage/disk"
	"github.com/solochain/solochain/foundation/blockchain/genesis"
	"github.com/solochain/solochain/foundation/blockchain/state"
	"github.com/solochain/solochain/foundation/blockchain/wallet"
	"github.com/solochain/solochain/foundation/events"
	"github.com/solochain/solochain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags
// in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:120s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		State struct {
			BeneficiaryName string `conf:"default:miner1"`
			KeysFolder      string `conf:"default:zblock/keys/"`
			Scheme          string `conf:"default:secp256k1"`
			Storage         string `conf:"default:disk"`
			DBPath          string `conf:"default:zblock/blocks/"`
			GenesisPath     string `conf:"default:zblock/genesis.json"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "single node proof of work ledger",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	// The genesis file carries the chain parameters and the initial
	// account allocations.
	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}

	scheme, err := wallet.SchemeByName(cfg.State.Scheme)
	if err != nil {
		return fmt.Errorf("unable to select signature scheme: %w", err)
	}

	// The beneficiary key identifies the account credited with the
	// mining reward.
	path := filepath.Join(cfg.State.KeysFolder, cfg.State.BeneficiaryName+".ecdsa")
	beneficiary, err := wallet.LoadSecp256k1(path)
	if err != nil {
		return fmt.Errorf("unable to load beneficiary key: %w", err)
	}

	var storage database.Serializer
	switch cfg.State.Storage {
	case "badger":
		storage, err = badgerdb.New(cfg.State.DBPath)
	default:
		storage, err = disk.New(cfg.State.DBPath)
	}
	if err != nil {
		return fmt.Errorf("unable to open block storage: %w", err)
	}

	// The blockchain packages accept a function of this signature to
	// allow the application to log. These raw messages are also sent to
	// any websocket client connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	st, err := state.New(state.Config{
		BeneficiaryID: database.Address(beneficiary.Address()),
		Genesis:       gen,
		Storage:       storage,
		Scheme:        scheme,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// A brand new chain starts with the genesis block minting the
	// configured allocations.
	if st.RetrieveChainLength() == 0 {
		block, err := st.MineGenesis(context.Background())
		if err != nil {
			return fmt.Errorf("unable to mine genesis block: %w", err)
		}
		log.Infow("startup", "status", "genesis block mined", "hash", block.Hash())
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log)

	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
