package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokennet/config"
	"tokennet/core/state"
	"tokennet/native/tokens"
	"tokennet/native/tokens/precompile"
	"tokennet/observability"
	"tokennet/observability/logging"
	"tokennet/storage"
	"tokennet/storage/trie"
)

// committedRootKey locates the last committed state root in the metadata
// store.
var committedRootKey = []byte("ledger/committed-root")

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	metricsAddress := flag.String("metrics", ":9464", "Listen address for the Prometheus metrics endpoint")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Setup("tokennetd", "", "").Error("failed to load config", "path", *configFile, "err", err)
		os.Exit(1)
	}
	logger := logging.Setup("tokennetd", cfg.LogEnv, cfg.LogFile)

	ledgerPath := filepath.Join(cfg.DataDir, "ledger")
	db, err := rawdb.NewPebbleDBDatabase(ledgerPath, 128, 256, "", false, false)
	if err != nil {
		logger.Error("failed to open ledger database", "path", ledgerPath, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	metaPath := filepath.Join(cfg.DataDir, "meta")
	meta, err := storage.NewLevelDB(metaPath)
	if err != nil {
		logger.Error("failed to open metadata store", "path", metaPath, "err", err)
		os.Exit(1)
	}
	defer meta.Close()

	root, err := meta.Get(committedRootKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Error("failed to read committed state root", "err", err)
		os.Exit(1)
	}
	stateTrie, err := trie.NewTrie(db, root)
	if err != nil {
		logger.Error("failed to open state trie", "err", err)
		os.Exit(1)
	}

	manager := state.NewManager(stateTrie)
	engine := tokens.NewEngine()
	engine.SetState(manager)
	engine.SetConfig(cfg.Ledger)

	dispatcher := precompile.NewDispatcher(engine, manager, manager)
	dispatcher.SetLogger(logger)
	dispatcher.SetLedgerID(cfg.NetworkName)

	go func() {
		if err := http.ListenAndServe(*metricsAddress, promhttp.Handler()); err != nil {
			logger.Error("metrics endpoint stopped", "err", err)
		}
	}()

	logger.Info("ledger engine ready",
		"network", cfg.NetworkName,
		"dataDir", cfg.DataDir,
		"stateRoot", stateTrie.Hash().Hex(),
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	modified, err := manager.Commit()
	if err != nil {
		logger.Error("failed to flush staged state", "err", err)
		os.Exit(1)
	}
	counts := make(map[string]int, len(modified))
	for family, keys := range modified {
		counts[string(family)] = len(keys)
	}
	observability.State().RecordCommit(counts)
	newRoot, err := stateTrie.Commit(stateTrie.Root(), 0)
	if err != nil {
		logger.Error("failed to commit state trie", "err", err)
		os.Exit(1)
	}
	if err := meta.Put(committedRootKey, newRoot.Bytes()); err != nil {
		logger.Error("failed to persist committed state root", "err", err)
		os.Exit(1)
	}
	logger.Info("state root committed", "root", newRoot.Hex())
}
