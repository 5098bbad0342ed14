package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/digiko/dexd/internal/config"
	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
	_ "github.com/digiko/dexd/internal/core/tx/dex" // register operation types
	"github.com/digiko/dexd/internal/rpc"
	"github.com/digiko/dexd/internal/storage"
	pebbledb "github.com/digiko/dexd/internal/storage/database/pebble"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the dexd node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func runServer() error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := pebbledb.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := storage.NewStore(db)
	state := ledger.NewState()
	restored, err := store.Restore(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to restore ledger state: %w", err)
	}
	logger.Info("ledger state restored", zap.Int("entries", restored))

	if restored == 0 && cfg.GenesisFile != "" {
		n, err := applyGenesis(ctx, cfg.GenesisFile, state, store)
		if err != nil {
			return fmt.Errorf("failed to apply genesis: %w", err)
		}
		logger.Info("genesis applied", zap.Int("balances", n))
	}

	engine := tx.NewEngine(state, tx.EngineConfig{
		AdminAccount: cfg.AdminAccount,
		NativeAsset:  cfg.NativeAsset,
	})

	server := rpc.NewServer(engine, store, logger)
	return server.Run(ctx, cfg.ListenAddr)
}

// applyGenesis funds the configured initial balances and persists them.
func applyGenesis(ctx context.Context, path string, state *ledger.State, store *storage.Store) (int, error) {
	genesis, err := config.LoadGenesis(path)
	if err != nil {
		return 0, err
	}

	changes := make([]tx.Change, 0, len(genesis.Balances))
	for _, b := range genesis.Balances {
		amount, err := bignum.Parse(b.Amount)
		if err != nil {
			return 0, fmt.Errorf("balance for %s: %w", b.Account, err)
		}
		asset := tx.Asset{Symbol: b.Asset, Native: b.Native}
		if err := tx.SetBalance(state, b.Account, asset, amount); err != nil {
			return 0, err
		}
		changes = append(changes, tx.Change{
			Key:    keylet.Balance(b.Account, asset.ID()).Key,
			Type:   keylet.TypeBalance,
			Action: tx.ActionInsert,
			Data:   bignum.AppendBytes(nil, amount),
		})
	}
	if err := store.SaveChanges(ctx, changes); err != nil {
		return 0, err
	}
	return len(changes), nil
}
