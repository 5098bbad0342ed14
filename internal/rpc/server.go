// Package rpc serves the node's JSON-RPC interface and the websocket
// event feed.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/digiko/dexd/internal/core/tx"
	"github.com/digiko/dexd/internal/core/tx/dex"
	"github.com/digiko/dexd/internal/storage"
)

const pairCacheSize = 512

// Server handles JSON-RPC requests: operation submission and read-only
// views over the ledger state.
type Server struct {
	engine   *tx.Engine
	store    *storage.Store
	registry *MethodRegistry
	hub      *Hub
	logger   *zap.Logger

	// pairCache holds parsed pair states for view methods. Any applied
	// operation invalidates it wholesale; entries are tiny and re-parsing
	// on the next view is cheap.
	pairCache *lru.Cache[uint64, *dex.PairState]

	submitMu sync.Mutex
}

// NewServer creates a server over the given engine and store.
func NewServer(engine *tx.Engine, store *storage.Store, logger *zap.Logger) *Server {
	cache, _ := lru.New[uint64, *dex.PairState](pairCacheSize)
	s := &Server{
		engine:    engine,
		store:     store,
		registry:  NewMethodRegistry(),
		hub:       NewHub(logger),
		logger:    logger,
		pairCache: cache,
	}
	s.registerMethods()
	return s
}

func (s *Server) registerMethods() {
	s.registry.Register("submit", s.handleSubmit)
	s.registry.Register("server_info", s.handleServerInfo)
	s.registry.Register("balance", s.handleBalance)
	s.registry.Register("pair_info", s.handlePairInfo)
	s.registry.Register("pair_list", s.handlePairList)
	s.registry.Register("pairs_by_creator", s.handlePairsByCreator)
	s.registry.Register("find_pairs", s.handleFindPairs)
	s.registry.Register("lp_position", s.handlePosition)
	s.registry.Register("pending_deposits", s.handlePending)
	s.registry.Register("quote_swap", s.handleQuoteSwap)
	s.registry.Register("quote_swap_reverse", s.handleQuoteSwapReverse)
	s.registry.Register("preview_first_liquidity", s.handlePreviewFirstLiquidity)
	s.registry.Register("preview_first_price", s.handlePreviewFirstPrice)
}

// Run serves HTTP on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	mux.Handle("/ws", s.hub)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	s.logger.Info("rpc server listening", zap.String("addr", ln.Addr().String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ServeHTTP implements http.Handler for the JSON-RPC endpoint.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.writeError(w, "failed to read request body")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, "invalid JSON")
		return
	}

	handler, ok := s.registry.Lookup(req.Method)
	if !ok {
		s.writeError(w, "unknown method: "+req.Method)
		return
	}

	var params json.RawMessage
	if len(req.Params) > 0 {
		params = req.Params[0]
	}

	result, err := handler(params)
	if err != nil {
		s.writeError(w, err.Error())
		return
	}
	s.writeJSON(w, Response{Result: result, Status: "success"})
}

func (s *Server) writeError(w http.ResponseWriter, msg string) {
	s.writeJSON(w, Response{Status: "error", Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// handleSubmit decodes, applies, persists, and publishes one operation.
func (s *Server) handleSubmit(params json.RawMessage) (any, error) {
	var p SubmitParams
	if err := json.Unmarshal(params, &p); err != nil || len(p.Tx) == 0 {
		return nil, errors.New("submit requires a tx object")
	}

	txn, err := tx.FromJSON(p.Tx)
	if err != nil {
		return nil, err
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	result := s.engine.Apply(txn)
	if result.Applied {
		if err := s.store.SaveChanges(context.Background(), result.Changes); err != nil {
			// State and database have diverged; crashing loses nothing
			// that isn't already lost.
			s.logger.Fatal("failed to persist applied operation", zap.Error(err))
		}
		s.pairCache.Purge()
		s.hub.Publish(Event{
			Type:    "operation",
			Account: txn.GetCommon().Account,
			TxType:  txn.TxType().String(),
			Result:  result.Result.String(),
			Meta:    result.Meta,
		})
	}

	s.logger.Info("operation applied",
		zap.String("type", txn.TxType().String()),
		zap.String("account", txn.GetCommon().Account),
		zap.String("result", result.Result.String()),
		zap.Bool("applied", result.Applied),
	)

	return SubmitResult{
		EngineResult:        result.Result.String(),
		EngineResultCode:    int(result.Result),
		EngineResultMessage: result.Message,
		Applied:             result.Applied,
		Meta:                result.Meta,
	}, nil
}

func (s *Server) handleServerInfo(json.RawMessage) (any, error) {
	reg, err := dex.LoadRegistry(s.engine.View())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"pairs":        len(reg.PairIDs),
		"next_pair_id": reg.NextPairID,
		"native_asset": s.engine.Config().NativeAsset,
	}, nil
}

// pair returns a parsed pair state through the cache.
func (s *Server) pair(pairID uint64) (*dex.PairState, error) {
	if p, ok := s.pairCache.Get(pairID); ok {
		return p, nil
	}
	p, err := dex.LoadPair(s.engine.View(), pairID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("pair not found")
	}
	s.pairCache.Add(pairID, p)
	return p, nil
}
