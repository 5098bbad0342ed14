package tx

import (
	"errors"
	"strings"
	"sync"
)

// EngineConfig holds configuration for the operation engine.
type EngineConfig struct {
	// AdminAccount is the platform account permitted to run privileged
	// operations and the recipient of the platform fee share.
	AdminAccount string

	// NativeAsset is the chain-native coin symbol.
	NativeAsset string
}

// ApplyResult is the outcome of applying one operation.
type ApplyResult struct {
	// Result is the engine result code.
	Result Result

	// Applied reports whether state was modified.
	Applied bool

	// Changes lists the committed state modifications, for persistence
	// and the event feed. Empty when Applied is false.
	Changes []Change

	// Meta carries operation outputs such as created pair IDs.
	Meta map[string]any

	// Message is a human-readable description of the result.
	Message string
}

// Engine applies operations against ledger state. Operations apply
// one at a time; each either commits fully or leaves state untouched.
type Engine struct {
	view   LedgerView
	config EngineConfig
	mu     sync.Mutex
}

// NewEngine creates an engine over the given state view.
func NewEngine(view LedgerView, config EngineConfig) *Engine {
	return &Engine{view: view, config: config}
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig { return e.config }

// View returns the underlying state view, for read-only queries.
func (e *Engine) View() LedgerView { return e.view }

// Apply validates and applies a single operation.
//
// The attached payments are debited from the caller's balances into the
// operation's custody before Apply runs; an operation that fails refunds
// them implicitly, because the whole state table is discarded. Attached
// assets an operation does not consume are stranded in custody, never
// silently returned.
func (e *Engine) Apply(txn Transaction) ApplyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := txn.Validate(); err != nil {
		return ApplyResult{
			Result:  temResult(err),
			Message: err.Error(),
		}
	}

	appliable, ok := txn.(Appliable)
	if !ok {
		return ApplyResult{
			Result:  TefINTERNAL,
			Message: "operation type cannot be applied",
		}
	}

	common := txn.GetCommon()
	table := NewApplyStateTable(e.view)

	// Intake: move the attached payments out of the caller's balances.
	for _, p := range common.Payments {
		if err := debitBalance(table, common.Account, p.Asset, p.Amount); err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				return ApplyResult{
					Result:  TecUNFUNDED,
					Message: TecUNFUNDED.Message(),
				}
			}
			return ApplyResult{
				Result:  TemBAD_AMOUNT,
				Message: err.Error(),
			}
		}
	}

	ctx := &ApplyContext{
		View:     table,
		Caller:   common.Account,
		Config:   e.config,
		Metadata: make(map[string]any),
		payments: common.Payments,
	}

	result := appliable.Apply(ctx)
	if !result.IsSuccess() {
		return ApplyResult{
			Result:  result,
			Meta:    ctx.Metadata,
			Message: result.Message(),
		}
	}

	changes, err := table.Apply()
	if err != nil {
		return ApplyResult{
			Result:  TefINTERNAL,
			Message: err.Error(),
		}
	}

	return ApplyResult{
		Result:  TesSUCCESS,
		Applied: true,
		Changes: changes,
		Meta:    ctx.Metadata,
		Message: TesSUCCESS.Message(),
	}
}

// temResult maps a validation error to its result code. Validators name
// a specific code as a "temXXX:" message prefix; anything without one is
// temMALFORMED.
func temResult(err error) Result {
	msg := err.Error()
	if i := strings.IndexByte(msg, ':'); i > 0 {
		if code, ok := ResultFromName(msg[:i]); ok && code.IsTem() {
			return code
		}
	}
	return TemMALFORMED
}
