package rpc

import "encoding/json"

// Request is a JSON-RPC request: {"method": "...", "params": [{...}]}.
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// Response wraps a method result or error.
type Response struct {
	Result any    `json:"result,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Handler processes one method call. Params is the first element of the
// request's params array, or nil.
type Handler func(params json.RawMessage) (any, error)

// MethodRegistry maps method names to handlers.
type MethodRegistry struct {
	methods map[string]Handler
}

// NewMethodRegistry creates an empty registry.
func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{methods: make(map[string]Handler)}
}

// Register installs a handler for a method name.
func (r *MethodRegistry) Register(name string, h Handler) {
	r.methods[name] = h
}

// Lookup returns the handler for a method name.
func (r *MethodRegistry) Lookup(name string) (Handler, bool) {
	h, ok := r.methods[name]
	return h, ok
}

// SubmitParams is the payload of the submit method: a full operation
// JSON object.
type SubmitParams struct {
	Tx json.RawMessage `json:"tx"`
}

// SubmitResult reports the outcome of an applied operation.
type SubmitResult struct {
	EngineResult        string         `json:"engine_result"`
	EngineResultCode    int            `json:"engine_result_code"`
	EngineResultMessage string         `json:"engine_result_message"`
	Applied             bool           `json:"applied"`
	Meta                map[string]any `json:"meta,omitempty"`
}

// PairInfo is the pair view payload.
type PairInfo struct {
	PairID          uint64 `json:"pair_id"`
	AssetA          string `json:"asset_a"`
	AssetANative    bool   `json:"asset_a_native"`
	AssetB          string `json:"asset_b"`
	AssetBNative    bool   `json:"asset_b_native"`
	ReserveA        string `json:"reserve_a"`
	ReserveB        string `json:"reserve_b"`
	FeePercent      uint8  `json:"fee_percent"`
	Active          bool   `json:"active"`
	Creator         string `json:"creator"`
	OwnerShares     string `json:"owner_shares"`
	TotalLPShares   string `json:"total_lp_shares"`
	TotalShares     string `json:"total_shares"`
	LPCount         uint32 `json:"lp_count"`
	FeePerShareA    string `json:"fee_per_share_a"`
	FeePerShareB    string `json:"fee_per_share_b"`
	OwnerFeesA      string `json:"owner_fees_a"`
	OwnerFeesB      string `json:"owner_fees_b"`
	PendingAccounts uint32 `json:"pending_accounts"`
	CanDelete       bool   `json:"can_delete"`
	PoolEmpty       bool   `json:"pool_empty"`
}

// PositionInfo is the LP position view payload.
type PositionInfo struct {
	Shares      string `json:"shares"`
	EntryIndexA string `json:"entry_index_a"`
	EntryIndexB string `json:"entry_index_b"`
	AccruedA    string `json:"accrued_a"`
	AccruedB    string `json:"accrued_b"`
}

// PendingInfo is the pending deposit view payload.
type PendingInfo struct {
	PendingA string `json:"pending_a"`
	PendingB string `json:"pending_b"`
}

// QuoteResult is the swap quote view payload.
type QuoteResult struct {
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
}

// Event is one applied-operation notification on the websocket feed.
type Event struct {
	Type    string         `json:"type"`
	Account string         `json:"account"`
	TxType  string         `json:"tx_type"`
	Result  string         `json:"result"`
	Meta    map[string]any `json:"meta,omitempty"`
}
