package rpc

import (
	"encoding/json"
	"errors"
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
	"github.com/digiko/dexd/internal/core/tx/dex"
)

type pairParams struct {
	PairID uint64 `json:"pair_id"`
}

type accountPairParams struct {
	PairID  uint64 `json:"pair_id"`
	Account string `json:"account"`
}

type balanceParams struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Native  bool   `json:"native"`
}

type quoteParams struct {
	PairID uint64 `json:"pair_id"`
	Side   string `json:"side"`
	Amount string `json:"amount"`
}

type previewParams struct {
	PairID  uint64 `json:"pair_id"`
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

type creatorParams struct {
	Creator string `json:"creator"`
}

type findPairsParams struct {
	AssetA string `json:"asset_a"`
	AssetB string `json:"asset_b"`
}

func decode[T any](params json.RawMessage, out *T) error {
	if len(params) == 0 {
		return errors.New("missing params")
	}
	return json.Unmarshal(params, out)
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return bignum.Zero(), nil
	}
	return bignum.Parse(s)
}

func parseSide(s string) (dex.Side, error) {
	switch dex.Side(s) {
	case dex.SideA, dex.SideB:
		return dex.Side(s), nil
	default:
		return "", errors.New("side must be A or B")
	}
}

func pairInfoFrom(p *dex.PairState) PairInfo {
	return PairInfo{
		PairID:          p.PairID,
		AssetA:          p.AssetA.Symbol,
		AssetANative:    p.AssetA.Native,
		AssetB:          p.AssetB.Symbol,
		AssetBNative:    p.AssetB.Native,
		ReserveA:        p.ReserveA.String(),
		ReserveB:        p.ReserveB.String(),
		FeePercent:      p.FeePercent,
		Active:          p.Active,
		Creator:         p.Creator,
		OwnerShares:     p.OwnerShares.String(),
		TotalLPShares:   p.TotalLPShares.String(),
		TotalShares:     p.TotalShares().String(),
		LPCount:         p.LPCount,
		FeePerShareA:    p.FeePerShareA.String(),
		FeePerShareB:    p.FeePerShareB.String(),
		OwnerFeesA:      p.OwnerFeesA.String(),
		OwnerFeesB:      p.OwnerFeesB.String(),
		PendingAccounts: p.PendingAccounts,
		CanDelete:       dex.CanDelete(p),
		PoolEmpty:       p.ReserveA.Sign() == 0 && p.ReserveB.Sign() == 0,
	}
}

func (s *Server) handlePairInfo(params json.RawMessage) (any, error) {
	var p pairParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	pair, err := s.pair(p.PairID)
	if err != nil {
		return nil, err
	}
	return pairInfoFrom(pair), nil
}

func (s *Server) handlePairList(json.RawMessage) (any, error) {
	reg, err := dex.LoadRegistry(s.engine.View())
	if err != nil {
		return nil, err
	}
	infos := make([]PairInfo, 0, len(reg.PairIDs))
	for _, id := range reg.PairIDs {
		pair, err := s.pair(id)
		if err != nil {
			return nil, err
		}
		infos = append(infos, pairInfoFrom(pair))
	}
	return infos, nil
}

func (s *Server) handlePairsByCreator(params json.RawMessage) (any, error) {
	var p creatorParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	reg, err := dex.LoadRegistry(s.engine.View())
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0)
	for _, id := range reg.PairIDs {
		pair, err := s.pair(id)
		if err != nil {
			return nil, err
		}
		if pair.Creator == p.Creator {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// handleFindPairs matches pairs by asset symbols in either orientation.
func (s *Server) handleFindPairs(params json.RawMessage) (any, error) {
	var p findPairsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	reg, err := dex.LoadRegistry(s.engine.View())
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0)
	for _, id := range reg.PairIDs {
		pair, err := s.pair(id)
		if err != nil {
			return nil, err
		}
		direct := pair.AssetA.Symbol == p.AssetA && pair.AssetB.Symbol == p.AssetB
		flipped := pair.AssetA.Symbol == p.AssetB && pair.AssetB.Symbol == p.AssetA
		if direct || flipped {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Server) handlePosition(params json.RawMessage) (any, error) {
	var p accountPairParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	pair, err := s.pair(p.PairID)
	if err != nil {
		return nil, err
	}
	pos, err := dex.LoadPosition(s.engine.View(), p.PairID, p.Account)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, errors.New("no position")
	}
	accruedA, accruedB := dex.AccruedFees(pair, pos)
	return PositionInfo{
		Shares:      pos.Shares.String(),
		EntryIndexA: pos.EntryIndexA.String(),
		EntryIndexB: pos.EntryIndexB.String(),
		AccruedA:    accruedA.String(),
		AccruedB:    accruedB.String(),
	}, nil
}

func (s *Server) handlePending(params json.RawMessage) (any, error) {
	var p accountPairParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	pending, err := dex.LoadPending(s.engine.View(), p.PairID, p.Account)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return PendingInfo{PendingA: "0", PendingB: "0"}, nil
	}
	return PendingInfo{
		PendingA: pending.PendingA.String(),
		PendingB: pending.PendingB.String(),
	}, nil
}

func (s *Server) handleBalance(params json.RawMessage) (any, error) {
	var p balanceParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Account == "" || p.Asset == "" {
		return nil, errors.New("account and asset are required")
	}
	bal, err := tx.GetBalance(s.engine.View(), p.Account, tx.Asset{Symbol: p.Asset, Native: p.Native})
	if err != nil {
		return nil, err
	}
	return map[string]string{"balance": bal.String()}, nil
}

func (s *Server) handleQuoteSwap(params json.RawMessage) (any, error) {
	var p quoteParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	pair, err := s.pair(p.PairID)
	if err != nil {
		return nil, err
	}
	side, err := parseSide(p.Side)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	out, fee := dex.QuoteSwap(pair, side, amount)
	return QuoteResult{Amount: out.String(), Fee: fee.String()}, nil
}

func (s *Server) handleQuoteSwapReverse(params json.RawMessage) (any, error) {
	var p quoteParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	pair, err := s.pair(p.PairID)
	if err != nil {
		return nil, err
	}
	side, err := parseSide(p.Side)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return nil, err
	}
	in, fee := dex.QuoteSwapReverse(pair, side, amount)
	return QuoteResult{Amount: in.String(), Fee: fee.String()}, nil
}

func (s *Server) handlePreviewFirstLiquidity(params json.RawMessage) (any, error) {
	var p previewParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	pair, err := s.pair(p.PairID)
	if err != nil {
		return nil, err
	}
	amountA, err := parseAmount(p.AmountA)
	if err != nil {
		return nil, err
	}
	amountB, err := parseAmount(p.AmountB)
	if err != nil {
		return nil, err
	}
	shares := dex.PreviewFirstLiquidity(pair, amountA, amountB)
	return map[string]string{"shares": shares.String()}, nil
}

func (s *Server) handlePreviewFirstPrice(params json.RawMessage) (any, error) {
	var p previewParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	amountA, err := parseAmount(p.AmountA)
	if err != nil {
		return nil, err
	}
	amountB, err := parseAmount(p.AmountB)
	if err != nil {
		return nil, err
	}
	price := dex.PreviewFirstPrice(amountA, amountB)
	return map[string]string{"price": price.String()}, nil
}
