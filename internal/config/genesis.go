package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GenesisBalance is one initial funding entry.
type GenesisBalance struct {
	Account string `json:"account"`
	Asset   string `json:"asset"`
	Native  bool   `json:"native"`
	Amount  string `json:"amount"`
}

// Genesis is the initial ledger content, applied once when the node
// starts on an empty database.
type Genesis struct {
	Balances []GenesisBalance `json:"balances"`
}

// LoadGenesis reads a genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file %s: %w", path, err)
	}
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse genesis file %s: %w", path, err)
	}
	for i, b := range g.Balances {
		if b.Account == "" || b.Asset == "" || b.Amount == "" {
			return nil, fmt.Errorf("genesis balance %d is incomplete", i)
		}
	}
	return &g, nil
}
