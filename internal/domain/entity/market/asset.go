package market

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrAssetNotFound = errors.New("asset not found")

// Asset is a static catalog entry. The catalog is initialized once at
// startup and never mutated afterwards.
type Asset struct {
	Name            string  `yaml:"name" json:"name"`
	Symbol          string  `yaml:"symbol" json:"symbol"`
	Icon            string  `yaml:"icon" json:"icon"`
	InitialQuantity float64 `yaml:"initial_quantity" json:"initial_quantity"`
	BasePrice       float64 `yaml:"base_price" json:"base_price"`
	Volatility      float64 `yaml:"volatility" json:"volatility"`
}

// Catalog is the read-only set of tradable assets.
type Catalog struct {
	assets   []Asset
	bySymbol map[string]Asset
}

// NewCatalog validates the entries and builds the symbol index.
func NewCatalog(assets []Asset) (*Catalog, error) {
	if len(assets) == 0 {
		return nil, errors.New("catalog is empty")
	}
	bySymbol := make(map[string]Asset, len(assets))
	for i, a := range assets {
		if a.Symbol == "" {
			return nil, fmt.Errorf("catalog entry %d: symbol is required", i)
		}
		if a.Symbol != strings.ToUpper(a.Symbol) {
			return nil, fmt.Errorf("catalog entry %s: symbol must be uppercase", a.Symbol)
		}
		if a.BasePrice <= 0 {
			return nil, fmt.Errorf("catalog entry %s: base_price must be positive", a.Symbol)
		}
		if a.InitialQuantity < 0 {
			return nil, fmt.Errorf("catalog entry %s: initial_quantity must not be negative", a.Symbol)
		}
		if a.Volatility <= 0 {
			return nil, fmt.Errorf("catalog entry %s: volatility must be positive", a.Symbol)
		}
		if _, dup := bySymbol[a.Symbol]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate symbol", a.Symbol)
		}
		bySymbol[a.Symbol] = a
	}
	return &Catalog{assets: assets, bySymbol: bySymbol}, nil
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file struct {
		Assets []Asset `yaml:"assets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(file.Assets)
}

// Assets returns the catalog entries in declaration order.
func (c *Catalog) Assets() []Asset {
	return c.assets
}

// Get resolves a symbol, case-insensitively.
func (c *Catalog) Get(symbol string) (Asset, error) {
	a, ok := c.bySymbol[strings.ToUpper(symbol)]
	if !ok {
		return Asset{}, ErrAssetNotFound
	}
	return a, nil
}

// DefaultCatalog is the built-in asset set used when no catalog file
// is configured.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Asset{
		{Name: "Bitcoin", Symbol: "BTC", Icon: "₿", InitialQuantity: 2.5, BasePrice: 94250.0, Volatility: 0.02},
		{Name: "Ethereum", Symbol: "ETH", Icon: "Ξ", InitialQuantity: 10.25, BasePrice: 6015.0, Volatility: 0.025},
		{Name: "Binance Coin", Symbol: "BNB", Icon: "BNB", InitialQuantity: 5.0, BasePrice: 2780.0, Volatility: 0.03},
		{Name: "Cardano", Symbol: "ADA", Icon: "ADA", InitialQuantity: 500.0, BasePrice: 4.00, Volatility: 0.04},
		{Name: "Solana", Symbol: "SOL", Icon: "SOL", InitialQuantity: 25.5, BasePrice: 145.0, Volatility: 0.035},
		{Name: "Polkadot", Symbol: "DOT", Icon: "DOT", InitialQuantity: 100.0, BasePrice: 69.0, Volatility: 0.04},
	})
	if err != nil {
		panic(err)
	}
	return c
}
