package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/coinbase-public/pkg/coinbase"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "watchlist.yaml", `
watches:
  - id: btc
    pair: btc-usd
    kinds: [BUY, sell, buy]
  - pair: ETH-EUR
  - id: off
    pair: LTC-USD
    enabled: false
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	btc, ok := reg.ByID("btc")
	if !ok {
		t.Fatalf("expected btc watch")
	}
	if btc.Pair != "BTC-USD" {
		t.Fatalf("Pair = %q", btc.Pair)
	}
	kinds := btc.PriceKinds()
	if len(kinds) != 2 || kinds[0] != coinbase.PriceBuy || kinds[1] != coinbase.PriceSell {
		t.Fatalf("PriceKinds = %#v", kinds)
	}

	eth, ok := reg.ByID("eth-eur")
	if !ok {
		t.Fatalf("expected id to default to the lower-cased pair")
	}
	if len(eth.Kinds) != 1 || eth.Kinds[0] != "spot" {
		t.Fatalf("expected default kind spot, got %#v", eth.Kinds)
	}

	enabled := reg.Enabled()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled watches, got %d", len(enabled))
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 watches, got %d", len(reg.All()))
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "watchlist.json", `{"watches":[{"pair":"BTC-GBP","kinds":["spot"]}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("btc-gbp"); !ok {
		t.Fatalf("expected btc-gbp watch")
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": "watches:\n  - pair: BTC-USD\n  - pair: btc-usd\n",
		"bad pair":  "watches:\n  - pair: BTCUSD\n",
		"bad kind":  "watches:\n  - pair: BTC-USD\n    kinds: [mid]\n",
		"empty":     "watches: []\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "watchlist.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadRegistryRequiresPath(t *testing.T) {
	if _, err := LoadRegistry(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
