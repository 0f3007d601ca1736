package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, LedgerSheets, cfg.Ledger.Kind)
	assert.Equal(t, 32.5, cfg.Market.FallbackUSDToNTD)
	assert.Equal(t, "GC=F", cfg.Market.SymbolAliases["XAU"])
	assert.Equal(t, "Crypto", cfg.Portfolio.ClassifierTickers["BTC"])
	assert.Equal(t, "NTD", cfg.Portfolio.CategoryCurrencies["Stock-TW"])
	assert.Equal(t, 1000, cfg.Portfolio.CategoryLotSizes["Stock-TW"])

	require.Len(t, cfg.Portfolio.Benchmarks, 4)
	assert.Equal(t, Benchmark{Label: "sp500", Symbol: "^GSPC", Name: "S&P 500", Color: "#3b82f6"}, cfg.Portfolio.Benchmarks[0])
	assert.Equal(t, "USDT-USD", cfg.Portfolio.Benchmarks[3].Symbol)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEDGER_KIND", LedgerMemory)
	t.Setenv("TELEGRAM_ALLOWED_CHATS", "1,2")
	t.Setenv("BENCHMARKS", "nasdaq|^IXIC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LedgerMemory, cfg.Ledger.Kind)
	assert.Equal(t, []int64{1, 2}, cfg.Telegram.AllowedChats)
	assert.Equal(t, []Benchmark{{Label: "nasdaq", Symbol: "^IXIC", Name: "nasdaq"}}, cfg.Portfolio.Benchmarks)
}

func TestLoadRejectsUnknownLedger(t *testing.T) {
	t.Setenv("LEDGER_KIND", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestBenchmarkUnmarshalText(t *testing.T) {
	var b Benchmark
	require.NoError(t, b.UnmarshalText([]byte("btc|BTC-USD||#f59e0b")))
	assert.Equal(t, Benchmark{Label: "btc", Symbol: "BTC-USD", Name: "btc", Color: "#f59e0b"}, b)

	assert.Error(t, b.UnmarshalText([]byte("btc")))
	assert.Error(t, b.UnmarshalText([]byte("|BTC-USD")))
}
