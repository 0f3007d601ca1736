package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	LedgerSheets   = "sheets"
	LedgerPostgres = "postgres"
	LedgerMemory   = "memory"
)

type Config struct {
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	HTTP         HTTP
	Ledger       Ledger
	GoogleSheets GoogleSheets
	Postgres     Postgres
	Redis        Redis
	API          API
	Cache        Cache
	Jobs         Jobs
	Market       Market
	Portfolio    Portfolio
	Telegram     Telegram
}

type HTTP struct {
	Port    int    `env:"HTTP_PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

type Ledger struct {
	Kind string `env:"LEDGER_KIND" envDefault:"sheets"`
}

type GoogleSheets struct {
	CredentialsFile   string `env:"GOOGLE_SHEETS_CREDENTIALS_FILE" envDefault:""`
	SpreadsheetID     string `env:"GOOGLE_SHEETS_ID" envDefault:""`
	TransactionsSheet string `env:"GOOGLE_SHEETS_TRANSACTIONS_TITLE" envDefault:"Transactions"`
	LiabilitiesSheet  string `env:"GOOGLE_SHEETS_LIABILITIES_TITLE" envDefault:"Liabilities"`
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	DbName          string `env:"PG_DB_NAME" envDefault:"networth"`
	Password        string `env:"PG_PASSWORD" envDefault:""`
	User            string `env:"PG_USER" envDefault:"postgres"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"./migrations"`
}

type Redis struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug      bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	YahooApi   YahooApi
	FinnhubApi FinnhubApi
}

type YahooApi struct {
	Url       string `env:"YAHOO_API_URL" envDefault:"https://query2.finance.yahoo.com"`
	UserAgent string `env:"YAHOO_USER_AGENT" envDefault:"Mozilla/5.0 (networth-dashboard)"`
}

type FinnhubApi struct {
	Url    string `env:"FINNHUB_API_URL" envDefault:"https://finnhub.io/api/v1"`
	ApiKey string `env:"FINNHUB_API_KEY" envDefault:""`
}

type Cache struct {
	QuotesExpiration  time.Duration `env:"CACHE_QUOTES_EXPIRATION" envDefault:"1m"`
	HistoryExpiration time.Duration `env:"CACHE_HISTORY_EXPIRATION" envDefault:"1h"`
}

type Jobs struct {
	WarmQuotesInterval time.Duration `env:"WARM_QUOTES_JOB_INTERVAL" envDefault:"5m"`
	RefreshNewsCrontab string        `env:"REFRESH_NEWS_JOB_CRONTAB" envDefault:"CRON_TZ=America/New_York 0 0 9 * * *"`
}

type Market struct {
	HistoryBatchSize int               `env:"HISTORY_BATCH_SIZE" envDefault:"5"`
	FallbackUSDToNTD float64           `env:"FALLBACK_USD_NTD_RATE" envDefault:"32.5"`
	SymbolAliases    map[string]string `env:"SYMBOL_ALIASES" envDefault:"XAU:GC=F"`
}

type Portfolio struct {
	ClassifierTickers  map[string]string `env:"CLASSIFIER_TICKERS" envDefault:"BTC:Crypto,ETH:Crypto,SOL:Crypto,USDT:Crypto,USDC:Crypto,USD:Cash,NTD:Cash,GLD:Gold,GOLD:Gold,XAU:Gold,IAU:Gold"`
	CategoryCurrencies map[string]string `env:"CATEGORY_CURRENCIES" envDefault:"Stock-US:USD,Stock-TW:NTD,Crypto:USD,Gold:USD,Cash:USD"`
	CategoryLotSizes   map[string]int    `env:"CATEGORY_LOT_SIZES" envDefault:"Stock-TW:1000"`
	Benchmarks         []Benchmark       `env:"BENCHMARKS" envDefault:"sp500|^GSPC|S&P 500|#3b82f6,taiwan0050|0050.TW|Taiwan 0050|#10b981,btc|BTC-USD|BTC|#f59e0b,usdt|USDT-USD|USDT|#6b7280"`
}

type Telegram struct {
	Token        string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout   time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	AllowedChats []int64       `env:"TELEGRAM_ALLOWED_CHATS" envDefault:""`
}

// Benchmark is parsed from "label|symbol|name|color".
type Benchmark struct {
	Label  string
	Symbol string
	Name   string
	Color  string
}

func (b *Benchmark) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), "|")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid benchmark %q, want label|symbol[|name[|color]]", string(text))
	}

	b.Label, b.Symbol = parts[0], parts[1]
	b.Name = b.Label
	if len(parts) > 2 && parts[2] != "" {
		b.Name = parts[2]
	}
	if len(parts) > 3 {
		b.Color = parts[3]
	}
	return nil
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	switch cfg.Ledger.Kind {
	case LedgerSheets, LedgerPostgres, LedgerMemory:
	default:
		return nil, fmt.Errorf("unknown LEDGER_KIND %q", cfg.Ledger.Kind)
	}

	return cfg, nil
}
