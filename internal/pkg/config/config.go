package config

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	Chain ChainConfig
	Geo   GeoConfig
	Redis RedisConfig
}

type ChainConfig struct {
	// RPCURL is the wallet-capable JSON-RPC endpoint. Empty means no
	// provider is installed; the dashboard still serves login but every
	// remote call fails.
	RPCURL          string        `env:"CHAIN_RPC_URL"`
	ContractAddress string        `env:"CHAIN_CONTRACT_ADDRESS, default=0xCFc9917aeFa082CcA081C37bF08eba0131eEF9a9"`
	PollInterval    time.Duration `env:"CHAIN_POLL_INTERVAL,    default=5s"`

	// Transfer pins its execution cost parameters; create and complete
	// delegate to provider defaults. Set TRANSFER_GAS_LIMIT=0 to delegate
	// transfer as well.
	TransferGasLimit     uint64 `env:"TRANSFER_GAS_LIMIT,      default=300000"`
	TransferGasPriceGwei int64  `env:"TRANSFER_GAS_PRICE_GWEI, default=20"`
}

// TransferGasPriceWei converts the configured gwei price to wei, the
// smallest native-currency subunit. Nil when transfer gas is delegated.
func (c ChainConfig) TransferGasPriceWei() *big.Int {
	if c.TransferGasLimit == 0 {
		return nil
	}
	gwei := big.NewInt(c.TransferGasPriceGwei)
	return gwei.Mul(gwei, big.NewInt(1_000_000_000))
}

type GeoConfig struct {
	LookupURL string        `env:"GEO_LOOKUP_URL"`
	Timeout   time.Duration `env:"GEO_TIMEOUT, default=5s"`
}

type RedisConfig struct {
	// Addr left empty disables the batch read cache entirely.
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,        default=0"`
	CacheTTL time.Duration `env:"BATCH_CACHE_TTL, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
