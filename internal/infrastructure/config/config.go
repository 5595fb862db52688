package config

import (
	"fmt"
	"strings"

	"repair_costing/internal/domain/entities"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

type Config struct {
	App      AppConfig
	AWS      AWSConfig
	Tables   TablesConfig
	Rates    RatesConfig
	Payments PaymentsConfig
}

// Load reads the process environment. cmd/api loads .env first through
// godotenv/autoload.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	switch cfg.App.Storage {
	case StorageDynamoDB, StorageMemory:
	default:
		return nil, fmt.Errorf("parsing config: STORAGE_DRIVER must be %s or %s, got %q", StorageDynamoDB, StorageMemory, cfg.App.Storage)
	}
	if err := cfg.Rates.Snapshot().Validate(); err != nil {
		return nil, fmt.Errorf("parsing config: default rates: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Port      string `envconfig:"PORT" default:"8080"`
	GinMode   string `envconfig:"GIN_MODE" default:"debug"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	Storage   string `envconfig:"STORAGE_DRIVER" default:"dynamodb"`
}

// AWSConfig: local DynamoDB does not validate credentials, but the SDK needs some.
type AWSConfig struct {
	Region           string `envconfig:"AWS_REGION" default:"us-east-1"`
	AccessKeyID      string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
	SecretAccessKey  string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
}

type TablesConfig struct {
	Assessments string `envconfig:"DDB_TABLE_ASSESSMENTS" default:"assessments"`
	Estimates   string `envconfig:"DDB_TABLE_ESTIMATES" default:"estimates"`
	Additionals string `envconfig:"DDB_TABLE_ADDITIONALS" default:"additionals"`
	FRC         string `envconfig:"DDB_TABLE_FRC" default:"frc"`
	Audit       string `envconfig:"DDB_TABLE_AUDIT" default:"audit_events"`
	Rates       string `envconfig:"DDB_TABLE_RATES" default:"rate_settings"`
	Payments    string `envconfig:"DDB_TABLE_PAYMENTS" default:"billing_payments"`
}

// RatesConfig seeds the global rates when the rates table has no row.
type RatesConfig struct {
	LabourRate        decimal.Decimal `envconfig:"DEFAULT_LABOUR_RATE" default:"450"`
	PaintRate         decimal.Decimal `envconfig:"DEFAULT_PAINT_RATE" default:"550"`
	OEMMarkup         decimal.Decimal `envconfig:"DEFAULT_OEM_MARKUP" default:"25"`
	AlternativeMarkup decimal.Decimal `envconfig:"DEFAULT_ALTERNATIVE_MARKUP" default:"25"`
	SecondHandMarkup  decimal.Decimal `envconfig:"DEFAULT_SECOND_HAND_MARKUP" default:"25"`
	OutworkMarkup     decimal.Decimal `envconfig:"DEFAULT_OUTWORK_MARKUP" default:"25"`
	VATPercentage     decimal.Decimal `envconfig:"DEFAULT_VAT_PERCENTAGE" default:"15"`
}

func (r RatesConfig) Snapshot() entities.RateSnapshot {
	return entities.RateSnapshot{
		LabourRate: r.LabourRate,
		PaintRate:  r.PaintRate,
		Markups: entities.Markups{
			OEM:         r.OEMMarkup,
			Alternative: r.AlternativeMarkup,
			SecondHand:  r.SecondHandMarkup,
			Outwork:     r.OutworkMarkup,
		},
		VATPercentage: r.VATPercentage,
	}
}

type PaymentsConfig struct {
	AccessToken     string `envconfig:"MERCADOPAGO_ACCESS_TOKEN"`
	TestPayerEmail  string `envconfig:"MERCADOPAGO_TEST_PAYER_EMAIL"`
	TestPayerUserID string `envconfig:"MERCADOPAGO_TEST_PAYER_USER_ID"`
	GatewayMock     string `envconfig:"PAYMENT_GATEWAY_MOCK"`
	MercadoPagoMock string `envconfig:"MERCADOPAGO_MOCK"`
}

// MockEnabled accepts 1, true, yes, on or mock in either flag.
func (p PaymentsConfig) MockEnabled() bool {
	for _, v := range []string{p.GatewayMock, p.MercadoPagoMock} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
