package engine

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"gopkg.in/yaml.v3"
)

type BacktestEngineV1Config struct {
	InitialCapital   float64                    `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0,default=10000"`
	Broker           commission_fee.Broker      `yaml:"broker" json:"broker" validate:"oneof=percentage interactive_broker zero_commission" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	CommissionRate   float64                    `yaml:"commission_rate" json:"commission_rate" validate:"gte=0,lt=1" jsonschema:"title=Commission Rate,description=Fraction of traded value charged by the percentage broker,minimum=0,default=0.0025"`
	DecimalPrecision int                        `yaml:"decimal_precision" json:"decimal_precision" validate:"gte=0,lte=8" jsonschema:"title=Decimal Precision,description=Decimal places kept for order quantities,minimum=0,default=0"`
	StartTime        optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime          optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// EmptyConfig returns the default configuration: 10000 USD with a 0.25% percentage commission.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialCapital:   10000,
		Broker:           commission_fee.BrokerPercentage,
		CommissionRate:   commission_fee.DefaultCommissionRate,
		DecimalPrecision: 0,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
	}
}

// TestConfig returns the default configuration bounded to [start, end] with broker.
func TestConfig(start time.Time, end time.Time, broker commission_fee.Broker) BacktestEngineV1Config {
	config := EmptyConfig()
	config.Broker = broker
	config.StartTime = optional.Some(start)
	config.EndTime = optional.Some(end)

	return config
}

// UnmarshalYAML fills unset fields from EmptyConfig and maps the optional time bounds.
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	defaults := EmptyConfig()

	type config struct {
		InitialCapital   *float64               `yaml:"initial_capital"`
		Broker           *commission_fee.Broker `yaml:"broker"`
		CommissionRate   *float64               `yaml:"commission_rate"`
		DecimalPrecision *int                   `yaml:"decimal_precision"`
		StartTime        *time.Time             `yaml:"start_time"`
		EndTime          *time.Time             `yaml:"end_time"`
	}

	var raw config
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*c = defaults

	if raw.InitialCapital != nil {
		c.InitialCapital = *raw.InitialCapital
	}

	if raw.Broker != nil {
		c.Broker = *raw.Broker
	}

	if raw.CommissionRate != nil {
		c.CommissionRate = *raw.CommissionRate
	}

	if raw.DecimalPrecision != nil {
		c.DecimalPrecision = *raw.DecimalPrecision
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// LoadConfig parses and validates an engine configuration. An empty document yields EmptyConfig.
func LoadConfig(content string) (BacktestEngineV1Config, error) {
	config := EmptyConfig()

	if strings.TrimSpace(content) != "" {
		if err := yaml.Unmarshal([]byte(content), &config); err != nil {
			return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse engine config", err)
		}
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

func (c BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid engine config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time is before start_time")
	}

	return nil
}

// CommissionFee returns the fee model selected by Broker.
func (c BacktestEngineV1Config) CommissionFee() commission_fee.CommissionFee {
	return commission_fee.GetCommissionFeeHandler(c.Broker, c.CommissionRate)
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON returns the schema as indented JSON.
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return string(data), nil
}
