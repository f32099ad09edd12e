package strategy

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFastPeriod  = 10
	DefaultSlowPeriod  = 20
	DefaultInstrumentA = "VTI"
	DefaultInstrumentB = "TLT"
)

// Config configures an SMARotation strategy. InstrumentA has priority over InstrumentB
// when both cross up on the same bar.
type Config struct {
	FastPeriod  int    `yaml:"fast_period" json:"fast_period" validate:"required,gt=0" jsonschema:"title=Fast Period,description=Window length of the fast moving average,minimum=1,default=10"`
	SlowPeriod  int    `yaml:"slow_period" json:"slow_period" validate:"required,gt=0" jsonschema:"title=Slow Period,description=Window length of the slow moving average,minimum=1,default=20"`
	InstrumentA string `yaml:"instrument_a" json:"instrument_a" validate:"required,nefield=InstrumentB" jsonschema:"title=Instrument A,description=Primary instrument. Wins when both instruments cross up on the same bar,default=VTI"`
	InstrumentB string `yaml:"instrument_b" json:"instrument_b" validate:"required" jsonschema:"title=Instrument B,description=Secondary instrument,default=TLT"`
}

// DefaultConfig returns the 10/20 VTI/TLT configuration.
func DefaultConfig() Config {
	return Config{
		FastPeriod:  DefaultFastPeriod,
		SlowPeriod:  DefaultSlowPeriod,
		InstrumentA: DefaultInstrumentA,
		InstrumentB: DefaultInstrumentB,
	}
}

// LoadConfig parses a yaml document on top of DefaultConfig and validates the result.
// An empty document yields the defaults.
func LoadConfig(data string) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(data), &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse strategy config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks window lengths are positive and the two instruments are set and distinct.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid strategy config", err)
	}

	return nil
}

// GenerateSchemaJSON returns the JSON schema of Config.
func GenerateSchemaJSON() (string, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "sma-rotation-config"
	schema.Description = "Configuration schema for the SMA rotation strategy"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal strategy schema", err)
	}

	return string(data), nil
}
