package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	engine "github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-rotation/internal/strategy"
	"github.com/rxtech-lab/argo-rotation/mocks"
	"gopkg.in/yaml.v3"
)

const (
	configDir = "./config"
	dataDir   = "./data"

	engineSchemaName   = "backtest-engine-v1-config.json"
	strategySchemaName = "sma-rotation-config.json"

	syntheticSeed = 42
)

// sampleEngineConfig is the engine config without its optional time bounds.
type sampleEngineConfig struct {
	InitialCapital   float64 `yaml:"initial_capital"`
	Broker           string  `yaml:"broker"`
	CommissionRate   float64 `yaml:"commission_rate"`
	DecimalPrecision int     `yaml:"decimal_precision"`
}

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(schemaName string) error {
	if schemaName == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(schemaName, ".json") {
		return fmt.Errorf("schema name must have .json extension")
	}

	return nil
}

func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}

func generateSchemaFile(schemaJSON string, schemaPath string) error {
	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes sample as YAML unless samplePath already exists.
func generateSampleConfig(sample any, samplePath string, schemaName string) error {
	if _, err := os.Stat(samplePath); !os.IsNotExist(err) {
		return nil
	}

	yamlBytes, err := yaml.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", samplePath)

	return nil
}

// generateSyntheticData writes one aligned year of daily bars per instrument unless the file exists.
func generateSyntheticData(dir string, symbols []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	generator := mocks.NewDataGenerator(syntheticSeed)

	for symbol, bars := range generator.GenerateAligned(symbols, mocks.DefaultConfig()) {
		path := filepath.Join(dir, fmt.Sprintf("%s_synthetic.csv", symbol))
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}

		if err := mocks.WriteCSV(path, bars); err != nil {
			return fmt.Errorf("failed to write synthetic data for %s: %w", symbol, err)
		}

		log.Printf("Synthetic data for %s generated at %s", symbol, path)
	}

	return nil
}

func generate(schemaName string, schemaJSON string, sample any) error {
	if err := validateSchemaName(schemaName); err != nil {
		return err
	}

	schemaPath := filepath.Join(configDir, schemaName)
	samplePath := filepath.Join(configDir, strings.TrimSuffix(schemaName, ".json")+".yaml")

	if err := validatePaths(schemaPath, samplePath); err != nil {
		return err
	}

	if err := generateSchemaFile(schemaJSON, schemaPath); err != nil {
		return err
	}

	if err := generateSampleConfig(sample, samplePath, schemaName); err != nil {
		return err
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	return nil
}

func main() {
	engineConfig := engine.EmptyConfig()

	engineSchema, err := engineConfig.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate engine schema: %v", err)
	}

	err = generate(engineSchemaName, engineSchema, sampleEngineConfig{
		InitialCapital:   engineConfig.InitialCapital,
		Broker:           string(engineConfig.Broker),
		CommissionRate:   engineConfig.CommissionRate,
		DecimalPrecision: engineConfig.DecimalPrecision,
	})
	if err != nil {
		log.Fatalf("Failed to generate engine config: %v", err)
	}

	strategySchema, err := strategy.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate strategy schema: %v", err)
	}

	strategyConfig := strategy.DefaultConfig()
	if err := generate(strategySchemaName, strategySchema, strategyConfig); err != nil {
		log.Fatalf("Failed to generate strategy config: %v", err)
	}

	if err := generateSyntheticData(dataDir, []string{strategyConfig.InstrumentA, strategyConfig.InstrumentB}); err != nil {
		log.Fatalf("Failed to generate synthetic data: %v", err)
	}
}
