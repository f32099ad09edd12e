package main

import (
	"os"
	"path/filepath"
	"testing"

	engine "github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-rotation/internal/strategy"
	"github.com/stretchr/testify/suite"
)

type GenerateCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func TestGenerateCmdSuite(t *testing.T) {
	suite.Run(t, new(GenerateCmdTestSuite))
}

func (suite *GenerateCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.T().Chdir(suite.tempDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

func (suite *GenerateCmdTestSuite) TestMainGeneratesEverything() {
	main()

	for _, name := range []string{
		engineSchemaName,
		"backtest-engine-v1-config.yaml",
		strategySchemaName,
		"sma-rotation-config.yaml",
	} {
		suite.True(fileExists(filepath.Join(suite.tempDir, "config", name)), name)
	}

	suite.True(fileExists(filepath.Join(suite.tempDir, "data", "VTI_synthetic.csv")))
	suite.True(fileExists(filepath.Join(suite.tempDir, "data", "TLT_synthetic.csv")))
}

func (suite *GenerateCmdTestSuite) TestSampleConfigsLoadBack() {
	main()

	engineContent, err := os.ReadFile(filepath.Join(suite.tempDir, "config", "backtest-engine-v1-config.yaml"))
	suite.Require().NoError(err)
	suite.Contains(string(engineContent), "# yaml-language-server: $schema="+engineSchemaName)

	engineConfig, err := engine.LoadConfig(string(engineContent))
	suite.Require().NoError(err)
	suite.Equal(engine.EmptyConfig().InitialCapital, engineConfig.InitialCapital)

	strategyContent, err := os.ReadFile(filepath.Join(suite.tempDir, "config", "sma-rotation-config.yaml"))
	suite.Require().NoError(err)

	strategyConfig, err := strategy.LoadConfig(string(strategyContent))
	suite.Require().NoError(err)
	suite.Equal(strategy.DefaultConfig(), strategyConfig)
}

func (suite *GenerateCmdTestSuite) TestExistingFilesNotOverwritten() {
	main()

	samplePath := filepath.Join(suite.tempDir, "config", "sma-rotation-config.yaml")
	dataPath := filepath.Join(suite.tempDir, "data", "VTI_synthetic.csv")
	suite.Require().NoError(os.WriteFile(samplePath, []byte("fast_period: 5\n"), 0644))
	suite.Require().NoError(os.WriteFile(dataPath, []byte("existing"), 0644))

	main()

	content, err := os.ReadFile(samplePath)
	suite.Require().NoError(err)
	suite.Equal("fast_period: 5\n", string(content))

	data, err := os.ReadFile(dataPath)
	suite.Require().NoError(err)
	suite.Equal("existing", string(data))
}

func (suite *GenerateCmdTestSuite) TestGenerateSchemaFileInvalidPath() {
	blocker := filepath.Join(suite.tempDir, "blocker")
	suite.Require().NoError(os.WriteFile(blocker, []byte("file"), 0644))

	err := generateSchemaFile("{}", filepath.Join(blocker, "schema.json"))
	suite.Error(err)
	suite.Contains(err.Error(), "failed to")
}

func (suite *GenerateCmdTestSuite) TestValidatePaths() {
	suite.NoError(validatePaths("/some/path/schema.json", "/some/path/config.yaml"))

	err := validatePaths("", "/some/path/config.yaml")
	suite.ErrorContains(err, "schema path cannot be empty")

	err = validatePaths("/some/path/schema.json", "")
	suite.ErrorContains(err, "sample config path cannot be empty")
}

func (suite *GenerateCmdTestSuite) TestValidateSchemaName() {
	suite.NoError(validateSchemaName("my-schema-file.json"))
	suite.ErrorContains(validateSchemaName(""), "schema name cannot be empty")
	suite.ErrorContains(validateSchemaName("schema.txt"), "must have .json extension")
}

func (suite *GenerateCmdTestSuite) TestGetSchemaReference() {
	suite.Equal("# yaml-language-server: $schema=test-schema.json\n", getSchemaReference("test-schema.json"))
}
