package mocks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DataGeneratorTestSuite struct {
	suite.Suite
}

func TestDataGeneratorSuite(t *testing.T) {
	suite.Run(t, new(DataGeneratorTestSuite))
}

func (suite *DataGeneratorTestSuite) TestGenerate() {
	config := DefaultConfig()
	config.Count = 100

	data := NewDataGenerator(42).Generate(config)
	suite.Len(data, 100)

	for i, bar := range data {
		suite.Equal(config.Symbol, bar.Symbol)
		suite.Positive(bar.Low, "bar %d", i)
		suite.GreaterOrEqual(bar.High, bar.Low, "bar %d", i)

		if i > 0 {
			suite.Equal(config.Interval, bar.Time.Sub(data[i-1].Time))
		}
	}
}

func (suite *DataGeneratorTestSuite) TestReproducible() {
	config := DefaultConfig()
	config.Count = 20

	suite.Equal(NewDataGenerator(7).Generate(config), NewDataGenerator(7).Generate(config))
}

func (suite *DataGeneratorTestSuite) TestGenerateAligned() {
	config := DefaultConfig()
	config.Count = 30

	series := NewDataGenerator(1).GenerateAligned([]string{"VTI", "TLT"}, config)
	suite.Len(series, 2)

	for i := range config.Count {
		suite.Equal(series["VTI"][i].Time, series["TLT"][i].Time)
	}
}

func (suite *DataGeneratorTestSuite) TestFromClosesAndWriteCSV() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	data := FromCloses("VTI", start, []float64{100, 101.5})

	suite.Equal(101.5, data[1].Open)
	suite.Equal(start.AddDate(0, 0, 1), data[1].Time)

	path := filepath.Join(suite.T().TempDir(), "VTI.csv")
	suite.Require().NoError(WriteCSV(path, data))

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	suite.Equal([]string{
		"time,open,high,low,close,volume",
		"2024-01-02 00:00:00,100,100,100,100,1000",
		"2024-01-03 00:00:00,101.5,101.5,101.5,101.5,1000",
	}, lines)
}
