package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/errors"
)

type CSVWriterTestSuite struct {
	suite.Suite
	dir string
}

func TestCSVWriterSuite(t *testing.T) {
	suite.Run(t, new(CSVWriterTestSuite))
}

func (suite *CSVWriterTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *CSVWriterTestSuite) sampleRow() types.OutputRow {
	return types.OutputRow{
		Timestamp: "2024-01-15 14:30:00",
		Open:      decimal.NewFromFloat(100.5),
		High:      decimal.NewFromFloat(101),
		Low:       decimal.NewFromFloat(100.25),
		Close:     decimal.NewFromFloat(100.75),
		Volume:    1500,
	}
}

func (suite *CSVWriterTestSuite) TestWriteRows() {
	target := filepath.Join(suite.dir, "out.csv")
	w := NewCSVWriter(target)

	suite.Require().NoError(w.Initialize([]string{"DateTime_UTC", "Open", "High", "Low", "Close", "Volume"}))
	suite.Require().NoError(w.WriteRow(suite.sampleRow()))

	path, err := w.Finalize()
	suite.NoError(err)
	suite.Equal(target, path)
	suite.NoError(w.Close())

	raw, readErr := os.ReadFile(target)
	suite.Require().NoError(readErr)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	suite.Require().Len(lines, 2)
	suite.Equal("DateTime_UTC,Open,High,Low,Close,Volume", lines[0])
	suite.Equal("2024-01-15 14:30:00,100.5,101,100.25,100.75,1500", lines[1])
}

func (suite *CSVWriterTestSuite) TestWriteRowBeforeInitialize() {
	w := NewCSVWriter(filepath.Join(suite.dir, "out.csv"))

	err := w.WriteRow(suite.sampleRow())
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}

func (suite *CSVWriterTestSuite) TestInitializeFailsOnMissingDirectory() {
	w := NewCSVWriter(filepath.Join(suite.dir, "missing", "out.csv"))

	err := w.Initialize([]string{"Date"})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}

func (suite *CSVWriterTestSuite) TestPermissionErrorCarriesGuidance() {
	if os.Getuid() == 0 {
		suite.T().Skip("permission bits are not enforced for root")
	}

	locked := filepath.Join(suite.dir, "locked")
	suite.Require().NoError(os.Mkdir(locked, 0o500))

	suite.T().Cleanup(func() {
		os.Chmod(locked, 0o700)
	})

	w := NewCSVWriter(filepath.Join(locked, "out.csv"))

	err := w.Initialize([]string{"Date"})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
	suite.Contains(err.Error(), "permission denied")
	suite.Contains(err.Error(), "read-only attribute")
}

func (suite *CSVWriterTestSuite) TestCloseWithoutFinalize() {
	target := filepath.Join(suite.dir, "out.csv")
	w := NewCSVWriter(target)

	suite.Require().NoError(w.Initialize([]string{"Date"}))
	suite.NoError(w.Close())
	suite.NoError(w.Close())
}

func (suite *CSVWriterTestSuite) TestOutputPath() {
	target := filepath.Join(suite.dir, "out.csv")
	suite.Equal(target, NewCSVWriter(target).OutputPath())
}
