package histdata

import (
	"testing"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type TimeframeTestSuite struct {
	suite.Suite
}

func TestTimeframeSuite(t *testing.T) {
	suite.Run(t, new(TimeframeTestSuite))
}

func (suite *TimeframeTestSuite) TestCatalogSize() {
	suite.Len(Timeframes(), 21)
}

func (suite *TimeframeTestSuite) TestParseTimeframe() {
	tf, err := ParseTimeframe("5 mins")
	suite.NoError(err)
	suite.Equal(Timeframe5Mins, tf)

	_, err = ParseTimeframe("7 mins")
	suite.Error(err)
}

func (suite *TimeframeTestSuite) TestIntraday() {
	dailyPlus := map[Timeframe]bool{
		Timeframe1Day:   true,
		Timeframe1Week:  true,
		Timeframe1Month: true,
	}

	intradayCount := 0

	for _, tf := range Timeframes() {
		if dailyPlus[tf] {
			suite.False(tf.Intraday(), "expected %s to be daily+", tf)
		} else {
			suite.True(tf.Intraday(), "expected %s to be intraday", tf)
			intradayCount++
		}
	}

	suite.Equal(18, intradayCount)
}

func (suite *TimeframeTestSuite) TestSubMinuteRisk() {
	risky := []Timeframe{Timeframe1Sec, Timeframe5Secs, Timeframe10Secs, Timeframe15Secs, Timeframe30Secs}
	for _, tf := range risky {
		suite.True(tf.SubMinuteRisk(), "expected %s to carry sub-minute risk", tf)
	}

	suite.False(Timeframe1Min.SubMinuteRisk())
	suite.False(Timeframe1Day.SubMinuteRisk())
}

func (suite *TimeframeTestSuite) TestMultiplier() {
	tests := []struct {
		timeframe Timeframe
		expected  int
	}{
		{Timeframe1Sec, 1},
		{Timeframe30Secs, 30},
		{Timeframe5Mins, 5},
		{Timeframe20Mins, 20},
		{Timeframe4Hours, 4},
		{Timeframe1Day, 1},
	}

	for _, tc := range tests {
		suite.Run(string(tc.timeframe), func() {
			suite.Equal(tc.expected, tc.timeframe.Multiplier())
		})
	}
}

func (suite *TimeframeTestSuite) TestTimespan() {
	tests := []struct {
		timeframe Timeframe
		expected  models.Timespan
	}{
		{Timeframe5Secs, models.Second},
		{Timeframe30Mins, models.Minute},
		{Timeframe8Hours, models.Hour},
		{Timeframe1Day, models.Day},
		{Timeframe1Week, models.Week},
		{Timeframe1Month, models.Month},
	}

	for _, tc := range tests {
		suite.Run(string(tc.timeframe), func() {
			suite.Equal(tc.expected, tc.timeframe.Timespan())
		})
	}
}

func (suite *TimeframeTestSuite) TestAbbrev() {
	tests := []struct {
		timeframe Timeframe
		expected  string
	}{
		{Timeframe1Sec, "1s"},
		{Timeframe30Secs, "30s"},
		{Timeframe1Min, "1m"},
		{Timeframe5Mins, "5m"},
		{Timeframe1Hour, "1h"},
		{Timeframe1Day, "1d"},
		{Timeframe1Week, "1w"},
		{Timeframe1Month, "1M"},
	}

	for _, tc := range tests {
		suite.Run(string(tc.timeframe), func() {
			suite.Equal(tc.expected, tc.timeframe.Abbrev())
		})
	}
}

func (suite *TimeframeTestSuite) TestAvailabilityWarnings() {
	suite.Empty(Timeframe1Day.AvailabilityWarnings(Duration{Magnitude: 2, Unit: UnitYear}))
	suite.Empty(Timeframe1Min.AvailabilityWarnings(Duration{Magnitude: 1, Unit: UnitYear}))

	warnings := Timeframe5Secs.AvailabilityWarnings(Duration{Magnitude: 30, Unit: UnitDay})
	suite.Len(warnings, 2)

	// Year-scale spans on sub-minute bars add a dataset-size warning.
	warnings = Timeframe5Secs.AvailabilityWarnings(Duration{Magnitude: 1, Unit: UnitYear})
	suite.Len(warnings, 3)
}
