package histdata

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/histdata/internal/types"
)

type FilenameTestSuite struct {
	suite.Suite
}

func TestFilenameSuite(t *testing.T) {
	suite.Run(t, new(FilenameTestSuite))
}

func (suite *FilenameTestSuite) TestFilename() {
	tests := []struct {
		name         string
		symbol       string
		securityType types.SecurityType
		duration     Duration
		timeframe    Timeframe
		futureMonth  string
		extended     bool
		expected     string
	}{
		{
			name:         "stock regular hours",
			symbol:       "SPY",
			securityType: types.SecurityStock,
			duration:     Duration{Magnitude: 30, Unit: UnitDay},
			timeframe:    Timeframe1Min,
			expected:     "SPY_STK_30D_1m_OHLCV.csv",
		},
		{
			name:         "extended hours marker",
			symbol:       "SPY",
			securityType: types.SecurityStock,
			duration:     Duration{Magnitude: 30, Unit: UnitDay},
			timeframe:    Timeframe1Min,
			extended:     true,
			expected:     "SPY_STK_30D_1m_ETH_OHLCV.csv",
		},
		{
			name:         "symbol uppercased",
			symbol:       "spy",
			securityType: types.SecurityStock,
			duration:     Duration{Magnitude: 30, Unit: UnitDay},
			timeframe:    Timeframe1Min,
			expected:     "SPY_STK_30D_1m_OHLCV.csv",
		},
		{
			name:         "forex",
			symbol:       "EURUSD",
			securityType: types.SecurityForex,
			duration:     Duration{Magnitude: 6, Unit: UnitMonth},
			timeframe:    Timeframe1Hour,
			expected:     "EURUSD_CASH_6M_1h_OHLCV.csv",
		},
		{
			name:         "future with contract month",
			symbol:       "ES",
			securityType: types.SecurityFuture,
			duration:     Duration{Magnitude: 1, Unit: UnitYear},
			timeframe:    Timeframe1Day,
			futureMonth:  "202406",
			expected:     "ES_FUT_202406_1Y_1d_OHLCV.csv",
		},
		{
			name:         "contract month ignored for stocks",
			symbol:       "SPY",
			securityType: types.SecurityStock,
			duration:     Duration{Magnitude: 30, Unit: UnitDay},
			timeframe:    Timeframe1Min,
			futureMonth:  "202406",
			expected:     "SPY_STK_30D_1m_OHLCV.csv",
		},
		{
			name:         "month timeframe keeps uppercase M",
			symbol:       "SPY",
			securityType: types.SecurityStock,
			duration:     Duration{Magnitude: 5, Unit: UnitYear},
			timeframe:    Timeframe1Month,
			expected:     "SPY_STK_5Y_1M_OHLCV.csv",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			got := Filename(tc.symbol, tc.securityType, tc.duration, tc.timeframe, tc.futureMonth, tc.extended)
			suite.Equal(tc.expected, got)
		})
	}
}

func (suite *FilenameTestSuite) TestFilenameDeterministic() {
	d := Duration{Magnitude: 30, Unit: UnitDay}

	first := Filename("SPY", types.SecurityStock, d, Timeframe5Mins, "", false)
	second := Filename("SPY", types.SecurityStock, d, Timeframe5Mins, "", false)

	suite.Equal(first, second)
}
