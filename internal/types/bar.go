package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecurityType identifies the kind of instrument a request targets.
type SecurityType string

const (
	SecurityStock  SecurityType = "STK"
	SecurityForex  SecurityType = "CASH"
	SecurityFuture SecurityType = "FUT"
)

// SessionMode selects between regular and extended trading hours.
type SessionMode string

const (
	SessionRegular  SessionMode = "regular"
	SessionExtended SessionMode = "extended"
)

// Bar is a single OHLCV record returned by a data provider.
// Time is always UTC. RawTime carries the provider's original timestamp
// text when it could not be interpreted; in that case Time is the zero value
// and downstream formatting passes RawTime through unmodified.
type Bar struct {
	Time    time.Time
	RawTime string
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  int64
}

// OutputRow is a Bar whose timestamp has been rendered into the target
// timezone as either a date-only or date-time string. Rows are immutable
// once produced.
type OutputRow struct {
	Timestamp string
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
}
