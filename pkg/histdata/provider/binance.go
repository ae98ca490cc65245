package provider

import (
	"context"
	"fmt"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/histdata/internal/types"
)

type BinanceClient struct {
	client *binance.Client
}

// NewBinanceClient creates a Binance provider. The public market data API
// does not require authentication.
func NewBinanceClient() (Provider, error) {
	client := binance.NewClient("", "")

	return &BinanceClient{
		client: client,
	}, nil
}

func (c *BinanceClient) Name() string {
	return string(ProviderBinance)
}

// Fetch downloads klines for the request window, paginating through the
// 500-record API limit, and converts them into bars.
func (c *BinanceClient) Fetch(ctx context.Context, req Request, onProgress OnProgress) ([]types.Bar, error) {
	interval, err := binanceInterval(req.Timespan, req.Multiplier)
	if err != nil {
		return nil, err
	}

	startMillis := req.WindowStart.UnixMilli()
	endMillis := req.WindowEnd.UnixMilli()
	currentStart := startMillis

	var bars []types.Bar

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(req.Symbol).
			Interval(interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch klines from Binance: %w", err)
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis),
				fmt.Sprintf("Fetching %s klines from Binance", req.Symbol))
		}

		converted, err := convertKlines(klines)
		if err != nil {
			return nil, err
		}

		bars = append(bars, converted...)

		// Last page: no data or fewer records than the API page size.
		if len(klines) < 500 {
			break
		}

		currentStart = klines[len(klines)-1].CloseTime + 1
	}

	return bars, nil
}

func convertKlines(klines []*binance.Kline) ([]types.Bar, error) {
	bars := make([]types.Bar, 0, len(klines))

	for _, k := range klines {
		open, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kline open %q: %w", k.Open, err)
		}

		high, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kline high %q: %w", k.High, err)
		}

		low, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kline low %q: %w", k.Low, err)
		}

		closePrice, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kline close %q: %w", k.Close, err)
		}

		volume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kline volume %q: %w", k.Volume, err)
		}

		bars = append(bars, types.Bar{
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume.IntPart(),
		})
	}

	return bars, nil
}

// binanceInterval converts a multiplier and timespan into a Binance kline
// interval string. Combinations outside Binance's interval set are rejected.
func binanceInterval(timespan models.Timespan, multiplier int) (string, error) {
	supported := map[models.Timespan]map[int]string{
		models.Second: {1: "1s"},
		models.Minute: {1: "1m", 3: "3m", 5: "5m", 15: "15m", 30: "30m"},
		models.Hour:   {1: "1h", 2: "2h", 4: "4h", 6: "6h", 8: "8h", 12: "12h"},
		models.Day:    {1: "1d", 3: "3d"},
		models.Week:   {1: "1w"},
		models.Month:  {1: "1M"},
	}

	byMultiplier, ok := supported[timespan]
	if !ok {
		return "", fmt.Errorf("unsupported timespan for Binance: %s", timespan)
	}

	interval, ok := byMultiplier[multiplier]
	if !ok {
		return "", fmt.Errorf("unsupported interval for Binance: %d %s", multiplier, timespan)
	}

	return interval, nil
}
