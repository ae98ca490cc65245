package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/histdata/internal/types"
)

type PolygonClient struct {
	client *polygon.Client
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	client := polygon.New(apiKey)

	return &PolygonClient{
		client: client,
	}, nil
}

func (c *PolygonClient) Name() string {
	return string(ProviderPolygon)
}

// Fetch downloads aggregates for the request window and converts them into
// bars. Polygon takes an explicit from/to range, so the end-anchored duration
// window is expressed through WindowStart/WindowEnd.
func (c *PolygonClient) Fetch(ctx context.Context, req Request, onProgress OnProgress) ([]types.Bar, error) {
	totalDays := int(req.WindowEnd.Sub(req.WindowStart).Hours()/24) + 1

	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(fmt.Sprintf("Fetching %s", req.Symbol)),
		progressbar.OptionShowCount())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     req.Symbol,
		Multiplier: req.Multiplier,
		Timespan:   req.Timespan,
		From:       models.Millis(req.WindowStart),
		To:         models.Millis(req.WindowEnd),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)

	var bars []types.Bar

	for iter.Next() {
		agg := iter.Item()
		ts := time.Time(agg.Timestamp).UTC()

		bars = append(bars, types.Bar{
			Time:   ts,
			Open:   decimal.NewFromFloat(agg.Open),
			High:   decimal.NewFromFloat(agg.High),
			Low:    decimal.NewFromFloat(agg.Low),
			Close:  decimal.NewFromFloat(agg.Close),
			Volume: int64(agg.Volume),
		})

		if onProgress != nil && len(bars)%1000 == 0 {
			daysElapsed := int(ts.Sub(req.WindowStart).Hours() / 24)
			bar.Set(daysElapsed)
			onProgress(float64(daysElapsed), float64(totalDays), fmt.Sprintf("Fetching %s", req.Symbol))
		}
	}

	if iter.Err() != nil {
		return nil, fmt.Errorf("error iterating polygon aggregates: %w", iter.Err())
	}

	bar.Finish()

	return bars, nil
}
