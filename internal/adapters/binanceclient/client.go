package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"klinetime"
	"klinetime/internal/domain"
	"klinetime/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"
)

// Client implements the ports.KlineSource interface using the go-binance
// library against the futures API.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
}

// New creates a new Binance client adapter. Kline endpoints are public, so
// empty keys are allowed.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		cfg.Logger.Debug(context.Background(), "APIKey or SecretKey is empty; only public endpoints will work")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	// Set BaseURL directly instead of using the global futures.UseTestnet.
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
		cfg.Logger.Info(context.Background(), "Binance client configured for Testnet", map[string]interface{}{"baseURL": client.BaseURL})
	} else {
		client.BaseURL = baseURLProduction
		cfg.Logger.Info(context.Background(), "Binance client configured for Production", map[string]interface{}{"baseURL": client.BaseURL})
	}

	return &Client{futuresClient: client, logger: cfg.Logger}, nil
}

// handleError translates common Binance API errors into standardized ports
// errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp for this request is outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1022: // Signature for this request is not valid
			mappedErr = ports.ErrAuthenticationFailed
		case -2014, -2015: // API-key format invalid / invalid key, IP or permissions
			mappedErr = ports.ErrInvalidAPIKeys
		case -1100, -1102, -1104, -1105, -1106, -1120, -1121: // Parameter/request format errors, -1121 = invalid symbol
			mappedErr = ports.ErrInvalidRequest
		default:
			mappedErr = ports.ErrExchangeUnavailable
		}
		c.logger.Error(ctx, mappedErr, "Binance API error", fields)
		return fmt.Errorf("%w: binance error code %d: %s", mappedErr, apiErr.Code, apiErr.Message)
	}

	if errors.Is(err, context.Canceled) {
		return ports.ErrContextCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.ErrTimeout
	}

	c.logger.Error(ctx, err, "Binance request failed", fields)
	return fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
}

// Ping checks connectivity to the Binance API.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.futuresClient.NewPingService().Do(ctx); err != nil {
		return c.handleError(ctx, err, "Ping")
	}
	return nil
}

// GetServerTime retrieves the current server time from Binance.
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	serverTimeMs, err := c.futuresClient.NewServerTimeService().Do(ctx)
	if err != nil {
		return time.Time{}, c.handleError(ctx, err, "GetServerTime")
	}
	return time.UnixMilli(serverTimeMs), nil
}

// GetKlinesRange fetches all klines for a symbol between the start and end
// buckets (inclusive), paging through the API until the range is covered.
func (c *Client) GetKlinesRange(ctx context.Context, symbol string, start, end klinetime.KlineTimestamp) ([]*domain.Kline, error) {
	op := "GetKlinesRange"
	if start.Interval() != end.Interval() {
		return nil, fmt.Errorf("%w: %s vs %s", ports.ErrIntervalMismatch, start.Interval(), end.Interval())
	}

	interval := start.Interval()
	// The API end bound is inclusive on open time; CloseMillis-1 covers the
	// end bucket without spilling into the one after it.
	endMS := end.CloseMillis() - 1

	var allKlines []*domain.Kline
	const maxLimit = 1500
	fromMS := start.OpenMillis()

	for {
		binanceKlines, err := c.futuresClient.NewKlinesService().
			Symbol(symbol).
			Interval(string(interval)).
			StartTime(fromMS).
			EndTime(endMS).
			Limit(maxLimit).
			Do(ctx)
		if err != nil {
			return nil, c.handleError(ctx, err, op)
		}
		if len(binanceKlines) == 0 {
			break
		}
		for _, bk := range binanceKlines {
			dk, err := translateBinanceKline(bk, symbol, interval)
			if err != nil {
				return nil, c.handleError(ctx, fmt.Errorf("failed to translate kline: %w", err), op)
			}
			allKlines = append(allKlines, dk)
		}
		last := binanceKlines[len(binanceKlines)-1]
		fromMS = last.CloseTime + 1
		if fromMS > endMS || len(binanceKlines) < maxLimit {
			break
		}
	}

	c.logger.Debug(ctx, "Fetched kline range", map[string]interface{}{
		"symbol": symbol, "interval": string(interval), "count": len(allKlines)})
	return allKlines, nil
}

// translateBinanceKline converts a raw Binance kline into the domain type.
// Binance reports prices and volume as strings.
func translateBinanceKline(bk *futures.Kline, symbol string, interval klinetime.Interval) (*domain.Kline, error) {
	bucket, err := klinetime.New(bk.OpenTime, interval)
	if err != nil {
		return nil, err
	}

	open, err := strconv.ParseFloat(bk.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid open price %q: %w", bk.Open, err)
	}
	high, err := strconv.ParseFloat(bk.High, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid high price %q: %w", bk.High, err)
	}
	low, err := strconv.ParseFloat(bk.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid low price %q: %w", bk.Low, err)
	}
	closePrice, err := strconv.ParseFloat(bk.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid close price %q: %w", bk.Close, err)
	}
	volume, err := strconv.ParseFloat(bk.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid volume %q: %w", bk.Volume, err)
	}

	return &domain.Kline{
		Bucket:  bucket,
		Symbol:  symbol,
		Open:    open,
		High:    high,
		Low:     low,
		Close:   closePrice,
		Volume:  volume,
		IsFinal: bk.CloseTime < time.Now().UnixMilli(),
	}, nil
}
