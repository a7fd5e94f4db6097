package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"sector-rotation/config"
	"sector-rotation/internal/dto"
	"sector-rotation/pkg/cache"
	"sector-rotation/pkg/httpclient"
	"sector-rotation/pkg/logger"
)

const (
	dailyTimeframe     = "D1"
	symbolInfoCacheKey = "metasync:symbol_info:%s"
)

type QuoteRepository interface {
	Connect(ctx context.Context) error
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
	GetSymbolInfo(ctx context.Context, symbol string) (*dto.MetaSyncSymbolInfoResponse, error)
}

// metaSyncRepository talks to a MetaTrader5 terminal through the MetaSync
// bridge on RapidAPI.
type metaSyncRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	cache          cache.Cache
	requestLimiter *rate.Limiter

	mu        sync.Mutex
	connected bool
}

func NewMetaSyncRepository(cfg *config.Config, inmemoryCache cache.Cache, log *logger.Logger) QuoteRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MetaSync.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &metaSyncRepository{
		httpClient:     httpclient.New(log, cfg.MetaSync.BaseURL, cfg.MetaSync.Timeout),
		cfg:            cfg,
		logger:         log,
		cache:          inmemoryCache,
		requestLimiter: requestLimiter,
	}
}

func (r *metaSyncRepository) headers() map[string]string {
	return map[string]string{
		"x-rapidapi-key":  r.cfg.MetaSync.RapidAPIKey,
		"x-rapidapi-host": r.cfg.MetaSync.RapidAPIHost,
		"Content-Type":    "application/json",
	}
}

// Connect establishes the MT5 terminal session. Safe to call repeatedly, the
// session is only negotiated once.
func (r *metaSyncRepository) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectLocked(ctx)
}

func (r *metaSyncRepository) connectLocked(ctx context.Context) error {
	if r.connected {
		return nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	body := dto.MetaSyncConnectRequest{
		Login:    r.cfg.MetaSync.Login,
		Password: r.cfg.MetaSync.Password,
		Server:   r.cfg.MetaSync.Server,
		Timeout:  int(r.cfg.MetaSync.Timeout.Milliseconds()),
	}

	var connectResp dto.MetaSyncConnectResponse
	resp, err := r.httpClient.Post(ctx, "/connect", body, r.headers(), &connectResp)
	if err != nil {
		return fmt.Errorf("failed to connect to metasync: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("MetaSync connect returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return fmt.Errorf("metasync connect returned status: %d", resp.StatusCode)
	}
	if !connectResp.Connected || connectResp.Status != "success" {
		return fmt.Errorf("metasync connect rejected: %s", connectResp.Message)
	}

	r.logger.Info("Connected to MetaTrader5 terminal",
		logger.StringField("server", connectResp.Server))
	r.connected = true
	return nil
}

func (r *metaSyncRepository) ensureConnected(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectLocked(ctx)
}

// GetQuote fetches the current tick and the last two daily candles, and
// derives the quote price (bid/ask mid) and the daily percent change versus
// the previous close.
func (r *metaSyncRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if err := r.ensureConnected(ctx); err != nil {
		return nil, err
	}

	tick, err := r.getTick(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if tick.Bid <= 0 || tick.Ask <= 0 {
		return nil, fmt.Errorf("%w: no valid tick for %s", ErrNoData, symbol)
	}

	price := decimal.NewFromFloat(tick.Bid).
		Add(decimal.NewFromFloat(tick.Ask)).
		Div(decimal.NewFromInt(2))

	prevClose, err := r.getPreviousDailyClose(ctx, symbol)
	if err != nil {
		return nil, err
	}

	dailyChangePct := price.Sub(prevClose).
		Div(prevClose).
		Mul(decimal.NewFromInt(100))

	return &dto.Quote{
		Symbol:         symbol,
		Price:          price,
		DailyChangePct: dailyChangePct,
		Volume:         tick.Volume,
		Timestamp:      time.Now(),
	}, nil
}

func (r *metaSyncRepository) getTick(ctx context.Context, symbol string) (*dto.MetaSyncTickResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var tick dto.MetaSyncTickResponse
	resp, err := r.httpClient.Get(ctx, "/tick", map[string]string{"symbol": symbol}, r.headers(), &tick)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tick for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("MetaSync tick returned Non-OK status",
			logger.StringField("symbol", symbol),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("metasync tick returned status: %d", resp.StatusCode)
	}

	return &tick, nil
}

func (r *metaSyncRepository) getPreviousDailyClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	candles, err := r.getOHLC(ctx, symbol, dailyTimeframe, 2)
	if err != nil {
		return decimal.Zero, err
	}
	if len(candles) < 2 {
		return decimal.Zero, fmt.Errorf("%w: need 2 daily candles for %s, got %d", ErrNoData, symbol, len(candles))
	}

	// candles are oldest-first; the earlier of the last two is yesterday's
	// completed session.
	prevClose := candles[len(candles)-2].Close
	if prevClose <= 0 {
		return decimal.Zero, fmt.Errorf("%w: previous close for %s is zero", ErrNoData, symbol)
	}
	return decimal.NewFromFloat(prevClose), nil
}

func (r *metaSyncRepository) getOHLC(ctx context.Context, symbol, timeframe string, count int) ([]dto.MetaSyncCandle, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	queryParams := map[string]string{
		"symbol":    symbol,
		"timeframe": timeframe,
		// buffer past weekends and holidays
		"date_from": now.AddDate(0, 0, -count*4).Format("2006-01-02 15:04:05"),
		"date_to":   now.Format("2006-01-02 15:04:05"),
	}

	resp, err := r.httpClient.Get(ctx, "/ohlc", queryParams, r.headers(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ohlc for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("MetaSync ohlc returned Non-OK status",
			logger.StringField("symbol", symbol),
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("metasync ohlc returned status: %d", resp.StatusCode)
	}

	candles, err := decodeCandles(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unexpected ohlc response for %s: %w", symbol, err)
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })
	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

// decodeCandles accepts both shapes the bridge is known to answer with: a
// bare candle array, or an object wrapping one under "candles".
func decodeCandles(body []byte) ([]dto.MetaSyncCandle, error) {
	var candles []dto.MetaSyncCandle
	if err := json.Unmarshal(body, &candles); err == nil {
		return candles, nil
	}

	var wrapped dto.MetaSyncOHLCResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Candles == nil && wrapped.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoData, wrapped.Message)
	}
	return wrapped.Candles, nil
}

// GetSymbolInfo returns static symbol metadata, cached between cycles since
// it changes rarely.
func (r *metaSyncRepository) GetSymbolInfo(ctx context.Context, symbol string) (*dto.MetaSyncSymbolInfoResponse, error) {
	key := fmt.Sprintf(symbolInfoCacheKey, symbol)
	if info, ok := cache.GetTyped[*dto.MetaSyncSymbolInfoResponse](r.cache, key); ok {
		return info, nil
	}

	if err := r.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var info dto.MetaSyncSymbolInfoResponse
	resp, err := r.httpClient.Get(ctx, "/symbol_info", map[string]string{"symbol": symbol}, r.headers(), &info)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch symbol info for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metasync symbol_info returned status: %d", resp.StatusCode)
	}
	if info.Name == "" {
		return nil, fmt.Errorf("%w: symbol %s not found", ErrNoData, symbol)
	}

	r.cache.Set(key, &info, r.cfg.Cache.DefaultExpiration)
	return &info, nil
}
