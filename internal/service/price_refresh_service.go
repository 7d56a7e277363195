package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

// PriceSource supplies the latest market price of a ticker.
// It is implemented by yahoo.FinanceClient.
type PriceSource interface {
	LatestPrice(ctx context.Context, ticker string) (float64, error)
}

// PriceRefreshService marks active investments to market.
// It is an external producer of price snapshots: it only feeds the ledger through UpdateCurrentPrice.
type PriceRefreshService struct {
	investmentService *InvestmentService
	prices            PriceSource
	concurrency       int
	logger            *log.Logger
}

// NewPriceRefreshService creates a new PriceRefreshService.
// concurrency bounds the number of simultaneous price lookups and defaults to 4.
func NewPriceRefreshService(
	investmentService *InvestmentService,
	prices PriceSource,
	concurrency int,
	logger *log.Logger,
) *PriceRefreshService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &PriceRefreshService{
		investmentService: investmentService,
		prices:            prices,
		concurrency:       concurrency,
		logger:            logger,
	}
}

// RefreshActive looks up the latest price of every ticker held by an active investment and stores it.
// Lookups run concurrently; the ledger writes happen afterwards one at a time.
// A failing ticker is reported in the response and does not stop the others.
func (s *PriceRefreshService) RefreshActive(ctx context.Context) (model.PriceRefreshResponse, error) {
	active, err := s.investmentService.ListInvestments(ctx, model.InvestmentFilter{Status: model.InvestmentStatusActive})
	if err != nil {
		return model.PriceRefreshResponse{}, err
	}

	byTicker := make(map[string][]model.Investment)
	for _, inv := range active {
		byTicker[inv.Ticker] = append(byTicker[inv.Ticker], inv)
	}
	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var mu sync.Mutex
	prices := make(map[string]float64, len(tickers))
	response := model.PriceRefreshResponse{
		Updated: []model.PriceRefreshEntry{},
		Errors:  []model.PriceRefreshError{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, ticker := range tickers {
		g.Go(func() error {
			price, err := s.prices.LatestPrice(gctx, ticker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				response.Errors = append(response.Errors, model.PriceRefreshError{Ticker: ticker, Error: err.Error()})
				return nil
			}
			prices[ticker] = price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PriceRefreshResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.PriceRefreshResponse{}, err
	}

	for _, ticker := range tickers {
		price, ok := prices[ticker]
		if !ok {
			continue
		}
		for _, inv := range byTicker[ticker] {
			_, updated, err := s.investmentService.UpdateCurrentPrice(ctx, inv.ID, price)
			if err != nil {
				response.Errors = append(response.Errors, model.PriceRefreshError{
					Ticker: ticker,
					Error:  fmt.Sprintf("investment %s: %v", inv.ID, err),
				})
				continue
			}
			if !updated {
				// Closed between listing and writing.
				continue
			}
			response.Updated = append(response.Updated, model.PriceRefreshEntry{
				InvestmentID: inv.ID,
				Ticker:       ticker,
				Price:        price,
			})
		}
	}

	sort.Slice(response.Errors, func(i, j int) bool { return response.Errors[i].Ticker < response.Errors[j].Ticker })
	response.UpdatedCount = len(response.Updated)
	response.Success = len(response.Errors) == 0

	s.logger.Info().
		Int("tickers", len(tickers)).
		Int("updated", response.UpdatedCount).
		Int("errors", len(response.Errors)).
		Msg("price refresh finished")

	if len(tickers) > 0 && len(prices) == 0 {
		return response, fmt.Errorf("%w: every price lookup failed", apperrors.ErrFailedToRefreshPrices)
	}
	return response, nil
}
