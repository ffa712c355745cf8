package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anandology/stringart.in/internal/cache"
	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/internal/metrics"
	"github.com/anandology/stringart.in/internal/notify"
	"github.com/anandology/stringart.in/internal/payment"
	"github.com/anandology/stringart.in/internal/repository"
	"github.com/anandology/stringart.in/internal/validation"
	"github.com/anandology/stringart.in/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultStoreTimeout = 5 * time.Second
	cacheTimeout        = 500 * time.Millisecond
)

type Config struct {
	StoreTimeout time.Duration
	Metrics      *metrics.Metrics
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type CheckoutService struct {
	validator    *validation.Validator
	repo         repository.OrderRepository
	cache        cache.OrderCache
	links        *payment.LinkBuilder
	notifier     notify.Notifier
	metrics      *metrics.Metrics
	storeTimeout time.Duration
	now          func() time.Time
	sfg          singleflight.Group
}

func NewCheckoutService(
	repo repository.OrderRepository,
	orderCache cache.OrderCache,
	links *payment.LinkBuilder,
	notifier notify.Notifier,
	cfg Config) *CheckoutService {

	if orderCache == nil {
		orderCache = cache.NopCache{}
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &CheckoutService{
		validator:    validation.New(),
		repo:         repo,
		cache:        orderCache,
		links:        links,
		notifier:     notifier,
		metrics:      cfg.Metrics,
		storeTimeout: cfg.StoreTimeout,
		now:          cfg.Clock,
	}
}

// Checkout validates the request, allocates an order number, persists the
// order and returns its payment link. A number allocated for an order that
// fails to save is not reused.
func (s *CheckoutService) Checkout(ctx context.Context, req *domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(req); err != nil {
		s.metrics.CheckoutOutcome(metrics.CheckoutInvalid)
		return nil, err
	}

	number, err := s.allocate(ctx)
	if err != nil {
		log.Error("order number allocation failed", zap.Error(err))
		s.metrics.CheckoutOutcome(metrics.CheckoutFailed)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	orderNumber := domain.FormatOrderNumber(number)
	link := s.links.Build(orderNumber, req.TotalPrice)
	order := domain.NewOrder(number, req, s.now().UTC(), link)

	if err := s.save(ctx, order); err != nil {
		log.Error("order save failed", zap.String("order_number", orderNumber), zap.Error(err))
		s.metrics.CheckoutOutcome(metrics.CheckoutFailed)
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.cacheOrder(ctx, order)
	s.notifier.Notify(order.Clone())
	s.metrics.CheckoutOutcome(metrics.CheckoutCreated)

	log.Info("order created",
		zap.String("order_number", orderNumber),
		zap.String("total_price", order.TotalPrice.String()),
		zap.Int("items", len(order.Items)))

	return &domain.CheckoutResult{
		OrderNumber: orderNumber,
		PaymentLink: link,
		QRCodeURL:   link,
	}, nil
}

// GetOrder looks an order up by its display number. Concurrent lookups of
// the same order share one cache/store round trip; a caller that gives up
// does not cancel it for the others.
func (s *CheckoutService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	number, err := domain.ParseOrderNumber(orderNumber)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	ch := s.sfg.DoChan(strconv.FormatInt(number, 10), func() (interface{}, error) {
		return s.loadOrder(context.WithoutCancel(ctx), number)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Results are shared between callers of DoChan.
		order := res.Val.(*domain.Order).Clone()
		return &order, nil
	}
}

// loadOrder reads through the cache. ctx carries no cancellation, so every
// step is bounded by its own timeout.
func (s *CheckoutService) loadOrder(ctx context.Context, number int64) (*domain.Order, error) {
	cacheCtx, cancelCache := context.WithTimeout(ctx, cacheTimeout)
	order, err := s.cache.Get(cacheCtx, number)
	cancelCache()
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.FromContext(ctx).Warn("cache get error", zap.Error(err))
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	order, err = s.repo.GetOrderByNumber(storeCtx, number)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

func (s *CheckoutService) allocate(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.NextOrderNumber(ctx)
}

func (s *CheckoutService) save(ctx context.Context, order *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.CreateOrder(ctx, order)
}

func (s *CheckoutService) cacheOrder(ctx context.Context, order *domain.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancel()
	if err := s.cache.Set(ctx, order); err != nil {
		logger.FromContext(ctx).Warn("cache set error", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}
