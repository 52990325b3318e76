// Package ledger records group-order tokens and the orders placed under them.
//
// The ledger keeps two collections in a storage.Store: tokens keyed by id, and
// order lists keyed by token id. Every mutation reads the full collection,
// changes it in memory and writes it back before returning. Calls on one
// Ledger are serialized; two processes sharing a backend can still lose an
// update to each other.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/grouporder/internal/calculator"
	"github.com/mmynk/grouporder/internal/models"
	"github.com/mmynk/grouporder/internal/storage"
)

// Ledger is the order ledger. A nil store is allowed: reads return empty
// collections and writes are dropped.
type Ledger struct {
	mu      sync.Mutex
	store   storage.Store
	now     func() time.Time
	metrics *metrics
}

// Option customizes Ledger construction.
type Option func(*Ledger)

// WithClock overrides the time source used for CreatedAt, ClosedAt and order timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRegisterer registers the ledger's counters with reg, along with gauges
// for the token and order counts held in the store.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(l *Ledger) {
		if reg == nil {
			return
		}
		l.metrics.register(reg)
		reg.MustRegister(stateCollector{ledger: l})
	}
}

// New creates a Ledger on top of store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   store,
		now:     func() time.Time { return time.Now().UTC() },
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Summary is everything the admin view shows for one token.
type Summary struct {
	Token      models.Token
	Found      bool
	Orders     []models.Order
	Total      float64
	UserTotals models.UserTotals
}

// UserCount is the number of distinct user names that ordered.
func (s Summary) UserCount() int {
	return len(s.UserTotals)
}

// NewToken generates a fresh id and creates a token with it.
func (l *Ledger) NewToken(ctx context.Context, description string) (models.Token, error) {
	return l.CreateToken(ctx, GenerateToken(), description)
}

// CreateToken inserts an active token with no orders.
// An existing token with the same id is overwritten.
func (l *Ledger) CreateToken(ctx context.Context, id, description string) (models.Token, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tokens, err := l.loadTokens(ctx)
	if err != nil {
		return models.Token{}, err
	}

	if _, exists := tokens[id]; exists {
		slog.Warn("Overwriting existing token", "token_id", id)
	}

	token := models.Token{
		ID:          id,
		Description: description,
		CreatedAt:   l.now(),
		IsActive:    true,
		TotalOrders: 0,
	}
	tokens[id] = token

	if err := l.save(ctx, storage.TokensKey, tokens); err != nil {
		return models.Token{}, err
	}

	l.metrics.tokensCreated.Inc()
	slog.Info("Token created", "token_id", id, "description", description)
	return token, nil
}

// DeactivateToken closes the token. Unknown ids and already closed tokens
// are left untouched and do not return an error.
func (l *Ledger) DeactivateToken(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tokens, err := l.loadTokens(ctx)
	if err != nil {
		return err
	}

	token, exists := tokens[id]
	if !exists {
		slog.Debug("DeactivateToken: unknown token", "token_id", id)
		return nil
	}
	if !token.IsActive {
		return nil
	}

	closedAt := l.now()
	token.IsActive = false
	token.ClosedAt = &closedAt
	tokens[id] = token

	if err := l.save(ctx, storage.TokensKey, tokens); err != nil {
		return err
	}

	l.metrics.tokensClosed.Inc()
	slog.Info("Token deactivated", "token_id", id, "total_orders", token.TotalOrders)
	return nil
}

// RecordOrder appends an order to the token's order list and refreshes the
// token's TotalOrders. The token is not required to exist or be active;
// callers validate before recording.
func (l *Ledger) RecordOrder(ctx context.Context, tokenID, userName string, items []models.LineItem, total float64) (models.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	orders, err := l.loadOrders(ctx)
	if err != nil {
		return models.Order{}, err
	}

	now := l.now()
	list := orders[tokenID]
	order := models.Order{
		ID:        nextOrderID(list, now),
		TokenID:   tokenID,
		UserName:  userName,
		Items:     append(make([]models.LineItem, 0, len(items)), items...),
		Total:     total,
		Timestamp: now,
	}
	orders[tokenID] = append(list, order)

	if err := l.save(ctx, storage.OrdersKey, orders); err != nil {
		return models.Order{}, err
	}

	tokens, err := l.loadTokens(ctx)
	if err != nil {
		return models.Order{}, err
	}
	if token, exists := tokens[tokenID]; exists {
		token.TotalOrders = len(orders[tokenID])
		tokens[tokenID] = token
		if err := l.save(ctx, storage.TokensKey, tokens); err != nil {
			return models.Order{}, err
		}
	} else {
		slog.Warn("Order recorded for unknown token", "token_id", tokenID)
	}

	l.metrics.ordersRecorded.Inc()
	// Counters panic on negative input.
	if total > 0 {
		l.metrics.orderValue.Add(total)
	}
	slog.Info("Order recorded",
		"token_id", tokenID,
		"order_id", order.ID,
		"user_name", userName,
		"items_count", len(items),
		"total", total,
	)
	return order, nil
}

// OrdersForToken returns the token's orders in insertion order, or an empty
// slice. The result is a fresh copy.
func (l *Ledger) OrdersForToken(ctx context.Context, tokenID string) ([]models.Order, error) {
	orders, err := l.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	list, ok := orders[tokenID]
	if !ok {
		return []models.Order{}, nil
	}
	return list, nil
}

// TokenTotal returns the sum of order totals for the token.
func (l *Ledger) TokenTotal(ctx context.Context, tokenID string) (float64, error) {
	orders, err := l.OrdersForToken(ctx, tokenID)
	if err != nil {
		return 0, err
	}
	return calculator.TokenTotal(orders), nil
}

// UserTotalsForToken groups the token's orders by user name.
func (l *Ledger) UserTotalsForToken(ctx context.Context, tokenID string) (models.UserTotals, error) {
	orders, err := l.OrdersForToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	return calculator.UserTotals(orders), nil
}

// ListTokens returns a snapshot of every token keyed by id.
func (l *Ledger) ListTokens(ctx context.Context) (map[string]models.Token, error) {
	return l.loadTokens(ctx)
}

// LookupToken returns the token with id, if any.
func (l *Ledger) LookupToken(ctx context.Context, id string) (models.Token, bool, error) {
	tokens, err := l.loadTokens(ctx)
	if err != nil {
		return models.Token{}, false, err
	}
	token, ok := tokens[id]
	return token, ok, nil
}

// TokenSummary reads the token and all of its aggregates.
func (l *Ledger) TokenSummary(ctx context.Context, id string) (Summary, error) {
	token, found, err := l.LookupToken(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	orders, err := l.OrdersForToken(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Token:      token,
		Found:      found,
		Orders:     orders,
		Total:      calculator.TokenTotal(orders),
		UserTotals: calculator.UserTotals(orders),
	}, nil
}

// nextOrderID derives an id from now in Unix milliseconds, bumped past the
// last id in list so ids stay unique and increasing within a token.
func nextOrderID(list []models.Order, now time.Time) string {
	id := now.UnixMilli()
	if len(list) > 0 {
		if last, err := strconv.ParseInt(list[len(list)-1].ID, 10, 64); err == nil && id <= last {
			id = last + 1
		}
	}
	return strconv.FormatInt(id, 10)
}

func (l *Ledger) loadTokens(ctx context.Context) (map[string]models.Token, error) {
	tokens := make(map[string]models.Token)
	if err := l.load(ctx, storage.TokensKey, &tokens); err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = make(map[string]models.Token)
	}
	return tokens, nil
}

func (l *Ledger) loadOrders(ctx context.Context) (map[string][]models.Order, error) {
	orders := make(map[string][]models.Order)
	if err := l.load(ctx, storage.OrdersKey, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = make(map[string][]models.Order)
	}
	return orders, nil
}

// load decodes the collection under key into v. A missing backend or a
// collection that was never written leaves v untouched.
func (l *Ledger) load(ctx context.Context, key string, v any) error {
	if l.store == nil {
		return nil
	}
	data, err := l.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (l *Ledger) save(ctx context.Context, key string, v any) error {
	if l.store == nil {
		slog.Debug("No storage backend, dropping write", "collection", key)
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := l.store.Set(ctx, key, data); err != nil {
		slog.Error("Failed to persist collection", "collection", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
