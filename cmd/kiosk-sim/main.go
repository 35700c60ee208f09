// Command kiosk-sim seeds a running kiosk server with users and drives a
// randomized stream of purchases against the HTTP API, then prints the
// resulting analytics. Useful for smoke testing and load generation.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		addr      = flag.String("addr", "http://localhost:8080", "kiosk server base URL")
		users     = flag.Int("users", 10, "number of users to register")
		purchases = flag.Int("purchases", 200, "number of purchases to issue")
		workers   = flag.Int("workers", 4, "concurrent request workers")
		topup     = flag.Float64("topup", 500, "initial wallet top-up per user")
		seed      = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	lg := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, lg, *addr, *users, *purchases, *workers, *topup, *seed); err != nil {
		lg.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, lg *slog.Logger, addr string, users, purchases, workers int, topup float64, seed int64) error {
	c := &client{base: addr, http: &http.Client{Timeout: 10 * time.Second}}
	rng := rand.New(rand.NewSource(seed))

	lg.Info("registering users", "count", users)
	ids := make([]int64, 0, users)
	for i := 0; i < users; i++ {
		id, err := c.register(ctx, fmt.Sprintf("Sim User %d", i+1), fmt.Sprintf("555-%04d", i+1), i%3 == 0)
		if err != nil {
			return errors.Wrapf(err, "register user %d", i+1)
		}
		if _, err := c.topUp(ctx, id, topup); err != nil {
			return errors.Wrapf(err, "top up user %d", id)
		}
		// Every fifth user holds a monthly pass.
		if i%5 == 0 {
			if err := c.buyPass(ctx, id, "monthly"); err != nil {
				return errors.Wrapf(err, "buy pass for user %d", id)
			}
		}
		ids = append(ids, id)
	}

	lg.Info("issuing purchases", "count", purchases, "workers", workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < purchases; i++ {
		userID := ids[rng.Intn(len(ids))]
		liters := 1 + rng.Float64()*24
		method := "digital"
		if rng.Intn(3) == 0 {
			method = "cash"
		}
		g.Go(func() error {
			err := c.purchase(gctx, userID, liters, method)
			// Wallets can legitimately run dry mid-simulation.
			if err != nil && !errors.Is(err, errInsufficientFunds) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "purchases")
	}

	stats, err := c.analytics(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch analytics")
	}
	lg.Info("done",
		"total_revenue", stats.TotalRevenue,
		"total_fees", stats.TotalFees,
		"total_discounts", stats.TotalDiscounts,
		"cash", stats.Cash,
		"digital", stats.Digital,
		"bulk", stats.Bulk,
		"pass_holders", stats.PassHolders,
		"consistent", stats.Consistent,
	)
	if !stats.Consistent {
		return errors.New("analytics inconsistent with ledger")
	}
	return nil
}

var errInsufficientFunds = errors.New("insufficient funds")

// client is a minimal kiosk API client.
type client struct {
	base string
	http *http.Client
}

func (c *client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return errInsufficientFunds
	}
	if resp.StatusCode >= 400 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return errors.Errorf("%s: %d %s", path, resp.StatusCode, e.Message)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *client) register(ctx context.Context, name, phone string, student bool) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.post(ctx, "/api/users", map[string]any{
		"name": name, "phone": phone, "student": student,
	}, &out)
	return out.ID, err
}

func (c *client) topUp(ctx context.Context, id int64, amount float64) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	err := c.post(ctx, fmt.Sprintf("/api/users/%d/topup", id), map[string]any{"amount": amount}, &out)
	return out.Balance, err
}

func (c *client) buyPass(ctx context.Context, id int64, kind string) error {
	return c.post(ctx, fmt.Sprintf("/api/users/%d/pass", id), map[string]any{"kind": kind}, nil)
}

func (c *client) purchase(ctx context.Context, userID int64, liters float64, method string) error {
	return c.post(ctx, "/api/purchases", map[string]any{
		"user_id": userID, "liters": liters, "payment_method": method,
	}, nil)
}

type analyticsResponse struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalFees      float64 `json:"total_fees_collected"`
	TotalDiscounts float64 `json:"total_discounts_given"`
	Cash           int     `json:"cash_transactions"`
	Digital        int     `json:"digital_transactions"`
	Bulk           int     `json:"bulk_purchases"`
	PassHolders    int     `json:"pass_holders"`
	Consistent     bool    `json:"consistent"`
}

func (c *client) analytics(ctx context.Context) (*analyticsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/analytics", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out analyticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
