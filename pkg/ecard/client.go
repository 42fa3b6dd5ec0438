package ecard

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/campus-tools/ecard-notify/pkg/config"
	"github.com/campus-tools/ecard-notify/pkg/metrics"
)

// ErrNotAuthenticated is returned by Balance and TodayBills when Login has
// not succeeded yet on this client.
var ErrNotAuthenticated = errors.New("not logged in to the portal")

const (
	loginPath   = "/Phone/Login"
	balancePath = "/User/GetCardAccInfo"
	billsPath   = "/Report/GetMyBill"
)

// Client speaks the portal's session-based HTTP protocol. Session continuity
// across the login, balance, and report endpoints is cookie-based, so one
// Client is created per task run and discarded afterwards.
type Client struct {
	http          *resty.Client
	log           *zap.SugaredLogger
	studentID     string
	queryPassword string

	// account is the card account id, populated only after a successful login.
	account string
	// now is replaceable in tests.
	now func() time.Time
}

func NewClient(cfg config.Portal, log *zap.SugaredLogger) *Client {
	jar, _ := cookiejar.New(nil)
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout()).
		SetCookieJar(jar)

	return &Client{
		http:          httpClient,
		log:           log.Named("ecard"),
		studentID:     cfg.StudentID,
		queryPassword: cfg.QueryPassword,
		now:           time.Now,
	}
}

// Account returns the card account id, or "" before a successful login.
func (c *Client) Account() string {
	return c.account
}

func (c *Client) post(ctx context.Context, endpoint, path string, form map[string]string) ([]byte, error) {
	metrics.PortalRequests.WithLabelValues(endpoint).Inc()
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		metrics.PortalRequestFailures.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	if resp.IsError() {
		metrics.PortalRequestFailures.WithLabelValues(endpoint).Inc()
		return nil, fmt.Errorf("%s request: portal answered %s", endpoint, resp.Status())
	}
	c.log.Debugw("Portal response", "endpoint", endpoint, "body", resp.String())
	return resp.Body(), nil
}

// Login authenticates against the portal and leaves the session cookie on the
// client. The query password is base64-encoded on the wire because the portal
// expects it that way. Any transport, protocol, or credential failure is
// logged and returned as an error; the client stays unauthenticated.
func (c *Client) Login(ctx context.Context) error {
	body, err := c.post(ctx, "login", loginPath, map[string]string{
		"sno":      c.studentID,
		"pwd":      base64.StdEncoding.EncodeToString([]byte(c.queryPassword)),
		"remember": "1",
		"uclass":   "1",
		"json":     "true",
	})
	if err != nil {
		c.log.Errorw("Login request failed", "error", err)
		return err
	}

	var result struct {
		IsSucceed bool `json:"IsSucceed"`
		Obj       any  `json:"Obj"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	// Account ids are large numbers; UseNumber keeps them out of float64.
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		metrics.PortalRequestFailures.WithLabelValues("login").Inc()
		c.log.Errorw("Login response is not valid JSON", "error", err)
		return fmt.Errorf("login response: %w", err)
	}

	if !result.IsSucceed || result.Obj == nil {
		c.log.Errorw("Login failed", "studentID", c.studentID)
		return errors.New("portal rejected the credentials")
	}

	c.account = strings.TrimSpace(fmt.Sprint(result.Obj))
	c.log.Infow("Login succeeded", "account", c.account)
	return nil
}

// Balance returns the current card balance in yuan. The portal reports the
// balance in fen inside a double-encoded JSON envelope: the outer Msg field
// is itself a JSON document.
func (c *Client) Balance(ctx context.Context) (decimal.Decimal, error) {
	if c.account == "" {
		return decimal.Zero, ErrNotAuthenticated
	}

	body, err := c.post(ctx, "balance", balancePath, map[string]string{
		"acc":  "",
		"json": "true",
	})
	if err != nil {
		c.log.Errorw("Balance request failed", "error", err)
		return decimal.Zero, err
	}

	var envelope struct {
		Msg string `json:"Msg"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		metrics.PortalRequestFailures.WithLabelValues("balance").Inc()
		return decimal.Zero, fmt.Errorf("balance envelope: %w", err)
	}

	var payload struct {
		QueryAccInfo struct {
			AccInfo []struct {
				Balance string `json:"balance"`
			} `json:"accinfo"`
		} `json:"query_accinfo"`
	}
	if err := json.Unmarshal([]byte(envelope.Msg), &payload); err != nil {
		metrics.PortalRequestFailures.WithLabelValues("balance").Inc()
		return decimal.Zero, fmt.Errorf("balance payload: %w", err)
	}
	if len(payload.QueryAccInfo.AccInfo) == 0 {
		metrics.PortalRequestFailures.WithLabelValues("balance").Inc()
		return decimal.Zero, errors.New("balance payload: no account info records")
	}

	fen, err := decimal.NewFromString(payload.QueryAccInfo.AccInfo[0].Balance)
	if err != nil {
		metrics.PortalRequestFailures.WithLabelValues("balance").Inc()
		return decimal.Zero, fmt.Errorf("balance value: %w", err)
	}

	balance := fen.Shift(-2)
	c.log.Debugw("Balance fetched", "balance", balance.String())
	return balance, nil
}

// TodayBills fetches the reporting day's transactions and the date they
// belong to. Only the first report page (15 most-recent entries) is fetched;
// days with more transactions than that are truncated. That has been enough
// in practice but it is a limitation, not a guarantee.
func (c *Client) TodayBills(ctx context.Context) ([]Bill, time.Time, error) {
	if c.account == "" {
		return nil, time.Time{}, ErrNotAuthenticated
	}

	body, err := c.post(ctx, "bills", billsPath, map[string]string{
		"account": c.account,
		"page":    "1",
		"json":    "true",
	})
	if err != nil {
		c.log.Errorw("Bills request failed", "error", err)
		return nil, time.Time{}, err
	}

	var result struct {
		Rows []struct {
			OccTime  string      `json:"OCCTIME"`
			TranAmt  json.Number `json:"TRANAMT"`
			CardBal  json.Number `json:"CARDBAL"`
			MercName string      `json:"MERCNAME"`
			TranName string      `json:"TRANNAME"`
			JDesc    string      `json:"JDESC"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.PortalRequestFailures.WithLabelValues("bills").Inc()
		return nil, time.Time{}, fmt.Errorf("bills response: %w", err)
	}

	bills := make([]Bill, 0, len(result.Rows))
	for _, row := range result.Rows {
		bill, err := NewBill(row.OccTime, row.TranAmt.String(), row.CardBal.String(),
			row.MercName, row.TranName+row.JDesc)
		if err != nil {
			metrics.PortalRequestFailures.WithLabelValues("bills").Inc()
			return nil, time.Time{}, fmt.Errorf("bills row: %w", err)
		}
		bills = append(bills, bill)
	}

	now := c.now()
	filtered := FilterForDay(bills, now)
	c.log.Infow("Bills fetched", "total", len(bills), "kept", len(filtered))
	return filtered, TargetDate(now), nil
}
