package rail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// NorthPayProvider disburses creator payouts via the NorthPay merchant API.
type NorthPayProvider struct {
	BaseURL  string
	Email    string
	Password string
	client   *http.Client
}

func NewNorthPayProvider(baseURL, email, password string) *NorthPayProvider {
	if baseURL == "" {
		baseURL = "https://api.northpay.io"
	}
	return &NorthPayProvider{
		BaseURL:  baseURL,
		Email:    email,
		Password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type northpayLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type northpayLoginResp struct {
	Token string `json:"token"`
}

// getToken authenticates with the merchant API and returns a fresh token.
func (p *NorthPayProvider) getToken(ctx context.Context) (string, error) {
	body, _ := json.Marshal(northpayLoginReq{Email: p.Email, Password: p.Password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/merchants/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("northpay login failed: %d", resp.StatusCode)
	}
	var out northpayLoginResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("northpay: login returned empty token")
	}
	return out.Token, nil
}

type northpayBalanceResp struct {
	AvailableCents int64  `json:"available_cents"`
	Currency       string `json:"currency"`
}

func (p *NorthPayProvider) Balance(ctx context.Context) (int64, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return 0, fmt.Errorf("northpay balance auth: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/merchants/balance", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("northpay balance: %d %s", resp.StatusCode, string(respBody))
	}
	var out northpayBalanceResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return 0, err
	}
	return out.AvailableCents, nil
}

type northpayDisburseReq struct {
	AmountCents    int64  `json:"amount_cents"`
	Method         string `json:"method"`
	Email          string `json:"email,omitempty"`
	RoutingNumber  string `json:"routing_number,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	WalletAddress  string `json:"wallet_address,omitempty"`
	Network        string `json:"network,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
	Notes          string `json:"notes,omitempty"`
}

type northpayDisburseResp struct {
	Reference string `json:"reference"`
	Status    string `json:"status"` // COMPLETED, INSUFFICIENT_FUNDS, BELOW_MINIMUM, FAILED
	Message   string `json:"message"`
}

func (p *NorthPayProvider) Attempt(ctx context.Context, req AttemptRequest) (*AttemptResult, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("northpay disburse auth: %w", err)
	}
	payload := northpayDisburseReq{
		AmountCents:    req.AmountCents,
		Method:         req.Method,
		Email:          req.Destination.Email,
		RoutingNumber:  req.Destination.RoutingNumber,
		AccountNumber:  req.Destination.AccountNumber,
		WalletAddress:  req.Destination.WalletAddress,
		Network:        req.Destination.Network,
		IdempotencyKey: req.IdempotencyKey,
		Notes:          req.Description,
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/merchants/disbursements", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+token)
	log.Printf("[NorthPay] POST %s/merchants/disbursements key=%s amount_cents=%d method=%s",
		p.BaseURL, req.IdempotencyKey, req.AmountCents, req.Method)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[NorthPay] disburse response status=%d body=%s", resp.StatusCode, string(respBody))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("northpay disburse: %d %s", resp.StatusCode, string(respBody))
	}
	var out northpayDisburseResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	res := &AttemptResult{Reference: out.Reference, Message: out.Message}
	switch out.Status {
	case "COMPLETED", "SUCCESS":
		res.Outcome = OutcomeSuccess
	case "INSUFFICIENT_FUNDS":
		res.Outcome = OutcomeInsufficientFunds
	case "BELOW_MINIMUM":
		res.Outcome = OutcomeBelowMinimum
	default:
		res.Outcome = OutcomeOther
		if res.Message == "" {
			res.Message = out.Status
		}
	}
	return res, nil
}
