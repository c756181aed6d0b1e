package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
)

// tokenValidity is how long a carrier auth token stays usable; the cache
// refreshes ahead of this.
const tokenValidity = 240 * time.Hour

// ShippingClient talks to the shipping carrier's REST API. Requests carry a
// bearer token obtained from the login endpoint and memoized in a TokenCache.
type ShippingClient struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	tokens     *TokenCache
	logger     *zap.Logger
}

func NewShippingClient(baseURL, email, password string, logger *zap.Logger) *ShippingClient {
	c := &ShippingClient{
		baseURL:  baseURL,
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
	c.tokens = NewTokenCache(c.login, 30*time.Minute)
	return c
}

// TrackingInfo is the reduced tracking view returned to clients.
type TrackingInfo struct {
	ShipmentID    string `json:"shipment_id"`
	Status        string `json:"status"`
	Courier       string `json:"courier,omitempty"`
	AWB           string `json:"awb,omitempty"`
	EstimatedDate string `json:"estimated_date,omitempty"`
}

type carrierLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type carrierLoginResponse struct {
	Token string `json:"token"`
}

type carrierTrackResponse struct {
	TrackingData struct {
		ShipmentTrack []struct {
			CurrentStatus string `json:"current_status"`
			CourierName   string `json:"courier_name"`
			AWBCode       string `json:"awb_code"`
			EDD           string `json:"edd"`
		} `json:"shipment_track"`
	} `json:"tracking_data"`
}

func (c *ShippingClient) login(ctx context.Context) (string, time.Time, error) {
	if c.email == "" || c.password == "" {
		return "", time.Time{}, apperrors.ErrConfiguration
	}

	body, err := json.Marshal(carrierLoginRequest{Email: c.email, Password: c.password})
	if err != nil {
		return "", time.Time{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/external/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("carrier login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("carrier login failed: status %d: %s", resp.StatusCode, string(b))
	}

	var out carrierLoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", time.Time{}, fmt.Errorf("carrier login decode: %w", err)
	}
	if out.Token == "" {
		return "", time.Time{}, fmt.Errorf("carrier login returned empty token")
	}

	c.logger.Info("Carrier auth token refreshed")
	return out.Token, time.Now().Add(tokenValidity), nil
}

// TrackShipment returns the carrier's current view of a shipment.
func (c *ShippingClient) TrackShipment(ctx context.Context, shipmentID string) (*TrackingInfo, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/external/courier/track/shipment/"+shipmentID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked upstream; drop it so the next call re-authenticates.
		c.tokens.Invalidate()
		return nil, fmt.Errorf("carrier track unauthorized")
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("carrier track failed: status %d: %s", resp.StatusCode, string(b))
	}

	var out carrierTrackResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("carrier track decode: %w", err)
	}

	info := &TrackingInfo{ShipmentID: shipmentID, Status: "unknown"}
	if len(out.TrackingData.ShipmentTrack) > 0 {
		track := out.TrackingData.ShipmentTrack[0]
		info.Status = track.CurrentStatus
		info.Courier = track.CourierName
		info.AWB = track.AWBCode
		info.EstimatedDate = track.EDD
	}
	return info, nil
}
