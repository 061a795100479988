package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://dapi.kakao.com"
	keywordSearchPath           = "/v2/local/search/keyword.json"
	coordToAddressPath          = "/v2/local/geo/coord2address.json"
	responseBodyReadLimit int64 = 1024
)

var errAPIKeyRequired = errors.New("maps api key is required")

// Client wraps the Kakao Local APIs used for store address guidance. The app
// never holds the REST key; all lookups proxy through here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Local API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Local API client given a REST API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// Place is a normalized keyword search hit.
type Place struct {
	Name        string
	Address     string
	RoadAddress string
	Lat         float64
	Lng         float64
}

// Address is the normalized reverse-geocoding result.
type Address struct {
	Address     string
	RoadAddress string
}

// SearchKeyword queries places matching the provided keyword or address text.
func (c *Client) SearchKeyword(ctx context.Context, query string) ([]Place, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "maps client not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	params := url.Values{}
	params.Set("query", query)

	body, err := c.get(ctx, keywordSearchPath, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var apiResp struct {
		Documents []struct {
			PlaceName   string `json:"place_name"`
			Address     string `json:"address_name"`
			RoadAddress string `json:"road_address_name"`
			X           string `json:"x"`
			Y           string `json:"y"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode keyword search response")
	}

	places := make([]Place, 0, len(apiResp.Documents))
	for _, doc := range apiResp.Documents {
		lng, _ := strconv.ParseFloat(doc.X, 64)
		lat, _ := strconv.ParseFloat(doc.Y, 64)
		places = append(places, Place{
			Name:        doc.PlaceName,
			Address:     doc.Address,
			RoadAddress: doc.RoadAddress,
			Lat:         lat,
			Lng:         lng,
		})
	}

	return places, nil
}

// ReverseGeocode resolves the lot and road address at the given coordinate.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*Address, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "maps client not configured")
	}

	params := url.Values{}
	params.Set("x", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(lat, 'f', -1, 64))

	body, err := c.get(ctx, coordToAddressPath, params)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var apiResp struct {
		Documents []struct {
			Address *struct {
				AddressName string `json:"address_name"`
			} `json:"address"`
			RoadAddress *struct {
				AddressName string `json:"address_name"`
			} `json:"road_address"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode reverse geocode response")
	}

	if len(apiResp.Documents) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no address at coordinate")
	}

	result := &Address{}
	doc := apiResp.Documents[0]
	if doc.Address != nil {
		result.Address = doc.Address.AddressName
	}
	if doc.RoadAddress != nil {
		result.RoadAddress = doc.RoadAddress.AddressName
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (io.ReadCloser, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build local api request")
	}
	httpReq.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute local api request")
	}

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		_ = resp.Body.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "local api request failed")
	}

	return resp.Body, nil
}
