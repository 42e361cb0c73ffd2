package collector

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ImpulseRadar/internal/model"
)

// TwelveDataFetcher implements Fetcher using the Twelve Data time_series API.
// It accepts the same chart-style interval and lookback notation as the
// Yahoo fetcher and translates both to the provider's parameters.
type TwelveDataFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewTwelveDataFetcher creates a Twelve Data fetcher. An empty baseURL
// selects the public endpoint.
func NewTwelveDataFetcher(baseURL, apiKey, proxyURL string) *TwelveDataFetcher {
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TwelveDataFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *TwelveDataFetcher) Name() string { return "twelvedata" }

// timeSeriesResponse mirrors the provider's JSON. Numeric fields arrive as
// strings.
type timeSeriesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// FetchBars downloads a time series for one ticker and returns it oldest
// bar first. The provider sends newest first, so the series is re-sorted.
func (f *TwelveDataFetcher) FetchBars(ticker, interval, lookback string) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("interval", twelveInterval(interval))
	q.Set("outputsize", strconv.Itoa(outputSize(interval, lookback)))
	q.Set("apikey", f.APIKey)

	req, err := http.NewRequest("GET", f.BaseURL+"/time_series?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twelvedata fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twelvedata: status %d", resp.StatusCode)
	}

	var series timeSeriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	if series.Status == "error" {
		return nil, fmt.Errorf("twelvedata api error: %s", series.Message)
	}

	bars := make([]model.Candle, 0, len(series.Values))
	for _, v := range series.Values {
		ts, err := parseTwelveTime(v.Datetime)
		if err != nil {
			return nil, err
		}
		o, err := strconv.ParseFloat(v.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("twelvedata parse open: %w", err)
		}
		h, err := strconv.ParseFloat(v.High, 64)
		if err != nil {
			return nil, fmt.Errorf("twelvedata parse high: %w", err)
		}
		l, err := strconv.ParseFloat(v.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("twelvedata parse low: %w", err)
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("twelvedata parse close: %w", err)
		}
		var vol float64
		if v.Volume != "" {
			vol, err = strconv.ParseFloat(v.Volume, 64)
			if err != nil {
				return nil, fmt.Errorf("twelvedata parse volume: %w", err)
			}
		}
		bars = append(bars, model.Candle{
			Time:   ts,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// parseTwelveTime handles both timestamp formats the API emits: intraday
// bars carry a full datetime, daily and above carry a bare date.
func parseTwelveTime(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("twelvedata parse time %q: %w", s, err)
	}
	return ts, nil
}

// twelveInterval translates chart-style interval names to the provider's.
func twelveInterval(interval string) string {
	switch interval {
	case "1m":
		return "1min"
	case "5m":
		return "5min"
	case "15m":
		return "15min"
	case "30m":
		return "30min"
	case "60m", "1h":
		return "1h"
	case "1d":
		return "1day"
	case "1wk":
		return "1week"
	default:
		return interval
	}
}

// outputSize converts a lookback range like "5d" into the bar count the
// provider expects, capped at its 5000-bar maximum.
func outputSize(interval, lookback string) int {
	perDay := 24
	switch interval {
	case "1m":
		perDay = 24 * 60
	case "5m":
		perDay = 24 * 12
	case "15m":
		perDay = 24 * 4
	case "30m":
		perDay = 48
	case "60m", "1h":
		perDay = 24
	case "1d":
		perDay = 1
	}
	n := lookbackDays(lookback) * perDay
	if n < 1 {
		n = 30
	}
	if n > 5000 {
		n = 5000
	}
	return n
}

// lookbackDays parses a chart-style range ("5d", "1mo", "2y") into days.
func lookbackDays(lookback string) int {
	s := strings.TrimSpace(lookback)
	var mult int
	switch {
	case strings.HasSuffix(s, "mo"):
		s, mult = strings.TrimSuffix(s, "mo"), 30
	case strings.HasSuffix(s, "y"):
		s, mult = strings.TrimSuffix(s, "y"), 365
	case strings.HasSuffix(s, "d"):
		s, mult = strings.TrimSuffix(s, "d"), 1
	default:
		return 5
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 5
	}
	return n * mult
}
