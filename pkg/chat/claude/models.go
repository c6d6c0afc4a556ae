package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jmuk/recipes/pkg/session"
)

type modelInfo struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

type modelResponse struct {
	Data    []modelInfo `json:"data"`
	FirstID string      `json:"first_id"`
	HasMore bool        `json:"has_more"`
	LastID  string      `json:"last_id"`
}

func (c *Config) Models(ctx context.Context) ([]string, error) {
	logger, err := session.LoggerFromContext(ctx, "claude")
	if err != nil {
		return nil, err
	}
	apiKey, err := c.apiKey()
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u = u.JoinPath("v1", "models")

	var results []string
	var pageToken string
	for {
		if pageToken != "" {
			u.RawQuery = url.Values{"after_id": {pageToken}}.Encode()
		}
		parsedResponse, err := c.listModels(ctx, u, apiKey)
		if err != nil {
			return nil, err
		}
		for _, m := range parsedResponse.Data {
			logger.Debug("model", "model", m)
			results = append(results, m.ID)
		}
		if !parsedResponse.HasMore {
			break
		}
		pageToken = parsedResponse.LastID
	}
	return results, nil
}

func (c *Config) listModels(ctx context.Context, u *url.URL, apiKey string) (*modelResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", c.AnthropicVersion)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, readAPIError(resp)
	}
	parsedResponse := &modelResponse{}
	if err := json.NewDecoder(resp.Body).Decode(parsedResponse); err != nil {
		return nil, err
	}
	return parsedResponse, nil
}
