package transparency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the transparency gateway API. It is the
// transport behind the submission workflow: every call is a single attempt
// with no retries, mirroring the gateway's own failure policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient constructs a gateway client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// SetToken installs the bearer credential forwarded on authenticated calls.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope mirrors the gateway's standard response shape.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var data struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &data); err != nil {
		return "", err
	}
	return data.Token, nil
}

// GenerateQuestions fetches follow-up questions for the product text.
func (c *Client) GenerateQuestions(ctx context.Context, name, description string) ([]Question, error) {
	body := map[string]string{"product_name": name, "description": description}
	var data struct {
		Questions []Question `json:"questions"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/questions/generate", body, &data); err != nil {
		return nil, err
	}
	return data.Questions, nil
}

// CreateProduct submits one aggregated submission.
func (c *Client) CreateProduct(ctx context.Context, sub *Submission) (*CreateResult, error) {
	var result CreateResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/products", sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListProducts returns all visible products, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var data struct {
		Products []Product `json:"products"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &data); err != nil {
		return nil, err
	}
	return data.Products, nil
}

// TransparencyScore requests the on-demand score for a product.
func (c *Client) TransparencyScore(ctx context.Context, productID int) (*Score, error) {
	var score Score
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/transparency-score", productID), nil, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// DownloadReport opens the product's PDF report stream. The caller owns the
// returned ReadCloser. The second return value is the attachment filename.
func (c *Client) DownloadReport(ctx context.Context, productID int) (io.ReadCloser, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d/report", productID), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", c.statusError(resp)
	}

	filename := fmt.Sprintf("transparency_report_%d.pdf", productID)
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return resp.Body, filename, nil
}

// doJSON performs a request and decodes the envelope's data field into result.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		code := "UNKNOWN"
		message := env.Message
		if env.Error != nil {
			code = env.Error.Code
			message = env.Error.Message
		}
		return fmt.Errorf("gateway returned %d (%s): %s", resp.StatusCode, code, message)
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) statusError(resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var env envelope
	if err := json.Unmarshal(respBody, &env); err == nil && env.Error != nil {
		return fmt.Errorf("gateway returned %d (%s): %s", resp.StatusCode, env.Error.Code, env.Error.Message)
	}
	return fmt.Errorf("gateway returned status %d", resp.StatusCode)
}
