package branchservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с реестром филиалов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента реестра филиалов
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBranch получает филиал по ID
func (c *Client) GetBranch(ctx context.Context, branchID int64) (*Branch, error) {
	url := fmt.Sprintf("%s/branchLocations/%d", c.baseURL, branchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid branch ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrBranchNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var branch Branch
	if err := json.NewDecoder(resp.Body).Decode(&branch); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &branch, nil
}

// GetBranchWithGracefulDegradation получает филиал с graceful degradation.
// Филиал может быть переименован или удалён владеющим сервисом: при
// недоступности реестра или отсутствии филиала возвращается ErrServiceDegraded
// или ErrBranchNotFound, и вызывающая сторона показывает заглушку вместо
// названия, не роняя весь запрос.
func (c *Client) GetBranchWithGracefulDegradation(ctx context.Context, branchID int64) (*Branch, error) {
	branch, err := c.GetBranch(ctx, branchID)
	if err != nil {
		if err == ErrBranchNotFound {
			c.log.Warn("Branch id=%d no longer exists in registry", branchID)
			return nil, err
		}

		c.log.Error("BranchService unavailable, applying graceful degradation for branch_id=%d: %v", branchID, err)
		return nil, fmt.Errorf("%w: branch_id=%d, error=%v", ErrServiceDegraded, branchID, err)
	}

	return branch, nil
}
