// Package notify sends best-effort event notifications to a Discord-compatible webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"fileshare_backend/internal/shared/ratelimiter"
)

const defaultTimeout = 5 * time.Second

// Discord posts {"content": message} to a webhook in a detached goroutine.
// Calls never block the caller and failures are only logged.
type Discord struct {
	url     string
	client  *http.Client
	timeout time.Duration
	limiter ratelimiter.Limiter
	wg      sync.WaitGroup
}

// NewDiscord returns a notifier for webhookURL. An empty URL disables delivery.
// Messages over the limiter's budget are dropped; a nil limiter sends everything.
func NewDiscord(webhookURL string, client *http.Client, limiter ratelimiter.Limiter) *Discord {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Discord{url: webhookURL, client: client, timeout: defaultTimeout, limiter: limiter}
}

// Enabled reports whether a webhook is configured.
func (d *Discord) Enabled() bool { return d.url != "" }

func (d *Discord) UserSignedUp(email string) {
	d.dispatch(fmt.Sprintf("New user signed up: %s", email))
}

func (d *Discord) EmailVerified(email string) {
	d.dispatch(fmt.Sprintf("Email verified: %s", email))
}

func (d *Discord) UploadStarted(email, fileName, presignedGet string) {
	d.dispatch(fmt.Sprintf("Upload started by %s: %s (`%s`)", email, fileName, presignedGet))
}

// Wait blocks until every dispatched message has finished.
func (d *Discord) Wait() {
	d.wg.Wait()
}

func (d *Discord) dispatch(content string) {
	if !d.Enabled() {
		return
	}
	if d.limiter != nil && !d.limiter.Allow() {
		zap.L().Debug("webhook notification dropped by rate limit")
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				zap.L().Debug("webhook notification panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.post(ctx, content); err != nil {
			zap.L().Debug("webhook notification failed", zap.Error(err))
		}
	}()
}

func (d *Discord) post(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
