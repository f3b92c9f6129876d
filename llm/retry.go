/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package llm

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/cloudwego/seowriter/internal/log"
)

// RetryPolicy is a deployment-level wrapper around a Generator. The article
// pipeline itself never retries.
type RetryPolicy struct {
	Retries         int           // extra attempts after the first
	Timeout         time.Duration // per attempt, 0 means none
	InitialInterval time.Duration // default 1s
	MaxInterval     time.Duration // default 10s
}

// WithRetry wraps g with p. A zero policy returns g unchanged.
func WithRetry(g Generator, p RetryPolicy) Generator {
	if p.Retries <= 0 && p.Timeout <= 0 {
		return g
	}
	if p.InitialInterval == 0 {
		p.InitialInterval = time.Second
	}
	if p.MaxInterval == 0 {
		p.MaxInterval = 10 * time.Second
	}
	return &retryGenerator{next: g, policy: p}
}

type retryGenerator struct {
	next   Generator
	policy RetryPolicy
}

func (r *retryGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval

	attempt := 0
	op := func() (string, error) {
		attempt++
		actx := ctx
		if r.policy.Timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, r.policy.Timeout)
			defer cancel()
		}
		out, err := r.next.Generate(actx, prompt)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil || !IsRetryable(err) {
			return "", backoff.Permanent(err)
		}
		log.Info("Retryable generation error (attempt %d/%d): %v", attempt, r.policy.Retries+1, err)
		return "", err
	}

	out, err := backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(r.policy.Retries, 0))), ctx))
	if err != nil {
		var ge *GenerationError
		if !errors.As(err, &ge) {
			err = &GenerationError{Provider: "retry", Err: err}
		}
		return "", err
	}
	return out, nil
}

// IsRetryable reports whether err looks transient: timeouts, dropped
// connections, rate limiting or a 5xx from the provider.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	s := err.Error()
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "timed out") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "EOF") ||
		strings.Contains(s, "temporary failure")
}
