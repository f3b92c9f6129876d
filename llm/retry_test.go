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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyGenerator struct {
	failures int
	err      error
	calls    int
}

func (g *flakyGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.calls <= g.failures {
		return "", &GenerationError{Provider: "flaky", Err: g.err}
	}
	return "ok", nil
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{Retries: retries, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestWithRetry_ZeroPolicy(t *testing.T) {
	g := &flakyGenerator{}
	assert.Same(t, Generator(g), WithRetry(g, RetryPolicy{}))
}

func TestWithRetry_RecoversFromTransient(t *testing.T) {
	g := &flakyGenerator{failures: 2, err: errors.New("read tcp: connection reset by peer")}
	out, err := WithRetry(g, fastPolicy(2)).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, g.calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	g := &flakyGenerator{failures: 10, err: errors.New("i/o timeout")}
	_, err := WithRetry(g, fastPolicy(1)).Generate(context.Background(), "p")
	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "flaky", ge.Provider)
	assert.Equal(t, 2, g.calls)
}

func TestWithRetry_NonRetryable(t *testing.T) {
	g := &flakyGenerator{failures: 10, err: errors.New("content policy violation")}
	_, err := WithRetry(g, fastPolicy(3)).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 1, g.calls)
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", &GenerationError{Provider: "slow", Err: ctx.Err()}
}

func TestWithRetry_PerAttemptTimeout(t *testing.T) {
	g := WithRetry(slowGenerator{}, RetryPolicy{Timeout: 5 * time.Millisecond})
	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.False(t, IsRetryable(errors.New("invalid request")))
}
