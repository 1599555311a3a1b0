// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/conform/pkg/errors"
)

func TestNewHttpReader_Defaults(t *testing.T) {
	reader := NewHttpReader()

	require.NotNil(t, reader.Client)
	assert.Equal(t, HttpReaderUserAgent, reader.UserAgent)
	assert.Equal(t, HttpReaderDefaultTimeout, reader.Client.Timeout)
	assert.Equal(t, HttpReaderDefaultMaxBodySize, reader.MaxBodySize)
	assert.Nil(t, reader.Limiter)
}

func TestNewHttpReader_WithOptions(t *testing.T) {
	limiter := rate.NewLimiter(5, 1)
	reader := NewHttpReader(
		WithUserAgent("test-agent"),
		WithTotalTimeout(3*time.Second),
		WithConnectTimeout(time.Second),
		WithInsecureSkipVerify(true),
		WithMaxBodySize(64),
		WithRateLimit(limiter),
	)

	assert.Equal(t, "test-agent", reader.UserAgent)
	assert.Equal(t, 3*time.Second, reader.Client.Timeout)
	assert.Equal(t, int64(64), reader.MaxBodySize)
	assert.Same(t, limiter, reader.Limiter)

	tr, ok := reader.Client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}

func TestNewHttpReader_WithCustomClient(t *testing.T) {
	client := &http.Client{Timeout: 7 * time.Second}
	reader := NewHttpReader(WithClient(client))

	assert.Same(t, client, reader.Client)
	assert.Equal(t, 7*time.Second, reader.Client.Timeout, "custom client timeout is kept")
}

func TestHttpReader_Read_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HttpReaderUserAgent, r.Header.Get("User-Agent"))
		w.Write([]byte("config: []\n"))
	}))
	defer server.Close()

	data, err := NewHttpReader().Read(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "config: []\n", string(data))
}

func TestHttpReader_Read_StatusCodes(t *testing.T) {
	tests := []struct {
		status int
		code   errors.ErrorCode
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound},
		{http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{http.StatusForbidden, errors.ErrCodeUnauthorized},
		{http.StatusGatewayTimeout, errors.ErrCodeTimeout},
		{http.StatusInternalServerError, errors.ErrCodeUnavailable},
		{http.StatusBadRequest, errors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewHttpReader().Read(server.URL)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Contains(t, err.Error(), "failed to fetch data")
		})
	}
}

func TestHttpReader_Read_EmptyURL(t *testing.T) {
	_, err := NewHttpReader().Read("")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestHttpReader_Read_InvalidURL(t *testing.T) {
	_, err := NewHttpReader().Read("://bad")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestHttpReader_Read_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHttpReader().Read(url)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnavailable, errors.CodeOf(err))
}

func TestHttpReader_Read_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	_, err := NewHttpReader(WithMaxBodySize(10)).Read(server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 10 bytes")

	data, err := NewHttpReader(WithMaxBodySize(100)).Read(server.URL)
	require.NoError(t, err)
	assert.Len(t, data, 100)
}

func TestHttpReader_ReadWithContext_Timeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHttpReader().ReadWithContext(ctx, server.URL)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}

func TestHttpReader_ReadWithContext_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	// One token, refilled once a minute: the second call cannot proceed.
	reader := NewHttpReader(WithRateLimit(rate.NewLimiter(rate.Every(time.Minute), 1)))

	_, err := reader.Read(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = reader.ReadWithContext(ctx, server.URL)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.CodeOf(err))
}
