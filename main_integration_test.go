// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/tscatalog/i18n"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:18282"
	authority = "http://127.0.0.1:18282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	Header             map[string]string
	ExpectedStatusCode int
	// ExpectedBody is a substring the response body must contain.
	ExpectedBody string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.Method == "" {
		c.Method = http.MethodGet
	}

	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = http.StatusOK
	}
}

func TestMain(m *testing.M) {
	for k, v := range map[string]string{
		"TSCATALOG_HOST":       "127.0.0.1",
		"TSCATALOG_PORT":       "18282",
		"TSCATALOG_LANGUAGE":   "en",
		"TSCATALOG_RATE_LIMIT": "0",
	} {
		if err := os.Setenv(k, v); err != nil {
			log.Fatalf("Failed to set %s: %v", k, err)
		}
	}

	go func() {
		if err := run("serve"); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

func resolvePath(ctxName, source, lang string) string {
	q := url.Values{"context": {ctxName}, "source": {source}}
	if lang != "" {
		q.Set("lang", lang)
	}

	return "/api/resolve?" + q.Encode()
}

// TestSwitchLocale runs before the parallel route tests and leaves the
// base locale active again.
func TestSwitchLocale(t *testing.T) {
	resp := do(t, http.MethodPut, "/api/locale?lang=zh_CN", nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, do(t, http.MethodGet, resolvePath("qfw::BannerWidget", "Getting started", ""), nil))
	assert.Contains(t, body, "入门指南")

	resp = do(t, http.MethodPut, "/api/locale?lang="+i18n.BaseLocale, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/", ExpectedBody: "<table>"},
		{URL: "/api/locales", ExpectedBody: `"zh_CN"`},
		{URL: resolvePath("qfw::ColorPickerButton", "Choose ", "zh_CN"), ExpectedBody: `"translation":"选择 "`},
		{URL: resolvePath("qfw::ColorPickerButton", "Choose ", ""), ExpectedBody: `"translation":"Choose "`},
		{
			URL:          resolvePath("qfw::BannerWidget", "Getting started", ""),
			Header:       map[string]string{"Accept-Language": "zh-Hans-CN"},
			ExpectedBody: "入门指南",
		},
		{URL: "/api/resolve", ExpectedStatusCode: http.StatusBadRequest, ExpectedBody: `"error"`},
		{URL: "/api/locale?lang=fr", Method: http.MethodPut, ExpectedStatusCode: http.StatusNotFound},
		{URL: "/api/catalogs/zh_CN/gallery", ExpectedBody: "<TS"},
		{URL: "/api/catalogs/zh_CN/gallery?format=po", ExpectedBody: "msgctxt"},
		{URL: "/api/catalogs/zh_CN/gallery?format=yaml", ExpectedBody: "contexts:"},
		{URL: "/api/catalogs/fr/gallery", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/nothing-here", ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		tc.setDefault()

		t.Run(tc.Method+" "+tc.URL, func(t *testing.T) {
			t.Parallel()

			resp := do(t, tc.Method, tc.URL, tc.Header)

			assert.Equal(t, tc.ExpectedStatusCode, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("Server-Timing"))
			assert.Contains(t, readBody(t, resp), tc.ExpectedBody)
		})
	}
}

func do(t *testing.T, method, path string, header map[string]string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, authority+path, nil)
	require.NoError(t, err)

	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}
