package apiservice

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pingcap-inc/dwsink/pkg/coreinterfaces"
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/stretchr/testify/require"
)

func testProfile() destination.VendorProfile {
	return destination.VendorProfile{
		Name: "fake",
		ToDescriptor: func(cfg destination.RawConfig) (*coreinterfaces.ConnectionDescriptor, error) {
			host, err := cfg.RequiredString("host")
			if err != nil {
				return nil, err
			}
			return &coreinterfaces.ConnectionDescriptor{URL: "fake://" + host, Schema: "public"}, nil
		},
	}
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCheckEndpoint(t *testing.T) {
	service := New([]destination.VendorProfile{testProfile()})
	h := service.Handler()

	w := doRequest(h, http.MethodPost, "/check/fake", `{"port": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	msg := &protocol.Message{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), msg))
	require.Equal(t, protocol.MessageTypeConnectionStatus, msg.Type)
	require.Equal(t, protocol.StatusFailed, msg.ConnectionStatus.Status)
	require.True(t, strings.HasPrefix(msg.ConnectionStatus.Message, destination.FailurePrefix))
	require.Contains(t, msg.ConnectionStatus.Message, "host")

	summary, ok := service.APIInfo.LastCheck("fake")
	require.True(t, ok)
	require.Equal(t, string(protocol.StatusFailed), summary.Status)
	require.Equal(t, float64(1), service.Metric.CheckCount("fake", string(protocol.StatusFailed)))
	require.Equal(t, float64(0), service.Metric.ChecksInflight("fake"))
}

func TestCheckEndpointErrors(t *testing.T) {
	h := New([]destination.VendorProfile{testProfile()}).Handler()

	w := doRequest(h, http.MethodPost, "/check/unknown", `{}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(h, http.MethodPost, "/check/fake", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInfoAndMetrics(t *testing.T) {
	service := New([]destination.VendorProfile{testProfile()})
	h := service.Handler()
	doRequest(h, http.MethodPost, "/check/fake", `{}`)

	w := doRequest(h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info struct {
		Destinations []string       `json:"destinations"`
		CheckCounts  map[string]int `json:"check_counts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Equal(t, []string{"fake"}, info.Destinations)
	require.Equal(t, 1, info.CheckCounts["fake"])

	w = doRequest(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `dwsink_check_total{destination="fake",status="FAILED"} 1`)
}

func TestServeContext(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	service := New([]destination.VendorProfile{testProfile()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- service.ServeContext(ctx, l)
	}()

	resp, err := http.Get("http://" + l.Addr().String() + "/info")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
