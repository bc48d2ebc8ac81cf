package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miradot/intersight-example/api"
	"github.com/miradot/intersight-example/cryptoutils"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*Server, *httptest.Server, cryptoutils.AppPrivkey, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pub, priv, err := cryptoutils.RandomP256Keypair()
	require.NoError(t, err)

	handler := NewHandler(logger)
	keyID, err := handler.RegisterKey(pub)
	require.NoError(t, err)
	handler.RegisterCollection("compute/PhysicalSummaries/", SampleAssets())

	srv := New(&api.HTTPServerConfig{Log: logger}, handler)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, ts, priv, keyID
}

func signedGet(t *testing.T, url string, priv cryptoutils.AppPrivkey, keyID string) *http.Response {
	t.Helper()
	signer, err := priv.GetPrivateKey()
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	require.NoError(t, cryptoutils.SignRequest(req, nil, keyID, signer, time.Now()))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleCollection_Success(t *testing.T) {
	srv, ts, priv, keyID := setupTestServer(t)

	resp := signedGet(t, ts.URL+"/api/v1/compute/PhysicalSummaries", priv, keyID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var body struct {
		Count   int
		Results []map[string]interface{}
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	require.Equal(t, " C220-WXY12345PZB", body.Results[0]["Name"])
	require.EqualValues(t, 131072, body.Results[0]["AvailableMemory"])

	require.EqualValues(t, 1, srv.Served())
}

func TestHandleCollection_Unsigned(t *testing.T) {
	_, ts, _, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/compute/PhysicalSummaries")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleCollection_UnknownKey(t *testing.T) {
	_, ts, _, _ := setupTestServer(t)

	otherPub, otherPriv, err := cryptoutils.RandomP256Keypair()
	require.NoError(t, err)
	otherID, err := otherPub.Fingerprint()
	require.NoError(t, err)

	resp := signedGet(t, ts.URL+"/api/v1/compute/PhysicalSummaries", otherPriv, otherID)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleCollection_NotFound(t *testing.T) {
	_, ts, priv, keyID := setupTestServer(t)

	resp := signedGet(t, ts.URL+"/api/v1/compute/Blades", priv, keyID)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	_, ts, _, _ := setupTestServer(t)

	get := func(path string) int {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	require.Equal(t, http.StatusOK, get("/livez"))
	require.Equal(t, http.StatusOK, get("/readyz"))
	require.Equal(t, http.StatusOK, get("/drain"))
	require.Equal(t, http.StatusServiceUnavailable, get("/readyz"))
	require.Equal(t, http.StatusOK, get("/undrain"))
	require.Equal(t, http.StatusOK, get("/readyz"))
}

func TestLoadAssetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Results": [{"Name": "blade-1", "NumCpus": 4}]}`), 0600))

	assets, err := LoadAssetsFile(path)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	require.Equal(t, json.Number("4"), assets[0]["NumCpus"])

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0600))
	_, err = LoadAssetsFile(path)
	require.Error(t, err)
}
