package cryptoutils

import (
	"crypto"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func signedRequest(t *testing.T, priv AppPrivkey, keyID string, now time.Time) *http.Request {
	t.Helper()
	signer, err := priv.GetPrivateKey()
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, "https://intersight.example/api/v1/compute/PhysicalSummaries?$top=10", nil)
	require.NoError(t, err)
	require.NoError(t, SignRequest(req, nil, keyID, signer, now))
	return req
}

// serverSide rebuilds the request the way net/http presents it to a handler.
func serverSide(req *http.Request) *http.Request {
	r := httptest.NewRequest(req.Method, req.URL.String(), nil)
	r.Host = req.Host
	r.Header = req.Header.Clone()
	return r
}

func TestSignAndVerify(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for name, priv := range map[string]AppPrivkey{
		"ecdsa": func() AppPrivkey { _, p, err := RandomP256Keypair(); require.NoError(t, err); return p }(),
		"rsa":   AppPrivkey(rsaKeyPEM(t, false)),
	} {
		t.Run(name, func(t *testing.T) {
			pub, err := priv.GetPublicKey()
			require.NoError(t, err)
			lookup := func(keyID string) (crypto.PublicKey, error) {
				if keyID != "key-1" {
					return nil, errors.New("not registered")
				}
				return pub, nil
			}

			req := signedRequest(t, priv, "key-1", now)
			require.Equal(t, "Sun, 18 Oct 2026 12:00:00 GMT", req.Header.Get("Date"))
			require.Equal(t, BodyDigest(nil), req.Header.Get("Digest"))

			keyID, err := VerifyRequest(serverSide(req), nil, lookup, now.Add(time.Minute))
			require.NoError(t, err)
			require.Equal(t, "key-1", keyID)
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	_, priv, err := RandomP256Keypair()
	require.NoError(t, err)
	pub, err := priv.GetPublicKey()
	require.NoError(t, err)
	lookup := func(string) (crypto.PublicKey, error) { return pub, nil }

	t.Run("tampered path", func(t *testing.T) {
		r := serverSide(signedRequest(t, priv, "key-1", now))
		r.URL.Path = "/api/v1/compute/Blades"
		_, err := VerifyRequest(r, nil, lookup, now)
		require.ErrorContains(t, err, "invalid signature")
	})

	t.Run("body digest mismatch", func(t *testing.T) {
		r := serverSide(signedRequest(t, priv, "key-1", now))
		_, err := VerifyRequest(r, []byte("{}"), lookup, now)
		require.ErrorContains(t, err, "digest mismatch")
	})

	t.Run("stale date", func(t *testing.T) {
		r := serverSide(signedRequest(t, priv, "key-1", now))
		_, err := VerifyRequest(r, nil, lookup, now.Add(time.Hour))
		require.ErrorContains(t, err, "skew")
	})

	t.Run("unknown key", func(t *testing.T) {
		r := serverSide(signedRequest(t, priv, "key-1", now))
		_, err := VerifyRequest(r, nil, func(string) (crypto.PublicKey, error) { return nil, errors.New("nope") }, now)
		require.ErrorContains(t, err, "unknown key")
	})

	t.Run("wrong key", func(t *testing.T) {
		_, other, err := RandomP256Keypair()
		require.NoError(t, err)
		otherPub, err := other.GetPublicKey()
		require.NoError(t, err)
		r := serverSide(signedRequest(t, priv, "key-1", now))
		_, err = VerifyRequest(r, nil, func(string) (crypto.PublicKey, error) { return otherPub, nil }, now)
		require.ErrorContains(t, err, "invalid signature")
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/compute/PhysicalSummaries", nil)
		_, err := VerifyRequest(r, nil, lookup, now)
		require.ErrorContains(t, err, "missing signature")
	})
}

func TestParseSignatureHeader(t *testing.T) {
	params, err := ParseSignatureHeader(`Signature keyId="a/b/c",algorithm="hs2019",headers="(request-target) date host digest",signature="YWJj=="`)
	require.NoError(t, err)
	require.Equal(t, "a/b/c", params["keyId"])
	require.Equal(t, "hs2019", params["algorithm"])
	require.Equal(t, "YWJj==", params["signature"])

	_, err = ParseSignatureHeader(`Signature keyId="a"`)
	require.Error(t, err)

	_, err = ParseSignatureHeader(`Bearer token`)
	require.Error(t, err)
}
