package cryptoutils

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Headers covered by every request signature, in signing order.
const SignedHeaders = "(request-target) date host digest"

const (
	AlgorithmRSASHA256 = "rsa-sha256"
	AlgorithmHS2019    = "hs2019"
)

// MaxClockSkew bounds how far a signed Date header may drift from the verifier's clock.
const MaxClockSkew = 5 * time.Minute

// SignRequest adds HTTP signature authentication to req.
//
// The signature covers the request target, the Date, Host and Digest
// headers, where Digest is the SHA-256 of body. RSA keys produce
// PKCS#1 v1.5 signatures ("rsa-sha256"), ECDSA keys produce ASN.1
// signatures ("hs2019"). The result is set as:
//
//	Authorization: Signature keyId="..",algorithm="..",headers="..",signature=".."
func SignRequest(req *http.Request, body []byte, keyID string, signer crypto.Signer, now time.Time) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}

	algorithm, err := signatureAlgorithm(signer.Public())
	if err != nil {
		return err
	}

	req.Header.Set("Date", now.UTC().Format(http.TimeFormat))
	req.Header.Set("Digest", BodyDigest(body))
	if req.Host == "" {
		req.Host = req.URL.Host
	}

	hash := sha256.Sum256([]byte(signingString(req.Method, req.URL.RequestURI(), req.Host, req.Header)))

	var signature []byte
	switch key := signer.(type) {
	case *ecdsa.PrivateKey:
		signature, err = ecdsa.SignASN1(rand.Reader, key, hash[:])
	default:
		signature, err = signer.Sign(rand.Reader, hash[:], crypto.SHA256)
	}
	if err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf(`Signature keyId="%s",algorithm="%s",headers="%s",signature="%s"`,
		keyID, algorithm, SignedHeaders, base64.StdEncoding.EncodeToString(signature)))

	return nil
}

// VerifyRequest checks the signature SignRequest placed on r. lookup resolves
// the keyId parameter to the public key it names. It returns the verified key ID.
func VerifyRequest(r *http.Request, body []byte, lookup func(keyID string) (crypto.PublicKey, error), now time.Time) (string, error) {
	params, err := ParseSignatureHeader(r.Header.Get("Authorization"))
	if err != nil {
		return "", err
	}

	if params["headers"] != SignedHeaders {
		return "", fmt.Errorf("unexpected signed headers %q", params["headers"])
	}

	if r.Header.Get("Digest") != BodyDigest(body) {
		return "", errors.New("digest mismatch")
	}

	date, err := http.ParseTime(r.Header.Get("Date"))
	if err != nil {
		return "", fmt.Errorf("invalid date header: %w", err)
	}
	if skew := now.Sub(date); skew > MaxClockSkew || skew < -MaxClockSkew {
		return "", fmt.Errorf("date header outside allowed skew: %s", skew)
	}

	keyID := params["keyId"]
	pub, err := lookup(keyID)
	if err != nil {
		return "", fmt.Errorf("unknown key %q: %w", keyID, err)
	}

	algorithm, err := signatureAlgorithm(pub)
	if err != nil {
		return "", err
	}
	if params["algorithm"] != algorithm {
		return "", fmt.Errorf("algorithm %q does not match key type", params["algorithm"])
	}

	signature, err := base64.StdEncoding.DecodeString(params["signature"])
	if err != nil {
		return "", fmt.Errorf("invalid signature encoding: %w", err)
	}

	hash := sha256.Sum256([]byte(signingString(r.Method, r.URL.RequestURI(), r.Host, r.Header)))

	switch key := pub.(type) {
	case *ecdsa.PublicKey:
		if !ecdsa.VerifyASN1(key, hash[:], signature) {
			return "", errors.New("invalid signature")
		}
	case *rsa.PublicKey:
		if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, hash[:], signature); err != nil {
			return "", fmt.Errorf("invalid signature: %w", err)
		}
	}

	return keyID, nil
}

// ParseSignatureHeader splits an Authorization: Signature header into its parameters.
func ParseSignatureHeader(header string) (map[string]string, error) {
	rest, ok := strings.CutPrefix(header, "Signature ")
	if !ok {
		return nil, errors.New("missing signature authorization")
	}

	params := make(map[string]string)
	for _, part := range strings.Split(rest, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("malformed signature parameter %q", part)
		}
		params[name] = strings.Trim(value, `"`)
	}

	for _, required := range []string{"keyId", "algorithm", "headers", "signature"} {
		if params[required] == "" {
			return nil, fmt.Errorf("signature parameter %s missing", required)
		}
	}
	return params, nil
}

// BodyDigest returns the Digest header value for body.
func BodyDigest(body []byte) string {
	h := sha256.Sum256(body)
	return "SHA-256=" + base64.StdEncoding.EncodeToString(h[:])
}

func signingString(method, requestURI, host string, header http.Header) string {
	return strings.Join([]string{
		"(request-target): " + strings.ToLower(method) + " " + requestURI,
		"date: " + header.Get("Date"),
		"host: " + host,
		"digest: " + header.Get("Digest"),
	}, "\n")
}

func signatureAlgorithm(pub crypto.PublicKey) (string, error) {
	switch pub.(type) {
	case *rsa.PublicKey:
		return AlgorithmRSASHA256, nil
	case *ecdsa.PublicKey:
		return AlgorithmHS2019, nil
	default:
		return "", fmt.Errorf("unsupported key type: %T", pub)
	}
}
