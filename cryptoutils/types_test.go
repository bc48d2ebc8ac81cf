package cryptoutils

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

func rsaKeyPEM(t *testing.T, pkcs8 bool) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	if pkcs8 {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)
		return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	}
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func TestNewAppPrivkey(t *testing.T) {
	_, ecPriv, err := RandomP256Keypair()
	require.NoError(t, err)

	t.Run("ec", func(t *testing.T) {
		priv, err := NewAppPrivkey(ecPriv)
		require.NoError(t, err)
		signer, err := priv.GetPrivateKey()
		require.NoError(t, err)
		require.IsType(t, &ecdsa.PrivateKey{}, signer)
	})

	t.Run("rsa pkcs1", func(t *testing.T) {
		priv, err := NewAppPrivkey(rsaKeyPEM(t, false))
		require.NoError(t, err)
		signer, err := priv.GetPrivateKey()
		require.NoError(t, err)
		require.IsType(t, &rsa.PrivateKey{}, signer)
	})

	t.Run("rsa pkcs8", func(t *testing.T) {
		_, err := NewAppPrivkey(rsaKeyPEM(t, true))
		require.NoError(t, err)
	})

	t.Run("not pem", func(t *testing.T) {
		_, err := NewAppPrivkey([]byte("not a valid PEM"))
		require.Error(t, err)
	})

	t.Run("truncated body", func(t *testing.T) {
		block, _ := pem.Decode(ecPriv)
		broken := pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: block.Bytes[:10]})
		_, err := NewAppPrivkey(broken)
		require.Error(t, err)
	})

	t.Run("public key in place of private", func(t *testing.T) {
		pub, _, err := RandomP256Keypair()
		require.NoError(t, err)
		_, err = NewAppPrivkey(pub)
		require.ErrorContains(t, err, "unexpected PEM block type")
	})

	t.Run("ed25519 unsupported", func(t *testing.T) {
		_, key, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)
		_, err = NewAppPrivkey(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
		require.ErrorContains(t, err, "unsupported private key type")
	})
}

func TestKeyIDFromPublicKey(t *testing.T) {
	pub, _, err := RandomP256Keypair()
	require.NoError(t, err)

	keyID, err := KeyIDFromPublicKey(pub)
	require.NoError(t, err)
	require.Len(t, keyID, 64)

	fingerprint, err := pub.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fingerprint, keyID)

	keyID, err = KeyIDFromPublicKey([]byte("  59c84e4a16267062ee0ff16e/59c84e4a16267062ee0ff173/5f1ff0e07564612d30b14bb5\n"))
	require.NoError(t, err)
	require.Equal(t, "59c84e4a16267062ee0ff16e/59c84e4a16267062ee0ff173/5f1ff0e07564612d30b14bb5", keyID)

	_, err = KeyIDFromPublicKey([]byte("\n"))
	require.Error(t, err)

	_, err = KeyIDFromPublicKey([]byte("line one\nline two"))
	require.Error(t, err)

	_, err = KeyIDFromPublicKey(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte("garbage")}))
	require.Error(t, err)
}

func TestPublicKeyMatchesPrivate(t *testing.T) {
	pub, priv, err := RandomP256Keypair()
	require.NoError(t, err)

	fromPub, err := pub.GetPublicKey()
	require.NoError(t, err)
	fromPriv, err := priv.GetPublicKey()
	require.NoError(t, err)

	require.True(t, fromPub.(*ecdsa.PublicKey).Equal(fromPriv))
}
