package cryptoutils

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// AppPubkey represents the API key's public half in PEM format.
type AppPubkey []byte

// NewAppPubkey creates a new public key object from PEM-encoded data with validation.
func NewAppPubkey(data []byte) (AppPubkey, error) {
	// Validate PEM format
	block, _ := pem.Decode(data)
	if block == nil || (block.Type != "PUBLIC KEY" && block.Type != "RSA PUBLIC KEY") {
		return AppPubkey{}, errors.New("invalid public key: not in PEM format or not a public key")
	}

	// Validate public key structure
	if _, err := parsePublicKeyBlock(block); err != nil {
		return AppPubkey{}, fmt.Errorf("invalid public key structure: %w", err)
	}

	return AppPubkey(data), nil
}

// Validate checks if the public key is properly formed.
func (pub AppPubkey) Validate() error {
	_, err := NewAppPubkey(pub)
	return err
}

// GetPublicKey returns the parsed public key interface.
func (pub AppPubkey) GetPublicKey() (crypto.PublicKey, error) {
	block, _ := pem.Decode(pub)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	return parsePublicKeyBlock(block)
}

// Fingerprint is the hex-encoded SHA-256 of the DER public key.
func (pub AppPubkey) Fingerprint() (string, error) {
	block, _ := pem.Decode(pub)
	if block == nil {
		return "", errors.New("failed to decode PEM block")
	}
	return DERPubkeyFingerprint(block.Bytes), nil
}

func DERPubkeyFingerprint(pubkeyDER []byte) string {
	h := sha256.Sum256(pubkeyDER)
	return hex.EncodeToString(h[:])
}

func parsePublicKeyBlock(block *pem.Block) (crypto.PublicKey, error) {
	if block.Type == "RSA PUBLIC KEY" {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}
	return x509.ParsePKIXPublicKey(block.Bytes)
}

// KeyIDFromPublicKey derives the identifier sent with every signature. A PEM
// public key is identified by its fingerprint; anything else is taken to be an
// API key ID issued by the service and is used verbatim.
func KeyIDFromPublicKey(data []byte) (string, error) {
	if block, _ := pem.Decode(data); block != nil {
		pub, err := NewAppPubkey(data)
		if err != nil {
			return "", err
		}
		return pub.Fingerprint()
	}

	keyID := strings.TrimSpace(string(data))
	if keyID == "" {
		return "", errors.New("public key file is empty")
	}
	if strings.ContainsAny(keyID, "\"\r\n") {
		return "", errors.New("invalid API key ID: must be a single line without quotes")
	}
	return keyID, nil
}

// AppPrivkey represents the API key's private half in PEM format.
type AppPrivkey []byte

// NewAppPrivkey creates a new private key object from PEM-encoded data with
// validation. RSA (PKCS#1 or PKCS#8) and ECDSA (SEC 1 or PKCS#8) keys are
// accepted since those are the only ones requests can be signed with.
func NewAppPrivkey(data []byte) (AppPrivkey, error) {
	priv := AppPrivkey(data)
	if _, err := priv.GetPrivateKey(); err != nil {
		return AppPrivkey{}, err
	}
	return priv, nil
}

// Validate checks if the private key is properly formed.
func (priv AppPrivkey) Validate() error {
	_, err := NewAppPrivkey(priv)
	return err
}

// GetPrivateKey returns the parsed private key as a signer.
func (priv AppPrivkey) GetPrivateKey() (crypto.Signer, error) {
	block, _ := pem.Decode(priv)
	if block == nil {
		return nil, errors.New("invalid private key: not in PEM format")
	}

	var (
		key interface{}
		err error
	)
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("invalid private key: unexpected PEM block type %q", block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid private key structure: %w", err)
	}

	switch k := key.(type) {
	case *rsa.PrivateKey:
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("invalid RSA private key: %w", err)
		}
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported private key type: %T", key)
	}
}

func (priv AppPrivkey) GetPublicKey() (crypto.PublicKey, error) {
	signer, err := priv.GetPrivateKey()
	if err != nil {
		return nil, err
	}
	return signer.Public(), nil
}

func RandomP256Keypair() (AppPubkey, AppPrivkey, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	privateKeyBytes, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return nil, nil, err
	}

	privateKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "EC PRIVATE KEY",
		Bytes: privateKeyBytes,
	})

	pubkeyBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	pubkeyKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubkeyBytes,
	})

	return AppPubkey(pubkeyKeyPEM), AppPrivkey(privateKeyPEM), nil
}
