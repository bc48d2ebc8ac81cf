// Package credentials loads and validates the API key pair the request client
// signs with.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/miradot/intersight-example/cryptoutils"
	"github.com/miradot/intersight-example/interfaces"
)

// Load reads both key files, validates them and returns the resulting
// credentials. Both paths are checked for presence before either file is read.
func Load(privateKeyPath, publicKeyPath string, log *slog.Logger) (*interfaces.Credentials, error) {
	if privateKeyPath == "" || publicKeyPath == "" {
		return nil, &interfaces.Error{Kind: interfaces.KindMissingConfiguration}
	}

	privateKeyPEM, err := readKeyFile(privateKeyPath)
	if err != nil {
		return nil, err
	}

	// The signer does not report malformed keys usefully, so the key is
	// validated here on its own.
	privateKey, err := cryptoutils.NewAppPrivkey(privateKeyPEM)
	if err != nil {
		return nil, &interfaces.Error{Kind: interfaces.KindInvalidPrivateKeyFormat, Path: privateKeyPath, Err: err}
	}

	signer, err := privateKey.GetPrivateKey()
	if err != nil {
		return nil, &interfaces.Error{Kind: interfaces.KindInvalidPrivateKeyFormat, Path: privateKeyPath, Err: err}
	}

	publicKeyPEM, err := readKeyFile(publicKeyPath)
	if err != nil {
		return nil, err
	}

	keyID, err := cryptoutils.KeyIDFromPublicKey(publicKeyPEM)
	if err != nil {
		return nil, &interfaces.Error{Kind: interfaces.KindInvalidPublicKeyFormat, Path: publicKeyPath, Err: err}
	}

	log.Debug("loaded credentials", "privateKeyPath", privateKeyPath, "publicKeyPath", publicKeyPath, "keyId", keyID, "keyType", fmt.Sprintf("%T", signer))

	return &interfaces.Credentials{
		PrivateKey: privateKey,
		PublicKey:  publicKeyPEM,
		KeyID:      keyID,
		Signer:     signer,
	}, nil
}

func readKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &interfaces.Error{Kind: interfaces.KindCredentialFileNotFound, Path: path, Err: err}
	}
	if err != nil {
		e := interfaces.NewError(interfaces.KindUnknownCredential, err)
		e.Path = path
		return nil, e
	}
	return data, nil
}
