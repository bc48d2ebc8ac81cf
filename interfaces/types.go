// Package interfaces defines the types shared between the credential loader,
// the request client, the inventory orchestrator and the entry point.
package interfaces

import (
	"crypto"

	"github.com/miradot/intersight-example/cryptoutils"
)

type AppPubkey = cryptoutils.AppPubkey
type AppPrivkey = cryptoutils.AppPrivkey

// Environment variables naming the two credential files.
const (
	PrivateKeyPathEnv = "INTERSIGHT_PRIVATE_KEY_PATH"
	PublicKeyPathEnv  = "INTERSIGHT_PUBLIC_KEY_PATH"
)

// Credentials is the validated key pair every outbound request is signed
// with. It is built once at startup and never modified.
type Credentials struct {
	PrivateKey AppPrivkey
	PublicKey  []byte

	// KeyID identifies the key pair to the API.
	KeyID  string
	Signer crypto.Signer
}

// QueryOptions describes one read-only request against the API.
type QueryOptions struct {
	Method       string
	ResourcePath string
	QueryParams  map[string]string
}

// Asset is one hardware inventory record as returned by the API. Numeric
// values are kept as json.Number.
type Asset map[string]interface{}

// Lookup returns the value stored under field and whether it was present.
func (a Asset) Lookup(field string) (interface{}, bool) {
	v, ok := a[field]
	return v, ok
}

// QueryResult is the decoded body of a collection request.
type QueryResult struct {
	Results []Asset `json:"Results"`
}
