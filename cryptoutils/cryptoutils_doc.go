// Package cryptoutils handles the API key pair and the HTTP request
// signatures derived from it.
//
// # Key Types
//
//   - AppPrivkey: PEM private key (RSA PKCS#1/PKCS#8, ECDSA SEC 1/PKCS#8), validated
//     structurally by NewAppPrivkey before it is ever used for signing
//   - AppPubkey: PEM public key; its SHA-256 fingerprint identifies the key pair
//
// # Request Signatures
//
// SignRequest authenticates a request with the HTTP Signatures scheme:
//
//	Date: Sun, 18 Oct 2026 12:00:00 GMT
//	Digest: SHA-256=<base64 sha256 of body>
//	Authorization: Signature keyId="<id>",algorithm="hs2019",headers="(request-target) date host digest",signature="<base64>"
//
// The signing string is one "name: value" line per covered header:
//
//	(request-target): get /api/v1/compute/PhysicalSummaries
//	date: Sun, 18 Oct 2026 12:00:00 GMT
//	host: intersight.com
//	digest: SHA-256=47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=
//
// VerifyRequest is the server-side counterpart.
package cryptoutils
