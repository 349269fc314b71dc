package binance

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
)

// SigningError means the credential material is malformed. It is fatal and
// not retryable.
type SigningError struct {
	Reason string
	cause  error
}

func (e *SigningError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("signing: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("signing: %s", e.Reason)
}

func (e *SigningError) Unwrap() error { return e.cause }

type signScheme int

const (
	schemeHMAC signScheme = iota
	schemeEd25519
)

// Credential holds the API key and signing material. It is immutable after
// construction, never logged, and the key material never leaves this type.
type Credential struct {
	apiKey  string
	secret  []byte
	privKey ed25519.PrivateKey
	scheme  signScheme
}

// NewHMACCredential builds a symmetric credential. The signature is the
// hex-encoded HMAC-SHA256 of the canonical query string.
func NewHMACCredential(apiKey, secret string) (Credential, error) {
	if apiKey == "" {
		return Credential{}, &SigningError{Reason: "api key is empty"}
	}
	if secret == "" {
		return Credential{}, &SigningError{Reason: "secret key is empty"}
	}
	return Credential{apiKey: apiKey, secret: []byte(secret), scheme: schemeHMAC}, nil
}

// NewEd25519Credential builds an asymmetric credential from a PKCS#8 PEM
// private key. The signature is the base64-encoded Ed25519 signature of the
// canonical query string bytes.
func NewEd25519Credential(apiKey string, pemKey []byte) (Credential, error) {
	if apiKey == "" {
		return Credential{}, &SigningError{Reason: "api key is empty"}
	}
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return Credential{}, &SigningError{Reason: "private key is not PEM encoded"}
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return Credential{}, &SigningError{Reason: "private key is not valid PKCS#8", cause: err}
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return Credential{}, &SigningError{Reason: fmt.Sprintf("private key is %T, want Ed25519", parsed)}
	}
	return Credential{apiKey: apiKey, privKey: priv, scheme: schemeEd25519}, nil
}

// APIKey returns the key sent in the X-MBX-APIKEY header.
func (c Credential) APIKey() string { return c.apiKey }

// Sign produces the authentication tag over the exact payload bytes.
// Deterministic: same payload and credential always yield the same tag.
func (c Credential) Sign(payload []byte) string {
	switch c.scheme {
	case schemeEd25519:
		return base64.StdEncoding.EncodeToString(ed25519.Sign(c.privKey, payload))
	default:
		mac := hmac.New(sha256.New, c.secret)
		mac.Write(payload)
		return hex.EncodeToString(mac.Sum(nil))
	}
}
