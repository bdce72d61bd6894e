// Copyright (c) 2025 BVK Chaitanya

package backend

import (
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math"
	"math/big"
	"os"

	jose "gopkg.in/square/go-jose.v2"
)

// Credentials hold the optional API key for the backend. When configured,
// every websocket dial and every trade request carries a short-lived ES256
// JWT bearer token signed with the private key.
type Credentials struct {
	// KeyName identifies the API key. It is sent as the JWT "kid" header
	// and as the token subject.
	KeyName string `json:"key"`

	// PrivateKeyPEM is the EC private key in PEM form.
	PrivateKeyPEM string `json:"pem"`
}

func (c *Credentials) Check() error {
	if len(c.KeyName) == 0 {
		return fmt.Errorf("backend api key name cannot be empty")
	}
	if _, err := parseECPrivateKey(c.PrivateKeyPEM); err != nil {
		return err
	}
	return nil
}

func (c *Credentials) signer() (jose.Signer, error) {
	priKey, err := parseECPrivateKey(c.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.ES256, Key: priKey},
		(&jose.SignerOptions{NonceSource: nonceSource{}}).WithType("JWT").WithHeader("kid", c.KeyName),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create jwt signer: %w", err)
	}
	return signer, nil
}

func parseECPrivateKey(pemtext string) (any, error) {
	block, _ := pem.Decode([]byte(pemtext))
	if block == nil {
		return nil, fmt.Errorf("could not parse the PEM private key: %w", os.ErrInvalid)
	}
	priKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("could not parse the EC private key: %w", err)
	}
	return priKey, nil
}

type nonceSource struct{}

func (n nonceSource) Nonce() (string, error) {
	r, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return "", err
	}
	return r.String(), nil
}
