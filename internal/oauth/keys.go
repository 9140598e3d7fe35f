package oauth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"lineage/pkg/logging"
)

const (
	privateKeyFile = "private.pem"
	publicKeyFile  = "public.pem"

	rsaKeyBits = 2048
)

// KeyPair holds the RSA keypair used to sign and verify access tokens.
type KeyPair struct {
	Private *rsa.PrivateKey
}

// Public returns the verification key.
func (k *KeyPair) Public() *rsa.PublicKey {
	return &k.Private.PublicKey
}

// LoadOrCreateKeys loads the signing keypair from dir, generating and
// persisting a fresh one on first use.
func LoadOrCreateKeys(dir string) (*KeyPair, error) {
	path := filepath.Join(dir, privateKeyFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RotateKeys(dir)
		}
		return nil, fmt.Errorf("failed to read signing key %s: %w", path, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("signing key %s is not valid PEM", path)
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key %s: %w", path, err)
	}
	return &KeyPair{Private: key}, nil
}

// RotateKeys generates a new keypair and replaces the persisted one.
// Tokens signed with the previous key fail verification afterwards.
func RotateKeys(dir string) (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create key directory %s: %w", dir, err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(filepath.Join(dir, privateKeyFile), privPEM, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	if err := os.WriteFile(filepath.Join(dir, publicKeyFile), pubPEM, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write public key: %w", err)
	}

	logging.Info("OAuth", "Generated new token signing keypair in %s", dir)
	return &KeyPair{Private: key}, nil
}
