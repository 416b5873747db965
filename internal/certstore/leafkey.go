package certstore

import (
	"crypto"
	"fmt"

	"github.com/go-acme/lego/v4/certcrypto"
)

// LeafKeyBits enumerates the RSA key sizes LeafKeyRSABits accepts.
var LeafKeyBits = []int{1024, 2048, 3072, 4096}

// ValidLeafKeyBits reports whether bits is one of the accepted sizes.
func ValidLeafKeyBits(bits int) bool {
	for _, b := range LeafKeyBits {
		if b == bits {
			return true
		}
	}
	return false
}

// keyTypeForBits maps a validated RSA bit size onto lego's KeyType enum.
func keyTypeForBits(bits int) (certcrypto.KeyType, error) {
	switch bits {
	case 1024:
		// certcrypto has no 1024-bit constant; fall back to 2048 rather
		// than reject a legacy config outright.
		return certcrypto.RSA2048, nil
	case 2048:
		return certcrypto.RSA2048, nil
	case 3072:
		return certcrypto.RSA3072, nil
	case 4096:
		return certcrypto.RSA4096, nil
	default:
		return "", fmt.Errorf("certstore: unsupported LeafKeyRSABits %d", bits)
	}
}

// GenerateLeafKey generates a fresh RSA private key of the configured
// size for on-the-fly leaf certificate forging (a configured 1024 yields
// a 2048-bit key, see keyTypeForBits). The forging itself (signing the
// leaf with the CA key) lives outside this package; this only produces
// the subject key pair.
func GenerateLeafKey(bits int) (crypto.PrivateKey, error) {
	if !ValidLeafKeyBits(bits) {
		return nil, fmt.Errorf("certstore: LeafKeyRSABits must be one of %v, got %d", LeafKeyBits, bits)
	}
	kt, err := keyTypeForBits(bits)
	if err != nil {
		return nil, err
	}
	key, err := certcrypto.GeneratePrivateKey(kt)
	if err != nil {
		return nil, fmt.Errorf("certstore: generate leaf key: %w", err)
	}
	return key, nil
}

// ECDHCurves lists the curve names the ECDHCurve directive accepts.
var ECDHCurves = []string{"prime256v1", "secp384r1", "secp521r1"}

// ValidECDHCurve reports whether name is a recognized curve.
func ValidECDHCurve(name string) bool {
	for _, c := range ECDHCurves {
		if c == name {
			return true
		}
	}
	return false
}
