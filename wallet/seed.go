// Package wallet implements key management for a BCH wallet: single WIF
// keys, BIP32/BIP39 HD derivation along m/44'/145'/{account}'/{chain}/{index},
// and encrypted at-rest storage of key material.
package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/crypto/argon2"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128
	Mnemonic24Words = 256

	// Argon2id parameters for key-file encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen     = 16
	NonceLen    = 12
	ChecksumLen = 4
)

// GenerateMnemonic creates a new BIP39 mnemonic with the specified entropy
// bits: Mnemonic12Words (128) for 12 words or Mnemonic24Words (256) for 24.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("wallet: generate mnemonic: %w", err)
	}

	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic string is valid BIP39.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives a 64-byte BIP39 seed from mnemonic + optional
// passphrase. An empty passphrase still participates in derivation.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: derive seed: %w", err)
	}

	return seed, nil
}

// EncryptSecret encrypts arbitrary key material (a seed or a WIF string)
// with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, secret||checksum)
//
// The checksum is SHA256(secret)[:4] for verifying correct decryption.
func EncryptSecret(secret []byte, password string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidSeed
	}

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("wallet: generate salt: %w", err)
	}

	derivedKey := argon2.IDKey(
		[]byte(password),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Parallelism,
		Argon2KeyLen,
	)

	hash := sha256.Sum256(secret)
	plaintext := make([]byte, len(secret)+ChecksumLen)
	copy(plaintext, secret)
	copy(plaintext[len(secret):], hash[:ChecksumLen])

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: AES cipher creation failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("wallet: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("wallet: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, SaltLen+NonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)

	return result, nil
}

// DecryptSecret reverses EncryptSecret. It derives the key with Argon2id,
// decrypts with AES-256-GCM, then verifies the SHA256[:4] checksum.
func DecryptSecret(encrypted []byte, password string) ([]byte, error) {
	minLen := SaltLen + NonceLen + ChecksumLen
	if len(encrypted) < minLen {
		return nil, ErrDecryptionFailed
	}

	salt := encrypted[:SaltLen]
	nonce := encrypted[SaltLen : SaltLen+NonceLen]
	ciphertext := encrypted[SaltLen+NonceLen:]

	derivedKey := argon2.IDKey(
		[]byte(password),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Parallelism,
		Argon2KeyLen,
	)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	if len(plaintext) < ChecksumLen {
		return nil, ErrDecryptionFailed
	}

	secret := plaintext[:len(plaintext)-ChecksumLen]
	storedChecksum := plaintext[len(plaintext)-ChecksumLen:]

	hash := sha256.Sum256(secret)
	for i := 0; i < ChecksumLen; i++ {
		if storedChecksum[i] != hash[i] {
			return nil, ErrChecksumMismatch
		}
	}

	return secret, nil
}

// SaveKeyFile encrypts the key's WIF and writes it to path with 0600
// permissions. It refuses to overwrite an existing file.
func SaveKeyFile(path string, key *Key, password string) error {
	if key == nil {
		return ErrInvalidWIF
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrKeyFileExists, path)
	}

	encrypted, err := EncryptSecret([]byte(key.WIF()), password)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create key directory: %w", err)
	}
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		return fmt.Errorf("wallet: write key file: %w", err)
	}
	return nil
}

// LoadKeyFile decrypts the key file at path and imports the WIF it holds.
func LoadKeyFile(path string, password string, network *NetworkConfig) (*Key, error) {
	encrypted, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read key file: %w", err)
	}

	wif, err := DecryptSecret(encrypted, password)
	if err != nil {
		return nil, err
	}

	return FromWIF(string(wif), network)
}
