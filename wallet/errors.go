package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidWIF indicates the WIF string could not be decoded.
	ErrInvalidWIF = errors.New("wallet: invalid WIF private key")

	// ErrDecryptionFailed indicates wrong password or corrupted key file.
	ErrDecryptionFailed = errors.New("wallet: key decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: key checksum mismatch")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrKeyFileExists indicates a key file is already present at the target path.
	ErrKeyFileExists = errors.New("wallet: key file already exists")
)
