// Package cashaddr implements the CashAddr address format used by Bitcoin
// Cash: a base32 encoding of a version byte plus hash160, protected by a
// 40-bit BCH checksum over the network prefix and payload.
package cashaddr

import (
	"errors"
	"fmt"
	"strings"
)

// Network prefixes.
const (
	MainnetPrefix = "bitcoincash"
	TestnetPrefix = "bchtest"
	RegtestPrefix = "bchreg"
)

// AddressType identifies the script kind an address encodes.
type AddressType byte

const (
	// P2PKH is a pay-to-public-key-hash address.
	P2PKH AddressType = 0
	// P2SH is a pay-to-script-hash address.
	P2SH AddressType = 1
)

// Hash160Len is the only hash length this package supports (other sizes are
// defined by the CashAddr format but unused on the network).
const Hash160Len = 20

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev = func() [123]int8 {
	var rev [123]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}
	return rev
}()

var (
	// ErrInvalidAddress indicates the string is not a well-formed CashAddr.
	ErrInvalidAddress = errors.New("cashaddr: invalid address")

	// ErrChecksumMismatch indicates the checksum did not verify.
	ErrChecksumMismatch = errors.New("cashaddr: checksum mismatch")

	// ErrUnknownPrefix indicates an unrecognized network prefix.
	ErrUnknownPrefix = errors.New("cashaddr: unknown network prefix")
)

// Encode returns the CashAddr string for the given network prefix, address
// type, and 20-byte hash160. The result includes the prefix, e.g.
// "bitcoincash:qp...".
func Encode(prefix string, addrType AddressType, hash []byte) (string, error) {
	if len(hash) != Hash160Len {
		return "", fmt.Errorf("%w: hash must be %d bytes, got %d", ErrInvalidAddress, Hash160Len, len(hash))
	}

	// Version byte: type in bits 3-6, size bits 0-2 (0 == 160 bits).
	version := byte(addrType) << 3
	payload := append([]byte{version}, hash...)

	data, err := convertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}

	checksum := calcChecksum(prefix, data)
	data = append(data, checksum...)

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte(':')
	for _, d := range data {
		sb.WriteByte(charset[d])
	}
	return sb.String(), nil
}

// Decode parses a CashAddr string and returns its prefix, type, and hash160.
// Addresses without an explicit prefix are tried against the known network
// prefixes. Mixed-case strings are rejected, as the format requires.
func Decode(addr string) (prefix string, addrType AddressType, hash []byte, err error) {
	if strings.ToLower(addr) != addr && strings.ToUpper(addr) != addr {
		return "", 0, nil, fmt.Errorf("%w: mixed case", ErrInvalidAddress)
	}
	addr = strings.ToLower(addr)

	if i := strings.IndexByte(addr, ':'); i >= 0 {
		return decodeWithPrefix(addr[:i], addr[i+1:])
	}

	// No prefix given: try known networks.
	for _, p := range []string{MainnetPrefix, TestnetPrefix, RegtestPrefix} {
		prefix, addrType, hash, err = decodeWithPrefix(p, addr)
		if err == nil {
			return prefix, addrType, hash, nil
		}
	}
	return "", 0, nil, fmt.Errorf("%w: no known prefix matches", ErrChecksumMismatch)
}

func decodeWithPrefix(prefix, payload string) (string, AddressType, []byte, error) {
	if len(payload) < 9 { // at least one payload char + 8 checksum chars
		return "", 0, nil, fmt.Errorf("%w: payload too short", ErrInvalidAddress)
	}

	data := make([]byte, 0, len(payload))
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		if int(c) >= len(charsetRev) || charsetRev[c] < 0 {
			return "", 0, nil, fmt.Errorf("%w: invalid character %q", ErrInvalidAddress, c)
		}
		data = append(data, byte(charsetRev[c]))
	}

	if polymod(append(expandPrefix(prefix), data...)) != 0 {
		return "", 0, nil, ErrChecksumMismatch
	}

	// Strip the 8 checksum groups and repack to bytes.
	packed, err := convertBits(data[:len(data)-8], 5, 8, false)
	if err != nil {
		return "", 0, nil, err
	}
	if len(packed) != Hash160Len+1 {
		return "", 0, nil, fmt.Errorf("%w: unexpected payload length %d", ErrInvalidAddress, len(packed))
	}

	version := packed[0]
	if version&0x80 != 0 {
		return "", 0, nil, fmt.Errorf("%w: reserved version bit set", ErrInvalidAddress)
	}
	if version&0x07 != 0 { // size bits: 0 means 160-bit hash
		return "", 0, nil, fmt.Errorf("%w: unsupported hash size", ErrInvalidAddress)
	}

	t := AddressType(version >> 3)
	if t != P2PKH && t != P2SH {
		return "", 0, nil, fmt.Errorf("%w: unknown address type %d", ErrInvalidAddress, t)
	}

	return prefix, t, packed[1:], nil
}

// polymod is the BCH checksum function from the CashAddr specification.
func polymod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := c >> 35
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}

// expandPrefix maps the prefix to its checksum input form: the lower 5 bits
// of each character followed by a zero separator.
func expandPrefix(prefix string) []byte {
	out := make([]byte, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		out[i] = prefix[i] & 0x1f
	}
	out[len(prefix)] = 0
	return out
}

// calcChecksum computes the 8 base32 checksum groups for prefix + data.
func calcChecksum(prefix string, data []byte) []byte {
	input := append(expandPrefix(prefix), data...)
	input = append(input, make([]byte, 8)...) // checksum placeholder
	mod := polymod(input)

	checksum := make([]byte, 8)
	for i := 0; i < 8; i++ {
		checksum[i] = byte((mod >> uint(5*(7-i))) & 0x1f)
	}
	return checksum
}

// convertBits regroups the input from fromBits-sized groups to toBits-sized
// groups. With pad set, leftover bits are padded with zeros; without it,
// nonzero or oversized padding is an error (decode direction).
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1<<toBits) - 1
	out := make([]byte, 0, (len(data)*int(fromBits)+int(toBits)-1)/int(toBits))

	for _, b := range data {
		if b>>fromBits != 0 {
			return nil, fmt.Errorf("%w: invalid data value %d", ErrInvalidAddress, b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, fmt.Errorf("%w: invalid padding", ErrInvalidAddress)
	}

	return out, nil
}
