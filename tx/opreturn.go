package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// BuildDataScript creates the OP_RETURN locking script for a data-carrier
// output: OP_RETURN <payload>. The output is provably unspendable and carries
// zero value.
func BuildDataScript(payload []byte) (*script.Script, error) {
	if len(payload) == 0 {
		return nil, ErrInvalidPayload
	}
	if len(payload) > MaxDataPayload {
		return nil, fmt.Errorf("%w: payload is %d bytes, relay limit is %d", ErrInvalidPayload, len(payload), MaxDataPayload)
	}

	s := &script.Script{}
	*s = append(*s, script.OpRETURN)
	if err := s.AppendPushData(payload); err != nil {
		return nil, fmt.Errorf("%w: OP_RETURN push data: %w", ErrScriptBuild, err)
	}
	return s, nil
}

// ParseDataScript extracts the payload from an OP_RETURN locking script
// produced by BuildDataScript.
func ParseDataScript(s *script.Script) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: script", ErrNilParam)
	}

	chunks, err := s.Chunks()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataScript, err)
	}
	if len(chunks) != 2 {
		return nil, fmt.Errorf("%w: expected 2 chunks, got %d", ErrInvalidDataScript, len(chunks))
	}
	if chunks[0].Op != script.OpRETURN {
		return nil, fmt.Errorf("%w: missing OP_RETURN prefix", ErrInvalidDataScript)
	}
	if len(chunks[1].Data) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", ErrInvalidDataScript)
	}
	return chunks[1].Data, nil
}

// IsDataScript reports whether the raw locking script is an OP_RETURN
// data-carrier script.
func IsDataScript(raw []byte) bool {
	return len(raw) > 0 && raw[0] == script.OpRETURN
}
