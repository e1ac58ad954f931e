package tx

import "fmt"

// Intent describes one output the caller wants to create. Exactly one form is
// valid per intent: a payment (address + positive amount) or a data carrier
// (payload only, zero value, provably unspendable).
type Intent struct {
	Address string // payment destination (empty for data intents)
	Amount  uint64 // satoshis (0 for data intents)
	Data    []byte // OP_RETURN payload (nil for payment intents)
}

// PayTo creates a payment intent.
func PayTo(address string, amount uint64) Intent {
	return Intent{Address: address, Amount: amount}
}

// DataCarrier creates a data-carrier intent for an OP_RETURN output.
func DataCarrier(payload []byte) Intent {
	return Intent{Data: payload}
}

// IsData reports whether the intent is a data carrier.
func (in Intent) IsData() bool {
	return in.Data != nil
}

// Validate checks the intent holds exactly one well-formed spend form.
func (in Intent) Validate() error {
	if in.IsData() {
		if in.Address != "" || in.Amount != 0 {
			return fmt.Errorf("%w: data intent must not carry an address or amount", ErrInvalidIntent)
		}
		if len(in.Data) == 0 {
			return fmt.Errorf("%w: empty payload", ErrInvalidPayload)
		}
		if len(in.Data) > MaxDataPayload {
			return fmt.Errorf("%w: payload is %d bytes, relay limit is %d", ErrInvalidPayload, len(in.Data), MaxDataPayload)
		}
		return nil
	}
	if in.Address == "" {
		return fmt.Errorf("%w: missing destination address", ErrInvalidIntent)
	}
	if in.Amount == 0 {
		return ErrInvalidAmount
	}
	if in.Amount > MaxMoney {
		return fmt.Errorf("%w: %d sat exceeds the %d sat coin supply", ErrInvalidAmount, in.Amount, MaxMoney)
	}
	return nil
}

// SumIntents returns the total satoshis across payment intents and the total
// payload length across data intents.
func SumIntents(intents []Intent) (amount uint64, payloadLen int) {
	for _, in := range intents {
		if in.IsData() {
			payloadLen += len(in.Data)
			continue
		}
		amount += in.Amount
	}
	return amount, payloadLen
}
