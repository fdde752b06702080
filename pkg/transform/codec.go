package transform

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same
// chain always encodes to the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transform: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("transform: CBOR decoder initialization failed: " + err.Error())
	}
}

// Canonical returns the canonical binary serialization of the chain used
// for fingerprinting. A nil and an empty chain serialize identically.
func (c Chain) Canonical() ([]byte, error) {
	if c == nil {
		c = Chain{}
	}

	return encMode.Marshal(c)
}

func DecodeChain(data []byte) (Chain, error) {
	var chain Chain
	if err := decMode.Unmarshal(data, &chain); err != nil {
		return nil, err
	}

	return chain, nil
}

// Marshal encodes v with the deterministic encoder. It is shared with the
// cache stores that keep artifacts as CBOR values.
func Marshal(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}
