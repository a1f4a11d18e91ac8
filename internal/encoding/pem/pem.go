// Package pem wraps DER and raw payloads in labelled base64 armor.
package pem

import (
	stdpem "encoding/pem"
	"fmt"

	"github.com/smallyu/go-ecc/pkg/ecc"
)

// Block labels written and accepted by the tools.
const (
	LabelPrivateKey     = "ECDH PRIVATE KEY"
	LabelPublicKey      = "ECDH PUBLIC KEY"
	LabelECDHMessage    = "ECDHE_XSALSA20 ENCRYPTED MESSAGE"
	LabelSignedMessage  = "ECDSA SIGNED MESSAGE"
	LabelSignature      = "ECDSA SIGNATURE"
	LabelElGamalMessage = "ECELGAMAL ENCRYPTED MESSAGE"
)

// Wrap armors data under label.
func Wrap(label string, data []byte) []byte {
	return stdpem.EncodeToMemory(&stdpem.Block{Type: label, Bytes: data})
}

// Unwrap decodes the first block of data and checks its label. It returns
// the payload and whatever follows the block.
func Unwrap(label string, data []byte) ([]byte, []byte, error) {
	block, rest := stdpem.Decode(data)
	if block == nil {
		return nil, data, ecc.NewError("pem.Unwrap", "no armored block", ecc.ErrInvalidEncoding)
	}
	if block.Type != label {
		return nil, rest, ecc.NewError("pem.Unwrap", fmt.Sprintf("got %q, want %q", block.Type, label), ecc.ErrLabelMismatch)
	}
	return block.Bytes, rest, nil
}

// Find returns the payload of the first block in data carrying label,
// skipping blocks with other labels.
func Find(label string, data []byte) ([]byte, error) {
	rest := data
	found := false
	for {
		var block *stdpem.Block
		block, rest = stdpem.Decode(rest)
		if block == nil {
			break
		}
		found = true
		if block.Type == label {
			return block.Bytes, nil
		}
	}
	if !found {
		return nil, ecc.NewError("pem.Find", "no armored block", ecc.ErrInvalidEncoding)
	}
	return nil, ecc.NewError("pem.Find", fmt.Sprintf("no %q block", label), ecc.ErrLabelMismatch)
}
