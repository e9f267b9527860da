package chain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Hand-rolled ABI argument packing for the handful of ChemicalTracker
// methods. Static arguments occupy one 32-byte head word; dynamic ones
// (strings) put an offset in the head and their payload in the tail.

const wordSize = 32

// methodID returns the 4-byte selector for a canonical method signature,
// e.g. "createBatch(string,string)".
func methodID(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// argument is one ABI-encoded call argument. Static arguments carry only
// a head word; dynamic arguments carry a tail and get an offset head.
type argument struct {
	head []byte // exactly wordSize bytes; nil for dynamic arguments
	tail []byte
}

func packUint(v *big.Int) (argument, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 256 {
		return argument{}, fmt.Errorf("uint256 out of range")
	}
	word := make([]byte, wordSize)
	v.FillBytes(word)
	return argument{head: word}, nil
}

func packBool(v bool) argument {
	word := make([]byte, wordSize)
	if v {
		word[wordSize-1] = 1
	}
	return argument{head: word}
}

func packAddress(addr string) (argument, error) {
	raw, err := parseAddress(addr)
	if err != nil {
		return argument{}, err
	}
	word := make([]byte, wordSize)
	copy(word[wordSize-len(raw):], raw)
	return argument{head: word}, nil
}

func packString(s string) argument {
	payload := []byte(s)
	tail := make([]byte, wordSize+pad(len(payload)))
	big.NewInt(int64(len(payload))).FillBytes(tail[:wordSize])
	copy(tail[wordSize:], payload)
	return argument{tail: tail}
}

// encodeCall assembles selector + head words + dynamic tails.
func encodeCall(signature string, args ...argument) []byte {
	headSize := wordSize * len(args)
	tailSize := 0
	for _, a := range args {
		tailSize += len(a.tail)
	}

	out := make([]byte, 0, 4+headSize+tailSize)
	out = append(out, methodID(signature)...)

	tail := make([]byte, 0, tailSize)
	for _, a := range args {
		if a.head != nil {
			out = append(out, a.head...)
			continue
		}
		offset := make([]byte, wordSize)
		big.NewInt(int64(headSize + len(tail))).FillBytes(offset)
		out = append(out, offset...)
		tail = append(tail, a.tail...)
	}
	return append(out, tail...)
}

// pad rounds n up to a multiple of the word size.
func pad(n int) int {
	if r := n % wordSize; r != 0 {
		return n + wordSize - r
	}
	return n
}

func parseAddress(addr string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimSpace(addr), "0x")
	if len(s) != 40 {
		return nil, fmt.Errorf("invalid address %q", addr)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return raw, nil
}

// --- return-value decoding ---

// wordAt returns the i-th 32-byte word of an ABI-encoded return payload.
func wordAt(data []byte, i int) ([]byte, error) {
	start := i * wordSize
	if start+wordSize > len(data) {
		return nil, fmt.Errorf("abi: truncated payload, want word %d of %d bytes", i, len(data))
	}
	return data[start : start+wordSize], nil
}

func decodeUint(data []byte, slot int) (*big.Int, error) {
	word, err := wordAt(data, slot)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(word), nil
}

func decodeBool(data []byte, slot int) (bool, error) {
	word, err := wordAt(data, slot)
	if err != nil {
		return false, err
	}
	return word[wordSize-1] != 0, nil
}

func decodeAddress(data []byte, slot int) (string, error) {
	word, err := wordAt(data, slot)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(word[wordSize-20:]), nil
}

// decodeString resolves the offset stored in the given head slot and
// reads the length-prefixed payload from the tail.
func decodeString(data []byte, slot int) (string, error) {
	offsetWord, err := wordAt(data, slot)
	if err != nil {
		return "", err
	}
	offset := new(big.Int).SetBytes(offsetWord)
	if !offset.IsInt64() || offset.Int64()+wordSize > int64(len(data)) {
		return "", fmt.Errorf("abi: string offset out of bounds")
	}
	start := int(offset.Int64())

	length := new(big.Int).SetBytes(data[start : start+wordSize])
	if !length.IsInt64() || int64(start+wordSize)+length.Int64() > int64(len(data)) {
		return "", fmt.Errorf("abi: string length out of bounds")
	}
	end := start + wordSize + int(length.Int64())
	return string(data[start+wordSize : end]), nil
}

// decodeHex strips the 0x prefix from an eth_call result.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("abi: invalid hex payload: %w", err)
	}
	return raw, nil
}
