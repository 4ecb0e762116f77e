package program

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Borsh primitives. Strings are u32 length-prefixed UTF-8 with no padding or
// truncation; integers are little-endian; public keys are raw 32 bytes.

func appendString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
	return append(data, s...)
}

func appendU64(data []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(data, v)
}

func appendI64(data []byte, v int64) []byte {
	return binary.LittleEndian.AppendUint64(data, uint64(v))
}

func appendBool(data []byte, v bool) []byte {
	if v {
		return append(data, 1)
	}
	return append(data, 0)
}

func appendPubkey(data []byte, key solana.PublicKey) []byte {
	return append(data, key.Bytes()...)
}

func readString(data []byte, offset int) (string, int, error) {
	if len(data) < offset+4 {
		return "", offset, fmt.Errorf("truncated string length at offset %d", offset)
	}
	n := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if n < 0 || len(data) < offset+n {
		return "", offset, fmt.Errorf("truncated string payload at offset %d (len %d)", offset, n)
	}
	return string(data[offset : offset+n]), offset + n, nil
}

func readU64(data []byte, offset int) (uint64, int, error) {
	if len(data) < offset+8 {
		return 0, offset, fmt.Errorf("truncated u64 at offset %d", offset)
	}
	return binary.LittleEndian.Uint64(data[offset : offset+8]), offset + 8, nil
}

func readI64(data []byte, offset int) (int64, int, error) {
	u, next, err := readU64(data, offset)
	if err != nil {
		return 0, offset, err
	}
	return int64(u), next, nil
}

func readBool(data []byte, offset int) (bool, int, error) {
	if len(data) < offset+1 {
		return false, offset, fmt.Errorf("truncated bool at offset %d", offset)
	}
	switch data[offset] {
	case 0:
		return false, offset + 1, nil
	case 1:
		return true, offset + 1, nil
	default:
		return false, offset, fmt.Errorf("invalid bool value %d at offset %d", data[offset], offset)
	}
}

func readU8(data []byte, offset int) (uint8, int, error) {
	if len(data) < offset+1 {
		return 0, offset, fmt.Errorf("truncated u8 at offset %d", offset)
	}
	return data[offset], offset + 1, nil
}

func readPubkey(data []byte, offset int) (solana.PublicKey, int, error) {
	if len(data) < offset+32 {
		return solana.PublicKey{}, offset, fmt.Errorf("truncated pubkey at offset %d", offset)
	}
	return solana.PublicKeyFromBytes(data[offset : offset+32]), offset + 32, nil
}
