package merkletree

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Leaf is one standard-variant value: a tuple of fields matching the
// leafEncoding ABI type strings supplied at tree construction, e.g.
// []interface{}{common.HexToAddress("0x..."), big.NewInt(100)} for
// leafEncoding []string{"address", "uint256"}.
type Leaf = []interface{}

// toBigInt normalizes common numeric representations to *big.Int.
func toBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int64:
		return big.NewInt(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		bi, ok := new(big.Int).SetString(n, 10)
		if !ok {
			return nil, fmt.Errorf("not a base-10 integer: %q", n)
		}
		return bi, nil
	default:
		return nil, fmt.Errorf("cannot interpret %T as an integer", v)
	}
}

// sizedIntGoValue converts bi to the exact Go type go-ethereum's ABI packer
// expects for an (u)int of the given bit width: fixed-width Go integers up
// to 64 bits, *big.Int beyond that.
func sizedIntGoValue(bi *big.Int, signed bool, bits int) (interface{}, error) {
	switch {
	case bits > 64:
		return bi, nil
	case signed:
		switch bits {
		case 8:
			return int8(bi.Int64()), nil
		case 16:
			return int16(bi.Int64()), nil
		case 32:
			return int32(bi.Int64()), nil
		case 64:
			return bi.Int64(), nil
		}
	default:
		switch bits {
		case 8:
			return uint8(bi.Uint64()), nil
		case 16:
			return uint16(bi.Uint64()), nil
		case 32:
			return uint32(bi.Uint64()), nil
		case 64:
			return bi.Uint64(), nil
		}
	}
	return nil, fmt.Errorf("unsupported integer width %d", bits)
}

// toABIGoValue converts a loosely-typed value (as decoded from a dump, or
// as conveniently constructed by a caller) into the exact Go representation
// go-ethereum's abi.Arguments.Pack requires for ABI type t.
func toABIGoValue(t abi.Type, v interface{}) (interface{}, error) {
	switch t.T {
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string for ABI type %s, got %T", t.String(), v)
		}
		return s, nil

	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool for ABI type %s, got %T", t.String(), v)
		}
		return b, nil

	case abi.AddressTy:
		switch vv := v.(type) {
		case common.Address:
			return vv, nil
		case string:
			if !common.IsHexAddress(vv) {
				return nil, fmt.Errorf("invalid address %q", vv)
			}
			return common.HexToAddress(vv), nil
		default:
			return nil, fmt.Errorf("expected address for ABI type %s, got %T", t.String(), v)
		}

	case abi.UintTy, abi.IntTy:
		bi, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return sizedIntGoValue(bi, t.T == abi.IntTy, t.Size)

	case abi.FixedBytesTy:
		b, err := toFixedBytes(v, t.Size)
		if err != nil {
			return nil, err
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.BytesTy:
		switch vv := v.(type) {
		case []byte:
			return vv, nil
		case string:
			return hexOrRawBytes(vv)
		default:
			return nil, fmt.Errorf("expected bytes for ABI type %s, got %T", t.String(), v)
		}

	default:
		return nil, fmt.Errorf("unsupported ABI type %s for leaf encoding", t.String())
	}
}

func toFixedBytes(v interface{}, size int) ([]byte, error) {
	var b []byte
	switch vv := v.(type) {
	case []byte:
		b = vv
	case string:
		decoded, err := hexOrRawBytes(vv)
		if err != nil {
			return nil, err
		}
		b = decoded
	default:
		return nil, fmt.Errorf("expected bytes%d-compatible value, got %T", size, v)
	}
	if len(b) != size {
		return nil, fmt.Errorf("expected %d bytes, got %d", size, len(b))
	}
	return b, nil
}

func hexOrRawBytes(s string) ([]byte, error) {
	if len(s) >= 2 && s[0:2] == "0x" {
		return hex.DecodeString(s[2:])
	}
	return []byte(s), nil
}

// encodeLeafValueJSON renders one ABI-typed leaf field as a JSON value
// suitable for the dump format: hex strings for address/bytes-like types,
// decimal strings for every integer type, native JSON values for
// bool/string.
func encodeLeafValueJSON(typeStr string, value interface{}) (json.RawMessage, error) {
	t, err := abi.NewType(typeStr, "", nil)
	if err != nil {
		return nil, invalidArgumentf("invalid ABI type %q: %v", typeStr, err)
	}
	goValue, err := toABIGoValue(t, value)
	if err != nil {
		return nil, invalidArgumentf("leaf field does not match type %q: %v", typeStr, err)
	}
	switch t.T {
	case abi.AddressTy:
		return json.Marshal(goValue.(common.Address).Hex())
	case abi.UintTy, abi.IntTy:
		bi, _ := toBigInt(value)
		return json.Marshal(bi.String())
	case abi.FixedBytesTy, abi.BytesTy:
		b, err := toBytesSlice(goValue)
		if err != nil {
			return nil, invalidArgumentf("leaf field of type %q: %v", typeStr, err)
		}
		return json.Marshal("0x" + hex.EncodeToString(b))
	default:
		return json.Marshal(value)
	}
}

// decodeLeafValueJSON parses a dump-format JSON value back into the Go
// representation required to rebuild the leaf for the given ABI type.
func decodeLeafValueJSON(typeStr string, raw json.RawMessage) (interface{}, error) {
	t, err := abi.NewType(typeStr, "", nil)
	if err != nil {
		return nil, invalidArgumentf("invalid ABI type %q: %v", typeStr, err)
	}
	switch t.T {
	case abi.StringTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidArgumentf("expected string for %q: %v", typeStr, err)
		}
		return s, nil
	case abi.BoolTy:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, invalidArgumentf("expected bool for %q: %v", typeStr, err)
		}
		return b, nil
	case abi.AddressTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidArgumentf("expected address string for %q: %v", typeStr, err)
		}
		v, err := toABIGoValue(t, s)
		if err != nil {
			return nil, invalidArgumentf("invalid %q value in dump: %v", typeStr, err)
		}
		return v, nil
	case abi.UintTy, abi.IntTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidArgumentf("expected decimal string for %q: %v", typeStr, err)
		}
		v, err := toABIGoValue(t, s)
		if err != nil {
			return nil, invalidArgumentf("invalid %q value in dump: %v", typeStr, err)
		}
		return v, nil
	case abi.FixedBytesTy, abi.BytesTy:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalidArgumentf("expected hex string for %q: %v", typeStr, err)
		}
		v, err := toABIGoValue(t, s)
		if err != nil {
			return nil, invalidArgumentf("invalid %q value in dump: %v", typeStr, err)
		}
		return v, nil
	default:
		return nil, invalidArgumentf("unsupported ABI type %q in dump", typeStr)
	}
}

func toBytesSlice(v interface{}) ([]byte, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Bytes(), nil
	case reflect.Array:
		out := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(out), rv)
		return out, nil
	default:
		return nil, fmt.Errorf("cannot extract bytes from %T", v)
	}
}
