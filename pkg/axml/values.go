package axml

import (
	"fmt"
	"math"
	"strconv"
)

// Attribute value types, from the high byte of the type word.
const (
	typeReference  = 1
	typeAttribute  = 2
	typeString     = 3
	typeFloat      = 4
	typeDimension  = 5
	typeFraction   = 6
	typeFirstInt   = 16
	typeIntHex     = 17
	typeIntBoolean = 18
	typeFirstColor = 28
	typeLastColor  = 31
	typeLastInt    = 31
)

var dimensionUnits = [8]string{"px", "dip", "sp", "pt", "in", "mm", "", ""}
var fractionUnits = [8]string{"%", "%p", "", "", "", "", "", ""}

var radixMults = [4]float32{
	1.0 / 256,
	1.0 / 32768,
	1.0 / 4194304,
	1.0 / 1073741824,
}

func complexToFloat(x uint32) float32 {
	return float32(x&0xFFFFFF00) * radixMults[(x>>4)&3]
}

func unitSuffix(units [8]string, data uint32) string {
	if idx := data & 0xF; idx < 8 {
		return units[idx]
	}
	return ""
}

// renderValue turns one attribute into its textual form. Unknown types
// render as a diagnostic token; rendering never fails.
func (d *decoder) renderValue(valueType uint8, rawIdx, data uint32) (string, error) {
	switch {
	case valueType == typeString:
		return d.strings.get(rawIdx)
	case valueType == typeReference, valueType == typeAttribute:
		sigil := "@"
		if valueType == typeAttribute {
			sigil = "?"
		}
		pkg := ""
		if data>>24 == 0x01 {
			pkg = "android:"
		}
		return fmt.Sprintf("%s%s%08X", sigil, pkg, data), nil
	case valueType == typeFloat:
		return fmt.Sprintf("%f", math.Float32frombits(data)), nil
	case valueType == typeIntHex:
		return fmt.Sprintf("0x%08X", data), nil
	case valueType == typeIntBoolean:
		if data != 0 {
			return "true", nil
		}
		return "false", nil
	case valueType == typeDimension:
		return fmt.Sprintf("%f%s", complexToFloat(data), unitSuffix(dimensionUnits, data)), nil
	case valueType == typeFraction:
		return fmt.Sprintf("%f%s", complexToFloat(data), unitSuffix(fractionUnits, data)), nil
	case valueType >= typeFirstColor && valueType <= typeLastColor:
		return fmt.Sprintf("#%08X", data), nil
	case valueType >= typeFirstInt && valueType <= typeLastInt:
		return strconv.FormatInt(int64(int32(data)), 10), nil
	default:
		return fmt.Sprintf("<0x%X, type 0x%02X>", data, valueType), nil
	}
}
