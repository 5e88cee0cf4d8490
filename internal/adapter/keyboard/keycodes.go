package keyboard

import (
	"github.com/example/monitorctl/internal/core/domain"
)

// Linux input-event-codes.h key codes for the keys the matcher understands.
const (
	keyLeftCtrl   = 29
	keyRightCtrl  = 97
	keyLeftAlt    = 56
	keyRightAlt   = 100
	keyLeftShift  = 42
	keyRightShift = 54
	keyArrowUp    = 103
	keyArrowDown  = 108
)

// digit row, KEY_1..KEY_0
var digitCodes = map[uint16]domain.Key{
	2: "1", 3: "2", 4: "3", 5: "4", 6: "5",
	7: "6", 8: "7", 9: "8", 10: "9", 11: "0",
}

// letter rows in physical order, KEY_Q..KEY_P, KEY_A..KEY_L, KEY_Z..KEY_M
var letterCodes = map[uint16]domain.Key{
	16: "q", 17: "w", 18: "e", 19: "r", 20: "t",
	21: "y", 22: "u", 23: "i", 24: "o", 25: "p",
	30: "a", 31: "s", 32: "d", 33: "f", 34: "g",
	35: "h", 36: "j", 37: "k", 38: "l",
	44: "z", 45: "x", 46: "c", 47: "v", 48: "b",
	49: "n", 50: "m",
}

// CodeToKey normalizes a scan code to a matcher key token. Left and right
// modifier variants collapse to the same token. Unmapped codes return false.
func CodeToKey(code uint16) (domain.Key, bool) {
	switch code {
	case keyLeftCtrl, keyRightCtrl:
		return domain.KeyCtrl, true
	case keyLeftAlt, keyRightAlt:
		return domain.KeyAlt, true
	case keyLeftShift, keyRightShift:
		return domain.KeyShift, true
	case keyArrowUp:
		return domain.KeyUp, true
	case keyArrowDown:
		return domain.KeyDown, true
	}
	if k, ok := digitCodes[code]; ok {
		return k, true
	}
	if k, ok := letterCodes[code]; ok {
		return k, true
	}
	return "", false
}
