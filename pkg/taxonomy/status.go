package taxonomy

import "fmt"

// NativeStatus classifies a taxon's relationship to the local flora.
// The stored representation is the single-letter code used by the
// collection database and the imported species lists.
type NativeStatus string

const (
	Native     NativeStatus = "N"
	Introduced NativeStatus = "I"
	Unknown    NativeStatus = "U"
)

// ParseNativeStatus converts a status code from a species list or from the
// database into a NativeStatus.
func ParseNativeStatus(s string) (NativeStatus, error) {
	switch s {
	case "N":
		return Native, nil
	case "I":
		return Introduced, nil
	case "U":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown native status %q", s)
	}
}

func (s NativeStatus) String() string {
	switch s {
	case Native:
		return "Native"
	case Introduced:
		return "Introduced"
	default:
		return "Unknown"
	}
}

// Code returns the single-letter form stored in the database.
func (s NativeStatus) Code() string {
	return string(s)
}

// CombineStatus merges two native statuses reported for the same taxon by
// different list rows. Unknown is the identity value; Native wins over
// Introduced; two Introduced values stay Introduced. The operation is
// commutative.
func CombineStatus(a, b NativeStatus) NativeStatus {
	if a == Unknown {
		return b
	}
	if b == Unknown {
		return a
	}
	if a == Native || b == Native {
		return Native
	}
	return Introduced
}
