package grade

import (
	"fmt"
	"strings"
)

// Letter is a letter grade band, ordered from the highest (APlus) to the lowest (E).
type Letter int

const (
	APlus Letter = iota
	A
	AMinus
	BPlus
	B
	BMinus
	CPlus
	C
	CMinus
	D
	E

	// LetterCount is the number of letter grade bands.
	LetterCount = 11
)

var letterNames = [LetterCount]string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "E"}

// band lower bounds, inclusive, aligned with the Letter order; E has none.
var letterFloors = [LetterCount - 1]float64{90, 85, 80, 77, 73, 70, 67, 63, 60, 50}

const topScore = 100

// Letters returns all bands from A+ down to E.
func Letters() []Letter {
	list := make([]Letter, LetterCount)
	for i := range list {
		list[i] = Letter(i)
	}
	return list
}

func (l Letter) String() string {
	if l < APlus || l > E {
		return fmt.Sprintf("letter(%d)", int(l))
	}
	return letterNames[l]
}

// MarshalText encodes the letter as its display name (e.g. "B+").
func (l Letter) MarshalText() ([]byte, error) {
	if l < APlus || l > E {
		return nil, fmt.Errorf("invalid letter grade: %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a display name into a letter.
func (l *Letter) UnmarshalText(b []byte) error {
	v, err := ParseLetter(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLetter resolves a display name such as "A-".
func ParseLetter(s string) (Letter, error) {
	n := strings.ToUpper(strings.TrimSpace(s))
	for i, v := range letterNames {
		if v == n {
			return Letter(i), nil
		}
	}
	return 0, fmt.Errorf("invalid letter grade: %q", s)
}

// LetterFor maps an average onto its band. Thresholds are inclusive on the
// lower edge, A+ is closed at 100. Anything above 100 falls through to E.
func LetterFor(avg float64) Letter {
	if avg >= letterFloors[APlus] && avg <= topScore {
		return APlus
	}
	for i := A; i < E; i++ {
		if avg >= letterFloors[i] && avg < letterFloors[i-1] {
			return i
		}
	}
	return E
}
