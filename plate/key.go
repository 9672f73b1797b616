package plate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KeyDelimiter joins key fields in grid labels. Key fields may not contain it.
const KeyDelimiter = "_"

// Key identifies one expanded record. It is unique within an upload.
type Key struct {
	SampleName    string
	Category      string
	Concentration string
	Repetition    int
}

// String formats the key as the grid label "name_bac_conc_rep".
func (k Key) String() string {
	return strings.Join([]string{k.SampleName, k.Category, k.Concentration, strconv.Itoa(k.Repetition)}, KeyDelimiter)
}

var (
	errFieldCount  = errors.New("expected 4 fields separated by " + strconv.Quote(KeyDelimiter))
	errEmptyField  = errors.New("empty key field")
	errRepetition  = errors.New("repetition must be a positive integer")
	errReservedSep = errors.New("field contains the reserved delimiter " + strconv.Quote(KeyDelimiter))
)

// CheckField rejects key field values that would not survive String/ParseKey.
func CheckField(v string) error {
	if strings.TrimSpace(v) == "" {
		return errEmptyField
	}
	if strings.Contains(v, KeyDelimiter) {
		return errReservedSep
	}
	return nil
}

func (k Key) Validate() error {
	for _, f := range []string{k.SampleName, k.Category, k.Concentration} {
		if err := CheckField(f); err != nil {
			return err
		}
	}
	if k.Repetition < 1 {
		return errRepetition
	}
	return nil
}

// ParseKey decodes a grid label produced by Key.String. Surrounding white
// space is ignored.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(s), KeyDelimiter)
	if len(parts) != 4 {
		return Key{}, errFieldCount
	}
	for _, p := range parts {
		if p == "" {
			return Key{}, errEmptyField
		}
	}
	rep, err := strconv.Atoi(parts[3])
	if err != nil || rep < 1 {
		return Key{}, fmt.Errorf("%w: %q", errRepetition, parts[3])
	}
	return Key{
		SampleName:    parts[0],
		Category:      parts[1],
		Concentration: parts[2],
		Repetition:    rep,
	}, nil
}
