package security

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const digits = "0123456789"

// CodeGenerator issues short single-use verification codes
type CodeGenerator interface {
	Generate() (string, error)
}

// NumericCode generates codes of Length decimal digits from crypto/rand
type NumericCode struct {
	Length int
}

func (n NumericCode) Generate() (string, error) {
	l := n.Length
	if l <= 0 {
		l = 6
	}

	return gonanoid.Generate(digits, l)
}
