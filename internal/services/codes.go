package services

import (
	"math/rand"
	"strconv"
)

// CodeFunc produces a verification code.
type CodeFunc func() string

// NewCode returns a 6-digit code uniform over [100000, 999999].
// math/rand is enough here: codes live for minutes and are single-use.
func NewCode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
