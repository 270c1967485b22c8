package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var errInvalidRandomRequest = errors.New("random string needs a non-negative length and a non-empty alphabet")

// RandomString draws length characters uniformly from alphabet using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 || (length > 0 && alphabet == "") {
		return "", errInvalidRandomRequest
	}

	limit := big.NewInt(int64(len(alphabet)))
	out := make([]byte, 0, length)
	for len(out) < length {
		index, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out = append(out, alphabet[index.Int64()])
	}
	return string(out), nil
}
