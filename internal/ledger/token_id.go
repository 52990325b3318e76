package ledger

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"strings"

	"github.com/mmynk/grouporder/internal/models"
)

// TokenAlphabet is the set of characters a token id is drawn from.
const TokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateToken returns a new token id: each character is drawn uniformly
// and independently from TokenAlphabet. Collisions with existing ids are not checked.
func GenerateToken() string {
	max := big.NewInt(int64(len(TokenAlphabet)))
	var sb strings.Builder
	sb.Grow(models.TokenIDLength)
	for i := 0; i < models.TokenIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			sb.WriteByte(TokenAlphabet[mrand.Intn(len(TokenAlphabet))])
			continue
		}
		sb.WriteByte(TokenAlphabet[n.Int64()])
	}
	return sb.String()
}

// IsWellFormed reports whether id has the length and alphabet of a generated token id.
func IsWellFormed(id string) bool {
	if len(id) != models.TokenIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(TokenAlphabet, id[i]) < 0 {
			return false
		}
	}
	return true
}
