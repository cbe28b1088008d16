package password

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Provider digests and checks user passwords; plaintext never leaves it.
type Provider interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

func NewInstance(cost int) Provider {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return impl{cost: cost}
}

type impl struct {
	cost int
}

func (i impl) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), i.cost)
	if err != nil {
		return "", errors.Wrap(err, "password hashing failed")
	}
	return string(hash), nil
}

func (i impl) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
