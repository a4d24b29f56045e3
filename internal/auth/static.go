package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
)

// StaticKeyProvider validates the single shared device key. There is one
// device and one key; anything more is out of scope.
type StaticKeyProvider struct {
	Key    string
	logger internal.Logger
}

func NewStaticKeyProvider(key string, logger internal.Logger) *StaticKeyProvider {
	return &StaticKeyProvider{Key: key, logger: logger}
}

func (p *StaticKeyProvider) ValidateKey(key string) error {
	if key == "" {
		return errors.New("missing api key")
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(p.Key)) != 1 {
		p.logger.Warnf("rejected request with invalid api key")
		return errors.New("invalid api key")
	}
	return nil
}

var _ Provider = (*StaticKeyProvider)(nil)
