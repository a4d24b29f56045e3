package auth

type Provider interface {
	ValidateKey(key string) error
}
