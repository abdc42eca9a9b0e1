package constants

import "errors"

// CLI configuration errors.
var (
	ErrNoDomainConfigured = errors.New("no domain configured, use --domain or set SODA_DOMAIN")
	ErrNoAppTokenGiven    = errors.New("no app token given")
)
