package model

import "time"

// TokenSource names where the GitHub token in use came from.
type TokenSource string

const (
	TokenSourceStored TokenSource = "stored"
	TokenSourceEnv    TokenSource = "env"
	TokenSourceNone   TokenSource = "none"
)

// Credential is the metadata of a stored secret. The secret itself never
// leaves the credential store through this type.
type Credential struct {
	Service   string
	UpdatedAt time.Time
}

// TokenStatus reports which GitHub token the stats client is using.
// UpdatedAt is set only for stored tokens.
type TokenStatus struct {
	Source    TokenSource
	UpdatedAt *time.Time
}
