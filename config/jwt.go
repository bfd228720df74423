package config

import "time"

// JWTSettings are the signing parameters handed to the auth service.
type JWTSettings struct {
	Secret     []byte
	Expiration time.Duration
	Issuer     string
}

func (c *Config) JWT() JWTSettings {
	return JWTSettings{
		Secret:     []byte(c.JWTSecret),
		Expiration: c.JWTExpiration,
		Issuer:     "story-cms",
	}
}
