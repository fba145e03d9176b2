package domain

type Config struct {
	FQDN string `yaml:"fqdn"`
}

// LocalOrigin is the canonical https origin of this instance, used to
// mint activity ids and to recognize local identifiers.
func (c Config) LocalOrigin() string {
	return "https://" + c.FQDN
}

// IsLocal reports whether an identifier URL belongs to this instance.
func (c Config) IsLocal(id string) bool {
	return Host(id) == c.FQDN
}
