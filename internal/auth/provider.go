package auth

import "github.com/spec-kit/bookmark-service/internal/config"

// ProviderKind tags the authentication mechanism of a provider entry.
type ProviderKind string

const (
	ProviderKindPassword  ProviderKind = "password"
	ProviderKindFederated ProviderKind = "federated"
)

// ProviderField describes one credential input expected by a provider.
type ProviderField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Provider is an immutable descriptor of one way to sign in. The
// federated variant carries its configuration; the password variant
// carries its input schema.
type Provider struct {
	Kind      ProviderKind            `json:"kind"`
	Name      string                  `json:"name"`
	Fields    []ProviderField         `json:"fields,omitempty"`
	Authentik *config.AuthentikConfig `json:"-"`
}

// BuildProviders assembles the ordered provider list for the process.
// The password provider is always first; a single federated provider
// follows when its configuration section is present. The result is
// built once at startup and treated as read-only afterwards.
func BuildProviders(cfg config.AuthConfig) []Provider {
	providers := []Provider{
		{
			Kind: ProviderKindPassword,
			Name: "Credentials",
			Fields: []ProviderField{
				{Name: "email", Type: "email"},
				{Name: "password", Type: "password"},
			},
		},
	}

	if cfg.Authentik != nil {
		providers = append(providers, Provider{
			Kind:      ProviderKindFederated,
			Name:      "Authentik",
			Authentik: cfg.Authentik,
		})
	}

	return providers
}
