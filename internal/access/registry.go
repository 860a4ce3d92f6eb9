package access

import "fmt"

// Credential pairs a code with the person it admits.
type Credential struct {
	Code  Code
	Owner string
}

// Registry is an immutable, ordered credential table.
type Registry struct {
	credentials []Credential
}

// NewRegistry copies creds into a registry, keeping their order. Codes
// must be complete and unique and every owner must be named.
func NewRegistry(creds ...Credential) (*Registry, error) {
	seen := make(map[Code]int, len(creds))
	for i, c := range creds {
		if c.Code.Filled() != CodeLength {
			return nil, fmt.Errorf("credential %d: %w", i, ErrInvalidCode)
		}
		if c.Owner == "" {
			return nil, fmt.Errorf("credential %d: %w", i, ErrEmptyOwner)
		}
		if prev, dup := seen[c.Code]; dup {
			return nil, fmt.Errorf("credentials %d and %d: %w", prev, i, ErrDuplicateCode)
		}
		seen[c.Code] = i
	}

	out := make([]Credential, len(creds))
	copy(out, creds)
	return &Registry{credentials: out}, nil
}

// builtin is the credential table shipped in the firmware.
var builtin = []Credential{
	{Code: MustParseCode("1234"), Owner: "Mr Harrman"},
	{Code: MustParseCode("4324"), Owner: "Mrs Leyla"},
	{Code: MustParseCode("1962"), Owner: "Mr Baglamac"},
	{Code: MustParseCode("7034"), Owner: "Mr Demiroren"},
}

// Builtin returns the compiled-in registry.
func Builtin() *Registry {
	r, err := NewRegistry(builtin...)
	if err != nil {
		panic(fmt.Sprintf("access: builtin registry: %v", err))
	}
	return r
}

// Len returns the number of credentials.
func (r *Registry) Len() int {
	return len(r.credentials)
}

// Owner returns the owner at index i.
func (r *Registry) Owner(i int) (string, bool) {
	if i < 0 || i >= len(r.credentials) {
		return "", false
	}
	return r.credentials[i].Owner, true
}

// Owners lists owner names in registration order.
func (r *Registry) Owners() []string {
	names := make([]string, len(r.credentials))
	for i, c := range r.credentials {
		names[i] = c.Owner
	}
	return names
}
