// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "strings"

// Resource is a single selectable item.
type Resource struct {
	// Name identifies the resource within its domain.
	Name string `json:"name" yaml:"name"`

	// Domain groups resources. Only part of the identity under
	// [DomainNameIdentity].
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`

	// DisplayName, when set, replaces Name for text filtering and
	// labels.
	DisplayName string `json:"displayName,omitempty" yaml:"display_name,omitempty"`
}

// Label returns the text shown to the user and matched by text
// filters: DisplayName when present, otherwise Name.
func (resource Resource) Label() string {
	if resource.DisplayName != "" {
		return resource.DisplayName
	}
	return resource.Name
}

// Identifier is the projection of a Resource onto its identity
// attributes. Attributes outside the active [Identity] are left empty.
type Identifier struct {
	Name   string `json:"name" yaml:"name"`
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// Resource returns a Resource carrying only the identity attributes.
// Used when pushing a selection into a collection of resources.
func (identifier Identifier) Resource() Resource {
	return Resource{Name: identifier.Name, Domain: identifier.Domain}
}

// Attribute names accepted in [Identity.Attributes].
const (
	AttributeName   = "name"
	AttributeDomain = "domain"
)

// Identity is the policy deciding which attributes identify a resource
// and how an identifier is turned into a comparable key.
type Identity struct {
	// Name labels the policy in configuration and logs.
	Name string

	// Attributes lists the identity attributes. Any of
	// [AttributeName] and [AttributeDomain].
	Attributes []string

	// Join produces the identity key for an identifier. Two
	// identifiers are equal iff their keys are equal.
	Join func(Identifier) string
}

// NameIdentity identifies resources by name alone.
var NameIdentity = Identity{
	Name:       "name",
	Attributes: []string{AttributeName},
	Join: func(identifier Identifier) string {
		return identifier.Name
	},
}

// DomainNameIdentity identifies resources by domain and name. The key
// escapes both parts so that a colon inside a name cannot collide with
// the separator.
var DomainNameIdentity = Identity{
	Name:       "domain-name",
	Attributes: []string{AttributeName, AttributeDomain},
	Join: func(identifier Identifier) string {
		return EscapeIdentifier(identifier.Domain) + ":" + EscapeIdentifier(identifier.Name)
	},
}

// IdentityByName returns the stock identity policy with the given
// name ("name" or "domain-name").
func IdentityByName(name string) (Identity, bool) {
	switch name {
	case NameIdentity.Name:
		return NameIdentity, true
	case DomainNameIdentity.Name:
		return DomainNameIdentity, true
	default:
		return Identity{}, false
	}
}

var identifierEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`)

// EscapeIdentifier backslash-escapes backslashes and colons so that
// the result can be joined with ":" without ambiguity.
func EscapeIdentifier(part string) string {
	return identifierEscaper.Replace(part)
}

// Of projects a resource onto the identity attributes.
func (identity Identity) Of(resource Resource) Identifier {
	return identity.Project(Identifier{Name: resource.Name, Domain: resource.Domain})
}

// Project clears every attribute of identifier that is not part of
// this identity.
func (identity Identity) Project(identifier Identifier) Identifier {
	var projected Identifier
	for _, attribute := range identity.Attributes {
		switch attribute {
		case AttributeName:
			projected.Name = identifier.Name
		case AttributeDomain:
			projected.Domain = identifier.Domain
		}
	}
	return projected
}

// Key returns the identity key of identifier.
func (identity Identity) Key(identifier Identifier) string {
	return identity.Join(identity.Project(identifier))
}

// ResourceKey returns the identity key of resource.
func (identity Identity) ResourceKey(resource Resource) string {
	return identity.Key(identity.Of(resource))
}

// Equal reports whether two identifiers denote the same resource.
func (identity Identity) Equal(first, second Identifier) bool {
	return identity.Key(first) == identity.Key(second)
}

// Unique returns identifiers with duplicates removed, keeping the
// first occurrence of each key.
func (identity Identity) Unique(identifiers []Identifier) []Identifier {
	seen := make(map[string]struct{}, len(identifiers))
	result := make([]Identifier, 0, len(identifiers))
	for _, identifier := range identifiers {
		key := identity.Key(identifier)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, identity.Project(identifier))
	}
	return result
}

// KeySet returns the set of identity keys of identifiers.
func (identity Identity) KeySet(identifiers []Identifier) map[string]struct{} {
	keys := make(map[string]struct{}, len(identifiers))
	for _, identifier := range identifiers {
		keys[identity.Key(identifier)] = struct{}{}
	}
	return keys
}
