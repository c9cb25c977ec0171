package client

import "github.com/vdobler/htmock/internal/wire"

// RequirementsBuilder accumulates a wire.RequestRequirements for use with
// Client.Verify, mirroring MockBuilder's request-side setters.
type RequirementsBuilder struct {
	rr wire.RequestRequirements
}

// NewRequirements starts an empty requirements set.
func NewRequirements() *RequirementsBuilder {
	return &RequirementsBuilder{}
}

func (b *RequirementsBuilder) Method(equals string) *RequirementsBuilder {
	b.rr.Method = wire.StringConstraint{Equals: equals}
	return b
}

func (b *RequirementsBuilder) Path(equals string) *RequirementsBuilder {
	b.rr.Path = wire.StringConstraint{Equals: equals}
	return b
}

func (b *RequirementsBuilder) PathPrefix(prefix string) *RequirementsBuilder {
	b.rr.Path = wire.StringConstraint{Prefix: prefix}
	return b
}

func (b *RequirementsBuilder) Header(key, value string) *RequirementsBuilder {
	b.rr.Header = append(b.rr.Header, equalsPair(key, value))
	return b
}

func (b *RequirementsBuilder) Query(key, value string) *RequirementsBuilder {
	b.rr.QueryParam = append(b.rr.QueryParam, equalsPair(key, value))
	return b
}

func (b *RequirementsBuilder) Body(equals string) *RequirementsBuilder {
	b.rr.Body = wire.BodyConstraint{Equals: equals}
	return b
}

// Build returns the accumulated requirements.
func (b *RequirementsBuilder) Build() wire.RequestRequirements {
	return b.rr
}
