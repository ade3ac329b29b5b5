package catalog

import "time"

// PriceTier: un nivel de precio dentro de un paquete (p.ej. básico/completo).
type PriceTier struct {
	Name        string
	PriceCents  int64
	Currency    string
	Description string
}

// Package es un servicio/producto publicado por un provider.
type Package struct {
	ID         string
	ProviderID string

	Name        string
	Description string
	ServiceType string

	Tiers []PriceTier

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
