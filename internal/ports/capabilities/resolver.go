package capabilities

import "context"

// Check es una consulta "¿userID tiene esta feature de su plan?".
type Check struct {
	UserID  string
	Feature string
}

type Resolver interface {
	Has(ctx context.Context, c Check) (bool, error)
}
