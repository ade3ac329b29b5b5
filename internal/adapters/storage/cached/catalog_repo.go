// Package cached decora repositorios con un cache read-through sobre el
// port de cache. Solo el catálogo lo usa: es la lectura pública más
// caliente del marketplace y tolera datos con algunos minutos de edad.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"pet-care-marketplace/internal/domain/catalog"
	"pet-care-marketplace/internal/ports/cache"
)

const (
	packageByIDTTL  = 5 * time.Minute
	packagesListTTL = 3 * time.Minute
)

type CatalogRepo struct {
	inner catalog.Repository
	cache cache.Cache
	log   zerolog.Logger
}

func NewCatalogRepo(inner catalog.Repository, c cache.Cache, log zerolog.Logger) catalog.Repository {
	return &CatalogRepo{
		inner: inner,
		cache: c,
		log:   log.With().Str("component", "cached_catalog").Logger(),
	}
}

func packageCacheKey(id string) string {
	return fmt.Sprintf("catalog:package:%s", id)
}

func providerPackagesCacheKey(providerID string) string {
	return fmt.Sprintf("catalog:provider:%s:packages", providerID)
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (catalog.Package, error) {
	key := packageCacheKey(id)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var p catalog.Package
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
		r.log.Warn().Str("key", key).Msg("payload cacheado corrupto, se ignora")
	}

	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return catalog.Package{}, err
	}

	r.fillAsync(key, p, packageByIDTTL)
	return p, nil
}

func (r *CatalogRepo) ListByProvider(ctx context.Context, providerID string) ([]catalog.Package, error) {
	key := providerPackagesCacheKey(providerID)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var items []catalog.Package
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		r.log.Warn().Str("key", key).Msg("payload cacheado corrupto, se ignora")
	}

	items, err := r.inner.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	r.fillAsync(key, items, packagesListTTL)
	return items, nil
}

func (r *CatalogRepo) Create(ctx context.Context, p catalog.Package) error {
	if err := r.inner.Create(ctx, p); err != nil {
		return err
	}
	r.invalidateAsync(providerPackagesCacheKey(p.ProviderID))
	return nil
}

func (r *CatalogRepo) Deactivate(ctx context.Context, id string) error {
	// Se resuelve el provider antes de escribir para poder invalidar su lista.
	p, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.inner.Deactivate(ctx, id); err != nil {
		return err
	}

	r.invalidateAsync(packageCacheKey(id), providerPackagesCacheKey(p.ProviderID))
	return nil
}

// fillAsync escribe al cache fuera del camino de la respuesta.
func (r *CatalogRepo) fillAsync(key string, v any, ttl time.Duration) {
	go func() {
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		if err := r.cache.Set(context.Background(), key, data, ttl); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir al cache")
		}
	}()
}

func (r *CatalogRepo) invalidateAsync(keys ...string) {
	go func() {
		ctx := context.Background()
		for _, key := range keys {
			if err := r.cache.Delete(ctx, key); err != nil {
				r.log.Warn().Err(err).Str("key", key).Msg("no se pudo invalidar el cache")
			}
		}
	}()
}
