// Package memory implementa los repositorios en memoria con transacciones por copia.
// Run toma el lock exclusivo, trabaja sobre una copia del estado y la publica solo si fn no falla,
// así las transacciones quedan serializadas y un error no deja efectos parciales.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type sequences struct {
	brand, product, lot, lotItem, sale, saleItem, user int64
}

type state struct {
	brands    map[int64]entity.Brand
	products  map[int64]entity.Product
	lots      map[int64]entity.Lot // sin Items; los ítems viven en lotItems
	lotItems  map[int64]entity.LotItem
	sales     map[int64]entity.Sale
	saleItems map[int64]entity.SaleItem
	users     map[int64]entity.User
	seq       sequences
}

func newState() *state {
	return &state{
		brands:    map[int64]entity.Brand{},
		products:  map[int64]entity.Product{},
		lots:      map[int64]entity.Lot{},
		lotItems:  map[int64]entity.LotItem{},
		sales:     map[int64]entity.Sale{},
		saleItems: map[int64]entity.SaleItem{},
		users:     map[int64]entity.User{},
	}
}

// clone copia los mapas. Los punteros internos (BrandID, Note, ...) se reemplazan
// completos en cada escritura y nunca se mutan en sitio, así que compartirlos es seguro.
func (s *state) clone() *state {
	return &state{
		brands:    maps.Clone(s.brands),
		products:  maps.Clone(s.products),
		lots:      maps.Clone(s.lots),
		lotItems:  maps.Clone(s.lotItems),
		sales:     maps.Clone(s.sales),
		saleItems: maps.Clone(s.saleItems),
		users:     maps.Clone(s.users),
		seq:       s.seq,
	}
}

// access ejecuta fn sobre el estado; write indica si fn modifica.
type access func(write bool, fn func(st *state) error) error

// Store almacén en memoria. Sirve como TxRunner y como fuente de repositorios fuera de tx.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

func (s *Store) access(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

// Run ejecuta fn con repositorios atados a una copia del estado y la publica si fn no falla.
// No se deben usar repositorios del Store (fuera de tx) dentro de fn.
func (s *Store) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	lots repository.LotRepository,
	sales repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	var acc access = func(_ bool, f func(st *state) error) error { return f(tx) }

	if err := fn(&ProductRepo{acc: acc}, &LotRepo{acc: acc}, &SaleRepo{acc: acc}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// Brands repositorio de marcas fuera de tx.
func (s *Store) Brands() *BrandRepo { return &BrandRepo{acc: s.access} }

// Products repositorio de productos fuera de tx.
func (s *Store) Products() *ProductRepo { return &ProductRepo{acc: s.access} }

// Lots repositorio de lotes fuera de tx.
func (s *Store) Lots() *LotRepo { return &LotRepo{acc: s.access} }

// Sales repositorio de ventas fuera de tx.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{acc: s.access} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{acc: s.access} }

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
