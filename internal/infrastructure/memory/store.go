// Package memory implementa todos los puertos de persistencia en memoria de proceso.
// Se usa en tests y con STORAGE_DRIVER=memory; los datos se pierden al reiniciar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type data struct {
	categories   map[int64]entity.Category
	materials    map[int64]entity.Material
	transactions []entity.Transaction // orden de inserción
	requisitions map[int64]entity.Requisition
	users        map[int64]entity.User

	nextCategory    int64
	nextMaterial    int64
	nextTransaction int64
	nextRequisition int64
	nextUser        int64
}

func newData() *data {
	return &data{
		categories:   map[int64]entity.Category{},
		materials:    map[int64]entity.Material{},
		requisitions: map[int64]entity.Requisition{},
		users:        map[int64]entity.User{},
	}
}

// clone copia mapas y slices; las entidades se guardan por valor y nunca se mutan en sitio.
func (d *data) clone() *data {
	c := *d
	c.categories = make(map[int64]entity.Category, len(d.categories))
	for k, v := range d.categories {
		c.categories[k] = v
	}
	c.materials = make(map[int64]entity.Material, len(d.materials))
	for k, v := range d.materials {
		c.materials[k] = v
	}
	c.transactions = append([]entity.Transaction(nil), d.transactions...)
	c.requisitions = make(map[int64]entity.Requisition, len(d.requisitions))
	for k, v := range d.requisitions {
		c.requisitions[k] = v
	}
	c.users = make(map[int64]entity.User, len(d.users))
	for k, v := range d.users {
		c.users[k] = v
	}
	return &c
}

// Store almacén en memoria. Las operaciones sueltas toman el mutex por llamada;
// Run lo mantiene durante todo el callback y confirma una copia, así que los escritores
// se serializan y un callback fallido no deja rastro.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// backend resuelve sobre qué datos opera un repositorio: los compartidos (con lock)
// o la copia de la transacción en curso (el lock ya lo tiene Run).
type backend struct {
	store *Store
	tx    *data
}

func (b backend) read(fn func(d *data) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.d)
}

// write marca las operaciones que mutan d.
func (b backend) write(fn func(d *data) error) error {
	return b.read(fn)
}

// Run ejecuta fn con repositorios atados a una copia de los datos y la confirma si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(r inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	b := backend{store: s, tx: snapshot}
	if err := fn(inventory.Repos{
		Categories:   &CategoryRepository{b: b},
		Materials:    &MaterialRepository{b: b},
		Transactions: &TransactionRepository{b: b},
		Requisitions: &RequisitionRepository{b: b},
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.d = snapshot
	return nil
}

func (s *Store) shared() backend { return backend{store: s} }

// Categories devuelve el repositorio de categorías fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository {
	return &CategoryRepository{b: s.shared()}
}

// Materials devuelve el repositorio de materiales fuera de transacción.
func (s *Store) Materials() repository.MaterialRepository {
	return &MaterialRepository{b: s.shared()}
}

// Transactions devuelve el repositorio del libro fuera de transacción.
func (s *Store) Transactions() repository.TransactionRepository {
	return &TransactionRepository{b: s.shared()}
}

// Requisitions devuelve el repositorio de solicitudes fuera de transacción.
func (s *Store) Requisitions() repository.RequisitionRepository {
	return &RequisitionRepository{b: s.shared()}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &UserRepository{b: s.shared()}
}

// Statistics devuelve el repositorio de estadísticas.
func (s *Store) Statistics() repository.StatisticsRepository {
	return &StatisticsRepository{b: s.shared()}
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
