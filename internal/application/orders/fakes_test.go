package orders_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Fabrica-api/internal/application/orders"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// memDB pedidos en memoria; RunOrders restaura el estado si fn falla.
type memDB struct {
	mu           sync.Mutex
	orders       map[string]entity.Order
	items        []entity.OrderItem
	payments     []entity.Payment
	requirements []entity.MaterialRequirement
}

func newMemDB() *memDB { return &memDB{orders: map[string]entity.Order{}} }

func (db *memDB) txRepos() orders.TxRepos {
	return orders.TxRepos{Orders: orderRepo{db}, Items: itemRepo{db}, Payments: paymentRepo{db}, Requirements: requirementRepo{db}}
}

func (db *memDB) RunOrders(_ context.Context, fn func(orders.TxRepos) error) error {
	db.mu.Lock()
	snapOrders := make(map[string]entity.Order, len(db.orders))
	for k, v := range db.orders {
		snapOrders[k] = v
	}
	snapItems := append([]entity.OrderItem(nil), db.items...)
	snapPayments := append([]entity.Payment(nil), db.payments...)
	snapReqs := append([]entity.MaterialRequirement(nil), db.requirements...)
	db.mu.Unlock()

	if err := fn(db.txRepos()); err != nil {
		db.mu.Lock()
		db.orders, db.items, db.payments, db.requirements = snapOrders, snapItems, snapPayments, snapReqs
		db.mu.Unlock()
		return err
	}
	return nil
}

type orderRepo struct{ db *memDB }

var _ repository.OrderRepository = orderRepo{}

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.orders[o.ID] = *o
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if o, ok := r.db.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r orderRepo) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.orders {
		if o.OrderNumber == number {
			return &o, nil
		}
	}
	return nil, nil
}

func (r orderRepo) Update(ctx context.Context, o *entity.Order) error { return r.Create(ctx, o) }

func (r orderRepo) UpdatePaidAmount(_ context.Context, id string, paid decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o := r.db.orders[id]
	o.PaidAmount = paid
	r.db.orders[id] = o
	return nil
}

func (r orderRepo) List(_ context.Context, status string, _, _ int) ([]*entity.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Order{}
	for _, o := range r.db.orders {
		if status == "" || o.Status == status {
			o := o
			out = append(out, &o)
		}
	}
	return out, nil
}

func (r orderRepo) CountByStatus(_ context.Context, statuses ...string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, o := range r.db.orders {
		for _, s := range statuses {
			if o.Status == s {
				n++
			}
		}
	}
	return n, nil
}

type itemRepo struct{ db *memDB }

var _ repository.OrderItemRepository = itemRepo{}

func (r itemRepo) Create(_ context.Context, it *entity.OrderItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.items = append(r.db.items, *it)
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.OrderItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, it := range r.db.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, nil
}

func (r itemRepo) Update(_ context.Context, it *entity.OrderItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.items {
		if r.db.items[i].ID == it.ID {
			r.db.items[i] = *it
		}
	}
	return nil
}

func (r itemRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.OrderItem{}
	for _, it := range r.db.items {
		if it.OrderID == orderID {
			it := it
			out = append(out, &it)
		}
	}
	return out, nil
}

type paymentRepo struct{ db *memDB }

var _ repository.PaymentRepository = paymentRepo{}

func (r paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.payments = append(r.db.payments, *p)
	return nil
}

func (r paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.payments {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (r paymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.payments {
		if r.db.payments[i].ID == p.ID {
			r.db.payments[i] = *p
		}
	}
	return nil
}

func (r paymentRepo) ListByOrder(_ context.Context, orderID string) ([]*entity.Payment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.Payment{}
	for _, p := range r.db.payments {
		if p.OrderID == orderID {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

type requirementRepo struct{ db *memDB }

var _ repository.MaterialRequirementRepository = requirementRepo{}

func (r requirementRepo) Create(_ context.Context, req *entity.MaterialRequirement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.requirements = append(r.db.requirements, *req)
	return nil
}

func (r requirementRepo) GetByID(_ context.Context, id string) (*entity.MaterialRequirement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, req := range r.db.requirements {
		if req.ID == id {
			return &req, nil
		}
	}
	return nil, nil
}

func (r requirementRepo) UpdateAllocation(_ context.Context, req *entity.MaterialRequirement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.requirements {
		if r.db.requirements[i].ID == req.ID {
			r.db.requirements[i].AllocatedQuantity = req.AllocatedQuantity
			r.db.requirements[i].UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r requirementRepo) DeleteByItem(_ context.Context, itemID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.requirements[:0]
	for _, req := range r.db.requirements {
		if req.OrderItemID != itemID {
			kept = append(kept, req)
		}
	}
	r.db.requirements = kept
	return nil
}

func (r requirementRepo) ListByItem(_ context.Context, itemID string) ([]*entity.MaterialRequirement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.MaterialRequirement{}
	for _, req := range r.db.requirements {
		if req.OrderItemID == itemID {
			req := req
			out = append(out, &req)
		}
	}
	return out, nil
}
