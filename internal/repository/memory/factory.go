// Package memory holds a map-backed implementation of the repository
// contracts. The saga and worker tests run against it; nothing here talks to
// Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/google/uuid"
)

// Store is the shared backing state. All repositories created from one Store
// observe the same data.
type Store struct {
	mu      sync.Mutex
	masters map[uuid.UUID]*entity.MasterTransaction
	subs    map[uuid.UUID]*entity.SubTransaction
	refunds []*entity.Refund
	audits  []*entity.AuditLog
	emails  []*entity.EmailLog
}

func NewStore() *Store {
	return &Store{
		masters: make(map[uuid.UUID]*entity.MasterTransaction),
		subs:    make(map[uuid.UUID]*entity.SubTransaction),
	}
}

// Seed inserts a master and its legs directly, bypassing repositories.
func (s *Store) Seed(master *entity.MasterTransaction, subs ...*entity.SubTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *master
	s.masters[master.Id] = &m
	for _, sub := range subs {
		cp := *sub
		cp.MasterTxnId = master.Id
		s.subs[sub.Id] = &cp
	}
}

// Master returns a copy of the stored master, or nil.
func (s *Store) Master(id uuid.UUID) *entity.MasterTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.masters[id]; ok {
		cp := *m
		return &cp
	}
	return nil
}

// Sub returns a copy of the stored leg, or nil.
func (s *Store) Sub(id uuid.UUID) *entity.SubTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[id]; ok {
		cp := *sub
		return &cp
	}
	return nil
}

// Refunds returns copies of all refund rows for one leg.
func (s *Store) Refunds(subTxnId uuid.UUID) []*entity.Refund {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Refund
	for _, r := range s.refunds {
		if r.SubTxnId == subTxnId {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

// AuditTrail returns copies of all audit rows for one master, oldest first.
func (s *Store) AuditTrail(masterTxnId uuid.UUID) []*entity.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.AuditLog
	for _, a := range s.audits {
		if a.MasterTxnId == masterTxnId {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

// EmailLogs returns copies of all recorded email log rows.
func (s *Store) EmailLogs() []*entity.EmailLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.EmailLog, 0, len(s.emails))
	for _, e := range s.emails {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

type factory struct {
	store *Store
}

// NewRepositoryFactory returns a unitofwork.RepositoryFactory backed by the
// given store. Begin/Commit/Rollback are accepted but not transactional;
// writes apply immediately.
func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &factory{store: store}
}

func (f *factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) MasterTransactionRepository() contract.MasterTransactionRepository {
	return &masterRepo{store: u.store}
}

func (u *unitOfWork) SubTransactionRepository() contract.SubTransactionRepository {
	return &subRepo{store: u.store}
}

func (u *unitOfWork) RefundRepository() contract.RefundRepository {
	return &refundRepo{store: u.store}
}

func (u *unitOfWork) AuditLogRepository() contract.AuditLogRepository {
	return &auditRepo{store: u.store}
}

func (u *unitOfWork) EmailLogRepository() contract.EmailLogRepository {
	return &emailRepo{store: u.store}
}

// matchesMaster interprets the subset of specifications the master repository
// is queried with.
func matchesMaster(m *entity.MasterTransaction, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if m.Id != s.ID {
				return false
			}
		case specification.ExpiredBefore:
			if !m.ExpiresAt.Before(s.Now) {
				return false
			}
		case specification.FilterBy:
			if s.Field == "status" && string(m.Status) != s.Value.(string) {
				return false
			}
		}
	}
	return true
}

type masterRepo struct {
	store *Store
}

func (r *masterRepo) Create(ctx context.Context, master *entity.MasterTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *master
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.store.masters[master.Id] = &cp
	return nil
}

func (r *masterRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MasterTransaction, error) {
	masters, err := r.FindAll(ctx, specs...)
	if err != nil || len(masters) == 0 {
		return nil, err
	}
	return masters[0], nil
}

func (r *masterRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MasterTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.MasterTransaction
	for _, m := range r.store.masters {
		if matchesMaster(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *masterRepo) FindAllWithLegs(ctx context.Context, specs ...specification.Specification) ([]*entity.MasterTransaction, error) {
	masters, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range masters {
		for _, sub := range r.store.subs {
			if sub.MasterTxnId == m.Id {
				cp := *sub
				m.SubTransactions = append(m.SubTransactions, &cp)
			}
		}
	}
	return masters, nil
}

func (r *masterRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MasterStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m, ok := r.store.masters[id]; ok {
		m.Status = status
		m.UpdatedAt = time.Now()
	}
	return nil
}

type subRepo struct {
	store *Store
}

func (r *subRepo) Create(ctx context.Context, sub *entity.SubTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *sub
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.store.subs[sub.Id] = &cp
	return nil
}

func (r *subRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SubTransaction, error) {
	subs, err := r.FindAll(ctx, specs...)
	if err != nil || len(subs) == 0 {
		return nil, err
	}
	return subs[0], nil
}

func (r *subRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SubTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.SubTransaction
	for _, sub := range r.store.subs {
		match := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if sub.Id != s.ID {
					match = false
				}
			case specification.ByMasterTxn:
				if sub.MasterTxnId != s.MasterTxnID {
					match = false
				}
			}
		}
		if match {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *subRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubStatus, paymentId, refundId string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if sub, ok := r.store.subs[id]; ok {
		sub.Status = status
		if paymentId != "" {
			sub.GatewayPaymentId = paymentId
		}
		if refundId != "" {
			sub.RefundId = refundId
		}
		sub.UpdatedAt = time.Now()
	}
	return nil
}

func (r *subRepo) FailAllInitiated(ctx context.Context, masterTxnId uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, sub := range r.store.subs {
		if sub.MasterTxnId == masterTxnId && sub.Status == entity.SubStatusInitiated {
			sub.Status = entity.SubStatusFailed
			sub.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

type refundRepo struct {
	store *Store
}

func (r *refundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *refund
	cp.CreatedAt = time.Now()
	r.store.refunds = append(r.store.refunds, &cp)
	return nil
}

func (r *refundRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Refund, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Refund, 0, len(r.store.refunds))
	for _, refund := range r.store.refunds {
		cp := *refund
		out = append(out, &cp)
	}
	return out, nil
}

type auditRepo struct {
	store *Store
}

func (r *auditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *log
	cp.CreatedAt = time.Now()
	r.store.audits = append(r.store.audits, &cp)
	return nil
}

func (r *auditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.AuditLog, 0, len(r.store.audits))
	for _, a := range r.store.audits {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

type emailRepo struct {
	store *Store
}

func (r *emailRepo) Create(ctx context.Context, log *entity.EmailLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *log
	cp.CreatedAt = time.Now()
	r.store.emails = append(r.store.emails, &cp)
	return nil
}
