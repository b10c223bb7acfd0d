// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"sync"

	"github.com/psf-initiatives/admin-api/repositories"
	"github.com/stretchr/testify/mock"
)

// TransactionManager is a mock implementation of repositories.TransactionManager
type TransactionManager struct {
	mock.Mock
}

func (m *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

// Transaction is a mock implementation of repositories.Transaction.
// Context returns the context it was built with.
type Transaction struct {
	mock.Mock
	ctx        context.Context
	Committed  bool
	RolledBack bool
}

// NewTransaction creates a mock transaction bound to ctx
func NewTransaction(ctx context.Context) *Transaction {
	return &Transaction{ctx: ctx}
}

func (m *Transaction) Commit() error {
	args := m.Called()
	m.Committed = true
	return args.Error(0)
}

func (m *Transaction) Rollback() error {
	args := m.Called()
	m.RolledBack = true
	return args.Error(0)
}

func (m *Transaction) Context() context.Context {
	return m.ctx
}

// InlineTransactionManager runs every transaction against the caller's
// context and counts the outcomes. Services under test use it when the
// transaction itself is not what is being asserted.
type InlineTransactionManager struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

func (m *InlineTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return &inlineTransaction{ctx: ctx, mgr: m}, nil
}

type inlineTransaction struct {
	ctx  context.Context
	mgr  *InlineTransactionManager
	done bool
}

func (t *inlineTransaction) Commit() error {
	t.mgr.mu.Lock()
	defer t.mgr.mu.Unlock()
	if !t.done {
		t.done = true
		t.mgr.Commits++
	}
	return nil
}

func (t *inlineTransaction) Rollback() error {
	t.mgr.mu.Lock()
	defer t.mgr.mu.Unlock()
	if !t.done {
		t.done = true
		t.mgr.Rollbacks++
	}
	return nil
}

func (t *inlineTransaction) Context() context.Context {
	return t.ctx
}
