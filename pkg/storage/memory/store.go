// Package memory provides an in-memory Storage implementation for tests and
// local development. All conditional updates are evaluated under one lock,
// so it honors the same atomicity contract as the DynamoDB store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/storage"
)

// Store is a mutex-guarded, map-backed Storage implementation.
type Store struct {
	mu           sync.Mutex
	balances     map[string]*models.Balance
	transactions map[string]*models.Transaction
	order        []string // transaction IDs in insertion order
	tuples       map[string]*models.RelationTuple
	connections  map[string]struct{}
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		balances:     make(map[string]*models.Balance),
		transactions: make(map[string]*models.Transaction),
		tuples:       make(map[string]*models.RelationTuple),
		connections:  make(map[string]struct{}),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// GetBalance returns the user's balance, 0 when no row exists.
func (s *Store) GetBalance(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.balances[userID]; ok {
		return b.Balance, nil
	}
	return 0, nil
}

// Grant credits the balance and appends the grant row atomically.
func (s *Store) Grant(_ context.Context, tx *models.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.upsertBalance(tx.UserID)
	b.Balance += tx.Amount
	b.UpdatedAt = time.Now()
	s.append(tx)

	return b.Balance, nil
}

// SpendConditional debits the balance and consumes free-grant rows under
// the same lock, rejecting the whole operation if any condition fails.
func (s *Store) SpendConditional(_ context.Context, tx *models.Transaction, decrements []storage.RemainingDecrement) (int64, error) {
	amount := -tx.Amount

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[tx.UserID]
	if !ok || b.Balance < amount {
		return 0, storage.ErrInsufficientFunds
	}
	for _, dec := range decrements {
		source, ok := s.transactions[dec.TransactionID]
		if !ok || source.Remaining() < dec.Amount {
			return 0, storage.ErrConflict
		}
	}

	b.Balance -= amount
	b.UpdatedAt = time.Now()
	for _, dec := range decrements {
		source := s.transactions[dec.TransactionID]
		remaining := source.Remaining() - dec.Amount
		source.RemainingAmount = &remaining
	}
	s.append(tx)

	return b.Balance, nil
}

// QueryOpenGrants returns open BONUS/REFERRAL grants oldest-first.
func (s *Store) QueryOpenGrants(_ context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var grants []models.Transaction
	for _, id := range s.order {
		tx := s.transactions[id]
		if tx.UserID == userID && tx.Type.IsFreeGrant() && tx.Remaining() > 0 {
			grants = append(grants, *tx)
		}
	}
	sort.SliceStable(grants, func(i, j int) bool {
		return grants[i].CreatedAt.Before(grants[j].CreatedAt)
	})

	return grants, nil
}

// ListTransactions returns the user's history newest-first.
func (s *Store) ListTransactions(_ context.Context, userID string, limit, offset int32, txType *models.TransactionType) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Transaction
	for _, id := range s.order {
		tx := s.transactions[id]
		if tx.UserID != userID {
			continue
		}
		if txType != nil && tx.Type != *txType {
			continue
		}
		all = append(all, *tx)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if int(offset) >= len(all) {
		return []models.Transaction{}, nil
	}
	all = all[offset:]
	if int(limit) < len(all) {
		all = all[:limit]
	}

	return all, nil
}

// ListExpiredGrants returns expired open grants across all users.
func (s *Store) ListExpiredGrants(_ context.Context, now time.Time) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var grants []models.Transaction
	for _, id := range s.order {
		tx := s.transactions[id]
		if tx.Type.IsFreeGrant() && tx.Remaining() > 0 && tx.ExpiresAt != nil && !tx.ExpiresAt.After(now) {
			grants = append(grants, *tx)
		}
	}

	return grants, nil
}

// ExpireGrants applies one user's expiry as a single guarded unit.
func (s *Store) ExpireGrants(_ context.Context, userID string, sourceIDs []string, total int64, expiredTx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[userID]
	if !ok || b.Balance < total {
		return storage.ErrConflict
	}
	for _, id := range sourceIDs {
		source, ok := s.transactions[id]
		if !ok || source.Remaining() <= 0 {
			return storage.ErrConflict
		}
	}

	zero := int64(0)
	for _, id := range sourceIDs {
		s.transactions[id].RemainingAmount = &zero
	}
	b.Balance -= total
	b.UpdatedAt = time.Now()
	s.append(expiredTx)

	return nil
}

func (s *Store) upsertBalance(userID string) *models.Balance {
	if b, ok := s.balances[userID]; ok {
		return b
	}
	b := &models.Balance{UserID: userID, CreatedAt: time.Now()}
	s.balances[userID] = b
	return b
}

func (s *Store) append(tx *models.Transaction) {
	copied := *tx
	if tx.RemainingAmount != nil {
		remaining := *tx.RemainingAmount
		copied.RemainingAmount = &remaining
	}
	s.transactions[tx.ID] = &copied
	s.order = append(s.order, tx.ID)
}

func tupleKey(namespace, objectID string, relation models.Relation, subjectType, subjectID string) string {
	return strings.Join([]string{namespace, objectID, string(relation), subjectType, subjectID}, "#")
}

// UpsertTuple writes a tuple keyed by its natural key.
func (s *Store) UpsertTuple(_ context.Context, tuple *models.RelationTuple) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *tuple
	s.tuples[tupleKey(tuple.Namespace, tuple.ObjectID, tuple.Relation, tuple.SubjectType, tuple.SubjectID)] = &copied

	return nil
}

// FindTuples returns the tuples a subject holds on one object.
func (s *Store) FindTuples(_ context.Context, namespace, objectID, subjectID string, relation *models.Relation) ([]models.RelationTuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []models.RelationTuple
	for _, tuple := range s.tuples {
		if tuple.Namespace != namespace || tuple.ObjectID != objectID || tuple.SubjectID != subjectID {
			continue
		}
		if relation != nil && tuple.Relation != *relation {
			continue
		}
		found = append(found, *tuple)
	}

	return found, nil
}

// ListForObject returns every tuple attached to one object.
func (s *Store) ListForObject(_ context.Context, namespace, objectID string) ([]models.RelationTuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []models.RelationTuple
	for _, tuple := range s.tuples {
		if tuple.Namespace == namespace && tuple.ObjectID == objectID {
			found = append(found, *tuple)
		}
	}

	return found, nil
}

// ListForSubject returns every tuple a subject holds in a namespace.
func (s *Store) ListForSubject(_ context.Context, namespace, subjectID string, relations []models.Relation) ([]models.RelationTuple, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []models.RelationTuple
	for _, tuple := range s.tuples {
		if tuple.Namespace != namespace || tuple.SubjectID != subjectID {
			continue
		}
		if len(relations) > 0 {
			matched := false
			for _, rel := range relations {
				if tuple.Relation == rel {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		found = append(found, *tuple)
	}

	return found, nil
}

// DeleteTuple removes one tuple; removing an absent tuple is a no-op.
func (s *Store) DeleteTuple(_ context.Context, namespace, objectID string, relation models.Relation, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tuples, tupleKey(namespace, objectID, relation, models.SubjectTypeUser, subjectID))

	return nil
}

// DeleteAllForObject removes every tuple attached to one object.
func (s *Store) DeleteAllForObject(_ context.Context, namespace, objectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, tuple := range s.tuples {
		if tuple.Namespace == namespace && tuple.ObjectID == objectID {
			delete(s.tuples, key)
		}
	}

	return nil
}

// AddConnection stores a live WebSocket connection ID.
func (s *Store) AddConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connections[connectionID] = struct{}{}

	return nil
}

// RemoveConnection deletes a WebSocket connection ID.
func (s *Store) RemoveConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.connections, connectionID)

	return nil
}

// GetAllConnections returns every live connection ID.
func (s *Store) GetAllConnections(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.connections))
	for id := range s.connections {
		ids = append(ids, id)
	}

	return ids, nil
}
