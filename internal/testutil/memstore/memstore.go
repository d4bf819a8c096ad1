// Package memstore содержит потокобезопасные реализации репозиториев в памяти для тестов use case.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// ErrInjected - ошибка, которую хранилище возвращает при включённом FailWrites.
var ErrInjected = errors.New("memstore: injected failure")

type Gigs struct {
	mu         sync.Mutex
	items      map[uuid.UUID]*entity.Gig
	FailUpdate bool
}

func NewGigs() *Gigs { return &Gigs{items: make(map[uuid.UUID]*entity.Gig)} }

func (s *Gigs) Put(g *entity.Gig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.items[g.ID] = &cp
}

func (s *Gigs) Create(_ context.Context, g *entity.Gig) error {
	s.Put(g)
	return nil
}

func (s *Gigs) Update(_ context.Context, g *entity.Gig) error {
	if s.FailUpdate {
		return apperror.Wrap(ErrInjected, apperror.ErrCodeDatabaseError, "не удалось обновить заказ")
	}
	s.Put(g)
	return nil
}

func (s *Gigs) FindByID(_ context.Context, id uuid.UUID) (*entity.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.items[id]
	if !ok {
		return nil, apperror.ErrGigNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *Gigs) List(_ context.Context, filter repository.GigFilter) ([]*entity.Gig, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Gig
	for _, g := range s.items {
		if filter.Status != nil && g.Status != *filter.Status {
			continue
		}
		if filter.AuthorID != nil && g.AuthorID != *filter.AuthorID {
			continue
		}
		cp := *g
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := len(result)
	if filter.Offset < len(result) {
		result = result[filter.Offset:]
	} else {
		result = nil
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (s *Gigs) Get(id uuid.UUID) *entity.Gig {
	g, _ := s.FindByID(context.Background(), id)
	return g
}

// SyncedGigs задерживает FindByID, пока заказ не прочитают все readers вызывающих.
// Так параллельные use case гарантированно видят одно и то же исходное состояние.
type SyncedGigs struct {
	*Gigs
	loaded sync.WaitGroup
}

func NewSyncedGigs(gigs *Gigs, readers int) *SyncedGigs {
	s := &SyncedGigs{Gigs: gigs}
	s.loaded.Add(readers)
	return s
}

func (s *SyncedGigs) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	g, err := s.Gigs.FindByID(ctx, id)
	s.loaded.Done()
	s.loaded.Wait()
	return g, err
}

// Proposals для Accept обновляет и связанное хранилище заказов.
type Proposals struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.Proposal
	gigs  *Gigs
}

func NewProposals(gigs *Gigs) *Proposals {
	return &Proposals{items: make(map[uuid.UUID]*entity.Proposal), gigs: gigs}
}

func (s *Proposals) put(p *entity.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.items[p.ID] = &cp
}

func (s *Proposals) Create(_ context.Context, p *entity.Proposal) error {
	s.put(p)
	return nil
}

func (s *Proposals) Update(_ context.Context, p *entity.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatePendingLocked(p)
}

func (s *Proposals) updatePendingLocked(p *entity.Proposal) error {
	stored, ok := s.items[p.ID]
	if !ok || stored.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

// Accept повторяет транзакцию: при любой ошибке не меняется ни заказ, ни предложение.
func (s *Proposals) Accept(_ context.Context, p *entity.Proposal, gig *entity.Gig) error {
	s.gigs.mu.Lock()
	defer s.gigs.mu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gigs.FailUpdate {
		return apperror.Wrap(ErrInjected, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
	}
	storedGig, ok := s.gigs.items[gig.ID]
	if !ok || storedGig.Status != valueobject.GigStatusApproved {
		return apperror.ErrGigNotOpenForProposals
	}
	if err := s.updatePendingLocked(p); err != nil {
		return err
	}
	cp := *gig
	s.gigs.items[gig.ID] = &cp
	return nil
}

func (s *Proposals) FindByID(_ context.Context, id uuid.UUID) (*entity.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Proposals) filter(match func(*entity.Proposal) bool) []*entity.Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Proposal
	for _, p := range s.items {
		if match(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (s *Proposals) FindByGigID(_ context.Context, gigID uuid.UUID) ([]*entity.Proposal, error) {
	return s.filter(func(p *entity.Proposal) bool { return p.GigID == gigID }), nil
}

func (s *Proposals) FindByResponderID(_ context.Context, responderID uuid.UUID) ([]*entity.Proposal, error) {
	return s.filter(func(p *entity.Proposal) bool { return p.ResponderID == responderID }), nil
}

func (s *Proposals) FindAcceptedByGigID(_ context.Context, gigID uuid.UUID) (*entity.Proposal, error) {
	found := s.filter(func(p *entity.Proposal) bool {
		return p.GigID == gigID && p.Status == valueobject.ProposalStatusAccepted
	})
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (s *Proposals) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type Conversations struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.Conversation
}

func NewConversations() *Conversations {
	return &Conversations{items: make(map[uuid.UUID]*entity.Conversation)}
}

func (s *Conversations) Upsert(_ context.Context, c *entity.Conversation) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.GigID == c.GigID && existing.ClientID == c.ClientID && existing.ProviderID == c.ProviderID {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *c
	s.items[c.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Conversations) FindByID(_ context.Context, id uuid.UUID) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, apperror.ErrConversationNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Conversations) FindByParticipants(_ context.Context, gigID, clientID, providerID uuid.UUID) (*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.GigID == gigID && c.ClientID == clientID && c.ProviderID == providerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Conversations) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Conversation
	for _, c := range s.items {
		if c.IsParticipant(userID) {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Conversations) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type Completions struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.JobCompletion
}

func NewCompletions() *Completions {
	return &Completions{items: make(map[uuid.UUID]*entity.JobCompletion)}
}

// Create повторяет частичный уникальный индекс: одна pending заявка на заказ.
func (s *Completions) Create(_ context.Context, c *entity.JobCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Status == valueobject.CompletionStatusPending {
		for _, existing := range s.items {
			if existing.GigID == c.GigID && existing.Status == valueobject.CompletionStatusPending {
				return apperror.New(apperror.ErrCodeConflict, "запись уже существует")
			}
		}
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *Completions) Update(_ context.Context, c *entity.JobCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[c.ID]
	if !ok || stored.Status != valueobject.CompletionStatusPending {
		return apperror.ErrCompletionNotPending
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *Completions) FindByID(_ context.Context, id uuid.UUID) (*entity.JobCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, apperror.ErrCompletionNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Completions) FindByGigID(_ context.Context, gigID uuid.UUID) ([]*entity.JobCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.JobCompletion
	for _, c := range s.items {
		if c.GigID == gigID {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *Completions) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type planKey struct {
	tier     string
	userType valueobject.UserType
}

type Plans struct {
	mu    sync.Mutex
	items map[planKey]*entity.PlanLimit
}

func NewPlans(limits ...*entity.PlanLimit) *Plans {
	s := &Plans{items: make(map[planKey]*entity.PlanLimit)}
	for _, l := range limits {
		_ = s.Upsert(context.Background(), l)
	}
	return s
}

func (s *Plans) FindLimit(_ context.Context, tier string, userType valueobject.UserType) (*entity.PlanLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[planKey{tier, userType}]
	if !ok {
		return nil, apperror.ErrPlanNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Plans) Upsert(_ context.Context, l *entity.PlanLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.items[planKey{l.PlanTier, l.UserType}] = &cp
	return nil
}

func (s *Plans) List(_ context.Context) ([]*entity.PlanLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.PlanLimit
	for _, l := range s.items {
		cp := *l
		result = append(result, &cp)
	}
	return result, nil
}

type Usage struct {
	mu         sync.Mutex
	records    []*entity.UsageRecord
	FailWrites bool
}

func NewUsage() *Usage { return &Usage{} }

func (s *Usage) Create(_ context.Context, r *entity.UsageRecord) error {
	if s.FailWrites {
		return apperror.Wrap(ErrInjected, apperror.ErrCodeDatabaseError, "не удалось записать расход квоты")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.records = append(s.records, &cp)
	return nil
}

func (s *Usage) CountSince(_ context.Context, userID uuid.UUID, action valueobject.ActionType, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, r := range s.records {
		if r.UserID == userID && r.ActionType == action && !r.CreatedAt.Before(since) {
			total += r.CreditsUsed
		}
	}
	return total, nil
}

// Records возвращает записи пользователя по действию.
func (s *Usage) Records(userID uuid.UUID, action valueobject.ActionType) []*entity.UsageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.UsageRecord
	for _, r := range s.records {
		if r.UserID == userID && r.ActionType == action {
			result = append(result, r)
		}
	}
	return result
}

type Profiles struct {
	mu    sync.Mutex
	items map[uuid.UUID]*entity.Profile
}

func NewProfiles(profiles ...*entity.Profile) *Profiles {
	s := &Profiles{items: make(map[uuid.UUID]*entity.Profile)}
	for _, p := range profiles {
		s.Put(p)
	}
	return s
}

func (s *Profiles) Put(p *entity.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.items[p.UserID] = &cp
}

func (s *Profiles) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[userID]
	if !ok {
		return nil, apperror.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

type unlockKey struct {
	userID uuid.UUID
	gigID  uuid.UUID
}

type Unlocks struct {
	mu         sync.Mutex
	items      map[unlockKey]*entity.ContactUnlock
	FailWrites bool
}

func NewUnlocks() *Unlocks { return &Unlocks{items: make(map[unlockKey]*entity.ContactUnlock)} }

func (s *Unlocks) Exists(_ context.Context, userID, gigID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[unlockKey{userID, gigID}]
	return ok, nil
}

func (s *Unlocks) Create(_ context.Context, u *entity.ContactUnlock) error {
	if s.FailWrites {
		return apperror.Wrap(ErrInjected, apperror.ErrCodeDatabaseError, "не удалось сохранить раскрытие контакта")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := unlockKey{u.UserID, u.GigID}
	if _, ok := s.items[key]; !ok {
		cp := *u
		s.items[key] = &cp
	}
	return nil
}

func (s *Unlocks) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type Transactions struct {
	mu         sync.Mutex
	items      []*entity.Transaction
	FailWrites bool
}

func NewTransactions() *Transactions { return &Transactions{} }

func (s *Transactions) Create(_ context.Context, tx *entity.Transaction) error {
	if s.FailWrites {
		return apperror.Wrap(ErrInjected, apperror.ErrCodeDatabaseError, "не удалось записать операцию")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.items = append(s.items, &cp)
	return nil
}

func (s *Transactions) CreateBatch(ctx context.Context, txs []*entity.Transaction) error {
	if s.FailWrites {
		return apperror.Wrap(ErrInjected, apperror.ErrCodeDatabaseError, "не удалось записать операции")
	}
	for _, tx := range txs {
		if err := s.Create(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Transactions) ListByUserRole(_ context.Context, userID uuid.UUID, role valueobject.WalletRole) ([]*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Transaction
	for i := len(s.items) - 1; i >= 0; i-- {
		tx := s.items[i]
		if tx.UserID == userID && tx.Role == role {
			cp := *tx
			result = append(result, &cp)
		}
	}
	return result, nil
}

type Notifications struct {
	mu    sync.Mutex
	items []*entity.Notification
}

func NewNotifications() *Notifications { return &Notifications{} }

func (s *Notifications) Create(_ context.Context, n *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.items = append(s.items, &cp)
	return nil
}

func (s *Notifications) FindByID(_ context.Context, id uuid.UUID) (*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, apperror.ErrNotificationNotFound
}

func (s *Notifications) List(_ context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Notification
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i]
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		cp := *n
		result = append(result, &cp)
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Notifications) MarkAsRead(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (s *Notifications) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (s *Notifications) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
