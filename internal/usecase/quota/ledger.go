package quota

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// Window - текущее окно учёта квоты. End нулевой для тарифов без сброса.
type Window struct {
	Start time.Time
	End   time.Time
}

// ErrCounterLimitReached оборачивает ошибку счётчика, который уже ответил
// "лимит достигнут", но не смог откатить свой инкремент.
var ErrCounterLimitReached = errors.New("quota: лимит достигнут по счётчику")

// Counter - строгий счётчик квоты поверх журнала расхода (опционально, например Redis).
// Reserve атомарно занимает единицу и возвращает false, если лимит уже достигнут.
// Ошибка без ErrCounterLimitReached означает, что счётчик недоступен.
type Counter interface {
	Reserve(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, window Window, limit, used int) (bool, error)
	Release(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, window Window) error
}

// Status - состояние квоты пользователя по одному действию.
type Status struct {
	Action      valueobject.ActionType
	Allowed     bool
	Used        int
	Limit       int
	Remaining   int
	Unlimited   bool
	WindowStart time.Time
	ResetsAt    *time.Time
}

// Summary - сводка по всем тарифицируемым действиям.
type Summary struct {
	PlanTier         string
	UserType         valueobject.UserType
	ResetPeriod      valueobject.ResetPeriod
	SearchBoost      bool
	ProfileHighlight bool
	Actions          []Status
}

// Ledger учитывает расход квот по тарифу пользователя.
//
// По умолчанию лимит мягкий: проверка и запись расхода - две отдельные операции,
// и параллельные запросы могут превысить лимит на число гонок. Строгий режим включается
// через WithCounter.
type Ledger struct {
	profiles repository.ProfileRepository
	plans    repository.PlanRepository
	usage    repository.UsageRepository
	counter  Counter
	now      func() time.Time
	log      *logrus.Entry
}

type Option func(*Ledger)

func WithCounter(counter Counter) Option {
	return func(l *Ledger) { l.counter = counter }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(profiles repository.ProfileRepository, plans repository.PlanRepository, usage repository.UsageRepository, opts ...Option) *Ledger {
	l := &Ledger{
		profiles: profiles,
		plans:    plans,
		usage:    usage,
		now:      time.Now,
		log:      logger.Component("quota"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// resolvePlan находит тариф пользователя; при отсутствии точного совпадения
// используется строка с типом пользователя "both". Без профиля или тарифа - отказ.
func (l *Ledger) resolvePlan(ctx context.Context, userID uuid.UUID) (*entity.Profile, *entity.PlanLimit, error) {
	profile, err := l.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	limit, err := l.plans.FindLimit(ctx, profile.PlanTier, profile.UserType)
	if err == nil {
		return profile, limit, nil
	}
	if !apperror.IsNotFound(err) || profile.UserType == valueobject.UserTypeBoth {
		return nil, nil, err
	}

	limit, err = l.plans.FindLimit(ctx, profile.PlanTier, valueobject.UserTypeBoth)
	if err != nil {
		return nil, nil, err
	}
	return profile, limit, nil
}

func (l *Ledger) status(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, limit *entity.PlanLimit) (*Status, Window, error) {
	start := limit.ResetPeriod.WindowStart(l.now())
	window := Window{Start: start, End: limit.ResetPeriod.WindowEnd(start)}

	used, err := l.usage.CountSince(ctx, userID, action, window.Start)
	if err != nil {
		return nil, window, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить расход квоты")
	}

	maxUnits := limit.CapFor(action)
	st := &Status{
		Action:      action,
		Used:        used,
		Limit:       maxUnits,
		WindowStart: window.Start,
	}
	if !window.End.IsZero() {
		end := window.End
		st.ResetsAt = &end
	}

	if entity.IsUnlimited(maxUnits) {
		st.Allowed = true
		st.Unlimited = true
		st.Remaining = entity.UnlimitedQuota
		return st, window, nil
	}

	st.Allowed = used < maxUnits
	if st.Allowed {
		st.Remaining = maxUnits - used
	}
	return st, window, nil
}

// CanPerformAction сообщает, может ли пользователь выполнить действие в текущем окне.
func (l *Ledger) CanPerformAction(ctx context.Context, userID uuid.UUID, action valueobject.ActionType) (*Status, error) {
	if !action.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип действия")
	}
	_, limit, err := l.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, _, err := l.status(ctx, userID, action, limit)
	return st, err
}

// ConsumeQuota повторно проверяет лимит и добавляет запись о расходе.
// Запись расхода - единственный побочный эффект операции.
func (l *Ledger) ConsumeQuota(ctx context.Context, userID uuid.UUID, action valueobject.ActionType, targetID *uuid.UUID, targetType string) (*entity.UsageRecord, error) {
	if !action.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип действия")
	}
	profile, limit, err := l.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	st, window, err := l.status(ctx, userID, action, limit)
	if err != nil {
		return nil, err
	}
	if !st.Allowed {
		return nil, ExceededError(action)
	}

	reserved := false
	if l.counter != nil && !st.Unlimited {
		ok, err := l.counter.Reserve(ctx, userID, action, window, st.Limit, st.Used)
		switch {
		case errors.Is(err, ErrCounterLimitReached):
			l.log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"action":  action,
			}).Warn("лимит исчерпан, счётчик квоты не откатился")
			return nil, ExceededError(action)
		case err != nil:
			// счётчик недоступен: остаётся мягкая проверка по журналу
			l.log.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"action":  action,
			}).Warn("строгий счётчик квоты недоступен")
		case !ok:
			return nil, ExceededError(action)
		default:
			reserved = true
		}
	}

	record := entity.NewUsageRecord(userID, action, targetID, targetType, profile.PlanTier, l.now())
	if err := l.usage.Create(ctx, record); err != nil {
		if reserved {
			if relErr := l.counter.Release(ctx, userID, action, window); relErr != nil {
				l.log.WithError(relErr).WithField("user_id", userID).Warn("не удалось освободить резерв квоты")
			}
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось записать расход квоты")
	}

	return record, nil
}

// Summary возвращает состояние всех квот пользователя и флаги тарифа.
func (l *Ledger) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	profile, limit, err := l.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		PlanTier:         profile.PlanTier,
		UserType:         profile.UserType,
		ResetPeriod:      limit.ResetPeriod,
		SearchBoost:      limit.SearchBoost,
		ProfileHighlight: limit.ProfileHighlight,
	}
	for _, action := range valueobject.AllActions() {
		st, _, err := l.status(ctx, userID, action, limit)
		if err != nil {
			return nil, err
		}
		summary.Actions = append(summary.Actions, *st)
	}
	return summary, nil
}

// ExceededError возвращает ошибку "требуется смена тарифа" для действия.
func ExceededError(action valueobject.ActionType) error {
	switch action {
	case valueobject.ActionContactView:
		return apperror.ErrContactLimitReached
	case valueobject.ActionProposal:
		return apperror.ErrProposalLimitReached
	default:
		return apperror.ErrGigResponseLimitReached
	}
}
