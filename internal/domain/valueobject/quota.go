package valueobject

import (
	"time"

	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// ActionType - тарифицируемое действие пользователя.
type ActionType string

const (
	ActionContactView ActionType = "contact_view"
	ActionProposal    ActionType = "proposal"
	ActionGigResponse ActionType = "gig_response"
)

// AllActions возвращает действия в порядке отображения в сводке.
func AllActions() []ActionType {
	return []ActionType{ActionContactView, ActionProposal, ActionGigResponse}
}

func (a ActionType) IsValid() bool {
	switch a {
	case ActionContactView, ActionProposal, ActionGigResponse:
		return true
	}
	return false
}

func NewActionType(action string) (ActionType, error) {
	a := ActionType(action)
	if !a.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный тип действия")
	}
	return a, nil
}

type UserType string

const (
	UserTypeClient   UserType = "client"
	UserTypeProvider UserType = "provider"
	UserTypeBoth     UserType = "both"
)

func (u UserType) IsValid() bool {
	switch u {
	case UserTypeClient, UserTypeProvider, UserTypeBoth:
		return true
	}
	return false
}

func NewUserType(userType string) (UserType, error) {
	u := UserType(userType)
	if !u.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный тип пользователя")
	}
	return u, nil
}

// ResetPeriod задаёт окно, в котором считается расход квоты.
type ResetPeriod string

const (
	ResetDaily   ResetPeriod = "daily"
	ResetWeekly  ResetPeriod = "weekly"
	ResetMonthly ResetPeriod = "monthly"
	ResetYearly  ResetPeriod = "yearly"
	ResetNever   ResetPeriod = "never"
)

func (p ResetPeriod) IsValid() bool {
	switch p {
	case ResetDaily, ResetWeekly, ResetMonthly, ResetYearly, ResetNever:
		return true
	}
	return false
}

func NewResetPeriod(period string) (ResetPeriod, error) {
	p := ResetPeriod(period)
	if !p.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный период сброса квоты")
	}
	return p, nil
}

// WindowStart возвращает начало текущего окна в UTC.
// Для ResetNever возвращается нулевое время: учитывается вся история.
func (p ResetPeriod) WindowStart(now time.Time) time.Time {
	now = now.UTC()
	y, m, d := now.Date()
	switch p {
	case ResetDaily:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case ResetWeekly:
		// неделя начинается с понедельника
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	case ResetYearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	case ResetNever:
		return time.Time{}
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// WindowEnd возвращает конец окна, начинающегося в start. Для ResetNever - нулевое время.
func (p ResetPeriod) WindowEnd(start time.Time) time.Time {
	switch p {
	case ResetDaily:
		return start.AddDate(0, 0, 1)
	case ResetWeekly:
		return start.AddDate(0, 0, 7)
	case ResetYearly:
		return start.AddDate(1, 0, 0)
	case ResetNever:
		return time.Time{}
	default:
		return start.AddDate(0, 1, 0)
	}
}

// WalletRole - контекст, в котором пользователь видит свой кошелёк.
type WalletRole string

const (
	WalletRoleClient   WalletRole = "client"
	WalletRoleProvider WalletRole = "provider"
)

func NewWalletRole(role string) (WalletRole, error) {
	r := WalletRole(role)
	if r != WalletRoleClient && r != WalletRoleProvider {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректная роль кошелька")
	}
	return r, nil
}

type TransactionKind string

const (
	TransactionCredit TransactionKind = "credit"
	TransactionDebit  TransactionKind = "debit"
)
