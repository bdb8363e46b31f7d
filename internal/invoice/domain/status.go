package domain

import (
	"fmt"
	"strings"
)

// Status is the payment workflow state. The stored value is the label shown
// to the accounts-payable team.
type Status string

const (
	StatusAwaitingInvoice Status = "Aguardando Fatura"
	StatusPendingEntry    Status = "Pendente Lançamento"
	StatusAwaitingPayment Status = "Aguardando Pagamento"
	StatusCompleted       Status = "Concluída"
)

// Statuses is the workflow order.
var Statuses = []Status{
	StatusAwaitingInvoice,
	StatusPendingEntry,
	StatusAwaitingPayment,
	StatusCompleted,
}

var statusCodes = map[Status]string{
	StatusAwaitingInvoice: "AwaitingInvoice",
	StatusPendingEntry:    "PendingEntry",
	StatusAwaitingPayment: "AwaitingPayment",
	StatusCompleted:       "Completed",
}

// Code returns the English identifier of the status.
func (s Status) Code() string {
	return statusCodes[s]
}

func (s Status) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// ParseStatus accepts a label or an English code, ignoring case and
// surrounding whitespace.
func ParseStatus(value string) (Status, error) {
	value = strings.TrimSpace(value)
	for _, status := range Statuses {
		if strings.EqualFold(value, string(status)) || strings.EqualFold(value, status.Code()) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// TransitionPolicy decides whether an invoice may move between two statuses.
type TransitionPolicy interface {
	Allow(from, to Status) bool
}

// OpenTransitions lets any status move to any other, so users can correct
// mistakes by hand.
type OpenTransitions struct{}

func (OpenTransitions) Allow(from, to Status) bool {
	return to.Valid()
}

// LinearTransitions only allows one step forward along Statuses, or staying put.
type LinearTransitions struct{}

func (LinearTransitions) Allow(from, to Status) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for i := 0; i < len(Statuses)-1; i++ {
		if Statuses[i] == from {
			return Statuses[i+1] == to
		}
	}
	return false
}

// NewTransitionPolicy returns the linear policy when strict is set.
func NewTransitionPolicy(strict bool) TransitionPolicy {
	if strict {
		return LinearTransitions{}
	}
	return OpenTransitions{}
}
