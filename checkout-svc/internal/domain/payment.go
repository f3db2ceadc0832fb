package domain

import "github.com/shopspring/decimal"

type PaymentStep string

const (
	StepClosed     PaymentStep = "closed"
	StepSelect     PaymentStep = "select"
	StepCash       PaymentStep = "cash"
	StepProcessing PaymentStep = "processing"
	StepSuccess    PaymentStep = "success"
)

func (s PaymentStep) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentMethodNone PaymentMethod = ""
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodVisa PaymentMethod = "visa"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodVisa
}

var stepTransitions = map[PaymentStep][]PaymentStep{
	StepClosed:     {StepSelect},
	StepSelect:     {StepCash, StepProcessing},
	StepCash:       {StepSuccess},
	StepProcessing: {StepSuccess},
	StepSuccess:    {StepClosed},
}

// CanTransitionTo reports whether the wizard may move forward from one step
// to another. Cancel (any step back to closed) is always allowed and is not
// part of this table.
func CanTransitionTo(from, to PaymentStep) bool {
	for _, next := range stepTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentFlowState struct {
	Open          bool            `json:"open"`
	Step          PaymentStep     `json:"step"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PaidAmount    string          `json:"paid_amount"`
	Total         decimal.Decimal `json:"total"`
	Change        decimal.Decimal `json:"change"`
	Submitting    bool            `json:"submitting"`
}

func InitialPaymentFlowState() PaymentFlowState {
	return PaymentFlowState{
		Step:   StepClosed,
		Total:  decimal.Zero,
		Change: decimal.Zero,
	}
}

type InvoiceResult struct {
	State   PaymentFlowState `json:"state"`
	Receipt *Receipt         `json:"receipt,omitempty"`
}
