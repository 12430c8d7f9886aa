package model

// StatusOptions is the status vocabulary offered by the status filter.
var StatusOptions = []string{
	"Succeeded",
	"Failed",
	"Pending",
	"Canceled",
	"Refunded",
	"Disputed",
	"Blocked",
	"Incomplete",
	"Partially refunded",
	"Refund pending",
	"Uncaptured",
	"Early fraud warning",
}

// PaymentMethodOptions is the payment-method vocabulary offered by the method filter.
var PaymentMethodOptions = []string{
	"Card",
	"Bank transfer",
	"PayPal",
	"Apple Pay",
	"Google Pay",
	"SEPA",
	"ACH",
}

// Common status labels produced by the record sources.
const (
	StatusSucceeded = "Succeeded"
	StatusPending   = "Pending"
	StatusRefunded  = "Refunded"
	StatusFailed    = "Failed"
)

// Common payment-method labels produced by the record sources.
const (
	MethodCard         = "Card"
	MethodBankTransfer = "Bank transfer"
	MethodACH          = "ACH"
)
