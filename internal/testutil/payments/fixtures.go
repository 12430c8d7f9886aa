package payments

import (
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/shopspring/decimal"
)

// ReferenceTime is the instant the sample ledger was taken, used as "now" in tests.
var ReferenceTime = time.Date(2024, 3, 22, 12, 0, 0, 0, time.UTC)

type row struct {
	id, amount, status, description, email, method string
	date                                           time.Time
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

var sampleRows = []row{
	{id: "1", amount: "5.59", status: "Succeeded", description: "Payment for Invoice", email: "customer@gmail.com", date: at(21, 3, 50), method: "Card"},
	{id: "2", amount: "4.00", status: "Succeeded", description: "Interest", email: "customer@gmail.com", date: at(21, 3, 36), method: "Card"},
	{id: "3", amount: "4.00", status: "Failed", description: "Interest", email: "customer@gmail.com", date: at(21, 3, 35), method: "Bank transfer"},
	{id: "4", amount: "125.50", status: "Pending", description: "Service Payment", email: "user@example.com", date: at(20, 15, 20), method: "PayPal"},
	{id: "5", amount: "75.25", status: "Succeeded", description: "Product Return", email: "refund@gmail.com", date: at(19, 10, 15), method: "Apple Pay"},
	{id: "6", amount: "75.25", status: "Refunded", description: "Product Return", email: "refund@gmail.com", date: at(19, 10, 15), method: "Apple Pay"},
	{id: "7", amount: "75.25", status: "Succeeded", description: "Product Return", email: "refund@gmail.com", date: at(19, 10, 15), method: "Apple Pay"},
	{id: "8", amount: "75.25", status: "Succeeded", description: "Product Return", email: "refund@gmail.com", date: at(19, 10, 15), method: "Apple Pay"},
	{id: "9", amount: "75.25", status: "Pending", description: "Product Return", email: "refund@gmail.com", date: at(19, 10, 15), method: "Apple Pay"},
	{id: "10", amount: "75.25", status: "Failed", description: "Product Return", email: "refund@gmail.com", date: at(19, 10, 15), method: "Apple Pay"},
}

// Sample returns a fresh copy of the reference ledger, newest first.
func Sample() []model.Payment {
	out := make([]model.Payment, 0, len(sampleRows))
	for _, r := range sampleRows {
		out = append(out, model.Payment{
			ID:            r.id,
			Amount:        decimal.RequireFromString(r.amount),
			Currency:      "USD",
			Status:        r.status,
			Description:   r.description,
			Email:         r.email,
			Date:          r.date,
			PaymentMethod: r.method,
		})
	}
	return out
}

// IDs extracts payment IDs in order.
func IDs(ps []model.Payment) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}
