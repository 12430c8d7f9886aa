// Package ofx reads OFX/QFX bank and credit-card statements as payment records.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{logger: slog.Default().With("component", "ofx")}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files from some banks drop the closing bracket on bare tags.
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns its transactions as payments.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Payment, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var payments []model.Payment
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			payments = append(payments, p.convertStatement(stmt.BankTranList, stmt.CurDef, false)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			payments = append(payments, p.convertStatement(stmt.BankTranList, stmt.CurDef, true)...)
		}
	}

	p.logger.Info("Parsed OFX file",
		"total_payments", len(payments),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return payments, nil
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

func (p *Parser) convertStatement(list *ofxgo.TransactionList, curDef ofxgo.CurrSymbol, creditCard bool) []model.Payment {
	if list == nil {
		return nil
	}

	currency := curDef.String()
	if len(currency) != 3 {
		currency = "USD"
	}

	payments := make([]model.Payment, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		payments = append(payments, p.convertTransaction(ofxTx, currency, creditCard))
	}
	return payments
}

// convertTransaction maps one statement line onto a payment. Amounts are
// stored unsigned; a credit on a card statement is treated as a refund.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, currency string, creditCard bool) model.Payment {
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)

	status := model.StatusSucceeded
	if creditCard && amount.IsPositive() {
		status = model.StatusRefunded
	}

	return model.Payment{
		ID:            string(ofxTx.FiTID),
		Date:          ofxTx.DtPosted.Time,
		Amount:        amount.Abs(),
		Currency:      currency,
		Status:        status,
		Description:   p.extractDescription(ofxTx),
		PaymentMethod: paymentMethodFor(ofxTx.TrnType, creditCard),
	}
}

// paymentMethodFor maps an OFX transaction type to a payment-method label.
func paymentMethodFor(trnType ofxgo.TrnType, creditCard bool) string {
	if creditCard {
		return model.MethodCard
	}
	switch trnType {
	case ofxgo.TrnTypePOS, ofxgo.TrnTypeDebit, ofxgo.TrnTypeCredit, ofxgo.TrnTypeATM:
		return model.MethodCard
	case ofxgo.TrnTypeDirectDebit, ofxgo.TrnTypePayment, ofxgo.TrnTypeRepeatPmt:
		return model.MethodACH
	default:
		return model.MethodBankTransfer
	}
}

// extractDescription tries to get a clean description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " date stamps.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	default:
		return false
	}
}
