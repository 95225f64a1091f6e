package models

import "strings"

type Transaction struct {
	ID        ID      `json:"id"`
	From      ID      `json:"from"`
	To        ID      `json:"to"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
	CreatedAt Time    `json:"CreatedAt"`
}

// TransactionInput is the body of POST /transactions.
type TransactionInput struct {
	From    ID      `json:"from"`
	To      ID      `json:"to"`
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

type Conversation struct {
	Transactions []Transaction `json:"transactions"`
}

// Balance is the net amount between two users as seen from the first one.
// Positive means the peer owes the first user.
type Balance struct {
	NetBalance float64 `json:"net_balance"`
}

const ClearPending = "pending"

// ClearRequest asks the peer to settle the balance. The backend mixes key
// casing here; encoding/json matches keys case-insensitively so the tags
// below follow the backend's spelling.
type ClearRequest struct {
	ID        ID      `json:"ID"`
	FromUser  ID      `json:"from_user"`
	ToUser    ID      `json:"to_user"`
	Amount    float64 `json:"Amount"`
	Status    string  `json:"status"`
	CreatedAt Time    `json:"CreatedAt"`
	UpdatedAt Time    `json:"UpdatedAt"`
}

func (c ClearRequest) Pending() bool {
	return c.Status == "" || strings.EqualFold(c.Status, ClearPending)
}

// ClearRequestInput is the body of POST /transactions/clear/request.
type ClearRequestInput struct {
	FromUser ID      `json:"from_user"`
	ToUser   ID      `json:"to_user"`
	Amount   float64 `json:"amount"`
}

// ErrorBody is the error body the backend sends with 4xx responses.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e ErrorBody) Text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
