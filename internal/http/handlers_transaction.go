package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"maccounting/internal/core"
	applog "maccounting/internal/log"
	"maccounting/internal/storage"
)

// transactionPayload is the inbound shape for upserts. Required fields are
// pointers so an omitted value can be told apart from a zero one; optional
// fields carry their defaults through ApplyDefaults.
type transactionPayload struct {
	ID          *string              `json:"id"`
	Date        *core.Date           `json:"date"`
	Description string               `json:"description"`
	Amount      *float64             `json:"amount"`
	Currency    string               `json:"currency"`
	Type        core.TransactionType `json:"type"`
	CategoryID  *string              `json:"category_id"`
	Account     *string              `json:"account"`
}

func (p transactionPayload) toTransaction() (core.Transaction, error) {
	if p.ID == nil {
		return core.Transaction{}, core.ErrEmptyID
	}
	if p.Date == nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	if p.Amount == nil {
		return core.Transaction{}, core.ErrMissingAmount
	}
	tx := core.Transaction{
		ID:          *p.ID,
		Date:        *p.Date,
		Description: p.Description,
		Amount:      *p.Amount,
		Currency:    p.Currency,
		Type:        p.Type,
		CategoryID:  p.CategoryID,
		Account:     p.Account,
	}
	tx.ApplyDefaults()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", applog.FieldError, err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tx, err := s.store.GetTransaction(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Get transaction failed", applog.FieldError, err, "id", id)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// handleUpsertTransactions merges a batch of transactions by id and returns
// the full updated set.
func (s *Server) handleUpsertTransactions(w http.ResponseWriter, r *http.Request) {
	var payload []transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid transaction payload: %v", err))
		return
	}
	if payload == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid transaction payload: expected an array")
		return
	}
	batch := make([]core.Transaction, 0, len(payload))
	for i, p := range payload {
		tx, err := p.toTransaction()
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid transaction at index %d: %v", i, err))
			return
		}
		batch = append(batch, tx)
	}
	if err := s.store.UpsertTransactions(r.Context(), batch); err != nil {
		slog.ErrorContext(r.Context(), "Upsert transactions failed", applog.FieldError, err, "batch_size", len(batch))
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.handleListTransactions(w, r)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := s.store.DeleteTransaction(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", applog.FieldError, err, "id", id)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
