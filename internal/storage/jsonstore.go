// Package storage implements the JSON file record store.
//
// The store is the sole owner of two documents under its root directory,
// transactions.json and categories.json, each a JSON array kept in file
// order. Every operation re-reads the whole file and rewrites it in full;
// there is no in-memory cache and no locking, so concurrent writers race
// and the last writer wins.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"maccounting/internal/core"
)

const (
	transactionsFile = "transactions.json"
	categoriesFile   = "categories.json"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("not found")

type JSONStore struct {
	root    string
	txPath  string
	catPath string
}

// NewJSONStore creates the root directory and initializes both documents as
// empty arrays if they do not exist yet.
func NewJSONStore(root string) (*JSONStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	s := &JSONStore{
		root:    root,
		txPath:  filepath.Join(root, transactionsFile),
		catPath: filepath.Join(root, categoriesFile),
	}
	for _, path := range []string{s.txPath, s.catPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := writeDocument(path, []json.RawMessage{}); err != nil {
				return nil, fmt.Errorf("initialize %s: %w", filepath.Base(path), err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
		}
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *JSONStore) Root() string {
	return s.root
}

// ListTransactions returns all transactions in file order.
func (s *JSONStore) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := readDocument(s.txPath, &txs); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return txs, nil
}

// GetTransaction returns the transaction with the given id or ErrNotFound.
func (s *JSONStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

// UpsertTransactions merges the batch into the stored set by id and rewrites
// the document. An existing id keeps its position in file order; new ids are
// appended in batch order. Within one batch the last entry for an id wins.
func (s *JSONStore) UpsertTransactions(ctx context.Context, batch []core.Transaction) error {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return err
	}
	index := make(map[string]int, len(txs))
	for i, tx := range txs {
		index[tx.ID] = i
	}
	for _, tx := range batch {
		if i, ok := index[tx.ID]; ok {
			txs[i] = tx
			continue
		}
		index[tx.ID] = len(txs)
		txs = append(txs, tx)
	}
	if err := writeDocument(s.txPath, txs); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	return nil
}

// DeleteTransaction removes the transaction with the given id and reports
// whether a removal occurred.
func (s *JSONStore) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	txs, err := s.ListTransactions(ctx)
	if err != nil {
		return false, err
	}
	kept := txs[:0]
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(txs) {
		return false, nil
	}
	if err := writeDocument(s.txPath, kept); err != nil {
		return false, fmt.Errorf("write transactions: %w", err)
	}
	return true, nil
}

// ListCategories returns all categories in file order.
func (s *JSONStore) ListCategories(_ context.Context) ([]core.Category, error) {
	var cats []core.Category
	if err := readDocument(s.catPath, &cats); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return cats, nil
}

// UpsertCategories merges the batch into the stored set by id, with the same
// ordering rules as UpsertTransactions.
func (s *JSONStore) UpsertCategories(ctx context.Context, batch []core.Category) error {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return err
	}
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c.ID] = i
	}
	for _, c := range batch {
		if i, ok := index[c.ID]; ok {
			cats[i] = c
			continue
		}
		index[c.ID] = len(cats)
		cats = append(cats, c)
	}
	if err := writeDocument(s.catPath, cats); err != nil {
		return fmt.Errorf("write categories: %w", err)
	}
	return nil
}

func readDocument(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// writeDocument replaces the file in one step: the document is serialized
// with a stable 2-space indent to a temp file and renamed into place, so a
// call either fully applies or leaves the previous content intact.
func writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
