// Package tx maintains the transaction record that gets mined into blocks.
// Records are opaque to the chain itself, there is no signing or
// authentication of who submitted them.
package tx

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate holds the settings and caches for validating transaction values.
var validate = validator.New()

// Tx represents a single ledger entry submitted by a client. The timestamp
// is stamped by the node at submission time, not provided by the client.
type Tx struct {
	Author    string `json:"author" validate:"required"`
	Content   string `json:"content" validate:"required"`
	TimeStamp uint64 `json:"timestamp"`
}

// New constructs a transaction record and stamps it with the current time.
func New(author string, content string) Tx {
	return Tx{
		Author:    author,
		Content:   content,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}
}

// Validate checks the transaction carries the required fields.
func (tx Tx) Validate() error {
	if err := validate.Struct(tx); err != nil {
		return fmt.Errorf("invalid transaction data: %w", err)
	}

	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s: %s", tx.Author, tx.Content)
}
