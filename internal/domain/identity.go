package domain

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// NewBatchID returns a K-sortable ID so batch history sorts chronologically.
func NewBatchID() string {
	return ksuid.New().String()
}

// NewItemRecordID identifies one stored item row.
func NewItemRecordID() string {
	return uuid.NewString()
}
