package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversionRun is one recorded PDF → HTML conversion.
type ConversionRun struct {
	ID           uuid.UUID  `json:"id"`
	SourcePath   string     `json:"source_path"`
	OutputPath   string     `json:"output_path"`
	Language     string     `json:"language"`
	Status       string     `json:"status"`
	Strategy     string     `json:"strategy,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	PageCount    int        `json:"page_count"`
	ProductCount int        `json:"product_count"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}
