package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ReviewEmbedding is one embedded product review in the corpus.
type ReviewEmbedding struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductTitle string          `gorm:"type:text;not null"`
	Review       string          `gorm:"type:text;not null"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt    time.Time
}

func (ReviewEmbedding) TableName() string {
	return "review_embeddings"
}
