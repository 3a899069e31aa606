package repository

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"

	"github.com/kindling-labs/kindling/internal/domain"
)

// VectorRepository handles persistence of document embeddings. Vectors are
// stored as raw little-endian float32 blobs; dim always equals len(blob)/4.
type VectorRepository struct {
	db *sql.DB
}

func NewVectorRepository(db *sql.DB) *VectorRepository {
	return &VectorRepository{db: db}
}

// UpsertVectors inserts vectors, replacing rows with the same id.
func (r *VectorRepository) UpsertVectors(ctx context.Context, vectors []domain.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO vectors (id, dim, data) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range vectors {
		if _, err := stmt.ExecContext(ctx, v.ID, v.Dim, EncodeVector(v.Data)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetAllVectors returns every stored vector, decoded, in storage order.
// The retriever scans this set linearly; at the target corpus scale
// (low thousands of fragments) that is a documented, acceptable cost.
func (r *VectorRepository) GetAllVectors(ctx context.Context) ([]domain.Vector, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, dim, data FROM vectors ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vectors := make([]domain.Vector, 0, 64)
	for rows.Next() {
		var v domain.Vector
		var blob []byte
		if err := rows.Scan(&v.ID, &v.Dim, &blob); err != nil {
			return nil, err
		}
		v.Data = DecodeVector(blob)
		vectors = append(vectors, v)
	}
	return vectors, rows.Err()
}

// EncodeVector serializes float32 components as little-endian bytes.
func EncodeVector(data []float32) []byte {
	buf := make([]byte, 4*len(data))
	for i, f := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// DecodeVector deserializes little-endian bytes back into float32 components.
// Trailing bytes that do not form a full float32 are ignored.
func DecodeVector(blob []byte) []float32 {
	n := len(blob) / 4
	data := make([]float32, n)
	for i := 0; i < n; i++ {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return data
}
