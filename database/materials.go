// Package database provides a postgres/pgvector backed materials store, an
// alternative similarity backend for corpora too large to hold in memory.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/synthkit/synthkit/core/feature"
	"github.com/synthkit/synthkit/core/index"
	"github.com/synthkit/synthkit/corpus"
	"github.com/synthkit/synthkit/helper"
	"github.com/synthkit/synthkit/model"
	loadSql "github.com/synthkit/synthkit/sql"
)

// MaterialsDBHandlerFunctions defines the interface for materials database operations.
type MaterialsDBHandlerFunctions interface {
	InsertMaterial(record corpus.Record) error
	InsertCorpus(c *corpus.Corpus) error
	SelectMaterial(materialID string) (*corpus.Record, error)
	SelectMaterialsBySimilarity(embedding []float32, limit int) ([]model.Neighbor, error)
	SimilarMaterials(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error)
	CountMaterials() (int, error)
	DeleteMaterial(materialID string) error
}

// MaterialsDBHandler handles material-related database operations. The stored
// embeddings must come from the same featurizer the handler queries with.
// Embeddings are stored standardized (zero mean, unit variance per dimension)
// with statistics fitted over the inserted corpus and persisted next to the
// table, so distances and confidences match the in-memory index.
type MaterialsDBHandler struct {
	db         *helper.Database
	featurizer feature.Featurizer
	scaler     *index.StandardScaler
}

// NewMaterialsDBHandler creates a new materials database handler.
// It initializes the database connection and loads material-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewMaterialsDBHandler(db *helper.Database, featurizer feature.Featurizer, force bool) (*MaterialsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if featurizer == nil {
		return nil, helper.NewError("featurizer validation", fmt.Errorf("featurizer is nil"))
	}

	materialsDbHandler := &MaterialsDBHandler{
		db:         db,
		featurizer: featurizer,
	}

	err := loadSql.LoadMaterialsSql(materialsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load materials sql", err)
	}

	err = materialsDbHandler.CreateTable(featurizer.Dimension())
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	err = materialsDbHandler.loadScaler()
	if err != nil {
		return nil, helper.NewError("load scaler", err)
	}

	db.Logger.Info("Initialized MaterialsDBHandler")

	return materialsDbHandler, nil
}

// CreateTable creates the 'materials' table in the database.
// If the table already exists, it does not create it again.
func (h *MaterialsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_materials($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing materials table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table materials")

	return nil
}

// loadScaler restores persisted standardization statistics, if any. A missing
// row just means no corpus has been inserted yet.
func (h *MaterialsDBHandler) loadScaler() error {
	row := h.db.Instance.QueryRow(`SELECT mean, scale FROM select_materials_scaler()`)

	var mean, scale pgvector.Vector
	err := row.Scan(&mean, &scale)
	if errors.Is(err, sql.ErrNoRows) {
		h.scaler = nil
		return nil
	}
	if err != nil {
		return helper.NewError("scan", err)
	}

	scaler, err := index.NewStandardScaler(toFloat64(mean.Slice()), toFloat64(scale.Slice()))
	if err != nil {
		return helper.NewError("rebuild scaler", err)
	}
	h.scaler = scaler

	return nil
}

// saveScaler persists the fitted standardization statistics.
func (h *MaterialsDBHandler) saveScaler(scaler *index.StandardScaler) error {
	_, err := h.db.Instance.Exec(
		`SELECT upsert_materials_scaler($1, $2)`,
		pgvector.NewVector(toFloat32(scaler.Mean())),
		pgvector.NewVector(toFloat32(scaler.Scale())),
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// InsertMaterial inserts or updates a single corpus record. The raw feature
// vector is standardized with the persisted corpus statistics before storage,
// so a corpus must have been inserted first.
func (h *MaterialsDBHandler) InsertMaterial(record corpus.Record) error {
	if h.scaler == nil {
		if err := h.loadScaler(); err != nil {
			return err
		}
	}
	if h.scaler == nil {
		return helper.NewError("standardize", fmt.Errorf("no scaler fitted, insert a corpus first"))
	}

	standardized, err := h.scaler.Transform(record.Features)
	if err != nil {
		return helper.NewError("standardize", err)
	}

	row := h.db.Instance.QueryRow(
		`SELECT material_id, formula FROM insert_material($1, $2, $3)`,
		record.MaterialID,
		record.Formula,
		pgvector.NewVector(toFloat32(standardized)),
	)

	var materialID, formula string
	err = row.Scan(&materialID, &formula)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// InsertCorpus fits standardization statistics over the corpus, persists them
// and inserts every record in standardized space.
func (h *MaterialsDBHandler) InsertCorpus(c *corpus.Corpus) error {
	features := make([][]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		features = append(features, c.Features(i))
	}
	scaler, err := index.FitStandardScaler(features)
	if err != nil {
		return helper.NewError("fit scaler", err)
	}
	if err := h.saveScaler(scaler); err != nil {
		return helper.NewError("save scaler", err)
	}
	h.scaler = scaler

	for i := 0; i < c.Len(); i++ {
		record := corpus.Record{
			MaterialID: c.MaterialID(i),
			Formula:    c.Formula(i),
			Features:   c.Features(i),
		}
		if err := h.InsertMaterial(record); err != nil {
			return helper.NewError(fmt.Sprintf("insert material %s", record.MaterialID), err)
		}
	}

	h.db.Logger.Info("Inserted corpus into materials table")

	return nil
}

// SelectMaterial retrieves a material by its id. The stored standardized
// embedding is mapped back to raw feature space.
func (h *MaterialsDBHandler) SelectMaterial(materialID string) (*corpus.Record, error) {
	row := h.db.Instance.QueryRow(
		`SELECT material_id, formula, embedding FROM select_material($1)`,
		materialID,
	)

	record := &corpus.Record{}
	var embedding pgvector.Vector
	err := row.Scan(&record.MaterialID, &record.Formula, &embedding)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	if h.scaler == nil {
		if err := h.loadScaler(); err != nil {
			return nil, err
		}
	}
	if h.scaler == nil {
		return nil, helper.NewError("standardize", fmt.Errorf("no scaler fitted, insert a corpus first"))
	}
	record.Features, err = h.scaler.InverseTransform(toFloat64(embedding.Slice()))
	if err != nil {
		return nil, helper.NewError("inverse transform", err)
	}

	return record, nil
}

// SelectMaterialsBySimilarity returns the materials nearest to a raw feature
// vector, ordered ascending by L2 distance in standardized space. The query
// vector is standardized with the same statistics as the stored embeddings.
func (h *MaterialsDBHandler) SelectMaterialsBySimilarity(embedding []float32, limit int) ([]model.Neighbor, error) {
	if h.scaler == nil {
		if err := h.loadScaler(); err != nil {
			return nil, err
		}
	}
	if h.scaler == nil {
		return nil, helper.NewError("standardize", fmt.Errorf("no scaler fitted, insert a corpus first"))
	}

	standardized, err := h.scaler.Transform(toFloat64(embedding))
	if err != nil {
		return nil, helper.NewError("standardize", err)
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_materials_by_similarity($1, $2)`,
		pgvector.NewVector(toFloat32(standardized)),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var neighbors []model.Neighbor
	for rows.Next() {
		var neighbor model.Neighbor
		err := rows.Scan(&neighbor.MaterialID, &neighbor.Formula, &neighbor.Distance)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		neighbor.Rank = len(neighbors)
		neighbor.Confidence = index.ConfidenceFromDistance(neighbor.Distance)
		neighbors = append(neighbors, neighbor)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return neighbors, nil
}

// SimilarMaterials featurizes a composition formula and returns its nearest
// stored materials. Failures surface as lookup failures.
func (h *MaterialsDBHandler) SimilarMaterials(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error) {
	if h.featurizer.Kind() != model.InputKindComposition {
		return nil, fmt.Errorf("%w: formula lookup needs a composition featurizer", model.ErrInvalidInputKind)
	}

	material, err := model.NewCompositionMaterial(formula)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupFailure, err)
	}
	features, err := h.featurizer.Featurize(material)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupFailure, err)
	}

	neighbors, err := h.SelectMaterialsBySimilarity(toFloat32(features), nNeighbors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupFailure, err)
	}
	return neighbors, nil
}

// CountMaterials returns the number of stored materials.
func (h *MaterialsDBHandler) CountMaterials() (int, error) {
	var count int
	err := h.db.Instance.QueryRow(`SELECT count_materials()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// DeleteMaterial deletes a material by its id.
func (h *MaterialsDBHandler) DeleteMaterial(materialID string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_material($1)`,
		materialID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
