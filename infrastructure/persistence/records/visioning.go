package records

import (
	"context"
	"encoding/json"
	"fmt"

	"sol-backend/application/ports"
	"sol-backend/domain/core/entities"
	pkgerrors "sol-backend/pkg/errors"
)

type visioningRow struct {
	ID          string  `json:"id"`
	UserEmail   string  `json:"user_email"`
	Filename    string  `json:"filename"`
	RawText     string  `json:"raw_text"`
	Summary     string  `json:"summary"`
	Vision      string  `json:"vision"`
	Tags        string  `json:"tags"`
	Sections    string  `json:"sections"`
	CreatedAt   string  `json:"created_at"`
	ProcessedAt *string `json:"processed_at"`
}

func newVisioningRow(d *entities.VisioningDocument) (visioningRow, error) {
	sections := "{}"
	if len(d.Sections) > 0 {
		data, err := json.Marshal(d.Sections)
		if err != nil {
			return visioningRow{}, fmt.Errorf("failed to encode sections: %w", err)
		}
		sections = string(data)
	}

	return visioningRow{
		ID:          d.ID,
		UserEmail:   d.UserEmail,
		Filename:    d.Filename,
		RawText:     d.RawText,
		Summary:     d.Summary,
		Vision:      d.Vision,
		Tags:        entities.JoinTags(d.Tags),
		Sections:    sections,
		CreatedAt:   formatTime(d.CreatedAt),
		ProcessedAt: formatTimePtr(d.ProcessedAt),
	}, nil
}

func (r visioningRow) entity() *entities.VisioningDocument {
	sections := map[string]string{}
	if r.Sections != "" {
		// A malformed sections column leaves the document usable without them.
		_ = json.Unmarshal([]byte(r.Sections), &sections)
	}

	return &entities.VisioningDocument{
		ID:          r.ID,
		UserEmail:   r.UserEmail,
		Filename:    r.Filename,
		RawText:     r.RawText,
		Summary:     r.Summary,
		Vision:      r.Vision,
		Tags:        entities.ParseTags(r.Tags),
		Sections:    sections,
		CreatedAt:   parseTime(r.CreatedAt),
		ProcessedAt: parseTimePtr(r.ProcessedAt),
	}
}

// VisioningRepository implements ports.VisioningRepository
type VisioningRepository struct {
	store ports.RecordStore
}

// NewVisioningRepository creates a new VisioningRepository
func NewVisioningRepository(store ports.RecordStore) *VisioningRepository {
	return &VisioningRepository{store: store}
}

// Create stores a new visioning document
func (r *VisioningRepository) Create(ctx context.Context, d *entities.VisioningDocument) error {
	row, err := newVisioningRow(d)
	if err != nil {
		return err
	}
	rec, err := toRecord(row)
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, ports.TableVisioningDocs, rec)
	return err
}

// Update writes the analysis fields of a document
func (r *VisioningRepository) Update(ctx context.Context, d *entities.VisioningDocument) error {
	row, err := newVisioningRow(d)
	if err != nil {
		return err
	}
	patch := ports.Record{
		"summary":      row.Summary,
		"vision":       row.Vision,
		"tags":         row.Tags,
		"sections":     row.Sections,
		"processed_at": nil,
	}
	if row.ProcessedAt != nil {
		patch["processed_at"] = *row.ProcessedAt
	}
	_, err = r.store.Update(ctx, ports.TableVisioningDocs, d.ID, patch)
	return err
}

// GetByID returns one document
func (r *VisioningRepository) GetByID(ctx context.Context, id string) (*entities.VisioningDocument, error) {
	docs, err := r.find(ctx, ports.Where("id", id).Take(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("visioning document %s: %w", id, pkgerrors.ErrRecordNotFound)
	}
	return docs[0], nil
}

// ListByEmail returns the newest documents for email
func (r *VisioningRepository) ListByEmail(ctx context.Context, email string, limit int) ([]*entities.VisioningDocument, error) {
	q := ports.Where("user_email", entities.NormalizeEmail(email)).OrderBy("created_at", true)
	if limit > 0 {
		q = q.Take(limit)
	}
	return r.find(ctx, q)
}

func (r *VisioningRepository) find(ctx context.Context, q ports.Query) ([]*entities.VisioningDocument, error) {
	recs, err := r.store.Find(ctx, ports.TableVisioningDocs, q)
	if err != nil {
		return nil, err
	}
	docs := make([]*entities.VisioningDocument, 0, len(recs))
	for _, rec := range recs {
		var row visioningRow
		if err := fromRecord(rec, &row); err != nil {
			return nil, err
		}
		docs = append(docs, row.entity())
	}
	return docs, nil
}
