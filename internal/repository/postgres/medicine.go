package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
)

const medicineColumns = `
	id, name, name_ar, category, description, dosage_forms, created_at, updated_at
`

func (r *medicineRepository) Search(ctx context.Context, filters *model.MedicineFilters) ([]*model.Medicine, int, error) {
	filters.Normalize()

	where := "WHERE TRUE"
	args := []interface{}{}

	if filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR name_ar ILIKE $%d)", len(args), len(args))
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM medicines "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", err)
	}

	args = append(args, filters.PageSize, filters.Offset())
	query := `SELECT ` + medicineColumns + ` FROM medicines ` + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	var medicines []*model.Medicine
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search medicines: %w", err)
	}
	for _, medicine := range medicines {
		if len(medicine.DosageFormsRaw) > 0 {
			if err := json.Unmarshal(medicine.DosageFormsRaw, &medicine.DosageForms); err != nil {
				return nil, 0, fmt.Errorf("failed to decode dosage forms: %w", err)
			}
		}
	}
	return medicines, total, nil
}

func (r *medicineRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.SelectContext(ctx, &categories, "SELECT DISTINCT category FROM medicines ORDER BY 1"); err != nil {
		return nil, fmt.Errorf("failed to list medicine categories: %w", err)
	}
	return categories, nil
}
