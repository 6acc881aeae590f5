package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"donor-finder/internal/domain"
)

// LegacyHeader is the layout written when no spreadsheet exists yet.
var LegacyHeader = []string{
	"Sno", "Name", "Age", "Gender", "PHONE NUMBER",
	"Email", "Blood group", "Area", "Weight (kg)", "Hemoglobin (g/dl)",
}

type DonorRepository interface {
	Load(ctx context.Context) (*domain.DonorTable, error)
	Append(ctx context.Context, row domain.RegistrationRow) (int, error)
	Path() string
}

type donorSheetRepository struct {
	path string
}

func NewDonorSheetRepository(path string) DonorRepository {
	return &donorSheetRepository{path: path}
}

func (r *donorSheetRepository) Path() string {
	return r.path
}

func (r *donorSheetRepository) Load(ctx context.Context) (*domain.DonorTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}

	var headers []string
	if len(rows) > 0 {
		headers = rows[0]
	}
	schema, err := ResolveSchema(headers)
	if err != nil {
		return nil, err
	}

	table := &domain.DonorTable{
		Donors:   make([]domain.Donor, 0, max(len(rows)-1, 0)),
		HasEmail: schema.HasEmail,
		Columns:  schema.Headers,
		LoadedAt: time.Now(),
	}
	for i, row := range rows[1:] {
		table.Donors = append(table.Donors, schema.donor(i, row))
	}
	return table, nil
}

func (s Schema) donor(id int, row []string) domain.Donor {
	d := domain.Donor{
		ID:         id,
		Name:       s.cell(row, FieldName),
		Age:        parseNumber(s.cell(row, FieldAge)),
		Gender:     s.cell(row, FieldGender),
		Phone:      s.cell(row, FieldPhone),
		Address:    s.cell(row, FieldAddress),
		Weight:     parseNumber(s.cell(row, FieldWeight)),
		Hemoglobin: parseNumber(s.cell(row, FieldHemoglobin)),
		BloodGroup: domain.NormalizeBloodGroup(s.cell(row, FieldBloodGroup)),
	}
	if s.HasEmail {
		if email := strings.TrimSpace(s.cell(row, FieldEmail)); email != "" {
			d.Email = &email
		}
	}
	return d
}

// parseNumber is best effort: anything unparsable or non-finite is a
// missing value.
func parseNumber(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (r *donorSheetRepository) Append(ctx context.Context, row domain.RegistrationRow) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := r.openOrCreate()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}

	var header []string
	if len(rows) == 0 {
		header = append(header, LegacyHeader...)
		if err := writeRow(f, sheet, 1, 0, header); err != nil {
			return 0, err
		}
		rows = [][]string{header}
	} else {
		header = rows[0]
	}

	sno := len(rows)
	rowNum := len(rows) + 1
	values := []any{
		sno, row.Name, row.Age, row.Gender, row.Phone,
		row.Email, row.BloodGroup, row.Area, row.Weight, row.Hemoglobin,
	}
	for i, key := range LegacyHeader {
		col := indexOf(header, key)
		if col < 0 {
			header = append(header, key)
			col = len(header) - 1
			if err := setCell(f, sheet, col+1, 1, key); err != nil {
				return 0, err
			}
		}
		if err := setCell(f, sheet, col+1, rowNum, values[i]); err != nil {
			return 0, err
		}
	}

	if err := r.save(f); err != nil {
		return 0, err
	}
	return sno, nil
}

func (r *donorSheetRepository) openOrCreate() (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	return excelize.NewFile(), nil
}

// save rewrites the whole workbook through a temp file and a rename.
func (r *donorSheetRepository) save(f *excelize.File) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrStoreUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".donors-*.xlsx")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write workbook: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync workbook: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close workbook: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStoreUnavailable, r.path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum, startCol int, values []string) error {
	for i, v := range values {
		if err := setCell(f, sheet, startCol+i+1, rowNum, v); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
