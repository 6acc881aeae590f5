package repository

import (
	"strings"

	"donor-finder/internal/domain"
)

const (
	FieldName       = "name"
	FieldAge        = "age"
	FieldGender     = "gender"
	FieldPhone      = "phone"
	FieldAddress    = "address"
	FieldWeight     = "weight"
	FieldHemoglobin = "hemoglobin"
	FieldBloodGroup = "blood_group"
	FieldEmail      = "email"
)

// RequiredFields is the canonical order used in error reports.
var RequiredFields = []string{
	FieldName,
	FieldAge,
	FieldGender,
	FieldPhone,
	FieldAddress,
	FieldWeight,
	FieldHemoglobin,
	FieldBloodGroup,
}

// ColumnAliases lists accepted normalized header spellings per field.
// The first alias present in a sheet wins.
var ColumnAliases = map[string][]string{
	FieldName:       {"name", "full_name", "donor_name"},
	FieldAge:        {"age"},
	FieldGender:     {"gender", "sex"},
	FieldPhone:      {"phone", "phone_number", "mobile", "mobile_number", "contact"},
	FieldAddress:    {"address", "street_address", "location", "area"},
	FieldWeight:     {"weight", "body_weight", "weight_(kg)"},
	FieldHemoglobin: {"hemoglobin", "hb", "hemoglobin_g_dl", "hemoglobin_(g/dl)"},
	FieldBloodGroup: {"blood_group", "bloodtype", "blood_type", "group"},
	FieldEmail:      {"email", "email_id", "mail"},
}

// Schema binds canonical fields to column indexes of a sheet.
type Schema struct {
	Columns  map[string]int
	Headers  []string
	HasEmail bool
}

func (s Schema) cell(row []string, field string) string {
	idx, ok := s.Columns[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func NormalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// ResolveSchema maps raw sheet headers onto the canonical donor fields.
func ResolveSchema(headers []string) (Schema, error) {
	normalized := make([]string, len(headers))
	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
		if _, exists := positions[normalized[i]]; !exists {
			positions[normalized[i]] = i
		}
	}

	schema := Schema{Columns: make(map[string]int), Headers: normalized}
	for field, aliases := range ColumnAliases {
		for _, alias := range aliases {
			if idx, ok := positions[alias]; ok {
				schema.Columns[field] = idx
				break
			}
		}
	}

	var missing []string
	for _, field := range RequiredFields {
		if _, ok := schema.Columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Schema{}, &domain.SchemaError{Missing: missing, Available: normalized}
	}

	_, schema.HasEmail = schema.Columns[FieldEmail]
	return schema, nil
}
