package csvio

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern matches the address format accepted for imports.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError describes a single failed check on a single row.
type ValidationError struct {
	// Row is the reported row number: the 1-based data row plus a header
	// offset of 2, so the first data row reports as 3.
	Row int `json:"row"`
	// Field is the offending column name.
	Field string `json:"field"`
	// Message describes the failed check.
	Message string `json:"error"`
	// Value is the rejected raw value.
	Value string `json:"value"`
}

// FieldRule describes the checks and normalization applied to one column.
type FieldRule struct {
	// Name is the column name (lower-case).
	Name string
	// Required rejects rows where the value is empty.
	Required bool
	// Pattern, when set, must match the value. PatternDesc names the
	// expected format in error messages (e.g. "email address").
	Pattern     *regexp.Regexp
	PatternDesc string
	// Enum, when non-empty, restricts the value to the listed members
	// (compared upper-cased). Accepted values are normalized upper-case.
	Enum []string
	// Lower normalizes the accepted value to lower case (e.g. emails).
	Lower bool
	// Bool coerces the value to "true"/"false"; "0", "false", "no" and the
	// empty string all normalize to "false".
	Bool bool
}

// Schema is an ordered set of field rules.
type Schema struct {
	Fields []FieldRule
}

// RequiredColumns returns the names of all required fields.
func (s Schema) RequiredColumns() []string {
	var cols []string
	for _, f := range s.Fields {
		if f.Required {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// Validate checks every row against the schema. Rows passing all checks are
// returned normalized; each failing row is excluded from the result and its
// failures are recorded. Row errors never abort validation of later rows.
func Validate(rows []Row, schema Schema) (valid []Row, errs []ValidationError) {
	valid = []Row{}
	errs = []ValidationError{}

	for i, row := range rows {
		// 1-based data row plus the header offset of 2
		lineNo := i + 3

		normalized := make(Row, len(row))
		for k, v := range row {
			normalized[k] = v
		}

		rowOK := true
		for _, rule := range schema.Fields {
			value := strings.TrimSpace(row[rule.Name])

			if value == "" {
				if rule.Required {
					rowOK = false
					errs = append(errs, ValidationError{
						Row:     lineNo,
						Field:   rule.Name,
						Message: fmt.Sprintf("%s is required", rule.Name),
					})
				} else if rule.Bool {
					normalized[rule.Name] = "false"
				}
				continue
			}

			if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
				rowOK = false
				desc := rule.PatternDesc
				if desc == "" {
					desc = "expected format"
				}
				errs = append(errs, ValidationError{
					Row:     lineNo,
					Field:   rule.Name,
					Message: fmt.Sprintf("invalid %s", desc),
					Value:   value,
				})
				continue
			}

			if len(rule.Enum) > 0 {
				upper := strings.ToUpper(value)
				found := false
				for _, member := range rule.Enum {
					if upper == strings.ToUpper(member) {
						found = true
						break
					}
				}
				if !found {
					rowOK = false
					errs = append(errs, ValidationError{
						Row:     lineNo,
						Field:   rule.Name,
						Message: fmt.Sprintf("%s must be one of %s", rule.Name, strings.Join(rule.Enum, ", ")),
						Value:   value,
					})
					continue
				}
				normalized[rule.Name] = upper
				continue
			}

			switch {
			case rule.Lower:
				normalized[rule.Name] = strings.ToLower(value)
			case rule.Bool:
				normalized[rule.Name] = normalizeBool(value)
			default:
				normalized[rule.Name] = value
			}
		}

		if rowOK {
			valid = append(valid, normalized)
		}
	}

	return valid, errs
}

// normalizeBool maps the accepted falsy spellings to "false", everything
// else to "true".
func normalizeBool(value string) string {
	switch strings.ToLower(value) {
	case "0", "false", "no":
		return "false"
	default:
		return "true"
	}
}
