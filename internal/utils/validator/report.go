package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MoSmadi/SSRS-Report-Generator-BE/internal/models"
	"github.com/MoSmadi/SSRS-Report-Generator-BE/pkg/logger"
)

// ReportValidator checks publish requests before anything touches the
// report server. It guards the catalog path grammar and the names that
// end up inside the generated document.
type ReportValidator struct {
	logger logger.Logger
	config *ValidatorConfig
}

// ValidatorConfig bounds the accepted publish inputs.
type ValidatorConfig struct {
	MaxTitleLength  int
	MaxColumnCount  int
	MaxParamCount   int
	AllowedSortDirs []string
}

// ValidationResult is the outcome of a publish validation pass.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError names one rejected field.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

var (
	// Catalog item names may not contain the characters SSRS reserves.
	reservedNameChars = regexp.MustCompile(`[;?:@&=+$,\\*><|."/]`)
	identifierRe      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_ ]*$`)
	paramNameRe       = regexp.MustCompile(`^@?[A-Za-z_][A-Za-z0-9_]*$`)
)

// NewReportValidator creates a validator with sane defaults when no
// config is given.
func NewReportValidator(log logger.Logger, config *ValidatorConfig) *ReportValidator {
	if config == nil {
		config = &ValidatorConfig{
			MaxTitleLength:  128,
			MaxColumnCount:  64,
			MaxParamCount:   32,
			AllowedSortDirs: []string{"asc", "desc"},
		}
	}
	return &ReportValidator{logger: log, config: config}
}

// ValidatePublish checks every caller-supplied name in a publish request.
func (v *ReportValidator) ValidatePublish(in models.PublishIn) ValidationResult {
	var errs []ValidationError

	title := strings.TrimSpace(in.Report.Title)
	switch {
	case title == "":
		errs = append(errs, ValidationError{
			Code: "empty_title", Message: "Report title is required", Field: "report.title",
		})
	case len(title) > v.config.MaxTitleLength:
		errs = append(errs, ValidationError{
			Code:    "title_too_long",
			Message: fmt.Sprintf("Report title exceeds %d characters", v.config.MaxTitleLength),
			Field:   "report.title",
		})
	case reservedNameChars.MatchString(title):
		errs = append(errs, ValidationError{
			Code: "invalid_title", Message: "Report title contains reserved characters", Field: "report.title",
		})
	}

	if in.Report.Folder != "" && !strings.HasPrefix(in.Report.Folder, "/") {
		errs = append(errs, ValidationError{
			Code: "invalid_folder", Message: "Folder path must start with /", Field: "report.folder",
		})
	}

	if len(in.Columns) > v.config.MaxColumnCount {
		errs = append(errs, ValidationError{
			Code:    "too_many_columns",
			Message: fmt.Sprintf("At most %d columns are supported", v.config.MaxColumnCount),
			Field:   "columns",
		})
	}
	for i, col := range in.Columns {
		if !identifierRe.MatchString(col.Name) {
			errs = append(errs, ValidationError{
				Code:    "invalid_column_name",
				Message: fmt.Sprintf("Column name %q is not a valid identifier", col.Name),
				Field:   fmt.Sprintf("columns[%d].name", i),
			})
		}
	}

	if len(in.Parameters) > v.config.MaxParamCount {
		errs = append(errs, ValidationError{
			Code:    "too_many_params",
			Message: fmt.Sprintf("At most %d parameters are supported", v.config.MaxParamCount),
			Field:   "parameters",
		})
	}
	for i, param := range in.Parameters {
		if !paramNameRe.MatchString(param.Name) {
			errs = append(errs, ValidationError{
				Code:    "invalid_param_name",
				Message: fmt.Sprintf("Parameter name %q is not a valid identifier", param.Name),
				Field:   fmt.Sprintf("parameters[%d].name", i),
			})
		}
	}

	for i, sort := range in.Sort {
		if sort.Dir != "" && !v.sortDirAllowed(sort.Dir) {
			errs = append(errs, ValidationError{
				Code:    "invalid_sort_dir",
				Message: fmt.Sprintf("Sort direction %q is not supported", sort.Dir),
				Field:   fmt.Sprintf("sort[%d].dir", i),
			})
		}
	}

	result := ValidationResult{IsValid: len(errs) == 0, Errors: errs}
	if !result.IsValid {
		v.logger.Warn("publish request rejected",
			logger.String("title", in.Report.Title),
			logger.Int("errors", len(errs)),
		)
	}
	return result
}

func (v *ReportValidator) sortDirAllowed(dir string) bool {
	for _, allowed := range v.config.AllowedSortDirs {
		if strings.EqualFold(dir, allowed) {
			return true
		}
	}
	return false
}
