package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type askRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type insightsResponse struct {
	Insights []models.Insight `json:"insights"`
}

// validationDetails flattens validator errors into "field: rule" strings.
func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		detail := fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			detail += "=" + fe.Param()
		}
		details = append(details, strings.TrimPrefix(detail, "OptimizeRequest."))
	}

	return details
}
