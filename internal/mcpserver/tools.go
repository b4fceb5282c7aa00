package mcpserver

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sprouthq/sprout/pkg/age"
	"github.com/sprouthq/sprout/pkg/lms"
	"github.com/sprouthq/sprout/pkg/reference"
)

// PercentileInput requests one percentile computation.
type PercentileInput struct {
	Sex         string  `json:"sex" jsonschema:"Child sex: male or female."`
	Measurement string  `json:"measurement" jsonschema:"Measurement type: height or weight."`
	Value       float64 `json:"value" jsonschema:"Measured value: centimeters for height, kilograms for weight."`
	AgeMonths   *int    `json:"age_months,omitempty" jsonschema:"Age in whole months. Either this or birth_date is required."`
	BirthDate   string  `json:"birth_date,omitempty" jsonschema:"Birth date as YYYY-MM-DD, used to derive age_months when not given."`
}

// PercentileOutput is the computed result.
type PercentileOutput struct {
	AgeMonths  int     `json:"age_months"`
	Percentile float64 `json:"percentile"`
	ZScore     float64 `json:"z_score"`
}

// AgeInput requests an age computation.
type AgeInput struct {
	BirthDate string `json:"birth_date" jsonschema:"Birth date as YYYY-MM-DD."`
	On        string `json:"on,omitempty" jsonschema:"Reference date as YYYY-MM-DD. Defaults to today."`
}

// AgeOutput is the computed age.
type AgeOutput struct {
	AgeMonths int `json:"age_months"`
}

// CoverageInput selects one reference series.
type CoverageInput struct {
	Sex         string `json:"sex" jsonschema:"Child sex: male or female."`
	Measurement string `json:"measurement" jsonschema:"Measurement type: height or weight."`
}

// CoverageOutput reports a series' populated age range.
type CoverageOutput struct {
	MinAgeMonths int `json:"min_age_months"`
	MaxAgeMonths int `json:"max_age_months"`
	Buckets      int `json:"buckets"`
}

func (s *Server) handlePercentile(_ context.Context, _ *mcp.CallToolRequest, input PercentileInput) (*mcp.CallToolResult, any, error) {
	sex, err := reference.ParseSex(input.Sex)
	if err != nil {
		return toolError(err.Error())
	}
	measurement, err := reference.ParseMeasurement(input.Measurement)
	if err != nil {
		return toolError(err.Error())
	}

	var months int
	switch {
	case input.AgeMonths != nil:
		months = *input.AgeMonths
	case input.BirthDate != "":
		birth, err := age.ParseDate(input.BirthDate)
		if err != nil {
			return toolError(err.Error())
		}
		months = age.Months(birth, time.Now())
	default:
		return toolError("either age_months or birth_date is required")
	}

	pct, err := s.engine.Percentile(sex, measurement, months, input.Value)
	if err != nil {
		var notFound *lms.NotFoundError
		if errors.As(err, &notFound) {
			return toolError(notFound.Error())
		}
		return toolError(err.Error())
	}
	z, err := s.engine.ZScore(sex, measurement, months, input.Value)
	if err != nil {
		return toolError(err.Error())
	}

	return nil, PercentileOutput{
		AgeMonths:  months,
		Percentile: pct,
		ZScore:     z,
	}, nil
}

func (s *Server) handleAge(_ context.Context, _ *mcp.CallToolRequest, input AgeInput) (*mcp.CallToolResult, any, error) {
	birth, err := age.ParseDate(input.BirthDate)
	if err != nil {
		return toolError(err.Error())
	}
	on := time.Now()
	if input.On != "" {
		on, err = age.ParseDate(input.On)
		if err != nil {
			return toolError(err.Error())
		}
	}
	return nil, AgeOutput{AgeMonths: age.Months(birth, on)}, nil
}

func (s *Server) handleCoverage(_ context.Context, _ *mcp.CallToolRequest, input CoverageInput) (*mcp.CallToolResult, any, error) {
	sex, err := reference.ParseSex(input.Sex)
	if err != nil {
		return toolError(err.Error())
	}
	measurement, err := reference.ParseMeasurement(input.Measurement)
	if err != nil {
		return toolError(err.Error())
	}
	minAge, maxAge, ok := s.table.AgeRange(sex, measurement)
	if !ok {
		return toolError("no rows loaded for this sex and measurement")
	}
	return nil, CoverageOutput{
		MinAgeMonths: minAge,
		MaxAgeMonths: maxAge,
		Buckets:      int(s.table.Coverage(sex, measurement).GetCardinality()),
	}, nil
}
