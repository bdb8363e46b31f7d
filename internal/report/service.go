package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Invoices invoicedomain.Service
	Branches branchdomain.Service
}

type Service struct {
	log      *zap.Logger
	invoices invoicedomain.Service
	branches branchdomain.Service
}

func NewService(p Params) *Service {
	return &Service{
		log:      p.Log.Named("report.service"),
		invoices: p.Invoices,
		branches: p.Branches,
	}
}

// Competencia renders the grouped view for req in the requested format.
func (s *Service) Competencia(ctx context.Context, req invoicedomain.GroupedRequest, f Format) (*Document, error) {
	if f != FormatPDF && f != FormatXLSX {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}

	grouped, err := s.invoices.Grouped(ctx, req)
	if err != nil {
		return nil, err
	}

	var branchName string
	if strings.TrimSpace(req.BranchID) != "" {
		branch, err := s.branches.GetByID(ctx, req.BranchID)
		if err != nil {
			if errors.Is(err, branchdomain.ErrNotFound) || errors.Is(err, branchdomain.ErrInvalidID) {
				return nil, fmt.Errorf("%w: branch %s does not exist", invoicedomain.ErrInvalidBranchID, req.BranchID)
			}
			return nil, err
		}
		branchName = branch.Name
	}

	data := newData(branchName, req.Month, req.Year, grouped.Groups)
	var body []byte
	switch f {
	case FormatPDF:
		body, err = renderPDF(data)
	case FormatXLSX:
		body, err = renderXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", f, err)
	}

	s.log.Info("report rendered",
		zap.String("format", string(f)),
		zap.Int("suppliers", len(grouped.Groups)),
		zap.Int("invoices", len(grouped.Invoices)),
	)
	return &Document{
		FileName:    FileName(branchName, req.Month, req.Year, f),
		ContentType: f.ContentType(),
		Body:        body,
	}, nil
}
