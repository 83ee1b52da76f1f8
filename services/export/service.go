package export

import (
	"context"
	"log/slog"

	"sei-exporter/lib/scrapers/sei"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/export")

// Service walks both listings of the session's active unit and turns them
// into one flat record set.
type Service struct {
	client *sei.Client
}

func NewService(client *sei.Client) Service {
	return Service{client: client}
}

// Run collects Recebidos then Gerados and returns them merged, received
// first. Either category failing fails the whole run; partial results are
// discarded rather than exported.
func (s Service) Run(ctx context.Context) ([]sei.ProcessRecord, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	received, err := s.collectCategory(ctx, sei.CategoryReceived)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	generated, err := s.collectCategory(ctx, sei.CategoryGenerated)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return Merge(received, generated), nil
}

// collectCategory drains one category's pager. Duplicates within the
// category (the portal repeats rows around page boundaries sometimes) are
// dropped on their second appearance.
func (s Service) collectCategory(ctx context.Context, category sei.Category) ([]sei.ProcessRecord, error) {
	ctx, span := tracer.Start(ctx, "collectCategory")
	defer span.End()

	seen := map[string]bool{}
	var records []sei.ProcessRecord

	pager := s.client.Pages(category)
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if page == nil {
			break
		}

		for _, record := range page.Records {
			key := record.IdProcedimento
			if key == "" {
				key = record.NumeroProcesso
			}
			if seen[key] {
				slog.DebugContext(
					ctx, "dropping repeated record",
					"category", string(category),
					"numero_processo", record.NumeroProcesso,
				)
				continue
			}
			seen[key] = true
			records = append(records, record)
		}

		slog.DebugContext(
			ctx, "collected listing page",
			"category", string(category),
			"page", page.Index,
			"records", len(page.Records),
		)
	}

	slog.InfoContext(
		ctx, "collected category",
		"category", string(category),
		"records", len(records),
	)
	return records, nil
}

// Merge concatenates the two category slices in export order. A process that
// shows up in both categories stays as two distinct rows.
func Merge(received, generated []sei.ProcessRecord) []sei.ProcessRecord {
	merged := make([]sei.ProcessRecord, 0, len(received)+len(generated))
	merged = append(merged, received...)
	merged = append(merged, generated...)
	return merged
}
