package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"vihorki/internal/config"
	"vihorki/internal/metrics"
	"vihorki/internal/records"
	"vihorki/internal/reports"
	"vihorki/internal/timeframe"
)

const (
	errInvalidRequest = "Invalid request"

	defaultBaselineVersion   = "v1.0.0"
	defaultComparisonVersion = "v2.0.0"
)

// PeriodParams carries one period's bounds as RFC3339 strings.
type PeriodParams struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CompareMetricsParams is the request body for a comparison run. All fields
// are optional: omitted periods default to the last seven days versus the
// seven days before that.
type CompareMetricsParams struct {
	Baseline          PeriodParams `json:"baseline"`
	Comparison        PeriodParams `json:"comparison"`
	BaselineVersion   string       `json:"baseline_version"`
	ComparisonVersion string       `json:"comparison_version"`
	TargetURLs        []string     `json:"target_urls"`
	Force             bool         `json:"force"`
}

// CompareMetricsAction aggregates two release periods into a MetricsPayload,
// persisting the result so identical re-runs are served from storage.
func CompareMetricsAction(ctx *cartridge.Context) error {
	var params CompareMetricsParams
	if len(ctx.Body()) > 0 {
		if err := ctx.Ctx.BodyParser(&params); err != nil {
			ctx.Logger.Debug("Failed to parse compare request", slog.Any("error", err))
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": errInvalidRequest})
		}
	}

	defaultBaseline, defaultComparison := timeframe.DefaultComparisonPeriods(time.Now())

	baseline, err := timeframe.ParsePeriod(params.Baseline.Start, params.Baseline.End, defaultBaseline)
	if err != nil {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	comparison, err := timeframe.ParsePeriod(params.Comparison.Start, params.Comparison.End, defaultComparison)
	if err != nil {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	baselineVersion := params.BaselineVersion
	if baselineVersion == "" {
		baselineVersion = defaultBaselineVersion
	}
	comparisonVersion := params.ComparisonVersion
	if comparisonVersion == "" {
		comparisonVersion = defaultComparisonVersion
	}

	db := ctx.DBManager.GetConnection()
	periodKey := reports.PeriodKey(baseline.From, baseline.To, comparison.From, comparison.To, baselineVersion, comparisonVersion)

	// Serve the stored run for identical bounds unless a re-run is forced.
	if !params.Force {
		stored, err := reports.GetByPeriodKey(db, periodKey)
		if err != nil {
			ctx.Logger.Warn("Failed to look up stored report", slog.Any("error", err))
		} else if stored != nil {
			payload, err := stored.DecodePayload()
			if err == nil {
				ctx.Logger.Info("Serving stored comparison report", slog.Uint64("report_id", uint64(stored.ID)))
				return ctx.JSON(payload)
			}
			ctx.Logger.Warn("Stored report payload unreadable, re-aggregating", slog.Any("error", err))
		}
	}

	cfg := config.GetConfig()
	aggregator := metrics.NewAggregator(records.NewRepository(db), ctx.Logger)

	payload, err := aggregator.ComparePeriods(ctx.Ctx.UserContext(), metrics.CompareInput{
		BaselinePeriod:    baseline,
		ComparisonPeriod:  comparison,
		BaselineVersion:   baselineVersion,
		ComparisonVersion: comparisonVersion,
		ProjectName:       cfg.ProjectName,
		DataSource:        cfg.DataSourceTag,
		TargetURLs:        params.TargetURLs,
	})
	if err != nil {
		ctx.Logger.Error("Failed to aggregate comparison payload", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to aggregate metrics",
			"code":  "AGGREGATION_ERROR",
		})
	}

	if _, err := reports.Save(db, periodKey, payload); err != nil {
		// Persisting is best effort; the payload is still returned.
		ctx.Logger.Warn("Failed to persist comparison report", slog.Any("error", err))
	}

	return ctx.JSON(payload)
}
