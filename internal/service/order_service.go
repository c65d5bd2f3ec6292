package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"delivery-advisor/internal/analysis"
	"delivery-advisor/internal/domain/order"
	"delivery-advisor/internal/maps"
	"delivery-advisor/internal/postal"
	"delivery-advisor/internal/repository"
	"delivery-advisor/internal/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// TextRecognizer turns a screenshot into an OCR text blob.
type TextRecognizer interface {
	Text(image []byte) (string, error)
}

// RouteEstimator returns driving distance in km and duration in minutes
// between two addresses.
type RouteEstimator interface {
	DistanceDuration(ctx context.Context, origin, destination string) (float64, float64, error)
}

// SnapshotArchiver stores the original screenshot and returns its URL.
type SnapshotArchiver interface {
	Archive(ctx context.Context, orderID string, data []byte, contentType string) (string, error)
}

type OrderStore interface {
	SaveOrder(ctx context.Context, o *order.Order) error
	ListOrders(ctx context.Context, platform string, limit, offset int) ([]order.Order, error)
}

type KeywordStore interface {
	ListKeywords(ctx context.Context) ([]repository.Keyword, error)
	AddKeyword(ctx context.Context, keyword string, note *string) (uuid.UUID, error)
	DeleteKeyword(ctx context.Context, id uuid.UUID) error
}

type OrderService struct {
	orders     OrderStore
	keywords   KeywordStore
	recognizer TextRecognizer
	routes     RouteEstimator
	cleaner    *postal.Cleaner
	archiver   SnapshotArchiver
	log        zerolog.Logger
}

func NewOrderService(
	orders OrderStore,
	keywords KeywordStore,
	recognizer TextRecognizer,
	routes RouteEstimator,
	cleaner *postal.Cleaner,
	archiver SnapshotArchiver,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:     orders,
		keywords:   keywords,
		recognizer: recognizer,
		routes:     routes,
		cleaner:    cleaner,
		archiver:   archiver,
		log:        log,
	}
}

// AnalyzeImage runs the full pipeline on a screenshot: OCR, parsing,
// address cleanup, route lookup, blacklist check, report, persistence.
func (s *OrderService) AnalyzeImage(ctx context.Context, image []byte) (*order.Order, string, error) {
	if len(image) == 0 {
		return nil, "", fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	if s.recognizer == nil {
		return nil, "", errors.New("ocr engine is not available")
	}

	text, err := s.recognizer.Text(image)
	if err != nil {
		s.log.Error().Err(err).Int("image_size", len(image)).Msg("ocr failed")
		return nil, "", fmt.Errorf("ocr failed: %w", err)
	}

	return s.process(ctx, text, image, nil, nil)
}

// AnalyzeText runs the pipeline on an already-extracted OCR blob. Callers
// that measured the trip themselves may pass both distanceKm and
// durationMin to skip the route lookup.
func (s *OrderService) AnalyzeText(ctx context.Context, rawText string, distanceKm, durationMin *float64) (*order.Order, string, error) {
	return s.process(ctx, rawText, nil, distanceKm, durationMin)
}

func (s *OrderService) process(ctx context.Context, rawText string, snapshot []byte, distanceKm, durationMin *float64) (*order.Order, string, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, "", fmt.Errorf("%w: text is empty", ErrInvalidInput)
	}

	result := analysis.Analyze(rawText)

	pickup := s.cleanAddress(result.Pickup)
	dropoff := s.cleanAddress(result.Dropoff)

	dist, dur := s.resolveRoute(ctx, pickup, dropoff, distanceKm, durationMin)
	verdict := s.blacklistVerdict(ctx, rawText, pickup, dropoff)

	input := order.ReportInput{
		Platform:         result.Platform,
		Features:         result.Features,
		Amount:           result.Amount,
		Pickup:           pickup,
		Dropoff:          dropoff,
		DistanceKm:       dist,
		DurationMin:      dur,
		BlacklistVerdict: verdict,
	}
	report := analysis.BuildReport(input)

	o := &order.Order{
		ID:               uuid.New(),
		Platform:         result.Platform,
		Amount:           result.Amount,
		PickupAddress:    pickup.Display(),
		DropoffAddress:   dropoff.Display(),
		DistanceKm:       dist,
		DurationMin:      dur,
		EarningsPerKm:    analysis.EarningsPerKm(result.Amount, dist),
		Suggestion:       analysis.Suggest(result.Platform, result.Amount, dist, dur),
		BlacklistVerdict: verdict,
		Features:         result.Features,
		RawText:          rawText,
	}

	if len(snapshot) > 0 && s.archiver != nil {
		url, err := s.archiver.Archive(ctx, o.ID.String(), snapshot, http.DetectContentType(snapshot))
		if err != nil {
			if !errors.Is(err, storage.ErrNotConfigured) {
				s.log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("failed to archive screenshot")
			}
		} else {
			o.SnapshotURL = &url
		}
	}

	if err := s.orders.SaveOrder(ctx, o); err != nil {
		s.log.Error().Err(err).Str("platform", string(o.Platform)).Msg("failed to save order")
		return nil, "", fmt.Errorf("failed to save order: %w", err)
	}

	s.log.Info().
		Str("order_id", o.ID.String()).
		Str("platform", string(o.Platform)).
		Float64("amount", o.Amount).
		Float64("distance_km", o.DistanceKm).
		Float64("earnings_per_km", o.EarningsPerKm).
		Str("blacklist", o.BlacklistVerdict).
		Msg("processed delivery order")

	return o, report, nil
}

func (s *OrderService) cleanAddress(a order.Address) order.Address {
	if !a.IsResolved() || s.cleaner == nil {
		return a
	}
	return order.Resolved(s.cleaner.Clean(a.Value))
}

// resolveRoute returns (0, 0) whenever the trip cannot be measured: an
// unresolved endpoint, identical endpoints after cleanup, or a lookup
// failure. The report builder treats zero as "unknown", never as free.
func (s *OrderService) resolveRoute(ctx context.Context, pickup, dropoff order.Address, distanceKm, durationMin *float64) (float64, float64) {
	if distanceKm != nil && durationMin != nil {
		return *distanceKm, *durationMin
	}
	if !pickup.IsResolved() || !dropoff.IsResolved() {
		return 0, 0
	}
	if pickup.Value == dropoff.Value {
		return 0, 0
	}
	if s.routes == nil {
		return 0, 0
	}

	dist, dur, err := s.routes.DistanceDuration(ctx, pickup.Value, dropoff.Value)
	if err != nil {
		if !errors.Is(err, maps.ErrNotConfigured) {
			s.log.Warn().
				Err(err).
				Str("origin", pickup.Value).
				Str("destination", dropoff.Value).
				Msg("route lookup failed")
		}
		return 0, 0
	}
	return dist, dur
}

func (s *OrderService) blacklistVerdict(ctx context.Context, rawText string, pickup, dropoff order.Address) string {
	keywords, err := s.keywords.ListKeywords(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load blacklist keywords")
		return "檢查失敗"
	}

	haystack := rawText
	if pickup.IsResolved() {
		haystack += "\n" + pickup.Value
	}
	if dropoff.IsResolved() {
		haystack += "\n" + dropoff.Value
	}

	var hits []string
	for _, kw := range keywords {
		if kw.Keyword == "" {
			continue
		}
		if strings.Contains(haystack, kw.Keyword) {
			hits = append(hits, kw.Keyword)
		}
	}
	if len(hits) == 0 {
		return "未命中"
	}
	return "命中：" + strings.Join(hits, "、")
}

func (s *OrderService) ListOrders(ctx context.Context, platform string, limit, offset int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := s.orders.ListOrders(ctx, platform, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ExportOrders renders stored orders into an xlsx workbook, newest first.
func (s *OrderService) ExportOrders(ctx context.Context, platform string) (*excelize.File, error) {
	const page = 100

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []interface{}{
		"編號", "平台", "金額", "取餐地址", "送達地址",
		"距離(公里)", "耗時(分鐘)", "每公里收益", "建議", "黑名單", "建立時間",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	row := 2
	for offset := 0; ; offset += page {
		orders, err := s.orders.ListOrders(ctx, platform, page, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders for export: %w", err)
		}
		for _, o := range orders {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			values := []interface{}{
				o.ID.String(),
				string(o.Platform),
				o.Amount,
				o.PickupAddress,
				o.DropoffAddress,
				o.DistanceKm,
				o.DurationMin,
				o.EarningsPerKm,
				o.Suggestion,
				o.BlacklistVerdict,
				o.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, fmt.Errorf("write order row: %w", err)
			}
			row++
		}
		if len(orders) < page {
			break
		}
	}

	return f, nil
}

func (s *OrderService) ListBlacklist(ctx context.Context) ([]repository.Keyword, error) {
	keywords, err := s.keywords.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklist keywords: %w", err)
	}
	return keywords, nil
}

func (s *OrderService) AddBlacklistKeyword(ctx context.Context, keyword string, note *string) (uuid.UUID, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return uuid.Nil, fmt.Errorf("%w: keyword is required", ErrInvalidInput)
	}

	id, err := s.keywords.AddKeyword(ctx, keyword, note)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to add blacklist keyword: %w", err)
	}

	s.log.Info().Str("keyword", keyword).Str("keyword_id", id.String()).Msg("blacklist keyword added")
	return id, nil
}

func (s *OrderService) RemoveBlacklistKeyword(ctx context.Context, id uuid.UUID) error {
	if err := s.keywords.DeleteKeyword(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: keyword %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete blacklist keyword: %w", err)
	}
	s.log.Info().Str("keyword_id", id.String()).Msg("blacklist keyword removed")
	return nil
}
