package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"delivery-advisor/internal/domain/order"
	"delivery-advisor/internal/repository"
)

type fakeOrderStore struct {
	saved  []*order.Order
	orders []order.Order
	err    error
}

func (f *fakeOrderStore) SaveOrder(_ context.Context, o *order.Order) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, o)
	return nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context, _ string, limit, offset int) ([]order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.orders) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.orders) {
		end = len(f.orders)
	}
	return f.orders[offset:end], nil
}

type fakeKeywordStore struct {
	keywords []repository.Keyword
	listErr  error
	notFound bool
}

func (f *fakeKeywordStore) ListKeywords(_ context.Context) ([]repository.Keyword, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keywords, nil
}

func (f *fakeKeywordStore) AddKeyword(_ context.Context, keyword string, note *string) (uuid.UUID, error) {
	f.keywords = append(f.keywords, repository.Keyword{ID: uuid.New(), Keyword: keyword, Note: note})
	return f.keywords[len(f.keywords)-1].ID, nil
}

func (f *fakeKeywordStore) DeleteKeyword(_ context.Context, _ uuid.UUID) error {
	if f.notFound {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type fakeRoutes struct {
	km    float64
	min   float64
	err   error
	calls int
}

func (f *fakeRoutes) DistanceDuration(_ context.Context, _, _ string) (float64, float64, error) {
	f.calls++
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.km, f.min, nil
}

func newTestService(store *fakeOrderStore, keywords *fakeKeywordStore, routes *fakeRoutes) *OrderService {
	return NewOrderService(store, keywords, nil, routes, nil, nil, zerolog.Nop())
}

const pandaBlob = `foodpanda
$120.50
(O)
桃園市中壢區中正路330號
備註 無
送餐資訊
桃園市平鎮區環南路二段77號`

func TestAnalyzeTextFullPipeline(t *testing.T) {
	store := &fakeOrderStore{}
	keywords := &fakeKeywordStore{keywords: []repository.Keyword{{Keyword: "環南路"}}}
	routes := &fakeRoutes{km: 4.2, min: 12.0}
	svc := newTestService(store, keywords, routes)

	o, report, err := svc.AnalyzeText(context.Background(), pandaBlob, nil, nil)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}

	if o.Platform != order.PlatformFoodpanda {
		t.Errorf("platform = %q, want Foodpanda", o.Platform)
	}
	if o.Amount != 120.5 {
		t.Errorf("amount = %v, want 120.5", o.Amount)
	}
	if o.PickupAddress != "桃園市中壢區中正路330號" {
		t.Errorf("pickup = %q", o.PickupAddress)
	}
	if o.DropoffAddress != "桃園市平鎮區環南路二段77號" {
		t.Errorf("dropoff = %q", o.DropoffAddress)
	}
	if o.DistanceKm != 4.2 || o.DurationMin != 12.0 {
		t.Errorf("route = (%v, %v), want (4.2, 12)", o.DistanceKm, o.DurationMin)
	}
	if o.BlacklistVerdict != "命中：環南路" {
		t.Errorf("verdict = %q", o.BlacklistVerdict)
	}
	if o.Suggestion != "收益良好，建議接單" {
		t.Errorf("suggestion = %q", o.Suggestion)
	}
	if !strings.Contains(report, "【建議】：收益良好，建議接單") {
		t.Errorf("report missing suggestion line:\n%s", report)
	}
	if len(store.saved) != 1 || store.saved[0].ID != o.ID {
		t.Errorf("order was not persisted")
	}
}

func TestAnalyzeTextEmptyInput(t *testing.T) {
	svc := newTestService(&fakeOrderStore{}, &fakeKeywordStore{}, &fakeRoutes{})

	_, _, err := svc.AnalyzeText(context.Background(), "   \n ", nil, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAnalyzeTextRouteLookupFailure(t *testing.T) {
	store := &fakeOrderStore{}
	routes := &fakeRoutes{err: errors.New("matrix unavailable")}
	svc := newTestService(store, &fakeKeywordStore{}, routes)

	o, _, err := svc.AnalyzeText(context.Background(), pandaBlob, nil, nil)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if o.DistanceKm != 0 || o.DurationMin != 0 {
		t.Errorf("route = (%v, %v), want (0, 0)", o.DistanceKm, o.DurationMin)
	}
	if o.Suggestion != "資訊不足（地址或距離未取到），請再確認後判斷" {
		t.Errorf("suggestion = %q", o.Suggestion)
	}
	if len(store.saved) != 1 {
		t.Errorf("order should still be persisted on lookup failure")
	}
}

func TestAnalyzeTextRouteOverride(t *testing.T) {
	routes := &fakeRoutes{km: 4.2, min: 12.0}
	svc := newTestService(&fakeOrderStore{}, &fakeKeywordStore{}, routes)

	dist, dur := 8.5, 21.0
	o, _, err := svc.AnalyzeText(context.Background(), pandaBlob, &dist, &dur)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if o.DistanceKm != 8.5 || o.DurationMin != 21.0 {
		t.Errorf("route = (%v, %v), want override (8.5, 21)", o.DistanceKm, o.DurationMin)
	}
	if routes.calls != 0 {
		t.Errorf("route lookup called %d times despite override", routes.calls)
	}
}

func TestAnalyzeTextSkipsRouteForSuspectedDuplicate(t *testing.T) {
	routes := &fakeRoutes{km: 4.2, min: 12.0}
	svc := newTestService(&fakeOrderStore{}, &fakeKeywordStore{}, routes)

	text := "(O)\n桃園市蘆竹區南崁路133號\n送餐資訊\n桃園市蘆竹區南崁路133號"
	o, _, err := svc.AnalyzeText(context.Background(), text, nil, nil)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if routes.calls != 0 {
		t.Errorf("route lookup called %d times for unresolvable pickup", routes.calls)
	}
	if o.PickupAddress != "辨識中/無法擷取(疑同送達)" {
		t.Errorf("pickup = %q", o.PickupAddress)
	}
	if o.DistanceKm != 0 {
		t.Errorf("distance = %v, want 0", o.DistanceKm)
	}
}

func TestAnalyzeTextBlacklistMiss(t *testing.T) {
	svc := newTestService(&fakeOrderStore{}, &fakeKeywordStore{keywords: []repository.Keyword{{Keyword: "地下室"}}}, &fakeRoutes{km: 4.2, min: 12.0})

	o, _, err := svc.AnalyzeText(context.Background(), pandaBlob, nil, nil)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if o.BlacklistVerdict != "未命中" {
		t.Errorf("verdict = %q, want 未命中", o.BlacklistVerdict)
	}
}

func TestAnalyzeTextBlacklistStoreFailure(t *testing.T) {
	keywords := &fakeKeywordStore{listErr: errors.New("db down")}
	svc := newTestService(&fakeOrderStore{}, keywords, &fakeRoutes{km: 4.2, min: 12.0})

	o, _, err := svc.AnalyzeText(context.Background(), pandaBlob, nil, nil)
	if err != nil {
		t.Fatalf("AnalyzeText() error = %v", err)
	}
	if o.BlacklistVerdict != "檢查失敗" {
		t.Errorf("verdict = %q, want 檢查失敗", o.BlacklistVerdict)
	}
}

func TestAddBlacklistKeywordEmpty(t *testing.T) {
	svc := newTestService(&fakeOrderStore{}, &fakeKeywordStore{}, &fakeRoutes{})

	_, err := svc.AddBlacklistKeyword(context.Background(), "   ", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRemoveBlacklistKeywordNotFound(t *testing.T) {
	svc := newTestService(&fakeOrderStore{}, &fakeKeywordStore{notFound: true}, &fakeRoutes{})

	err := svc.RemoveBlacklistKeyword(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestExportOrders(t *testing.T) {
	store := &fakeOrderStore{orders: []order.Order{
		{
			ID:               uuid.New(),
			Platform:         order.PlatformFoodpanda,
			Amount:           120.5,
			PickupAddress:    "桃園市中壢區中正路330號",
			DropoffAddress:   "桃園市平鎮區環南路二段77號",
			DistanceKm:       4.2,
			DurationMin:      12.0,
			EarningsPerKm:    28.69,
			Suggestion:       "收益良好，建議接單",
			BlacklistVerdict: "未命中",
			CreatedAt:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:               uuid.New(),
			Platform:         order.PlatformUberEats,
			Amount:           68,
			PickupAddress:    "台北市中正區忠孝東路100號",
			DropoffAddress:   "辨識中/無法擷取",
			Suggestion:       "資訊不足（地址或距離未取到），請再確認後判斷",
			BlacklistVerdict: "未命中",
			CreatedAt:        time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(store, &fakeKeywordStore{}, &fakeRoutes{})

	f, err := svc.ExportOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("ExportOrders() error = %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)

	header, err := f.GetCellValue(sheet, "B1")
	if err != nil || header != "平台" {
		t.Errorf("B1 = %q, %v, want 平台", header, err)
	}
	platform, err := f.GetCellValue(sheet, "B2")
	if err != nil || platform != "Foodpanda" {
		t.Errorf("B2 = %q, %v, want Foodpanda", platform, err)
	}
	pickup, err := f.GetCellValue(sheet, "D3")
	if err != nil || pickup != "台北市中正區忠孝東路100號" {
		t.Errorf("D3 = %q, %v", pickup, err)
	}
	if empty, _ := f.GetCellValue(sheet, "A4"); empty != "" {
		t.Errorf("A4 = %q, want empty", empty)
	}
}
