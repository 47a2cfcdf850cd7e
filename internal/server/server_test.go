package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rgtechno/tallybridge/internal/invoice"
	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/notify"
	"github.com/rgtechno/tallybridge/internal/repository"
	"github.com/rgtechno/tallybridge/internal/storage"
	syncpkg "github.com/rgtechno/tallybridge/internal/sync"
	"github.com/rgtechno/tallybridge/internal/tally"
)

const itemsResponse = `<ENVELOPE>
<STOCKITEM><ITEMNAME>Hex Bolt M8</ITEMNAME><SELLINGPRICE>12.50</SELLINGPRICE></STOCKITEM>
</ENVELOPE>`

// testServer stands up the full HTTP surface over sqlite and a fake remote.
func testServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(itemsResponse))
	}))
	t.Cleanup(remote.Close)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Item{}, &models.StockLevel{}, &models.Vendor{},
		&models.OutstandingLedger{}, &models.Bill{},
		&models.LedgerStatement{}, &models.LedgerVoucher{},
		&models.Order{}, &models.OrderItem{}, &models.PendingInvoice{},
		&models.SyncControlSetting{}, &models.LedgerNameSetting{}, &models.SyncLog{},
	))

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	client := tally.NewClient(remote.URL, nil, log)
	syncControl := repository.NewSyncControlRepository(db)
	syncLogs := repository.NewSyncLogRepository(db)
	outstandings := repository.NewOutstandingRepository(db)
	statements := repository.NewStatementRepository(db)
	orders := repository.NewOrderRepository(db)
	invoices := repository.NewInvoiceRepository(db)
	ledgerNames := repository.NewLedgerNameRepository(db)

	gate := syncpkg.NewGate(syncControl)
	engine := syncpkg.NewEngine(gate, syncLogs, log)
	syncs := syncpkg.NewService(engine, client,
		repository.NewItemRepository(db),
		repository.NewStockLevelRepository(db),
		repository.NewVendorRepository(db),
		outstandings,
		statements,
	)

	pipeline := invoice.NewPipeline(orders, invoices, ledgerNames, client, storage.Noop{}, notify.Noop{}, "Karnataka", "", log)
	orderSvc := invoice.NewOrderService(orders, pipeline, log)
	retrier := invoice.NewRetrier(invoices, syncLogs, gate, client, notify.Noop{}, log)

	srv := New(syncs, retrier, orderSvc, syncLogs, syncControl, ledgerNames, outstandings, statements, log)
	return srv.Router(), db
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _ := testServer(t)
	rec := do(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerSyncDisabledModule(t *testing.T) {
	router, _ := testServer(t)
	rec := do(t, router, http.MethodPost, "/sync/Products", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerSyncUnknownModule(t *testing.T) {
	router, _ := testServer(t)
	rec := do(t, router, http.MethodPost, "/sync/Nonsense", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTriggerSyncRunsAndReports(t *testing.T) {
	router, db := testServer(t)
	require.NoError(t, repository.NewSyncControlRepository(db).Upsert(context.Background(), models.SyncControlSetting{
		ModuleName:          models.ModuleProducts,
		IsManualSyncEnabled: true,
	}))

	rec := do(t, router, http.MethodPost, "/sync/Products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report syncpkg.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, models.ModuleProducts, report.Module)
	require.Equal(t, 1, report.New)

	var count int64
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestRetryEndpointRequiresUser(t *testing.T) {
	router, _ := testServer(t)
	rec := do(t, router, http.MethodPost, "/invoices/retry", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRetryEndpointUpToDate(t *testing.T) {
	router, db := testServer(t)
	require.NoError(t, repository.NewSyncControlRepository(db).Upsert(context.Background(), models.SyncControlSetting{
		ModuleName:          models.ModuleOrders,
		IsManualSyncEnabled: true,
	}))

	rec := do(t, router, http.MethodPost, "/invoices/retry", `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result invoice.RetryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, invoice.RetrySuccess, result.Status)
}

func TestSyncControlRoundTrip(t *testing.T) {
	router, _ := testServer(t)

	rec := do(t, router, http.MethodPut, "/settings/sync-control",
		`{"module_name":"Products","is_manual_sync_enabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/settings/sync-control", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var settings []models.SyncControlSetting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	require.Len(t, settings, 1)
	require.True(t, settings[0].IsManualSyncEnabled)
	require.False(t, settings[0].IsAutoSyncEnabled)
}

func TestLedgerNameRoundTrip(t *testing.T) {
	router, _ := testServer(t)

	rec := do(t, router, http.MethodPut, "/settings/ledger-names",
		`{"name":"Sales","value":"Domestic Sales"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/settings/ledger-names", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var settings []models.LedgerNameSetting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	require.Len(t, settings, 1)
	require.Equal(t, "Domestic Sales", settings[0].Value)
}

func TestOrderCreateAndFetch(t *testing.T) {
	router, _ := testServer(t)

	body := `{"user_id":"u1","customer_name":"Globex Retail","ship_state":"Karnataka",
		"total_price":1000,"items":[{"item_name":"Hex Bolt M8","quantity":40,"selling_price":12.5}]}`
	rec := do(t, router, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.NotEmpty(t, order.ID)
	require.Contains(t, order.OrderNo, "-0001")

	rec = do(t, router, http.MethodGet, "/orders/"+order.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/orders?user_id=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/orders/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOutstandingLookup(t *testing.T) {
	router, db := testServer(t)
	require.NoError(t, repository.NewOutstandingRepository(db).InsertBatch(context.Background(), []models.OutstandingLedger{
		{CustomerName: "Globex Retail", ClosingBalance: 500},
	}))

	rec := do(t, router, http.MethodGet, "/outstandings/Globex%20Retail", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/outstandings/Unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
