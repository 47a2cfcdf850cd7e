package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rgtechno/tallybridge/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Item{},
		&models.StockLevel{},
		&models.Vendor{},
		&models.OutstandingLedger{},
		&models.Bill{},
		&models.LedgerStatement{},
		&models.LedgerVoucher{},
		&models.Order{},
		&models.OrderItem{},
		&models.PendingInvoice{},
		&models.SyncControlSetting{},
		&models.LedgerNameSetting{},
		&models.SyncLog{},
	))
	return db
}

func TestItemRepositoryUpsertKeyedByName(t *testing.T) {
	db := testDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []models.Item{
		{ItemName: "Hex Bolt M8", SellingPrice: 12.5},
	}))
	require.NoError(t, repo.UpsertBatch(ctx, []models.Item{
		{ItemName: "Hex Bolt M8", SellingPrice: 13.0},
	}))

	items, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 13.0, items[0].SellingPrice)
}

func TestItemRepositoryInsertIgnoresDuplicateKey(t *testing.T) {
	db := testDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertBatch(ctx, []models.Item{{ItemName: "Washer"}}))
	require.NoError(t, repo.InsertBatch(ctx, []models.Item{{ItemName: "Washer"}}))

	items, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestOutstandingUpsertAddsOnlyNewBills(t *testing.T) {
	db := testDB(t)
	repo := NewOutstandingRepository(db)
	ctx := context.Background()

	bill := models.Bill{
		TallyOrdID: "ORD-9", NxOrderID: "2025-0009", TallyInvNo: "INV-112",
		BillDate: "1-Apr-2025", OpeningBalance: 500, ClosingBalance: 500, CreditPeriod: "30",
	}
	require.NoError(t, repo.InsertBatch(ctx, []models.OutstandingLedger{{
		CustomerName: "Globex Retail",
		CreditLimit:  50000,
		Bills:        []models.Bill{bill},
	}}))

	// the remote resends the old bill with every run; only the new one lands
	newBill := bill
	newBill.TallyInvNo = "INV-113"
	require.NoError(t, repo.UpsertBatch(ctx, []models.OutstandingLedger{{
		CustomerName:   "Globex Retail",
		CreditLimit:    60000,
		ClosingBalance: 1000,
		Bills:          []models.Bill{bill, newBill},
	}}))

	ledgers, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	require.Equal(t, 60000.0, ledgers[0].CreditLimit)
	require.Len(t, ledgers[0].Bills, 2)

	// a second identical run changes nothing
	require.NoError(t, repo.UpsertBatch(ctx, []models.OutstandingLedger{{
		CustomerName:   "Globex Retail",
		CreditLimit:    60000,
		ClosingBalance: 1000,
		Bills:          []models.Bill{bill, newBill},
	}}))
	ledgers, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, ledgers[0].Bills, 2)
}

func TestStatementUpsertAddsOnlyNewVouchers(t *testing.T) {
	db := testDB(t)
	repo := NewStatementRepository(db)
	ctx := context.Background()

	voucher := models.LedgerVoucher{
		VoucherNo: "2025-0009", Date: "2-Apr-2025", DebitAmount: 5000,
	}
	require.NoError(t, repo.InsertBatch(ctx, []models.LedgerStatement{{
		Party:    "Globex Retail",
		Vouchers: []models.LedgerVoucher{voucher},
	}}))

	next := voucher
	next.VoucherNo = "2025-0010"
	require.NoError(t, repo.UpsertBatch(ctx, []models.LedgerStatement{{
		Party:          "Globex Retail",
		ClosingBalance: -3200,
		Vouchers:       []models.LedgerVoucher{voucher, next},
	}}))

	statement, err := repo.GetByParty(ctx, "Globex Retail")
	require.NoError(t, err)
	require.NotNil(t, statement)
	require.Equal(t, -3200.0, statement.ClosingBalance)
	require.Len(t, statement.Vouchers, 2)
}

func TestSyncControlMissingRowFailsClosed(t *testing.T) {
	db := testDB(t)
	repo := NewSyncControlRepository(db)
	ctx := context.Background()

	setting, err := repo.Get(ctx, models.ModuleProducts)
	require.NoError(t, err)
	require.False(t, setting.IsAutoSyncEnabled)
	require.False(t, setting.IsManualSyncEnabled)

	require.NoError(t, repo.Upsert(ctx, models.SyncControlSetting{
		ModuleName:          models.ModuleProducts,
		IsManualSyncEnabled: true,
	}))
	setting, err = repo.Get(ctx, models.ModuleProducts)
	require.NoError(t, err)
	require.True(t, setting.IsManualSyncEnabled)
	require.False(t, setting.IsAutoSyncEnabled)
}

func TestOrderRepositoryMaxOrderNoForYear(t *testing.T) {
	db := testDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	max, err := repo.MaxOrderNoForYear(ctx, 2025)
	require.NoError(t, err)
	require.Equal(t, "", max)

	for _, no := range []string{"2025-0001", "2025-0042", "2024-0099"} {
		_, err := repo.Create(ctx, models.Order{OrderNo: no})
		require.NoError(t, err)
	}

	max, err = repo.MaxOrderNoForYear(ctx, 2025)
	require.NoError(t, err)
	require.Equal(t, "2025-0042", max)
}

func TestInvoiceRepositoryPendingLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, models.PendingInvoice{OrderID: "o1", UserID: "u1", XMLContent: "<ENVELOPE/>"})
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusPending, first.Status)

	_, err = repo.Create(ctx, models.PendingInvoice{OrderID: "o2", UserID: "u2", XMLContent: "<ENVELOPE/>"})
	require.NoError(t, err)

	mine, err := repo.ListPending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, err := repo.ListAllPending(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, first.ID))
	all, err = repo.ListAllPending(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
