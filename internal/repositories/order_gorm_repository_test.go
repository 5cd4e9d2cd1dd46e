package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokotopup/internal/models"
)

func newSQLiteRepo(t *testing.T) OrderRepository {
	t.Helper()
	repo, err := OpenOrderRepository(StoreSQLite, "", filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	return repo
}

func TestGORMOrderRepository(t *testing.T) {
	repo := newSQLiteRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	first := &models.Order{
		ID:        "G1",
		ReffID:    "REF1",
		Nominal:   20000,
		Status:    "pending",
		CreatedAt: now,
		ExpiredAt: now.Add(time.Hour),
		Product:   map[string]interface{}{"code": "FF10", "price": float64(2000)},
		Fee:       float64(150),
	}
	second := &models.Order{ID: "G2", Status: "pending", CreatedAt: now.Add(time.Minute)}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	orders, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "G1", orders[0].ID)
	assert.Equal(t, "G2", orders[1].ID)

	got, err := repo.GetByID("G1")
	require.NoError(t, err)
	assert.Equal(t, "REF1", got.ReffID)
	assert.Equal(t, map[string]interface{}{"code": "FF10", "price": float64(2000)}, got.Product)
	assert.Equal(t, float64(150), got.Fee)

	require.NoError(t, repo.UpdateStatus("G1", "success"))
	got, err = repo.GetByID("G1")
	require.NoError(t, err)
	assert.Equal(t, "success", got.Status)

	assert.ErrorIs(t, repo.UpdateStatus("missing", "x"), ErrOrderNotFound)
	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	require.NoError(t, repo.Delete("G1"))
	require.NoError(t, repo.Delete("G1"))
	orders, err = repo.GetAll()
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestGORMCreateAssignsID(t *testing.T) {
	repo := newSQLiteRepo(t)
	order := &models.Order{Status: "pending"}
	require.NoError(t, repo.Create(order))
	assert.Len(t, order.ID, 12)
}

func TestOpenOrderRepository(t *testing.T) {
	repo, err := OpenOrderRepository("", filepath.Join(t.TempDir(), "orders.json"), "")
	require.NoError(t, err)
	assert.IsType(t, &FileOrderRepository{}, repo)

	_, err = OpenOrderRepository("redis", "", "")
	assert.Error(t, err)
}

func TestMockOrderRepository(t *testing.T) {
	repo := NewMockOrderRepository()
	require.NoError(t, repo.Create(&models.Order{ID: "M1", Status: "pending"}))
	require.NoError(t, repo.Create(&models.Order{ID: "M2", Status: "pending"}))

	require.NoError(t, repo.UpdateStatus("M2", "success"))
	assert.ErrorIs(t, repo.UpdateStatus("M3", "success"), ErrOrderNotFound)

	got, err := repo.GetByID("M2")
	require.NoError(t, err)
	assert.Equal(t, "success", got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.Delete("M1"))
	orders, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "M2", orders[0].ID)
}
