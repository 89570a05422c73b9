package returns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/db"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

func setupReturnsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	returnsTable := `
CREATE TABLE returns (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  upstream_id TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  label_url TEXT,
  response TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(returnsTable).Error)
	return gdb
}

func seedReturn(t *testing.T, repo Repository, status enums.ReturnStatus) *models.Return {
	t.Helper()
	ret, err := repo.Create(context.Background(), &models.Return{
		OrderID:    uuid.New(),
		UpstreamID: uuid.NewString(),
		Status:     status,
	})
	require.NoError(t, err)
	return ret
}

func TestReturnsRepoCreateAndFind(t *testing.T) {
	repo := NewRepository(setupReturnsTestDB(t))

	created := seedReturn(t, repo, enums.ReturnStatusPending)

	byID, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderID, byID.OrderID)

	byOrder, err := repo.FindByOrderID(context.Background(), created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byOrder.ID)

	byUpstream, err := repo.FindByUpstreamID(context.Background(), created.UpstreamID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUpstream.ID)

	_, err = repo.FindByOrderID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReturnsRepoOnePerOrder(t *testing.T) {
	repo := NewRepository(setupReturnsTestDB(t))

	first := seedReturn(t, repo, enums.ReturnStatusPending)

	_, err := repo.Create(context.Background(), &models.Return{
		OrderID:    first.OrderID,
		UpstreamID: uuid.NewString(),
		Status:     enums.ReturnStatusPending,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "returns_order_id_key"))
}

func TestReturnsRepoFindByStatuses(t *testing.T) {
	repo := NewRepository(setupReturnsTestDB(t))

	seedReturn(t, repo, enums.ReturnStatusPending)
	seedReturn(t, repo, enums.ReturnStatusInProgress)
	seedReturn(t, repo, enums.ReturnStatusLabelGenerated)
	seedReturn(t, repo, enums.ReturnStatus("shipped"))

	pollable, err := repo.FindByStatuses(context.Background(), enums.PollableReturnStatuses())
	require.NoError(t, err)
	require.Len(t, pollable, 2)
}

func TestReturnsRepoListPaginates(t *testing.T) {
	gdb := setupReturnsTestDB(t)
	repo := NewRepository(gdb)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		ret := seedReturn(t, repo, enums.ReturnStatusPending)
		require.NoError(t, gdb.Model(&models.Return{}).Where("id = ?", ret.ID).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	first, next, err := repo.List(context.Background(), pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, next)

	second, last, err := repo.List(context.Background(), pagination.Params{
		Limit:  2,
		Cursor: pagination.EncodeCursor(*next),
	})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Nil(t, last)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[1].ID, second[0].ID)
}

func TestReturnsRepoUpdateLabel(t *testing.T) {
	repo := NewRepository(setupReturnsTestDB(t))

	ret := seedReturn(t, repo, enums.ReturnStatusInProgress)

	label := "https://labels.example.com/ret-1.pdf"
	require.NoError(t, repo.Update(context.Background(), ret.ID, map[string]any{
		"status":    enums.ReturnStatusLabelGenerated,
		"label_url": label,
		"response":  types.JSONMap{"_type": "return_response", "return_label_url": label},
	}))

	found, err := repo.FindByID(context.Background(), ret.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReturnStatusLabelGenerated, found.Status)
	require.NotNil(t, found.LabelURL)
	assert.Equal(t, label, *found.LabelURL)
	assert.Equal(t, label, found.Response.String("return_label_url"))
}
