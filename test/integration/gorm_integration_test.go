package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/Tusharjain-19/split-payment/internal/repository/unitofwork"
	"github.com/Tusharjain-19/split-payment/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.MasterTransactionRepository())
	assert.NotNil(t, uow.SubTransactionRepository())
	assert.NotNil(t, uow.RefundRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Transactional master plus legs", func(t *testing.T) {
		ctx := context.Background()
		uow := uowFactory.NewUnitOfWork(ctx)

		masterId := uuid.New()
		master := &entity.MasterTransaction{
			Id:          masterId,
			PayerId:     "integration-payer",
			PayerEmail:  "integration-" + masterId.String()[:8] + "@example.com",
			TotalAmount: 250,
			Status:      entity.MasterStatusPending,
			ExpiresAt:   time.Now().Add(20 * time.Minute),
		}
		sub := &entity.SubTransaction{
			Id:          uuid.New(),
			MasterTxnId: masterId,
			SourceType:  "upi",
			Amount:      250,
			Status:      entity.SubStatusInitiated,
		}

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.MasterTransactionRepository().Create(ctx, master))
		require.NoError(t, uow.SubTransactionRepository().Create(ctx, sub))
		require.NoError(t, uow.Commit())

		found, err := uow.MasterTransactionRepository().FindOne(ctx, specification.ByID{ID: masterId})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.MasterStatusPending, found.Status)

		legs, err := uow.SubTransactionRepository().FindAll(ctx, specification.ByMasterTxn{MasterTxnID: masterId})
		require.NoError(t, err)
		assert.Len(t, legs, 1)
	})

	t.Run("Rollback discards writes", func(t *testing.T) {
		ctx := context.Background()
		uow := uowFactory.NewUnitOfWork(ctx)

		masterId := uuid.New()
		master := &entity.MasterTransaction{
			Id:          masterId,
			PayerId:     "integration-payer",
			PayerEmail:  "rollback-" + masterId.String()[:8] + "@example.com",
			TotalAmount: 100,
			Status:      entity.MasterStatusPending,
			ExpiresAt:   time.Now().Add(20 * time.Minute),
		}

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.MasterTransactionRepository().Create(ctx, master))
		require.NoError(t, uow.Rollback())

		found, err := uow.MasterTransactionRepository().FindOne(ctx, specification.ByID{ID: masterId})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
