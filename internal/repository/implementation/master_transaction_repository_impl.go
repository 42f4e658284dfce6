package implementation

import (
	"context"

	"github.com/Tusharjain-19/split-payment/internal/entity"
	"github.com/Tusharjain-19/split-payment/internal/model"
	"github.com/Tusharjain-19/split-payment/internal/repository/contract"
	"github.com/Tusharjain-19/split-payment/internal/repository/specification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type masterTransactionRepositoryImpl struct {
	db *gorm.DB
}

func NewMasterTransactionRepository(db *gorm.DB) contract.MasterTransactionRepository {
	return &masterTransactionRepositoryImpl{db: db}
}

func (r *masterTransactionRepositoryImpl) Create(ctx context.Context, master *entity.MasterTransaction) error {
	modelMaster := &model.MasterTransaction{
		Id:          master.Id,
		PayerId:     master.PayerId,
		PayerEmail:  master.PayerEmail,
		TotalAmount: master.TotalAmount,
		Status:      string(master.Status),
		ExpiresAt:   master.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(modelMaster).Error
}

func (r *masterTransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MasterTransaction, error) {
	var modelMaster model.MasterTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&modelMaster).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&modelMaster), nil
}

func (r *masterTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MasterTransaction, error) {
	var modelMasters []*model.MasterTransaction
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelMasters).Error; err != nil {
		return nil, err
	}

	var masters []*entity.MasterTransaction
	for _, mm := range modelMasters {
		masters = append(masters, r.mapToEntity(mm))
	}

	return masters, nil
}

func (r *masterTransactionRepositoryImpl) FindAllWithLegs(ctx context.Context, specs ...specification.Specification) ([]*entity.MasterTransaction, error) {
	var modelMasters []*model.MasterTransaction
	query := r.db.WithContext(ctx).Preload("SubTransactions")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&modelMasters).Error; err != nil {
		return nil, err
	}

	var masters []*entity.MasterTransaction
	for _, mm := range modelMasters {
		master := r.mapToEntity(mm)
		for i := range mm.SubTransactions {
			master.SubTransactions = append(master.SubTransactions, mapSubToEntity(&mm.SubTransactions[i]))
		}
		masters = append(masters, master)
	}

	return masters, nil
}

func (r *masterTransactionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.MasterStatus) error {
	return r.db.WithContext(ctx).Model(&model.MasterTransaction{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *masterTransactionRepositoryImpl) mapToEntity(mm *model.MasterTransaction) *entity.MasterTransaction {
	return &entity.MasterTransaction{
		Id:          mm.Id,
		PayerId:     mm.PayerId,
		PayerEmail:  mm.PayerEmail,
		TotalAmount: mm.TotalAmount,
		Status:      entity.MasterStatus(mm.Status),
		ExpiresAt:   mm.ExpiresAt,
		CreatedAt:   mm.CreatedAt,
		UpdatedAt:   mm.UpdatedAt,
	}
}
