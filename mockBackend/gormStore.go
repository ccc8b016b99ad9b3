package mockBackend

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NewGormStore 数据库存储,启动时自动建表
func NewGormStore(gdb *gorm.DB) (*Store, error) {
	err := gdb.AutoMigrate(
		&User{}, &Registration{}, &Customer{}, &FollowUp{}, &BusinessOrder{}, &Appointment{},
		&MedicalRecord{}, &Prescription{}, &PhysicalExam{}, &MedicalOrder{}, &Execution{}, &Permission{},
	)
	if err != nil {
		return nil, fmt.Errorf("自动建表失败: %w", err)
	}
	return &Store{
		Users:          &gormTable[User]{db: gdb},
		Registrations:  &gormTable[Registration]{db: gdb},
		Customers:      &gormTable[Customer]{db: gdb},
		FollowUps:      &gormTable[FollowUp]{db: gdb},
		BusinessOrders: &gormTable[BusinessOrder]{db: gdb},
		Appointments:   &gormTable[Appointment]{db: gdb},
		Records:        &gormTable[MedicalRecord]{db: gdb},
		Prescriptions:  &gormTable[Prescription]{db: gdb},
		Exams:          &gormTable[PhysicalExam]{db: gdb},
		Orders:         &gormTable[MedicalOrder]{db: gdb},
		Executions:     &gormTable[Execution]{db: gdb},
		Permissions:    &gormTable[Permission]{db: gdb},
	}, nil
}

// gormTable 过滤条件是go函数,查询全表后在内存中过滤
type gormTable[T any] struct {
	db *gorm.DB
}

func (t *gormTable[T]) Insert(row *T) error {
	m, err := asModel(row)
	if err != nil {
		return err
	}
	m.SetId(0)
	stampCreatedAt(m)
	return t.db.Create(row).Error
}

func (t *gormTable[T]) Get(id uint64) (*T, error) {
	row := new(T)
	err := t.db.First(row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (t *gormTable[T]) Save(row *T) error {
	m, err := asModel(row)
	if err != nil {
		return err
	}
	if m.GetId() == 0 {
		return ErrNotFound
	}
	return t.db.Save(row).Error
}

func (t *gormTable[T]) Delete(id uint64) error {
	res := t.db.Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTable[T]) Find(match func(*T) bool) ([]*T, error) {
	var rows []*T
	if err := t.db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	if match == nil {
		return rows, nil
	}
	res := make([]*T, 0, len(rows))
	for _, row := range rows {
		if match(row) {
			res = append(res, row)
		}
	}
	return res, nil
}
