package mockBackend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sgzs6721/mediflow-front/db"
)

var ErrNotFound = errors.New("record not found")

// Table 单表存取
type Table[T any] interface {
	Insert(row *T) error
	Get(id uint64) (*T, error)
	Save(row *T) error
	Delete(id uint64) error
	Find(match func(*T) bool) ([]*T, error)
}

// Store 模拟后端的全部数据
type Store struct {
	Users          Table[User]
	Registrations  Table[Registration]
	Customers      Table[Customer]
	FollowUps      Table[FollowUp]
	BusinessOrders Table[BusinessOrder]
	Appointments   Table[Appointment]
	Records        Table[MedicalRecord]
	Prescriptions  Table[Prescription]
	Exams          Table[PhysicalExam]
	Orders         Table[MedicalOrder]
	Executions     Table[Execution]
	Permissions    Table[Permission]
}

// NewMemoryStore 内存存储
func NewMemoryStore() *Store {
	return &Store{
		Users:          newMemoryTable[User](),
		Registrations:  newMemoryTable[Registration](),
		Customers:      newMemoryTable[Customer](),
		FollowUps:      newMemoryTable[FollowUp](),
		BusinessOrders: newMemoryTable[BusinessOrder](),
		Appointments:   newMemoryTable[Appointment](),
		Records:        newMemoryTable[MedicalRecord](),
		Prescriptions:  newMemoryTable[Prescription](),
		Exams:          newMemoryTable[PhysicalExam](),
		Orders:         newMemoryTable[MedicalOrder](),
		Executions:     newMemoryTable[Execution](),
		Permissions:    newMemoryTable[Permission](),
	}
}

// First 第一条匹配的数据
func First[T any](t Table[T], match func(*T) bool) (*T, error) {
	rows, err := t.Find(match)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func asModel(row any) (Model, error) {
	m, ok := row.(Model)
	if !ok {
		return nil, fmt.Errorf("%T未实现Model", row)
	}
	return m, nil
}

func stampCreatedAt(m Model) {
	if created := m.GetCreatedAt(); created.IsZero() {
		m.SetCreatedAt(db.LocalTime(time.Now().Truncate(time.Second)))
	}
}

// ---------- 内存表 ----------

type memoryTable[T any] struct {
	mu   sync.RWMutex
	seq  uint64
	rows map[uint64]*T
}

func newMemoryTable[T any]() *memoryTable[T] {
	return &memoryTable[T]{rows: make(map[uint64]*T)}
}

func (t *memoryTable[T]) Insert(row *T) error {
	m, err := asModel(row)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	m.SetId(t.seq)
	stampCreatedAt(m)
	cp := *row
	t.rows[t.seq] = &cp
	return nil
}

func (t *memoryTable[T]) Get(id uint64) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (t *memoryTable[T]) Save(row *T) error {
	m, err := asModel(row)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[m.GetId()]; !ok {
		return ErrNotFound
	}
	cp := *row
	t.rows[m.GetId()] = &cp
	return nil
}

func (t *memoryTable[T]) Delete(id uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *memoryTable[T]) Find(match func(*T) bool) ([]*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]uint64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	res := make([]*T, 0)
	for _, id := range ids {
		row := t.rows[id]
		if match == nil || match(row) {
			cp := *row
			res = append(res, &cp)
		}
	}
	return res, nil
}
