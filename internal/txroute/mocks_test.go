package txroute

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// TransactionSourceMock is a mock type for the TransactionSource type.
type TransactionSourceMock struct {
	mock.Mock
}

type TransactionSourceMock_Expecter struct {
	mock *mock.Mock
}

func (_m *TransactionSourceMock) EXPECT() *TransactionSourceMock_Expecter {
	return &TransactionSourceMock_Expecter{mock: &_m.Mock}
}

func (_m *TransactionSourceMock) FetchSince(ctx context.Context, watermark uint64) ([]MempoolTransaction, error) {
	ret := _m.Called(ctx, watermark)

	if rf, ok := ret.Get(0).(func(context.Context, uint64) ([]MempoolTransaction, error)); ok {
		return rf(ctx, watermark)
	}

	var r0 []MempoolTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]MempoolTransaction)
	}
	return r0, ret.Error(1)
}

type TransactionSourceMock_FetchSince_Call struct {
	*mock.Call
}

func (_e *TransactionSourceMock_Expecter) FetchSince(ctx any, watermark any) *TransactionSourceMock_FetchSince_Call {
	return &TransactionSourceMock_FetchSince_Call{Call: _e.mock.On("FetchSince", ctx, watermark)}
}

func (_c *TransactionSourceMock_FetchSince_Call) Return(txs []MempoolTransaction, err error) *TransactionSourceMock_FetchSince_Call {
	_c.Call.Return(txs, err)
	return _c
}

func (_c *TransactionSourceMock_FetchSince_Call) RunAndReturn(run func(context.Context, uint64) ([]MempoolTransaction, error)) *TransactionSourceMock_FetchSince_Call {
	_c.Call.Return(run)
	return _c
}

func NewTransactionSourceMock(t mockT) *TransactionSourceMock {
	m := &TransactionSourceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WatermarkStorageMock is a mock type for the WatermarkStorage type.
type WatermarkStorageMock struct {
	mock.Mock
}

type WatermarkStorageMock_Expecter struct {
	mock *mock.Mock
}

func (_m *WatermarkStorageMock) EXPECT() *WatermarkStorageMock_Expecter {
	return &WatermarkStorageMock_Expecter{mock: &_m.Mock}
}

func (_m *WatermarkStorageMock) LoadWatermark(ctx context.Context) (uint64, error) {
	ret := _m.Called(ctx)

	if rf, ok := ret.Get(0).(func(context.Context) (uint64, error)); ok {
		return rf(ctx)
	}
	return ret.Get(0).(uint64), ret.Error(1)
}

type WatermarkStorageMock_LoadWatermark_Call struct {
	*mock.Call
}

func (_e *WatermarkStorageMock_Expecter) LoadWatermark(ctx any) *WatermarkStorageMock_LoadWatermark_Call {
	return &WatermarkStorageMock_LoadWatermark_Call{Call: _e.mock.On("LoadWatermark", ctx)}
}

func (_c *WatermarkStorageMock_LoadWatermark_Call) Return(watermark uint64, err error) *WatermarkStorageMock_LoadWatermark_Call {
	_c.Call.Return(watermark, err)
	return _c
}

func (_m *WatermarkStorageMock) SaveWatermark(ctx context.Context, watermark uint64) error {
	ret := _m.Called(ctx, watermark)

	if rf, ok := ret.Get(0).(func(context.Context, uint64) error); ok {
		return rf(ctx, watermark)
	}
	return ret.Error(0)
}

type WatermarkStorageMock_SaveWatermark_Call struct {
	*mock.Call
}

func (_e *WatermarkStorageMock_Expecter) SaveWatermark(ctx any, watermark any) *WatermarkStorageMock_SaveWatermark_Call {
	return &WatermarkStorageMock_SaveWatermark_Call{Call: _e.mock.On("SaveWatermark", ctx, watermark)}
}

func (_c *WatermarkStorageMock_SaveWatermark_Call) Return(err error) *WatermarkStorageMock_SaveWatermark_Call {
	_c.Call.Return(err)
	return _c
}

func NewWatermarkStorageMock(t mockT) *WatermarkStorageMock {
	m := &WatermarkStorageMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ArchiveStorageMock is a mock type for the ArchiveStorage type.
type ArchiveStorageMock struct {
	mock.Mock
}

type ArchiveStorageMock_Expecter struct {
	mock *mock.Mock
}

func (_m *ArchiveStorageMock) EXPECT() *ArchiveStorageMock_Expecter {
	return &ArchiveStorageMock_Expecter{mock: &_m.Mock}
}

func (_m *ArchiveStorageMock) LoadArchive(ctx context.Context) ([]MempoolTransaction, error) {
	ret := _m.Called(ctx)

	if rf, ok := ret.Get(0).(func(context.Context) ([]MempoolTransaction, error)); ok {
		return rf(ctx)
	}

	var r0 []MempoolTransaction
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]MempoolTransaction)
	}
	return r0, ret.Error(1)
}

type ArchiveStorageMock_LoadArchive_Call struct {
	*mock.Call
}

func (_e *ArchiveStorageMock_Expecter) LoadArchive(ctx any) *ArchiveStorageMock_LoadArchive_Call {
	return &ArchiveStorageMock_LoadArchive_Call{Call: _e.mock.On("LoadArchive", ctx)}
}

func (_c *ArchiveStorageMock_LoadArchive_Call) Return(txs []MempoolTransaction, err error) *ArchiveStorageMock_LoadArchive_Call {
	_c.Call.Return(txs, err)
	return _c
}

func (_m *ArchiveStorageMock) SaveArchive(ctx context.Context, txs []MempoolTransaction) error {
	ret := _m.Called(ctx, txs)

	if rf, ok := ret.Get(0).(func(context.Context, []MempoolTransaction) error); ok {
		return rf(ctx, txs)
	}
	return ret.Error(0)
}

type ArchiveStorageMock_SaveArchive_Call struct {
	*mock.Call
}

func (_e *ArchiveStorageMock_Expecter) SaveArchive(ctx any, txs any) *ArchiveStorageMock_SaveArchive_Call {
	return &ArchiveStorageMock_SaveArchive_Call{Call: _e.mock.On("SaveArchive", ctx, txs)}
}

func (_c *ArchiveStorageMock_SaveArchive_Call) Return(err error) *ArchiveStorageMock_SaveArchive_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *ArchiveStorageMock_SaveArchive_Call) RunAndReturn(run func(context.Context, []MempoolTransaction) error) *ArchiveStorageMock_SaveArchive_Call {
	_c.Call.Return(run)
	return _c
}

func NewArchiveStorageMock(t mockT) *ArchiveStorageMock {
	m := &ArchiveStorageMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// PartitionStorageMock is a mock type for the PartitionStorage type.
// Variadic arguments are matched as a single slice.
type PartitionStorageMock struct {
	mock.Mock
}

type PartitionStorageMock_Expecter struct {
	mock *mock.Mock
}

func (_m *PartitionStorageMock) EXPECT() *PartitionStorageMock_Expecter {
	return &PartitionStorageMock_Expecter{mock: &_m.Mock}
}

func (_m *PartitionStorageMock) Merge(ctx context.Context, key string, txs ...MempoolTransaction) error {
	ret := _m.Called(ctx, key, txs)

	if rf, ok := ret.Get(0).(func(context.Context, string, ...MempoolTransaction) error); ok {
		return rf(ctx, key, txs...)
	}
	return ret.Error(0)
}

type PartitionStorageMock_Merge_Call struct {
	*mock.Call
}

func (_e *PartitionStorageMock_Expecter) Merge(ctx any, key any, txs any) *PartitionStorageMock_Merge_Call {
	return &PartitionStorageMock_Merge_Call{Call: _e.mock.On("Merge", ctx, key, txs)}
}

func (_c *PartitionStorageMock_Merge_Call) Return(err error) *PartitionStorageMock_Merge_Call {
	_c.Call.Return(err)
	return _c
}

func NewPartitionStorageMock(t mockT) *PartitionStorageMock {
	m := &PartitionStorageMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// PartitionCatalogMock is a mock type for the PartitionCatalog type.
type PartitionCatalogMock struct {
	mock.Mock
}

type PartitionCatalogMock_Expecter struct {
	mock *mock.Mock
}

func (_m *PartitionCatalogMock) EXPECT() *PartitionCatalogMock_Expecter {
	return &PartitionCatalogMock_Expecter{mock: &_m.Mock}
}

func (_m *PartitionCatalogMock) ListPartitions(ctx context.Context) ([]PartitionInfo, error) {
	ret := _m.Called(ctx)

	var r0 []PartitionInfo
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]PartitionInfo)
	}
	return r0, ret.Error(1)
}

type PartitionCatalogMock_ListPartitions_Call struct {
	*mock.Call
}

func (_e *PartitionCatalogMock_Expecter) ListPartitions(ctx any) *PartitionCatalogMock_ListPartitions_Call {
	return &PartitionCatalogMock_ListPartitions_Call{Call: _e.mock.On("ListPartitions", ctx)}
}

func (_c *PartitionCatalogMock_ListPartitions_Call) Return(partitions []PartitionInfo, err error) *PartitionCatalogMock_ListPartitions_Call {
	_c.Call.Return(partitions, err)
	return _c
}

func NewPartitionCatalogMock(t mockT) *PartitionCatalogMock {
	m := &PartitionCatalogMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
