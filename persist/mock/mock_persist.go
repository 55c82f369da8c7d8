// Package mock holds hand-written GoMock-style doubles for the persist
// package's two interfaces, shaped the way `mockgen -typed=true` would
// produce them (see cl/phase1/network/services/mock_services in the
// retrieval pack) — written by hand here rather than generated, since
// nothing in this module's build ever invokes mockgen.
package mock

import (
	net "net"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"

	"github.com/cjgreenaway/rubbem/message"
	"github.com/cjgreenaway/rubbem/persist"
)

// MockKnownNodes is a mock of the persist.KnownNodes interface.
type MockKnownNodes struct {
	ctrl     *gomock.Controller
	recorder *MockKnownNodesMockRecorder
}

type MockKnownNodesMockRecorder struct {
	mock *MockKnownNodes
}

func NewMockKnownNodes(ctrl *gomock.Controller) *MockKnownNodes {
	mock := &MockKnownNodes{ctrl: ctrl}
	mock.recorder = &MockKnownNodesMockRecorder{mock}
	return mock
}

func (m *MockKnownNodes) EXPECT() *MockKnownNodesMockRecorder {
	return m.recorder
}

func (m *MockKnownNodes) Len() int {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Len")
	ret0, _ := ret[0].(int)
	return ret0
}

func (mr *MockKnownNodesMockRecorder) Len() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Len", reflect.TypeOf((*MockKnownNodes)(nil).Len))
}

func (m *MockKnownNodes) PickRandom() (persist.KnownNode, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PickRandom")
	ret0, _ := ret[0].(persist.KnownNode)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

func (mr *MockKnownNodesMockRecorder) PickRandom() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PickRandom", reflect.TypeOf((*MockKnownNodes)(nil).PickRandom))
}

func (m *MockKnownNodes) Add(stream uint32, services uint64, addr *net.TCPAddr) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Add", stream, services, addr)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockKnownNodesMockRecorder) Add(stream, services, addr any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Add", reflect.TypeOf((*MockKnownNodes)(nil).Add), stream, services, addr)
}

func (m *MockKnownNodes) Snapshot() []persist.KnownNode {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Snapshot")
	ret0, _ := ret[0].([]persist.KnownNode)
	return ret0
}

func (mr *MockKnownNodesMockRecorder) Snapshot() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Snapshot", reflect.TypeOf((*MockKnownNodes)(nil).Snapshot))
}

var _ persist.KnownNodes = (*MockKnownNodes)(nil)

// MockInventory is a mock of the persist.Inventory interface.
type MockInventory struct {
	ctrl     *gomock.Controller
	recorder *MockInventoryMockRecorder
}

type MockInventoryMockRecorder struct {
	mock *MockInventory
}

func NewMockInventory(ctrl *gomock.Controller) *MockInventory {
	mock := &MockInventory{ctrl: ctrl}
	mock.recorder = &MockInventoryMockRecorder{mock}
	return mock
}

func (m *MockInventory) EXPECT() *MockInventoryMockRecorder {
	return m.recorder
}

func (m *MockInventory) Contains(hash message.InventoryVector) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Contains", hash)
	ret0, _ := ret[0].(bool)
	return ret0
}

func (mr *MockInventoryMockRecorder) Contains(hash any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Contains", reflect.TypeOf((*MockInventory)(nil).Contains), hash)
}

func (m *MockInventory) Insert(hash message.InventoryVector, objectBytes []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", hash, objectBytes)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockInventoryMockRecorder) Insert(hash, objectBytes any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockInventory)(nil).Insert), hash, objectBytes)
}

func (m *MockInventory) IterHashes() []message.InventoryVector {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IterHashes")
	ret0, _ := ret[0].([]message.InventoryVector)
	return ret0
}

func (mr *MockInventoryMockRecorder) IterHashes() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IterHashes", reflect.TypeOf((*MockInventory)(nil).IterHashes))
}

var _ persist.Inventory = (*MockInventory)(nil)
