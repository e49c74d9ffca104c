package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vellumlang/phpfront/index"
)

type fakeDriver struct{ name string }

func (f *fakeDriver) Name() string { return f.name }
func (f *fakeDriver) Open(map[string]string) (Store, error) { return &fakeStore{}, nil }

type fakeStore struct{}

func (*fakeStore) Store(*index.Snapshot) error       { return nil }
func (*fakeStore) Load() (*index.Snapshot, error)    { return &index.Snapshot{}, nil }
func (*fakeStore) Close() error                      { return nil }

func TestRegisterAndGet(t *testing.T) {
	Register(&fakeDriver{name: "fake-for-test"})
	drv, ok := Get("fake-for-test")
	assert.True(t, ok)
	assert.Equal(t, "fake-for-test", drv.Name())
}

func TestGetUnknownDriver(t *testing.T) {
	_, ok := Get("does-not-exist")
	assert.False(t, ok)
}
